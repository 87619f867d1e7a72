package sat

// restartState tracks the conflict-count limit for the next restart, per
// spec.md §4.5. The learnt-clause-count limit for reduce-DB is kept by the
// Solver (learntLimit), not here.
type restartState struct {
	opts Options

	strategy   RestartStrategy
	first      int
	inc        float64
	lubyIdx    int64
	conflicts  int64 // total conflicts at the start of the current run

	lbdShort *EMA // fast-moving average of recent learnt clause LBDs
	lbdLong  *EMA // slow-moving average; no restart decision reads either
}

func newRestartState(opts Options) *restartState {
	first := opts.RestartFirst
	if first <= 0 {
		first = 100
	}
	inc := opts.RestartInc
	if inc <= 1 {
		inc = 1.5
	}
	short := NewEMA(0.02)
	long := NewEMA(0.9999)
	return &restartState{
		opts:     opts,
		strategy: opts.RestartStrategy,
		first:    first,
		inc:      inc,
		lbdShort: &short,
		lbdLong:  &long,
	}
}

// reset is called at the start of every Solve/SolveWith call.
func (r *restartState) reset() {
	r.lubyIdx = 0
}

// next returns the conflict-count budget for the upcoming run of search().
func (r *restartState) next() int64 {
	r.lubyIdx++
	switch r.strategy {
	case RestartLuby:
		return int64(float64(r.first) * luby(r.inc, r.lubyIdx))
	case RestartArmin:
		// Inner/outer geometric: the inner sequence grows geometrically
		// until it exceeds the outer limit, at which point the outer
		// limit itself grows and the inner sequence resets.
		return r.arminNext()
	default: // RestartMiniSAT
		limit := float64(r.first)
		for i := int64(1); i < r.lubyIdx; i++ {
			limit *= r.inc
		}
		return int64(limit)
	}
}

func (r *restartState) arminNext() int64 {
	inner := float64(r.first)
	outer := float64(r.first) * 100
	n := r.lubyIdx
	for n > 0 {
		for inner < outer {
			if n == 1 {
				return int64(inner)
			}
			inner *= r.inc
			n--
			if n == 0 {
				return int64(inner)
			}
		}
		inner = float64(r.first)
		outer *= r.inc
	}
	return int64(inner)
}

// luby returns factor raised to the exponent of the n-th (0-based) term of
// the Luby sequence; for factor 2 that is the sequence itself:
// 1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8, ...
func luby(factor float64, n int64) float64 {
	// Find the finite Luby subsequence of length 2^k - 1 containing n.
	var size int64 = 1
	var seq int64 = 0
	for size < n+1 {
		seq++
		size = 2*size + 1
	}
	for size-1 != n {
		size = (size - 1) / 2
		seq--
		n = n % size
	}
	result := 1.0
	for i := int64(0); i < seq; i++ {
		result *= factor
	}
	return result
}

// observeLearnt feeds a newly learnt clause's LBD into the short- and
// long-term averages. Neither the restart limits nor the learnt-DB size
// read these averages.
func (r *restartState) observeLearnt(lbd uint32) {
	r.lbdShort.Add(float64(lbd))
	r.lbdLong.Add(float64(lbd))
}
