package sat

// attachWatched selects the Pueblo-style watched subset: the leading
// (highest-coefficient, since terms are sorted descending) terms whose
// coefficients sum to more than k. That subset is the minimal prefix for
// which a single term becoming false can possibly matter to the bound, so
// only those terms need a watch — the rest can be ignored until swapped
// in. This is spec.md §4.3's second PB representation.
func (p *pbConstraint) attachWatched(s *Solver) {
	cum := 0
	i := 0
	for i < len(p.terms) {
		cum += p.terms[i].coeff
		i++
		if cum > p.k {
			break
		}
	}
	p.watchedPrefix = i
	for j := 0; j < p.watchedPrefix; j++ {
		s.watch(p, p.terms[j].lit.Opposite(), noGuard)
	}
}

// propagateWatched is notified when some watched term's literal l.Opposite()
// is falsified. It first tries to restore the watched-subset invariant by
// swapping in an unwatched term that is still true or unassigned; failing
// that, it falls back to re-watching l directly. Either way it finishes
// with the same authoritative slack recomputation the counter
// representation uses, so both representations are required to agree on
// every forced literal and every conflict (spec.md §4.3).
func (p *pbConstraint) propagateWatched(s *Solver, l Literal) bool {
	falsified := l.Opposite()

	idx := -1
	for i := 0; i < p.watchedPrefix; i++ {
		if p.terms[i].lit == falsified {
			idx = i
			break
		}
	}

	if idx >= 0 {
		for j := p.watchedPrefix; j < len(p.terms); j++ {
			if s.litValue(p.terms[j].lit) != False {
				p.terms[idx], p.terms[j] = p.terms[j], p.terms[idx]
				s.watch(p, p.terms[idx].lit.Opposite(), noGuard)
				return p.checkAndPropagate(s)
			}
		}
	}

	s.watch(p, l, noGuard)
	return p.checkAndPropagate(s)
}
