package sat

import "sort"

// pbTerm is one (coefficient, literal) pair of a PB constraint. Coefficients
// are always positive; a negative-coefficient term is normalized away at
// construction time (see normalizePB).
type pbTerm struct {
	coeff int
	lit   Literal
}

// pbConstraint represents Σ cᵢ·xᵢ ≥ k over 0/1 literals xᵢ (spec.md §3). Both
// the counter-based and Pueblo-style watched representations named in
// spec.md §4.3 are realized by this single type: checkAndPropagate is the
// authoritative truth (a full recompute of the slack), while attach/
// propagate differ only in how many of the constraint's literals are
// subscribed to notifications — a performance characteristic, not a
// semantic one, which is exactly why spec.md §4.3 requires that "both must
// produce the same forced literals and the same conflict set".
type pbConstraint struct {
	terms []pbTerm // sorted by coeff descending
	k     int
	sum   int // Σ coeff, cached
	max   int // max coeff, cached

	handler PBHandler
	// watchedPrefix is only meaningful when handler == PBHandlerWatched: it
	// is the number of leading (highest-coefficient) terms currently
	// attached as watches. Invariant: the sum of their coefficients
	// exceeds k (so that any one of them becoming false can possibly
	// cause a conflict or a forced literal, per the Pueblo scheme).
	watchedPrefix int

	act float64
}

// newPBConstraint normalizes terms/k, folds negative coefficients into
// their complementary literal, and returns the constraint plus whether it
// is satisfiable at all (false only for a constraint that is trivially
// unsatisfiable, e.g. an empty term list with k > 0).
func newPBConstraint(terms []pbTerm, k int) (*pbConstraint, bool) {
	terms, k = normalizePB(terms, k)
	if len(terms) == 0 {
		return nil, k <= 0
	}

	sort.Slice(terms, func(i, j int) bool { return terms[i].coeff > terms[j].coeff })

	p := &pbConstraint{terms: terms, k: k}
	for _, t := range terms {
		p.sum += t.coeff
		if t.coeff > p.max {
			p.max = t.coeff
		}
	}
	return p, true
}

// normalizePB rewrites Σ cᵢ·xᵢ ≥ k into an equivalent constraint with only
// positive coefficients, merging duplicate literals, moving each negative
// coefficient onto the complementary literal, and dropping terms whose
// coefficient is (or cancels to) zero.
func normalizePB(terms []pbTerm, k int) ([]pbTerm, int) {
	byVar := map[int]int{} // varID -> signed coefficient (positive literal convention)
	for _, t := range terms {
		if t.coeff == 0 {
			continue
		}
		c := t.coeff
		v := t.lit.VarID()
		if !t.lit.IsPositive() {
			// c·(¬x) = c - c·x: move the constant to the right-hand side.
			k -= c
			c = -c
		}
		byVar[v] += c
	}

	out := make([]pbTerm, 0, len(byVar))
	for v, c := range byVar {
		switch {
		case c > 0:
			out = append(out, pbTerm{coeff: c, lit: PositiveLiteral(v)})
		case c < 0:
			// -c·(¬x) = -c + c·x rearranged: c·x - c, so shift k by +c
			// and record a positive-coefficient term on the negative
			// literal: c·(1-x) = c - c·x.
			out = append(out, pbTerm{coeff: -c, lit: NegativeLiteral(v)})
			k += -c
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].lit < out[j].lit })
	return out, k
}

func (p *pbConstraint) isLearnt() bool            { return false }
func (p *pbConstraint) activity() float64         { return p.act }
func (p *pbConstraint) bumpActivity(inc float64)  { p.act += inc }
func (p *pbConstraint) scaleActivity(f float64)   { p.act *= f }

func (p *pbConstraint) locked(s *Solver) bool {
	for _, t := range p.terms {
		if s.reason[t.lit.VarID()] == constraint(p) {
			return true
		}
	}
	return false
}

func (p *pbConstraint) remove(s *Solver) {
	switch p.handler {
	case PBHandlerWatched:
		for i := 0; i < p.watchedPrefix; i++ {
			s.unwatch(p, p.terms[i].lit.Opposite())
		}
	default:
		for _, t := range p.terms {
			s.unwatch(p, t.lit.Opposite())
		}
	}
}

// attach registers the constraint's watches per its handler kind.
func (p *pbConstraint) attach(s *Solver) {
	switch p.handler {
	case PBHandlerWatched:
		p.attachWatched(s)
	default:
		p.attachCounter(s)
	}
}

// propagate is the constraint interface entry point; it dispatches to
// whichever representation this constraint was built with.
func (p *pbConstraint) propagate(s *Solver, l Literal) bool {
	switch p.handler {
	case PBHandlerWatched:
		return p.propagateWatched(s, l)
	default:
		return p.propagateCounter(s, l)
	}
}

// checkAndPropagate recomputes slack from the terms' current values and
// either reports a conflict (slack < 0) or forces every unassigned term
// whose coefficient exceeds the slack, per spec.md §4.3.
func (p *pbConstraint) checkAndPropagate(s *Solver) bool {
	slack := p.slack(s)
	if slack < 0 {
		return false
	}
	for _, t := range p.terms {
		if s.litValue(t.lit) == Unknown && t.coeff > slack {
			if !s.enqueue(t.lit, p) {
				return false
			}
		}
	}
	return true
}

// slack returns Σ(coeff of true-or-unassigned terms) - k.
func (p *pbConstraint) slack(s *Solver) int {
	slack := -p.k
	for _, t := range p.terms {
		if s.litValue(t.lit) != False {
			slack += t.coeff
		}
	}
	return slack
}

// simplify reports whether the constraint is satisfied no matter how its
// still-unassigned literals resolve (i.e. its permanently-true terms alone
// already meet the bound), in which case the caller should drop it.
func (p *pbConstraint) simplify(s *Solver) bool {
	sum := 0
	for _, t := range p.terms {
		if s.litValue(t.lit) == True {
			sum += t.coeff
		}
	}
	return sum >= p.k
}

func (p *pbConstraint) satisfiedBy(value func(Literal) bool) bool {
	sum := 0
	for _, t := range p.terms {
		if value(t.lit) {
			sum += t.coeff
		}
	}
	return sum >= p.k
}

// explainConflict returns a clause-shaped reason for the conflict: the
// negation of every currently false term, i.e. the currently true literals
// that falsify those terms — the same "currently-true antecedents" shape
// analyze expects from a Clause. The falsified terms are used as they are:
// no cutting-planes step drops any of them before conflict analysis.
func (p *pbConstraint) explainConflict(s *Solver, out []Literal) []Literal {
	out = out[:0]
	for _, t := range p.terms {
		if s.litValue(t.lit) == False {
			out = append(out, t.lit.Opposite())
		}
	}
	s.bumpClauseActivity(p)
	return out
}

// explainAssign returns the reason a forced literal l was set: the negation
// of every other term that was already false when l was assigned. The set
// is not minimized.
func (p *pbConstraint) explainAssign(s *Solver, l Literal, out []Literal) []Literal {
	out = out[:0]
	lv := s.level[l.VarID()]
	start := 0
	if lv > 0 {
		start = s.trailLim[lv-1]
	}
	before := map[Literal]bool{} // same-level assignments made before l
	for i := start; i < len(s.trail) && s.trail[i] != l; i++ {
		before[s.trail[i]] = true
	}
	for _, t := range p.terms {
		if t.lit == l || s.litValue(t.lit) != False {
			continue
		}
		if w := t.lit.VarID(); s.level[w] < lv || before[t.lit.Opposite()] {
			out = append(out, t.lit.Opposite())
		}
	}
	s.bumpClauseActivity(p)
	return out
}
