package sat

// attachCounter registers every term's complement literal as a watch: the
// constraint is renotified whenever any term's literal is falsified, at
// which point propagateCounter recomputes the slack from scratch. This is
// the "counter" representation of spec.md §4.3 — simple, always correct,
// O(terms) per notification.
func (p *pbConstraint) attachCounter(s *Solver) {
	for _, t := range p.terms {
		s.watch(p, t.lit.Opposite(), noGuard)
	}
}

// propagateCounter re-registers the watch on l (counter mode never drops a
// watch) and delegates to the shared slack recomputation.
func (p *pbConstraint) propagateCounter(s *Solver, l Literal) bool {
	s.watch(p, l, noGuard)
	return p.checkAndPropagate(s)
}
