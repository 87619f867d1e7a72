package sat

// analyze derives a learnt clause from the conflicting constraint confl via
// first unique implication point (1-UIP) resolution (spec.md §4.4). It
// returns the learnt clause's literals (element 0 is the asserting
// literal) and the back-jump level.
func (s *Solver) analyze(confl constraint) ([]Literal, int) {
	nImplicationPoints := 0

	s.tmpLearnts = append(s.tmpLearnts[:0], -1) // placeholder for the UIP
	nextTrailIdx := len(s.trail) - 1

	l := Literal(-1) // sentinel: "explain the conflict itself", not an assignment
	s.seenVar.Clear()
	backtrackLevel := 0

	for {
		reason := s.explain(confl, l)
		for _, q := range reason {
			v := q.VarID()
			if s.seenVar.Contains(v) {
				continue
			}
			s.seenVar.Add(v)
			if s.level[v] == s.decisionLevel() {
				nImplicationPoints++
				continue
			}
			s.tmpLearnts = append(s.tmpLearnts, q.Opposite())
			if lvl := s.level[v]; lvl > backtrackLevel {
				backtrackLevel = lvl
			}
		}

		for {
			l = s.trail[nextTrailIdx]
			nextTrailIdx--
			v := l.VarID()
			confl = s.reason[v]
			if s.seenVar.Contains(v) {
				break
			}
		}

		nImplicationPoints--
		if nImplicationPoints <= 0 {
			break
		}
	}

	s.tmpLearnts[0] = l.Opposite()
	s.minimize()

	for _, lit := range s.tmpLearnts {
		s.order.bump(lit.VarID())
	}

	return s.tmpLearnts, backtrackLevel
}

// explain returns the reason literals for either an assignment (l is the
// assigned literal) or a top-level conflict (l == -1, meaning "explain why
// confl itself is false").
func (s *Solver) explain(confl constraint, l Literal) []Literal {
	if l == -1 {
		return confl.explainConflict(s, s.tmpReason)
	}
	return confl.explainAssign(s, l, s.tmpReason)
}

// minimize drops redundant literals from the learnt clause per
// opts.CCMin, per spec.md §4.4 step 3.
func (s *Solver) minimize() {
	switch s.opts.CCMin {
	case CCMinNone:
		return
	case CCMinLocal:
		s.minimizeLocal()
	case CCMinRecursive:
		s.minimizeRecursive()
	}
}

// minimizeLocal drops a literal if every other literal in its reason clause
// is already present in the learnt clause (so the dropped literal adds no
// new information: its reason already "covers" it).
func (s *Solver) minimizeLocal() {
	lits := s.tmpLearnts
	keep := lits[:1]
	for _, lit := range lits[1:] {
		if s.redundant(lit, 0) {
			continue
		}
		keep = append(keep, lit)
	}
	s.tmpLearnts = keep
}

// minimizeRecursive is minimizeLocal generalized to a bounded-depth
// recursive check over reasons-of-reasons, per spec.md §4.4 step 3.
func (s *Solver) minimizeRecursive() {
	lits := s.tmpLearnts
	keep := lits[:1]
	for _, lit := range lits[1:] {
		if s.redundant(lit, maxMinimizeDepth) {
			continue
		}
		keep = append(keep, lit)
	}
	s.tmpLearnts = keep
}

const maxMinimizeDepth = 8

// redundant reports whether lit can be dropped from the learnt clause: its
// reason is known (not a decision) and every antecedent literal is either
// already in the learnt clause or is itself redundant (when depth > 0,
// recursively, up to depth levels).
func (s *Solver) redundant(lit Literal, depth int) bool {
	v := lit.VarID()
	reason := s.reason[v]
	if reason == nil {
		return false // decision literal: never redundant
	}

	antecedents := reason.explainAssign(s, lit.Opposite(), make([]Literal, 0, 8))
	for _, a := range antecedents {
		av := a.VarID()
		if s.seenVar.Contains(av) {
			continue
		}
		if s.level[av] == 0 {
			// Root-level facts contribute nothing to the learnt clause.
			continue
		}
		if depth > 0 {
			if s.redundant(a.Opposite(), depth-1) {
				continue
			}
		}
		return false
	}
	return true
}

// record adds a learnt clause produced by analyze to the solver, enqueuing
// its asserting literal.
func (s *Solver) record(lits []Literal) {
	c, _ := newClause(s, lits, true)
	s.enqueue(lits[0], c)
	if c != nil {
		s.learnts = append(s.learnts, c)
		s.restarts.observeLearnt(c.lbd)
	}
}

// recordCore scans a not-yet-backtracked learnt clause for literals whose
// trail counterpart is one of the current assumptions (a decision literal,
// i.e. reason == nil, at a level within the assumption frontier) and
// records them as s.lastCore: the subset of assumptions responsible for
// this conflict.
func (s *Solver) recordCore(lits []Literal, assumptions []Literal) {
	for _, lit := range lits[1:] {
		v := lit.VarID()
		lvl := s.level[v]
		if lvl >= 1 && lvl <= len(assumptions) && s.reason[v] == nil {
			s.lastCore = append(s.lastCore, lit.Opposite())
		}
	}
}
