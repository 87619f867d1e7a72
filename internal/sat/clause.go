package sat

import "strings"

// Clause is a disjunction of at least two literals. Clauses never shrink
// below two literals: shorter clauses are handled directly by the solver
// at add time (newClause below) and never become *Clause values.
type Clause struct {
	literals []Literal

	// sliceRef identifies the pool bucket literals was drawn from, when
	// built with the clausepool tag; nil otherwise. Only the
	// allocLiterals/freeLiterals pair (clause_alloc.go or
	// clause_allocpool.go), called from newClause and remove, touches it.
	sliceRef *[]Literal

	// Two-watched-literal bookkeeping. literals[0] and literals[1] are
	// always the clause's two watched literals.
	prevPos int // resume position for the next-watch rescan, in [2, len]

	learnt      bool
	lbd         uint32
	act         float64
	isProtected bool
	isDeleted   bool
}

// newClause adds clause to the solver. tmpLiterals is consumed (and may be
// reordered/truncated) by this call; callers must not reuse it afterwards
// unless learnt is true, in which case it is expected to already be a
// freshly allocated, deduplicated, root-simplified slice (the product of
// conflict analysis) and is used as-is.
//
// Returns (clause, ok). clause is nil if the clause collapsed into a unit
// fact, a tautology, or an already-satisfied constraint — none of which
// need a *Clause allocation. ok is false if the clause is a root-level
// contradiction (the empty clause, or a unit fact whose negation already
// holds).
func newClause(s *Solver, tmpLiterals []Literal, learnt bool) (*Clause, bool) {
	size := len(tmpLiterals)

	if !learnt {
		seen := map[Literal]struct{}{}
		for i := size - 1; i >= 0; i-- {
			if _, ok := seen[tmpLiterals[i].Opposite()]; ok {
				return nil, true // tautology
			}
			if _, ok := seen[tmpLiterals[i]]; ok {
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
				continue
			}
			seen[tmpLiterals[i]] = struct{}{}

			switch s.litValue(tmpLiterals[i]) {
			case True:
				return nil, true // already satisfied
			case False:
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
			}
		}
		tmpLiterals = tmpLiterals[:size]
	}

	switch size {
	case 0:
		return nil, false
	case 1:
		return nil, s.enqueue(tmpLiterals[0], nil)
	default:
		lits, ref := allocLiterals(size)
		c := &Clause{
			literals: append(lits, tmpLiterals...),
			sliceRef: ref,
			prevPos:  2,
			learnt:   learnt,
		}
		if learnt {
			maxLevel, wl := -1, -1
			for i, lit := range c.literals {
				if lvl := s.level[lit.VarID()]; lvl > maxLevel {
					maxLevel, wl = lvl, i
				}
			}
			c.literals[wl], c.literals[1] = c.literals[1], c.literals[wl]
			c.lbd = computeLBD(s, c.literals)
		}
		s.watch(c, c.literals[0].Opposite(), c.literals[1])
		s.watch(c, c.literals[1].Opposite(), c.literals[0])
		return c, true
	}
}

func computeLBD(s *Solver, lits []Literal) uint32 {
	seen := make(map[int]struct{}, len(lits))
	for _, l := range lits {
		lvl := s.level[l.VarID()]
		if lvl < 0 {
			continue
		}
		seen[lvl] = struct{}{}
	}
	return uint32(len(seen))
}

func (c *Clause) locked(s *Solver) bool {
	return s.reason[c.literals[0].VarID()] == constraint(c)
}

func (c *Clause) remove(s *Solver) {
	s.unwatch(c, c.literals[0].Opposite())
	s.unwatch(c, c.literals[1].Opposite())
	c.isDeleted = true
	freeLiterals(c.sliceRef, c.literals)
	c.literals = nil
	c.sliceRef = nil
}

func (c *Clause) isLearnt() bool { return c.learnt }

func (c *Clause) activity() float64 { return c.act }

func (c *Clause) bumpActivity(inc float64) { c.act += inc }

func (c *Clause) scaleActivity(factor float64) { c.act *= factor }

// simplify drops root-level-false literals and reports whether the clause
// is now satisfied at the root (in which case the caller should remove it).
func (c *Clause) simplify(s *Solver) bool {
	k := 0
	for _, lit := range c.literals {
		switch s.litValue(lit) {
		case True:
			return true
		case False:
			// drop
		default:
			c.literals[k] = lit
			k++
		}
	}
	c.literals = c.literals[:k]
	if c.prevPos >= len(c.literals) {
		c.prevPos = 2
	}
	return false
}

// propagate implements the classic two-watched-literal update: l.Opposite()
// is the literal whose watch triggered this call.
func (c *Clause) propagate(s *Solver, l Literal) bool {
	opp := l.Opposite()
	if c.literals[0] == opp {
		c.literals[0], c.literals[1] = c.literals[1], opp
	}

	if s.litValue(c.literals[0]) == True {
		s.watch(c, l, c.literals[0])
		return true
	}

	if c.prevPos >= len(c.literals) {
		c.prevPos = 2
	}
	for i := c.prevPos; i < len(c.literals); i++ {
		if s.litValue(c.literals[i]) != False {
			c.prevPos = i
			c.literals[1], c.literals[i] = c.literals[i], l.Opposite()
			s.watch(c, c.literals[1].Opposite(), c.literals[0])
			return true
		}
	}
	for i := 2; i < c.prevPos; i++ {
		if s.litValue(c.literals[i]) != False {
			c.prevPos = i
			c.literals[1], c.literals[i] = c.literals[i], l.Opposite()
			s.watch(c, c.literals[1].Opposite(), c.literals[0])
			return true
		}
	}

	// All other literals are false: the clause is unit on literals[0],
	// unless that's also false, in which case we're in conflict.
	s.watch(c, l, c.literals[0])
	return s.enqueue(c.literals[0], c)
}

func (c *Clause) explainConflict(s *Solver, out []Literal) []Literal {
	out = out[:0]
	for _, l := range c.literals {
		out = append(out, l.Opposite())
	}
	if c.learnt {
		s.bumpClauseActivity(c)
	}
	return out
}

func (c *Clause) explainAssign(s *Solver, l Literal, out []Literal) []Literal {
	out = out[:0]
	for _, lit := range c.literals[1:] {
		out = append(out, lit.Opposite())
	}
	if c.learnt {
		s.bumpClauseActivity(c)
	}
	return out
}

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
