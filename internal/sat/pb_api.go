package sat

import "fmt"

// Term pairs a literal with its coefficient in a pseudo-Boolean constraint,
// as named in spec.md §3.
type Term struct {
	Coeff int
	Lit   Literal
}

// AddAtLeast adds the cardinality constraint Σ lits ≥ k (every literal
// weighted 1), a thin convenience wrapper over AddPBAtLeast.
func (s *Solver) AddAtLeast(lits []Literal, k int) error {
	return s.AddPBAtLeast(unitTerms(lits), k)
}

// AddAtMost adds the cardinality constraint Σ lits ≤ k.
func (s *Solver) AddAtMost(lits []Literal, k int) error {
	return s.AddPBAtMost(unitTerms(lits), k)
}

// AddExactly adds the cardinality constraint Σ lits = k.
func (s *Solver) AddExactly(lits []Literal, k int) error {
	return s.AddPBExactly(unitTerms(lits), k)
}

func unitTerms(lits []Literal) []Term {
	terms := make([]Term, len(lits))
	for i, l := range lits {
		terms[i] = Term{Coeff: 1, Lit: l}
	}
	return terms
}

// AddPBAtLeast adds Σ terms[i].Coeff·terms[i].Lit ≥ k, using whichever PB
// representation opts.PBHandler selects (spec.md §4.3).
func (s *Solver) AddPBAtLeast(terms []Term, k int) error {
	return s.addPB(terms, k)
}

// AddPBAtMost adds Σ terms[i].Coeff·terms[i].Lit ≤ k by negating the
// inequality: Σ(-c)·l ≥ -k.
func (s *Solver) AddPBAtMost(terms []Term, k int) error {
	neg := make([]Term, len(terms))
	for i, t := range terms {
		neg[i] = Term{Coeff: -t.Coeff, Lit: t.Lit}
	}
	return s.addPB(neg, -k)
}

// AddPBExactly adds Σ terms[i].Coeff·terms[i].Lit = k as the conjunction of
// an at-least and an at-most constraint.
func (s *Solver) AddPBExactly(terms []Term, k int) error {
	if err := s.AddPBAtLeast(terms, k); err != nil {
		return err
	}
	return s.AddPBAtMost(terms, k)
}

// AddSoftPBAtLeast adds a reified constraint selector → (Σ c·l ≥ k), used
// by the optimizer to tighten bounds under assumptions without permanently
// committing to them (spec.md §4.7). It works by folding the selector's
// negation in as an extra term with a coefficient large enough to satisfy
// the constraint outright whenever the selector is false, which keeps the
// reification inside the ordinary PB machinery instead of needing a
// special case in propagation.
//
// m must dominate the worst case the payload terms can reach on their own:
// a positive-coefficient term contributes at least 0 (literal false), but a
// negative-coefficient term contributes as low as its coefficient (literal
// true), so m has to make up k plus the absolute value of every negative
// coefficient, not just k itself — otherwise a constraint built from
// AddSoftPBAtMost (which negates its terms before delegating here) can
// still force or conflict on the payload even with the selector false.
func (s *Solver) AddSoftPBAtLeast(selector Literal, terms []Term, k int) error {
	m := k
	for _, t := range terms {
		if t.Coeff < 0 {
			m += -t.Coeff
		}
	}
	if m < 1 {
		m = 1
	}
	augmented := append(append([]Term(nil), terms...), Term{Coeff: m, Lit: selector.Opposite()})
	return s.addPB(augmented, k)
}

// AddSoftPBAtMost is AddSoftPBAtLeast's at-most counterpart.
func (s *Solver) AddSoftPBAtMost(selector Literal, terms []Term, k int) error {
	neg := make([]Term, len(terms))
	for i, t := range terms {
		neg[i] = Term{Coeff: -t.Coeff, Lit: t.Lit}
	}
	return s.AddSoftPBAtLeast(selector, neg, -k)
}

func (s *Solver) addPB(terms []Term, k int) error {
	if s.decisionLevel() != 0 {
		return fmt.Errorf("sat: AddPB* called at decision level %d, must be 0", s.decisionLevel())
	}
	plain := make([]Literal, len(terms))
	for i, t := range terms {
		plain[i] = t.Lit
	}
	if err := s.checkLiterals(plain); err != nil {
		return err
	}

	pbTerms := make([]pbTerm, len(terms))
	for i, t := range terms {
		pbTerms[i] = pbTerm{coeff: t.Coeff, lit: t.Lit}
	}

	p, ok := newPBConstraint(pbTerms, k)
	if !ok {
		s.unsat = true
		return nil
	}
	if p == nil {
		return nil // trivially satisfied (e.g. k <= 0 after normalization)
	}

	p.handler = s.opts.PBHandler
	s.constraints = append(s.constraints, p)
	p.attach(s)

	if !p.checkAndPropagate(s) {
		s.unsat = true
	}
	return nil
}
