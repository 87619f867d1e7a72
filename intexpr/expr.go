package intexpr

import "github.com/hartigcc/pbsat/internal/sat"

// Expr is a linear expression Σ Terms[i].Coeff·Terms[i].Lit + Const over
// 0/1 literals, the common currency IntVar, Linearize, and
// optimize.Objective all share.
type Expr struct {
	Terms []sat.Term
	Const int
}

// Value evaluates e under model, as returned by sat.Solver.GetModel.
func (e Expr) Value(model []bool) int {
	v := e.Const
	for _, t := range e.Terms {
		if litTrue(t.Lit, model) {
			v += t.Coeff
		}
	}
	return v
}

func litTrue(l sat.Literal, model []bool) bool {
	v := model[l.VarID()]
	if !l.IsPositive() {
		v = !v
	}
	return v
}

// Add returns e + other. Terms are concatenated rather than merged by
// variable; callers that need a canonical, deduplicated form get one for
// free by handing the result straight to AddAtLeast/AtMost/Exactly, which
// route through sat's own term normalization.
func (e Expr) Add(other Expr) Expr {
	terms := make([]sat.Term, 0, len(e.Terms)+len(other.Terms))
	terms = append(terms, e.Terms...)
	terms = append(terms, other.Terms...)
	return Expr{Terms: terms, Const: e.Const + other.Const}
}

// Scale returns e multiplied by factor.
func (e Expr) Scale(factor int) Expr {
	terms := make([]sat.Term, len(e.Terms))
	for i, t := range e.Terms {
		terms[i] = sat.Term{Coeff: t.Coeff * factor, Lit: t.Lit}
	}
	return Expr{Terms: terms, Const: e.Const * factor}
}

// AddAtLeast, AddAtMost and AddExactly add e ≥ k, e ≤ k, e = k to s as PB
// constraints, folding e.Const into the threshold.
func (e Expr) AddAtLeast(s *sat.Solver, k int) error {
	return s.AddPBAtLeast(e.Terms, k-e.Const)
}

func (e Expr) AddAtMost(s *sat.Solver, k int) error {
	return s.AddPBAtMost(e.Terms, k-e.Const)
}

func (e Expr) AddExactly(s *sat.Solver, k int) error {
	return s.AddPBExactly(e.Terms, k-e.Const)
}
