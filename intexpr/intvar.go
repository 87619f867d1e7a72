// Package intexpr represents bounded integer variables over the bits a
// sat.Solver already knows how to reason about, and linearizes
// non-linear products of those bits through the Tseitin encoder (spec.md
// §4.8).
package intexpr

import (
	"fmt"

	"github.com/hartigcc/pbsat/internal/sat"
)

// IntVar is a bounded integer variable in [lo, hi], represented as
// lo + Σ 2^i·bᵢ over enough bits to cover hi-lo. When hi-lo isn't exactly
// 2^n-1 for the chosen bit count, a PB constraint clamps the weighted sum
// so the extra headroom above hi is never reachable.
type IntVar struct {
	lo, hi int
	bits   []sat.Var
}

// bitsNeeded returns the number of bits required to represent every value
// in [0, span].
func bitsNeeded(span int) int {
	n := 0
	for (1 << n) <= span {
		n++
	}
	return n
}

// NewIntVar allocates a new bounded integer variable on s. s must be at
// decision level 0, the same precondition sat.Solver.AddPBAtLeast imposes,
// since clamping (when needed) adds a permanent PB constraint.
func NewIntVar(s *sat.Solver, lo, hi int) (*IntVar, error) {
	if hi < lo {
		return nil, fmt.Errorf("intexpr: hi (%d) < lo (%d)", hi, lo)
	}
	span := hi - lo
	n := bitsNeeded(span)

	iv := &IntVar{lo: lo, hi: hi, bits: s.NewVars(n)}
	if n > 0 && (1<<n)-1 != span {
		if err := s.AddPBAtMost(iv.bitTerms(), span); err != nil {
			return nil, err
		}
	}
	return iv, nil
}

func (iv *IntVar) bitTerms() []sat.Term {
	terms := make([]sat.Term, len(iv.bits))
	for i, b := range iv.bits {
		terms[i] = sat.Term{Coeff: 1 << i, Lit: b.Lit(true)}
	}
	return terms
}

// Lo and Hi return the variable's inclusive bounds.
func (iv *IntVar) Lo() int { return iv.lo }
func (iv *IntVar) Hi() int { return iv.hi }

// Bits returns the underlying bit variables, least significant first.
func (iv *IntVar) Bits() []sat.Var {
	return append([]sat.Var(nil), iv.bits...)
}

// Expr returns the linear expression lo + Σ 2^i·bᵢ this variable expands
// to, for folding into a PB constraint or combining with other Exprs.
func (iv *IntVar) Expr() Expr {
	return Expr{Terms: iv.bitTerms(), Const: iv.lo}
}

// Value evaluates iv's value under model, as returned by sat.Solver.GetModel.
func (iv *IntVar) Value(model []bool) int {
	return iv.Expr().Value(model)
}
