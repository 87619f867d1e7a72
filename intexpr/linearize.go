package intexpr

import (
	"fmt"

	"github.com/hartigcc/pbsat/internal/sat"
	"github.com/hartigcc/pbsat/tseitin"
)

// Product is a coefficient times a conjunction of 0/1 literals: a
// non-linear term as it appears before lowering, e.g. 3·x·y.
type Product struct {
	Coeff int
	Lits  []sat.Literal
}

// Linearize folds p's literal product into a single fresh literal through
// enc, yielding a plain sat.Term usable directly in a PB constraint. A
// single-literal product is already linear and passes through unchanged
// without touching the encoder.
func Linearize(enc *tseitin.Encoder, p Product) (sat.Term, error) {
	switch len(p.Lits) {
	case 0:
		return sat.Term{}, fmt.Errorf("intexpr: product has no literals")
	case 1:
		return sat.Term{Coeff: p.Coeff, Lit: p.Lits[0]}, nil
	default:
		y, err := enc.EncodeConj(p.Lits)
		if err != nil {
			return sat.Term{}, err
		}
		return sat.Term{Coeff: p.Coeff, Lit: y}, nil
	}
}

// LinearizeAll lowers every product in ps through enc, returning an Expr
// with one term per product plus constant.
func LinearizeAll(enc *tseitin.Encoder, ps []Product, constant int) (Expr, error) {
	terms := make([]sat.Term, len(ps))
	for i, p := range ps {
		t, err := Linearize(enc, p)
		if err != nil {
			return Expr{}, err
		}
		terms[i] = t
	}
	return Expr{Terms: terms, Const: constant}, nil
}
