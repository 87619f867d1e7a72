package intexpr

import (
	"context"
	"testing"

	"github.com/hartigcc/pbsat/internal/sat"
	"github.com/hartigcc/pbsat/tseitin"
)

func TestIntVar_RangeIsExactlyLoToHi(t *testing.T) {
	s := sat.NewDefaultSolver()
	iv, err := NewIntVar(s, 2, 5) // span 3, needs 2 bits (3 is already 2^2-1, no clamp needed)
	if err != nil {
		t.Fatalf("NewIntVar() error = %v", err)
	}

	seen := map[int]bool{}
	for {
		if got := s.Solve(context.Background()); got != sat.True {
			break
		}
		model := s.GetModel()
		v := iv.Value(model)
		if v < iv.Lo() || v > iv.Hi() {
			t.Fatalf("Value() = %d, want in [%d, %d]", v, iv.Lo(), iv.Hi())
		}
		seen[v] = true

		blocking := make([]sat.Literal, len(iv.Bits()))
		for i, b := range iv.Bits() {
			blocking[i] = b.Lit(!model[b])
		}
		if err := s.AddClause(blocking); err != nil {
			t.Fatalf("AddClause() error = %v", err)
		}
	}
	for v := iv.Lo(); v <= iv.Hi(); v++ {
		if !seen[v] {
			t.Errorf("value %d was never produced by any model", v)
		}
	}
}

func TestIntVar_ClampsNonPowerOfTwoSpan(t *testing.T) {
	s := sat.NewDefaultSolver()
	iv, err := NewIntVar(s, 0, 3) // span 3 = 2^2-1, exact fit, no clamp needed; use 0..4 instead below
	if err != nil {
		t.Fatalf("NewIntVar() error = %v", err)
	}
	if got, want := len(iv.Bits()), 2; got != want {
		t.Errorf("len(Bits()) = %d, want %d", got, want)
	}

	s2 := sat.NewDefaultSolver()
	iv2, err := NewIntVar(s2, 0, 4) // span 4, needs 3 bits (covers up to 7), must clamp to 4
	if err != nil {
		t.Fatalf("NewIntVar() error = %v", err)
	}
	for {
		if got := s2.Solve(context.Background()); got != sat.True {
			break
		}
		model := s2.GetModel()
		v := iv2.Value(model)
		if v > iv2.Hi() {
			t.Fatalf("Value() = %d, want ≤ %d (clamp failed)", v, iv2.Hi())
		}
		blocking := make([]sat.Literal, len(iv2.Bits()))
		for i, b := range iv2.Bits() {
			blocking[i] = b.Lit(!model[b])
		}
		if err := s2.AddClause(blocking); err != nil {
			t.Fatalf("AddClause() error = %v", err)
		}
	}
}

func TestExpr_AddAtLeastBindsTheSum(t *testing.T) {
	s := sat.NewDefaultSolver()
	iv, err := NewIntVar(s, 0, 7)
	if err != nil {
		t.Fatalf("NewIntVar() error = %v", err)
	}
	if err := iv.Expr().AddAtLeast(s, 5); err != nil {
		t.Fatalf("AddAtLeast() error = %v", err)
	}
	if got := s.Solve(context.Background()); got != sat.True {
		t.Fatalf("Solve() = %v, want True", got)
	}
	if v := iv.Value(s.GetModel()); v < 5 {
		t.Errorf("Value() = %d, want ≥ 5", v)
	}
}

func TestLinearize_ProductMatchesConjunctionUnderEveryModel(t *testing.T) {
	s := sat.NewDefaultSolver()
	vs := s.NewVars(2)
	enc := tseitin.NewEncoder(s, tseitin.ModeClause)

	term, err := Linearize(enc, Product{Coeff: 3, Lits: []sat.Literal{vs[0].Lit(true), vs[1].Lit(true)}})
	if err != nil {
		t.Fatalf("Linearize() error = %v", err)
	}

	for i := 0; i < 4; i++ {
		assumptions := []sat.Literal{vs[0].Lit(i&1 != 0), vs[1].Lit(i&2 != 0)}
		if got := s.SolveWith(context.Background(), assumptions); got != sat.True {
			t.Fatalf("SolveWith(%v) = %v, want True", assumptions, got)
		}
		model := s.GetModel()
		want := 0
		if model[vs[0]] && model[vs[1]] {
			want = 3
		}
		got := Expr{Terms: []sat.Term{term}}.Value(model)
		if got != want {
			t.Errorf("assumptions %v: linearized value = %d, want %d", assumptions, got, want)
		}
	}
}

func TestLinearize_SingleLiteralPassesThrough(t *testing.T) {
	s := sat.NewDefaultSolver()
	v := s.NewVar()
	enc := tseitin.NewEncoder(s, tseitin.ModeClause)

	term, err := Linearize(enc, Product{Coeff: 5, Lits: []sat.Literal{v.Lit(true)}})
	if err != nil {
		t.Fatalf("Linearize() error = %v", err)
	}
	if term.Lit != v.Lit(true) || term.Coeff != 5 {
		t.Errorf("Linearize(singleton) = %+v, want {Coeff: 5, Lit: v}", term)
	}
}
