package sat

import (
	"context"
	"testing"
)

func newVars(s *Solver, n int) []Var {
	return s.NewVars(n)
}

func TestSolve_ThreeClauseUniqueModel(t *testing.T) {
	s := NewDefaultSolver()
	vs := newVars(s, 2)
	x1, x2 := vs[0].Lit(true), vs[1].Lit(true)

	mustAddClause(t, s, []Literal{x1, x2})
	mustAddClause(t, s, []Literal{x1, x2.Opposite()})
	mustAddClause(t, s, []Literal{x1.Opposite(), x2.Opposite()})

	if got := s.Solve(context.Background()); got != True {
		t.Fatalf("Solve() = %v, want True", got)
	}

	model := s.GetModel()
	if want := []bool{true, false}; !equalModel(model, want) {
		t.Errorf("GetModel() = %v, want %v", model, want)
	}
	if err := s.CheckModel(model); err != nil {
		t.Errorf("CheckModel() = %v, want nil", err)
	}
}

func TestSolve_FourClauseUnsat(t *testing.T) {
	s := NewDefaultSolver()
	vs := newVars(s, 2)
	x1, x2 := vs[0].Lit(true), vs[1].Lit(true)

	mustAddClause(t, s, []Literal{x1, x2})
	mustAddClause(t, s, []Literal{x1, x2.Opposite()})
	mustAddClause(t, s, []Literal{x1.Opposite(), x2})
	mustAddClause(t, s, []Literal{x1.Opposite(), x2.Opposite()})

	if got := s.Solve(context.Background()); got != False {
		t.Fatalf("Solve() = %v, want False", got)
	}
}

func TestSolve_UnitClauseForcesLiteral(t *testing.T) {
	s := NewDefaultSolver()
	v := s.NewVar()
	mustAddClause(t, s, []Literal{v.Lit(true)})

	if got := s.Solve(context.Background()); got != True {
		t.Fatalf("Solve() = %v, want True", got)
	}
	if model := s.GetModel(); !model[v] {
		t.Errorf("GetModel()[%d] = false, want true", v)
	}
}

func TestAddClause_TautologyIsNoOp(t *testing.T) {
	s := NewDefaultSolver()
	v := s.NewVar()
	before := s.NumConstraints()

	mustAddClause(t, s, []Literal{v.Lit(true), v.Lit(false)})

	if got := s.NumConstraints(); got != before {
		t.Errorf("NumConstraints() = %d, want %d (tautology should not be added)", got, before)
	}
}

func TestAddClause_DuplicateClauseIsEquivalent(t *testing.T) {
	s := NewDefaultSolver()
	vs := newVars(s, 2)
	clause := []Literal{vs[0].Lit(true), vs[1].Lit(true)}

	mustAddClause(t, s, clause)
	mustAddClause(t, s, clause)

	if got := s.Solve(context.Background()); got != True {
		t.Fatalf("Solve() = %v, want True", got)
	}
}

func TestAddClause_EmptyIsUnsat(t *testing.T) {
	s := NewDefaultSolver()
	if err := s.AddClause(nil); err != nil {
		t.Fatalf("AddClause(nil) error = %v", err)
	}
	if got := s.Solve(context.Background()); got != False {
		t.Fatalf("Solve() = %v, want False", got)
	}
}

func TestSolve_NoVariablesIsTrivallySat(t *testing.T) {
	s := NewDefaultSolver()
	if got := s.Solve(context.Background()); got != True {
		t.Fatalf("Solve() = %v, want True", got)
	}
	if model := s.GetModel(); len(model) != 0 {
		t.Errorf("GetModel() = %v, want empty", model)
	}
}

func mustAddClause(t *testing.T, s *Solver, lits []Literal) {
	t.Helper()
	if err := s.AddClause(lits); err != nil {
		t.Fatalf("AddClause(%v) error = %v", lits, err)
	}
}

func equalModel(got, want []bool) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
