package sat

import "testing"

func TestSubsume_ForwardDropsSubsumedNewClause(t *testing.T) {
	opts := DefaultOptions
	opts.ForwardSubsume = true
	s := NewSolver(opts)
	vs := s.NewVars(3)

	mustAddClause(t, s, []Literal{vs[0].Lit(true), vs[1].Lit(true)})
	before := s.NumConstraints()

	mustAddClause(t, s, []Literal{vs[0].Lit(true), vs[1].Lit(true), vs[2].Lit(true)})

	if got := s.NumConstraints(); got != before {
		t.Errorf("NumConstraints() = %d, want %d (superset clause should be forward-subsumed)", got, before)
	}
}

func TestSubsume_BackwardDropsSubsumedOldClauses(t *testing.T) {
	opts := DefaultOptions
	opts.BackwardSubsume = true
	s := NewSolver(opts)
	vs := s.NewVars(3)

	mustAddClause(t, s, []Literal{vs[0].Lit(true), vs[1].Lit(true), vs[2].Lit(true)})
	mustAddClause(t, s, []Literal{vs[0].Lit(true), vs[1].Lit(true)})

	if got, want := s.NumConstraints(), 1; got != want {
		t.Errorf("NumConstraints() = %d, want %d (the larger clause should be backward-subsumed)", got, want)
	}
}
