package sat

import "testing"

func TestClause_String(t *testing.T) {
	c := &Clause{literals: []Literal{PositiveLiteral(0), NegativeLiteral(1)}}
	if got, want := c.String(), "Clause[0 -1]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := (&Clause{}).String(), "Clause[]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNewClause_UnitClauseEnqueues(t *testing.T) {
	s := NewDefaultSolver()
	v := s.NewVar()

	c, ok := newClause(s, []Literal{v.Lit(true)}, false)
	if c != nil {
		t.Errorf("newClause() clause = %v, want nil for a unit fact", c)
	}
	if !ok {
		t.Errorf("newClause() ok = false, want true")
	}
	if got := s.litValue(v.Lit(true)); got != True {
		t.Errorf("litValue(v) = %v, want True", got)
	}
}

func TestNewClause_RootContradictionIsUnsat(t *testing.T) {
	s := NewDefaultSolver()
	v := s.NewVar()

	mustAddClause(t, s, []Literal{v.Lit(true)})
	_, ok := newClause(s, []Literal{v.Lit(false)}, false)
	if ok {
		t.Errorf("newClause() ok = true, want false for a root-level contradiction")
	}
}

func TestNewClause_TautologyCollapses(t *testing.T) {
	s := NewDefaultSolver()
	v := s.NewVar()

	c, ok := newClause(s, []Literal{v.Lit(true), v.Lit(false)}, false)
	if c != nil || !ok {
		t.Errorf("newClause() = (%v, %v), want (nil, true) for a tautology", c, ok)
	}
}

func TestNewClause_DuplicateLiteralsCollapseToUnit(t *testing.T) {
	s := NewDefaultSolver()
	v := s.NewVar()

	c, ok := newClause(s, []Literal{v.Lit(true), v.Lit(true)}, false)
	if c != nil || !ok {
		t.Errorf("newClause() = (%v, %v), want (nil, true) for a duplicate-collapsed unit", c, ok)
	}
	if got := s.litValue(v.Lit(true)); got != True {
		t.Errorf("litValue(v) = %v, want True", got)
	}
}

func TestComputeLBD(t *testing.T) {
	s := NewDefaultSolver()
	vs := s.NewVars(3)
	s.level[vs[0]] = 1
	s.level[vs[1]] = 1
	s.level[vs[2]] = 2

	lits := []Literal{vs[0].Lit(true), vs[1].Lit(false), vs[2].Lit(true)}
	if got, want := computeLBD(s, lits), uint32(2); got != want {
		t.Errorf("computeLBD() = %d, want %d", got, want)
	}
}
