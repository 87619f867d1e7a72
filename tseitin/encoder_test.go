package tseitin

import (
	"context"
	"testing"

	"github.com/hartigcc/pbsat/internal/sat"
)

func modelValue(l sat.Literal, model []bool) bool {
	v := model[l.VarID()]
	if !l.IsPositive() {
		v = !v
	}
	return v
}

func TestEncodeConj_EquivalentToConjunctionUnderEveryModel(t *testing.T) {
	for _, mode := range []Mode{ModeClause, ModePB} {
		for i := 0; i < 8; i++ {
			s := sat.NewDefaultSolver()
			vs := s.NewVars(3)
			enc := NewEncoder(s, mode)

			y, err := enc.EncodeConj([]sat.Literal{vs[0].Lit(true), vs[1].Lit(true), vs[2].Lit(false)})
			if err != nil {
				t.Fatalf("mode %d: EncodeConj() error = %v", mode, err)
			}

			assumptions := []sat.Literal{vs[0].Lit(i&1 != 0), vs[1].Lit(i&2 != 0), vs[2].Lit(i&4 != 0)}
			if got := s.SolveWith(context.Background(), assumptions); got != sat.True {
				t.Fatalf("SolveWith(%v) = %v, want True", assumptions, got)
			}
			model := s.GetModel()

			want := modelValue(vs[0].Lit(true), model) && modelValue(vs[1].Lit(true), model) && modelValue(vs[2].Lit(false), model)
			if got := modelValue(y, model); got != want {
				t.Errorf("mode %d, assumptions %v: y = %v, want %v (conjunction value)", mode, assumptions, got, want)
			}
		}
	}
}

func TestEncodeConj_EmptyConjunctionIsTrue(t *testing.T) {
	s := sat.NewDefaultSolver()
	enc := NewEncoder(s, ModeClause)

	y, err := enc.EncodeConj(nil)
	if err != nil {
		t.Fatalf("EncodeConj() error = %v", err)
	}
	if got := s.Solve(context.Background()); got != sat.True {
		t.Fatalf("Solve() = %v, want True", got)
	}
	if !modelValue(y, s.GetModel()) {
		t.Errorf("y = false, want true (empty conjunction)")
	}
}

func TestEncodeConj_ContradictorySetIsFalse(t *testing.T) {
	s := sat.NewDefaultSolver()
	v := s.NewVar()
	enc := NewEncoder(s, ModeClause)

	y, err := enc.EncodeConj([]sat.Literal{v.Lit(true), v.Lit(false)})
	if err != nil {
		t.Fatalf("EncodeConj() error = %v", err)
	}
	if got := s.Solve(context.Background()); got != sat.True {
		t.Fatalf("Solve() = %v, want True", got)
	}
	if modelValue(y, s.GetModel()) {
		t.Errorf("y = true, want false (contradictory conjunction)")
	}
}

func TestEncodeConj_SingletonReturnsSameLiteral(t *testing.T) {
	s := sat.NewDefaultSolver()
	v := s.NewVar()
	enc := NewEncoder(s, ModeClause)

	y, err := enc.EncodeConj([]sat.Literal{v.Lit(true)})
	if err != nil {
		t.Fatalf("EncodeConj() error = %v", err)
	}
	if y != v.Lit(true) {
		t.Errorf("EncodeConj(singleton) = %v, want %v", y, v.Lit(true))
	}
}

func TestEncodeConj_CachesIdenticalLiteralSets(t *testing.T) {
	s := sat.NewDefaultSolver()
	vs := s.NewVars(2)
	enc := NewEncoder(s, ModeClause)

	y1, err := enc.EncodeConj([]sat.Literal{vs[0].Lit(true), vs[1].Lit(true)})
	if err != nil {
		t.Fatalf("EncodeConj() error = %v", err)
	}
	// Same set, different order and a duplicate: must hit the cache.
	y2, err := enc.EncodeConj([]sat.Literal{vs[1].Lit(true), vs[0].Lit(true), vs[1].Lit(true)})
	if err != nil {
		t.Fatalf("EncodeConj() error = %v", err)
	}
	if y1 != y2 {
		t.Errorf("EncodeConj() cache miss: y1 = %v, y2 = %v", y1, y2)
	}
}

func TestEncodePB_SelectorTracksComparison(t *testing.T) {
	s := sat.NewDefaultSolver()
	vs := s.NewVars(2)
	enc := NewEncoder(s, ModeClause)

	terms := []sat.Term{{Coeff: 1, Lit: vs[0].Lit(true)}, {Coeff: 1, Lit: vs[1].Lit(true)}}
	sel, err := enc.EncodePB(terms, OpGE, 2)
	if err != nil {
		t.Fatalf("EncodePB() error = %v", err)
	}

	for i := 0; i < 4; i++ {
		assumptions := []sat.Literal{vs[0].Lit(i&1 != 0), vs[1].Lit(i&2 != 0)}
		if got := s.SolveWith(context.Background(), assumptions); got != sat.True {
			t.Fatalf("SolveWith(%v) = %v, want True", assumptions, got)
		}
		model := s.GetModel()
		want := modelValue(vs[0].Lit(true), model) && modelValue(vs[1].Lit(true), model)
		if got := modelValue(sel, model); got != want {
			t.Errorf("assumptions %v: sel = %v, want %v (Σ ≥ 2)", assumptions, got, want)
		}
	}
}

// TestEncodePB_SelectorTracksComparison_LargeCoefficients exercises OpLE
// with a coefficient large relative to the threshold, the shape that
// exposed an undersized selector-dominating coefficient in
// AddSoftPBAtMost/AddSoftPBAtLeast: the reified selector must still match
// the comparison exactly, not force or conflict on the payload literal.
func TestEncodePB_SelectorTracksComparison_LargeCoefficients(t *testing.T) {
	s := sat.NewDefaultSolver()
	v := s.NewVar()
	enc := NewEncoder(s, ModeClause)

	terms := []sat.Term{{Coeff: 100, Lit: v.Lit(true)}}
	sel, err := enc.EncodePB(terms, OpLE, 50)
	if err != nil {
		t.Fatalf("EncodePB() error = %v", err)
	}

	for _, val := range []bool{false, true} {
		assumptions := []sat.Literal{v.Lit(val)}
		if got := s.SolveWith(context.Background(), assumptions); got != sat.True {
			t.Fatalf("SolveWith(%v) = %v, want True", assumptions, got)
		}
		model := s.GetModel()
		want := !modelValue(v.Lit(true), model) // 100*v <= 50 iff v is false
		if got := modelValue(sel, model); got != want {
			t.Errorf("assumptions %v: sel = %v, want %v (100·v ≤ 50)", assumptions, got, want)
		}
	}
}
