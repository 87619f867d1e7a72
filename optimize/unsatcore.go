package optimize

import (
	"context"

	"github.com/hartigcc/pbsat/internal/sat"
)

// softLit is a single pseudo-Boolean term rewritten into cost form: it
// costs weight when lit is true, 0 when false. Any term Σ c·l of the
// original objective (whatever the sign of c) rewrites to exactly one
// softLit plus a constant shift, via objectiveToSoftLits.
type softLit struct {
	lit    sat.Literal
	weight int
}

// objectiveToSoftLits rewrites obj into cost-form soft literals plus the
// constant base every core-guided strategy starts its proven lower bound
// from. A positive-coefficient term c·l already costs c when l is true.
// A negative-coefficient term c·l (c<0) is rewritten as
// c + (-c)·¬l: its minimum, c, is folded into base, and the remaining
// (-c)·¬l costs -c when l is false, i.e. when ¬l is true.
func objectiveToSoftLits(obj Objective) (softs []softLit, base int) {
	base = obj.Const
	for _, t := range obj.Terms {
		switch {
		case t.Coeff > 0:
			softs = append(softs, softLit{lit: t.Lit, weight: t.Coeff})
		case t.Coeff < 0:
			base += t.Coeff
			softs = append(softs, softLit{lit: t.Lit.Opposite(), weight: -t.Coeff})
		}
	}
	return softs, base
}

// unsatCore implements the UnsatCore (Fu–Malik-style weighted relaxation)
// and MSU4 strategies directly, and dispatches BCD/BCD2 to their own
// class-decomposed driver in variants.go.
func (o *Optimizer) unsatCore(ctx context.Context, obj Objective, strategy Strategy) Result {
	softs, base := objectiveToSoftLits(obj)

	if strategy == BCD || strategy == BCD2 {
		return o.bcd(ctx, obj, softs, base, strategy == BCD2)
	}

	splitWeight := strategy != MSU4
	value, proven, cancelled := o.solveClassToOptimum(ctx, softs, base, splitWeight, obj)
	return o.finishCoreResult(value, proven, cancelled)
}

func (o *Optimizer) finishCoreResult(value int, proven, cancelled bool) Result {
	if proven {
		if !o.hasBest {
			return Result{Status: StatusUnsat}
		}
		return o.optimumResult()
	}
	if o.hasBest {
		return o.satResult(value)
	}
	return Result{Status: StatusUnknown}
}

// solveClassToOptimum drives active's soft literals toward zero cost:
// assume every still-active soft literal false, and whenever the solver
// reports that infeasible, relax exactly the literals FailedAssumptions
// implicates rather than every active literal, per Fu–Malik. obj is the
// whole objective (not just active) so that any improved model found along
// the way is recorded with its true value even when active is a strict
// subset, as BCD's per-class passes use it.
//
// When splitWeight is true (UnsatCore, BCD, BCD2) only the lightest core
// member's weight is paid off each round and the rest is carried forward
// on a fresh soft literal over the same variable, the standard weighted
// Fu–Malik (WPM1) step. When false (MSU4) the heaviest core member's
// weight is paid off instead, trading a looser per-round bound for fewer
// rounds — a coarser but cheaper approximation appropriate for MSU4's
// "resolve the whole core at once" character.
func (o *Optimizer) solveClassToOptimum(ctx context.Context, active []softLit, base int, splitWeight bool, obj Objective) (lowerBound int, proven, cancelled bool) {
	cost := 0
	pool := append([]softLit(nil), active...)

	for {
		if ctxDone(ctx) {
			return base + cost, false, true
		}
		if len(pool) == 0 {
			// Every soft literal has been fully paid for via relax
			// variables; the accumulated clauses are now guaranteed
			// satisfiable (that's what each round's relaxation bought),
			// so get an actual witnessing model rather than just trusting
			// the bound.
			switch o.solver.Solve(ctx) {
			case sat.True:
				model := o.solver.GetModel()
				o.record(model, obj.Value(model))
				return base + cost, true, false
			case sat.False:
				// Shouldn't happen given every soft literal was paid off,
				// but fall back to reporting whatever was already found
				// rather than claiming a proof that didn't actually land.
				return base + cost, false, true
			default:
				return base + cost, false, true
			}
		}

		assumptions := make([]sat.Literal, len(pool))
		for i, s := range pool {
			assumptions[i] = s.lit.Opposite()
		}

		switch o.solver.SolveWith(ctx, assumptions) {
		case sat.Unknown:
			return base + cost, false, true
		case sat.True:
			model := o.solver.GetModel()
			o.record(model, obj.Value(model))
			return base + cost, true, false
		case sat.False:
			core := o.solver.FailedAssumptions()
			if len(core) == 0 {
				return base + cost, false, true
			}
			inCore := make(map[sat.Literal]bool, len(core))
			for _, a := range core {
				inCore[a] = true
			}

			coreWeight := 0
			for _, s := range pool {
				if !inCore[s.lit.Opposite()] {
					continue
				}
				switch {
				case coreWeight == 0:
					coreWeight = s.weight
				case splitWeight && s.weight < coreWeight:
					coreWeight = s.weight
				case !splitWeight && s.weight > coreWeight:
					coreWeight = s.weight
				}
			}

			relaxVars := make([]sat.Literal, 0, len(core))
			next := make([]softLit, 0, len(pool))
			for _, s := range pool {
				if !inCore[s.lit.Opposite()] {
					next = append(next, s)
					continue
				}
				r := o.solver.NewVar().Lit(true)
				if err := o.solver.AddClause([]sat.Literal{r, s.lit.Opposite()}); err != nil {
					return base + cost, false, true
				}
				relaxVars = append(relaxVars, r)
				if rest := s.weight - coreWeight; rest > 0 {
					next = append(next, softLit{lit: s.lit, weight: rest})
				}
			}
			if len(relaxVars) > 1 {
				if err := o.solver.AddAtMost(relaxVars, 1); err != nil {
					return base + cost, false, true
				}
			}

			cost += coreWeight
			o.reportLowerBound(base + cost)
			pool = next
		}
	}
}
