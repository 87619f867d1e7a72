package optimize

import (
	"context"

	"github.com/hartigcc/pbsat/internal/sat"
)

// binary implements the Binary strategy: an initial plain solve seeds the
// upper bound, Objective.staticLowerBound seeds the lower bound, and each
// round probes the midpoint of [lowerBound, upperBound] under a soft
// selector so a failed probe costs nothing beyond the selector variable
// itself (spec.md §4.7).
func (o *Optimizer) binary(ctx context.Context, obj Objective) Result {
	status := o.solver.Solve(ctx)
	switch status {
	case sat.Unknown:
		return Result{Status: StatusUnknown}
	case sat.False:
		return Result{Status: StatusUnsat}
	}

	model := o.solver.GetModel()
	value := obj.Value(model)
	o.record(model, value)

	lb := obj.staticLowerBound()
	o.reportLowerBound(lb)
	ub := value - 1

	for lb <= ub {
		if ctxDone(ctx) {
			return o.satResult(lb)
		}

		mid := lb + (ub-lb)/2
		sel := o.solver.NewVar().Lit(true)
		if err := o.solver.AddSoftPBAtMost(sel, obj.Terms, mid-obj.Const); err != nil {
			return o.satResult(lb)
		}

		switch o.solver.SolveWith(ctx, []sat.Literal{sel}) {
		case sat.Unknown:
			return o.satResult(lb)
		case sat.True:
			model = o.solver.GetModel()
			value = obj.Value(model)
			o.record(model, value)
			ub = value - 1
			if err := o.solver.AddPBAtMost(obj.Terms, ub-obj.Const); err != nil {
				return o.satResult(lb)
			}
		case sat.False:
			if err := o.solver.AddClause([]sat.Literal{sel.Opposite()}); err != nil {
				return o.satResult(lb)
			}
			lb = mid + 1
			if err := o.solver.AddPBAtLeast(obj.Terms, lb-obj.Const); err != nil {
				return o.satResult(lb)
			}
			o.reportLowerBound(lb)
		}
	}

	return o.optimumResult()
}
