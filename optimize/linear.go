package optimize

import (
	"context"

	"github.com/hartigcc/pbsat/internal/sat"
)

// linear implements the Linear strategy: solve, record the model, forbid
// it and everything worse via a single AddPBAtMost bound, repeat until
// UNSAT (optimum) or cancellation.
func (o *Optimizer) linear(ctx context.Context, obj Objective) Result {
	for {
		status := o.solver.Solve(ctx)
		switch status {
		case sat.Unknown:
			if o.hasBest {
				return o.satResult(obj.staticLowerBound())
			}
			return Result{Status: StatusUnknown}
		case sat.False:
			if o.hasBest {
				o.reportLowerBound(o.bestValue)
				return o.optimumResult()
			}
			return Result{Status: StatusUnsat}
		default: // sat.True
			model := o.solver.GetModel()
			value := obj.Value(model)
			o.record(model, value)

			if ctxDone(ctx) {
				return o.satResult(obj.staticLowerBound())
			}

			// Σ c·l ≤ value-1-Const, i.e. strictly better than what we
			// just found.
			if err := o.solver.AddPBAtMost(obj.Terms, value-1-obj.Const); err != nil {
				return o.satResult(obj.staticLowerBound())
			}
		}
	}
}
