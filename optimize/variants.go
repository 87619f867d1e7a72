package optimize

import (
	"context"

	"github.com/hartigcc/pbsat/internal/sat"
	"github.com/rhartert/yagh"
)

// bcd implements the BCD/BCD2 strategies: partition the objective's soft
// literals into independent classes, prove each class's own lower bound
// in isolation (cheapest class first, scheduled through a yagh.IntMap so
// the next class to visit is always a cheap lookup rather than a rescan),
// then run one joint Fu–Malik pass over the whole objective — seeded by
// the summed per-class bound — to find a model honoring every class at
// once. BCD2 additionally merges the two classes once before that joint
// pass, typically tightening the seed bound beyond the sum of independent
// class bounds.
//
// This is a simplification of the textbook class-splitting procedure:
// classes are bounded independently (other classes' literals left free
// during each class's pass) rather than co-refined across rounds, so the
// per-class bounds are valid lower bounds but the real optimum is only
// established by the closing joint pass.
func (o *Optimizer) bcd(ctx context.Context, obj Objective, softs []softLit, base int, merge bool) Result {
	if len(softs) == 0 {
		switch o.solver.Solve(ctx) {
		case sat.True:
			model := o.solver.GetModel()
			o.record(model, obj.Value(model))
			return o.optimumResult()
		case sat.False:
			return Result{Status: StatusUnsat}
		default:
			return Result{Status: StatusUnknown}
		}
	}

	numClasses := 2
	if len(softs) < 2 {
		numClasses = 1
	}
	classes := make([][]softLit, numClasses)
	for i, s := range softs {
		classes[i%numClasses] = append(classes[i%numClasses], s)
	}

	sched := yagh.New[int](0)
	sched.GrowBy(numClasses)
	for i, class := range classes {
		total := 0
		for _, s := range class {
			total += s.weight
		}
		sched.Put(i, total)
	}

	lowerBound := base
	contribs := make([]int, numClasses)
	for {
		top, ok := sched.Pop()
		if !ok {
			break
		}
		idx := top.Elem
		contrib, _, cancelled := o.solveClassToOptimum(ctx, classes[idx], 0, true, obj)
		contribs[idx] = contrib
		lowerBound += contrib
		o.reportLowerBound(lowerBound)
		if cancelled {
			if o.hasBest {
				return o.satResult(lowerBound)
			}
			return Result{Status: StatusUnknown}
		}
	}

	if merge && numClasses > 1 {
		merged := append(append([]softLit(nil), classes[0]...), classes[1]...)
		mergedBound, _, cancelled := o.solveClassToOptimum(ctx, merged, 0, true, obj)
		if cancelled {
			if o.hasBest {
				return o.satResult(lowerBound)
			}
			return Result{Status: StatusUnknown}
		}
		lowerBound += mergedBound - contribs[0] - contribs[1]
		o.reportLowerBound(lowerBound)
	}

	value, proven, cancelled := o.solveClassToOptimum(ctx, softs, base, true, obj)
	return o.finishCoreResult(value, proven, cancelled)
}

// adaptiveSmallObjective is the term count below which Linear's per-model
// AddPBAtMost tightening converges about as fast as setting up core
// relaxation machinery would, so Adaptive just uses Linear outright.
const adaptiveSmallObjective = 8

// adaptive picks Linear for small objectives, Binary when coefficients
// are large relative to the number of terms (so each binary probe rules
// out a wide value range), and UnsatCore otherwise (many similarly-sized
// terms, where relaxing only the literals an unsat core implicates beats
// repeatedly re-proving the same bound from scratch).
func (o *Optimizer) adaptive(ctx context.Context, obj Objective) Result {
	if len(obj.Terms) <= adaptiveSmallObjective {
		return o.linear(ctx, obj)
	}

	spread := 0
	for _, t := range obj.Terms {
		c := t.Coeff
		if c < 0 {
			c = -c
		}
		if c > spread {
			spread = c
		}
	}
	if spread > len(obj.Terms) {
		return o.binary(ctx, obj)
	}
	return o.unsatCore(ctx, obj, UnsatCore)
}
