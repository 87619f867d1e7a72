// Package optimize drives a sat.Solver to minimize a linear pseudo-Boolean
// objective, reusing the same incremental solver instance across calls
// rather than restarting from scratch for every candidate bound (spec.md
// §4.7).
package optimize

import (
	"context"

	"github.com/hartigcc/pbsat/internal/sat"
)

// Strategy selects the search procedure Minimize uses to close the gap
// between the best known solution and the proven lower bound.
type Strategy int

const (
	// Linear repeatedly tightens "objective ≤ best-1" after every improved
	// model until the solver reports UNSAT.
	Linear Strategy = iota
	// Binary probes the midpoint of the current [lowerBound, upperBound]
	// window under a soft assumption, narrowing whichever side fails.
	Binary
	// UnsatCore relaxes exactly the constraints implicated in each unsat
	// core (Fu–Malik), at the cost of one new relaxation variable per core
	// literal.
	UnsatCore
	// MSU4 is UnsatCore with cores merged into a single growing
	// at-most-one-violation cardinality constraint per round instead of a
	// fresh relaxation per literal.
	MSU4
	// BCD groups the objective into non-overlapping classes and applies
	// UnsatCore's core-relaxation loop to the most promising class first.
	BCD
	// BCD2 is BCD with the first two classes merged into one before any
	// class is bounded; no further merging happens across rounds.
	BCD2
	// Adaptive picks one strategy up front from the objective's shape:
	// Linear for small objectives, Binary when coefficients are large
	// relative to the term count, and UnsatCore otherwise. It does not
	// switch strategies during a run.
	Adaptive
)

// Status reports how far Minimize got before returning.
type Status int

const (
	StatusUnknown Status = iota
	StatusUnsat
	StatusSat
	StatusOptimum
)

func (st Status) String() string {
	switch st {
	case StatusUnsat:
		return "unsat"
	case StatusSat:
		return "sat"
	case StatusOptimum:
		return "optimum"
	default:
		return "unknown"
	}
}

// Objective is Σ Terms[i].Coeff·Terms[i].Lit + Const, the quantity Minimize
// minimizes. Coefficients may be negative; Value and every strategy handle
// the sign directly rather than requiring the caller to normalize first.
type Objective struct {
	Terms []sat.Term
	Const int
}

// Value evaluates the objective against a model as returned by
// sat.Solver.GetModel.
func (o Objective) Value(model []bool) int {
	v := o.Const
	for _, t := range o.Terms {
		if litTrue(t.Lit, model) {
			v += t.Coeff
		}
	}
	return v
}

// staticLowerBound returns the minimum value Value can ever take, achieved
// by setting every positive-coefficient literal false and every
// negative-coefficient literal true.
func (o Objective) staticLowerBound() int {
	lb := o.Const
	for _, t := range o.Terms {
		if t.Coeff < 0 {
			lb += t.Coeff
		}
	}
	return lb
}

func litTrue(l sat.Literal, model []bool) bool {
	v := model[l.VarID()]
	if !l.IsPositive() {
		v = !v
	}
	return v
}

// Result is Minimize's return value.
type Result struct {
	Status Status
	Model  []bool
	Value  int
	// LowerBound is the best proven lower bound on the objective at the
	// time Minimize returned. It equals Value when Status is StatusOptimum.
	LowerBound int
}

// Optimizer drives a non-owning *sat.Solver through repeated SolveWith
// calls to minimize an Objective. It never duplicates solver state; the
// solver's own constraint database accumulates the bounding constraints
// each strategy adds, so a caller that wants the solver back in its
// original state afterward should not reuse it for anything else.
type Optimizer struct {
	solver   *sat.Solver
	strategy Strategy

	// OnImproved is called every time a strictly better model is found,
	// with the new best value. OnLowerBound is called every time the
	// proven lower bound increases. Either may be nil.
	OnImproved   func(model []bool, value int)
	OnLowerBound func(lowerBound int)

	bestModel []bool
	bestValue int
	hasBest   bool
}

// NewOptimizer returns an Optimizer over s using strategy. s must not have
// decisions pending (decision level 0); Optimizer adds permanent
// bound-tightening constraints between calls, which requires the same of
// sat.Solver.AddPBAtLeast/AtMost.
func NewOptimizer(s *sat.Solver, strategy Strategy) *Optimizer {
	return &Optimizer{solver: s, strategy: strategy}
}

// Minimize searches for an assignment minimizing obj, returning as soon as
// ctx is cancelled, the problem is proven infeasible, or optimality is
// proven. Per spec.md §5's cancellation semantics: a cancellation before
// any feasible model is found reports StatusUnknown; a cancellation after
// one or more improving models reports StatusSat with the best model found
// so far, never StatusOptimum unless optimality was actually proven.
func (o *Optimizer) Minimize(ctx context.Context, obj Objective) Result {
	o.bestModel = nil
	o.bestValue = 0
	o.hasBest = false

	switch o.strategy {
	case Binary:
		return o.binary(ctx, obj)
	case UnsatCore, MSU4, BCD, BCD2:
		return o.unsatCore(ctx, obj, o.strategy)
	case Adaptive:
		return o.adaptive(ctx, obj)
	default:
		return o.linear(ctx, obj)
	}
}

// record updates the best-known model if value improves on it, invoking
// OnImproved. It reports whether an improvement occurred.
func (o *Optimizer) record(model []bool, value int) bool {
	if o.hasBest && value >= o.bestValue {
		return false
	}
	o.bestModel = append([]bool(nil), model...)
	o.bestValue = value
	o.hasBest = true
	if o.OnImproved != nil {
		o.OnImproved(model, value)
	}
	return true
}

func (o *Optimizer) reportLowerBound(lb int) {
	if o.OnLowerBound != nil {
		o.OnLowerBound(lb)
	}
}

func (o *Optimizer) satResult(lowerBound int) Result {
	return Result{Status: StatusSat, Model: o.bestModel, Value: o.bestValue, LowerBound: lowerBound}
}

func (o *Optimizer) optimumResult() Result {
	return Result{Status: StatusOptimum, Model: o.bestModel, Value: o.bestValue, LowerBound: o.bestValue}
}

func ctxDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

