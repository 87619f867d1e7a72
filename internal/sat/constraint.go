package sat

// constraint is the shared surface clauses and PB constraints present to
// the trail, the watcher lists, and conflict analysis. A Literal's reason
// (Solver.reason) is always either nil (decision/no reason) or a
// constraint that is unit on that literal given the trail at the time it
// was assigned.
type constraint interface {
	// propagate is called when watched literal l has just become true
	// (i.e. l.Opposite() is now false). It returns false if the
	// constraint is now in conflict.
	propagate(s *Solver, l Literal) bool

	// explainAssign returns the reason literals that forced l true,
	// appended to out (which is truncated to length 0 first). Every
	// returned literal is true at the time l was assigned: it is the
	// negation of a constraint literal that was false.
	explainAssign(s *Solver, l Literal, out []Literal) []Literal

	// explainConflict returns the currently true literals (negations of
	// the constraint's false literals) that jointly explain why the
	// constraint is conflicting, appended to out.
	explainConflict(s *Solver, out []Literal) []Literal

	// locked reports whether the constraint is currently some
	// variable's reason, and must not be deleted by reduce-DB.
	locked(s *Solver) bool

	// remove unregisters the constraint from all watch lists.
	remove(s *Solver)

	// isLearnt reports whether the constraint was learnt during search
	// (as opposed to an originally-added constraint).
	isLearnt() bool

	// activity/bumpActivity/scaleActivity back reduce-DB's clause scoring.
	// PB constraints that are never learnt can return 0/no-op.
	activity() float64
	bumpActivity(inc float64)
	scaleActivity(factor float64)
}
