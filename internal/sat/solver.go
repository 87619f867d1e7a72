// Package sat implements a conflict-driven clause-learning (CDCL) solver
// that natively handles pseudo-Boolean (PB) linear constraints alongside
// plain clauses, via a shared two-watched-literal propagation scheme.
package sat

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
)

// noGuard marks a watcher with no fast-skip guard literal (used by PB
// constraints, which watch every term rather than just two literals).
const noGuard Literal = -1

// watcher represents a constraint attached to a literal's watch list: it is
// notified when that literal becomes true.
type watcher struct {
	source constraint

	// guard is another literal of the constraint that, if already true,
	// means the constraint needs no attention (it's satisfied). Clauses
	// use this; PB constraints pass noGuard since they have no single
	// satisfying literal to check cheaply.
	guard Literal
}

// PBHandler selects which of the two PB constraint representations
// spec.md §3 requires is used for newly added PB constraints.
type PBHandler int

const (
	// PBHandlerCounter maintains a running slack recomputed from the
	// terms' current values on every relevant assignment.
	PBHandlerCounter PBHandler = iota
	// PBHandlerWatched uses a Pueblo-style watched coefficient subset.
	PBHandlerWatched
)

// RestartStrategy selects the sequence of conflict limits between restarts.
type RestartStrategy int

const (
	RestartMiniSAT RestartStrategy = iota
	RestartArmin
	RestartLuby
)

// CCMinLevel selects the learnt-clause minimization pass run after 1-UIP
// resolution (spec.md §4.4 step 3).
type CCMinLevel int

const (
	CCMinNone CCMinLevel = iota
	CCMinLocal
	CCMinRecursive
)

// Logger receives solver progress notifications: "restart", "reduce_db"
// and "new_model" events. Lower bounds are not reported through it. It
// must never call back into the solver. The zero value (nil) disables all
// reporting.
type Logger func(event string, args ...any)

// Options collects every tunable named in spec.md §6.
type Options struct {
	ClauseDecay     float64
	VariableDecay   float64
	RestartStrategy RestartStrategy
	RestartFirst    int
	RestartInc      float64
	CCMin           CCMinLevel
	PhaseSaving     bool
	ForwardSubsume  bool
	BackwardSubsume bool
	RandomFreq      float64
	RandomSeed      int64
	PBHandler       PBHandler
	Logger          Logger
	ModelCheck      bool
	LearntSizeFirst int
	LearntSizeInc   float64
}

// DefaultOptions matches MiniSAT's own defaults, used whenever spec.md §9
// leaves a constant unpinned.
var DefaultOptions = Options{
	ClauseDecay:     0.999,
	VariableDecay:   0.95,
	RestartStrategy: RestartMiniSAT,
	RestartFirst:    100,
	RestartInc:      1.5,
	CCMin:           CCMinLocal,
	PhaseSaving:     true,
	RandomFreq:      0,
	PBHandler:       PBHandlerCounter,
	LearntSizeInc:   1.05,
}

// Solver is a CDCL+PB solver instance. It is not safe for concurrent use;
// callers must serialize access (spec.md §5).
type Solver struct {
	opts Options

	// Constraint database.
	constraints []constraint
	learnts     []constraint
	clauseInc   float64

	// Variable ordering / heuristics.
	order *varOrder
	rng   *rand.Rand

	// Propagation.
	watchers  [][]watcher
	propQueue *Queue[Literal]

	// Per-variable / per-literal state (struct-of-arrays, grown in
	// lockstep by NewVar).
	assigns  []LBool // indexed by literal
	level    []int   // indexed by var
	reason   []constraint
	fixed    []bool // true once a var's value can never change (root-level)

	// Trail.
	trail    []Literal
	trailLim []int

	restarts    *restartState
	learntLimit int64

	unsat bool

	// lastCore holds the assumption literals implicated in the most recent
	// SolveWith call that returned False under a non-empty assumption set,
	// i.e. a minimal(-ish) unsat core over assumptions rather than a
	// permanent conflict. Cleared at the start of every search.
	lastCore []Literal

	seenVar *ResetSet

	// Reusable scratch buffers to avoid per-call allocation.
	tmpWatchers []watcher
	tmpLearnts  []Literal
	tmpReason   []Literal

	// Statistics.
	TotalConflicts int64
	TotalRestarts  int64
	TotalDecisions int64

	models [][]bool
}

// NewSolver returns a new solver configured with opts.
func NewSolver(opts Options) *Solver {
	s := &Solver{
		opts:      opts,
		clauseInc: 1,
		order:     newVarOrder(opts.VariableDecay),
		rng:       rand.New(rand.NewSource(opts.RandomSeed)),
		propQueue: NewQueue[Literal](128),
		seenVar:   &ResetSet{},
	}
	s.order.phaseSaving = opts.PhaseSaving
	s.restarts = newRestartState(opts)
	return s
}

// NewDefaultSolver returns a solver configured with DefaultOptions.
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultOptions)
}

func (s *Solver) log(event string, args ...any) {
	if s.opts.Logger != nil {
		s.opts.Logger(event, args...)
	}
}

// NewVar allocates a new variable and grows every parallel per-variable
// array in lockstep.
func (s *Solver) NewVar() Var {
	v := s.NumVars()
	s.watchers = append(s.watchers, nil, nil) // one per literal
	s.reason = append(s.reason, nil)
	s.level = append(s.level, -1)
	s.fixed = append(s.fixed, false)
	s.assigns = append(s.assigns, Unknown, Unknown)
	s.seenVar.Expand()
	s.order.newVar()
	return Var(v)
}

// NewVars allocates n new variables.
func (s *Solver) NewVars(n int) []Var {
	vs := make([]Var, n)
	for i := range vs {
		vs[i] = s.NewVar()
	}
	return vs
}

func (s *Solver) NumVars() int       { return len(s.assigns) / 2 }
func (s *Solver) NumAssigned() int   { return len(s.trail) }
func (s *Solver) NumConstraints() int { return len(s.constraints) }
func (s *Solver) NumLearnts() int    { return len(s.learnts) }
func (s *Solver) decisionLevel() int { return len(s.trailLim) }

// VarValue returns the current value of variable v.
func (s *Solver) VarValue(v Var) LBool {
	return s.assigns[PositiveLiteral(int(v))]
}

func (s *Solver) litValue(l Literal) LBool {
	return s.assigns[l]
}

// IsFixed reports whether v was assigned at decision level 0, meaning its
// value can never change for the lifetime of the solver (useful to an
// incremental caller deciding whether a literal is still worth assuming).
func (s *Solver) IsFixed(v Var) bool {
	return s.fixed[v]
}

// FailedAssumptions returns the subset of the assumption literals passed to
// the most recent SolveWith call that were jointly responsible for it
// returning False. It is only meaningful immediately after such a call; it
// is empty after a True result or after a permanent (assumption-free)
// UNSAT.
func (s *Solver) FailedAssumptions() []Literal {
	return s.lastCore
}

// watch registers constraint c to be notified when watch becomes true.
func (s *Solver) watch(c constraint, watch Literal, guard Literal) {
	s.watchers[watch] = append(s.watchers[watch], watcher{source: c, guard: guard})
}

// unwatch removes constraint c from watch's watch list.
func (s *Solver) unwatch(c constraint, watch Literal) {
	list := s.watchers[watch]
	j := 0
	for i := range list {
		if list[i].source != c {
			list[j] = list[i]
			j++
		}
	}
	s.watchers[watch] = list[:j]
}

// enqueue appends l to the trail with the given reason. It returns false if
// l's negation is already assigned (a conflict), true otherwise (including
// when l was already assigned to the same value, a no-op).
func (s *Solver) enqueue(l Literal, from constraint) bool {
	switch s.litValue(l) {
	case False:
		return false
	case True:
		return true
	default:
		varID := l.VarID()
		s.assigns[l] = True
		s.assigns[l.Opposite()] = False
		s.level[varID] = s.decisionLevel()
		s.reason[varID] = from
		if s.decisionLevel() == 0 {
			s.fixed[varID] = true
		}
		s.trail = append(s.trail, l)
		s.propQueue.Push(l)
		return true
	}
}

// propagate drains the propagation queue, returning the conflicting
// constraint if one is found, or nil if a fixpoint is reached.
func (s *Solver) propagate() constraint {
	for s.propQueue.Size() > 0 {
		l := s.propQueue.Pop()

		s.tmpWatchers = append(s.tmpWatchers[:0], s.watchers[l]...)
		s.watchers[l] = s.watchers[l][:0]

		for i, w := range s.tmpWatchers {
			if w.guard != noGuard && s.litValue(w.guard) == True {
				s.watchers[l] = append(s.watchers[l], w)
				continue
			}
			if w.source.propagate(s, l) {
				continue
			}
			s.watchers[l] = append(s.watchers[l], s.tmpWatchers[i+1:]...)
			s.propQueue.Clear()
			return w.source
		}
	}
	return nil
}

// AddClause adds a disjunction of literals to the solver. Returns an error
// if called while the solver is not at decision level 0 (spec.md §7). A
// clause that falsifies the problem at the root is recorded as permanent
// UNSAT rather than returned as an error, per spec.md §7.
func (s *Solver) AddClause(lits []Literal) error {
	if s.decisionLevel() != 0 {
		return fmt.Errorf("sat: AddClause called at decision level %d, must be 0", s.decisionLevel())
	}
	if err := s.checkLiterals(lits); err != nil {
		return err
	}
	buf := append([]Literal(nil), lits...)
	c, ok := newClause(s, buf, false)
	if !ok {
		s.unsat = true
		return nil
	}
	if c != nil {
		s.constraints = append(s.constraints, c)
		if s.opts.ForwardSubsume || s.opts.BackwardSubsume {
			s.subsume(c)
		}
	}
	return nil
}

func (s *Solver) checkLiterals(lits []Literal) error {
	for _, l := range lits {
		v := l.VarID()
		if v < 0 || v >= s.NumVars() {
			return fmt.Errorf("sat: literal %v refers to out-of-range variable", l)
		}
	}
	return nil
}

// Simplify removes root-level-satisfied clauses from the constraint and
// learnt databases. It must be called at decision level 0.
func (s *Solver) Simplify() bool {
	if s.decisionLevel() != 0 {
		panic("sat: Simplify called at non-root decision level")
	}
	if s.unsat {
		return false
	}
	if conflict := s.propagate(); conflict != nil {
		s.unsat = true
		return false
	}
	s.simplifyInPlace(&s.learnts)
	s.simplifyInPlace(&s.constraints)
	return true
}

func (s *Solver) simplifyInPlace(list *[]constraint) {
	cs := *list
	j := 0
	for i := range cs {
		switch cl := cs[i].(type) {
		case *Clause:
			if cl.simplify(s) {
				cl.remove(s)
				continue
			}
		case *pbConstraint:
			if cl.simplify(s) {
				cl.remove(s)
				continue
			}
		}
		cs[j] = cs[i]
		j++
	}
	*list = cs[:j]
}

// ReduceDB removes the lower-activity half of the learnt clause database,
// plus any clause of the upper half whose activity is below
// clauseInc/len(learnts); locked and binary clauses are always kept, per
// spec.md §4.5.
func (s *Solver) ReduceDB() {
	if len(s.learnts) == 0 {
		return
	}
	lim := s.clauseInc / float64(len(s.learnts))
	small := func(c constraint) bool {
		cl, ok := c.(*Clause)
		return ok && len(cl.literals) <= 2
	}

	sort.Slice(s.learnts, func(i, j int) bool {
		return s.learnts[i].activity() < s.learnts[j].activity()
	})

	i, j := 0, 0
	for ; i < len(s.learnts)/2; i++ {
		if s.learnts[i].locked(s) || small(s.learnts[i]) {
			s.learnts[j] = s.learnts[i]
			j++
		} else {
			s.learnts[i].remove(s)
		}
	}
	for ; i < len(s.learnts); i++ {
		if !s.learnts[i].locked(s) && !small(s.learnts[i]) && s.learnts[i].activity() < lim {
			s.learnts[i].remove(s)
		} else {
			s.learnts[j] = s.learnts[i]
			j++
		}
	}
	s.learnts = s.learnts[:j]
	s.log("reduce_db", "kept", j)
}

func (s *Solver) bumpClauseActivity(c constraint) {
	c.bumpActivity(s.clauseInc)
	if c.activity() > 1e100 {
		s.clauseInc *= 1e-100
		for _, l := range s.learnts {
			l.scaleActivity(1e-100)
		}
	}
}

func (s *Solver) decayClauseActivity() {
	s.clauseInc /= s.opts.ClauseDecay
}

// Solve runs the search loop to completion (or until cancelled via ctx),
// returning True (SAT), False (UNSAT), or Unknown (cancelled before a
// verdict).
func (s *Solver) Solve(ctx context.Context) LBool {
	return s.SolveWith(ctx, nil)
}

// SolveWith runs the search loop under the given assumptions: each
// assumption literal is forced true for the duration of this call, the
// i-th one decided at its own level i+1, participating in conflict analysis
// and unsat-core extraction the same way a real decision would.
func (s *Solver) SolveWith(ctx context.Context, assumptions []Literal) LBool {
	if s.unsat {
		return False
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s.lastCore = s.lastCore[:0]

	s.restarts.reset()
	s.learntLimit = int64(s.opts.LearntSizeFirst)
	if s.learntLimit <= 0 {
		s.learntLimit = int64(s.NumConstraints()) / 3
	}
	if s.learntLimit < 16 {
		s.learntLimit = 16
	}
	learntInc := s.opts.LearntSizeInc
	if learntInc <= 1 {
		learntInc = 1.05
	}
	status := Unknown

	for status == Unknown {
		select {
		case <-ctx.Done():
			s.cancelUntil(0)
			return Unknown
		default:
		}

		limit := s.restarts.next()
		status = s.search(ctx, limit, assumptions)
		if status != Unknown {
			break
		}
		s.log("restart", "conflicts", s.TotalConflicts)
		s.learntLimit = int64(float64(s.learntLimit) * learntInc)
	}

	s.cancelUntil(0)
	return status
}

// search runs until nConflicts conflicts have been seen since the last
// restart, a model is found, assumptions are refuted, or ctx is cancelled.
func (s *Solver) search(ctx context.Context, nConflicts int64, assumptions []Literal) LBool {
	s.TotalRestarts++
	var conflictCount int64

	for {
		select {
		case <-ctx.Done():
			return Unknown
		default:
		}

		conflict := s.propagate()
		if conflict != nil {
			conflictCount++
			s.TotalConflicts++

			if s.decisionLevel() == 0 {
				s.unsat = true
				return False
			}

			learnt, backtrackLevel := s.analyze(conflict)
			s.cancelUntil(backtrackLevel)
			s.record(learnt)

			s.decayClauseActivity()
			s.order.decay()
			continue
		}

		if s.decisionLevel() == 0 {
			s.Simplify()
		}

		if len(s.learnts) > 0 && int64(len(s.learnts)-s.NumAssigned()) >= s.learntLimit {
			s.ReduceDB()
		}

		if s.NumAssigned() == s.NumVars() {
			s.saveModel()
			return True
		}

		if conflictCount > nConflicts {
			s.cancelUntil(0)
			return Unknown
		}

		lit, refuted := s.nextDecisionLiteral(assumptions)
		if refuted {
			// An assumption is false under the current assignment:
			// unsatisfiable under these assumptions, but not a permanent
			// solver-wide conflict. The core is the refuted assumption plus
			// every earlier assumption its negation was derived from.
			a := assumptions[s.decisionLevel()]
			s.lastCore = append(s.lastCore, a)
			s.seenVar.Clear()
			s.seenVar.Add(a.VarID())
			for i := len(s.trail) - 1; i >= 0; i-- {
				l := s.trail[i]
				v := l.VarID()
				if !s.seenVar.Contains(v) || s.level[v] == 0 {
					continue
				}
				if s.reason[v] == nil {
					s.lastCore = append(s.lastCore, l)
					continue
				}
				for _, q := range s.reason[v].explainAssign(s, l, s.tmpReason) {
					s.seenVar.Add(q.VarID())
				}
			}
			return False
		}
		s.assume(lit)
	}
}

// nextDecisionLiteral returns the next literal to assume and whether the
// assumptions are directly refuted by the current assignment. An
// unsatisfied assumption is returned first (if any remain); otherwise a
// random unassigned variable is picked with probability opts.RandomFreq,
// and failing that the maximum-VSIDS-activity variable, with its saved
// polarity (negative when none is saved).
func (s *Solver) nextDecisionLiteral(assumptions []Literal) (lit Literal, refuted bool) {
	if d := s.decisionLevel(); d < len(assumptions) {
		a := assumptions[d]
		if s.litValue(a) == False {
			return 0, true
		}
		return a, false
	}

	if s.opts.RandomFreq > 0 && s.rng.Float64() < s.opts.RandomFreq {
		if v, ok := s.randomUnassignedVar(); ok {
			return s.order.preferredLiteral(v, false), false
		}
	}

	v, ok := s.order.selectUnassigned(func(v int) bool {
		return s.VarValue(Var(v)) == Unknown
	})
	if !ok {
		// Every variable is assigned; the caller's NumAssigned check above
		// should have already returned True, but guard defensively.
		return 0, false
	}
	return s.order.preferredLiteral(v, false), false
}

func (s *Solver) randomUnassignedVar() (int, bool) {
	n := s.NumVars()
	if n == 0 {
		return 0, false
	}
	start := s.rng.Intn(n)
	for i := 0; i < n; i++ {
		v := (start + i) % n
		if s.VarValue(Var(v)) == Unknown {
			return v, true
		}
	}
	return 0, false
}

func (s *Solver) undoOne() {
	l := s.trail[len(s.trail)-1]
	v := l.VarID()

	outgoing := s.VarValue(Var(v))
	s.order.reinsert(v, outgoing)
	s.assigns[l] = Unknown
	s.assigns[l.Opposite()] = Unknown
	s.reason[v] = nil
	s.level[v] = -1

	s.trail = s.trail[:len(s.trail)-1]
}

func (s *Solver) assume(l Literal) bool {
	s.trailLim = append(s.trailLim, len(s.trail))
	s.TotalDecisions++
	return s.enqueue(l, nil)
}

func (s *Solver) cancel() {
	n := len(s.trail) - s.trailLim[len(s.trailLim)-1]
	for ; n > 0; n-- {
		s.undoOne()
	}
	s.trailLim = s.trailLim[:len(s.trailLim)-1]
}

// cancelUntil backtracks to the given decision level, keeping activities
// and saved polarities intact (spec.md §4.5 restart semantics).
func (s *Solver) cancelUntil(level int) {
	for s.decisionLevel() > level {
		s.cancel()
	}
	s.propQueue.Clear()
}

func (s *Solver) saveModel() {
	model := make([]bool, s.NumVars())
	for i := range model {
		lb := s.VarValue(Var(i))
		if lb == Unknown {
			panic("sat: saveModel called with an incomplete assignment")
		}
		model[i] = lb == True
	}
	s.models = append(s.models, model)
	s.log("new_model")
}

// GetModel returns the most recently found satisfying assignment, or nil
// if Solve/SolveWith has never returned True.
func (s *Solver) GetModel() []bool {
	if len(s.models) == 0 {
		return nil
	}
	return s.models[len(s.models)-1]
}

// CheckModel verifies that model satisfies every constraint ever added to
// the solver (spec.md §7's optional model-check debug mode).
func (s *Solver) CheckModel(model []bool) error {
	value := func(l Literal) bool {
		v := model[l.VarID()]
		if !l.IsPositive() {
			v = !v
		}
		return v
	}
	for _, c := range s.constraints {
		switch cc := c.(type) {
		case *Clause:
			ok := false
			for _, l := range cc.literals {
				if value(l) {
					ok = true
					break
				}
			}
			if !ok {
				return fmt.Errorf("sat: model violates clause %s", cc)
			}
		case *pbConstraint:
			if !cc.satisfiedBy(value) {
				return fmt.Errorf("sat: model violates PB constraint")
			}
		}
	}
	return nil
}
