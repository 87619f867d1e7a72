package sat

import (
	"github.com/rhartert/yagh"
)

// varOrder maintains the VSIDS (Variable State Independent Decaying Sum)
// order in which unassigned variables are offered up as decisions.
//
// The heap holds every variable currently believed to be unassigned; once
// popped, a variable might turn out to already be assigned (its removal
// was skipped on assignment for speed), in which case selectUnassigned
// silently drops it and pops again.
type varOrder struct {
	heap *yagh.IntMap[float64]

	activities []float64 // in [0, 1e100)
	varInc     float64   // in (0, 1e100]
	varDecay   float64   // in (0, 1]

	phase       []LBool // saved polarity per variable; no caller-set preference
	phaseSaving bool
}

func newVarOrder(decay float64) *varOrder {
	return &varOrder{
		heap:     yagh.New[float64](0),
		varInc:   1,
		varDecay: decay,
	}
}

// newVar registers a new variable with zero activity and an unset phase.
func (vo *varOrder) newVar() {
	v := len(vo.activities)
	vo.activities = append(vo.activities, 0)
	vo.phase = append(vo.phase, Unknown)
	vo.heap.GrowBy(1)
	vo.heap.Put(v, 0)
}

// bump increases v's activity and rescales all activities if it overflows.
func (vo *varOrder) bump(v int) {
	vo.activities[v] += vo.varInc
	if vo.heap.Contains(v) {
		vo.heap.Put(v, -vo.activities[v])
	}
	if vo.activities[v] > 1e100 {
		vo.rescale()
	}
}

func (vo *varOrder) rescale() {
	vo.varInc *= 1e-100
	for v, a := range vo.activities {
		vo.activities[v] = a * 1e-100
		if vo.heap.Contains(v) {
			vo.heap.Put(v, -vo.activities[v])
		}
	}
}

// decay ages the bump increment so recent bumps count for more.
func (vo *varOrder) decay() {
	vo.varInc /= vo.varDecay
	if vo.varInc > 1e100 {
		vo.rescale()
	}
}

// reinsert puts v back in the candidate heap, recording its outgoing value
// for phase saving if v was just unassigned by a backtrack.
func (vo *varOrder) reinsert(v int, outgoing LBool) {
	if vo.phaseSaving {
		vo.phase[v] = outgoing
	}
	vo.heap.Put(v, -vo.activities[v])
}

func (vo *varOrder) preferredLiteral(v int, fallback bool) Literal {
	switch vo.phase[v] {
	case True:
		return PositiveLiteral(v)
	case False:
		return NegativeLiteral(v)
	default:
		if fallback {
			return PositiveLiteral(v)
		}
		return NegativeLiteral(v)
	}
}

// selectUnassigned pops the highest-activity still-unassigned variable from
// the heap, or false if none remain.
func (vo *varOrder) selectUnassigned(isUnassigned func(int) bool) (int, bool) {
	for {
		top, ok := vo.heap.Pop()
		if !ok {
			return 0, false
		}
		if isUnassigned(top.Elem) {
			return top.Elem, true
		}
	}
}
