//go:build clausepool

package sat

import "sync"

// Clause literal slices are bucketed by capacity and recycled through
// sync.Pool, avoiding the per-learnt-clause allocation that otherwise
// dominates reduceDB churn during a long search.

var pool8 = sync.Pool{
	New: func() any {
		s := make([]Literal, 0, 8)
		return &s
	},
}

var pool64 = sync.Pool{
	New: func() any {
		s := make([]Literal, 0, 64)
		return &s
	},
}

var pool256 = sync.Pool{
	New: func() any {
		s := make([]Literal, 0, 256)
		return &s
	},
}

var poolHuge = sync.Pool{
	New: func() any {
		s := make([]Literal, 0, 512)
		return &s
	},
}

func bucketFor(n int) *sync.Pool {
	switch {
	case n <= 8:
		return &pool8
	case n <= 64:
		return &pool64
	case n <= 256:
		return &pool256
	default:
		return &poolHuge
	}
}

func allocLiterals(n int) (lits []Literal, ref *[]Literal) {
	ref = bucketFor(n).Get().(*[]Literal)
	lits = (*ref)[:0]
	return lits, ref
}

func freeLiterals(ref *[]Literal, lits []Literal) {
	if ref == nil {
		return
	}
	*ref = lits
	bucketFor(cap(lits)).Put(ref)
}
