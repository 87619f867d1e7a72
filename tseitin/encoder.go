// Package tseitin reifies conjunctions and pseudo-Boolean constraints into
// fresh propositional variables, so higher layers (integer arithmetic,
// linearization) lower cleanly onto a sat.Solver.
package tseitin

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hartigcc/pbsat/internal/sat"
)

// Mode selects how Encoder.EncodeConj asserts the defining clauses for a
// new conjunction variable.
type Mode int

const (
	// ModeClause uses plain clauses for both directions of the
	// biconditional, as a CNF-only caller would.
	ModeClause Mode = iota
	// ModePB folds the "y implies every literal" direction into a single
	// PB constraint instead of n clauses, useful once a PB handler is
	// already in play anyway; the "all literals imply y" direction stays
	// one clause.
	ModePB
)

// Op selects the comparison EncodePB reifies.
type Op int

const (
	OpGE Op = iota // Σ cᵢ·lᵢ ≥ rhs
	OpLE            // Σ cᵢ·lᵢ ≤ rhs
)

// Encoder holds a non-owning handle to a solver and its own cache; dropping
// an Encoder leaves every constraint it has asserted intact (spec.md §5).
type Encoder struct {
	solver *sat.Solver
	mode   Mode
	cache  map[string]sat.Literal

	trueLit  sat.Literal
	hasTrue  bool
	falseLit sat.Literal
	hasFalse bool
}

// NewEncoder returns an Encoder over s using the given conjunction-encoding
// mode.
func NewEncoder(s *sat.Solver, mode Mode) *Encoder {
	return &Encoder{solver: s, mode: mode, cache: map[string]sat.Literal{}}
}

// trueLiteral returns a literal forced true at the root, allocating it
// (once) on first use.
func (e *Encoder) trueLiteral() (sat.Literal, error) {
	if e.hasTrue {
		return e.trueLit, nil
	}
	v := e.solver.NewVar()
	lit := v.Lit(true)
	if err := e.solver.AddClause([]sat.Literal{lit}); err != nil {
		return 0, err
	}
	e.trueLit, e.hasTrue = lit, true
	return lit, nil
}

func (e *Encoder) falseLiteral() (sat.Literal, error) {
	if e.hasFalse {
		return e.falseLit, nil
	}
	lit, err := e.trueLiteral()
	if err != nil {
		return 0, err
	}
	e.falseLit, e.hasFalse = lit.Opposite(), true
	return e.falseLit, nil
}

// canonicalKey sorts and deduplicates lits, returning the stable string key
// used for cache lookup along with the deduplicated slice and whether the
// set contains both a literal and its negation.
func canonicalKey(lits []sat.Literal) (key string, unique []sat.Literal, contradictory bool) {
	seen := map[sat.Literal]struct{}{}
	for _, l := range lits {
		seen[l] = struct{}{}
	}
	unique = make([]sat.Literal, 0, len(seen))
	for l := range seen {
		unique = append(unique, l)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })

	for _, l := range unique {
		if _, ok := seen[l.Opposite()]; ok {
			contradictory = true
		}
	}

	parts := make([]string, len(unique))
	for i, l := range unique {
		parts[i] = strconv.Itoa(int(l))
	}
	return strings.Join(parts, ","), unique, contradictory
}

// EncodeConj returns a literal y equivalent to the conjunction of lits,
// per spec.md §4.6: the empty conjunction is the constant-true literal, a
// singleton is returned unchanged, and a cache hit on the canonicalized
// literal set returns the existing y. Otherwise a fresh variable is
// allocated and the biconditional y ⟺ (l₁ ∧ … ∧ lₙ) is asserted.
func (e *Encoder) EncodeConj(lits []sat.Literal) (sat.Literal, error) {
	key, unique, contradictory := canonicalKey(lits)

	switch {
	case len(unique) == 0:
		return e.trueLiteral()
	case contradictory:
		return e.falseLiteral()
	case len(unique) == 1:
		return unique[0], nil
	}

	if y, ok := e.cache[key]; ok {
		return y, nil
	}

	y := e.solver.NewVar().Lit(true)

	forward := make([]sat.Literal, 0, len(unique)+1)
	forward = append(forward, y)
	for _, l := range unique {
		forward = append(forward, l.Opposite())
	}
	if err := e.solver.AddClause(forward); err != nil {
		return 0, err
	}

	switch e.mode {
	case ModePB:
		terms := make([]sat.Term, 0, len(unique)+1)
		terms = append(terms, sat.Term{Coeff: -len(unique), Lit: y})
		for _, l := range unique {
			terms = append(terms, sat.Term{Coeff: 1, Lit: l})
		}
		if err := e.solver.AddPBAtLeast(terms, 0); err != nil {
			return 0, err
		}
	default:
		for _, l := range unique {
			if err := e.solver.AddClause([]sat.Literal{y.Opposite(), l}); err != nil {
				return 0, err
			}
		}
	}

	e.cache[key] = y
	return y, nil
}

// EncodePB introduces a fresh selector literal reifying Σ terms[i].Coeff·
// terms[i].Lit `op` rhs: the selector is true exactly when the comparison
// holds, used for soft-constraint and indicator encodings (spec.md §4.6).
func (e *Encoder) EncodePB(terms []sat.Term, op Op, rhs int) (sat.Literal, error) {
	sel := e.solver.NewVar().Lit(true)

	switch op {
	case OpGE:
		if err := e.solver.AddSoftPBAtLeast(sel, terms, rhs); err != nil {
			return 0, err
		}
		if err := e.solver.AddSoftPBAtMost(sel.Opposite(), terms, rhs-1); err != nil {
			return 0, err
		}
	case OpLE:
		if err := e.solver.AddSoftPBAtMost(sel, terms, rhs); err != nil {
			return 0, err
		}
		if err := e.solver.AddSoftPBAtLeast(sel.Opposite(), terms, rhs+1); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("tseitin: unknown op %d", op)
	}

	return sel, nil
}
