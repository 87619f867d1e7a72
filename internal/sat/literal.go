package sat

import "fmt"

// Literal represents a reference to a boolean variable or its negation.
// Variable v's positive literal is 2v and its negative literal 2v+1: the
// variable ID is the literal divided by two, the polarity is the low bit,
// and negation is a single XOR.
type Literal int

// PositiveLiteral returns the positive literal of variable v.
func PositiveLiteral(v int) Literal {
	return Literal(v * 2)
}

// NegativeLiteral returns the negative literal of variable v.
func NegativeLiteral(v int) Literal {
	return Literal(v*2 + 1)
}

// VarID returns the ID of the literal's variable.
func (l Literal) VarID() int {
	return int(l) / 2
}

// IsPositive returns true if and only if the literal represents the value
// of its variable (i.e. is not its negation).
func (l Literal) IsPositive() bool {
	return l&1 == 0
}

// Opposite returns the negation of l.
func (l Literal) Opposite() Literal {
	return l ^ 1
}

func (l Literal) String() string {
	if l.IsPositive() {
		return fmt.Sprintf("%d", l.VarID())
	}
	return fmt.Sprintf("-%d", l.VarID())
}

// Var is the caller-visible handle for a variable. It is the same integer
// as the variable ID used by PositiveLiteral/NegativeLiteral; the distinct
// type exists only to keep variables and literals from being confused at
// call sites in higher layers (tseitin, optimize, intexpr).
type Var int

// Lit returns the literal of v with the given polarity.
func (v Var) Lit(positive bool) Literal {
	if positive {
		return PositiveLiteral(int(v))
	}
	return NegativeLiteral(int(v))
}
