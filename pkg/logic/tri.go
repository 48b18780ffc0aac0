// Package logic implements three-valued (Kleene) logic used by the
// assumption system. Unknown is a legitimate answer and propagates through
// every combinator unless another operand already forces the result.
package logic

// Tri is a three-valued truth value.
type Tri int8

const (
	Unknown Tri = iota
	True
	False
)

// FromBool converts a definite boolean.
func FromBool(b bool) Tri {
	if b {
		return True
	}
	return False
}

// IsTrue reports whether t is definitely true.
func (t Tri) IsTrue() bool { return t == True }

// IsFalse reports whether t is definitely false.
func (t Tri) IsFalse() bool { return t == False }

// Known reports whether t is True or False.
func (t Tri) Known() bool { return t != Unknown }

// Not negates t; Unknown stays Unknown.
func (t Tri) Not() Tri {
	switch t {
	case True:
		return False
	case False:
		return True
	}
	return Unknown
}

func (t Tri) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	}
	return "unknown"
}

// And returns False if any operand is False, True if all are True and
// Unknown otherwise. And() is True.
func And(ts ...Tri) Tri {
	out := True
	for _, t := range ts {
		switch t {
		case False:
			return False
		case Unknown:
			out = Unknown
		}
	}
	return out
}

// Or returns True if any operand is True, False if all are False and
// Unknown otherwise. Or() is False.
func Or(ts ...Tri) Tri {
	out := False
	for _, t := range ts {
		switch t {
		case True:
			return True
		case Unknown:
			out = Unknown
		}
	}
	return out
}

// AndFunc evaluates lazily, stopping at the first False.
func AndFunc(fs ...func() Tri) Tri {
	out := True
	for _, f := range fs {
		switch f() {
		case False:
			return False
		case Unknown:
			out = Unknown
		}
	}
	return out
}

// OrFunc evaluates lazily, stopping at the first True.
func OrFunc(fs ...func() Tri) Tri {
	out := False
	for _, f := range fs {
		switch f() {
		case True:
			return True
		case Unknown:
			out = Unknown
		}
	}
	return out
}

// Xor is True when exactly one operand is True. Any Unknown operand makes
// the result Unknown.
func Xor(a, b Tri) Tri {
	if !a.Known() || !b.Known() {
		return Unknown
	}
	return FromBool(a != b)
}

// Implies returns the material implication a → b.
func Implies(a, b Tri) Tri {
	return Or(a.Not(), b)
}

// Bool collapses t to a Go bool treating Unknown as false.
func Bool(t Tri) bool { return t == True }
