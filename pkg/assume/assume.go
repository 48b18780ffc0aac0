// Package assume defines the properties the assumption system reasons about
// and closes a partial fact table under their implication rules.
//
// Semantics are fixed so that every rule below is sound:
//
//	Finite          value is a complex number (not ±oo, zoo or nan)
//	Infinite        value is one of the infinities
//	ExtendedReal    value is in R ∪ {-oo, +oo}
//	Real            ExtendedReal and Finite
//	Imaginary       value is i*r with r real and nonzero
//	Zero            value is 0
//	Nonzero         Finite and not Zero
//	Positive ...    finite real sign predicates (imply Real)
//	ExtendedPositive, ExtendedNegative   sign predicates allowing ±oo
//	Integer, Rational, Irrational, Algebraic, Transcendental, Even, Odd
//	                all imply Finite
//	Polar           value lives on the Riemann surface of log
package assume

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/wildfunctions/symbolic_power/pkg/logic"
)

// Property identifies a three-valued predicate.
type Property int

const (
	Finite Property = iota
	Infinite
	ExtendedReal
	Real
	Imaginary
	Zero
	Nonzero
	Positive
	Negative
	Nonnegative
	Nonpositive
	ExtendedPositive
	ExtendedNegative
	Integer
	Rational
	Irrational
	Algebraic
	Transcendental
	Even
	Odd
	Polar

	NumProperties
)

var propertyNames = [NumProperties]string{
	Finite:           "finite",
	Infinite:         "infinite",
	ExtendedReal:     "extended_real",
	Real:             "real",
	Imaginary:        "imaginary",
	Zero:             "zero",
	Nonzero:          "nonzero",
	Positive:         "positive",
	Negative:         "negative",
	Nonnegative:      "nonnegative",
	Nonpositive:      "nonpositive",
	ExtendedPositive: "extended_positive",
	ExtendedNegative: "extended_negative",
	Integer:          "integer",
	Rational:         "rational",
	Irrational:       "irrational",
	Algebraic:        "algebraic",
	Transcendental:   "transcendental",
	Even:             "even",
	Odd:              "odd",
	Polar:            "polar",
}

func (p Property) String() string {
	if p < 0 || p >= NumProperties {
		return "invalid"
	}
	return propertyNames[p]
}

// Parse looks a property up by its snake_case name.
func Parse(name string) (Property, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range propertyNames {
		if n == name {
			return Property(i), true
		}
	}
	return 0, false
}

// Names returns all property names in declaration order.
func Names() []string {
	out := make([]string, NumProperties)
	copy(out, propertyNames[:])
	return out
}

// ErrInconsistent is returned when a fact table contradicts itself.
var ErrInconsistent = errors.New("inconsistent assumptions")

// Facts is a partial assignment of every property.
type Facts [NumProperties]logic.Tri

// Get returns the value of p.
func (f *Facts) Get(p Property) logic.Tri { return f[p] }

// Set records p = v. Setting Unknown is a no-op.
func (f *Facts) Set(p Property, v logic.Tri) {
	if v.Known() {
		f[p] = v
	}
}

// String lists the known facts, e.g. "positive integer !zero".
func (f Facts) String() string {
	var parts []string
	for i, v := range f {
		switch v {
		case logic.True:
			parts = append(parts, propertyNames[i])
		case logic.False:
			parts = append(parts, "!"+propertyNames[i])
		}
	}
	return strings.Join(parts, " ")
}
