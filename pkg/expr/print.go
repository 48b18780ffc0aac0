package expr

import (
	"math/big"
	"strings"
)

const (
	precAdd = iota + 1
	precMul
	precPow
	precAtom
)

// render builds the display string of a freshly interned node from its
// children's strings. It runs under the intern lock and must not create
// nodes.
func render(n Expr) string {
	switch x := n.(type) {
	case *Number:
		return x.val.RatString()
	case *Constant:
		return x.name
	case *Symbol:
		return x.name
	case *Func:
		parts := make([]string, len(x.args))
		for i, a := range x.args {
			parts[i] = a.String()
		}
		return x.fn.String() + "(" + strings.Join(parts, ", ") + ")"
	case *Pow:
		return renderPow(x.args[0], x.args[1])
	case *Mul:
		return renderMul(x.args, false)
	case *Add:
		return renderAdd(x.args)
	}
	return "?"
}

func precedence(n Expr) int {
	switch x := n.(type) {
	case *Add:
		return precAdd
	case *Mul:
		if c, ok := x.args[0].(*Number); ok && c.Sign() < 0 {
			return precAdd
		}
		return precMul
	case *Pow:
		switch {
		case isHalf(x.args[1]):
			return precAtom
		case isMinusOne(x.args[1]):
			return precMul
		}
		return precPow
	case *Number:
		if x.Sign() < 0 {
			return precAdd
		}
		if !x.IsInt() {
			return precMul
		}
	}
	return precAtom
}

func paren(n Expr, min int) string {
	if precedence(n) < min {
		return "(" + n.String() + ")"
	}
	return n.String()
}

func isHalf(n Expr) bool {
	x, ok := n.(*Number)
	return ok && x.val.Num().IsInt64() && x.val.Num().Int64() == 1 && x.val.Denom().IsInt64() && x.val.Denom().Int64() == 2
}

func isMinusOne(n Expr) bool {
	x, ok := n.(*Number)
	return ok && x.val.IsInt() && x.val.Num().IsInt64() && x.val.Num().Int64() == -1
}

func renderPow(b, e Expr) string {
	if isHalf(e) {
		return "sqrt(" + b.String() + ")"
	}
	if isMinusOne(e) {
		return "1/" + paren(b, precPow)
	}
	return paren(b, precAtom) + "**" + paren(e, precAtom)
}

// renderMul writes x*y/z. Factors with exponent -1 and the coefficient's
// denominator go after the slash. With dropSign a negative coefficient is
// rendered as its absolute value.
func renderMul(args []Expr, dropSign bool) string {
	var num, den []string
	neg := false
	for i, a := range args {
		if c, ok := a.(*Number); ok && i == 0 {
			neg = c.Sign() < 0
			n := new(big.Int).Abs(c.val.Num())
			if n.Cmp(big.NewInt(1)) != 0 {
				num = append(num, n.String())
			}
			if !c.val.IsInt() {
				den = append(den, c.val.Denom().String())
			}
			continue
		}
		if p, ok := a.(*Pow); ok && isMinusOne(p.args[1]) {
			den = append(den, paren(p.args[0], precPow))
			continue
		}
		num = append(num, paren(a, precMul))
	}
	var sb strings.Builder
	if neg && !dropSign {
		sb.WriteByte('-')
	}
	if len(num) == 0 {
		sb.WriteByte('1')
	} else {
		sb.WriteString(strings.Join(num, "*"))
	}
	switch len(den) {
	case 0:
	case 1:
		sb.WriteString("/" + den[0])
	default:
		sb.WriteString("/(" + strings.Join(den, "*") + ")")
	}
	return sb.String()
}

// renderAdd lists terms with the numeric part last and folds negative
// terms into subtraction.
func renderAdd(args []Expr) string {
	terms := args
	if _, ok := args[0].(*Number); ok {
		terms = append(append([]Expr(nil), args[1:]...), args[0])
	}
	var sb strings.Builder
	for i, t := range terms {
		s, neg := t.String(), false
		switch x := t.(type) {
		case *Number:
			if x.Sign() < 0 {
				neg = true
				s = new(big.Rat).Abs(&x.val).RatString()
			}
		case *Mul:
			if c, ok := x.args[0].(*Number); ok && c.Sign() < 0 {
				neg = true
				s = renderMul(x.args, true)
			}
		}
		switch {
		case i == 0 && neg:
			sb.WriteString("-" + s)
		case i == 0:
			sb.WriteString(s)
		case neg:
			sb.WriteString(" - " + s)
		default:
			sb.WriteString(" + " + s)
		}
	}
	return sb.String()
}
