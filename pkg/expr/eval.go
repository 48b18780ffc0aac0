package expr

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/wildfunctions/symbolic_power/pkg/evalf"
)

// evalGuard is the number of extra bits carried through an evaluation.
const evalGuard = 32

// Evalf evaluates e to prec bits. subs binds symbols to values; an
// unbound symbol, an infinity, nan or an O-term fails with
// evalf.ErrNotNumeric.
func Evalf(e Expr, prec uint, subs map[*Symbol]evalf.Num) (evalf.Num, error) {
	ev := &evaluator{
		prec: prec + evalGuard,
		subs: subs,
		memo: make(map[Expr]evalf.Num),
	}
	v, err := ev.eval(e)
	if err != nil {
		return evalf.Num{}, err
	}
	return evalf.Complex(
		new(big.Float).SetPrec(prec).Set(v.Re),
		new(big.Float).SetPrec(prec).Set(v.Im),
	), nil
}

type evaluator struct {
	prec uint
	subs map[*Symbol]evalf.Num
	memo map[Expr]evalf.Num
}

func (ev *evaluator) eval(e Expr) (evalf.Num, error) {
	if v, ok := ev.memo[e]; ok {
		return v, nil
	}
	v, err := ev.evalNode(e)
	if err != nil {
		return evalf.Num{}, err
	}
	ev.memo[e] = v
	return v, nil
}

func (ev *evaluator) evalNode(e Expr) (evalf.Num, error) {
	p := ev.prec
	switch x := e.(type) {
	case *Number:
		return evalf.FromRat(&x.val, p), nil

	case *Constant:
		switch x {
		case Pi:
			return evalf.Real(evalf.Pi(p)), nil
		case E:
			return evalf.Exp(evalf.FromInt64(1, p)), nil
		case I:
			return evalf.Unit(p), nil
		}
		return evalf.Num{}, errors.Wrapf(evalf.ErrNotNumeric, "constant %s", x)

	case *Symbol:
		v, ok := ev.subs[x]
		if !ok {
			return evalf.Num{}, errors.Wrapf(evalf.ErrNotNumeric, "unbound symbol %s", x)
		}
		return evalf.Complex(
			new(big.Float).SetPrec(p).Set(v.Re),
			new(big.Float).SetPrec(p).Set(v.Im),
		), nil

	case *Add:
		sum := evalf.FromInt64(0, p)
		for _, t := range x.args {
			v, err := ev.eval(t)
			if err != nil {
				return evalf.Num{}, err
			}
			sum = evalf.Add(sum, v)
		}
		return sum, nil

	case *Mul:
		prod := evalf.FromInt64(1, p)
		for _, f := range x.args {
			v, err := ev.eval(f)
			if err != nil {
				return evalf.Num{}, err
			}
			prod = evalf.Mul(prod, v)
		}
		return prod, nil

	case *Pow:
		w, err := ev.eval(x.args[1])
		if err != nil {
			return evalf.Num{}, err
		}
		if x.args[0] == E {
			return evalf.Exp(w), nil
		}
		z, err := ev.eval(x.args[0])
		if err != nil {
			return evalf.Num{}, err
		}
		v, err := evalf.Pow(z, w)
		return v, errors.Wrapf(err, "evaluating %s", x)

	case *Func:
		return ev.evalFunc(x)
	}
	return evalf.Num{}, errors.Errorf("unknown node %T", e)
}

func (ev *evaluator) evalFunc(f *Func) (evalf.Num, error) {
	if f.fn == FnOrder {
		return evalf.Num{}, errors.Wrapf(evalf.ErrNotNumeric, "%s", f)
	}
	args := make([]evalf.Num, len(f.args))
	for i, a := range f.args {
		v, err := ev.eval(a)
		if err != nil {
			return evalf.Num{}, err
		}
		args[i] = v
	}
	p := ev.prec
	z := args[0]

	switch f.fn {
	case FnLog:
		v, err := evalf.Log(z)
		return v, errors.Wrapf(err, "evaluating %s", f)
	case FnAbs:
		return evalf.Real(evalf.Abs(z)), nil
	case FnRe:
		return evalf.Real(new(big.Float).SetPrec(p).Set(z.Re)), nil
	case FnIm:
		return evalf.Real(new(big.Float).SetPrec(p).Set(z.Im)), nil
	case FnArg:
		if z.IsZero() {
			return evalf.Num{}, errors.Wrap(evalf.ErrUndefined, "arg(0)")
		}
		return evalf.Real(evalf.Arg(z)), nil
	case FnSign:
		if z.IsZero() {
			return evalf.FromInt64(0, p), nil
		}
		m := evalf.Abs(z)
		if !evalf.Certified(m, p-evalGuard) {
			return evalf.Num{}, errors.Wrapf(evalf.ErrPrecisionExhausted, "sign of %s", f.args[0])
		}
		v, err := evalf.Quo(z, evalf.Real(m))
		return v, errors.Wrapf(err, "evaluating %s", f)
	case FnFloor:
		if evalf.Certified(z.Im, p-evalGuard) {
			return evalf.Num{}, errors.Wrapf(evalf.ErrNotNumeric, "floor of non-real %s", f.args[0])
		}
		fl, err := evalf.Floor(z.Re, p-evalGuard)
		if err != nil {
			return evalf.Num{}, err
		}
		return evalf.Real(new(big.Float).SetPrec(p).SetInt(fl)), nil
	case FnConjugate:
		return evalf.Conj(z), nil
	case FnSin:
		return evalf.Sin(z), nil
	case FnCos:
		return evalf.Cos(z), nil
	case FnAtan2:
		y, x := args[0], args[1]
		if y.IsZero() && x.IsZero() {
			return evalf.Num{}, errors.Wrap(evalf.ErrUndefined, "atan2(0, 0)")
		}
		if evalf.Certified(y.Im, p-evalGuard) || evalf.Certified(x.Im, p-evalGuard) {
			return evalf.Num{}, errors.Wrapf(evalf.ErrNotNumeric, "atan2 of non-real arguments in %s", f)
		}
		return evalf.Real(evalf.Atan2(y.Re, x.Re)), nil
	}
	return evalf.Num{}, errors.Errorf("unknown function %s", f.fn)
}
