package calc

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// constant is an entry in the table of named constants.
type constant uint8

const (
	constNone constant = iota
	constGravity
	constGravitation
	constPi
	constE
)

// function is an entry in the table of named functions.
type function uint8

const (
	funcNone function = iota
	funcSin
	funcCos
	funcTan
	funcLn
	funcLog
	funcExp
	funcSqrt
)

var constants = map[string]constant{
	"g":  constGravity,
	"G":  constGravitation,
	"pi": constPi,
	"e":  constE,
}

var functions = map[string]function{
	"sin":  funcSin,
	"cos":  funcCos,
	"tan":  funcTan,
	"ln":   funcLn,
	"log":  funcLog,
	"exp":  funcExp,
	"sqrt": funcSqrt,
}

type constInfo struct {
	name string
	val  float64
	// big sets out to the constant at the precision of out. If nil, val is
	// exact enough.
	big func(out *big.Float) *big.Float
}

var constInfos = [...]constInfo{
	constGravity:     {name: "g", val: 9.82},
	constGravitation: {name: "G", val: 6.67430e-11},
	constPi:          {name: "pi", val: math.Pi, big: bigfloat.Pi},
	constE: {name: "e", val: math.E, big: func(out *big.Float) *big.Float {
		var one big.Float
		one.SetPrec(out.Prec()).SetInt64(1)
		return bigfloat.Exp(out, &one)
	}},
}

func (c constant) String() string {
	return constInfos[c].name
}

func (c constant) value() float64 {
	return constInfos[c].val
}

// bigValue sets r to the value of the constant at r's precision.
func (c constant) bigValue(r *big.Float) {
	info := constInfos[c]
	if info.big == nil {
		r.SetFloat64(info.val)
		return
	}
	info.big(r)
}

type funcInfo struct {
	name string
	f    func(float64) float64
	// big sets out to the function of in. It panics with big.ErrNaN for
	// arguments outside its domain. If nil, the function is computed in
	// float64 and widened.
	// TODO(zeph): compute trig to full precision once bigfloat has it
	big func(out, in *big.Float) *big.Float
}

var funcInfos = [...]funcInfo{
	funcSin: {name: "sin", f: math.Sin},
	funcCos: {name: "cos", f: math.Cos},
	funcTan: {name: "tan", f: math.Tan},
	funcLn:  {name: "ln", f: math.Log, big: bigfloat.Log},
	funcLog: {name: "log", f: math.Log10, big: func(out, in *big.Float) *big.Float {
		bigfloat.Log(out, in)
		ten := new(big.Float).SetPrec(out.Prec()).SetInt64(10)
		ln10 := bigfloat.Log(new(big.Float).SetPrec(out.Prec()), ten)
		return out.Quo(out, ln10)
	}},
	funcExp:  {name: "exp", f: math.Exp, big: bigfloat.Exp},
	funcSqrt: {name: "sqrt", f: math.Sqrt, big: (*big.Float).Sqrt},
}

func (fn function) String() string {
	return funcInfos[fn].name
}

func (fn function) call(x float64) float64 {
	return funcInfos[fn].f(x)
}

// bigCall sets r to fn(x).
func (fn function) bigCall(r, x *big.Float) (err error) {
	info := funcInfos[fn]
	if info.big == nil || x.IsInf() || x.Sign() == 0 {
		// Zeros and infinities are exact in float64.
		f, _ := x.Float64()
		v := info.f(f)
		if math.IsNaN(v) {
			return domain(x, info.name)
		}
		r.SetFloat64(v)
		return nil
	}
	if x.Sign() < 0 && fn != funcExp {
		// Every other function with a big implementation is undefined for
		// negative arguments.
		return domain(x, info.name)
	}
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if _, ok := p.(big.ErrNaN); ok {
			err = domain(x, info.name)
			return
		}
		panic(p)
	}()
	info.big(r, x)
	return nil
}

// DomainError is an error returned when an operation is applied to an
// argument outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Func is a name identifying the function or operator.
	Func string
}

func (err *DomainError) Error() string {
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r
}

// domain creates a DomainError for a big argument.
func domain(x *big.Float, fn string) *DomainError {
	f, _ := x.Float64()
	return &DomainError{X: f, Func: fn}
}
