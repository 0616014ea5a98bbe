package calculator

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
)

// constants are predefined variables, a parameter of the same name wins
var constants = map[string]interface{}{
	"pi":    math.Pi,
	"tau":   2 * math.Pi,
	"e":     math.E,
	"phi":   math.Phi,
	"sqrt2": math.Sqrt2,
	"ln2":   math.Ln2,
	"ln10":  math.Ln10,
}

func unary(name string, fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(args))
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("%s expects a number, got %T", name, args[0])
		}
		return fn(x), nil
	}
}

func binary(name string, fn func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments, got %d", name, len(args))
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("%s expects numbers, got %T", name, args[0])
		}
		y, ok := args[1].(float64)
		if !ok {
			return nil, fmt.Errorf("%s expects numbers, got %T", name, args[1])
		}
		return fn(x, y), nil
	}
}

func factorial(x float64) float64 {
	if x < 0 || x != math.Trunc(x) {
		return math.NaN()
	}
	ret := 1.0
	for i := 2.0; i <= x; i++ {
		ret *= i
	}
	return ret
}

// functions available inside expressions
var functions = map[string]govaluate.ExpressionFunction{
	"abs":       unary("abs", math.Abs),
	"sqrt":      unary("sqrt", math.Sqrt),
	"cbrt":      unary("cbrt", math.Cbrt),
	"exp":       unary("exp", math.Exp),
	"ln":        unary("ln", math.Log),
	"log":       unary("log", math.Log10),
	"log2":      unary("log2", math.Log2),
	"sin":       unary("sin", math.Sin),
	"cos":       unary("cos", math.Cos),
	"tan":       unary("tan", math.Tan),
	"asin":      unary("asin", math.Asin),
	"acos":      unary("acos", math.Acos),
	"atan":      unary("atan", math.Atan),
	"floor":     unary("floor", math.Floor),
	"ceil":      unary("ceil", math.Ceil),
	"round":     unary("round", math.Round),
	"factorial": unary("factorial", factorial),
	"pow":       binary("pow", math.Pow),
	"min":       binary("min", math.Min),
	"max":       binary("max", math.Max),
	"mod":       binary("mod", math.Mod),
}
