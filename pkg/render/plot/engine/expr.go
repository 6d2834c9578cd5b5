package engine

import (
	"math"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/matzehuels/plotdown/pkg/errors"
)

// Func evaluates a compiled expression at x.
type Func func(x float64) (float64, error)

// functions available to plot expressions, in addition to the expr builtins
// (abs, ceil, floor, round, min, max).
var functions = map[string]any{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"sqrt":  math.Sqrt,
	"cbrt":  math.Cbrt,
	"exp":   math.Exp,
	"log":   math.Log,
	"ln":    math.Log,
	"log10": math.Log10,
	"log2":  math.Log2,
	"pow":   math.Pow,
}

func newEnv() map[string]any {
	env := make(map[string]any, len(functions)+3)
	for k, v := range functions {
		env[k] = v
	}
	env["x"] = 0.0
	env["pi"] = math.Pi
	env["e"] = math.E
	return env
}

// Compile parses src as a function of x. "^" and "**" are exponentiation.
// Expressions that fail to compile, or whose value at x = 0 is not a number,
// are rejected with an EXTERNAL_ENGINE error.
func Compile(src string) (Func, error) {
	if strings.TrimSpace(src) == "" {
		return nil, errors.New(errors.ErrCodeExternalEngine, "empty expression")
	}
	env := newEnv()
	program, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExternalEngine, err, "compile expression %q", src)
	}

	f := func(x float64) (float64, error) {
		env["x"] = x
		out, err := expr.Run(program, env)
		if err != nil {
			return math.NaN(), err
		}
		return toFloat(out)
	}

	if _, err := f(0); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExternalEngine, err, "evaluate expression %q", src)
	}
	return f, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return math.NaN(), errors.New(errors.ErrCodeExternalEngine, "expression evaluates to %T, not a number", v)
	}
}
