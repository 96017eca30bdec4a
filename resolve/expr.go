package resolve

import (
	opts "github.com/goliatone/go-options"
)

// Expr builds a lazy default from an expr-lang expression. The named
// dependencies are resolved through the view first, so expression
// dependencies participate in cycle detection like any other lazy default,
// then exposed to the expression under their option names.
//
//	r.SetDefaults(map[string]any{
//	    "env":   "production",
//	    "debug": resolve.Expr(`env != "production"`, "env"),
//	})
//
// Option names containing characters that are not valid expr identifiers
// (dots included) are reachable via the "options" map binding instead.
func Expr(src string, deps ...string) Compute {
	return ExprWithEvaluator(src, nil, deps...)
}

// ExprWithEvaluator is Expr with a custom go-options evaluator, e.g. a CEL
// or goja-backed one, or an expr evaluator with a program cache.
func ExprWithEvaluator(src string, evaluator opts.Evaluator, deps ...string) Compute {
	if evaluator == nil {
		evaluator = opts.NewExprEvaluator()
	}
	return func(v View) (any, error) {
		snapshot := make(map[string]any, len(deps)+1)
		bindings := make(map[string]any, len(deps))
		for _, dep := range deps {
			value, err := v.Get(dep)
			if err != nil {
				return nil, err
			}
			snapshot[dep] = value
			bindings[dep] = value
		}
		snapshot["options"] = bindings
		return evaluator.Evaluate(opts.RuleContext{Snapshot: snapshot}, src)
	}
}
