// Package celx compiles and evaluates the CEL expressions used for form
// field validators and record filters.
package celx

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/uideck/internal/record"
)

const (
	// RecordVar binds the record under test in filter expressions.
	RecordVar = "_"
	// ValueVar binds the field value in validator expressions.
	ValueVar = "value"
)

// Evaluator compiles expressions once and caches the programs.
type Evaluator struct {
	env *cel.Env

	mu       sync.Mutex
	programs map[string]cel.Program
}

// NewEvaluator creates an evaluator with the string, list and math extensions.
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable(RecordVar, cel.DynType),
		cel.Variable(ValueVar, cel.DynType),
		cel.CrossTypeNumericComparisons(true),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env, programs: map[string]cel.Program{}}, nil
}

var (
	defaultOnce sync.Once
	defaultEval *Evaluator
	defaultErr  error
)

// Default returns a process-wide evaluator.
func Default() (*Evaluator, error) {
	defaultOnce.Do(func() {
		defaultEval, defaultErr = NewEvaluator()
	})
	return defaultEval, defaultErr
}

// Compile checks expr and caches its program.
func (e *Evaluator) Compile(expr string) error {
	_, err := e.program(expr)
	return err
}

func (e *Evaluator) program(expr string) (cel.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if prg, ok := e.programs[expr]; ok {
		return prg, nil
	}
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	e.programs[expr] = prg
	return prg, nil
}

// Evaluate runs expr with the given variable bindings and converts the
// result to Go values.
func (e *Evaluator) Evaluate(expr string, vars map[string]any) (any, error) {
	prg, err := e.program(expr)
	if err != nil {
		return nil, err
	}
	bound := map[string]any{RecordVar: nil, ValueVar: nil}
	for k, v := range vars {
		bound[k] = v
	}
	out, _, err := prg.Eval(bound)
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}
	return ToGo(out), nil
}

// Matches evaluates a boolean filter expression against r, bound to `_`.
func (e *Evaluator) Matches(expr string, r record.Record) (bool, error) {
	out, err := e.Evaluate(expr, map[string]any{RecordVar: map[string]any(r)})
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %T, want bool", expr, out)
	}
	return b, nil
}

// Filter keeps the records for which expr holds.
func (e *Evaluator) Filter(expr string, recs []record.Record) ([]record.Record, error) {
	out := make([]record.Record, 0, len(recs))
	for _, r := range recs {
		ok, err := e.Matches(expr, r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Validate evaluates a validator expression against value, bound to
// `value`. A string result is the rejection message (empty accepts); a
// false result rejects with fallback.
func (e *Evaluator) Validate(expr string, value any, fallback string) (string, error) {
	out, err := e.Evaluate(expr, map[string]any{ValueVar: value})
	if err != nil {
		return "", err
	}
	switch v := out.(type) {
	case string:
		return v, nil
	case bool:
		if v {
			return "", nil
		}
		return fallback, nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("validator %q returned %T, want string or bool", expr, out)
}

// ToGo converts CEL values to native Go values recursively.
func ToGo(val ref.Val) any {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return []byte(v)
	case types.Null:
		return nil
	}
	inner := val.Value()
	switch x := inner.(type) {
	case []ref.Val:
		out := make([]any, len(x))
		for i, elem := range x {
			out[i] = ToGo(elem)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, elem := range x {
			if rv, ok := elem.(ref.Val); ok {
				out[i] = ToGo(rv)
			} else {
				out[i] = elem
			}
		}
		return out
	case map[ref.Val]ref.Val:
		out := make(map[string]any, len(x))
		for k, v := range x {
			out[fmt.Sprint(ToGo(k))] = ToGo(v)
		}
		return out
	}
	return inner
}
