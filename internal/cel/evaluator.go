// Package cel wraps cel-go for the two places cardtree needs it: evaluating
// read-only queries over a serialized document and recognising literal syntax
// typed into a leaf value.
package cel

import (
	"fmt"
	"sort"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/cardtree/pkg/jsondoc"
)

// RootVariable is the name the document is bound to in query expressions.
const RootVariable = "_"

// Evaluator compiles and evaluates CEL expressions against a document.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the string, list and math extensions.
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable(RootVariable, cel.DynType),
		celext.Strings(),
		celext.Lists(),
		celext.Math(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// Evaluate runs expr with doc bound to "_". Ordered objects in doc are
// flattened to plain maps first.
func (e *Evaluator) Evaluate(expr string, doc any) (any, error) {
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	out, _, err := prg.Eval(map[string]any{RootVariable: jsondoc.Plain(doc)})
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}
	return ToGo(out), nil
}

// ToGo converts a CEL result into plain Go values. Maps come back as ordered
// objects with keys sorted, so output is deterministic.
func ToGo(val ref.Val) any {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case types.Null:
		return nil
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
		return string(v)
	}

	native := val.Value()
	switch inner := native.(type) {
	case []ref.Val:
		out := make([]any, len(inner))
		for i, elem := range inner {
			out[i] = ToGo(elem)
		}
		return out
	case []any:
		out := make([]any, len(inner))
		for i, elem := range inner {
			out[i] = fromNative(elem)
		}
		return out
	case map[ref.Val]ref.Val:
		obj := jsondoc.NewObject(len(inner))
		keys := make([]string, 0, len(inner))
		vals := make(map[string]any, len(inner))
		for k, v := range inner {
			ks := fmt.Sprintf("%v", k.Value())
			keys = append(keys, ks)
			vals[ks] = ToGo(v)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.Set(k, vals[k])
		}
		return obj
	case map[string]any:
		return fromNative(inner)
	}
	return native
}

func fromNative(v any) any {
	switch t := v.(type) {
	case ref.Val:
		return ToGo(t)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := jsondoc.NewObject(len(t))
		for _, k := range keys {
			obj.Set(k, fromNative(t[k]))
		}
		return obj
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromNative(e)
		}
		return out
	}
	return v
}
