package cel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"github.com/oakwood-commons/cardtree/pkg/jsondoc"
)

// ErrNotLiteral is returned by ParseLiteral for text that parses but is not
// made of literals only (identifiers, calls, operators, comprehensions).
var ErrNotLiteral = errors.New("expression is not a literal")

var (
	literalEnvOnce sync.Once
	literalEnv     *cel.Env
	literalEnvErr  error
)

// pythonIdents accepts the Python spellings of the JSON constants, which the
// catalog's listings use.
var pythonIdents = map[string]any{
	"True":  true,
	"False": false,
	"None":  nil,
}

func parserEnv() (*cel.Env, error) {
	literalEnvOnce.Do(func() {
		literalEnv, literalEnvErr = cel.NewEnv()
	})
	return literalEnv, literalEnvErr
}

// ParseLiteral parses text as a literal: numbers, strings, true/false/null,
// list literals and map literals built from literals. Map literals keep their
// source member order. A parenthesised tuple such as "(1, 2)" or "()" is read
// as a list. Unsigned ("1u") and bytes ("b'x'") constants are not JSON values
// and are rejected with ErrNotLiteral.
func ParseLiteral(text string) (any, error) {
	v, err := parseLiteral(text)
	if err == nil || errors.Is(err, ErrNotLiteral) {
		return v, err
	}
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")") {
		if list, lerr := parseLiteral("[" + trimmed[1:len(trimmed)-1] + "]"); lerr == nil {
			return list, nil
		}
	}
	return nil, err
}

func parseLiteral(text string) (any, error) {
	env, err := parserEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Parse(text)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil, err
	}
	return foldLiteral(parsed.GetExpr())
}

func foldLiteral(expr *exprpb.Expr) (any, error) {
	if expr == nil {
		return nil, ErrNotLiteral
	}
	switch expr.ExprKind.(type) {
	case *exprpb.Expr_ConstExpr:
		return constValue(expr.GetConstExpr())

	case *exprpb.Expr_IdentExpr:
		if v, ok := pythonIdents[expr.GetIdentExpr().GetName()]; ok {
			return v, nil
		}
		return nil, ErrNotLiteral

	case *exprpb.Expr_CallExpr:
		call := expr.GetCallExpr()
		if call.GetFunction() != "-_" || len(call.GetArgs()) != 1 || call.GetTarget() != nil {
			return nil, ErrNotLiteral
		}
		v, err := foldLiteral(call.GetArgs()[0])
		if err != nil {
			return nil, err
		}
		switch n := v.(type) {
		case int64:
			return -n, nil
		case float64:
			return -n, nil
		}
		return nil, ErrNotLiteral

	case *exprpb.Expr_ListExpr:
		elems := expr.GetListExpr().GetElements()
		out := make([]any, 0, len(elems))
		for _, e := range elems {
			v, err := foldLiteral(e)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case *exprpb.Expr_StructExpr:
		st := expr.GetStructExpr()
		if st.GetMessageName() != "" {
			return nil, ErrNotLiteral
		}
		obj := jsondoc.NewObject(len(st.GetEntries()))
		for _, entry := range st.GetEntries() {
			k, err := foldLiteral(entry.GetMapKey())
			if err != nil {
				return nil, err
			}
			v, err := foldLiteral(entry.GetValue())
			if err != nil {
				return nil, err
			}
			obj.Set(keyString(k), v)
		}
		return obj, nil
	}
	return nil, ErrNotLiteral
}

func constValue(c *exprpb.Constant) (any, error) {
	switch k := c.GetConstantKind().(type) {
	case *exprpb.Constant_NullValue:
		return nil, nil
	case *exprpb.Constant_BoolValue:
		return k.BoolValue, nil
	case *exprpb.Constant_Int64Value:
		return k.Int64Value, nil
	case *exprpb.Constant_DoubleValue:
		return k.DoubleValue, nil
	case *exprpb.Constant_StringValue:
		return k.StringValue, nil
	}
	return nil, fmt.Errorf("unsupported constant %T: %w", c.GetConstantKind(), ErrNotLiteral)
}

func keyString(k any) string {
	switch t := k.(type) {
	case string:
		return t
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	}
	return fmt.Sprint(k)
}
