package lang

import (
	"encoding/json"
	"math"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts the program to a native Go map structure keyed by part
// name.
func (p *Program) ToMap() map[string]any {
	result := make(map[string]any)

	for part := range p.Parts() {
		result[part.Name] = blockToNative(part.Body)
	}

	return result
}

// ExprToNative converts an expression to maps, slices and scalars.
func ExprToNative(e Expr) any {
	switch x := e.(type) {
	case *Identifier:
		return map[string]any{"identifier": x.Name}

	case *VariableAccess:
		m := map[string]any{"variable": ExprToNative(x.Left)}
		if x.Right != nil {
			m["member"] = ExprToNative(x.Right)
		}

		return m

	case *NumberExpr:
		if x.Value == math.Trunc(x.Value) && math.Abs(x.Value) < 1<<53 {
			return int64(x.Value)
		}

		return x.Value

	case *BooleanExpr:
		return x.Value

	case *StringExpr:
		return map[string]any{"string": x.Value}

	case *UnaryExpr:
		return map[string]any{
			"op":      x.Op.String(),
			"operand": ExprToNative(x.Operand),
		}

	case *BinaryExpr:
		return map[string]any{
			"op":    x.Op.String(),
			"left":  ExprToNative(x.Left),
			"right": ExprToNative(x.Right),
		}

	case *FunctionExpr:
		return map[string]any{
			"params": x.Params.Names(),
			"body":   blockToNative(x.Body),
		}

	case *FunctionCall:
		args := make([]any, len(x.Args.Args))
		for i, a := range x.Args.Args {
			args[i] = ExprToNative(a.Value)
		}

		return map[string]any{
			"call": exprName(x.Callee),
			"args": args,
		}
	}

	return nil
}

func blockToNative(b *Block) []any {
	out := make([]any, len(b.Exprs))
	for i, e := range b.Exprs {
		out[i] = ExprToNative(e)
	}

	return out
}
