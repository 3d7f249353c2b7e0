package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program in native syntax to the writer.
// With indent 0 each part is written on a single line.
//
// The output parses back to a program equal to p; comments are not kept.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	var sb strings.Builder

	for part := range p.Parts() {
		if sb.Len() > 0 {
			sb.WriteByte('\n')

			if indent > 0 {
				sb.WriteByte('\n')
			}
		}

		sb.WriteString(part.Name)
		sb.WriteByte(' ')
		formatBlock(&sb, part.Body, indent, 0)
	}

	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())

	return err
}

// FormatJSON writes the program as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the program as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// FormatTree writes an indented outline of the syntax tree.
func (p *Program) FormatTree(_ context.Context, w io.Writer, indent int) error {
	if indent < 1 {
		indent = 2
	}

	var sb strings.Builder

	for part := range p.Parts() {
		sb.WriteString("Part ")
		sb.WriteString(part.Name)
		sb.WriteByte('\n')

		for _, e := range part.Body.Exprs {
			writeTree(&sb, e, indent, 1)
		}
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// FormatExpr returns e in native syntax on a single line.
func FormatExpr(e Expr) string {
	var sb strings.Builder

	formatExpr(&sb, e, 0, 0)

	return sb.String()
}

// Binding strength of each syntactic level, loosest first.
const (
	precPipe = iota + 1
	precEquality
	precComparison
	precAdditive
	precMultiplicative
	precUnary
	precPrimary
)

func precedence(e Expr) int {
	switch x := e.(type) {
	case *BinaryExpr:
		return x.Op.precedence()

	case *UnaryExpr:
		return precUnary
	}

	return precPrimary
}

func (op Operator) precedence() int {
	switch op {
	case OpPipe:
		return precPipe

	case OpEqual, OpNotEqual:
		return precEquality

	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return precComparison

	case OpAdd, OpSubtract:
		return precAdditive

	case OpMultiply, OpDivide:
		return precMultiplicative
	}

	return precUnary
}

func formatBlock(sb *strings.Builder, b *Block, indent, depth int) {
	if len(b.Exprs) == 0 {
		sb.WriteString("{}")

		return
	}

	sb.WriteByte('{')

	for i, e := range b.Exprs {
		if indent > 0 {
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(" ", (depth+1)*indent))
		} else {
			sb.WriteByte(' ')
		}

		formatExpr(sb, e, indent, depth+1)

		// Expressions are always separated explicitly; adjacent
		// expressions may otherwise fuse into a call or a subtraction.
		if i < len(b.Exprs)-1 {
			sb.WriteByte(';')
		}
	}

	if indent > 0 {
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", depth*indent))
	} else {
		sb.WriteByte(' ')
	}

	sb.WriteByte('}')
}

func formatExpr(sb *strings.Builder, e Expr, indent, depth int) {
	switch x := e.(type) {
	case *Identifier:
		sb.WriteString(x.Name)

	case *VariableAccess:
		formatExpr(sb, x.Left, indent, depth)

	case *NumberExpr:
		sb.WriteString(strconv.FormatFloat(x.Value, 'f', -1, 64))

	case *BooleanExpr:
		sb.WriteString(strconv.FormatBool(x.Value))

	case *StringExpr:
		sb.WriteString(quote(x.Value))

	case *UnaryExpr:
		sb.WriteString(x.Op.String())
		formatOperand(sb, x.Operand, precedence(x.Operand) < precUnary, indent, depth)

	case *BinaryExpr:
		prec := x.Op.precedence()

		formatOperand(sb, x.Left, precedence(x.Left) < prec, indent, depth)
		sb.WriteByte(' ')
		sb.WriteString(x.Op.String())
		sb.WriteByte(' ')
		formatOperand(sb, x.Right, precedence(x.Right) <= prec, indent, depth)

	case *FunctionExpr:
		sb.WriteByte('(')
		sb.WriteString(strings.Join(x.Params.Names(), ", "))
		sb.WriteString(") => ")
		formatBlock(sb, x.Body, indent, depth)

	case *FunctionCall:
		formatExpr(sb, x.Callee, indent, depth)
		sb.WriteByte('(')

		for i, a := range x.Args.Args {
			if i > 0 {
				sb.WriteString(", ")
			}

			formatExpr(sb, a.Value, indent, depth)
		}

		sb.WriteByte(')')

	default:
		fmt.Fprintf(sb, "<%T>", e)
	}
}

func formatOperand(sb *strings.Builder, e Expr, paren bool, indent, depth int) {
	if paren {
		sb.WriteByte('(')
	}

	formatExpr(sb, e, indent, depth)

	if paren {
		sb.WriteByte(')')
	}
}

// quote writes s as a double-quoted literal using only the escapes the
// scanner understands.
func quote(s string) string {
	var sb strings.Builder

	sb.WriteByte('"')

	for i := range len(s) {
		switch ch := s[i]; ch {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(ch)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case 0:
			sb.WriteString(`\0`)
		default:
			sb.WriteByte(ch)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}

func writeTree(sb *strings.Builder, e Expr, indent, depth int) {
	pad := strings.Repeat(" ", depth*indent)

	line := func(format string, args ...any) {
		sb.WriteString(pad)
		fmt.Fprintf(sb, format, args...)
		sb.WriteByte('\n')
	}

	switch x := e.(type) {
	case *Identifier:
		line("Identifier %s", x.Name)

	case *VariableAccess:
		line("VariableAccess %s", exprName(x))

	case *NumberExpr:
		line("Number %s", strconv.FormatFloat(x.Value, 'f', -1, 64))

	case *BooleanExpr:
		line("Boolean %t", x.Value)

	case *StringExpr:
		line("String %s", quote(x.Value))

	case *UnaryExpr:
		line("Unary %s", x.Op)
		writeTree(sb, x.Operand, indent, depth+1)

	case *BinaryExpr:
		line("Binary %s", x.Op)
		writeTree(sb, x.Left, indent, depth+1)
		writeTree(sb, x.Right, indent, depth+1)

	case *FunctionExpr:
		line("Function (%s)", strings.Join(x.Params.Names(), ", "))

		for _, b := range x.Body.Exprs {
			writeTree(sb, b, indent, depth+1)
		}

	case *FunctionCall:
		line("Call %s", exprName(x.Callee))

		for _, a := range x.Args.Args {
			writeTree(sb, a.Value, indent, depth+1)
		}

	default:
		line("%T", e)
	}
}
