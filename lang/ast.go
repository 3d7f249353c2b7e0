package lang

import "iter"

// Program is the root of a parsed solution: a required part_1 and an
// optional part_2. Programs are never mutated after parsing, so a single
// Program may be executed any number of times, concurrently.
type Program struct {
	Part1 *Part
	Part2 *Part // nil if the source has no part_2
}

// Parts returns an iterator over the parts present in the program.
func (p *Program) Parts() iter.Seq[*Part] {
	return func(yield func(*Part) bool) {
		if p.Part1 != nil && !yield(p.Part1) {
			return
		}

		if p.Part2 != nil {
			yield(p.Part2)
		}
	}
}

// Part is one of the two top-level named blocks.
type Part struct {
	Name string // "part_1" or "part_2"
	Body *Block
}

// Block is an ordered sequence of expressions.
// All but the last are evaluated for effect; the last yields the result.
type Block struct {
	Exprs []Expr
}

// Expr is any expression node.
//
// The set of implementations is closed: only types in this package satisfy
// Expr, and the evaluator switches over all of them.
type Expr interface {
	exprNode()
}

// Identifier is a bare name.
type Identifier struct {
	Name string
}

// VariableAccess reads a variable. Right is reserved for member access and
// is always nil in parsed programs.
type VariableAccess struct {
	Left  Expr
	Right Expr
}

// NumberExpr is a numeric literal.
type NumberExpr struct {
	Value float64
}

// BooleanExpr is true or false.
type BooleanExpr struct {
	Value bool
}

// StringExpr is a quoted string literal with escapes resolved.
type StringExpr struct {
	Value string
}

// UnaryExpr is a prefix operator applied to an operand.
type UnaryExpr struct {
	Op      Operator
	Operand Expr
}

// BinaryExpr is an infix operator applied to two operands.
type BinaryExpr struct {
	Left  Expr
	Op    Operator
	Right Expr
}

// FunctionExpr is an anonymous function: (params) => { body }.
type FunctionExpr struct {
	Params *ParameterList
	Body   *Block
}

// FunctionCall applies the callee to the evaluated arguments.
type FunctionCall struct {
	Callee *VariableAccess
	Args   *ArgumentList
}

// ParameterList holds the formal parameters of a function, in order.
type ParameterList struct {
	Params []*Parameter
}

// Names returns the parameter names in order.
func (l *ParameterList) Names() []string {
	if l == nil {
		return nil
	}

	names := make([]string, len(l.Params))
	for i, p := range l.Params {
		names[i] = p.Name.Name
	}

	return names
}

// Parameter is a single formal parameter.
type Parameter struct {
	Name *Identifier
}

// ArgumentList holds the actual arguments at a call site, in order.
type ArgumentList struct {
	Args []*Argument
}

// Argument is a single actual argument.
type Argument struct {
	Value Expr
}

func (*Identifier) exprNode()     {}
func (*VariableAccess) exprNode() {}
func (*NumberExpr) exprNode()     {}
func (*BooleanExpr) exprNode()    {}
func (*StringExpr) exprNode()     {}
func (*UnaryExpr) exprNode()      {}
func (*BinaryExpr) exprNode()     {}
func (*FunctionExpr) exprNode()   {}
func (*FunctionCall) exprNode()   {}

// Operator identifies a unary or binary operator.
type Operator int

const (
	OpPipe Operator = iota
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
)

// String returns the operator's source spelling.
func (op Operator) String() string {
	switch op {
	case OpPipe:
		return "|>"

	case OpEqual:
		return "=="

	case OpNotEqual:
		return "!="

	case OpLess:
		return "<"

	case OpLessEqual:
		return "<="

	case OpGreater:
		return ">"

	case OpGreaterEqual:
		return ">="

	case OpAdd:
		return "+"

	case OpSubtract:
		return "-"

	case OpMultiply:
		return "*"

	case OpDivide:
		return "/"

	case OpNot:
		return "!"

	default:
		return "?"
	}
}

// Node constructors. They keep hand-built trees in tests and tools terse.

// NewProgram returns a program with the given parts; part2 may be nil.
func NewProgram(part1, part2 *Part) *Program {
	return &Program{Part1: part1, Part2: part2}
}

// NewPart returns a named part wrapping the given expressions.
func NewPart(name string, exprs ...Expr) *Part {
	return &Part{Name: name, Body: NewBlock(exprs...)}
}

// NewBlock returns a block of expressions. The slice is never nil.
func NewBlock(exprs ...Expr) *Block {
	if exprs == nil {
		exprs = []Expr{}
	}

	return &Block{Exprs: exprs}
}

// NewVariable returns a variable access of the named identifier.
func NewVariable(name string) *VariableAccess {
	return &VariableAccess{Left: &Identifier{Name: name}}
}

// NewCall returns a call of the named function with the given arguments.
func NewCall(name string, args ...Expr) *FunctionCall {
	list := &ArgumentList{Args: make([]*Argument, len(args))}
	for i, a := range args {
		list.Args[i] = &Argument{Value: a}
	}

	return &FunctionCall{Callee: NewVariable(name), Args: list}
}

// NewFunction returns a function expression.
func NewFunction(params []string, body ...Expr) *FunctionExpr {
	list := &ParameterList{Params: make([]*Parameter, len(params))}
	for i, p := range params {
		list.Params[i] = &Parameter{Name: &Identifier{Name: p}}
	}

	return &FunctionExpr{Params: list, Body: NewBlock(body...)}
}
