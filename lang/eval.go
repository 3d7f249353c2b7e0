package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Result holds the values produced by executing a program.
type Result struct {
	Part1    Value
	Part2    Value
	HasPart2 bool // false if the program has no part_2
}

// Interpreter executes programs on behalf of one logical program name.
// The name selects the input data read by readByLine.
//
// An Interpreter holds no evaluation state; every call to Execute gets a
// fresh scope arena, so one Interpreter may be shared between goroutines.
type Interpreter struct {
	name string
	opts options
}

// New returns an interpreter for the named program.
func New(name string, opts ...Option) *Interpreter {
	return &Interpreter{name: name, opts: makeOptions(opts...)}
}

// Name returns the logical program name.
func (in *Interpreter) Name() string { return in.name }

// Execute evaluates each part of prog in order.
// Any error aborts the execution and the returned Result is zero.
func (in *Interpreter) Execute(ctx context.Context, prog *Program) (Result, error) {
	ex := in.newExecution(ctx)

	var res Result

	for part := range prog.Parts() {
		v, err := ex.runPart(part)
		if err != nil {
			in.opts.logger.DebugContext(
				ctx,
				"execution failed",
				slog.String("program", in.name),
				slog.String("part", part.Name),
				slog.Any("error", err),
			)

			return Result{}, err
		}

		if part == prog.Part2 {
			res.Part2, res.HasPart2 = v, true
		} else {
			res.Part1 = v
		}
	}

	return res, nil
}

// Caller is the view of a running execution given to built-in functions.
type Caller interface {
	// Context returns the context of the running execution.
	Context() context.Context
	// Call applies fn to args with the shared call mechanism.
	Call(fn Value, args ...Value) (Value, error)
	// Data opens the input data of the running program.
	Data() (io.ReadCloser, error)
}

// execution is the evaluation state of a single Execute call.
type execution struct {
	ctx   context.Context
	in    *Interpreter
	env   *Env
	root  Scope
	depth int
}

func (in *Interpreter) newExecution(ctx context.Context) *execution {
	ex := &execution{ctx: ctx, in: in, env: NewEnv()}

	ex.root = ex.env.Push(NoScope)

	for _, fn := range builtins() {
		ex.env.Set(ex.root, fn.Name, fn)
	}

	return ex
}

func (ex *execution) Context() context.Context { return ex.ctx }

func (ex *execution) Call(fn Value, args ...Value) (Value, error) {
	return ex.call(fn, args, calleeName(fn))
}

func (ex *execution) Data() (io.ReadCloser, error) {
	ex.in.opts.logger.TraceContext(
		ex.ctx,
		"open data",
		slog.String("program", ex.in.name),
	)

	return ex.in.opts.source.Open(ex.ctx, ex.in.name)
}

func (ex *execution) runPart(part *Part) (Value, error) {
	if err := ex.ctx.Err(); err != nil {
		return nil, err
	}

	logger := ex.in.opts.logger

	logger.TraceContext(
		ex.ctx,
		"part start",
		slog.String("part", part.Name),
		slog.Int("exprs", len(part.Body.Exprs)),
	)

	s := ex.env.Push(ex.root)
	defer ex.env.Pop(s)

	v, err := ex.evalBlock(part.Body, s)
	if err != nil {
		return nil, err
	}

	logger.TraceContext(
		ex.ctx,
		"part result",
		slog.String("part", part.Name),
		valueAttr("result", v),
	)

	return v, nil
}

// evalBlock evaluates each expression in order and yields the last value,
// or absent for an empty block.
func (ex *execution) evalBlock(b *Block, s Scope) (Value, error) {
	var last Value

	for _, expr := range b.Exprs {
		v, err := ex.eval(expr, s)
		if err != nil {
			return nil, err
		}

		last = v
	}

	return last, nil
}

func (ex *execution) eval(expr Expr, s Scope) (Value, error) {
	switch e := expr.(type) {
	case *Identifier:
		v, ok := ex.env.Lookup(s, e.Name)
		if !ok {
			return nil, ErrUnboundIdentifier.With(slog.String("name", e.Name))
		}

		return v, nil

	case *VariableAccess:
		id, ok := e.Left.(*Identifier)
		if !ok || e.Right != nil {
			return nil, ErrUnsupportedNode.With(slog.String("node", "member access"))
		}

		return ex.eval(id, s)

	case *NumberExpr:
		return Number(e.Value), nil

	case *BooleanExpr:
		return Bool(e.Value), nil

	case *StringExpr:
		return String(e.Value), nil

	case *UnaryExpr:
		return ex.evalUnary(e, s)

	case *BinaryExpr:
		if e.Op == OpPipe {
			return ex.evalPipe(e, s)
		}

		return ex.evalBinary(e, s)

	case *FunctionExpr:
		ex.env.Capture(s)

		return &Closure{Params: e.Params.Names(), Body: e.Body, Scope: s}, nil

	case *FunctionCall:
		callee, err := ex.eval(e.Callee, s)
		if err != nil {
			return nil, err
		}

		args := make([]Value, 0, len(e.Args.Args))

		for _, a := range e.Args.Args {
			v, err := ex.eval(a.Value, s)
			if err != nil {
				return nil, err
			}

			args = append(args, v)
		}

		return ex.call(callee, args, exprName(e.Callee))

	default:
		return nil, ErrUnsupportedNode.With(slog.String("node", fmt.Sprintf("%T", expr)))
	}
}

// evalPipe evaluates x |> f as f(x).
func (ex *execution) evalPipe(e *BinaryExpr, s Scope) (Value, error) {
	left, err := ex.eval(e.Left, s)
	if err != nil {
		return nil, err
	}

	right, err := ex.eval(e.Right, s)
	if err != nil {
		return nil, err
	}

	return ex.call(right, []Value{left}, exprName(e.Right))
}

// call applies fn to args. Each application consumes max(arity, 1)
// arguments (or all that remain); application repeats while arguments
// remain and the result is itself callable. Leftover arguments are ignored
// once the result is not callable.
func (ex *execution) call(fn Value, args []Value, name string) (Value, error) {
	if !IsCallable(fn) {
		return nil, ErrNotCallable.With(
			slog.String("name", name),
			slog.String("kind", kindOf(fn).String()),
		)
	}

	if len(args) == 0 {
		return ex.apply(fn, nil)
	}

	result := fn

	for len(args) > 0 && IsCallable(result) {
		n := min(max(arity(result), 1), len(args))

		var err error

		result, err = ex.apply(result, args[:n])
		if err != nil {
			return nil, err
		}

		args = args[n:]
	}

	return result, nil
}

// apply performs a single application of a callable.
func (ex *execution) apply(fn Value, args []Value) (Value, error) {
	if err := ex.ctx.Err(); err != nil {
		return nil, err
	}

	limit := ex.in.opts.recursionLimit

	ex.depth++
	defer func() { ex.depth-- }()

	if limit > 0 && ex.depth > limit {
		return nil, ErrRecursionLimit.With(slog.Int("limit", limit))
	}

	switch f := fn.(type) {
	case *Closure:
		s := ex.env.Push(f.Scope)
		defer ex.env.Pop(s)

		for i, name := range f.Params {
			var v Value
			if i < len(args) {
				v = args[i]
			}

			ex.env.Set(s, name, v)
		}

		return ex.evalBlock(f.Body, s)

	case *Native:
		if len(args) < f.Arity {
			padded := make([]Value, f.Arity)
			copy(padded, args)
			args = padded
		}

		return f.Fn(ex, args)
	}

	return nil, ErrNotCallable.With(slog.String("kind", kindOf(fn).String()))
}

func (ex *execution) evalUnary(e *UnaryExpr, s Scope) (Value, error) {
	v, err := ex.eval(e.Operand, s)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case OpNot:
		return Bool(!Truthy(v)), nil

	case OpSubtract:
		if n, ok := v.(Number); ok {
			return -n, nil
		}
	}

	return nil, ErrOperandType.With(
		slog.String("op", e.Op.String()),
		slog.String("operand", kindOf(v).String()),
	)
}

func (ex *execution) evalBinary(e *BinaryExpr, s Scope) (Value, error) {
	left, err := ex.eval(e.Left, s)
	if err != nil {
		return nil, err
	}

	right, err := ex.eval(e.Right, s)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case OpEqual:
		return Bool(Equal(left, right)), nil

	case OpNotEqual:
		return Bool(!Equal(left, right)), nil
	}

	switch l := left.(type) {
	case Number:
		if r, ok := right.(Number); ok {
			if v, ok := arithmetic(e.Op, float64(l), float64(r)); ok {
				return v, nil
			}
		}

	case String:
		if r, ok := right.(String); ok {
			if v, ok := concatenate(e.Op, l, r); ok {
				return v, nil
			}
		}
	}

	return nil, ErrOperandType.With(
		slog.String("op", e.Op.String()),
		slog.String("left", kindOf(left).String()),
		slog.String("right", kindOf(right).String()),
	)
}

func arithmetic(op Operator, l, r float64) (Value, bool) {
	switch op {
	case OpAdd:
		return Number(l + r), true

	case OpSubtract:
		return Number(l - r), true

	case OpMultiply:
		return Number(l * r), true

	case OpDivide:
		return Number(l / r), true

	case OpLess:
		return Bool(l < r), true

	case OpLessEqual:
		return Bool(l <= r), true

	case OpGreater:
		return Bool(l > r), true

	case OpGreaterEqual:
		return Bool(l >= r), true
	}

	return nil, false
}

func concatenate(op Operator, l, r String) (Value, bool) {
	switch op {
	case OpAdd:
		return l + r, true

	case OpLess:
		return Bool(l < r), true

	case OpLessEqual:
		return Bool(l <= r), true

	case OpGreater:
		return Bool(l > r), true

	case OpGreaterEqual:
		return Bool(l >= r), true
	}

	return nil, false
}

// exprName names a callee expression for error messages.
func exprName(e Expr) string {
	switch x := e.(type) {
	case *Identifier:
		return x.Name

	case *VariableAccess:
		return exprName(x.Left)
	}

	return FormatExpr(e)
}

func calleeName(v Value) string {
	if n, ok := v.(*Native); ok {
		return n.Name
	}

	return FormatValue(v)
}

// Session evaluates successive programs against one persistent scope.
// It backs the interactive shell.
type Session struct {
	ex    *execution
	scope Scope
}

// NewSession returns a session with the built-ins installed.
func (in *Interpreter) NewSession(ctx context.Context) *Session {
	ex := in.newExecution(ctx)

	return &Session{ex: ex, scope: ex.env.Push(ex.root)}
}

// Eval evaluates the body of block in the session scope.
func (s *Session) Eval(ctx context.Context, block *Block) (Value, error) {
	s.ex.ctx = ctx
	s.ex.depth = 0

	return s.ex.evalBlock(block, s.scope)
}

// Bind sets name in the session scope.
func (s *Session) Bind(name string, v Value) {
	s.ex.env.Set(s.scope, name, v)
}

// Names returns every name visible in the session scope.
func (s *Session) Names() []string {
	return s.ex.env.Names(s.scope)
}

// Lookup returns the value bound to name in the session scope.
func (s *Session) Lookup(name string) (Value, bool) {
	return s.ex.env.Lookup(s.scope, name)
}
