package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"
)

// ParseString parses a complete program from source text.
//
// The returned error, if any, is a [*ParseError] (matching [ErrParse]) that
// locates the first offending token. No partial program is ever returned.
func ParseString(
	ctx context.Context,
	input string,
	opts ...Option,
) (*Program, error) {
	o := makeOptions(opts...)

	o.logger.TraceContext(
		ctx,
		"parse start",
		slog.Int("source_length", len(input)),
	)

	p := &parser{scanner: newScanner(input)}

	prog, err := p.parseProgram()
	if err != nil {
		o.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(
		ctx,
		"parse complete",
		slog.Int("part1_exprs", len(prog.Part1.Body.Exprs)),
		slog.Bool("has_part2", prog.Part2 != nil),
	)

	return prog, nil
}

// ParseBody parses a sequence of expressions, as found between the braces
// of a part, running to the end of input. It is used by the interactive
// shell, where each line is a part body.
func ParseBody(ctx context.Context, input string, opts ...Option) (*Block, error) {
	o := makeOptions(opts...)

	p := &parser{scanner: newScanner(input)}

	body, err := p.parseStatements(false)
	if err != nil {
		o.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	return body, nil
}

// ParseReader reads all of r and parses it as a program.
// Results are cached by source content; see [ClearCache].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	// Wrap reader with async read-ahead so large sources are fetched while
	// earlier chunks are copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return parseCached(ctx, string(data), opts...)
}

// parser is a recursive-descent, precedence-climbing parser.
type parser struct {
	scanner
}

// parseProgram parses: comment* part_1 Block comment* [part_2 Block] comment*.
func (p *parser) parseProgram() (*Program, error) {
	ok, err := p.matchKeyword(keywordPart1)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, p.errorf("expected `%s`, got %s", keywordPart1, p.describe())
	}

	part1, err := p.parsePart(keywordPart1)
	if err != nil {
		return nil, err
	}

	prog := &Program{Part1: part1}

	ok, err = p.matchKeyword(keywordPart2)
	if err != nil {
		return nil, err
	}

	if ok {
		prog.Part2, err = p.parsePart(keywordPart2)
		if err != nil {
			return nil, err
		}
	}

	if err := p.skipSpace(); err != nil {
		return nil, err
	}

	if !p.eof() {
		return nil, p.errorf("unexpected %s after end of program", p.describe())
	}

	return prog, nil
}

func (p *parser) parsePart(name string) (*Part, error) {
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &Part{Name: name, Body: body}, nil
}

// parseBlock parses: '{' (Expr | ';')* '}'.
func (p *parser) parseBlock() (*Block, error) {
	if err := p.expectLiteral("{"); err != nil {
		return nil, err
	}

	return p.parseStatements(true)
}

// parseStatements parses (expr | ";")* up to the closing "}" when braced,
// or to the end of input otherwise.
func (p *parser) parseStatements(braced bool) (*Block, error) {
	exprs := []Expr{}

	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}

		switch {
		case p.eof():
			if braced {
				return nil, p.errorf("expected \"}\", got end of input")
			}

			return &Block{Exprs: exprs}, nil

		case braced && p.peek() == '}':
			p.advance()

			return &Block{Exprs: exprs}, nil

		case p.peek() == ';':
			p.advance()

		default:
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			exprs = append(exprs, expr)
		}
	}
}

func (p *parser) parseExpr() (Expr, error) {
	return p.parsePipe()
}

// operator pairs a source spelling with its Operator.
// Within a precedence level, longer spellings must come first.
type operator struct {
	lit string
	op  Operator
}

var (
	pipeOperators = []operator{
		{"|>", OpPipe},
		{"|", OpPipe},
	}
	equalityOperators = []operator{
		{"==", OpEqual},
		{"!=", OpNotEqual},
	}
	comparisonOperators = []operator{
		{"<=", OpLessEqual},
		{">=", OpGreaterEqual},
		{"<", OpLess},
		{">", OpGreater},
	}
	additiveOperators = []operator{
		{"+", OpAdd},
		{"-", OpSubtract},
	}
	multiplicativeOperators = []operator{
		{"*", OpMultiply},
		{"/", OpDivide},
	}
)

func (p *parser) parsePipe() (Expr, error) {
	return p.parseBinary(pipeOperators, p.parseEquality)
}

func (p *parser) parseEquality() (Expr, error) {
	return p.parseBinary(equalityOperators, p.parseComparison)
}

func (p *parser) parseComparison() (Expr, error) {
	return p.parseBinary(comparisonOperators, p.parseAdditive)
}

func (p *parser) parseAdditive() (Expr, error) {
	return p.parseBinary(additiveOperators, p.parseMultiplicative)
}

func (p *parser) parseMultiplicative() (Expr, error) {
	return p.parseBinary(multiplicativeOperators, p.parseUnary)
}

// parseBinary parses one left-associative precedence level:
// next (op next)*.
func (p *parser) parseBinary(
	ops []operator,
	next func() (Expr, error),
) (Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for {
		op, ok, err := p.matchOperator(ops)
		if err != nil {
			return nil, err
		}

		if !ok {
			return left, nil
		}

		right, err := next()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
}

func (p *parser) matchOperator(ops []operator) (Operator, bool, error) {
	if err := p.skipSpace(); err != nil {
		return 0, false, err
	}

	for _, o := range ops {
		if p.hasPrefix(o.lit) {
			p.advanceN(len(o.lit))

			return o.op, true, nil
		}
	}

	return 0, false, nil
}

// parseUnary parses: ('-' | '!') Unary | Primary.
func (p *parser) parseUnary() (Expr, error) {
	if err := p.skipSpace(); err != nil {
		return nil, err
	}

	var op Operator

	switch {
	case p.peek() == '-':
		op = OpSubtract
	case p.peek() == '!' && p.peekAt(1) != '=':
		op = OpNot
	default:
		return p.parsePrimary()
	}

	p.advance()

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return &UnaryExpr{Op: op, Operand: operand}, nil
}

// parsePrimary parses a literal, a parenthesized expression, a function
// expression, a function call or a variable access.
func (p *parser) parsePrimary() (Expr, error) {
	if err := p.skipSpace(); err != nil {
		return nil, err
	}

	start := p.position()

	if f, ok, err := p.scanNumber(); err != nil || ok {
		if err != nil {
			return nil, err
		}

		return &NumberExpr{Value: f}, nil
	}

	if s, ok, err := p.scanString(); err != nil || ok {
		if err != nil {
			return nil, err
		}

		return &StringExpr{Value: s}, nil
	}

	if p.peek() == '(' {
		if fn, ok, err := p.tryFunction(); err != nil || ok {
			if err != nil {
				return nil, err
			}

			return fn, nil
		}

		return p.parseParenthesized()
	}

	word := p.scanWord()

	switch word {
	case "":
		return nil, p.errorf("expected an expression, got %s", p.describe())

	case keywordTrue:
		return &BooleanExpr{Value: true}, nil

	case keywordFalse:
		return &BooleanExpr{Value: false}, nil
	}

	if isReserved(word) {
		return nil, p.errorAt(start, "Expected an identifier, got `"+word+"`")
	}

	access := &VariableAccess{Left: &Identifier{Name: word}}

	if err := p.skipSpace(); err != nil {
		return nil, err
	}

	if p.peek() != '(' {
		return access, nil
	}

	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}

	return &FunctionCall{Callee: access, Args: args}, nil
}

func (p *parser) parseParenthesized() (Expr, error) {
	if err := p.expectLiteral("("); err != nil {
		return nil, err
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expectLiteral(")"); err != nil {
		return nil, err
	}

	return expr, nil
}

// tryFunction parses a function expression if one starts at the cursor.
// If the parenthesized prefix is not a parameter list followed by "=>",
// the cursor is restored and ok is false.
func (p *parser) tryFunction() (*FunctionExpr, bool, error) {
	saved := p.cursor

	params, ok := p.tryParameters()
	if !ok {
		p.cursor = saved

		return nil, false, nil
	}

	arrow, err := p.matchLiteral("=>")
	if err != nil || !arrow {
		p.cursor = saved

		return nil, false, nil
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, false, err
	}

	return &FunctionExpr{Params: params, Body: body}, true, nil
}

// tryParameters parses: '(' [Identifier (',' Identifier)*] ')'.
// It reports ok == false instead of an error on mismatch.
func (p *parser) tryParameters() (*ParameterList, bool) {
	list := &ParameterList{Params: []*Parameter{}}

	if ok, err := p.matchLiteral("("); err != nil || !ok {
		return nil, false
	}

	if ok, err := p.matchLiteral(")"); err != nil {
		return nil, false
	} else if ok {
		return list, true
	}

	for {
		if err := p.skipSpace(); err != nil {
			return nil, false
		}

		name := p.scanWord()
		if name == "" || isReserved(name) {
			return nil, false
		}

		list.Params = append(list.Params, &Parameter{Name: &Identifier{Name: name}})

		if ok, err := p.matchLiteral(","); err != nil {
			return nil, false
		} else if ok {
			continue
		}

		if ok, err := p.matchLiteral(")"); err != nil || !ok {
			return nil, false
		}

		return list, true
	}
}

// parseArguments parses: '(' [Expr (',' Expr)*] ')'.
func (p *parser) parseArguments() (*ArgumentList, error) {
	list := &ArgumentList{Args: []*Argument{}}

	if err := p.expectLiteral("("); err != nil {
		return nil, err
	}

	ok, err := p.matchLiteral(")")
	if err != nil {
		return nil, err
	}

	if ok {
		return list, nil
	}

	for {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		list.Args = append(list.Args, &Argument{Value: expr})

		ok, err := p.matchLiteral(",")
		if err != nil {
			return nil, err
		}

		if ok {
			continue
		}

		if err := p.expectLiteral(")"); err != nil {
			return nil, err
		}

		return list, nil
	}
}
