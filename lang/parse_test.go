package lang

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func num(f float64) *NumberExpr { return &NumberExpr{Value: f} }

func str(s string) *StringExpr { return &StringExpr{Value: s} }

func bin(l Expr, op Operator, r Expr) *BinaryExpr {
	return &BinaryExpr{Left: l, Op: op, Right: r}
}

func TestParseString_Expressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Expr
	}{
		{
			name:  "multiplication binds tighter than addition",
			input: `1 + 2 * 3`,
			want:  []Expr{bin(num(1), OpAdd, bin(num(2), OpMultiply, num(3)))},
		},
		{
			name:  "subtraction is left associative",
			input: `10 - 4 - 3`,
			want:  []Expr{bin(bin(num(10), OpSubtract, num(4)), OpSubtract, num(3))},
		},
		{
			name:  "parentheses override precedence",
			input: `(1 + 2) * 3`,
			want:  []Expr{bin(bin(num(1), OpAdd, num(2)), OpMultiply, num(3))},
		},
		{
			name:  "pipe is loosest",
			input: `x |> f == y`,
			want: []Expr{bin(
				NewVariable("x"),
				OpPipe,
				bin(NewVariable("f"), OpEqual, NewVariable("y")),
			)},
		},
		{
			name:  "pipe chains left to right",
			input: `x |> f |> g`,
			want: []Expr{bin(
				bin(NewVariable("x"), OpPipe, NewVariable("f")),
				OpPipe,
				NewVariable("g"),
			)},
		},
		{
			name:  "single bar pipe",
			input: `x | f`,
			want:  []Expr{bin(NewVariable("x"), OpPipe, NewVariable("f"))},
		},
		{
			name:  "comparison below equality",
			input: `1 < 2 == 3 >= 4`,
			want: []Expr{bin(
				bin(num(1), OpLess, num(2)),
				OpEqual,
				bin(num(3), OpGreaterEqual, num(4)),
			)},
		},
		{
			name:  "not equal is not negation",
			input: `a != b`,
			want:  []Expr{bin(NewVariable("a"), OpNotEqual, NewVariable("b"))},
		},
		{
			name:  "nested unary",
			input: `!!true; --1`,
			want: []Expr{
				&UnaryExpr{Op: OpNot, Operand: &UnaryExpr{Op: OpNot, Operand: &BooleanExpr{Value: true}}},
				&UnaryExpr{Op: OpSubtract, Operand: &UnaryExpr{Op: OpSubtract, Operand: num(1)}},
			},
		},
		{
			name:  "function expression",
			input: `(x, y) => { x + y }`,
			want: []Expr{NewFunction(
				[]string{"x", "y"},
				bin(NewVariable("x"), OpAdd, NewVariable("y")),
			)},
		},
		{
			name:  "function without parameters",
			input: `() => {}`,
			want:  []Expr{NewFunction(nil)},
		},
		{
			name:  "call with arguments",
			input: `add(1, 2 * 3)`,
			want:  []Expr{NewCall("add", num(1), bin(num(2), OpMultiply, num(3)))},
		},
		{
			name:  "call without arguments",
			input: `readByLine()`,
			want:  []Expr{NewCall("readByLine")},
		},
		{
			name:  "call with function argument",
			input: `map((n) => { n * 2 })`,
			want: []Expr{NewCall("map", NewFunction(
				[]string{"n"},
				bin(NewVariable("n"), OpMultiply, num(2)),
			))},
		},
		{
			name:  "parenthesized identifier is not a function",
			input: `(x)`,
			want:  []Expr{NewVariable("x")},
		},
		{
			name:  "numbers with separators and fractions",
			input: `1_000; 2.5; 3`,
			want:  []Expr{num(1000), num(2.5), num(3)},
		},
		{
			name:  "string escapes",
			input: `"a\"b\n"; 'it\'s'`,
			want:  []Expr{str("a\"b\n"), str("it's")},
		},
		{
			name:  "identifier with keyword prefix",
			input: `trueish; part_10`,
			want:  []Expr{NewVariable("trueish"), NewVariable("part_10")},
		},
		{
			name:  "adjacent expressions",
			input: "1\n\"two\"\nthree",
			want:  []Expr{num(1), str("two"), NewVariable("three")},
		},
		{
			name:  "comments inside expressions",
			input: `1 /* one */ + /* two */ 2`,
			want:  []Expr{bin(num(1), OpAdd, num(2))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := ParseString(t.Context(), "part_1 { "+tt.input+" }")
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if got := prog.Part1.Body.Exprs; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("exprs mismatch\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}

func TestParseString_Program(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Program
	}{
		{
			name:  "part 1 only",
			input: `part_1 { 1 }`,
			want:  NewProgram(NewPart("part_1", num(1)), nil),
		},
		{
			name:  "both parts",
			input: "part_1 { 1 }\npart_2 { 2 }",
			want:  NewProgram(NewPart("part_1", num(1)), NewPart("part_2", num(2))),
		},
		{
			name:  "empty blocks",
			input: `part_1 {} part_2 {}`,
			want:  NewProgram(NewPart("part_1"), NewPart("part_2")),
		},
		{
			name:  "semicolons",
			input: `part_1 { ;1;; 2; }`,
			want:  NewProgram(NewPart("part_1", num(1), num(2)), nil),
		},
		{
			name: "comments around parts",
			input: `/* day 1 */
part_1 { 1 }
/* between */
part_2 { 2 }
/* trailing */`,
			want: NewProgram(NewPart("part_1", num(1)), NewPart("part_2", num(2))),
		},
		{
			name: "day one",
			input: `part_1 {
  readByLine | groupByLineBreak | map((group) => {
    group | map(int) | reduce(add)
  }) | sortDescending | pop
}`,
			want: NewProgram(NewPart("part_1",
				bin(bin(bin(bin(
					NewVariable("readByLine"),
					OpPipe,
					NewVariable("groupByLineBreak")),
					OpPipe,
					NewCall("map", NewFunction([]string{"group"},
						bin(bin(
							NewVariable("group"),
							OpPipe,
							NewCall("map", NewVariable("int"))),
							OpPipe,
							NewCall("reduce", NewVariable("add"))),
					))),
					OpPipe,
					NewVariable("sortDescending")),
					OpPipe,
					NewVariable("pop")),
			), nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("program mismatch\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		line    int
		column  int
	}{
		{
			name:    "empty input",
			input:   ``,
			message: "expected `part_1`, got end of input",
			line:    1,
			column:  1,
		},
		{
			name:    "part 2 without part 1",
			input:   `part_2 { 1 }`,
			message: "expected `part_1`, got `part_2`",
			line:    1,
			column:  1,
		},
		{
			name:    "reserved word as identifier",
			input:   `part_1 { x + part_2 }`,
			message: "Expected an identifier, got `part_2`",
			line:    1,
			column:  14,
		},
		{
			name:    "missing operand",
			input:   "part_1 {\n  1 +\n}",
			message: "expected an expression, got '}'",
			line:    3,
			column:  1,
		},
		{
			name:    "unclosed block",
			input:   `part_1 { 1`,
			message: `expected "}", got end of input`,
			line:    1,
			column:  11,
		},
		{
			name:    "trailing input",
			input:   `part_1 { 1 } extra`,
			message: "unexpected `extra` after end of program",
			line:    1,
			column:  14,
		},
		{
			name:    "part 2 twice",
			input:   `part_1 {} part_2 {} part_2 {}`,
			message: "unexpected `part_2` after end of program",
			line:    1,
			column:  21,
		},
		{
			name:    "unterminated string",
			input:   `part_1 { "abc }`,
			message: "unterminated string",
			line:    1,
			column:  10,
		},
		{
			name:    "unterminated comment",
			input:   `part_1 { 1 } /* done`,
			message: "unterminated comment",
			line:    1,
			column:  14,
		},
		{
			name:    "unclosed call",
			input:   `part_1 { f(1, 2 }`,
			message: `expected ")", got '}'`,
			line:    1,
			column:  17,
		},
		{
			name:    "arrow without body",
			input:   `part_1 { (x) => 1 }`,
			message: `expected "{", got '1'`,
			line:    1,
			column:  17,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := ParseString(t.Context(), tt.input)
			if err == nil {
				t.Fatalf("expected error, got program %#v", prog)
			}

			if prog != nil {
				t.Errorf("expected nil program on error, got %#v", prog)
			}

			if !errors.Is(err, ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}

			if perr.Message != tt.message {
				t.Errorf("message = %q, want %q", perr.Message, tt.message)
			}

			if perr.Position.Line != tt.line || perr.Position.Column != tt.column {
				t.Errorf(
					"position = %s, want %d:%d",
					perr.Position, tt.line, tt.column,
				)
			}
		})
	}
}

func TestParseError_Snippet(t *testing.T) {
	_, err := ParseString(t.Context(), "part_1 {\n  1 + * 2\n}")
	if err == nil {
		t.Fatal("expected error")
	}

	want := "  2 |   1 + * 2\n" +
		strings.Repeat(" ", 12) + "^"

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}

	if got := perr.Snippet(); got != want {
		t.Errorf("snippet mismatch\n got: %q\nwant: %q", got, want)
	}

	if !strings.Contains(err.Error(), "line 2, column 7") {
		t.Errorf("error %q does not name the position", err.Error())
	}
}

func TestParseBody(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
		fails bool
	}{
		{"empty", "", nil, false},
		{"single", "1 + 2", []string{"1 + 2"}, false},
		{"separated", "1; x * 2\n3", []string{"1", "x * 2", "3"}, false},
		{"comment", "/* note */ add(1)", []string{"add(1)"}, false},
		{"stray brace", "1 }", nil, true},
		{"bad operator", "1 + * 2", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := ParseBody(t.Context(), tt.input)
			if tt.fails {
				if !errors.Is(err, ErrParse) {
					t.Fatalf("expected ErrParse, got %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("ParseBody failed: %v", err)
			}

			if len(body.Exprs) != len(tt.want) {
				t.Fatalf("got %d expressions, want %d", len(body.Exprs), len(tt.want))
			}

			for i, e := range body.Exprs {
				if got := FormatExpr(e); got != tt.want[i] {
					t.Errorf("expr %d = %q, want %q", i, got, tt.want[i])
				}
			}
		})
	}
}
