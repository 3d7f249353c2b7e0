package lang

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

var formatSources = []string{
	`part_1 { 1 }`,
	`part_1 {} part_2 {}`,
	`part_1 { 1 - (2 - 3); (1 - 2) - 3; 2 * (3 + 4) }`,
	`part_1 { -(1 + 2); !!x; -1 * 2 }`,
	`part_1 { a |> (b |> c); (a == b) == c; a < (b == c) }`,
	`part_1 { "quote\" tab\t nl\n back\\" }`,
	`part_1 { 0.25; 1_000_000 }`,
	`part_1 { 1
-2
f
(3) }`,
	`/* leading */ part_1 {
  readByLine() |> groupByLineBreak |> map((group) => {
    group |> map(int) |> reduce(add)
  }) |> sortDescending |> pop
}
part_2 { () => { (x, y) => { x / y } } }`,
}

func TestProgram_Format_RoundTrip(t *testing.T) {
	for _, src := range formatSources {
		want, err := ParseString(t.Context(), src)
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}

		for _, indent := range []int{0, 2} {
			var buf bytes.Buffer

			if err := want.Format(t.Context(), &buf, indent); err != nil {
				t.Fatalf("format error: %v", err)
			}

			got, err := ParseString(t.Context(), buf.String())
			if err != nil {
				t.Fatalf("reparse error: %v\n%s", err, buf.String())
			}

			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip (indent %d) changed program:\n%s", indent, buf.String())
			}
		}
	}
}

func TestProgram_Format(t *testing.T) {
	prog, err := ParseString(t.Context(), `part_1 { x |> (a) => { a + 1; a } } part_2 {}`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	tests := []struct {
		indent int
		want   string
	}{
		{
			indent: 0,
			want:   "part_1 { x |> (a) => { a + 1; a } }\npart_2 {}\n",
		},
		{
			indent: 2,
			want: "part_1 {\n" +
				"  x |> (a) => {\n" +
				"    a + 1;\n" +
				"    a\n" +
				"  }\n" +
				"}\n" +
				"\n" +
				"part_2 {}\n",
		},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		if err := prog.Format(t.Context(), &buf, tt.indent); err != nil {
			t.Fatalf("format error: %v", err)
		}

		if got := buf.String(); got != tt.want {
			t.Errorf("indent %d:\n got: %q\nwant: %q", tt.indent, got, tt.want)
		}
	}
}

func TestProgram_FormatJSON(t *testing.T) {
	prog, err := ParseString(t.Context(), `part_1 { add(1, "a") }`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var buf bytes.Buffer

	if err := prog.FormatJSON(t.Context(), &buf, 0); err != nil {
		t.Fatalf("format error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	want := map[string]any{
		"part_1": []any{
			map[string]any{
				"call": "add",
				"args": []any{float64(1), map[string]any{"string": "a"}},
			},
		},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("JSON = %v, want %v", got, want)
	}
}

func TestProgram_FormatYAML(t *testing.T) {
	prog, err := ParseString(t.Context(), `part_1 { 1 + 2 } part_2 { true }`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer

		if err := prog.FormatYAML(t.Context(), &buf, indent); err != nil {
			t.Fatalf("format error: %v", err)
		}

		var got map[string]any
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid YAML %q: %v", buf.String(), err)
		}

		if _, ok := got["part_2"]; !ok {
			t.Errorf("indent %d: YAML lacks part_2:\n%s", indent, buf.String())
		}
	}
}

func TestProgram_FormatTree(t *testing.T) {
	prog, err := ParseString(t.Context(), `part_1 { -x |> f(1) }`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var buf bytes.Buffer

	if err := prog.FormatTree(t.Context(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	want := strings.Join([]string{
		"Part part_1",
		"  Binary |>",
		"    Unary -",
		"      VariableAccess x",
		"    Call f",
		"      Number 1",
		"",
	}, "\n")

	if got := buf.String(); got != want {
		t.Errorf("tree:\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatExpr(t *testing.T) {
	tests := []struct {
		expr Expr
		want string
	}{
		{bin(num(1), OpAdd, bin(num(2), OpAdd, num(3))), "1 + (2 + 3)"},
		{bin(bin(num(1), OpAdd, num(2)), OpAdd, num(3)), "1 + 2 + 3"},
		{bin(bin(num(1), OpAdd, num(2)), OpMultiply, num(3)), "(1 + 2) * 3"},
		{&UnaryExpr{Op: OpNot, Operand: bin(num(1), OpEqual, num(2))}, "!(1 == 2)"},
		{NewCall("f", str("a'b")), `f("a'b")`},
	}

	for _, tt := range tests {
		if got := FormatExpr(tt.expr); got != tt.want {
			t.Errorf("FormatExpr = %q, want %q", got, tt.want)
		}
	}
}
