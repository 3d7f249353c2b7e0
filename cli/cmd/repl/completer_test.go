package repl

import (
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/aocl/lang"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_pipe", "xs |> ma", 8, "ma", 6, 8},
		{"after_paren", "map(ad", 6, "ad", 4, 6},
		{"after_comma", "(a, fo", 6, "fo", 4, 6},
		{"after_arrow", "(x) => in", 9, "in", 7, 9},
		{"after_brace", "{ fo", 4, "fo", 2, 4},
		{"after_semicolon", "1; fo", 5, "fo", 3, 5},
		{"after_comparison", "a>=fo", 5, "fo", 3, 5},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"underscore", "part_1", 6, "part_1", 0, 6},
		{"digits", "x2 + y10", 8, "y10", 5, 8},
		{"cursor_past_end", "abc", 10, "abc", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInString(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		want   bool
	}{
		{`map`, 3, false},
		{`"ma`, 1, true},
		{`"a" + ma`, 6, false},
		{`'it''s`, 4, false},
		{`"a\"b`, 4, true},
		{`'x" y`, 3, true},
	}

	for _, tt := range tests {
		if got := inString(tt.input, tt.offset); got != tt.want {
			t.Errorf("inString(%q, %d) = %v, want %v", tt.input, tt.offset, got, tt.want)
		}
	}
}

func TestComputeMatches(t *testing.T) {
	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  string // best match, or "" for none
	}{
		{"builtin", modeEval, "groupBy", "groupByLineBreak"},
		{"fuzzy", modeEval, "srtDesc", "sortDescending"},
		{"literal", modeEval, "fals", "false"},
		{"after_pipe", modeEval, "xs |> redu", "reduce"},
		{"empty_word", modeEval, "1 + ", ""},
		{"in_string", modeEval, `"redu`, ""},
		{"no_match", modeEval, "zzz", ""},
		{"ctrl_mode", modeCtrl, "cle", "clear"},
		{"ctrl_prefix", modeEval, ":qu", "quit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m.mode = tt.mode
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, _ := m.computeMatches()

			var got string
			if len(matches) > 0 {
				got = matches[0].Str
			}

			if got != tt.want {
				t.Errorf("best match for %q = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCallable(t *testing.T) {
	m := newTestModel(t)
	m.session.Bind("n", lang.Number(1))

	for name, want := range map[string]bool{
		"map":     true,
		"add":     true,
		"n":       false,
		"missing": false,
	} {
		if got := m.callable(name); got != want {
			t.Errorf("callable(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Find("a", []string{"add", "map", "alpha", "parse"})
	fn := func(s string) bool { return s == "add" || s == "map" }

	t.Run("fits", func(t *testing.T) {
		bar := renderCandidateBar(matches, -1, fn, 80)

		for _, want := range []string{"add()", "map()", "alpha", "parse"} {
			if !strings.Contains(bar, want) {
				t.Errorf("bar %q missing %q", bar, want)
			}
		}

		if strings.Contains(bar, "...") {
			t.Errorf("bar %q is truncated", bar)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		bar := renderCandidateBar(matches, 0, fn, 14)
		if !strings.HasSuffix(bar, "...") {
			t.Errorf("bar %q is not truncated", bar)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if bar := renderCandidateBar(nil, -1, fn, 80); bar != "" {
			t.Errorf("bar = %q, want empty", bar)
		}
	})
}

func TestDescribe(t *testing.T) {
	long := make([]lang.Value, 30)
	for i := range long {
		long[i] = lang.Number(i)
	}

	tests := []struct {
		name string
		v    lang.Value
		want string
	}{
		{"number", lang.Number(42), "42"},
		{"string", lang.String("abc"), "abc"},
		{"native", &lang.Native{Name: "map", Arity: 1}, "native/1"},
		{"sequence", lang.NewSequence(lang.Number(1), lang.Number(2)), "[1, 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describe(tt.v); got != tt.want {
				t.Errorf("describe() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := describe(lang.NewSequence(long...)); len(got) != 40 || !strings.HasSuffix(got, "...") {
		t.Errorf("describe(long) = %q, want 40 bytes ending in ...", got)
	}
}
