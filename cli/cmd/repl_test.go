package cmd

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/aocl/cli/cmd/repl"
	"github.com/ardnew/aocl/lang"
)

func TestRepl_Load(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.aoc")
	writeFile(t, good, "/* prelude */\n1 + 2\n3 * 4\n")

	bad := filepath.Join(dir, "bad.aoc")
	writeFile(t, bad, "1 + ")

	failing := filepath.Join(dir, "failing.aoc")
	writeFile(t, failing, "undefined(1)")

	tests := []struct {
		name    string
		path    string
		want    lang.Value
		wantErr error
	}{
		{"good", good, lang.Number(12), nil},
		{"parse_error", bad, nil, ErrRun},
		{"eval_error", failing, nil, ErrRun},
		{"missing", filepath.Join(dir, "none.aoc"), nil, ErrOpenSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Repl

			session := lang.New("test").NewSession(t.Context())

			err := r.load(t.Context(), session, tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("load() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("load() error = %v", err)
			}

			got, ok := session.Lookup(repl.LastResult)
			if !ok || !lang.Equal(got, tt.want) {
				t.Errorf("%s = %v, want %v", repl.LastResult, got, tt.want)
			}
		})
	}
}

func TestRepl_HistoryPath(t *testing.T) {
	vars := testVars(t)

	var cli testCLI

	parser, err := kong.New(&cli, vars)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse([]string{"repl"})
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithContext(t.Context(), ktx)

	want := filepath.Join(vars[CacheIdentifier], repl.HistoryFile)
	if got := cli.Repl.historyPath(ctx); got != want {
		t.Errorf("historyPath() = %q, want %q", got, want)
	}

	if cli.Repl.Name != "repl" {
		t.Errorf("Name = %q, want default %q", cli.Repl.Name, "repl")
	}

	cli.Repl.NoHistory = true
	if got := cli.Repl.historyPath(ctx); got != "" {
		t.Errorf("historyPath() with history disabled = %q, want empty", got)
	}

	if got := (&Repl{}).historyPath(t.Context()); got != "" {
		t.Errorf("historyPath() without variables = %q, want empty", got)
	}
}
