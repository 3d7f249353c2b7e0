package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/aocl/lang"
)

// testCLI mirrors the command tree of the root command without its global
// flag groups.
type testCLI struct {
	Run  Run  `cmd:"" default:"withargs"`
	Fmt  Fmt  `cmd:""`
	Init Init `cmd:""`
	Repl Repl `cmd:""`
}

// testVars returns the variables the root command defines, rooted in a
// temporary directory.
func testVars(t *testing.T) kong.Vars {
	t.Helper()

	dir := t.TempDir()

	return kong.Vars{
		ConfigIdentifier:         filepath.Join(dir, "config", "config.yaml"),
		CacheIdentifier:          filepath.Join(dir, "cache"),
		DataTemplateIdentifier:   lang.DefaultDataTemplate,
		RecursionLimitIdentifier: strconv.Itoa(lang.DefaultRecursionLimit),
	}
}

// execute parses args, runs the selected command with stdin as its input,
// and returns everything written to stdout.
func execute(t *testing.T, vars kong.Vars, stdin string, args ...string) (string, error) {
	t.Helper()

	var (
		cli testCLI
		out bytes.Buffer
	)

	parser, err := kong.New(&cli,
		kong.Name("aocl"),
		kong.Writers(&out, &out),
		kong.Exit(func(int) { t.Fatalf("unexpected exit for %q", args) }),
		vars,
	)
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", args, err)
	}

	ctx := WithContext(t.Context(), ktx)
	ctx = WithStdin(ctx, strings.NewReader(stdin))

	ktx.BindTo(ctx, (*context.Context)(nil))

	err = ktx.Run()

	return out.String(), err
}

func TestOpenSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.aoc")
	if err := os.WriteFile(path, []byte("from file"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{"stdin", stdinSource, "from stdin", nil},
		{"file", path, "from file", nil},
		{"missing", filepath.Join(t.TempDir(), "none"), "", ErrOpenSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithStdin(t.Context(), strings.NewReader("from stdin"))

			rc, err := openSource(ctx, tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("openSource() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("openSource() error = %v", err)
			}
			defer rc.Close()

			data, err := io.ReadAll(rc)
			if err != nil {
				t.Fatal(err)
			}

			if string(data) != tt.want {
				t.Errorf("read %q, want %q", data, tt.want)
			}
		})
	}
}

func TestContextAccessors(t *testing.T) {
	ctx := t.Context()

	if kongContextFrom(ctx) != nil {
		t.Error("kongContextFrom() of a bare context is not nil")
	}

	if stdinFrom(ctx) != os.Stdin {
		t.Error("stdinFrom() of a bare context is not os.Stdin")
	}

	if stdout(ctx) != os.Stdout {
		t.Error("stdout() of a bare context is not os.Stdout")
	}

	if len(vars(ctx)) != 0 {
		t.Errorf("vars() of a bare context = %v, want empty", vars(ctx))
	}
}
