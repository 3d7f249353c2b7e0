package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/aocl/lang"
)

// Fmt parses a solution and re-emits it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native aocl syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree."`
}

// formatter writes a parsed program to w.
type formatter func(ctx context.Context, prog *lang.Program, w io.Writer) error

// format parses source and writes it with fn.
func format(ctx context.Context, source, name string, fn formatter) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := parseSource(ctx, source)
	if err != nil {
		return ErrFormat.With(
			slog.String("format", name),
			slog.String("source", source),
		).Wrap(err)
	}

	if err := fn(ctx, prog, stdout(ctx)); err != nil {
		return ErrWriteOutput.With(slog.String("format", name)).Wrap(err)
	}

	return nil
}

// Native formats input as native aocl syntax.
type Native struct {
	Indent int `default:"2" help:"Indent width for formatted output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the native format command.
func (f *Native) Run(ctx context.Context) error {
	return format(ctx, f.Source, "native",
		func(ctx context.Context, prog *lang.Program, w io.Writer) error {
			return prog.Format(ctx, w, f.Indent)
		})
}

// JSON formats input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the json format command.
func (j *JSON) Run(ctx context.Context) error {
	return format(ctx, j.Source, "json",
		func(ctx context.Context, prog *lang.Program, w io.Writer) error {
			return prog.FormatJSON(ctx, w, j.Indent)
		})
}

// YAML formats input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the yaml format command.
func (y *YAML) Run(ctx context.Context) error {
	return format(ctx, y.Source, "yaml",
		func(ctx context.Context, prog *lang.Program, w io.Writer) error {
			return prog.FormatYAML(ctx, w, y.Indent)
		})
}

// AST formats input as an indented syntax tree.
type AST struct {
	Indent int `default:"2" help:"Indent width for nested nodes" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the ast format command.
func (a *AST) Run(ctx context.Context) error {
	return format(ctx, a.Source, "ast",
		func(ctx context.Context, prog *lang.Program, w io.Writer) error {
			return prog.FormatTree(ctx, w, a.Indent)
		})
}
