package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/aocl/lang"
	"github.com/ardnew/aocl/log"
)

// solutionExt is the file extension of solution sources.
const solutionExt = ".aoc"

// evalFlags are the flags shared by commands that evaluate programs.
type evalFlags struct {
	DataDir        []string `help:"Data directories searched before $AOCL_DATA_PATH and ./data"                      placeholder:"DIR" short:"d"`
	DataFile       string   `default:"${dataTemplate}"   help:"Expression computing the data file name from 'name'" placeholder:"EXPR"`
	RecursionLimit int      `default:"${recursionLimit}" help:"Maximum call depth (0 disables the limit)"`
	NoCache        bool     `help:"Disable the parse cache"`
}

func (f evalFlags) options() []lang.Option {
	return []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithSource(lang.NewDirSource(os.DirFS("."), lang.DataPath(f.DataDir...), f.DataFile)),
		lang.WithRecursionLimit(f.RecursionLimit),
		lang.WithCache(!f.NoCache),
	}
}

// Run executes a solution program and prints its part results.
type Run struct {
	Name string `arg:"" help:"Logical program name; selects the solution and its data file" name:"name"`

	Source       string `help:"Solution source file or '-' for stdin (default: <solutions-dir>/<name>.aoc)" placeholder:"FILE" short:"s"`
	SolutionsDir string `default:"solutions" help:"Directory containing solution sources" placeholder:"DIR"`

	Eval evalFlags `embed:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	path := r.sourcePath()
	opts := r.Eval.options()

	prog, err := parseSource(ctx, path, opts...)
	if err != nil {
		return ErrRun.With(slog.String("source", path)).Wrap(err)
	}

	res, err := lang.New(r.Name, opts...).Execute(ctx, prog)
	if err != nil {
		return ErrRun.With(
			slog.String("source", path),
			slog.String("name", r.Name),
		).Wrap(err)
	}

	if err := writeResult(stdout(ctx), res); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func (r *Run) sourcePath() string {
	if r.Source != "" {
		return r.Source
	}

	return filepath.Join(r.SolutionsDir, r.Name+solutionExt)
}

// writeResult prints each part's heading followed by its formatted value.
func writeResult(w io.Writer, res lang.Result) error {
	if _, err := fmt.Fprintf(w, "Part 1\n%s\n", lang.FormatValue(res.Part1)); err != nil {
		return err
	}

	if !res.HasPart2 {
		return nil
	}

	_, err := fmt.Fprintf(w, "Part 2\n%s\n", lang.FormatValue(res.Part2))

	return err
}
