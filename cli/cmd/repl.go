package cmd

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/ardnew/aocl/cli/cmd/repl"
	"github.com/ardnew/aocl/lang"
	"github.com/ardnew/aocl/log"
)

// Repl starts an interactive shell.
type Repl struct {
	Name string `arg:"" default:"repl" help:"Logical program name; selects the data file read by readByLine" name:"name"`

	Load      []string `help:"Evaluate statements from file(s) before the first prompt" placeholder:"FILE" short:"l" type:"existingfile"`
	NoHistory bool     `help:"Do not read or write the history file"`

	Eval evalFlags `embed:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts := r.Eval.options()
	session := lang.New(r.Name, opts...).NewSession(ctx)

	for _, path := range r.Load {
		if err := r.load(ctx, session, path, opts...); err != nil {
			return err
		}
	}

	history, err := repl.LoadHistory(r.historyPath(ctx))
	if err != nil {
		log.WarnContext(ctx, "repl history unavailable", slog.Any("error", err))
	}

	return repl.Run(ctx, session, history, log.Default())
}

// load evaluates the statements of path in session and binds the value of
// the last one to [repl.LastResult].
func (r *Repl) load(ctx context.Context, session *lang.Session, path string, opts ...lang.Option) error {
	src, err := openSource(ctx, path)
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return ErrOpenSource.With(slog.String("path", path)).Wrap(err)
	}

	block, err := lang.ParseBody(ctx, string(data), opts...)
	if err != nil {
		return ErrRun.With(slog.String("source", path)).Wrap(err)
	}

	v, err := session.Eval(ctx, block)
	if err != nil {
		return ErrRun.With(slog.String("source", path)).Wrap(err)
	}

	if v != nil {
		session.Bind(repl.LastResult, v)
	}

	log.DebugContext(ctx, "repl loaded source",
		slog.String("path", path),
		slog.Int("statements", len(block.Exprs)),
	)

	return nil
}

// historyPath returns the history file in the cache directory, or "" when
// history is disabled.
func (r *Repl) historyPath(ctx context.Context) string {
	if r.NoHistory {
		return ""
	}

	dir, ok := vars(ctx)[CacheIdentifier]
	if !ok || dir == "" {
		return ""
	}

	return filepath.Join(dir, repl.HistoryFile)
}
