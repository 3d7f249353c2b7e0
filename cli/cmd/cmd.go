package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/aocl/lang"
	"github.com/ardnew/aocl/log"
)

// stdinSource is the special source path for reading from stdin.
const stdinSource = "-"

type (
	contextKey struct{}
	stdinKey   struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithStdin returns a new context.Context whose "-" sources read from r
// instead of [os.Stdin].
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// stdout returns the writer for command output: the kong application's
// stdout when available, otherwise [os.Stdout].
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// vars returns the kong variables of the running application.
func vars(ctx context.Context) kong.Vars {
	if ktx := kongContextFrom(ctx); ktx != nil {
		return ktx.Model.Vars()
	}

	return kong.Vars{}
}

// openSource opens path for reading, with "-" selecting stdin.
// Closing the result never closes stdin.
func openSource(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == stdinSource {
		return io.NopCloser(stdinFrom(ctx)), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, ErrOpenSource.With(slog.String("path", path)).Wrap(err)
	}

	return file, nil
}

// parseSource reads and parses the program at path.
func parseSource(ctx context.Context, path string, opts ...lang.Option) (*lang.Program, error) {
	src, err := openSource(ctx, path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	log.TraceContext(ctx, "parse source", slog.String("path", path))

	return lang.ParseReader(ctx, src, append([]lang.Option{lang.WithLogger(log.Default())}, opts...)...)
}
