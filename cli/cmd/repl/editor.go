package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/aocl/lang"
	"github.com/ardnew/aocl/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It opens the user's editor on a
// temporary file holding draft, then parses what was saved as a block of
// statements. On a parse error the user may edit again; declining ends the
// session with [ErrEditDeclined].
type editCommand struct {
	ctxFunc func() context.Context
	logger  log.Logger
	draft   string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer

	// Set by Run when the user saved a non-empty, valid block.
	block  *lang.Block
	source string
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "aocl-repl-*.aoc")
	if err != nil {
		return err
	}

	path := f.Name()
	f.Close()

	defer os.Remove(path)

	content := c.draft
	answers := bufio.NewScanner(c.input())

	for {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.input(), c.output(), c.errput(), path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		block, err := lang.ParseBody(ctx, content, lang.WithLogger(c.logger))
		c.logger.TraceContext(ctx, "repl edit parsed",
			slog.Int("bytes", len(data)),
			slog.Bool("ok", err == nil),
		)

		if err == nil {
			c.block, c.source = block, content

			return nil
		}

		fmt.Fprintf(c.errput(), "\n%s\n", err)
		fmt.Fprint(c.output(), "Edit again? [Y/n] ")

		if !answers.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(answers.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

func (c *editCommand) input() io.Reader {
	if c.stdin == nil {
		return os.Stdin
	}

	return c.stdin
}

func (c *editCommand) output() io.Writer {
	if c.stdout == nil {
		return os.Stdout
	}

	return c.stdout
}

func (c *editCommand) errput() io.Writer {
	if c.stderr == nil {
		return os.Stderr
	}

	return c.stderr
}

// runEditor runs $EDITOR (or vi) on path and waits for it to exit.
// $EDITOR may carry arguments, as in "code --wait".
func runEditor(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, path string) error {
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
