package lang

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/klauspost/readahead"
)

const (
	// DefaultDataDir is searched for input data when no directories are given.
	DefaultDataDir = "data"

	// DefaultDataTemplate names the data file of a program.
	// It is an expression over the program name.
	DefaultDataTemplate = `name + ".txt"`

	// DataPathEnv lists additional data directories, separated like PATH.
	DataPathEnv = "AOCL_DATA_PATH"
)

// Source provides the input data of a named program.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// SourceFunc adapts a function to the [Source] interface.
type SourceFunc func(ctx context.Context, name string) (io.ReadCloser, error)

// Open calls f(ctx, name).
func (f SourceFunc) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return f(ctx, name)
}

// DirSource finds data files in a list of directories.
//
// Relative directories are resolved in FS; absolute directories are opened
// from the host file system. The first directory that holds the file wins.
type DirSource struct {
	FS       fs.FS
	Dirs     []string
	Template string // expression yielding a file name; see DefaultDataTemplate

	once    sync.Once
	program *vm.Program
	err     error
}

// NewDirSource returns a source that searches dirs within fsys.
// An empty template selects [DefaultDataTemplate].
func NewDirSource(fsys fs.FS, dirs []string, template string) *DirSource {
	if template == "" {
		template = DefaultDataTemplate
	}

	return &DirSource{FS: fsys, Dirs: dirs, Template: template}
}

// DefaultSource searches [DataPath] relative to the working directory.
func DefaultSource() Source {
	return NewDirSource(os.DirFS("."), DataPath(), DefaultDataTemplate)
}

// DataPath returns the data search list: the given directories, then those
// named in the [DataPathEnv] environment variable, then [DefaultDataDir].
// Duplicates and empty entries are removed.
func DataPath(dirs ...string) []string {
	sep := string(os.PathListSeparator)

	// Prefixes are prepended one at a time, so the last one leads.
	prefix := slices.Clone(dirs)
	slices.Reverse(prefix)

	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(DataPathEnv), DefaultDataDir),
		mung.WithDelim(sep),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(func(s string) bool { return s != "" }),
	).String()

	var out []string

	seen := make(map[string]struct{})

	for dir := range strings.SplitSeq(list, sep) {
		if dir == "" {
			continue
		}

		if _, ok := seen[dir]; ok {
			continue
		}

		seen[dir] = struct{}{}
		out = append(out, dir)
	}

	return out
}

// FileName evaluates the template for the named program.
func (d *DirSource) FileName(name string) (string, error) {
	d.once.Do(func() {
		d.program, d.err = expr.Compile(
			d.Template,
			expr.Env(map[string]any{"name": ""}),
			expr.AsKind(reflect.String),
		)
	})

	if d.err != nil {
		return "", ErrDataSource.Wrap(d.err).
			With(slog.String("template", d.Template))
	}

	out, err := expr.Run(d.program, map[string]any{"name": name})
	if err != nil {
		return "", ErrDataSource.Wrap(err).
			With(slog.String("template", d.Template))
	}

	file, _ := out.(string)
	if file == "" {
		return "", ErrDataSource.With(
			slog.String("template", d.Template),
			slog.String("reason", "empty file name"),
		)
	}

	return file, nil
}

// Open returns a buffered reader over the first matching file.
func (d *DirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := d.FileName(name)
	if err != nil {
		return nil, err
	}

	dirs := d.Dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	for _, dir := range dirs {
		fsys, rel := d.resolve(dir)

		f, err := fsys.Open(path.Join(rel, file))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, ErrDataSource.Wrap(err).
				With(slog.String("name", name), slog.String("dir", dir))
		}

		return &dataReader{ReadCloser: readahead.NewReader(f), file: f}, nil
	}

	return nil, ErrDataSource.Wrap(fs.ErrNotExist).With(
		slog.String("name", name),
		slog.String("file", file),
		slog.String("dirs", strings.Join(dirs, string(os.PathListSeparator))),
	)
}

// resolve maps dir onto a file system and a path within it. Directories
// outside d.FS (absolute, or escaping with "..") are opened directly.
func (d *DirSource) resolve(dir string) (fs.FS, string) {
	rel := path.Clean(filepath.ToSlash(dir))

	if filepath.IsAbs(dir) || !fs.ValidPath(rel) {
		return os.DirFS(dir), "."
	}

	fsys := d.FS
	if fsys == nil {
		fsys = os.DirFS(".")
	}

	return fsys, rel
}

// dataReader closes both the read-ahead buffer and the underlying file.
type dataReader struct {
	io.ReadCloser
	file fs.File
}

func (r *dataReader) Close() error {
	err := r.ReadCloser.Close()

	return errors.Join(err, r.file.Close())
}
