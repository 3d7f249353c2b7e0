package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/aocl/log"
	"github.com/ardnew/aocl/pkg"
	"github.com/ardnew/aocl/profile"
)

// defaultConfigIndent is the indentation of the generated YAML file.
const defaultConfigIndent = 2

// initIgnore lists flags that are per-invocation and never persisted.
var initIgnore = []string{"help", "version", "force", "source"}

// Init writes the configuration file from the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.With(slog.String("reason", "no command context"))
	}

	confPath, ok := vars(ctx)[ConfigIdentifier]
	if !ok || confPath == "" {
		return ErrWriteConfig.With(slog.String("reason", "configuration path undefined"))
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(
		configValues(ktx),
		yaml.Indent(defaultConfigIndent),
	)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if err := os.MkdirAll(filepath.Dir(confPath), pkg.DirMode); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if err := os.WriteFile(confPath, data, 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Int("bytes", len(data)),
	)

	return nil
}

// configValues returns the persistable flags of every command, in model
// order, mapped to their current values. A flag shared by several commands
// is written once.
func configValues(ktx *kong.Context) yaml.MapSlice {
	var (
		out  yaml.MapSlice
		seen = make(map[string]bool)
	)

	for _, flag := range allFlags(ktx.Model.Node, nil) {
		if flag.Hidden || seen[flag.Name] || ignoreFlag(flag.Name) {
			continue
		}

		seen[flag.Name] = true

		if v, ok := configValue(ktx.FlagValue(flag)); ok {
			out = append(out, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return out
}

func allFlags(node *kong.Node, out []*kong.Flag) []*kong.Flag {
	out = append(out, node.Flags...)

	for _, child := range node.Children {
		out = allFlags(child, out)
	}

	return out
}

func ignoreFlag(name string) bool {
	return slices.Contains(initIgnore, name) ||
		strings.HasPrefix(name, profile.Tag+"-")
}

// configValue converts a flag value to a YAML scalar or list. Empty strings
// and empty lists are omitted so their defaults stay in effect.
func configValue(v any) (any, bool) {
	if v == nil {
		return nil, false
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), rv.Len() > 0

	case reflect.Bool:
		return rv.Bool(), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true

	case reflect.Float32, reflect.Float64:
		return rv.Float(), true

	case reflect.Slice:
		list := make([]any, 0, rv.Len())

		for idx := range rv.Len() {
			if item, ok := configValue(rv.Index(idx).Interface()); ok {
				list = append(list, item)
			}
		}

		return list, len(list) > 0

	default:
		return fmt.Sprint(v), true
	}
}
