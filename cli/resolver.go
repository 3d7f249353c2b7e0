package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/aocl/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The document is converted as follows:
//   - Top-level keys name flags, with hyphens or underscores
//     (log-level or log_level)
//   - Nested mappings are flattened with hyphens, so a "log" mapping with a
//     "level" key sets --log-level
//   - Numbers are passed to kong as strings for it to parse
//   - Sequences set repeated flags such as --data-dir
//
// Example config file:
//
//	log:
//	  level: debug
//	  format: json
//	data-dir:
//	  - ~/aoc/2022/input
//	recursion-limit: 5000
//
// An empty file is an empty configuration. A malformed file is reported and
// ignored, so a broken configuration never prevents the CLI from starting.
// Command-line flags override config file values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if !errors.Is(err, io.EOF) {
				log.WarnContext(ctx, "ignoring configuration file",
					slog.String("error", err.Error()),
				)
			}

			return config{}, nil
		}

		cfg := make(config, len(doc))
		cfg.flatten("", doc)

		log.TraceContext(ctx, "configuration loaded", slog.Int("keys", len(cfg)))

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found: kong keeps the default.
	return nil, nil
}

func (c config) flatten(prefix string, doc map[string]any) {
	for key, value := range doc {
		if prefix != "" {
			key = prefix + "-" + key
		}

		if nested, ok := value.(map[string]any); ok {
			c.flatten(key, nested)

			continue
		}

		c[key] = scalar(value)
	}
}

// scalar converts a decoded YAML value to a form kong can parse.
func scalar(value any) any {
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		list := make([]any, len(v))
		for i, item := range v {
			list[i] = scalar(item)
		}

		return list

	default:
		return v
	}
}
