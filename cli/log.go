package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/aocl/log"
)

// reconfigure updates the package-level logger, keeping settings not named
// by opts.
func reconfigure(opts ...log.Option) {
	log.SetDefault(log.Default().Wrap(opts...))
}

// logLevel configures the logger as a side effect of kong parsing it, so
// that errors reported while parsing later flags already use it.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	reconfigure(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

// logFormat configures the logger as a side effect of kong parsing it.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	reconfigure(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}"  enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"${logFormatDefault}" enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                    help:"Set timestamp layout (Go layout, a time package constant name, or 'none')."`
	Caller     bool      `default:"false"                                      help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                       help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelDefault":  log.DefaultLevel.String(),
		"logLevelEnum":     strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatDefault": log.DefaultFormat.String(),
		"logFormatEnum":    strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every parsed logging flag. It runs after parsing, when
// values from the configuration file are known too.
func (f *logConfig) start(ctx context.Context) {
	reconfigure(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies logging flags found in args before kong parses them, so the
// logger is configured regardless of where the flags appear. Boolean flags
// never reach an encoding.TextUnmarshaler, and this is the only place they
// take effect early.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		name, value, assigned := strings.Cut(arg, "=")

		negated := false
		if s, ok := strings.CutPrefix(name, "--no-log-"); ok {
			name, negated = s, true
		} else if s, ok := strings.CutPrefix(name, "--log-"); ok {
			name = s
		} else {
			continue
		}

		// next consumes the following argument as the value when none was
		// assigned inline.
		next := func() string {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return value
		}

		switch name {
		case "level":
			_ = f.Level.UnmarshalText([]byte(next()))

		case "format":
			_ = f.Format.UnmarshalText([]byte(next()))

		case "time-layout":
			f.TimeLayout = next()
			reconfigure(log.WithTimeLayout(f.TimeLayout))

		case "caller":
			if on, ok := flagBool(value, assigned, negated); ok {
				f.Caller = on
				reconfigure(log.WithCaller(on))
			}

		case "pretty":
			if on, ok := flagBool(value, assigned, negated); ok {
				f.Pretty = on
				reconfigure(log.WithPretty(on))
			}
		}
	}
}

// flagBool returns the state selected by a boolean flag. A value is only
// taken from an inline assignment, as in --log-caller=false.
func flagBool(value string, assigned, negated bool) (on, ok bool) {
	on = true

	if assigned {
		v, err := strconv.ParseBool(value)
		if err != nil {
			return false, false
		}

		on = v
	}

	return on != negated, true
}
