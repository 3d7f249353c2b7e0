// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are immutable values configured once with functional options.
// The zero [Logger] discards everything, so it can sit in option structs
// without initialization.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("program loaded", slog.String("name", "day1"))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a new logger from an existing configuration, and
// [Logger.With] adds attributes to every subsequent message.
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace sits below Debug and is used for
// per-node evaluation detail.
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON] are supported. With
// [WithPretty] enabled, both are styled with lipgloss when the output is a
// terminal, and JSON is indented.
//
// # Package Logger
//
// The package-level functions ([Info], [Debug], and so on) write through a
// default logger on [os.Stderr], replaced with [Config] or [SetDefault].
package log
