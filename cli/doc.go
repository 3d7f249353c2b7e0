// Package cli contains the command line interface for aocl.
//
// # Usage
//
//	aocl [flags] <command> [args]
//
// Commands:
//
//   - run NAME (default): parse and execute solutions/NAME.aoc and print the
//     value of each part. readByLine reads the data file computed by
//     --data-file from NAME, searched for in --data-dir, $AOCL_DATA_PATH
//     and ./data.
//   - fmt [native|json|yaml|ast] [FILE]: re-emit a solution in canonical
//     syntax, as JSON or YAML, or as an indented syntax tree.
//   - repl [NAME]: start an interactive shell with the built-ins in scope.
//   - init: write the configuration file from the current flag values.
//
// # Configuration
//
// Flags may also be set in config.yaml in the per-user configuration
// directory (for example ~/.config/aocl/config.yaml). Keys are flag names;
// nested mappings join their keys with hyphens:
//
//	log:
//	  level: debug
//	data-dir:
//	  - ~/puzzles/input
//
// Command-line flags override the configuration file.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, none, ...)
//   - --log-caller: include the source location of each record
//   - --log-pretty: colorize output on terminals
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory (default: the pprof directory
//     in the per-user cache directory)
//
// # Examples
//
//	# Run solutions/day1.aoc against data/day1.txt
//	aocl day1
//
//	# Debug logging with CPU profiling
//	aocl --log-level=debug --pprof-mode=cpu run day1
//
//	# Print the syntax tree of a solution read from stdin
//	aocl fmt ast < solutions/day1.aoc
package cli
