// Package cmd implements the aocl subcommands: run, fmt, init and repl.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// (see [WithContext]), which supplies the output writers and the variables
// set up by the root command.
package cmd

const (
	// CacheIdentifier is the kong variable holding the per-user cache
	// directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the YAML
	// configuration file.
	ConfigIdentifier = "config"

	// DataTemplateIdentifier is the kong variable holding the default data
	// file name template.
	DataTemplateIdentifier = "dataTemplate"

	// RecursionLimitIdentifier is the kong variable holding the default
	// interpreter call depth limit.
	RecursionLimitIdentifier = "recursionLimit"
)
