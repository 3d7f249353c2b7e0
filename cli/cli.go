package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/aocl/cli/cmd"
	"github.com/ardnew/aocl/lang"
	"github.com/ardnew/aocl/pkg"
)

// configFile is the base name of the YAML configuration file.
const configFile = "config.yaml"

// CLI is the top-level command-line interface for aocl.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Init cmd.Init `cmd:"" help:"Write the configuration file from current flag values"`
	Fmt  cmd.Fmt  `cmd:"" help:"Format a solution"`
	Repl cmd.Repl `cmd:"" help:"Start an interactive shell"`

	Run cmd.Run `cmd:"" default:"withargs" help:"Run a solution and print its results"`
}

// Run executes the aocl CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(configFile)

	vars := kong.Vars{
		"version":                    pkg.Version(),
		cmd.ConfigIdentifier:         configFilePath,
		cmd.CacheIdentifier:          pkg.CacheDir(),
		cmd.DataTemplateIdentifier:   lang.DefaultDataTemplate,
		cmd.RecursionLimitIdentifier: strconv.Itoa(lang.DefaultRecursionLimit),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logging flags before kong parses anything so that parse errors
	// are already reported with the requested settings.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(groups(cli.Log.group(), cli.Pprof.group())),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// No-op unless built with the pprof tag and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(&cli)
}

// groups drops the groups of flag sets compiled out of this build.
func groups(all ...kong.Group) []kong.Group {
	var out []kong.Group

	for _, g := range all {
		if g.Key != "" {
			out = append(out, g)
		}
	}

	return out
}

// mkdirAllRequired creates the per-user directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, pkg.DirMode); err != nil {
			return err
		}
	}

	return nil
}
