package cli

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/churchill/cli/cmd"
	"github.com/ardnew/churchill/lambda"
	"github.com/ardnew/churchill/log"
	"github.com/ardnew/churchill/pkg"
)

// CLI is the top-level command-line interface for churchill.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Source []string `help:"Definition file(s) loaded before evaluation, or '-' for stdin" name:"source" placeholder:"FILE" short:"s"`
	Path   []string `help:"Directories searched for relative source files (also ${envPath})"  name:"path"   placeholder:"DIR"  short:"I" type:"path"`

	Init cmd.Init `cmd:"" help:"Initialize configuration file"`
	Fmt  cmd.Fmt  `cmd:"" help:"Format lambda expressions"`
	Repl cmd.Repl `cmd:"" help:"Start the interactive REPL"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate lambda expressions"`
}

// Run executes the churchill CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":              pkg.Version,
		"envPath":              "$" + envPath,
		cmd.ConfigIdentifier:   configFilePath,
		cmd.CacheIdentifier:    cacheDir(),
		cmd.MaxStepsIdentifier: strconv.Itoa(lambda.DefaultMaxSteps),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	// Parse command line
	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath("config.json")),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	sources, err := resolveSources(cli.Source, searchPath(cli.Path...))
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, sources)
	ctx = cmd.WithStreams(ctx, cmd.Streams{
		In:  os.Stdin,
		Out: ktx.Stdout,
		Err: ktx.Stderr,
	})

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	log.TraceContext(ctx, "command selected",
		slog.String("command", ktx.Command()),
		slog.Any("sources", sources),
	)

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
