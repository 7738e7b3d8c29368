// Package cmd implements the churchill subcommands: eval, repl, fmt and init.
//
// Commands receive their runtime environment through [context.Context]: the
// parsed [kong.Context] ([WithContext]), the prelude definition files given
// with --source ([WithSourceFiles]), and the standard streams
// ([WithStreams]).
package cmd

const (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"

	// MaxStepsIdentifier is the kong variable identifier containing the
	// default reduction step ceiling.
	MaxStepsIdentifier = "maxSteps"

	// StdinSource is the source name that selects standard input.
	StdinSource = "-"
)
