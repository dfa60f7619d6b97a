package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/frbgen/internal/config"
	"github.com/roach88/frbgen/internal/source"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "text" | "json" | "yaml"
	ConfigPath string
	LogLevel   string

	// Config is the merged file and flag configuration, set before any
	// subcommand runs.
	Config config.Config

	// Logger writes diagnostics to stderr. Nil means slog.Default().
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the frbgen CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "frbgen",
		Short: "frbgen - Rust API signature resolver",
		Long: `Resolve the public functions and structs of a Rust source file into an
intermediate representation for binding generation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: frbgen.cue or frbgen.yaml in the working directory)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level (debug|info|warn|error)")

	// Add subcommands
	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// setup loads the config file, applies flag overrides and installs the
// logger. Flags win over file values only when set explicitly.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("%s: loading config", ErrCodeConfig), err)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = o.Format
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.LogLevel
	}
	if o.Verbose && !flags.Changed("log-level") {
		cfg.LogLevel = "debug"
	}

	if !isValidFormat(cfg.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", cfg.Format, ValidFormats))
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("%s: invalid settings", ErrCodeConfig), err)
	}

	o.Config = cfg
	o.Format = cfg.Format
	o.LogLevel = cfg.LogLevel
	o.Logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	slog.SetDefault(o.Logger)

	if o.ConfigPath != "" {
		o.Logger.Debug("config loaded", "path", o.ConfigPath)
	}
	return nil
}

func (o *RootOptions) loadConfig() (config.Config, error) {
	if o.ConfigPath != "" {
		return config.Load(o.ConfigPath)
	}
	cfg, path, err := config.Discover(".")
	if err != nil {
		return config.Config{}, err
	}
	o.ConfigPath = path
	return cfg, nil
}

// logger returns the configured logger, falling back to slog.Default().
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// sourceParser builds the Rust front end with the configured size limits.
// Zero limits keep the parser defaults.
func (o *RootOptions) sourceParser() *source.Parser {
	return source.NewParser(
		source.WithMaxFileSize(o.Config.MaxFileSize),
		source.WithWarnFileSize(o.Config.WarnFileSize),
		source.WithLogger(o.logger()),
	)
}

// database picks the --db flag, then the config value.
func (o *RootOptions) database(flag string) string {
	if flag != "" {
		return flag
	}
	return o.Config.DB
}

// newFormatter creates an OutputFormatter bound to cmd's writers.
func (o *RootOptions) newFormatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
