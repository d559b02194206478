package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roach88/cilsym/internal/config"
	"github.com/roach88/cilsym/internal/ir"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	NoColor    bool

	// Config is the resolved configuration, set before any subcommand runs.
	Config *config.Config

	// Logger writes diagnostics to stderr, set before any subcommand runs.
	Logger zerolog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the cilsym CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "cilsym",
		Short: "cilsym - symbolic stack machine for CIL method bodies",
		Long: `Replay CIL method bodies through a symbolic evaluation stack, producing
one typed SSA operation record per instruction.`,
		Version:       ir.EngineVersion,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "directory holding cilsym.toml (default: search upward from cwd)")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewOpcodesCommand(opts))

	return cmd
}

// resolve loads configuration and applies flag overrides.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := loadConfig(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading configuration", err)
	}
	o.Config = cfg

	if o.Format == "" {
		o.Format = cfg.Output.Format
	}
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	switch {
	case o.NoColor || cfg.Output.Color == "never":
		color.NoColor = true
	case cfg.Output.Color == "always":
		color.NoColor = false
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return WrapExitError(ExitCommandError, "log level", err)
	}
	if o.Verbose {
		level = zerolog.DebugLevel
	}
	o.Logger = newLogger(cmd.ErrOrStderr(), level)
	return nil
}

func loadConfig(dir string) (*config.Config, error) {
	if dir != "" {
		return config.Load(dir)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.FindAndLoad(wd)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}

// newLogger returns a console logger on w. Colors follow color.NoColor.
func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor, PartsExclude: []string{zerolog.TimestampFieldName}}).
		Level(level)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// contextOf returns the command's context, or Background when the command
// runs outside Execute.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
