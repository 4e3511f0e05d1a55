package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zoobzio/cascade"
)

// app carries the state shared by all subcommands.
type app struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "cascade",
		Short: "Inspect pattern matching and lifecycle ordering of cascade emitters",
		Long: `Inspect how a cascade emitter interprets event names, patterns and lifecycle keys.

Matching options come from flags, a YAML config file (--config) or
CASCADE_* environment variables, in that order of precedence.

Examples:
  # Does a pattern match a name?
  cascade match user.created 'user.*' --wildcards

  # How is a lifecycle key parsed?
  cascade parse before:save:10 --default-lifecycles

  # Which handlers run, and in what order?
  cascade simulate save --on before:save --on save --on after:save:-1 --default-lifecycles`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return errors.Wrap(err, "failed to bind flags")
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "YAML emitter config file")
	flags.Bool("wildcards", false, `enable "*" in pattern segments`)
	flags.Bool("list-options", false, `enable "{a,b}" list segments`)
	flags.StringSlice("lifecycles", nil, "enable lifecycles with this phase order (comma separated)")
	flags.Bool("default-lifecycles", false, "enable the early, before, default, after, late lifecycles")
	flags.Bool("debug", false, "log registry and emission events to stderr")

	a.v.SetEnvPrefix("cascade")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.newMatchCmd(),
		a.newParseCmd(),
		a.newSimulateCmd(),
	)
	return root
}

// config merges the config file with flag and environment overrides.
func (a *app) config() (cascade.Config, error) {
	var cfg cascade.Config
	if path := a.v.GetString("config"); path != "" {
		loaded, err := cascade.LoadConfig(path)
		if err != nil {
			return cascade.Config{}, err
		}
		cfg = loaded
	}

	if a.v.IsSet("wildcards") {
		cfg.Wildcards = a.v.GetBool("wildcards")
	}
	if a.v.IsSet("list-options") {
		cfg.ListOptions = a.v.GetBool("list-options")
	}
	if a.v.GetBool("default-lifecycles") {
		cfg.Lifecycles = cascade.Lifecycles{Enabled: true}
	}
	if names := a.v.GetStringSlice("lifecycles"); len(names) > 0 {
		if a.v.GetBool("default-lifecycles") {
			return cascade.Config{}, errors.New("--lifecycles and --default-lifecycles are mutually exclusive")
		}
		cfg.Lifecycles = cascade.Lifecycles{Enabled: true, Names: names}
	}
	return cfg, nil
}

// logger writes human-readable debug output to the command's stderr when
// --debug is set, and nothing otherwise.
func (a *app) logger(cmd *cobra.Command) zerolog.Logger {
	if !a.v.GetBool("debug") {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()
}
