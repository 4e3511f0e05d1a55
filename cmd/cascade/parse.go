package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zoobzio/cascade"
)

// parsedKey is the YAML form of a parsed lifecycle key.
type parsedKey struct {
	Key       string `yaml:"key"`
	Lifecycle string `yaml:"lifecycle,omitempty"`
	Phase     int    `yaml:"phase"`
	Name      string `yaml:"name,omitempty"`
	Order     int    `yaml:"order"`
	Error     string `yaml:"error,omitempty"`
}

func (a *app) newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <key>...",
		Short: "Parse lifecycle keys of the form [lifecycle:]name[:sortOrder]",
		Long: `Parse lifecycle keys and print the result as YAML.

Uses the configured lifecycles, or the default lifecycles when none are
configured. Exits non-zero if any key fails to parse.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			lifecycles := cfg.Lifecycles.Phases()
			if len(lifecycles) == 0 {
				lifecycles = cascade.DefaultLifecycles()
			}

			parsed := make([]parsedKey, 0, len(args))
			failed := 0
			for _, raw := range args {
				key, err := cascade.ParseEventKey(raw, lifecycles)
				if err != nil {
					failed++
					parsed = append(parsed, parsedKey{Key: raw, Phase: -1, Error: err.Error()})
					continue
				}
				parsed = append(parsed, parsedKey{
					Key:       raw,
					Lifecycle: key.Lifecycle,
					Phase:     key.Phase,
					Name:      key.Name,
					Order:     key.Order,
				})
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(parsed); err != nil {
				return errors.Wrap(err, "failed to encode parsed keys")
			}
			if err := enc.Close(); err != nil {
				return errors.Wrap(err, "failed to encode parsed keys")
			}

			if failed > 0 {
				return errors.Errorf("%d of %d keys failed to parse", failed, len(args))
			}
			return nil
		},
	}
}
