package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zoobzio/cascade"
)

func (a *app) newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <name> <pattern>...",
		Short: "Report which patterns match an event name",
		Long: `Report which patterns match an event name under the configured matching options.

With lifecycles enabled, patterns are lifecycle keys and only their name part
is matched; the lifecycle and sort order are shown alongside.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			filter := cfg.Filter()
			lifecycles := cfg.Lifecycles.Phases()
			name, patterns := args[0], args[1:]

			out := cmd.OutOrStdout()
			for _, pattern := range patterns {
				target, detail := pattern, ""
				if len(lifecycles) > 0 {
					key, err := cascade.ParseEventKey(pattern, lifecycles)
					if err != nil {
						_, _ = fmt.Fprintf(out, "invalid   %s: %v\n", pattern, err)
						continue
					}
					target = key.Name
					detail = fmt.Sprintf("  (lifecycle=%s order=%d)", key.Lifecycle, key.Order)
				}

				verdict := "no match"
				if filter.Match(name, target) {
					verdict = "match"
				}
				_, _ = fmt.Fprintf(out, "%-9s %s%s\n", verdict, pattern, detail)
			}
			return nil
		},
	}
}
