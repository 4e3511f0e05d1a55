package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/zoobzio/cascade"
)

func (a *app) newSimulateCmd() *cobra.Command {
	var (
		patterns  []string
		waterfall bool
	)

	cmd := &cobra.Command{
		Use:   "simulate <event> --on <pattern>...",
		Short: "Register a labelled handler per pattern and emit an event",
		Long: `Register one handler per --on pattern, emit the event and print which
handlers ran, grouped by lifecycle.

Each handler returns its own pattern. With --waterfall, each handler appends
its pattern to the value it receives and the final chain is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if len(patterns) == 0 {
				return errors.New("at least one --on pattern is required")
			}

			em := cascade.New(append(cfg.Options(), cascade.WithLogger(a.logger(cmd)))...)
			for _, pattern := range patterns {
				if _, err := em.On(pattern, label(pattern, waterfall)); err != nil {
					return errors.Wrapf(err, "cannot register %q", pattern)
				}
			}

			out := cmd.OutOrStdout()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			event := args[0]

			if waterfall {
				result, err := em.EmitWaterfall(ctx, event)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "%v\n", result)
				return nil
			}

			results, err := em.Emit(ctx, event)
			if err != nil {
				return err
			}
			lifecycles := em.Lifecycles()
			for i, group := range results.Phases() {
				heading := "handlers"
				if len(lifecycles) > 0 {
					heading = lifecycles[i]
				}
				_, _ = fmt.Fprintf(out, "%s:", heading)
				for _, v := range group {
					_, _ = fmt.Fprintf(out, " %v", v)
				}
				_, _ = fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&patterns, "on", nil, "pattern to register a handler for (repeatable)")
	cmd.Flags().BoolVar(&waterfall, "waterfall", false, "emit as a waterfall and print the threaded value")
	return cmd
}

// label returns a handler that reports the pattern it was registered under.
func label(pattern string, chain bool) cascade.Handler {
	return func(_ context.Context, _ *cascade.Event, args ...any) (any, error) {
		if !chain {
			return pattern, nil
		}
		parts := make([]string, 0, 2)
		if len(args) > 0 {
			if prev, ok := args[0].(string); ok && prev != "" {
				parts = append(parts, prev)
			}
		}
		return strings.Join(append(parts, pattern), " > "), nil
	}
}
