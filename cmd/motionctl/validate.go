package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/motion/model"
)

var errInvalid = errors.New("validation failed")

type validation struct {
	comp *model.Composition
	err  error
}

func newValidateCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check animation documents for errors and warnings",
		Long: `Parses every document and reports fatal errors and recovered anomalies.
With --strict, documents with warnings fail too.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]validation, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			if a.cfg.Workers > 0 {
				g.SetLimit(a.cfg.Workers)
			}
			for i, name := range args {
				g.Go(func() error {
					comp, err := a.loader.LoadFile(ctx, name)
					results[i] = validation{comp: comp, err: err}
					return nil
				})
			}
			_ = g.Wait()

			out := cmd.OutOrStdout()
			failed := 0
			for i, r := range results {
				switch {
				case r.err != nil:
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", args[i], r.err)
				case len(r.comp.Warnings) > 0:
					if strict {
						failed++
						fmt.Fprintf(out, "FAIL %s: %d warnings\n", args[i], len(r.comp.Warnings))
					} else {
						fmt.Fprintf(out, "ok   %s (%d warnings)\n", args[i], len(r.comp.Warnings))
					}
					for _, w := range r.comp.Warnings {
						fmt.Fprintf(out, "     %s\n", w)
					}
				default:
					fmt.Fprintf(out, "ok   %s\n", args[i])
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d documents", errInvalid, failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	return cmd
}
