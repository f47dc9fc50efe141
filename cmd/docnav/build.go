package main

import (
	"fmt"

	"github.com/dgallion1/docnav/internal/renderer"
	"github.com/spf13/cobra"
)

func newBuildCmd(g *globalOptions) *cobra.Command {
	var (
		site       siteOptions
		out        string
		workers    int
		noSanitize bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the site into an output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, th, err := site.load(g.log)
			if err != nil {
				return err
			}
			r, err := renderer.New(th, renderer.Options{
				OutDir:     out,
				Workers:    workers,
				Sanitize:   !noSanitize,
				Navigation: site.limits(),
				Logger:     g.log,
			})
			if err != nil {
				return err
			}
			stats, err := r.Render(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rendered %d pages and %d redirects to %s\n", stats.Pages, stats.Redirects, out)
			return nil
		},
	}
	site.register(cmd)
	cmd.Flags().StringVar(&out, "out", "site", "output directory")
	cmd.Flags().IntVar(&workers, "workers", 4, "pages rendered concurrently")
	cmd.Flags().BoolVar(&noSanitize, "no-sanitize", false, "write page bodies without HTML sanitizing")
	return cmd
}
