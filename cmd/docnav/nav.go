package main

import (
	"encoding/json"
	"fmt"

	"github.com/dgallion1/docnav/internal/navigation"
	"github.com/dgallion1/docnav/internal/navtree"
	"github.com/spf13/cobra"
)

func newNavCmd(g *globalOptions) *cobra.Command {
	var (
		site   siteOptions
		url    string
		all    bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Print the navigation tree as seen from one page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, th, err := site.load(g.log)
			if err != nil {
				return err
			}
			a := navigation.New(th, site.limits(), g.log)
			if err := a.Initialize(p); err != nil {
				return err
			}
			ann, err := a.Annotate(url)
			if err != nil {
				return err
			}
			if len(ann.Current()) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "no navigation entry for %s\n", url)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(ann.View(!all))
			}
			return navtree.Fprint(cmd.OutOrStdout(), ann, navtree.PrintOptions{All: all})
		},
	}
	site.register(cmd)
	cmd.Flags().StringVar(&url, "url", "", "page URL, e.g. guide/install.html")
	cmd.Flags().BoolVar(&all, "all", false, "include hidden entries")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of an outline")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
