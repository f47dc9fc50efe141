package main

import (
	"fmt"
	"log/slog"

	"github.com/dgallion1/docnav/internal/navtree"
	"github.com/dgallion1/docnav/internal/parser"
	"github.com/dgallion1/docnav/internal/project"
	"github.com/dgallion1/docnav/internal/theme"
	"github.com/spf13/cobra"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	verbose bool
	log     *slog.Logger
}

// siteOptions are the flags of commands that load a source directory.
type siteOptions struct {
	src          string
	name         string
	drafts       bool
	headingDepth int
	expandDepth  int
	fanOut       int
}

func (o *siteOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.src, "src", "", "source directory")
	f.StringVar(&o.name, "name", "", "project name (default: source directory name)")
	f.BoolVar(&o.drafts, "drafts", false, "include draft pages")
	f.IntVar(&o.headingDepth, "heading-depth", 2, "heading levels of each page shown in the navigation")
	f.IntVar(&o.expandDepth, "expand-depth", 2, "levels above the current page whose children are always shown")
	f.IntVar(&o.fanOut, "fan-out", 30, "running item count beyond which sibling lists stay collapsed")
	_ = cmd.MarkFlagRequired("src")
}

func (o *siteOptions) limits() navtree.Limits {
	return navtree.Limits{ExpandDepth: o.expandDepth, FanOut: o.fanOut}
}

func (o *siteOptions) load(log *slog.Logger) (*project.Project, *theme.Default, error) {
	if o.expandDepth < 0 {
		return nil, nil, fmt.Errorf("--expand-depth must not be negative, got %d", o.expandDepth)
	}
	if o.fanOut <= 0 {
		return nil, nil, fmt.Errorf("--fan-out must be positive, got %d", o.fanOut)
	}
	p, err := project.Load(o.src, project.Options{
		Name:          o.name,
		IncludeDrafts: o.drafts,
		Parser:        parser.Options{PDFFallbackPdftotext: true},
		Logger:        log,
	})
	if err != nil {
		return nil, nil, err
	}
	th, err := theme.NewDefault(o.headingDepth, log)
	if err != nil {
		return nil, nil, err
	}
	return p, th, nil
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "docnav",
		Short:         "Render documentation sites with per-page navigation",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "enable debug logging")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newBuildCmd(opts))
	cmd.AddCommand(newNavCmd(opts))
	return cmd
}
