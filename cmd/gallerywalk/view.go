package main

import (
	"github.com/spf13/cobra"

	"github.com/milk9111/gallerywalk/levels"
	"github.com/milk9111/gallerywalk/viewer"
)

func ViewCmd() *cobra.Command {
	var opts viewer.Options
	c := &cobra.Command{
		Use:   "view",
		Short: "open the top-down viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viewer.Run(opts)
		},
	}
	c.Flags().StringVar(&opts.Level, "level", levels.DefaultLevel, "level name in levels/ (.yaml optional)")
	c.Flags().StringVar(&opts.Tour, "tour", "tour.tengo", "tour script in prefabs/scripts, empty to disable")
	c.Flags().BoolVar(&opts.Watch, "watch", true, "reload prefabs, levels and scripts when they change on disk")
	return c
}
