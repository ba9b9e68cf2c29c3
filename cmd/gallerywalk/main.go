package main

import (
	"log"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "gallerywalk",
		Short:        "walk an avatar around a gallery floor plan",
		SilenceUsage: true,
	}
	root.AddCommand(
		ViewCmd(),
		TUICmd(),
		PlanCmd(),
		GridCmd(),
	)
	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
