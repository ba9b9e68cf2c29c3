package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/milk9111/gallerywalk/levels"
	"github.com/milk9111/gallerywalk/tour"
	"github.com/milk9111/gallerywalk/tui"
)

func TUICmd() *cobra.Command {
	var (
		levelName string
		tourName  string
		logFile   string
	)
	c := &cobra.Command{
		Use:   "tui",
		Short: "walk the avatar in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The screen owns the terminal, so logs go to a file or nowhere.
			log.SetOutput(io.Discard)
			if logFile != "" {
				f, err := os.Create(logFile)
				if err != nil {
					return fmt.Errorf("tui: open log: %w", err)
				}
				defer f.Close()
				log.SetOutput(f)
			}

			s, err := newSession(levelName)
			if err != nil {
				return err
			}
			var t *tour.Tour
			if tourName != "" {
				if t, err = tour.Load(tourName); err != nil {
					return err
				}
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			defer screen.Fini()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			err = tui.New(screen, s, t).Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	c.Flags().StringVar(&levelName, "level", levels.DefaultLevel, "level name in levels/ (.yaml optional)")
	c.Flags().StringVar(&tourName, "tour", "tour.tengo", "tour script in prefabs/scripts, empty to disable")
	c.Flags().StringVar(&logFile, "log", "", "write logs to this file")
	return c
}
