package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/milk9111/gallerywalk/levels"
	"github.com/milk9111/gallerywalk/prefabs"
	"github.com/milk9111/gallerywalk/session"
)

var errBadPoint = errors.New("point must be x,z")

// newSession loads avatar settings and a level and builds the grid.
func newSession(levelName string) (*session.Session, error) {
	spec, err := prefabs.LoadAvatarSpec()
	if err != nil {
		return nil, err
	}
	lvl, err := levels.Load(levelName)
	if err != nil {
		return nil, err
	}
	s := session.New(*spec, nil)
	s.LoadLevel(lvl)
	return s, nil
}

// parsePoint reads "x,z" as a floor point at the given eye height.
func parsePoint(s string, y float64) (mgl64.Vec3, error) {
	xs, zs, ok := strings.Cut(s, ",")
	if !ok {
		return mgl64.Vec3{}, fmt.Errorf("%w, got %q", errBadPoint, s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("%w, got %q: %v", errBadPoint, s, err)
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(zs), 64)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("%w, got %q: %v", errBadPoint, s, err)
	}
	return mgl64.Vec3{x, y, z}, nil
}

func PlanCmd() *cobra.Command {
	var levelName, from, to string
	c := &cobra.Command{
		Use:   "plan",
		Short: "print the path between two floor points as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(levelName)
			if err != nil {
				return err
			}
			start := s.Position()
			if from != "" {
				if start, err = parsePoint(from, s.Spec().EyeHeight); err != nil {
					return err
				}
			}
			target, err := parsePoint(to, s.Spec().EyeHeight)
			if err != nil {
				return err
			}

			out, err := session.EncodePath(start, target, s.Plan(start, target))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	c.Flags().StringVar(&levelName, "level", levels.DefaultLevel, "level name in levels/ (.yaml optional)")
	c.Flags().StringVar(&from, "from", "", "start point x,z (defaults to the level spawn)")
	c.Flags().StringVar(&to, "to", "", "target point x,z")
	_ = c.MarkFlagRequired("to")
	return c
}

func GridCmd() *cobra.Command {
	var levelName string
	c := &cobra.Command{
		Use:   "grid",
		Short: "print the walkability grid of a level",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(levelName)
			if err != nil {
				return err
			}
			g := s.Grid()
			out := cmd.OutOrStdout()
			fmt.Fprint(out, g.String())
			fmt.Fprintf(out, "%dx%d cells, %d walkable, cell size %v\n", g.Width(), g.Height(), g.WalkableCount(), g.CellSize())
			return nil
		},
	}
	c.Flags().StringVar(&levelName, "level", levels.DefaultLevel, "level name in levels/ (.yaml optional)")
	return c
}
