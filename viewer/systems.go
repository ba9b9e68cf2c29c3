package viewer

import (
	"fmt"
	"log"
	"math"
	"path"
	"strings"

	ebuiinput "github.com/ebitenui/ebitenui/input"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/gallerywalk/prefabs"
)

func inputSystem(g *Game) {
	g.input.Update(g.dt)
}

// watchSystem applies edits picked up by the file watcher.
func watchSystem(g *Game) {
	if g.watcher == nil {
		return
	}
	for _, ch := range g.watcher.Drain() {
		switch ch.Kind {
		case prefabs.ScriptChange:
			if g.tour != nil && ch.Base() == path.Base(g.tour.Name()) {
				g.reloadTour()
			}
		case prefabs.SpecChange:
			if ch.Base() == "viewer.yaml" {
				g.reloadViewerSpec()
				continue
			}
			grid := g.session.Grid()
			if err := g.session.Reload(ch); err != nil {
				g.setStatus("%v", err)
				continue
			}
			if g.session.Grid() != grid {
				g.target = nil
				g.syncCamera()
			}
		}
	}
	for {
		select {
		case err := <-g.watcher.Errors:
			log.Printf("viewer: watch: %v", err)
		default:
			return
		}
	}
}

func commandSystem(g *Game) {
	in := g.input
	if in.Quit {
		g.quit = true
	}

	if !ebuiinput.UIHovered {
		if in.Click {
			if g.touring {
				g.stopWalk()
			}
			g.requestMove(in.ClickX, in.ClickZ)
		}
		if in.Obstacle {
			g.dropObstacle(in.ClickX, in.ClickZ)
		}
	}

	if in.Turn != 0 {
		g.session.RequestTurn(in.Turn)
	}
	if in.Stop {
		g.stopWalk()
	}
	if in.Tour {
		g.toggleTour()
	}
	if in.Grid {
		g.toggleGrid()
	}
	if in.Copy {
		g.copyPath()
	}
	if in.Rebuild {
		g.rebuildGrid()
	}
}

func tourSystem(g *Game) {
	if !g.touring || g.tour == nil {
		return
	}
	g.tour.Update(g.dt, g.session)
	if stop, ok := g.tour.Current(); ok {
		target := stop.Point()
		g.target = &target
	}
	if g.tour.Done() {
		g.touring = false
		g.hud.SetTouring(false)
		g.setStatus("tour %s finished", g.tour.Name())
	}
}

func simSystem(g *Game) {
	g.session.Tick(g.dt)
	if !g.session.Following() && !g.touring {
		g.target = nil
	}
}

func hudSystem(g *Game) {
	g.hud.SetStatus(statusText(g))
}

func statusText(g *Game) string {
	var b strings.Builder
	pos := g.session.Position()
	fmt.Fprintf(&b, "level  %s\n", g.session.Level().Name)
	fmt.Fprintf(&b, "mode   %s\n", g.session.Mode())
	fmt.Fprintf(&b, "pos    %.2f, %.2f\n", pos.X(), pos.Z())
	fmt.Fprintf(&b, "facing %.0f deg\n", g.session.Facing()*180/math.Pi)
	fmt.Fprintf(&b, "path   %d waypoints\n", len(g.session.Path()))
	if g.tour != nil {
		fmt.Fprintf(&b, "tour   %s", g.tour.Name())
		if stop, ok := g.tour.Current(); ok && g.touring {
			fmt.Fprintf(&b, " -> %s", stop.Name)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "fps    %.0f", ebiten.ActualFPS())
	return b.String()
}
