package viewer

import (
	"fmt"
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"

	"github.com/milk9111/gallerywalk/levels"
	"github.com/milk9111/gallerywalk/nav"
	"github.com/milk9111/gallerywalk/prefabs"
	"github.com/milk9111/gallerywalk/session"
	"github.com/milk9111/gallerywalk/tour"
)

const (
	minScreenHeight = 480
	obstacleSize    = 1.0
	obstacleHeight  = 3.0
)

// Options picks what the viewer opens with.
type Options struct {
	Level string
	// Tour is a script under prefabs/scripts; empty disables the tour button.
	Tour  string
	Watch bool
}

type Game struct {
	frames int

	session *session.Session
	spec    *prefabs.ViewerSpec
	camera  *Camera
	input   *Input
	clock   session.FrameClock
	dt      float64

	scheduler *Scheduler
	watcher   *prefabs.Watcher
	hud       *HUD

	tour    *tour.Tour
	touring bool

	showGrid    bool
	grid        gridLayer
	clipboardOK bool
	target      *mgl64.Vec3
	status      string
	quit        bool
}

func NewGame(opts Options) (*Game, error) {
	avatar, err := prefabs.LoadAvatarSpec()
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	spec, err := prefabs.LoadViewerSpec()
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}

	name := opts.Level
	if name == "" {
		name = levels.DefaultLevel
	}
	lvl, err := levels.Load(name)
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}

	g := &Game{spec: spec, showGrid: spec.ShowGrid}
	g.camera = NewCamera(session.GridConfig(*avatar), spec.Scale, spec.Margin)
	g.input = NewInput(g.camera, spec.TurnSpeed, spec.DragTurn)
	g.session = session.New(*avatar, g.input)
	g.session.LoadLevel(lvl)

	if opts.Tour != "" {
		t, err := tour.Load(opts.Tour)
		if err != nil {
			return nil, fmt.Errorf("viewer: %w", err)
		}
		g.tour = t
	}

	if opts.Watch {
		w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts", "levels")
		if err != nil {
			log.Printf("viewer: hot reload disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("viewer: clipboard unavailable, paths will be logged: %v", err)
	} else {
		g.clipboardOK = true
	}

	g.hud = NewHUD(g)
	g.hud.SetGrid(g.showGrid)
	g.hud.SetTouring(false)

	g.scheduler = NewScheduler(
		SystemFunc(inputSystem),
		SystemFunc(watchSystem),
		SystemFunc(commandSystem),
		SystemFunc(tourSystem),
		SystemFunc(simSystem),
		SystemFunc(hudSystem),
	)
	return g, nil
}

func (g *Game) Title() string {
	if g.spec.Title != "" {
		return g.spec.Title
	}
	return "gallerywalk"
}

// ScreenSize is the logical size of the viewer: the floor plus the side panel.
func (g *Game) ScreenSize() (int, int) {
	w, h := g.camera.MapSize()
	return w + hudWidth, max(h, minScreenHeight)
}

func (g *Game) Update() error {
	g.frames++
	g.dt = g.clock.Delta(time.Now())

	g.hud.UI.Update()
	g.scheduler.Update(g)

	if g.quit {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	w, h := g.ScreenSize()
	return float64(w), float64(h)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close stops the file watcher.
func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) setStatus(format string, args ...any) {
	g.status = fmt.Sprintf(format, args...)
	log.Printf("viewer: %s", g.status)
}

func (g *Game) requestMove(x, z float64) {
	target := mgl64.Vec3{x, 0, z}
	if g.session.Following() {
		g.setStatus("already walking, press Esc to stop")
		return
	}
	if !g.session.RequestMove(target) {
		g.setStatus("no route to (%.1f, %.1f)", x, z)
		return
	}
	g.target = &target
	g.status = ""
}

func (g *Game) stopWalk() {
	g.session.Stop()
	g.target = nil
	if g.touring {
		g.touring = false
		g.hud.SetTouring(false)
	}
}

func (g *Game) rebuildGrid() {
	if err := g.session.Reload(prefabs.Change{Path: levels.FileName(g.session.Level().Name), Kind: prefabs.SpecChange}); err != nil {
		g.setStatus("rebuild failed: %v", err)
		return
	}
	g.target = nil
	g.syncCamera()
	g.setStatus("grid rebuilt")
}

func (g *Game) toggleTour() {
	if g.tour == nil {
		g.setStatus("no tour loaded")
		return
	}
	g.touring = !g.touring
	if g.touring {
		g.tour.Reset()
		g.setStatus("tour %s started", g.tour.Name())
	} else {
		g.session.Stop()
		g.target = nil
	}
	g.hud.SetTouring(g.touring)
}

func (g *Game) toggleGrid() {
	g.showGrid = !g.showGrid
	g.hud.SetGrid(g.showGrid)
}

// copyPath puts the remaining path on the clipboard as YAML.
func (g *Game) copyPath() {
	path := g.session.Path()
	if len(path) == 0 {
		g.setStatus("no path to copy")
		return
	}
	out, err := session.EncodePath(g.session.Position(), path[len(path)-1], path)
	if err != nil {
		g.setStatus("copy failed: %v", err)
		return
	}
	if !g.clipboardOK {
		log.Printf("viewer: path\n%s", out)
		g.status = "path written to the log"
		return
	}
	clipboard.Write(clipboard.FmtText, out)
	g.setStatus("copied %d waypoints", len(path))
}

func (g *Game) dropObstacle(x, z float64) {
	height := obstacleHeight
	if lvl := g.session.Level(); lvl != nil && lvl.Height > 0 {
		height = lvl.Height
	}
	half := obstacleSize / 2
	g.session.InjectObstacle(nav.Obstacle{
		Min: mgl64.Vec3{x - half, 0, z - half},
		Max: mgl64.Vec3{x + half, height, z + half},
	})
	g.setStatus("obstacle at (%.1f, %.1f)", x, z)
}

func (g *Game) reloadTour() {
	if g.tour == nil {
		return
	}
	t, err := tour.Load(g.tour.Name())
	if err != nil {
		g.setStatus("tour reload failed: %v", err)
		return
	}
	g.tour = t
	if g.touring {
		g.session.Stop()
	}
	g.setStatus("tour %s reloaded", t.Name())
}

func (g *Game) reloadViewerSpec() {
	spec, err := prefabs.LoadViewerSpec()
	if err != nil {
		g.setStatus("viewer.yaml: %v", err)
		return
	}
	g.spec = spec
	g.input.turnSpeed = spec.TurnSpeed
	g.input.dragTurn = spec.DragTurn
	g.syncCamera()
}

// syncCamera refits the camera to the current grid region.
func (g *Game) syncCamera() {
	cfg := g.session.Grid().Config()
	g.camera = NewCamera(cfg, g.spec.Scale, g.spec.Margin)
	g.input.camera = g.camera
	g.grid.invalidate()
	ebiten.SetWindowSize(g.ScreenSize())
}

// Run opens the window and blocks until it closes.
func Run(opts Options) error {
	g, err := NewGame(opts)
	if err != nil {
		return err
	}
	defer g.Close()

	ebiten.SetWindowTitle(g.Title())
	ebiten.SetWindowSize(g.ScreenSize())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return ebiten.RunGame(g)
}
