package tui

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/gallerywalk/motion"
	"github.com/milk9111/gallerywalk/session"
	"github.com/milk9111/gallerywalk/tour"
)

const (
	frameInterval = 16 * time.Millisecond
	// Terminals send no key-up events, so a movement key counts as held
	// until this long after its last repeat.
	keyHold = 150 * time.Millisecond
	// turnStep is the rotation applied per q/e key event, in radians.
	turnStep = math.Pi / 16
	// statusRows are reserved at the bottom of the screen.
	statusRows = 2
)

// App draws a session into a terminal and feeds it keyboard and mouse input.
type App struct {
	screen  tcell.Screen
	session *session.Session
	tour    *tour.Tour
	touring bool

	keys    keyLatch
	clock   session.FrameClock
	buttons tcell.ButtonMask
	status  string
	now     func() time.Time
}

// New wires an App to an initialised screen. The session's input source is
// replaced with the terminal keys.
func New(screen tcell.Screen, s *session.Session, t *tour.Tour) *App {
	a := &App{screen: screen, session: s, tour: t, now: time.Now}
	s.SetInput(motion.InputFunc(func() motion.Controls {
		return a.keys.controls(a.now())
	}))
	return a
}

// Run polls events and steps the session until ctx is done or the user quits.
func (a *App) Run(ctx context.Context) error {
	a.screen.EnableMouse()
	a.screen.HideCursor()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !a.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			a.Step(a.clock.Delta(a.now()))
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the user asks
// to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		pressed := ev.Buttons()&tcell.Button1 != 0 && a.buttons&tcell.Button1 == 0
		a.buttons = ev.Buttons()
		if pressed {
			a.handleClick(x, y)
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(key tcell.Key, r rune) bool {
	now := a.now()
	switch key {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		a.stop()
	case tcell.KeyUp:
		a.keys.press(dirForward, now)
	case tcell.KeyDown:
		a.keys.press(dirBackward, now)
	case tcell.KeyLeft:
		a.keys.press(dirLeft, now)
	case tcell.KeyRight:
		a.keys.press(dirRight, now)
	case tcell.KeyRune:
		switch r {
		case 'w':
			a.keys.press(dirForward, now)
		case 's':
			a.keys.press(dirBackward, now)
		case 'a':
			a.keys.press(dirLeft, now)
		case 'd':
			a.keys.press(dirRight, now)
		case 'q':
			a.session.RequestTurn(-turnStep)
		case 'e':
			a.session.RequestTurn(turnStep)
		case 't':
			a.toggleTour()
		}
	}
	return true
}

func (a *App) handleClick(col, row int) {
	x, z, ok := a.view().cellToWorld(col, row)
	if !ok {
		return
	}
	if a.touring {
		a.stop()
	}
	target := mgl64.Vec3{x, 0, z}
	switch {
	case a.session.Following():
		a.status = "already walking, Esc to stop"
	case !a.session.RequestMove(target):
		a.status = fmt.Sprintf("no route to (%.1f, %.1f)", x, z)
	default:
		a.status = fmt.Sprintf("walking to (%.1f, %.1f)", x, z)
	}
}

func (a *App) stop() {
	a.session.Stop()
	a.touring = false
	a.status = "stopped"
}

func (a *App) toggleTour() {
	if a.tour == nil {
		a.status = "no tour loaded"
		return
	}
	a.touring = !a.touring
	if a.touring {
		a.tour.Reset()
		a.status = "tour " + a.tour.Name()
		return
	}
	a.session.Stop()
	a.status = "tour stopped"
}

// Step advances the session by dt seconds and redraws.
func (a *App) Step(dt float64) {
	if a.touring && a.tour != nil {
		a.tour.Update(dt, a.session)
		if a.tour.Done() {
			a.touring = false
			a.status = "tour finished"
			log.Printf("tui: tour %s finished", a.tour.Name())
		}
	}
	a.session.Tick(dt)
	a.Draw()
}

func (a *App) view() view {
	w, h := a.screen.Size()
	return newView(a.session.Grid().Config(), w, h-statusRows)
}

var (
	floorStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	wallStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkGray)
	pathStyle    = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	avatarStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	statusStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	facingGlyphs = []rune{'^', '<', 'v', '>'}
)

// Draw renders the floor, walls, path and avatar.
func (a *App) Draw() {
	a.screen.Clear()
	v := a.view()
	grid := a.session.Grid()
	oracle := a.session.Oracle()

	for row := 0; row < v.rows; row++ {
		for col := 0; col < v.cols; col++ {
			x, z, ok := v.cellToWorld(col, row)
			if !ok {
				continue
			}
			cell := grid.WorldToGrid(x, z)
			switch {
			case !oracle.IsRegionClear(v.cellBounds(col, row)):
				a.screen.SetContent(col, row, '#', nil, wallStyle)
			case !grid.Walkable(cell.X, cell.Z):
				a.screen.SetContent(col, row, ':', nil, floorStyle)
			default:
				a.screen.SetContent(col, row, '.', nil, floorStyle)
			}
		}
	}

	for _, p := range a.session.Path() {
		if col, row, ok := v.worldToCell(p.X(), p.Z()); ok {
			a.screen.SetContent(col, row, '*', nil, pathStyle)
		}
	}

	pos := a.session.Position()
	if col, row, ok := v.worldToCell(pos.X(), pos.Z()); ok {
		a.screen.SetContent(col, row, facingGlyph(a.session.Facing()), nil, avatarStyle)
	}

	a.drawStatus(v.rows)
	a.screen.Show()
}

func (a *App) drawStatus(row int) {
	pos := a.session.Position()
	line := fmt.Sprintf("%s  (%.1f, %.1f)  %d waypoints", a.session.Mode(), pos.X(), pos.Z(), len(a.session.Path()))
	drawText(a.screen, 0, row, line, statusStyle)
	drawText(a.screen, 0, row+1, a.status, statusStyle)
}

func drawText(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

// facingGlyph picks the arrow closest to a facing angle. Facing 0 looks
// toward -z, which is up on screen.
func facingGlyph(facing float64) rune {
	quarter := int(math.Round(facing/(math.Pi/2))) % 4
	if quarter < 0 {
		quarter += 4
	}
	return facingGlyphs[quarter]
}
