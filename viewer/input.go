package viewer

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/gallerywalk/motion"
)

const (
	// A press that moves less than this many pixels and is released within
	// clickTimeout is a click; anything else is a drag.
	dragThreshold = 5.0
	clickTimeout  = 200 * time.Millisecond

	stickDeadzone = 0.2
)

// pointer tells clicks from drags on the primary button.
type pointer struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	distance float64
	started  time.Time
}

func (p *pointer) press(x, y float64, now time.Time) {
	*p = pointer{down: true, startX: x, startY: y, lastX: x, started: now}
}

// move returns the horizontal drag delta in pixels since the last call.
func (p *pointer) move(x, y float64) float64 {
	if !p.down {
		return 0
	}
	dx := x - p.lastX
	p.lastX = x
	p.distance = math.Max(p.distance, math.Hypot(x-p.startX, y-p.startY))
	return dx
}

// release reports whether the press counts as a click.
func (p *pointer) release(now time.Time) bool {
	if !p.down {
		return false
	}
	p.down = false
	return p.distance < dragThreshold && now.Sub(p.started) < clickTimeout
}

// Input polls keyboard, mouse and the first gamepad once per frame. It is
// the avatar's motion.InputSource and also collects one-shot commands.
type Input struct {
	camera    *Camera
	turnSpeed float64
	dragTurn  float64

	controls motion.Controls
	pointer  pointer

	// Click is set on the frame a click lands on the floor.
	Click    bool
	ClickX   float64
	ClickZ   float64
	Turn     float64
	Stop     bool
	Tour     bool
	Copy     bool
	Grid     bool
	Rebuild  bool
	Obstacle bool
	Quit     bool
}

func NewInput(camera *Camera, turnSpeed, dragTurn float64) *Input {
	return &Input{camera: camera, turnSpeed: turnSpeed, dragTurn: dragTurn}
}

func (i *Input) Controls() motion.Controls {
	return i.controls
}

// Update polls devices. dt scales held-key turning.
func (i *Input) Update(dt float64) {
	i.Click = false
	i.Turn = 0

	i.controls = motion.Controls{
		Forward:  ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Backward: ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:     ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:    ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	}

	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		i.Turn -= i.turnSpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		i.Turn += i.turnSpeed * dt
	}

	i.Stop = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	i.Tour = inpututil.IsKeyJustPressed(ebiten.KeyT)
	i.Copy = inpututil.IsKeyJustPressed(ebiten.KeyC)
	i.Grid = inpututil.IsKeyJustPressed(ebiten.KeyG)
	i.Rebuild = inpututil.IsKeyJustPressed(ebiten.KeyR)
	i.Obstacle = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	i.Quit = inpututil.IsKeyJustPressed(ebiten.KeyF12)

	i.updatePointer()
	i.updateGamepad(dt)
}

func (i *Input) updatePointer() {
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)
	now := time.Now()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && i.camera.OnFloor(x, y) {
		i.pointer.press(x, y, now)
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		i.Turn += i.pointer.move(x, y) * i.dragTurn
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && i.pointer.release(now) {
		i.Click = true
		i.ClickX, i.ClickZ = i.camera.ScreenToWorld(i.pointer.startX, i.pointer.startY)
	}

	// The obstacle tool drops a box under the cursor.
	if i.Obstacle {
		i.ClickX, i.ClickZ = i.camera.ScreenToWorld(x, y)
		i.Obstacle = i.camera.OnFloor(x, y)
	}
}

func (i *Input) updateGamepad(dt float64) {
	ids := ebiten.GamepadIDs()
	if len(ids) == 0 {
		return
	}
	gid := ids[0]
	if !ebiten.IsStandardGamepadLayoutAvailable(gid) {
		return
	}

	stick := cp.Vector{
		X: deadzone(ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)),
		Y: deadzone(ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)),
	}
	i.controls.Joystick = stick

	i.Turn += deadzone(ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisRightStickHorizontal)) * i.turnSpeed * dt

	if inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightRight) {
		i.Stop = true
	}
	if inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight) {
		i.Tour = true
	}
}

func deadzone(v float64) float64 {
	if math.Abs(v) < stickDeadzone {
		return 0
	}
	return v
}
