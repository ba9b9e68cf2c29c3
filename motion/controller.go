package motion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/gallerywalk/common"
	"github.com/milk9111/gallerywalk/nav"
)

// Controller moves one avatar either along a planned path or by raw
// directional input. Walkability is a hard constraint on every step.
type Controller struct {
	settings Settings
	planner  Planner
	walk     nav.Walkability
	input    InputSource

	state    MotionState
	position mgl64.Vec3
	facing   float64
	clock    float64
}

func NewController(settings Settings, planner Planner, walk nav.Walkability, input InputSource) *Controller {
	return &Controller{
		settings: settings,
		planner:  planner,
		walk:     walk,
		input:    input,
	}
}

// Place teleports the avatar and drops any path in progress.
func (c *Controller) Place(position mgl64.Vec3, facing float64) {
	c.Stop()
	c.position = position
	c.facing = facing
	c.state.TargetFacing = facing
}

// Rewire swaps the planner and walkability after a layout rebuild.
func (c *Controller) Rewire(planner Planner, walk nav.Walkability) {
	c.planner = planner
	c.walk = walk
}

func (c *Controller) SetInput(input InputSource) { c.input = input }

func (c *Controller) Settings() Settings { return c.settings }

func (c *Controller) Position() mgl64.Vec3 { return c.position }

func (c *Controller) Facing() float64 { return c.facing }

func (c *Controller) Mode() Mode { return c.state.Mode() }

func (c *Controller) Following() bool { return c.state.IsFollowingPath }

// Clock returns the simulation time accumulated from Update.
func (c *Controller) Clock() float64 { return c.clock }

// State returns a copy of the motion state.
func (c *Controller) State() MotionState { return c.state.clone() }

// RequestMove plans a route to target and starts following it. It reports
// false when a path is already being followed or no route exists.
func (c *Controller) RequestMove(target mgl64.Vec3) bool {
	if c.state.IsFollowingPath || c.planner == nil {
		return false
	}
	target[1] = c.position.Y()

	path := c.planner.FindPath(c.position, target)
	if len(path) == 0 {
		return false
	}

	c.state.MoveTarget = target
	c.state.CurrentPath = path
	c.state.IsFollowingPath = true
	c.state.PathStartTime = c.clock
	return true
}

// RequestTurn rotates the desired facing by -delta radians in any mode.
func (c *Controller) RequestTurn(delta float64) {
	c.state.TargetFacing -= delta
}

// Stop abandons the current path and returns to FreeMove.
func (c *Controller) Stop() {
	c.state.IsFollowingPath = false
	c.state.CurrentPath = nil
	c.state.Velocity = mgl64.Vec3{}
}

// Update advances the controller by dt seconds. The caller clamps dt.
func (c *Controller) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	c.clock += dt

	if c.state.IsFollowingPath {
		c.followPath(dt)
	} else {
		c.freeMove(dt)
	}

	c.facing = c.state.TargetFacing
}

func (c *Controller) followPath(dt float64) {
	if len(c.state.CurrentPath) == 0 {
		c.Stop()
		return
	}

	elapsed := c.clock - c.state.PathStartTime
	target := c.state.CurrentPath[0]
	from := cp.Vector{X: c.position.X(), Y: c.position.Z()}
	delta := cp.Vector{X: target.X(), Y: target.Z()}.Sub(from)
	distance := delta.Length()

	var dir cp.Vector
	if distance > 0 {
		dir = delta.Mult(1 / distance)
		desired := math.Atan2(-dir.X, -dir.Y)
		diff := common.ShortestAngle(c.facing, desired)
		rate := c.settings.RotationSpeed * common.Progress(elapsed, c.settings.RotationAccelerationDuration) * dt
		c.state.TargetFacing = c.facing + diff*math.Min(rate, 1)
	}

	if distance > c.settings.ArrivalThreshold {
		ease := common.EaseInOutQuad(common.Progress(elapsed, c.settings.MovementAccelerationDuration))
		speed := math.Min(c.settings.MovementSpeed*ease*dt, distance)
		step := dir.Mult(speed)
		next := from.Add(step)
		c.state.Velocity = mgl64.Vec3{step.X, 0, step.Y}

		if c.walkable(next.X, next.Y) {
			c.position = mgl64.Vec3{next.X, c.position.Y(), next.Y}
			return
		}
		// Something appeared in the way; aim at the next waypoint instead.
		c.popWaypoint()
		if len(c.state.CurrentPath) == 0 {
			c.Stop()
		}
		return
	}

	c.popWaypoint()
	if len(c.state.CurrentPath) == 0 {
		c.Stop()
		return
	}
	c.state.PathStartTime = c.clock
}

func (c *Controller) popWaypoint() {
	c.state.CurrentPath = c.state.CurrentPath[1:]
}

func (c *Controller) freeMove(dt float64) {
	var controls Controls
	if c.input != nil {
		controls = c.input.Controls()
	}

	speed := c.settings.MovementSpeed * dt
	forward := cp.Vector{X: -math.Sin(c.facing), Y: -math.Cos(c.facing)}
	right := cp.Vector{X: -forward.Y, Y: forward.X}

	var velocity cp.Vector
	switch {
	case controls.HasJoystick():
		velocity = forward.Mult(-controls.Joystick.Y * speed).Add(right.Mult(controls.Joystick.X * speed))
	default:
		if controls.Forward {
			velocity = velocity.Add(forward.Mult(speed))
		}
		if controls.Backward {
			velocity = velocity.Sub(forward.Mult(speed))
		}
		if controls.Left {
			velocity = velocity.Sub(right.Mult(speed))
		}
		if controls.Right {
			velocity = velocity.Add(right.Mult(speed))
		}
	}

	if l := velocity.Length(); l > speed && l > 0 {
		velocity = velocity.Mult(speed / l)
	}
	c.state.Velocity = mgl64.Vec3{velocity.X, 0, velocity.Y}
	if velocity.X == 0 && velocity.Y == 0 {
		return
	}

	next := cp.Vector{X: c.position.X(), Y: c.position.Z()}.Add(velocity)
	if c.walkable(next.X, next.Y) {
		c.position = mgl64.Vec3{next.X, c.position.Y(), next.Y}
	}
}

func (c *Controller) walkable(x, z float64) bool {
	if c.walk == nil {
		return true
	}
	return c.walk.IsWalkable(x, z, c.settings.Radius)
}
