package motion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

type Mode int

const (
	FreeMove Mode = iota
	PathFollowing
)

func (m Mode) String() string {
	switch m {
	case FreeMove:
		return "free_move"
	case PathFollowing:
		return "path_following"
	default:
		return "unknown"
	}
}

// MotionState is the controller's mutable per-session state. Times are
// simulation seconds accumulated from Update deltas.
type MotionState struct {
	IsFollowingPath bool
	CurrentPath     []mgl64.Vec3
	MoveTarget      mgl64.Vec3
	Velocity        mgl64.Vec3
	TargetFacing    float64
	PathStartTime   float64
}

func (s MotionState) Mode() Mode {
	if s.IsFollowingPath {
		return PathFollowing
	}
	return FreeMove
}

func (s MotionState) clone() MotionState {
	s.CurrentPath = append([]mgl64.Vec3(nil), s.CurrentPath...)
	return s
}

// Controls is one frame of directional intent. Joystick uses screen axes:
// X is right and negative Y is forward. A non-zero joystick wins over keys.
type Controls struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Joystick cp.Vector
}

func (c Controls) HasJoystick() bool {
	return c.Joystick.X != 0 || c.Joystick.Y != 0
}

func (c Controls) Any() bool {
	return c.HasJoystick() || c.Forward || c.Backward || c.Left || c.Right
}

// InputSource supplies the latest directional intent each frame.
type InputSource interface {
	Controls() Controls
}

// InputFunc adapts a function to InputSource.
type InputFunc func() Controls

func (f InputFunc) Controls() Controls { return f() }

// Planner produces a waypoint path or nil when the target is unreachable.
type Planner interface {
	FindPath(start, target mgl64.Vec3) []mgl64.Vec3
}

type Settings struct {
	// Radius is the bare avatar radius used for per-step walkability.
	Radius                       float64
	MovementSpeed                float64
	RotationSpeed                float64
	MovementAccelerationDuration float64
	RotationAccelerationDuration float64
	ArrivalThreshold             float64
}
