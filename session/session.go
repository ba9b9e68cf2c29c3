package session

import (
	"fmt"
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/gallerywalk/levels"
	"github.com/milk9111/gallerywalk/motion"
	"github.com/milk9111/gallerywalk/nav"
	"github.com/milk9111/gallerywalk/prefabs"
)

// Session owns one avatar walking one layout. It is driven from a single
// frame loop and is not safe for concurrent use.
type Session struct {
	spec  prefabs.AvatarSpec
	level *levels.Level
	input motion.InputSource

	oracle  *nav.Oracle
	grid    *nav.Grid
	planner *nav.Planner
	ctl     *motion.Controller
}

func New(spec prefabs.AvatarSpec, input motion.InputSource) *Session {
	s := &Session{spec: spec, input: input}
	s.ctl = motion.NewController(ControllerSettings(spec), nil, nil, input)
	return s
}

// ControllerSettings maps avatar settings onto the motion controller.
func ControllerSettings(spec prefabs.AvatarSpec) motion.Settings {
	return motion.Settings{
		Radius:                       spec.Radius,
		MovementSpeed:                spec.MovementSpeed,
		RotationSpeed:                spec.RotationSpeed,
		MovementAccelerationDuration: spec.MovementAccelerationDuration,
		RotationAccelerationDuration: spec.RotationAccelerationDuration,
		ArrivalThreshold:             spec.ArrivalThreshold,
	}
}

// GridConfig maps avatar settings onto the navigation grid.
func GridConfig(spec prefabs.AvatarSpec) nav.GridConfig {
	n := spec.Navigation
	return nav.GridConfig{
		OriginX:   n.OriginX,
		OriginZ:   n.OriginZ,
		Width:     n.Width,
		Length:    n.Length,
		CellSize:  n.CellSize,
		Clearance: spec.Clearance(),
	}
}

func PlannerConfig(spec prefabs.AvatarSpec) nav.PlannerConfig {
	return nav.PlannerConfig{
		Clearance:     spec.Clearance(),
		SampleStep:    spec.Navigation.SampleStep,
		RecoveryRings: spec.Navigation.RecoveryRings,
	}
}

// BuildGrid indexes obstacles and samples a fresh grid. Any path in progress
// is dropped; the avatar keeps its position.
func (s *Session) BuildGrid(obstacles []nav.Obstacle) {
	started := time.Now()
	n := s.spec.Navigation
	s.oracle = nav.NewOracle(obstacles, n.ProbeHeight, n.ProbeHalfHeight)
	s.grid = nav.NewGrid(GridConfig(s.spec), s.oracle)
	s.planner = nav.NewPlanner(s.grid, s.oracle, PlannerConfig(s.spec))

	s.ctl.Stop()
	s.ctl.Rewire(s.planner, s.oracle)

	log.Printf("session: grid %dx%d built, %d/%d cells walkable, %d obstacles (%s)",
		s.grid.Width(), s.grid.Height(), s.grid.WalkableCount(), s.grid.Width()*s.grid.Height(),
		len(obstacles), time.Since(started).Round(time.Microsecond))
}

// LoadLevel builds the grid for lvl and places the avatar at its spawn.
func (s *Session) LoadLevel(lvl *levels.Level) {
	s.level = lvl
	s.BuildGrid(lvl.Obstacles())
	s.ctl.Place(lvl.SpawnPoint(s.spec.EyeHeight), lvl.SpawnFacing)
}

// InjectObstacle adds an obstacle without re-sampling the grid. Planning keeps
// using the old grid; per-step walkability sees the new obstacle at once.
func (s *Session) InjectObstacle(obs nav.Obstacle) {
	if s.oracle == nil {
		s.BuildGrid([]nav.Obstacle{obs})
		return
	}
	s.oracle.Add(obs)
}

// RequestMove asks the avatar to walk to target. It reports false when a walk
// is already in progress, no grid is built, or no route exists.
func (s *Session) RequestMove(target mgl64.Vec3) bool {
	if s.planner == nil {
		return false
	}
	if s.ctl.Following() {
		log.Printf("session: move to (%.2f, %.2f) ignored, already walking", target.X(), target.Z())
		return false
	}
	if !s.ctl.RequestMove(target) {
		log.Printf("session: no route to (%.2f, %.2f)", target.X(), target.Z())
		return false
	}
	return true
}

func (s *Session) RequestTurn(delta float64) { s.ctl.RequestTurn(delta) }

func (s *Session) Stop() { s.ctl.Stop() }

// Tick advances the avatar by dt seconds, clamped to the configured maximum.
func (s *Session) Tick(dt float64) {
	if dt > s.spec.MaxDeltaTime {
		dt = s.spec.MaxDeltaTime
	}
	if dt < 0 {
		dt = 0
	}
	s.ctl.Update(dt)
}

// Plan runs the planner without touching the avatar.
func (s *Session) Plan(from, to mgl64.Vec3) []mgl64.Vec3 {
	if s.planner == nil {
		return nil
	}
	return s.planner.FindPath(from, to)
}

// Reload applies an edited settings or layout file. Changes to other files
// are ignored.
func (s *Session) Reload(change prefabs.Change) error {
	if change.Kind != prefabs.SpecChange {
		return nil
	}
	switch base := change.Base(); {
	case base == "avatar.yaml":
		spec, err := prefabs.LoadAvatarSpec()
		if err != nil {
			return fmt.Errorf("session: reload %s: %w", base, err)
		}
		s.ApplySpec(*spec)
	case s.level != nil && base == levels.FileName(s.level.Name):
		lvl, err := levels.Load(s.level.Name)
		if err != nil {
			return fmt.Errorf("session: reload %s: %w", base, err)
		}
		s.level = lvl
		s.rebuildKeepingAvatar()
	default:
		return nil
	}
	log.Printf("session: reloaded %s", change.Base())
	return nil
}

// ApplySpec swaps avatar settings and rebuilds the grid around the current
// layout.
func (s *Session) ApplySpec(spec prefabs.AvatarSpec) {
	pos, facing := s.ctl.Position(), s.ctl.Facing()
	s.spec = spec
	s.ctl = motion.NewController(ControllerSettings(spec), nil, nil, s.input)
	s.ctl.Place(pos, facing)
	s.rebuildKeepingAvatar()
}

func (s *Session) rebuildKeepingAvatar() {
	var obstacles []nav.Obstacle
	if s.level != nil {
		obstacles = s.level.Obstacles()
	} else if s.oracle != nil {
		obstacles = s.oracle.Obstacles()
	}
	s.BuildGrid(obstacles)

	pos := s.ctl.Position()
	if s.oracle.IsWalkable(pos.X(), pos.Z(), s.spec.Radius) {
		return
	}
	if moved, ok := s.planner.NearestWalkable(pos); ok {
		s.ctl.Place(moved, s.ctl.Facing())
		return
	}
	if s.level != nil {
		s.ctl.Place(s.level.SpawnPoint(s.spec.EyeHeight), s.level.SpawnFacing)
	}
}

// SetInput replaces the directional input source.
func (s *Session) SetInput(input motion.InputSource) {
	s.input = input
	s.ctl.SetInput(input)
}

func (s *Session) Spec() prefabs.AvatarSpec { return s.spec }

func (s *Session) Level() *levels.Level { return s.level }

func (s *Session) Grid() *nav.Grid { return s.grid }

func (s *Session) Oracle() *nav.Oracle { return s.oracle }

func (s *Session) Planner() *nav.Planner { return s.planner }

func (s *Session) Position() mgl64.Vec3 { return s.ctl.Position() }

func (s *Session) Facing() float64 { return s.ctl.Facing() }

func (s *Session) Mode() motion.Mode { return s.ctl.Mode() }

func (s *Session) Following() bool { return s.ctl.Following() }

func (s *Session) State() motion.MotionState { return s.ctl.State() }

// Path returns the waypoints still ahead of the avatar.
func (s *Session) Path() []mgl64.Vec3 { return s.ctl.State().CurrentPath }

// Place teleports the avatar.
func (s *Session) Place(pos mgl64.Vec3, facing float64) { s.ctl.Place(pos, facing) }
