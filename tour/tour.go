package tour

import (
	"errors"
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/gallerywalk/prefabs"
)

var ErrNoStops = errors.New("tour: script defines no stops")

// Stop is one point of interest on a tour.
type Stop struct {
	Name  string  `yaml:"name"`
	X     float64 `yaml:"x"`
	Z     float64 `yaml:"z"`
	Dwell float64 `yaml:"dwell"`
}

func (s Stop) Point() mgl64.Vec3 {
	return mgl64.Vec3{s.X, 0, s.Z}
}

// Mover is the part of a navigation session a tour drives.
type Mover interface {
	RequestMove(target mgl64.Vec3) bool
	Following() bool
}

type phase int

const (
	phaseIdle phase = iota
	phaseWalking
	phaseDwelling
	phaseDone
)

// Tour walks a Mover through a list of stops, waiting for each walk to end
// and lingering for the stop's dwell time before requesting the next one.
// Unreachable stops are skipped.
type Tour struct {
	name  string
	stops []Stop
	loop  bool

	next  int
	phase phase
	wait  float64
}

func New(name string, stops []Stop, loop bool) *Tour {
	t := &Tour{name: name, stops: append([]Stop(nil), stops...), loop: loop}
	if len(t.stops) == 0 {
		t.phase = phaseDone
	}
	return t
}

// Load compiles prefabs/scripts/<name>.
func Load(name string) (*Tour, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("tour: load %s: %w", name, err)
	}
	return Compile(name, src)
}

// Compile runs a tour script once. The script must define a `stops` array of
// maps with name, x, z and dwell keys and may define a boolean `loop`.
func Compile(name string, src []byte) (*Tour, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("tour: compile %s: %w", name, err)
	}
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("tour: run %s: %w", name, err)
	}

	if !compiled.IsDefined("stops") {
		return nil, fmt.Errorf("%w: %s", ErrNoStops, name)
	}
	stops, err := prefabs.DecodeSpec[[]Stop](compiled.Get("stops").Value())
	if err != nil {
		return nil, fmt.Errorf("tour: decode stops in %s: %w", name, err)
	}
	if len(stops) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoStops, name)
	}

	loop := false
	if compiled.IsDefined("loop") {
		loop = compiled.Get("loop").Bool()
	}
	return New(name, stops, loop), nil
}

func (t *Tour) Name() string { return t.name }

func (t *Tour) Stops() []Stop { return append([]Stop(nil), t.stops...) }

func (t *Tour) Loop() bool { return t.loop }

func (t *Tour) Done() bool { return t.phase == phaseDone }

// Current returns the stop being walked to or lingered at.
func (t *Tour) Current() (Stop, bool) {
	if t.phase != phaseWalking && t.phase != phaseDwelling {
		return Stop{}, false
	}
	return t.stops[t.next], true
}

// Reset starts the tour over from the first stop.
func (t *Tour) Reset() {
	t.next = 0
	t.wait = 0
	t.phase = phaseIdle
	if len(t.stops) == 0 {
		t.phase = phaseDone
	}
}

// Update advances the tour by dt seconds. It never interrupts a walk the
// mover is already making.
func (t *Tour) Update(dt float64, m Mover) {
	switch t.phase {
	case phaseDone:
		return
	case phaseIdle:
		if m.Following() {
			return
		}
		stop := t.stops[t.next]
		if !m.RequestMove(stop.Point()) {
			log.Printf("tour: %s: stop %q unreachable, skipping", t.name, stop.Name)
			t.advance()
			return
		}
		t.phase = phaseWalking
	case phaseWalking:
		if m.Following() {
			return
		}
		t.phase = phaseDwelling
		t.wait = t.stops[t.next].Dwell
	case phaseDwelling:
		t.wait -= dt
		if t.wait > 0 {
			return
		}
		t.advance()
	}
}

func (t *Tour) advance() {
	t.next++
	t.phase = phaseIdle
	if t.next < len(t.stops) {
		return
	}
	if t.loop {
		t.next = 0
		return
	}
	t.next = len(t.stops) - 1
	t.phase = phaseDone
}
