package viewer

// System is one per-frame step of the viewer.
type System interface {
	Update(g *Game)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(g *Game)

func (f SystemFunc) Update(g *Game) { f(g) }

// Scheduler runs systems in the order they were added.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(g *Game) {
	for _, system := range s.systems {
		system.Update(g)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
