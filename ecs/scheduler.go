package ecs

// System updates a world once per frame.
type System interface {
	Update(w *World)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(w *World)

func (f SystemFunc) Update(w *World) {
	f(w)
}

// Scheduler runs systems in registration order. Camera tracking reads target
// transforms, so it should be added after anything that moves targets.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, sys := range systems {
		s.Add(sys)
	}
	return s
}

func (s *Scheduler) Add(sys System) {
	if sys == nil {
		return
	}
	s.systems = append(s.systems, sys)
}

func (s *Scheduler) Update(w *World) {
	for _, sys := range s.systems {
		sys.Update(w)
	}
}

// Run calls Update frames times.
func (s *Scheduler) Run(w *World, frames int) {
	for i := 0; i < frames; i++ {
		s.Update(w)
	}
}

func (s *Scheduler) Len() int {
	return len(s.systems)
}
