package rally

// Tick rate of the client shell. All delays are expressed in ticks.
const TicksPerSecond = 60

// task is one pending scheduled callback.
type task struct {
	due uint64
	gen uint64
	fn  func()
}

// Scheduler runs callbacks after a tick delay. Tasks carry the generation
// current when they were scheduled; Invalidate bumps the generation so
// already-scheduled tasks become no-ops. This is how closing the guide
// modal mid-step keeps a pending media timer from mutating a modal that is
// no longer visible.
type Scheduler struct {
	ticks uint64
	gen   uint64
	tasks []task
}

// Ticks returns the number of ticks elapsed.
func (s *Scheduler) Ticks() uint64 { return s.ticks }

// After schedules fn to run delay ticks from now.
func (s *Scheduler) After(delay uint64, fn func()) {
	s.tasks = append(s.tasks, task{due: s.ticks + delay, gen: s.gen, fn: fn})
}

// Invalidate cancels all pending tasks.
func (s *Scheduler) Invalidate() { s.gen++ }

// Tick advances time by one tick and runs any due, still-valid tasks.
func (s *Scheduler) Tick() {
	s.ticks++
	remaining := s.tasks[:0]
	var due []func()
	for _, t := range s.tasks {
		switch {
		case t.gen != s.gen:
			// stale generation, drop
		case t.due <= s.ticks:
			due = append(due, t.fn)
		default:
			remaining = append(remaining, t)
		}
	}
	s.tasks = remaining
	for _, fn := range due {
		fn()
	}
}
