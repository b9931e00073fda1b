package game

import "time"

// Task is a callback owned by a Scheduler. Periodic tasks fire until cancelled;
// one-shot tasks cancel themselves after firing.
type Task struct {
	seq       uint64
	due       time.Duration
	period    time.Duration // 0 for one-shot
	fn        func()
	cancelled bool
	owner     *Scheduler
}

// Cancel stops the task. Safe on nil and on already-finished tasks.
func (t *Task) Cancel() {
	if t == nil || t.cancelled {
		return
	}
	t.cancelled = true
	t.owner.remove(t)
}

// Active reports whether the task will still fire.
func (t *Task) Active() bool {
	return t != nil && !t.cancelled
}

// Scheduler runs tasks against a virtual clock that only moves on Advance.
// It is not safe for concurrent use; the caller owns the goroutine.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	tasks []*Task
}

// NewScheduler creates a scheduler at virtual time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of live tasks.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Every schedules fn to run every period, first at now+period.
func (s *Scheduler) Every(period time.Duration, fn func()) *Task {
	if period <= 0 {
		period = time.Nanosecond
	}
	return s.add(period, period, fn)
}

// After schedules fn to run once at now+delay.
func (s *Scheduler) After(delay time.Duration, fn func()) *Task {
	if delay < 0 {
		delay = 0
	}
	return s.add(delay, 0, fn)
}

func (s *Scheduler) add(delay, period time.Duration, fn func()) *Task {
	s.seq++
	t := &Task{
		seq:    s.seq,
		due:    s.now + delay,
		period: period,
		fn:     fn,
		owner:  s,
	}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves the clock forward by dt, firing every task that falls due in
// chronological order. Ties fire in creation order. A callback may schedule or
// cancel tasks; the change is seen by the next firing in the same call.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	target := s.now + dt
	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.now = next.due
		if next.period > 0 {
			next.due += next.period
		} else {
			next.cancelled = true
			s.remove(next)
		}
		next.fn()
	}
	s.now = target
}

// CancelAll cancels every task.
func (s *Scheduler) CancelAll() {
	for _, t := range s.tasks {
		t.cancelled = true
	}
	clear(s.tasks)
	s.tasks = s.tasks[:0]
}

func (s *Scheduler) nextDue(limit time.Duration) *Task {
	var best *Task
	for _, t := range s.tasks {
		if t.due > limit {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (s *Scheduler) remove(t *Task) {
	kept := s.tasks[:0]
	for _, other := range s.tasks {
		if other != t {
			kept = append(kept, other)
		}
	}
	clear(s.tasks[len(kept):])
	s.tasks = kept
}
