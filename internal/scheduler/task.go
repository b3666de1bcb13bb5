package scheduler

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Task is a one-shot deferred call holding a cancellation token. A cancelled
// task never runs its function, even if its timer has already fired.
type Task struct {
	id        string
	timer     Timer
	cancelled atomic.Bool
	done      atomic.Bool
}

// After schedules fn on clock after d. fn receives the task so it can check
// whether it is still the one its owner expects.
func After(clock Clock, d time.Duration, fn func(*Task)) *Task {
	t := &Task{id: uuid.NewString()}
	t.timer = clock.AfterFunc(d, func() {
		if t.cancelled.Load() {
			return
		}
		t.done.Store(true)
		fn(t)
	})
	return t
}

// ID is the token identifying this task.
func (t *Task) ID() string { return t.id }

// Cancel prevents the task from running. It reports whether the task was
// still pending.
func (t *Task) Cancel() bool {
	if t == nil {
		return false
	}
	wasPending := !t.cancelled.Swap(true) && !t.done.Load()
	t.timer.Stop()
	return wasPending
}

// Done reports whether the function ran.
func (t *Task) Done() bool { return t.done.Load() }
