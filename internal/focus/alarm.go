package focus

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidDueTime = errors.New("focus: invalid due time")
	ErrAlarmStopped   = errors.New("focus: alarm stopped")
)

// PhaseDue fires when a server-side focus session reaches its deadline.
type PhaseDue struct {
	SessionID string
	TaskID    string
	Phase     Phase
	Minutes   int
	DueAt     time.Time
}

type alarmQueue []PhaseDue

func (q alarmQueue) Len() int { return len(q) }

func (q alarmQueue) Less(i, j int) bool { return q[i].DueAt.Before(q[j].DueAt) }

func (q alarmQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *alarmQueue) Push(x any) { *q = append(*q, x.(PhaseDue)) }

func (q *alarmQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Alarm delivers PhaseDue events in deadline order on C. Delivery never blocks
// the loop: when the buffer is full the event is counted in Dropped.
type Alarm struct {
	mu      sync.Mutex
	queue   alarmQueue
	out     chan PhaseDue
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewAlarm(bufferSize int) *Alarm {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Alarm{
		out:    make(chan PhaseDue, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (a *Alarm) C() <-chan PhaseDue {
	return a.out
}

func (a *Alarm) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return
	}
	a.started = true
	heap.Init(&a.queue)
	go a.loop()
}

// Stop halts the loop and closes C. Pending deadlines are discarded.
func (a *Alarm) Stop() {
	a.mu.Lock()
	if !a.started || a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	close(a.stopCh)
	a.mu.Unlock()
	<-a.doneCh
}

func (a *Alarm) Schedule(ev PhaseDue) error {
	if ev.DueAt.IsZero() {
		return ErrInvalidDueTime
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return ErrAlarmStopped
	}
	heap.Push(&a.queue, ev)
	a.signalWakeup()
	return nil
}

// Cancel drops a pending session and reports whether it was found.
func (a *Alarm) Cancel(sessionID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.queue {
		if a.queue[i].SessionID == sessionID {
			heap.Remove(&a.queue, i)
			a.signalWakeup()
			return true
		}
	}
	return false
}

func (a *Alarm) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.queue)
}

func (a *Alarm) Dropped() uint64 {
	return atomic.LoadUint64(&a.dropped)
}

func (a *Alarm) loop() {
	defer close(a.doneCh)
	defer close(a.out)

	var timer *time.Timer
	for {
		next, ok := a.peek()
		if !ok {
			select {
			case <-a.wakeup:
				continue
			case <-a.stopCh:
				return
			}
		}

		wait := time.Until(next.DueAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, ev := range a.popDue(time.Now()) {
				select {
				case a.out <- ev:
				default:
					atomic.AddUint64(&a.dropped, 1)
				}
			}
		case <-a.wakeup:
			continue
		case <-a.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (a *Alarm) signalWakeup() {
	select {
	case a.wakeup <- struct{}{}:
	default:
	}
}

func (a *Alarm) peek() (PhaseDue, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.queue) == 0 {
		return PhaseDue{}, false
	}
	return a.queue[0], true
}

func (a *Alarm) popDue(now time.Time) []PhaseDue {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []PhaseDue
	for len(a.queue) > 0 && !a.queue[0].DueAt.After(now) {
		out = append(out, heap.Pop(&a.queue).(PhaseDue))
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
