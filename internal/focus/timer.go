// Package focus implements the pomodoro timer and a deadline alarm for
// server-side focus sessions.
package focus

import "fmt"

type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

// Timer is a value-type pomodoro state machine advanced one second per Tick.
type Timer struct {
	Phase              Phase
	WorkSec            int
	BreakSec           int
	RemainingSec       int
	Running            bool
	CompletedPomodoros int
	TaskID             string
	TaskTitle          string
}

func NewTimer(workMinutes, breakMinutes int) Timer {
	if workMinutes <= 0 {
		workMinutes = 25
	}
	if breakMinutes <= 0 {
		breakMinutes = 5
	}
	return Timer{
		Phase:        PhaseWork,
		WorkSec:      workMinutes * 60,
		BreakSec:     breakMinutes * 60,
		RemainingSec: workMinutes * 60,
	}
}

// Total is the length of the current phase in seconds.
func (t Timer) Total() int {
	if t.Phase == PhaseBreak {
		return t.BreakSec
	}
	return t.WorkSec
}

// Start resumes the timer, refilling an exhausted phase. It reports whether the
// timer was idle before the call.
func (t *Timer) Start() bool {
	if t.Running {
		return false
	}
	if t.RemainingSec <= 0 {
		t.RemainingSec = t.Total()
	}
	t.Running = true
	return true
}

func (t *Timer) Pause() {
	t.Running = false
}

func (t *Timer) Reset() {
	t.Running = false
	t.RemainingSec = t.Total()
}

// Tick advances a running timer by one second and reports whether the phase
// just ran out.
func (t *Timer) Tick() bool {
	if !t.Running {
		return false
	}
	if t.RemainingSec > 0 {
		t.RemainingSec--
	}
	if t.RemainingSec == 0 {
		t.Running = false
		return true
	}
	return false
}

// CompletePhase moves to the next phase and returns the focus minutes to credit:
// whole minutes elapsed in a work phase, zero for a break.
func (t *Timer) CompletePhase() int {
	if t.Phase == PhaseWork {
		credited := (t.WorkSec - t.RemainingSec) / 60
		if credited > 0 {
			t.CompletedPomodoros++
		}
		t.Phase = PhaseBreak
		t.RemainingSec = t.BreakSec
		t.Running = false
		return credited
	}
	t.Phase = PhaseWork
	t.RemainingSec = t.WorkSec
	t.Running = false
	return 0
}

// Percent is the elapsed fraction of the current phase in [0,1].
func (t Timer) Percent() float64 {
	total := t.Total()
	if total <= 0 {
		return 0
	}
	return float64(total-t.RemainingSec) / float64(total)
}

func (t Timer) Clock() string {
	rem := t.RemainingSec
	if rem < 0 {
		rem = 0
	}
	return fmt.Sprintf("%02d:%02d", rem/60, rem%60)
}
