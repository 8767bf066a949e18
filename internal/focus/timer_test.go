package focus

import "testing"

func TestNewTimerDefaults(t *testing.T) {
	timer := NewTimer(0, -1)
	if timer.WorkSec != 25*60 || timer.BreakSec != 5*60 || timer.Phase != PhaseWork {
		t.Fatalf("unexpected defaults: %+v", timer)
	}
	if timer.Clock() != "25:00" {
		t.Fatalf("unexpected clock %q", timer.Clock())
	}
}

func TestTimerRunsOutAndCreditsWorkPhase(t *testing.T) {
	timer := NewTimer(1, 1)
	if !timer.Start() {
		t.Fatal("expected idle timer to start")
	}
	if timer.Start() {
		t.Fatal("second start should report already running")
	}

	finished := false
	for i := 0; i < 60; i++ {
		finished = timer.Tick()
	}
	if !finished || timer.Running || timer.RemainingSec != 0 {
		t.Fatalf("expected work phase to finish, got %+v", timer)
	}
	if timer.Percent() != 1 {
		t.Fatalf("expected full progress, got %f", timer.Percent())
	}

	if credited := timer.CompletePhase(); credited != 1 {
		t.Fatalf("expected 1 credited minute, got %d", credited)
	}
	if timer.Phase != PhaseBreak || timer.RemainingSec != 60 || timer.CompletedPomodoros != 1 {
		t.Fatalf("expected break phase, got %+v", timer)
	}
	if credited := timer.CompletePhase(); credited != 0 {
		t.Fatalf("break must not credit focus time, got %d", credited)
	}
	if timer.Phase != PhaseWork {
		t.Fatalf("expected work phase again, got %s", timer.Phase)
	}
}

func TestTimerSkipCreditsElapsedWholeMinutes(t *testing.T) {
	timer := NewTimer(25, 5)
	timer.Start()
	for i := 0; i < 150; i++ {
		timer.Tick()
	}
	if credited := timer.CompletePhase(); credited != 2 {
		t.Fatalf("expected 2 minutes credited, got %d", credited)
	}

	fresh := NewTimer(25, 5)
	if credited := fresh.CompletePhase(); credited != 0 || fresh.CompletedPomodoros != 0 {
		t.Fatalf("skipping an unstarted block must credit nothing, got %d", credited)
	}
}

func TestTimerPauseAndReset(t *testing.T) {
	timer := NewTimer(1, 1)
	timer.Start()
	timer.Tick()
	timer.Pause()
	if timer.Tick() || timer.RemainingSec != 59 {
		t.Fatalf("paused timer must not advance: %+v", timer)
	}
	timer.Reset()
	if timer.Running || timer.RemainingSec != 60 {
		t.Fatalf("unexpected reset state: %+v", timer)
	}
}
