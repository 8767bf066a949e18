package scheduler

import (
	"context"
	"testing"

	"github.com/sandeepkv93/taskflow/internal/ai"
	"github.com/sandeepkv93/taskflow/internal/model"
)

type fakeScheduler struct {
	resp ai.ScheduleResponse
	err  error
	got  ai.ScheduleRequest
}

func (f *fakeScheduler) Schedule(_ context.Context, req ai.ScheduleRequest) (ai.ScheduleResponse, error) {
	f.got = req
	return f.resp, f.err
}

func aiItem(task string, hours float64, p model.Priority) model.ScheduleItem {
	return model.ScheduleItem{Task: task, StartTime: "9:00 AM", Duration: hours, Priority: p, Source: model.ScheduleSourceAI}
}

func TestPlannerUsesValidAIPlan(t *testing.T) {
	fake := &fakeScheduler{resp: ai.ScheduleResponse{Success: true, Schedule: []model.ScheduleItem{
		aiItem("Task number 1", 3, model.PriorityHigh),
		aiItem("Task number 0", 1, model.PriorityLow),
	}}}
	items := NewPlanner(fake, nil).Plan(context.Background(), makeTasks(model.PriorityLow, model.PriorityHigh))

	if len(items) != 2 || items[0].Source != model.ScheduleSourceAI {
		t.Fatalf("expected AI plan, got %+v", items)
	}
	if len(fake.got.Tasks) != 2 || fake.got.Tasks[0].Title != "Task number 1" {
		t.Fatalf("expected priority-ordered request, got %+v", fake.got.Tasks)
	}
}

func TestPlannerFallsBack(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeScheduler
	}{
		{name: "collaborator error", fake: &fakeScheduler{err: ai.ErrUnavailable}},
		{name: "empty plan", fake: &fakeScheduler{resp: ai.ScheduleResponse{Success: true}}},
		{name: "over eight hours", fake: &fakeScheduler{resp: ai.ScheduleResponse{Success: true, Schedule: []model.ScheduleItem{
			aiItem("Task number 0", 5, model.PriorityHigh),
			aiItem("Task number 1", 3.5, model.PriorityHigh),
		}}}},
		{name: "unknown priority", fake: &fakeScheduler{resp: ai.ScheduleResponse{Success: true, Schedule: []model.ScheduleItem{
			aiItem("Task number 0", 1, "urgent"),
		}}}},
		{name: "zero duration", fake: &fakeScheduler{resp: ai.ScheduleResponse{Success: true, Schedule: []model.ScheduleItem{
			aiItem("Task number 0", 0, model.PriorityLow),
		}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items := NewPlanner(tc.fake, nil).Plan(context.Background(), makeTasks(model.PriorityHigh, model.PriorityLow))
			if len(items) != 2 || items[0].Source != model.ScheduleSourceFallback {
				t.Fatalf("expected fallback plan, got %+v", items)
			}
		})
	}
}

func TestPlannerWithoutCollaborator(t *testing.T) {
	items := NewPlanner(nil, nil).Plan(context.Background(), makeTasks(model.PriorityMedium))
	if len(items) != 1 || items[0].Source != model.ScheduleSourceFallback {
		t.Fatalf("expected fallback plan, got %+v", items)
	}
	if got := NewPlanner(nil, nil).Plan(context.Background(), nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil plan, got %v", got)
	}
}
