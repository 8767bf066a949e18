package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sandeepkv93/taskflow/internal/ai"
	"github.com/sandeepkv93/taskflow/internal/model"
)

var errRejectedPlan = errors.New("scheduler: rejected ai plan")

// Scheduler is the AI side of planning.
type Scheduler interface {
	Schedule(ctx context.Context, req ai.ScheduleRequest) (ai.ScheduleResponse, error)
}

// Planner asks the AI scheduler first and substitutes Fallback on any error or
// implausible reply. Plan never fails.
type Planner struct {
	ai     Scheduler
	logger *zap.Logger
}

func NewPlanner(s Scheduler, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{ai: s, logger: logger}
}

// Plan schedules the incomplete tasks, highest priority first.
func (p *Planner) Plan(ctx context.Context, tasks []model.Task) []model.ScheduleItem {
	ordered := SortByPriority(tasks)
	if len(ordered) == 0 {
		return []model.ScheduleItem{}
	}
	if p.ai == nil {
		return Fallback(ordered)
	}

	resp, err := p.ai.Schedule(ctx, buildRequest(ordered))
	if err == nil {
		err = validatePlan(resp)
	}
	if err != nil {
		p.logger.Warn("ai schedule unavailable, using fallback", zap.Error(err), zap.Int("tasks", len(ordered)))
		return Fallback(ordered)
	}
	return resp.Schedule
}

func buildRequest(tasks []model.Task) ai.ScheduleRequest {
	req := ai.ScheduleRequest{Tasks: make([]ai.ScheduleTask, 0, len(tasks))}
	for _, t := range tasks {
		st := ai.ScheduleTask{Title: t.Title, Priority: string(t.Priority), Category: t.Category}
		if t.DueDate != nil {
			st.DueDate = t.DueDate.Format("2006-01-02")
		}
		req.Tasks = append(req.Tasks, st)
	}
	return req
}

func validatePlan(resp ai.ScheduleResponse) error {
	if !resp.Success || len(resp.Schedule) == 0 {
		return fmt.Errorf("%w: empty schedule", errRejectedPlan)
	}
	for i, it := range resp.Schedule {
		if strings.TrimSpace(it.Task) == "" || strings.TrimSpace(it.StartTime) == "" {
			return fmt.Errorf("%w: item %d missing task or start time", errRejectedPlan, i)
		}
		if it.Duration <= 0 {
			return fmt.Errorf("%w: item %d has non-positive duration", errRejectedPlan, i)
		}
		if !it.Priority.IsValid() {
			return fmt.Errorf("%w: item %d has priority %q", errRejectedPlan, i, it.Priority)
		}
	}
	if total := TotalHours(resp.Schedule); total > MaxDayHours {
		return fmt.Errorf("%w: %.2f hours exceeds %.0f", errRejectedPlan, total, MaxDayHours)
	}
	return nil
}
