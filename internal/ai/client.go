package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sandeepkv93/taskflow/internal/model"
	"github.com/sandeepkv93/taskflow/internal/quality"
)

type BreakdownRequest struct {
	TaskTitle       string `json:"task_title"`
	TaskDescription string `json:"task_description"`
}

type BreakdownResponse struct {
	Success  bool     `json:"success"`
	Subtasks []string `json:"subtasks"`
}

type ScheduleTask struct {
	Title    string `json:"title"`
	Priority string `json:"priority"`
	Category string `json:"category"`
	DueDate  string `json:"dueDate,omitempty"`
}

type ScheduleRequest struct {
	Tasks []ScheduleTask `json:"tasks"`
}

type ScheduleResponse struct {
	Success  bool
	Schedule []model.ScheduleItem
}

type scheduleEntry struct {
	Task      string  `json:"task"`
	StartTime string  `json:"startTime"`
	Duration  float64 `json:"duration"`
	Priority  string  `json:"priority"`
	Reasoning string  `json:"reasoning"`
}

// Client builds prompts for the collaborator and parses its replies. A nil
// provider behaves as permanently unavailable.
type Client struct {
	provider Provider
	logger   *zap.Logger
}

func NewClient(provider Provider, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{provider: provider, logger: logger}
}

// Breakdown asks for subtasks and keeps only lines that pass the title gate.
// On any failure the response is unsuccessful with no subtasks.
func (c *Client) Breakdown(ctx context.Context, req BreakdownRequest) (BreakdownResponse, error) {
	text, err := c.generate(ctx, breakdownPrompt(req))
	if err != nil {
		return BreakdownResponse{Subtasks: []string{}}, err
	}

	lines := parseSubtaskLines(text)
	subtasks := quality.FilterSubtasks(lines)
	c.logger.Debug("breakdown parsed",
		zap.String("task", req.TaskTitle),
		zap.Int("suggested", len(lines)),
		zap.Int("accepted", len(subtasks)),
	)
	if len(subtasks) == 0 {
		return BreakdownResponse{Subtasks: []string{}}, fmt.Errorf("%w: no usable subtasks", ErrMalformed)
	}
	return BreakdownResponse{Success: true, Subtasks: subtasks}, nil
}

// Schedule asks for a daily plan. Shape problems are ErrMalformed; semantic
// checks such as the 8 hour cap belong to the caller.
func (c *Client) Schedule(ctx context.Context, req ScheduleRequest) (ScheduleResponse, error) {
	if len(req.Tasks) == 0 {
		return ScheduleResponse{Success: true}, nil
	}
	text, err := c.generate(ctx, schedulePrompt(req))
	if err != nil {
		return ScheduleResponse{}, err
	}

	entries, err := parseScheduleEntries(text)
	if err != nil {
		return ScheduleResponse{}, err
	}
	items := make([]model.ScheduleItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, model.ScheduleItem{
			Task:      strings.TrimSpace(e.Task),
			StartTime: strings.TrimSpace(e.StartTime),
			Duration:  e.Duration,
			Priority:  model.Priority(strings.ToLower(strings.TrimSpace(e.Priority))),
			Reasoning: strings.TrimSpace(e.Reasoning),
			Source:    model.ScheduleSourceAI,
		})
	}
	return ScheduleResponse{Success: true, Schedule: items}, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.provider == nil {
		return "", fmt.Errorf("%w: no provider", ErrUnavailable)
	}
	text, err := c.provider.Generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("ai request failed", zap.String("provider", c.provider.Name()), zap.Error(err))
		return "", err
	}
	return text, nil
}

func breakdownPrompt(req BreakdownRequest) string {
	var b strings.Builder
	b.WriteString("Break the following task into 3 to 6 short, actionable subtasks.\n")
	b.WriteString("Reply with a JSON array of strings only.\n\n")
	fmt.Fprintf(&b, "Task: %s\n", req.TaskTitle)
	if d := strings.TrimSpace(req.TaskDescription); d != "" {
		fmt.Fprintf(&b, "Description: %s\n", d)
	}
	return b.String()
}

func schedulePrompt(req ScheduleRequest) string {
	payload, _ := json.Marshal(req)
	var b strings.Builder
	b.WriteString("Plan a work day for these tasks. Total duration must not exceed 8 hours.\n")
	b.WriteString(`Reply with JSON: {"schedule":[{"task","startTime","duration","priority","reasoning"}]} `)
	b.WriteString("where duration is in hours and startTime looks like \"9:00 AM\".\n\n")
	b.Write(payload)
	return b.String()
}

// parseSubtaskLines accepts a JSON array of strings, or falls back to one
// subtask per non-empty line.
func parseSubtaskLines(text string) []string {
	if raw, ok := extractJSON(text); ok && strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return list
		}
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func parseScheduleEntries(text string) ([]scheduleEntry, error) {
	raw, ok := extractJSON(text)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON in reply", ErrMalformed)
	}
	var entries []scheduleEntry
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	} else {
		var wrapped struct {
			Success  *bool           `json:"success"`
			Schedule []scheduleEntry `json:"schedule"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if wrapped.Success != nil && !*wrapped.Success {
			return nil, fmt.Errorf("%w: collaborator reported failure", ErrUnavailable)
		}
		entries = wrapped.Schedule
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty schedule", ErrMalformed)
	}
	return entries, nil
}

// extractJSON returns the outermost object or array in text, which may be
// wrapped in prose or a code fence.
func extractJSON(text string) (string, bool) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", false
	}
	closer := "}"
	if text[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(text, closer)
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}
