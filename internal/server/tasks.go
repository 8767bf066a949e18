package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandeepkv93/taskflow/internal/model"
	"github.com/sandeepkv93/taskflow/internal/quality"
	"github.com/sandeepkv93/taskflow/internal/scheduler"
	"github.com/sandeepkv93/taskflow/internal/session"
	"github.com/sandeepkv93/taskflow/internal/storage"
	"github.com/sandeepkv93/taskflow/internal/store"
)

type taskRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Priority     *string  `json:"priority"`
	Category     *string  `json:"category"`
	DueDate      *string  `json:"dueDate"`
	ClearDueDate bool     `json:"clearDueDate"`
	Progress     *int     `json:"progress"`
	Subtasks     []string `json:"subtasks"`
}

type subtaskRequest struct {
	Text string `json:"text"`
}

type validateRequest struct {
	Title string `json:"title"`
}

type achievementResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	Unlocked    bool   `json:"unlocked"`
	UnlockedAt  string `json:"unlockedAt,omitempty"`
}

type scheduleItemResponse struct {
	Task      string  `json:"task"`
	StartTime string  `json:"startTime"`
	Duration  float64 `json:"duration"`
	Priority  string  `json:"priority"`
	Reasoning string  `json:"reasoning"`
	Source    string  `json:"source"`
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks := s.session.Tasks()
	out := make([]storage.TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, storage.FromTask(t))
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": out})
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, ok := s.session.Get(c.Param("id"))
	if !ok {
		s.respondError(c, http.StatusNotFound, fmt.Errorf("task %q not found", c.Param("id")))
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": storage.FromTask(task)})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		s.respondError(c, http.StatusBadRequest, errors.New("title is required"))
		return
	}

	in := store.TaskInput{
		Title:       *req.Title,
		Description: getString(req.Description),
		Category:    getString(req.Category),
		Subtasks:    req.Subtasks,
	}
	if in.Category == "" {
		in.Category = "personal"
	}
	if req.Priority != nil {
		p, err := model.ParsePriority(*req.Priority)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		in.Priority = p
	}
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := parseDate(*req.DueDate)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		in.DueDate = &d
	}
	if req.Progress != nil {
		in.Progress = *req.Progress
	}

	out, err := s.session.Add(c.Request.Context(), in)
	s.respondOutcome(c, http.StatusCreated, out, err)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	patch := store.TaskPatch{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		ClearDueDate: req.ClearDueDate,
		Progress:     req.Progress,
	}
	if req.Priority != nil {
		p, err := model.ParsePriority(*req.Priority)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		patch.Priority = &p
	}
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := parseDate(*req.DueDate)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		patch.DueDate = &d
	}

	out, err := s.session.Update(c.Request.Context(), c.Param("id"), patch)
	s.respondOutcome(c, http.StatusOK, out, err)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	removed, err := s.session.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	// unknown ids are a no-op, so a repeated delete still succeeds
	respondSuccess(c, http.StatusOK, gin.H{"deleted": removed})
}

func (s *Server) handleToggleTask(c *gin.Context) {
	out, err := s.session.Toggle(c.Request.Context(), c.Param("id"))
	s.respondOutcome(c, http.StatusOK, out, err)
}

func (s *Server) handleAddSubtask(c *gin.Context) {
	var req subtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	out, err := s.session.AddSubtask(c.Request.Context(), c.Param("id"), req.Text)
	s.respondOutcome(c, http.StatusCreated, out, err)
}

func (s *Server) handleRemoveSubtask(c *gin.Context) {
	out, err := s.session.RemoveSubtask(c.Request.Context(), c.Param("id"), c.Param("sid"))
	s.respondOutcome(c, http.StatusOK, out, err)
}

func (s *Server) handleToggleSubtask(c *gin.Context) {
	out, err := s.session.ToggleSubtask(c.Request.Context(), c.Param("id"), c.Param("sid"))
	s.respondOutcome(c, http.StatusOK, out, err)
}

func (s *Server) handleBreakdown(c *gin.Context) {
	out, added, err := s.session.Breakdown(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if !out.OK() {
		s.respondStoreError(c, out.Err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"task":     storage.FromTask(out.Task),
		"added":    added,
		"unlocked": achievementsResponse(out.Unlocked),
	})
}

func (s *Server) handleValidate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	res := quality.ValidateTitle(req.Title)
	body := gin.H{"valid": res.Valid}
	if !res.Valid {
		body["reason"] = res.Reason
		body["rule"] = res.Rule
	}
	respondSuccess(c, http.StatusOK, body)
}

func (s *Server) handleSchedule(c *gin.Context) {
	items := s.session.Plan(c.Request.Context())
	out := make([]scheduleItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, scheduleItemResponse{
			Task:      item.Task,
			StartTime: item.StartTime,
			Duration:  item.Duration,
			Priority:  string(item.Priority),
			Reasoning: item.Reasoning,
			Source:    string(item.Source),
		})
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"schedule":   out,
		"totalHours": scheduler.TotalHours(items),
	})
}

func (s *Server) handleAchievements(c *gin.Context) {
	stats := s.session.Stats()
	unlocked, total := s.session.AchievementProgress()
	respondSuccess(c, http.StatusOK, gin.H{
		"achievements": achievementsResponse(s.session.Achievements()),
		"unlocked":     unlocked,
		"total":        total,
		"stats": storage.StatsRecord{
			TotalTasksCompleted: stats.TotalTasksCompleted,
			TasksCompletedToday: stats.TasksCompletedToday,
			CurrentStreak:       stats.CurrentStreak,
			TotalFocusTime:      stats.TotalFocusTime,
			PerfectDays:         stats.PerfectDays,
		},
	})
}

func (s *Server) respondOutcome(c *gin.Context, status int, out session.Outcome, err error) {
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if !out.OK() {
		s.respondStoreError(c, out.Err)
		return
	}
	respondSuccess(c, status, gin.H{
		"task":     storage.FromTask(out.Task),
		"unlocked": achievementsResponse(out.Unlocked),
	})
}

func achievementsResponse(list []model.Achievement) []achievementResponse {
	out := make([]achievementResponse, 0, len(list))
	for _, a := range list {
		item := achievementResponse{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Icon:        a.Icon,
			Category:    string(a.Category),
			Unlocked:    a.Unlocked,
		}
		if a.UnlockedAt != nil {
			item.UnlockedAt = a.UnlockedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, item)
	}
	return out
}

func parseDate(raw string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("dueDate must be YYYY-MM-DD: %q", raw)
	}
	return d, nil
}

func getString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
