package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskflow/internal/focus"
)

const maxFocusMinutes = 180

type focusStartRequest struct {
	TaskID  string `json:"taskId"`
	Minutes int    `json:"minutes"`
}

// handleFocusStart schedules a work phase; its minutes are credited when the
// deadline fires.
func (s *Server) handleFocusStart(c *gin.Context) {
	var req focusStartRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
	}
	if req.Minutes == 0 {
		req.Minutes = s.focusMinutes
	}
	if req.Minutes < 0 || req.Minutes > maxFocusMinutes {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("minutes must be between 1 and %d", maxFocusMinutes))
		return
	}
	if req.TaskID != "" {
		if _, ok := s.session.Get(req.TaskID); !ok {
			s.respondError(c, http.StatusNotFound, fmt.Errorf("task %q not found", req.TaskID))
			return
		}
	}

	ev := focus.PhaseDue{
		SessionID: uuid.NewString(),
		TaskID:    req.TaskID,
		Phase:     focus.PhaseWork,
		Minutes:   req.Minutes,
		DueAt:     s.now().Add(time.Duration(req.Minutes) * s.minute),
	}
	if err := s.alarm.Schedule(ev); err != nil {
		s.respondError(c, http.StatusServiceUnavailable, err)
		return
	}
	s.logger.Info("focus session scheduled", zap.String("session_id", ev.SessionID), zap.Int("minutes", ev.Minutes))
	respondSuccess(c, http.StatusAccepted, gin.H{
		"sessionId": ev.SessionID,
		"taskId":    ev.TaskID,
		"minutes":   ev.Minutes,
		"dueAt":     ev.DueAt.UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleFocusCancel(c *gin.Context) {
	if !s.alarm.Cancel(c.Param("sessionId")) {
		s.respondError(c, http.StatusNotFound, fmt.Errorf("focus session %q not pending", c.Param("sessionId")))
		return
	}
	respondSuccess(c, http.StatusNoContent, nil)
}
