// Package server exposes the task session over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskflow/internal/focus"
	"github.com/sandeepkv93/taskflow/internal/session"
	"github.com/sandeepkv93/taskflow/internal/store"
)

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMinuteLength scales focus session deadlines. Tests shrink it.
func WithMinuteLength(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.minute = d
		}
	}
}

func WithDefaultFocusMinutes(minutes int) Option {
	return func(s *Server) {
		if minutes > 0 {
			s.focusMinutes = minutes
		}
	}
}

type Server struct {
	engine       *gin.Engine
	session      *session.Session
	alarm        *focus.Alarm
	logger       *zap.Logger
	now          func() time.Time
	minute       time.Duration
	focusMinutes int
	consumerDone chan struct{}
	startOnce    sync.Once
	stopOnce     sync.Once
}

func New(sess *session.Session, alarm *focus.Alarm, opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	s := &Server{
		engine:       router,
		session:      sess,
		alarm:        alarm,
		logger:       zap.NewNop(),
		now:          time.Now,
		minute:       time.Minute,
		focusMinutes: 25,
		consumerDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	router.Use(gin.Recovery())
	router.Use(requestLogger(s.logger))
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.POST("/validate", s.handleValidate)
		api.GET("/schedule", s.handleSchedule)
		api.GET("/achievements", s.handleAchievements)

		tasks := api.Group("/tasks")
		{
			tasks.GET("", s.handleListTasks)
			tasks.POST("", s.handleCreateTask)
			tasks.GET(":id", s.handleGetTask)
			tasks.PATCH(":id", s.handleUpdateTask)
			tasks.DELETE(":id", s.handleDeleteTask)
			tasks.POST(":id/toggle", s.handleToggleTask)
			tasks.POST(":id/breakdown", s.handleBreakdown)
			tasks.POST(":id/subtasks", s.handleAddSubtask)
			tasks.DELETE(":id/subtasks/:sid", s.handleRemoveSubtask)
			tasks.POST(":id/subtasks/:sid/toggle", s.handleToggleSubtask)
		}

		focusGroup := api.Group("/focus")
		{
			focusGroup.POST("/start", s.handleFocusStart)
			focusGroup.DELETE(":sessionId", s.handleFocusCancel)
		}
	}
}

// Start runs the focus alarm and the goroutine that credits finished sessions.
func (s *Server) Start() {
	s.startOnce.Do(func() {
		s.alarm.Start()
		go s.consumeAlarms()
	})
}

// Stop halts the alarm and waits for the consumer to drain. A server that was
// never started returns at once and cannot be started afterwards.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.startOnce.Do(func() { close(s.consumerDone) })
		s.alarm.Stop()
		select {
		case <-s.consumerDone:
		case <-time.After(5 * time.Second):
			s.logger.Warn("focus consumer did not stop in time")
		}
	})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.Start()
	defer s.Stop()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server shutting down")
		return httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) consumeAlarms() {
	defer close(s.consumerDone)
	for ev := range s.alarm.C() {
		unlocked, err := s.session.RecordFocus(context.Background(), ev.Minutes)
		if err != nil {
			s.logger.Error("record focus failed", zap.String("session_id", ev.SessionID), zap.Error(err))
			continue
		}
		fields := []zap.Field{
			zap.String("session_id", ev.SessionID),
			zap.String("task_id", ev.TaskID),
			zap.Int("minutes", ev.Minutes),
		}
		for _, a := range unlocked {
			fields = append(fields, zap.String("unlocked", a.ID))
		}
		s.logger.Info("focus session completed", fields...)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"pendingFocus":  s.alarm.Pending(),
		"droppedAlarms": s.alarm.Dropped(),
	})
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	s.logger.Warn("request failed", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondStoreError maps a rejected mutation onto its HTTP status.
func (s *Server) respondStoreError(c *gin.Context, serr *store.Error) {
	status := http.StatusUnprocessableEntity
	if serr.Code == store.CodeNotFound {
		status = http.StatusNotFound
	}
	s.logger.Debug("mutation rejected", zap.String("path", c.FullPath()), zap.String("code", string(serr.Code)))
	body := gin.H{"error": serr.Reason, "code": serr.Code}
	if serr.Rule != "" {
		body["rule"] = serr.Rule
	}
	c.JSON(status, body)
}

func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
