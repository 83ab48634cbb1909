// Package httpapi exposes the presence statistics over a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mikey/presence-analyzer/internal/core"
	"go.uber.org/zap"
)

// Server serves the presence statistics API.
type Server struct {
	engine    *gin.Engine
	srv       *http.Server
	stats     *core.StatsService
	reminders *core.ReminderService
	logger    *zap.Logger
}

// NewServer builds the router. Call Start to begin serving.
func NewServer(addr string, stats *core.StatsService, reminders *core.ReminderService, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:    engine,
		srv:       &http.Server{Addr: addr, Handler: engine},
		stats:     stats,
		reminders: reminders,
		logger:    logger,
	}

	api := engine.Group("/api/v1")
	{
		api.GET("/mean_time_weekday/:user_id", s.meanTimeWeekday)
		api.GET("/presence_weekday/:user_id", s.presenceWeekday)
		api.GET("/presence_start_end/:user_id", s.presenceStartEnd)
		api.GET("/presence_days/:user_id", s.presenceDays)
		api.GET("/users_data", s.usersData)
		api.GET("/mails_receivers", s.mailsReceivers)
	}
	return s
}

// Engine exposes the router for tests.
func (s *Server) Engine() http.Handler {
	return s.engine
}

// Start begins serving in the background.
func (s *Server) Start() error {
	go func() {
		s.logger.Info("HTTP server listening", zap.String("address", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// userID parses the :user_id path parameter; a non-numeric value is reported
// as 400 with ok set to false.
func (s *Server) userID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}

// fail maps service errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, core.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	s.logger.Error("Request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (s *Server) meanTimeWeekday(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}
	stats, err := s.stats.MeanTimeWeekday(c.Request.Context(), userID)
	if err != nil {
		s.fail(c, err)
		return
	}
	result := make([][]any, 0, len(stats))
	for _, stat := range stats {
		result = append(result, []any{stat.Weekday, stat.Value})
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) presenceWeekday(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}
	stats, err := s.stats.PresenceWeekday(c.Request.Context(), userID)
	if err != nil {
		s.fail(c, err)
		return
	}
	result := [][]any{{"Weekday", "Presence (s)"}}
	for _, stat := range stats {
		result = append(result, []any{stat.Weekday, stat.Value})
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) presenceStartEnd(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}
	stats, err := s.stats.PresenceStartEnd(c.Request.Context(), userID)
	if err != nil {
		s.fail(c, err)
		return
	}
	result := make([][]any, 0, len(stats))
	for _, stat := range stats {
		result = append(result, []any{stat.Weekday, stat.Start, stat.End})
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) presenceDays(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}
	days, err := s.stats.PresenceDays(c.Request.Context(), userID)
	if err != nil {
		s.fail(c, err)
		return
	}
	result := make([][]any, 0, len(days))
	for _, day := range days {
		result = append(result, []any{day.Date, day.Minutes})
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) usersData(c *gin.Context) {
	users, err := s.stats.Users(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) mailsReceivers(c *gin.Context) {
	days, err := s.reminders.DaysToNextMail(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}
