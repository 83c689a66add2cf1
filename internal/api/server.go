// Package api exposes the calendar REST surface consumed by the month-grid
// web app, and serves the prebuilt app itself.
package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"ScheduleAssistantBot/internal/calendar"
	"ScheduleAssistantBot/internal/schedule"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	calendar  *calendar.Service
	staticDir string
	log       *zap.SugaredLogger
}

func NewServer(svc *calendar.Service, staticDir string, log *zap.SugaredLogger) *Server {
	return &Server{calendar: svc, staticDir: staticDir, log: log}
}

// Router builds the gin engine with all API routes and SPA static serving.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	api := r.Group("/api")
	api.GET("/health", s.health)

	api.GET("/events", s.listEvents)
	api.POST("/events", s.createEvent)
	api.GET("/events/:id", s.getEvent)
	api.PUT("/events/:id", s.updateEvent)
	api.PATCH("/events/:id", s.updateEvent)
	api.DELETE("/events/:id", s.deleteEvent)

	api.GET("/categories", s.listCategories)
	api.POST("/categories", s.createCategory)
	api.DELETE("/categories/:id", s.deleteCategory)

	r.NoRoute(s.serveStatic)
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "calendar-server"})
}

// serveStatic serves the prebuilt calendar app with an index.html fallback
// for client-side routes.
func (s *Server) serveStatic(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if s.staticDir == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "calendar app not built"})
		return
	}

	path := filepath.Join(s.staticDir, filepath.Clean("/"+c.Request.URL.Path))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		c.File(path)
		return
	}

	index := filepath.Join(s.staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "calendar app not built"})
		return
	}
	c.File(index)
}

// writeError maps service errors to HTTP status codes. Conflicts keep their
// actionable message so the client can show the user why the slot was
// refused.
func (s *Server) writeError(c *gin.Context, err error) {
	var conflict *schedule.ConflictError
	var invalid *calendar.ValidationError
	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
	case errors.Is(err, calendar.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		s.log.Errorw("request failed", "path", c.Request.URL.Path, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
