// Package sandbox is a local stand-in for the remote task backend. It serves
// the same HTTP contract the gateway speaks, backed by the sqlite store, so
// taskdeck can be exercised without the real service.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imkarma/taskdeck/internal/store"
	"github.com/imkarma/taskdeck/internal/task"
)

// Server is the sandbox HTTP server.
type Server struct {
	store  *store.Store
	log    *slog.Logger
	router *gin.Engine
}

// NewServer creates a sandbox server over st.
func NewServer(st *store.Store, log *slog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{store: st, log: log, router: router}
	router.Use(s.logRequests)

	router.GET("/tasks", s.handleList)
	router.POST("/tasks", s.handleCreate)
	router.PATCH("/tasks/:id/state", s.handleSetState)
	router.DELETE("/tasks/:id", s.handleDelete)
	router.POST("/ai/command", s.handleAICommand)

	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("sandbox listening", "addr", addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Debug("sandbox request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start))
}

func (s *Server) handleList(c *gin.Context) {
	var filter *task.State
	if raw, ok := c.GetQuery("state"); ok {
		st := task.State(raw)
		if !st.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid state %q", raw)})
			return
		}
		filter = &st
	}

	tasks, err := s.store.ListTasks(filter)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreate(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	t, err := s.store.CreateTask(title)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) handleSetState(c *gin.Context) {
	var req struct {
		State task.State `json:"state"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !req.State.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid state %q", req.State)})
		return
	}

	t, err := s.store.UpdateTaskState(c.Param("id"), req.State)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) handleDelete(c *gin.Context) {
	err := s.store.DeleteTask(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

func (s *Server) handleAICommand(c *gin.Context) {
	var req struct {
		Command string `json:"command"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Command) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "command is required"})
		return
	}

	cmd := ParseCommand(req.Command)
	switch cmd.Verb {
	case VerbAdd:
		t, err := s.store.CreateTask(cmd.Arg)
		if err != nil {
			s.internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)

	case VerbStart:
		s.transition(c, cmd.Arg, task.NotStarted, "Started")

	case VerbComplete:
		s.transition(c, cmd.Arg, task.InProgress, "Completed")

	case VerbShow:
		tasks, err := s.store.ListTasks(cmd.State)
		if err != nil {
			s.internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, tasks)

	default:
		c.JSON(http.StatusOK, gin.H{"error": "Unknown command"})
	}
}

// transition advances the first task matching fragment that is in state
// from. AI errors are answered with 200 and an error body, like the backend.
func (s *Server) transition(c *gin.Context, fragment string, from task.State, verb string) {
	matches, err := s.store.FindTasks(fragment)
	if err != nil {
		s.internalError(c, err)
		return
	}
	if len(matches) == 0 {
		c.JSON(http.StatusOK, gin.H{"error": fmt.Sprintf("No task matching %q", fragment)})
		return
	}

	var target *task.Task
	for i := range matches {
		if matches[i].State == from {
			target = &matches[i]
			break
		}
	}
	if target == nil {
		c.JSON(http.StatusOK, gin.H{"error": fmt.Sprintf("Task %q is %s", matches[0].Title, matches[0].State)})
		return
	}

	to, _ := task.Next(from)
	if _, err := s.store.UpdateTaskState(target.ID, to); err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s %q", verb, target.Title)})
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.log.Error("sandbox request failed", "path", c.Request.URL.Path, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
