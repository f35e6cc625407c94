// Package statusserver exposes a read-only JSON snapshot of the running
// search's progress counters over HTTP, behind the optional
// -status-addr flag. It serves live in-memory state only, never
// persists anything, and exits with the process.
package statusserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"namehash/internal/progress"
)

// Snapshot is the JSON body served at GET /status.
type Snapshot struct {
	Candidates uint64 `json:"candidates"`
	Matches    uint64 `json:"matches"`
	Total      uint64 `json:"total,omitempty"`
}

// Server wraps an *http.Server reporting live Counters.
type Server struct {
	http     *http.Server
	counters *progress.Counters
}

// New builds a Server bound to addr, not yet listening.
func New(addr string, counters *progress.Counters) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	s := &Server{counters: counters}

	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, Snapshot{
			Candidates: counters.Candidates.Load(),
			Matches:    counters.Matches.Load(),
			Total:      counters.Total,
		})
	})

	s.http = &http.Server{Addr: addr, Handler: router}
	return s
}

// Start begins serving in a background goroutine. Bind failures are
// sent to errCh rather than panicking the caller.
func (s *Server) Start(errCh chan<- error) {
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
}

// Stop gracefully shuts the server down within the given timeout.
func (s *Server) Stop(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}
