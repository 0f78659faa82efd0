package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sentilens/backend/pkg/logger"
)

// Status of a scraper session.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
	StatusFailed   Status = "failed"
)

// Session owns the state of at most one scraper run at a time: its
// status, log lines and collected comments. Handlers hold the session
// explicitly; there is no process-global scraper state.
type Session struct {
	mu       sync.Mutex
	status   Status
	url      string
	log      []string
	comments []Comment
	cancel   context.CancelFunc
}

func NewSession() *Session {
	return &Session{status: StatusIdle}
}

// Start launches a run in the background. It fails if a run is already
// in progress.
func (s *Session) Start(opts Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusRunning {
		return fmt.Errorf("scraper is already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.status = StatusRunning
	s.url = opts.URL
	s.cancel = cancel
	s.log = []string{"--- Starting scraper ---"}
	s.comments = nil

	go s.run(ctx, opts)
	return nil
}

func (s *Session) run(ctx context.Context, opts Options) {
	comments, err := Scrape(ctx, opts, s.logf)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.status = StatusFailed
		s.log = append(s.log, fmt.Sprintf("Scrape failed: %v", err))
		logger.Error("Scrape run failed", zap.String("url", opts.URL), zap.Error(err))
		return
	}

	s.status = StatusFinished
	s.comments = comments
	s.log = append(s.log, fmt.Sprintf("--- Done: %d comments ---", len(comments)))
	logger.Info("Scrape run finished", zap.String("url", opts.URL), zap.Int("comments", len(comments)))
}

// Stop cancels an in-flight run.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.status == StatusRunning {
		s.status = StatusIdle
		s.log = append(s.log, "--- Stopped ---")
	}
}

// Snapshot returns the current status and a copy of the log.
func (s *Session) Snapshot() (Status, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := make([]string, len(s.log))
	copy(log, s.log)
	return s.status, log
}

// URL returns the target of the current or last run.
func (s *Session) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Comments returns the collected comments of the last finished run.
func (s *Session) Comments() []Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Comment, len(s.comments))
	copy(out, s.comments)
	return out
}

func (s *Session) logf(format string, args ...interface{}) {
	line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))

	s.mu.Lock()
	s.log = append(s.log, line)
	s.mu.Unlock()
}
