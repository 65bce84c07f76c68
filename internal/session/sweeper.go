package session

import (
	"context"
	"fmt"
	"time"

	"rentalweb/internal/utils"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically purges expired sessions.
type Sweeper struct {
	cron    *cron.Cron
	manager *Manager
}

// NewSweeper schedules a purge with a cron spec such as "@every 10m".
func NewSweeper(m *Manager, spec string) (*Sweeper, error) {
	s := &Sweeper{cron: cron.New(), manager: m}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("schedule session sweep: %w", err)
	}
	return s, nil
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n, err := s.manager.Purge(ctx)
	if err != nil {
		utils.LogError("", "session", "sweep", err)
		return
	}
	if n > 0 {
		utils.LogEvent("", "session", "sweep", fmt.Sprintf("removed=%d", n))
	}
}

func (s *Sweeper) Start() { s.cron.Start() }

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}
