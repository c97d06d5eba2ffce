// Package refresh re-checks the source file on a schedule and rebuilds the
// dataset snapshot when its content fingerprint changes.
package refresh

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"BioDash/internal/dataset"
)

// Scheduler runs periodic dataset refreshes.
type Scheduler struct {
	Cron    *cron.Cron
	Manager *dataset.Manager
	Ctx     context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, m *dataset.Manager) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Manager: m,
		Ctx:     ctx,
	}
}

// Register adds the refresh task on the given cron spec.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("refresh scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Info().Msg("refresh scheduler stopped")
}

func (s *Scheduler) refreshTask() {
	changed, err := s.Manager.Reload(s.Ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduled refresh failed")
		return
	}
	if changed {
		log.Info().Msg("scheduled refresh published a new snapshot")
	}
}
