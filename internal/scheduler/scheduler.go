package scheduler

import (
	"context"
	"fmt"
	"log"

	"PriceGrab/internal/ingest"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the ingestion pass on a cron schedule (daemon mode).
type Scheduler struct {
	Cron     *cron.Cron
	Ingestor *ingest.Ingestor
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, ing *ingest.Ingestor) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Ingestor: ing,
		Ctx:      ctx,
	}
}

// Register registers the daily grab task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the grab immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	log.Println("[INFO] running daily grab")
	if err := s.Ingestor.Run(s.Ctx); err != nil {
		log.Printf("[ERROR] daily grab: %v", err)
	}
}
