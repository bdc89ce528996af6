package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stepup/stepup-backend/internal/app/service"
	"github.com/stepup/stepup-backend/pkg/logger"
)

// reportTimeout bounds a single scheduled export.
const reportTimeout = 2 * time.Minute

// ReportScheduler writes the delivery details workbook to disk on a cron
// schedule.
type ReportScheduler struct {
	cron     *cron.Cron
	reports  service.ReportService
	dir      string
	schedule string
}

func NewReportScheduler(reports service.ReportService, dir, schedule string) *ReportScheduler {
	return &ReportScheduler{
		cron:     cron.New(),
		reports:  reports,
		dir:      dir,
		schedule: schedule,
	}
}

// Start registers the export job and starts the cron loop.
func (s *ReportScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.Run)
	if err != nil {
		logger.Error("Failed to add cron job for delivery report", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Report scheduler started", map[string]interface{}{
		"schedule": s.schedule,
		"dir":      s.dir,
	})
	return nil
}

// Run performs one export. Failures are logged; the next tick retries.
func (s *ReportScheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	logger.Info("Starting scheduled delivery report export")

	path, err := s.reports.WriteDeliveryDetailsReport(ctx, s.dir)
	if err != nil {
		logger.Error("Scheduled delivery report failed", err)
		return
	}

	logger.Info("Scheduled delivery report written", map[string]interface{}{
		"path": path,
	})
}

// Stop waits for a running export to finish.
func (s *ReportScheduler) Stop() {
	logger.Info("Stopping report scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Report scheduler stopped")
}
