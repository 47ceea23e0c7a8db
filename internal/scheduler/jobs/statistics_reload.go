// Package jobs holds the concrete scheduled jobs.
package jobs

import (
	"context"

	"github.com/wonhee/gavel/internal/statistics"
	"github.com/wonhee/gavel/pkg/logger"
)

// StatisticsReloadJob rebuilds the region index from the statistics
// data directory on a schedule. The swap is atomic; requests in flight
// keep the index they started with.
type StatisticsReloadJob struct {
	service  *statistics.Service
	schedule string
	logger   *logger.Logger
}

// NewStatisticsReloadJob creates the periodic index reload job
func NewStatisticsReloadJob(service *statistics.Service, schedule string, log *logger.Logger) *StatisticsReloadJob {
	return &StatisticsReloadJob{
		service:  service,
		schedule: schedule,
		logger:   log.Component("statistics_reload_job"),
	}
}

// Name returns the job name
func (j *StatisticsReloadJob) Name() string {
	return "statistics_reload"
}

// Schedule returns the cron expression (매일 새벽 5시가 기본)
func (j *StatisticsReloadJob) Schedule() string {
	return j.schedule
}

// Run reloads the index
func (j *StatisticsReloadJob) Run(ctx context.Context) error {
	count, err := j.service.Reload(ctx)
	if err != nil {
		return err
	}

	j.logger.WithField("districts", count).Info("Scheduled statistics reload completed")
	return nil
}
