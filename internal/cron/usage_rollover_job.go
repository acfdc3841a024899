package cron

import (
	"context"
	"fmt"

	"github.com/leadspark-io/leadspark-backend/pkg/logger"
)

type usageRoller interface {
	RolloverDue(ctx context.Context) (int, error)
}

// UsageRolloverJob resets monthly usage counters whose period has lapsed.
// Per-request lazy rollover already keeps live accounts correct; this job
// catches dormant accounts so their stored counts do not go stale.
type UsageRolloverJob struct {
	usage usageRoller
	logg  *logger.Logger
}

// NewUsageRolloverJob builds the monthly usage rollover job.
func NewUsageRolloverJob(usage usageRoller, logg *logger.Logger) (*UsageRolloverJob, error) {
	if usage == nil {
		return nil, fmt.Errorf("usage service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &UsageRolloverJob{usage: usage, logg: logg}, nil
}

func (j *UsageRolloverJob) Name() string { return "usage_rollover" }

func (j *UsageRolloverJob) Run(ctx context.Context) error {
	reset, err := j.usage.RolloverDue(ctx)
	if err != nil {
		return fmt.Errorf("roll over usage counters: %w", err)
	}
	ctx = j.logg.WithField(ctx, "counters_reset", reset)
	j.logg.Info(ctx, "usage rollover swept stale counters")
	return nil
}
