package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/leadspark-io/leadspark-backend/internal/requests"
	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	"github.com/leadspark-io/leadspark-backend/pkg/logger"
)

const defaultStaleAfter = 72 * time.Hour

type requestLister interface {
	List(ctx context.Context, filters requests.ListFilters) ([]models.Request, error)
}

// StaleRequestsJob surfaces requests that have sat in pending past the
// response-time target. It only reports; operators move the board.
type StaleRequestsJob struct {
	repo       requestLister
	logg       *logger.Logger
	staleAfter time.Duration
	now        func() time.Time
}

// NewStaleRequestsJob builds the stale pending-request sweep.
func NewStaleRequestsJob(repo requestLister, logg *logger.Logger, staleAfter time.Duration) (*StaleRequestsJob, error) {
	if repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}
	return &StaleRequestsJob{
		repo:       repo,
		logg:       logg,
		staleAfter: staleAfter,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

func (j *StaleRequestsJob) Name() string { return "stale_requests_sweep" }

func (j *StaleRequestsJob) Run(ctx context.Context) error {
	pending := enums.RequestStatusPending
	records, err := j.repo.List(ctx, requests.ListFilters{Status: &pending})
	if err != nil {
		return fmt.Errorf("list pending requests: %w", err)
	}

	cutoff := j.now().Add(-j.staleAfter)
	stale := 0
	byKind := map[enums.RequestKind]int{}
	for _, record := range records {
		if record.CreatedAt.Before(cutoff) {
			stale++
			byKind[record.Kind]++
		}
	}

	ctx = j.logg.WithFields(ctx, map[string]any{
		"pending_total":   len(records),
		"stale_total":     stale,
		"stale_tickets":   byKind[enums.RequestKindSupportTicket],
		"stale_prospects": byKind[enums.RequestKindProspectOrder],
		"stale_accounts":  byKind[enums.RequestKindEmailAccountOrder],
	})
	if stale > 0 {
		j.logg.Warn(ctx, "pending requests exceed response-time target")
		return nil
	}
	j.logg.Info(ctx, "no stale pending requests")
	return nil
}
