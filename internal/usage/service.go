package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leadspark-io/leadspark-backend/internal/plans"
	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
	"github.com/leadspark-io/leadspark-backend/pkg/metrics"
)

// ResourceUsage is the per-resource quota snapshot returned to clients.
type ResourceUsage struct {
	Resource    enums.Resource `json:"resource"`
	Used        int            `json:"used"`
	Limit       int            `json:"limit"`
	Unlimited   bool           `json:"unlimited"`
	Remaining   *int           `json:"remaining,omitempty"`
	PeriodStart time.Time      `json:"period_start"`
}

// ServiceParams groups dependencies for the usage service.
type ServiceParams struct {
	Repo    Repository
	Metrics *metrics.QuotaMetrics
	Now     func() time.Time
}

// Service meters plan-limited resource consumption.
type Service struct {
	repo    Repository
	metrics *metrics.QuotaMetrics
	now     func() time.Time
}

// NewService builds a usage service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		repo:    params.Repo,
		metrics: params.Metrics,
		now:     now,
	}, nil
}

// Snapshot returns the current quota state for every metered resource.
// Monthly-reset counters roll over lazily here so a stale row never leaks
// last month's usage to the caller.
func (s *Service) Snapshot(ctx context.Context, userID uuid.UUID, plan enums.Plan) ([]ResourceUsage, error) {
	now := s.now()
	out := make([]ResourceUsage, 0, len(enums.Resources()))

	for _, resource := range enums.Resources() {
		record, err := s.repo.Find(ctx, userID, resource)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load usage record")
		}

		used := 0
		periodStart := startOfMonth(now)
		if record != nil {
			if err := s.rolloverIfDue(ctx, record, now); err != nil {
				return nil, err
			}
			used = record.Count
			periodStart = record.PeriodStart
		}

		out = append(out, buildUsage(plan, resource, used, periodStart))
	}
	return out, nil
}

// Consume counts one unit of the resource against the user's plan limit.
// The check and the increment are separate statements on purpose: quota
// metering here is best-effort and concurrent requests may overshoot the
// cap by a unit, which the product tolerates.
func (s *Service) Consume(ctx context.Context, userID uuid.UUID, plan enums.Plan, resource enums.Resource) (*ResourceUsage, error) {
	if !resource.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown resource %q", resource))
	}

	now := s.now()
	record, err := s.repo.FindOrCreate(ctx, userID, resource, startOfMonth(now))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load usage record")
	}
	if err := s.rolloverIfDue(ctx, record, now); err != nil {
		return nil, err
	}

	limit := plans.LimitFor(plan, resource)
	switch {
	case limit == 0:
		s.metrics.IncExceeded(string(resource), string(plan))
		return nil, pkgerrors.New(pkgerrors.CodeQuotaExceeded,
			fmt.Sprintf("the %s plan does not include %s", plan, resource))
	case limit != plans.Unlimited && record.Count >= limit:
		s.metrics.IncExceeded(string(resource), string(plan))
		return nil, pkgerrors.New(pkgerrors.CodeQuotaExceeded,
			fmt.Sprintf("monthly %s quota exhausted", resource))
	}

	if err := s.repo.IncrementCount(ctx, record.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment usage")
	}
	record.Count++
	s.metrics.IncConsumed(string(resource), string(plan))

	usage := buildUsage(plan, resource, record.Count, record.PeriodStart)
	return &usage, nil
}

// ResetResource zeroes a user's counter. Only operators call this; it is
// the sole reset path for resources that do not roll over monthly.
func (s *Service) ResetResource(ctx context.Context, userID uuid.UUID, resource enums.Resource) error {
	if !resource.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown resource %q", resource))
	}

	record, err := s.repo.Find(ctx, userID, resource)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load usage record")
	}
	if record == nil {
		// nothing consumed yet; reset is a no-op
		return nil
	}
	if err := s.repo.Reset(ctx, record.ID, startOfMonth(s.now())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset usage")
	}
	s.metrics.IncReset(string(resource), "admin")
	return nil
}

// RolloverDue resets every stale monthly counter and returns how many rows
// were touched. The cron worker calls this; the lazy per-request rollover
// makes it a safety net rather than a correctness requirement.
func (s *Service) RolloverDue(ctx context.Context) (int, error) {
	now := s.now()
	reset := 0

	for _, resource := range enums.Resources() {
		if !resource.ResetsMonthly() {
			continue
		}
		records, err := s.repo.ListByResource(ctx, resource)
		if err != nil {
			return reset, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list usage records")
		}
		for i := range records {
			record := &records[i]
			if !record.PeriodStart.Before(startOfMonth(now)) {
				continue
			}
			if err := s.repo.Reset(ctx, record.ID, startOfMonth(now)); err != nil {
				return reset, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset usage")
			}
			s.metrics.IncReset(string(resource), "monthly")
			reset++
		}
	}
	return reset, nil
}

func (s *Service) rolloverIfDue(ctx context.Context, record *models.UsageRecord, now time.Time) error {
	if record == nil || !record.Resource.ResetsMonthly() {
		return nil
	}
	monthStart := startOfMonth(now)
	if !record.PeriodStart.Before(monthStart) {
		return nil
	}
	if err := s.repo.Reset(ctx, record.ID, monthStart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "roll over usage period")
	}
	record.Count = 0
	record.PeriodStart = monthStart
	s.metrics.IncReset(string(record.Resource), "monthly")
	return nil
}

func buildUsage(plan enums.Plan, resource enums.Resource, used int, periodStart time.Time) ResourceUsage {
	limit := plans.LimitFor(plan, resource)
	usage := ResourceUsage{
		Resource:    resource,
		Used:        used,
		Limit:       limit,
		Unlimited:   limit == plans.Unlimited,
		PeriodStart: periodStart,
	}
	if !usage.Unlimited {
		remaining := limit - used
		if remaining < 0 {
			remaining = 0
		}
		usage.Remaining = &remaining
	}
	return usage
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
