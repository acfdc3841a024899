package requests

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leadspark-io/leadspark-backend/internal/usage"
	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
)

type stubRequestsRepo struct {
	records map[uuid.UUID]*models.Request
	updates map[string]any
	deleted []uuid.UUID
}

func newStubRequestsRepo() *stubRequestsRepo {
	return &stubRequestsRepo{records: map[uuid.UUID]*models.Request{}}
}

func (s *stubRequestsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRequestsRepo) Create(ctx context.Context, record *models.Request) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	copied := *record
	s.records[record.ID] = &copied
	return nil
}

func (s *stubRequestsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	record, ok := s.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *stubRequestsRepo) ListByUser(ctx context.Context, userID uuid.UUID, filters ListFilters) ([]models.Request, error) {
	var out []models.Request
	for _, record := range s.records {
		if record.UserID == userID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (s *stubRequestsRepo) List(ctx context.Context, filters ListFilters) ([]models.Request, error) {
	var out []models.Request
	for _, record := range s.records {
		out = append(out, *record)
	}
	return out, nil
}

func (s *stubRequestsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	record, ok := s.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.updates = updates
	if status, ok := updates["status"].(enums.RequestStatus); ok {
		record.Status = status
	}
	if subject, ok := updates["subject"].(string); ok {
		record.Subject = subject
	}
	if payload, ok := updates["payload"].(json.RawMessage); ok {
		record.Payload = payload
	}
	if processedAt, ok := updates["processed_at"].(time.Time); ok {
		record.ProcessedAt = &processedAt
	}
	if deliveredAt, ok := updates["delivered_at"].(time.Time); ok {
		record.DeliveredAt = &deliveredAt
	}
	if link, ok := updates["delivery_link"].(string); ok {
		record.DeliveryLink = &link
	}
	return nil
}

func (s *stubRequestsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.records[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.records, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubRequestsRepo) seed(record models.Request) uuid.UUID {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Status == "" {
		record.Status = enums.RequestStatusPending
	}
	s.records[record.ID] = &record
	return record.ID
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubQuota struct {
	calls int
	err   error
}

func (s *stubQuota) Consume(ctx context.Context, userID uuid.UUID, plan enums.Plan, resource enums.Resource) (*usage.ResourceUsage, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &usage.ResourceUsage{Resource: resource, Used: 1}, nil
}

func newRequestService(t *testing.T, repo Repository, quota quotaConsumer, now time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:  repo,
		Tx:    stubTxRunner{},
		Quota: quota,
		Now:   func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	appErr, ok := err.(*pkgerrors.Error)
	if !ok {
		t.Fatalf("expected *pkgerrors.Error, got %T: %v", err, err)
	}
	if appErr.Code() != code {
		t.Fatalf("expected code %s, got %s", code, appErr.Code())
	}
}

func TestCreateSupportTicketStartsPending(t *testing.T) {
	repo := newStubRequestsRepo()
	quota := &stubQuota{}
	svc := newRequestService(t, repo, quota, time.Now())

	record, err := svc.Create(context.Background(), CreateInput{
		UserID:  uuid.New(),
		Plan:    enums.PlanFree,
		Kind:    enums.RequestKindSupportTicket,
		Subject: "Cannot export leads",
		Payload: json.RawMessage(`{"message":"export button greyed out"}`),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if record.Status != enums.RequestStatusPending {
		t.Fatalf("expected pending, got %s", record.Status)
	}
	if quota.calls != 0 {
		t.Fatalf("support tickets must not touch quota, got %d calls", quota.calls)
	}
}

func TestCreateProspectOrderConsumesQuota(t *testing.T) {
	repo := newStubRequestsRepo()
	quota := &stubQuota{}
	svc := newRequestService(t, repo, quota, time.Now())

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:  uuid.New(),
		Plan:    enums.PlanPro,
		Kind:    enums.RequestKindProspectOrder,
		Subject: "SaaS founders in Austin",
		Payload: json.RawMessage(`{"company_name":"Acme","contact_email":"a@acme.io","requested_count":500}`),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if quota.calls != 1 {
		t.Fatalf("expected one quota consume, got %d", quota.calls)
	}
}

func TestCreateProspectOrderForbiddenForFreePlan(t *testing.T) {
	repo := newStubRequestsRepo()
	quota := &stubQuota{}
	svc := newRequestService(t, repo, quota, time.Now())

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:  uuid.New(),
		Plan:    enums.PlanFree,
		Kind:    enums.RequestKindProspectOrder,
		Subject: "SaaS founders",
	})
	requireCode(t, err, pkgerrors.CodeForbidden)
	if quota.calls != 0 {
		t.Fatalf("quota must not be consumed on forbidden create")
	}
	if len(repo.records) != 0 {
		t.Fatalf("no row should be written on forbidden create")
	}
}

func TestCreateProspectOrderQuotaExhaustedWritesNothing(t *testing.T) {
	repo := newStubRequestsRepo()
	quota := &stubQuota{err: pkgerrors.New(pkgerrors.CodeQuotaExceeded, "monthly custom_prospects quota exhausted")}
	svc := newRequestService(t, repo, quota, time.Now())

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:  uuid.New(),
		Plan:    enums.PlanPro,
		Kind:    enums.RequestKindProspectOrder,
		Subject: "SaaS founders",
	})
	requireCode(t, err, pkgerrors.CodeQuotaExceeded)
	if len(repo.records) != 0 {
		t.Fatalf("no row should be written when quota is exhausted")
	}
}

func TestUpdateOwnPendingOnly(t *testing.T) {
	repo := newStubRequestsRepo()
	svc := newRequestService(t, repo, &stubQuota{}, time.Now())
	userID := uuid.New()
	id := repo.seed(models.Request{
		UserID:  userID,
		Kind:    enums.RequestKindSupportTicket,
		Status:  enums.RequestStatusInProgress,
		Subject: "original",
	})

	subject := "edited"
	_, err := svc.UpdateOwn(context.Background(), UpdateOwnInput{
		RequestID: id,
		UserID:    userID,
		Subject:   &subject,
	})
	requireCode(t, err, pkgerrors.CodeStateConflict)
	if repo.records[id].Subject != "original" {
		t.Fatalf("row must be unchanged after failed edit")
	}
}

func TestUpdateOwnRejectsOtherUsers(t *testing.T) {
	repo := newStubRequestsRepo()
	svc := newRequestService(t, repo, &stubQuota{}, time.Now())
	id := repo.seed(models.Request{
		UserID:  uuid.New(),
		Kind:    enums.RequestKindSupportTicket,
		Subject: "not yours",
	})

	subject := "hijack"
	_, err := svc.UpdateOwn(context.Background(), UpdateOwnInput{
		RequestID: id,
		UserID:    uuid.New(),
		Subject:   &subject,
	})
	requireCode(t, err, pkgerrors.CodeForbidden)
}

func TestDeleteOwnGuards(t *testing.T) {
	repo := newStubRequestsRepo()
	svc := newRequestService(t, repo, &stubQuota{}, time.Now())
	userID := uuid.New()
	pending := repo.seed(models.Request{UserID: userID, Kind: enums.RequestKindSupportTicket, Subject: "a"})
	active := repo.seed(models.Request{
		UserID:  userID,
		Kind:    enums.RequestKindSupportTicket,
		Status:  enums.RequestStatusCommunication,
		Subject: "b",
	})

	if err := svc.DeleteOwn(context.Background(), pending, userID); err != nil {
		t.Fatalf("DeleteOwn pending: %v", err)
	}
	requireCode(t, svc.DeleteOwn(context.Background(), active, userID), pkgerrors.CodeStateConflict)
	requireCode(t, svc.DeleteOwn(context.Background(), uuid.New(), userID), pkgerrors.CodeNotFound)
}

func TestTransitionStampsProcessedAndDelivered(t *testing.T) {
	repo := newStubRequestsRepo()
	userID := uuid.New()
	id := repo.seed(models.Request{
		UserID:  userID,
		Kind:    enums.RequestKindProspectOrder,
		Subject: "order",
	})

	t1 := time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)
	svc := newRequestService(t, repo, &stubQuota{}, t1)
	record, err := svc.Transition(context.Background(), TransitionInput{RequestID: id, Status: enums.RequestStatusProcessing})
	if err != nil {
		t.Fatalf("Transition to processing: %v", err)
	}
	if record.ProcessedAt == nil || !record.ProcessedAt.Equal(t1) {
		t.Fatalf("processed_at not stamped on first move out of pending")
	}
	if record.DeliveredAt != nil {
		t.Fatalf("delivered_at must not be set yet")
	}

	t2 := t1.Add(2 * time.Hour)
	svc = newRequestService(t, repo, &stubQuota{}, t2)
	record, err = svc.Transition(context.Background(), TransitionInput{RequestID: id, Status: enums.RequestStatusCompleted})
	if err != nil {
		t.Fatalf("Transition to completed: %v", err)
	}
	if record.DeliveredAt == nil || !record.DeliveredAt.Equal(t2) {
		t.Fatalf("delivered_at not stamped on delivery")
	}
	if record.ProcessedAt == nil || !record.ProcessedAt.Equal(t1) {
		t.Fatalf("processed_at must keep its first value")
	}
}

func TestTransitionOrderRejectsSkippingStages(t *testing.T) {
	repo := newStubRequestsRepo()
	svc := newRequestService(t, repo, &stubQuota{}, time.Now())
	id := repo.seed(models.Request{
		UserID:  uuid.New(),
		Kind:    enums.RequestKindEmailAccountOrder,
		Subject: "accounts",
	})

	_, err := svc.Transition(context.Background(), TransitionInput{RequestID: id, Status: enums.RequestStatusCompleted})
	requireCode(t, err, pkgerrors.CodeStateConflict)
	if repo.records[id].Status != enums.RequestStatusPending {
		t.Fatalf("row must be unchanged after rejected transition")
	}
}

func TestTransitionOrderRejectsForeignStatus(t *testing.T) {
	repo := newStubRequestsRepo()
	svc := newRequestService(t, repo, &stubQuota{}, time.Now())
	id := repo.seed(models.Request{
		UserID:  uuid.New(),
		Kind:    enums.RequestKindProspectOrder,
		Subject: "order",
	})

	// kanban-only stage on a linear order pipeline
	_, err := svc.Transition(context.Background(), TransitionInput{RequestID: id, Status: enums.RequestStatusPayment})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestTransitionSupportTicketJumpsAnywhere(t *testing.T) {
	repo := newStubRequestsRepo()
	now := time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)
	svc := newRequestService(t, repo, &stubQuota{}, now)
	id := repo.seed(models.Request{
		UserID:  uuid.New(),
		Kind:    enums.RequestKindSupportTicket,
		Subject: "ticket",
	})

	record, err := svc.Transition(context.Background(), TransitionInput{RequestID: id, Status: enums.RequestStatusDone})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if record.Status != enums.RequestStatusDone {
		t.Fatalf("expected done, got %s", record.Status)
	}
	if record.ProcessedAt == nil || record.DeliveredAt == nil {
		t.Fatalf("both timestamps stamp when pending jumps straight to done")
	}
}

func TestTransitionSameStatusIsNoop(t *testing.T) {
	repo := newStubRequestsRepo()
	svc := newRequestService(t, repo, &stubQuota{}, time.Now())
	id := repo.seed(models.Request{
		UserID:  uuid.New(),
		Kind:    enums.RequestKindSupportTicket,
		Subject: "ticket",
	})

	record, err := svc.Transition(context.Background(), TransitionInput{RequestID: id, Status: enums.RequestStatusPending})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if record.ProcessedAt != nil {
		t.Fatalf("no timestamps on a no-op transition")
	}
	if repo.updates != nil {
		t.Fatalf("no write on a no-op transition")
	}
}

func TestSetDeliveryAttachesLink(t *testing.T) {
	repo := newStubRequestsRepo()
	svc := newRequestService(t, repo, &stubQuota{}, time.Now())
	id := repo.seed(models.Request{
		UserID:  uuid.New(),
		Kind:    enums.RequestKindProspectOrder,
		Status:  enums.RequestStatusCompleted,
		Subject: "order",
	})

	record, err := svc.SetDelivery(context.Background(), DeliveryInput{
		RequestID:    id,
		DeliveryLink: "https://files.leadspark.io/prospects/abc123.csv",
	})
	if err != nil {
		t.Fatalf("SetDelivery: %v", err)
	}
	if record.DeliveryLink == nil || *record.DeliveryLink == "" {
		t.Fatalf("delivery link not set")
	}
}
