package requests

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
)

func setupRequestsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS requests (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  subject TEXT NOT NULL,
  payload TEXT,
  delivery_link TEXT,
  processed_at DATETIME,
  delivered_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func insertRequest(t *testing.T, db *gorm.DB, record *models.Request) {
	t.Helper()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Status == "" {
		record.Status = enums.RequestStatusPending
	}
	require.NoError(t, db.Create(record).Error)
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupRequestsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := &models.Request{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Kind:    enums.RequestKindSupportTicket,
		Status:  enums.RequestStatusPending,
		Subject: "export stuck",
		Payload: json.RawMessage(`{"message":"export hangs at 90%"}`),
	}
	require.NoError(t, repo.Create(ctx, record))

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Subject, found.Subject)
	assert.Equal(t, enums.RequestStatusPending, found.Status)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListFilters(t *testing.T) {
	db := setupRequestsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	insertRequest(t, db, &models.Request{UserID: userID, Kind: enums.RequestKindSupportTicket, Subject: "a"})
	insertRequest(t, db, &models.Request{UserID: userID, Kind: enums.RequestKindProspectOrder, Subject: "b", Status: enums.RequestStatusProcessing})
	insertRequest(t, db, &models.Request{UserID: uuid.New(), Kind: enums.RequestKindProspectOrder, Subject: "c"})

	mine, err := repo.ListByUser(ctx, userID, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	kind := enums.RequestKindProspectOrder
	orders, err := repo.List(ctx, ListFilters{Kind: &kind})
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	status := enums.RequestStatusProcessing
	processing, err := repo.List(ctx, ListFilters{Kind: &kind, Status: &status})
	require.NoError(t, err)
	require.Len(t, processing, 1)
	assert.Equal(t, "b", processing[0].Subject)
}

func TestRepositoryUpdateStampsTimestamps(t *testing.T) {
	db := setupRequestsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := &models.Request{UserID: uuid.New(), Kind: enums.RequestKindProspectOrder, Subject: "order"}
	insertRequest(t, db, record)

	now := time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Update(ctx, record.ID, map[string]any{
		"status":       enums.RequestStatusProcessing,
		"processed_at": now,
	}))

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusProcessing, found.Status)
	require.NotNil(t, found.ProcessedAt)
	assert.True(t, found.ProcessedAt.Equal(now))
}

func TestRepositoryDelete(t *testing.T) {
	db := setupRequestsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := &models.Request{UserID: uuid.New(), Kind: enums.RequestKindSupportTicket, Subject: "zap"}
	insertRequest(t, db, record)

	require.NoError(t, repo.Delete(ctx, record.ID))
	_, err := repo.FindByID(ctx, record.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
