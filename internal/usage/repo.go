package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
)

// Repository handles usage counter persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Find(ctx context.Context, userID uuid.UUID, resource enums.Resource) (*models.UsageRecord, error)
	FindOrCreate(ctx context.Context, userID uuid.UUID, resource enums.Resource, periodStart time.Time) (*models.UsageRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UsageRecord, error)
	ListByResource(ctx context.Context, resource enums.Resource) ([]models.UsageRecord, error)
	IncrementCount(ctx context.Context, id uuid.UUID) error
	Reset(ctx context.Context, id uuid.UUID, periodStart time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a usage repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Find(ctx context.Context, userID uuid.UUID, resource enums.Resource) (*models.UsageRecord, error) {
	var record models.UsageRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND resource = ?", userID, resource).
		First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindOrCreate(ctx context.Context, userID uuid.UUID, resource enums.Resource, periodStart time.Time) (*models.UsageRecord, error) {
	record, err := r.Find(ctx, userID, resource)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}

	record = &models.UsageRecord{
		UserID:      userID,
		Resource:    resource,
		Count:       0,
		PeriodStart: periodStart,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UsageRecord, error) {
	var records []models.UsageRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("resource ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListByResource(ctx context.Context, resource enums.Resource) ([]models.UsageRecord, error) {
	var records []models.UsageRecord
	if err := r.db.WithContext(ctx).
		Where("resource = ?", resource).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) IncrementCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.UsageRecord{}).
		Where("id = ?", id).
		UpdateColumn("count", gorm.Expr("count + 1")).Error
}

func (r *repository) Reset(ctx context.Context, id uuid.UUID, periodStart time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.UsageRecord{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"count":        0,
			"period_start": periodStart,
		}).Error
}
