package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

type ScenarioProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, progress *types.ScenarioProgress) (*types.ScenarioProgress, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ScenarioProgress, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ScenarioProgress, error)
	Update(ctx context.Context, tx *gorm.DB, progress *types.ScenarioProgress) error
}

type scenarioProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScenarioProgressRepo(db *gorm.DB, baseLog *logger.Logger) ScenarioProgressRepo {
	return &scenarioProgressRepo{db: db, log: baseLog.With("repo", "ScenarioProgressRepo")}
}

func (r *scenarioProgressRepo) Create(ctx context.Context, tx *gorm.DB, progress *types.ScenarioProgress) (*types.ScenarioProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if progress == nil {
		return nil, nil
	}
	if err := transaction.WithContext(ctx).Create(progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

func (r *scenarioProgressRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ScenarioProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.ScenarioProgress
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *scenarioProgressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ScenarioProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ScenarioProgress
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scenarioProgressRepo) Update(ctx context.Context, tx *gorm.DB, progress *types.ScenarioProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if progress == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(progress).Error
}
