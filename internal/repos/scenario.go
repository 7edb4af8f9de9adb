package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

type TrainingScenarioRepo interface {
	Create(ctx context.Context, tx *gorm.DB, scenarios []*types.TrainingScenario) ([]*types.TrainingScenario, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TrainingScenario, error)
	GetByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.TrainingScenario, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.TrainingScenario, error)
	CountAll(ctx context.Context, tx *gorm.DB) (int64, error)
}

type trainingScenarioRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrainingScenarioRepo(db *gorm.DB, baseLog *logger.Logger) TrainingScenarioRepo {
	return &trainingScenarioRepo{db: db, log: baseLog.With("repo", "TrainingScenarioRepo")}
}

func (r *trainingScenarioRepo) Create(ctx context.Context, tx *gorm.DB, scenarios []*types.TrainingScenario) ([]*types.TrainingScenario, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(scenarios) == 0 {
		return []*types.TrainingScenario{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&scenarios).Error; err != nil {
		return nil, err
	}
	return scenarios, nil
}

func (r *trainingScenarioRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TrainingScenario, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.TrainingScenario
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *trainingScenarioRepo) GetByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.TrainingScenario, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.TrainingScenario
	if err := transaction.WithContext(ctx).
		Where("category = ?", category).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trainingScenarioRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.TrainingScenario, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.TrainingScenario
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trainingScenarioRepo) CountAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.TrainingScenario{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
