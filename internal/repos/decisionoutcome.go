package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

type DecisionOutcomeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, outcomes []*types.DecisionOutcome) ([]*types.DecisionOutcome, error)
	GetByProgressID(ctx context.Context, tx *gorm.DB, progressID uuid.UUID) ([]*types.DecisionOutcome, error)
}

type decisionOutcomeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDecisionOutcomeRepo(db *gorm.DB, baseLog *logger.Logger) DecisionOutcomeRepo {
	return &decisionOutcomeRepo{db: db, log: baseLog.With("repo", "DecisionOutcomeRepo")}
}

func (r *decisionOutcomeRepo) Create(ctx context.Context, tx *gorm.DB, outcomes []*types.DecisionOutcome) ([]*types.DecisionOutcome, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(outcomes) == 0 {
		return []*types.DecisionOutcome{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&outcomes).Error; err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (r *decisionOutcomeRepo) GetByProgressID(ctx context.Context, tx *gorm.DB, progressID uuid.UUID) ([]*types.DecisionOutcome, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.DecisionOutcome
	if progressID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("progress_id = ?", progressID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
