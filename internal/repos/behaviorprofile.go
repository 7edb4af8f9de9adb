package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

type BehaviorProfileRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.BehaviorProfile, error)
	Upsert(ctx context.Context, tx *gorm.DB, profile *types.BehaviorProfile) error
}

type behaviorProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBehaviorProfileRepo(db *gorm.DB, baseLog *logger.Logger) BehaviorProfileRepo {
	return &behaviorProfileRepo{db: db, log: baseLog.With("repo", "BehaviorProfileRepo")}
}

// GetByUserID returns nil (no error) when the user has no profile row yet;
// the service decides whether to lazily create defaults.
func (r *behaviorProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.BehaviorProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var result types.BehaviorProfile
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *behaviorProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, profile *types.BehaviorProfile) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if profile == nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(profile).Error
}
