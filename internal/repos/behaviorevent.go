package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

// BehaviorEventRepo is append-only by design: the event log is the source of
// truth every behavior profile must be derivable from, so there is no update
// or delete surface here.
type BehaviorEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, events []*types.BehaviorEvent) ([]*types.BehaviorEvent, error)
	GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.BehaviorEvent, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.BehaviorEvent, error)
}

type behaviorEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBehaviorEventRepo(db *gorm.DB, baseLog *logger.Logger) BehaviorEventRepo {
	return &behaviorEventRepo{db: db, log: baseLog.With("repo", "BehaviorEventRepo")}
}

func (r *behaviorEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.BehaviorEvent) ([]*types.BehaviorEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(events) == 0 {
		return []*types.BehaviorEvent{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *behaviorEventRepo) GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.BehaviorEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.BehaviorEvent
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND occurred_at >= ?", userID, since).
		Order("occurred_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *behaviorEventRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.BehaviorEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.BehaviorEvent
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
