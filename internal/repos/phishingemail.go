package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

type PhishingEmailRepo interface {
	Create(ctx context.Context, tx *gorm.DB, email *types.PhishingEmail) (*types.PhishingEmail, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PhishingEmail, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.PhishingEmail, error)
	Update(ctx context.Context, tx *gorm.DB, email *types.PhishingEmail) error
}

type phishingEmailRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPhishingEmailRepo(db *gorm.DB, baseLog *logger.Logger) PhishingEmailRepo {
	return &phishingEmailRepo{db: db, log: baseLog.With("repo", "PhishingEmailRepo")}
}

func (r *phishingEmailRepo) Create(ctx context.Context, tx *gorm.DB, email *types.PhishingEmail) (*types.PhishingEmail, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if email == nil {
		return nil, nil
	}
	if err := transaction.WithContext(ctx).Create(email).Error; err != nil {
		return nil, err
	}
	return email, nil
}

func (r *phishingEmailRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PhishingEmail, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.PhishingEmail
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *phishingEmailRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.PhishingEmail, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.PhishingEmail
	if userID == uuid.Nil {
		return results, nil
	}
	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *phishingEmailRepo) Update(ctx context.Context, tx *gorm.DB, email *types.PhishingEmail) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if email == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(email).Error
}
