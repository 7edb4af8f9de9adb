package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

type SimulationRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.SimulationRun) (*types.SimulationRun, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SimulationRun, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SimulationRun, error)
	Update(ctx context.Context, tx *gorm.DB, run *types.SimulationRun) error
	CreateStepRecord(ctx context.Context, tx *gorm.DB, record *types.SimulationStepRecord) error
	GetStepRecords(ctx context.Context, tx *gorm.DB, runID uuid.UUID) ([]*types.SimulationStepRecord, error)
}

type simulationRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSimulationRunRepo(db *gorm.DB, baseLog *logger.Logger) SimulationRunRepo {
	return &simulationRunRepo{db: db, log: baseLog.With("repo", "SimulationRunRepo")}
}

func (r *simulationRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.SimulationRun) (*types.SimulationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if run == nil {
		return nil, nil
	}
	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *simulationRunRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SimulationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.SimulationRun
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *simulationRunRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SimulationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SimulationRun
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *simulationRunRepo) Update(ctx context.Context, tx *gorm.DB, run *types.SimulationRun) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if run == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(run).Error
}

func (r *simulationRunRepo) CreateStepRecord(ctx context.Context, tx *gorm.DB, record *types.SimulationStepRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if record == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(record).Error
}

func (r *simulationRunRepo) GetStepRecords(ctx context.Context, tx *gorm.DB, runID uuid.UUID) ([]*types.SimulationStepRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SimulationStepRecord
	if runID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
