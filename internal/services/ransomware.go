package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/cyberdrill-backend/internal/apierr"
	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/repos"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

// Scoring constants for a completed drill: start from 100, subtract one
// point per elapsed minute (capped) and a flat penalty per wrong action.
const (
	sequenceBaseScore      = 100.0
	sequenceTimePenaltyCap = 30.0
	sequenceErrorPenalty   = 10.0
)

type ExecuteActionInput struct {
	UserID       uuid.UUID
	RunID        uuid.UUID
	Action       string
	ResponseTime *float64
}

// ActionResult reports what one executed action did to the run.
type ActionResult struct {
	Run        *types.SimulationRun `json:"run"`
	Correct    bool                 `json:"correct"`
	StepNumber int                  `json:"step_number"`
	StepTitle  string               `json:"step_title"`
	Completed  bool                 `json:"completed"`
	FinalScore float64              `json:"final_score"`
}

// RunState is the read view of a run: the run row plus the step the user is
// currently expected to perform.
type RunState struct {
	Run         *types.SimulationRun         `json:"run"`
	CurrentStep *types.SequenceStep          `json:"current_step,omitempty"`
	StepRecords []*types.SimulationStepRecord `json:"step_records"`
}

type RansomwareService interface {
	CreateSimulation(ctx context.Context, userID uuid.UUID, scenarioType string, difficulty int) (*types.SimulationRun, error)
	ExecuteAction(ctx context.Context, input ExecuteActionInput) (*ActionResult, error)
	GetRunState(ctx context.Context, userID, runID uuid.UUID) (*RunState, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.SimulationRun, error)
}

type ransomwareService struct {
	db       *gorm.DB
	log      *logger.Logger
	runRepo  repos.SimulationRunRepo
	content  ContentService
	behavior BehaviorService
	runLocks *keyedMutex
}

func NewRansomwareService(db *gorm.DB, baseLog *logger.Logger, runRepo repos.SimulationRunRepo, contentSvc ContentService, behavior BehaviorService) RansomwareService {
	return &ransomwareService{
		db:       db,
		log:      baseLog.With("service", "RansomwareService"),
		runRepo:  runRepo,
		content:  contentSvc,
		behavior: behavior,
		runLocks: newKeyedMutex(),
	}
}

func (s *ransomwareService) CreateSimulation(ctx context.Context, userID uuid.UUID, scenarioType string, difficulty int) (*types.SimulationRun, error) {
	if userID == uuid.Nil {
		return nil, apierr.InvalidInput("user id required")
	}
	if scenarioType == "" {
		scenarioType = "crypto_locker"
	}
	if difficulty < 1 {
		difficulty = 1
	}
	if difficulty > 5 {
		difficulty = 5
	}

	sequence, err := s.content.GenerateSequence(ctx, scenarioType, difficulty)
	if err != nil {
		return nil, err
	}
	sequenceJSON, err := json.Marshal(sequence)
	if err != nil {
		return nil, apierr.Content("encode sequence for %q: %v", scenarioType, err)
	}

	run := &types.SimulationRun{
		ID:              uuid.New(),
		UserID:          userID,
		ScenarioType:    scenarioType,
		DifficultyLevel: difficulty,
		CurrentStep:     0,
		TotalSteps:      len(sequence.Steps),
		SequenceData:    datatypes.JSON(sequenceJSON),
		StepsCompleted:  datatypes.JSON([]byte("[]")),
		CreatedAt:       time.Now().UTC(),
	}
	if _, err := s.runRepo.Create(ctx, nil, run); err != nil {
		return nil, apierr.Storage(err)
	}
	return run, nil
}

func (s *ransomwareService) ExecuteAction(ctx context.Context, input ExecuteActionInput) (*ActionResult, error) {
	if input.Action == "" {
		return nil, apierr.InvalidInput("action required")
	}

	unlock := s.runLocks.Lock(input.RunID)
	defer unlock()

	var result *ActionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run, err := s.loadRun(ctx, tx, input.UserID, input.RunID)
		if err != nil {
			return err
		}
		if run.IsCompleted {
			// Score and state are frozen once the drill finishes.
			return apierr.State("simulation already completed")
		}

		sequence, err := runSequence(run)
		if err != nil {
			return err
		}
		record, res, err := ApplyAction(run, sequence, input.Action, input.ResponseTime)
		if err != nil {
			return err
		}
		if err := s.runRepo.CreateStepRecord(ctx, tx, record); err != nil {
			return apierr.Storage(err)
		}
		if err := s.runRepo.Update(ctx, tx, run); err != nil {
			return apierr.Storage(err)
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Every executed action lands in the behavior log, wrong ones included.
	if err := recordEventWithRetry(ctx, s.log, s.behavior, RecordEventInput{
		UserID:         result.Run.UserID,
		EventKind:      types.EventStepAction,
		SimulationType: "ransomware",
		ResponseTime:   input.ResponseTime,
		Context: map[string]any{
			"run_id":  input.RunID.String(),
			"action":  input.Action,
			"correct": result.Correct,
			"step":    result.StepNumber,
		},
	}); err != nil {
		// The run mutation above is committed; the lost event is surfaced
		// so the caller knows the behavior log is behind.
		return result, err
	}
	return result, nil
}

// ApplyAction applies one submitted action to an in-progress run. A correct
// action completes the current step, logs its id, and adds the submitted
// response time to the run's cumulative elapsed time; a wrong action counts
// as an incorrect attempt and adds no time. Completing the last step freezes
// the final score.
func ApplyAction(run *types.SimulationRun, sequence *types.StepSequence, action string, responseTime *float64) (*types.SimulationStepRecord, *ActionResult, error) {
	if run.CurrentStep >= len(sequence.Steps) {
		return nil, nil, apierr.Content("run %s step index %d out of range", run.ID, run.CurrentStep)
	}
	required := sequence.Steps[run.CurrentStep]
	correct := action == required.Action

	stepTime := 0.0
	if responseTime != nil && *responseTime > 0 {
		stepTime = *responseTime
	}
	record := &types.SimulationStepRecord{
		ID:          uuid.New(),
		RunID:       run.ID,
		StepNumber:  required.ID,
		ActionTaken: action,
		IsCorrect:   correct,
		TimeTaken:   stepTime,
	}

	completed := false
	if correct {
		var done []int
		if len(run.StepsCompleted) > 0 {
			if err := json.Unmarshal(run.StepsCompleted, &done); err != nil {
				return nil, nil, apierr.Content("run %s has a corrupt step log: %v", run.ID, err)
			}
		}
		done = append(done, required.ID)
		doneJSON, _ := json.Marshal(done)
		run.StepsCompleted = datatypes.JSON(doneJSON)
		run.TimeTaken += stepTime
		run.CurrentStep++
		if run.CurrentStep >= run.TotalSteps {
			completed = true
		}
	} else {
		run.IncorrectActions++
	}

	if completed {
		run.IsCompleted = true
		run.FinalScore = FinalScore(run.TimeTaken, run.IncorrectActions)
		now := time.Now().UTC()
		run.CompletedAt = &now
	}

	return record, &ActionResult{
		Run:        run,
		Correct:    correct,
		StepNumber: required.ID,
		StepTitle:  required.Title,
		Completed:  completed,
		FinalScore: run.FinalScore,
	}, nil
}

// FinalScore computes the drill score: 100 minus one point per elapsed
// minute (capped at 30) minus 10 per incorrect action, floored at zero.
func FinalScore(elapsedSeconds float64, incorrectActions int) float64 {
	timePenalty := elapsedSeconds / 60.0
	if timePenalty > sequenceTimePenaltyCap {
		timePenalty = sequenceTimePenaltyCap
	}
	score := sequenceBaseScore - timePenalty - sequenceErrorPenalty*float64(incorrectActions)
	if score < 0 {
		return 0
	}
	return score
}

func (s *ransomwareService) GetRunState(ctx context.Context, userID, runID uuid.UUID) (*RunState, error) {
	run, err := s.loadRun(ctx, nil, userID, runID)
	if err != nil {
		return nil, err
	}
	records, err := s.runRepo.GetStepRecords(ctx, nil, runID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	state := &RunState{Run: run, StepRecords: records}
	if !run.IsCompleted {
		sequence, err := runSequence(run)
		if err != nil {
			return nil, err
		}
		if run.CurrentStep < len(sequence.Steps) {
			step := sequence.Steps[run.CurrentStep]
			state.CurrentStep = &step
		}
	}
	return state, nil
}

func (s *ransomwareService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.SimulationRun, error) {
	if userID == uuid.Nil {
		return nil, apierr.InvalidInput("user id required")
	}
	runs, err := s.runRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	return runs, nil
}

func (s *ransomwareService) loadRun(ctx context.Context, tx *gorm.DB, userID, runID uuid.UUID) (*types.SimulationRun, error) {
	run, err := s.runRepo.GetByID(ctx, tx, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("simulation %s not found", runID)
		}
		return nil, apierr.Storage(err)
	}
	if userID != uuid.Nil && run.UserID != userID {
		return nil, apierr.NotFound("simulation %s not found", runID)
	}
	return run, nil
}

func runSequence(run *types.SimulationRun) (*types.StepSequence, error) {
	var sequence types.StepSequence
	if err := json.Unmarshal(run.SequenceData, &sequence); err != nil {
		return nil, apierr.Content("run %s has a corrupt sequence: %v", run.ID, err)
	}
	if len(sequence.Steps) == 0 {
		return nil, apierr.Content("run %s has an empty sequence", run.ID)
	}
	return &sequence, nil
}
