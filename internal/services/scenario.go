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
	"github.com/yungbote/cyberdrill-backend/internal/content"
	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/repos"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

// DecisionResult is what a submitted decision produces: the mutated
// progress plus the immediate outcome for the client to display.
type DecisionResult struct {
	Progress      *types.ScenarioProgress `json:"progress"`
	Outcome       string                  `json:"outcome"`
	PointsAwarded int                     `json:"points_awarded"`
	IsCorrect     bool                    `json:"is_correct"`
	NextStep      string                  `json:"next_step"`
	Completed     bool                    `json:"completed"`
}

type ScenarioService interface {
	SeedLibrary(ctx context.Context) error
	List(ctx context.Context) ([]*types.TrainingScenario, error)
	ListByCategory(ctx context.Context, category string) ([]*types.TrainingScenario, error)
	Get(ctx context.Context, id uuid.UUID) (*types.TrainingScenario, error)
	Start(ctx context.Context, userID, scenarioID uuid.UUID) (*types.ScenarioProgress, error)
	Decide(ctx context.Context, userID, progressID uuid.UUID, decision string) (*DecisionResult, error)
	ProgressForUser(ctx context.Context, userID uuid.UUID) ([]*types.ScenarioProgress, error)
	Outcomes(ctx context.Context, progressID uuid.UUID) ([]*types.DecisionOutcome, error)
}

type scenarioService struct {
	db            *gorm.DB
	log           *logger.Logger
	library       *content.Library
	scenarioRepo  repos.TrainingScenarioRepo
	progressRepo  repos.ScenarioProgressRepo
	outcomeRepo   repos.DecisionOutcomeRepo
	behavior      BehaviorService
	progressLocks *keyedMutex
}

func NewScenarioService(db *gorm.DB, baseLog *logger.Logger, library *content.Library, scenarioRepo repos.TrainingScenarioRepo, progressRepo repos.ScenarioProgressRepo, outcomeRepo repos.DecisionOutcomeRepo, behavior BehaviorService) ScenarioService {
	return &scenarioService{
		db:            db,
		log:           baseLog.With("service", "ScenarioService"),
		library:       library,
		scenarioRepo:  scenarioRepo,
		progressRepo:  progressRepo,
		outcomeRepo:   outcomeRepo,
		behavior:      behavior,
		progressLocks: newKeyedMutex(),
	}
}

// SeedLibrary persists the embedded scenario library on first boot. A
// non-empty table means the library (possibly curated since) is left alone.
func (s *scenarioService) SeedLibrary(ctx context.Context) error {
	count, err := s.scenarioRepo.CountAll(ctx, nil)
	if err != nil {
		return apierr.Storage(err)
	}
	if count > 0 {
		return nil
	}
	scenarios := make([]*types.TrainingScenario, 0, len(s.library.Scenarios))
	for _, seed := range s.library.Scenarios {
		graphJSON, err := json.Marshal(seed.Graph)
		if err != nil {
			return apierr.Content("encode scenario %q: %v", seed.Title, err)
		}
		scenarios = append(scenarios, &types.TrainingScenario{
			ID:           uuid.New(),
			Title:        seed.Title,
			Category:     seed.Category,
			Difficulty:   seed.Difficulty,
			AIAdaptive:   seed.AIAdaptive,
			ScenarioData: datatypes.JSON(graphJSON),
		})
	}
	if _, err := s.scenarioRepo.Create(ctx, nil, scenarios); err != nil {
		return apierr.Storage(err)
	}
	s.log.Info("seeded scenario library", "count", len(scenarios))
	return nil
}

func (s *scenarioService) List(ctx context.Context) ([]*types.TrainingScenario, error) {
	scenarios, err := s.scenarioRepo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	return scenarios, nil
}

func (s *scenarioService) ListByCategory(ctx context.Context, category string) ([]*types.TrainingScenario, error) {
	scenarios, err := s.scenarioRepo.GetByCategory(ctx, nil, category)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	return scenarios, nil
}

func (s *scenarioService) Get(ctx context.Context, id uuid.UUID) (*types.TrainingScenario, error) {
	scenario, err := s.scenarioRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("scenario %s not found", id)
		}
		return nil, apierr.Storage(err)
	}
	return scenario, nil
}

func (s *scenarioService) Start(ctx context.Context, userID, scenarioID uuid.UUID) (*types.ScenarioProgress, error) {
	if userID == uuid.Nil {
		return nil, apierr.InvalidInput("user id required")
	}
	scenario, err := s.Get(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	// Reject malformed content before a progress row exists for it.
	if _, err := types.ParseScenarioGraph(scenario.ScenarioData); err != nil {
		return nil, apierr.Content("scenario %s: %v", scenarioID, err)
	}
	progress := &types.ScenarioProgress{
		ID:            uuid.New(),
		UserID:        userID,
		ScenarioID:    scenarioID,
		CurrentStep:   types.StartStep,
		Score:         0,
		DecisionsMade: datatypes.JSON([]byte("[]")),
		Status:        types.ProgressInProgress,
		StartedAt:     time.Now().UTC(),
	}
	if _, err := s.progressRepo.Create(ctx, nil, progress); err != nil {
		return nil, apierr.Storage(err)
	}
	return progress, nil
}

// AdvanceProgress applies one decision to an in-progress attempt: adds the
// points, appends to the decision log, and either moves to the next step or
// completes the attempt on the terminal marker. An unknown decision returns
// a state error with progress untouched.
func AdvanceProgress(progress *types.ScenarioProgress, graph *types.ScenarioGraph, decision string) (types.ScenarioDecision, bool, error) {
	step, ok := graph.Steps[progress.CurrentStep]
	if !ok {
		return types.ScenarioDecision{}, false, apierr.Content("progress %s points at missing step %q", progress.ID, progress.CurrentStep)
	}
	chosen, ok := step.Decisions[decision]
	if !ok {
		return types.ScenarioDecision{}, false, apierr.State("decision %q is not available at step %q", decision, progress.CurrentStep)
	}

	var made []types.DecisionRecord
	if len(progress.DecisionsMade) > 0 {
		if err := json.Unmarshal(progress.DecisionsMade, &made); err != nil {
			return types.ScenarioDecision{}, false, apierr.Content("progress %s has a corrupt decision log: %v", progress.ID, err)
		}
	}
	made = append(made, types.DecisionRecord{Step: progress.CurrentStep, Decision: decision})
	madeJSON, _ := json.Marshal(made)

	progress.Score += chosen.Points
	progress.DecisionsMade = datatypes.JSON(madeJSON)

	completed := chosen.NextStep == types.TerminalStep
	if completed {
		progress.Status = types.ProgressCompleted
		progress.CompletionRate = 100
		now := time.Now().UTC()
		progress.CompletedAt = &now
	} else {
		progress.CurrentStep = chosen.NextStep
	}
	return chosen, completed, nil
}

// Decide applies one decision to a progress row. Concurrent submissions for
// the same progress are serialized; exactly one mutation per call.
func (s *scenarioService) Decide(ctx context.Context, userID, progressID uuid.UUID, decision string) (*DecisionResult, error) {
	if decision == "" {
		return nil, apierr.InvalidInput("decision required")
	}

	unlock := s.progressLocks.Lock(progressID)
	defer unlock()

	var result *DecisionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress, err := s.progressRepo.GetByID(ctx, tx, progressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("progress %s not found", progressID)
			}
			return apierr.Storage(err)
		}
		if userID != uuid.Nil && progress.UserID != userID {
			return apierr.NotFound("progress %s not found", progressID)
		}
		if progress.Status == types.ProgressCompleted {
			return apierr.State("scenario already completed")
		}

		scenario, err := s.scenarioRepo.GetByID(ctx, tx, progress.ScenarioID)
		if err != nil {
			return apierr.Storage(err)
		}
		graph, err := types.ParseScenarioGraph(scenario.ScenarioData)
		if err != nil {
			return apierr.Content("scenario %s: %v", progress.ScenarioID, err)
		}
		stepID := progress.CurrentStep
		chosen, completed, aErr := AdvanceProgress(progress, graph, decision)
		if aErr != nil {
			return aErr
		}
		if err := s.progressRepo.Update(ctx, tx, progress); err != nil {
			return apierr.Storage(err)
		}

		outcome := &types.DecisionOutcome{
			ID:            uuid.New(),
			ProgressID:    progress.ID,
			StepID:        stepID,
			Decision:      decision,
			Outcome:       chosen.Outcome,
			PointsAwarded: chosen.Points,
			IsCorrect:     chosen.Correct,
		}
		if _, err := s.outcomeRepo.Create(ctx, tx, []*types.DecisionOutcome{outcome}); err != nil {
			return apierr.Storage(err)
		}

		result = &DecisionResult{
			Progress:      progress,
			Outcome:       chosen.Outcome,
			PointsAwarded: chosen.Points,
			IsCorrect:     chosen.Correct,
			NextStep:      chosen.NextStep,
			Completed:     completed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Feed the decision into the behavior log outside the scenario
	// transaction; a failure here never rolls back the decision itself,
	// but the lost event is surfaced to the caller.
	if err := recordEventWithRetry(ctx, s.log, s.behavior, RecordEventInput{
		UserID:         result.Progress.UserID,
		EventKind:      types.EventDecision,
		SimulationType: "scenario",
		Context: map[string]any{
			"progress_id": progressID.String(),
			"decision":    decision,
			"correct":     result.IsCorrect,
			"points":      result.PointsAwarded,
		},
	}); err != nil {
		return result, err
	}
	return result, nil
}

func (s *scenarioService) ProgressForUser(ctx context.Context, userID uuid.UUID) ([]*types.ScenarioProgress, error) {
	if userID == uuid.Nil {
		return nil, apierr.InvalidInput("user id required")
	}
	progress, err := s.progressRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	return progress, nil
}

func (s *scenarioService) Outcomes(ctx context.Context, progressID uuid.UUID) ([]*types.DecisionOutcome, error) {
	outcomes, err := s.outcomeRepo.GetByProgressID(ctx, nil, progressID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	return outcomes, nil
}
