package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/cyberdrill-backend/internal/apierr"
	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/repos"
	"github.com/yungbote/cyberdrill-backend/internal/types"
	"github.com/yungbote/cyberdrill-backend/internal/utils"
)

// UpdateUserInput carries the mutable personalization fields; nil means
// leave unchanged.
type UpdateUserInput struct {
	FirstName          *string
	LastName           *string
	JobRole            *string
	Department         *string
	Industry           *string
	Location           *string
	CommunicationStyle *string
}

type UserService interface {
	Get(ctx context.Context, userID uuid.UUID) (*types.User, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      baseLog.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (s *userService) Get(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	if userID == uuid.Nil {
		return nil, apierr.InvalidInput("user id required")
	}
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user %s not found", userID)
	}
	return users[0], nil
}

func (s *userService) Update(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*types.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.JobRole != nil {
		user.JobRole = *input.JobRole
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.Industry != nil {
		user.Industry = *input.Industry
	}
	if input.Location != nil {
		user.Location = *input.Location
	}
	if input.CommunicationStyle != nil {
		user.CommunicationStyle = *input.CommunicationStyle
	}
	utils.NormalizeUserFields(user)
	if user.FirstName == "" || user.LastName == "" {
		return nil, apierr.InvalidInput("first and last name cannot be empty")
	}
	if err := s.userRepo.Update(ctx, nil, user); err != nil {
		return nil, apierr.Storage(err)
	}
	return user, nil
}
