package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/talenvo/talenvo-backend/internal/models"
	"github.com/talenvo/talenvo-backend/internal/pkg/apperror"
	"github.com/talenvo/talenvo-backend/internal/repository"
	"github.com/talenvo/talenvo-backend/internal/validation"
)

// ProfileRepository описывает зависимости ProfileService от слоя хранилища.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
}

// ProfileService инкапсулирует чтение и редактирование профилей.
type ProfileService struct {
	repo    ProfileRepository
	follows FollowRepository
}

// UpdateProfileInput содержит данные обновления профиля.
type UpdateProfileInput struct {
	DisplayName string
	Bio         *string
	City        *string
	Interests   []string
	PhotoID     *uuid.UUID
}

// PublicProfile профиль вместе со счётчиками подписок.
type PublicProfile struct {
	User      *models.User    `json:"user"`
	Profile   *models.Profile `json:"profile,omitempty"`
	Followers int             `json:"followers"`
	Following int             `json:"following"`
}

// NewProfileService создаёт сервис профилей.
func NewProfileService(repo ProfileRepository, follows FollowRepository) *ProfileService {
	return &ProfileService{repo: repo, follows: follows}
}

// Get возвращает публичный профиль пользователя.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*PublicProfile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		profile = nil
	}

	followers, err := s.follows.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}

	following, err := s.follows.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &PublicProfile{
		User:      user,
		Profile:   profile,
		Followers: followers,
		Following: following,
	}, nil
}

// Update обновляет профиль пользователя.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.Profile, error) {
	if err := validation.ValidateDisplayName(in.DisplayName); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateBio(in.Bio); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateCity(in.City); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateInterests(in.Interests); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	interests := in.Interests
	if interests == nil {
		interests = []string{}
	}

	profile := &models.Profile{
		UserID:      userID,
		DisplayName: in.DisplayName,
		Bio:         in.Bio,
		City:        in.City,
		Interests:   interests,
		PhotoID:     in.PhotoID,
	}

	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}
