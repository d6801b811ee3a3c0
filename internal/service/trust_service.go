package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/talenvo/talenvo-backend/internal/events"
	"github.com/talenvo/talenvo-backend/internal/logger"
	"github.com/talenvo/talenvo-backend/internal/models"
	"github.com/talenvo/talenvo-backend/internal/pkg/apperror"
	"github.com/talenvo/talenvo-backend/internal/repository"
)

// TrustRepository описывает зависимости TrustService от слоя хранилища.
type TrustRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, status string) error
	DeleteAllSessions(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// TrustService управляет статусом доверия пользователя.
type TrustService struct {
	repo TrustRepository
	bus  *events.Bus
}

// NewTrustService создаёт сервис статусов доверия.
func NewTrustService(repo TrustRepository, bus *events.Bus) *TrustService {
	return &TrustService{repo: repo, bus: bus}
}

// SetStatus переводит пользователя в новый статус доверия.
// Перевод в suspended или banned немедленно отзывает все сессии,
// токен на руках перестаёт работать на следующем запросе.
// Повторный перевод в тот же статус безопасен.
func (s *TrustService) SetStatus(ctx context.Context, userID uuid.UUID, status string) error {
	if _, ok := models.ValidUserStatuses[status]; !ok {
		return apperror.New(apperror.ErrCodeValidation, "неизвестный статус пользователя")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.ErrUserNotFound
		}
		return err
	}

	if user.Status == status {
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, userID, status); err != nil {
		return err
	}

	if status != models.UserStatusActive {
		if err := s.repo.DeleteAllSessions(ctx, userID); err != nil {
			return err
		}
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id": userID,
		"from":    user.Status,
		"to":      status,
	}).Info("trust service: статус пользователя изменён")

	s.bus.Publish(events.UserStatusChanged{UserID: userID, Status: status})

	return nil
}

// DeleteAccount удаляет аккаунт вместе с контентом и сессиями.
// Жалобы на пользователя остаются в истории модерации.
func (s *TrustService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.ErrUserNotFound
		}
		return err
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id": userID,
	}).Info("trust service: аккаунт удалён")

	return nil
}
