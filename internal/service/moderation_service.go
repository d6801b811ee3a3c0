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

// ModerationReportRepository описывает операции решения по жалобам.
type ModerationReportRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	Decide(ctx context.Context, reportID, reviewerID uuid.UUID, status string) (*models.Report, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// ModerationContentRepository удаляет цели по решению модератора.
type ModerationContentRepository interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// ModerationUserRepository читает пользователей и считает их по статусам.
type ModerationUserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CountUsers(ctx context.Context) (map[string]int, error)
}

// ModerationService инкапсулирует решения по жалобам и санкции.
// Права проверяются по базе на каждом вызове, клейм в токене
// не считается доказательством.
type ModerationService struct {
	reports  ModerationReportRepository
	posts    ModerationContentRepository
	comments ModerationContentRepository
	users    ModerationUserRepository
	trust    *TrustService
	agg      *ReportService
	bus      *events.Bus
}

// ModerationCounts сводка для панели модерации.
type ModerationCounts struct {
	UsersByStatus   map[string]int `json:"users_by_status"`
	ReportsByStatus map[string]int `json:"reports_by_status"`
}

// NewModerationService создаёт сервис модерации.
func NewModerationService(
	reports ModerationReportRepository,
	posts ModerationContentRepository,
	comments ModerationContentRepository,
	users ModerationUserRepository,
	trust *TrustService,
	agg *ReportService,
	bus *events.Bus,
) *ModerationService {
	return &ModerationService{
		reports:  reports,
		posts:    posts,
		comments: comments,
		users:    users,
		trust:    trust,
		agg:      agg,
		bus:      bus,
	}
}

// Approve одобряет жалобу и удаляет цель.
// Решение принимается ровно один раз: повторный вызов получает конфликт.
// Уже удалённая цель считается выполненным решением, а не ошибкой.
// Для жалобы на пользователя аккаунт не удаляется, санкция отдельный шаг.
func (s *ModerationService) Approve(ctx context.Context, actorID, reportID uuid.UUID) (*models.Report, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	report, err := s.decide(ctx, actorID, reportID, models.ReportStatusApproved)
	if err != nil {
		return nil, err
	}

	if err := s.deleteTarget(ctx, report.TargetType, report.TargetID); err != nil {
		return nil, err
	}

	s.agg.InvalidateTarget(report.TargetType, report.TargetID)
	s.bus.Publish(events.ReportDecided{ReportID: report.ID, Status: report.Status})

	logger.Log.WithFields(map[string]interface{}{
		"report_id":   reportID,
		"reviewer_id": actorID,
		"target_type": report.TargetType,
		"target_id":   report.TargetID,
	}).Info("moderation service: жалоба одобрена")

	return report, nil
}

// Reject отклоняет жалобу. Цель не трогается.
func (s *ModerationService) Reject(ctx context.Context, actorID, reportID uuid.UUID) (*models.Report, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	report, err := s.decide(ctx, actorID, reportID, models.ReportStatusRejected)
	if err != nil {
		return nil, err
	}

	s.agg.InvalidateTarget(report.TargetType, report.TargetID)
	s.bus.Publish(events.ReportDecided{ReportID: report.ID, Status: report.Status})

	return report, nil
}

// SetUserStatus переводит пользователя в новый статус доверия.
// Бан и приостановка отзывают сессии немедленно.
func (s *ModerationService) SetUserStatus(ctx context.Context, actorID, userID uuid.UUID, status string) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.trust.SetStatus(ctx, userID, status)
}

// DeleteAccount удаляет аккаунт пользователя по решению модератора.
func (s *ModerationService) DeleteAccount(ctx context.Context, actorID, userID uuid.UUID) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.trust.DeleteAccount(ctx, userID)
}

// Counts возвращает сводку для панели модерации.
func (s *ModerationService) Counts(ctx context.Context, actorID uuid.UUID) (*ModerationCounts, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	usersByStatus, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	reportsByStatus, err := s.reports.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &ModerationCounts{
		UsersByStatus:   usersByStatus,
		ReportsByStatus: reportsByStatus,
	}, nil
}

// decide переводит жалобу в терминальный статус.
func (s *ModerationService) decide(ctx context.Context, actorID, reportID uuid.UUID, status string) (*models.Report, error) {
	report, err := s.reports.Decide(ctx, reportID, actorID, status)
	if err != nil {
		if errors.Is(err, repository.ErrReportAlreadyDecided) {
			return nil, apperror.ErrAlreadyDecided
		}
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, apperror.ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

// deleteTarget удаляет цель одобренной жалобы.
func (s *ModerationService) deleteTarget(ctx context.Context, targetType models.TargetType, targetID uuid.UUID) error {
	switch targetType {
	case models.TargetPost, models.TargetVideo:
		if err := s.posts.Delete(ctx, targetID); err != nil && !errors.Is(err, repository.ErrPostNotFound) {
			return err
		}
		s.bus.Publish(events.PostDeleted{PostID: targetID})
	case models.TargetComment:
		if err := s.comments.Delete(ctx, targetID); err != nil && !errors.Is(err, repository.ErrCommentNotFound) {
			return err
		}
	case models.TargetUser:
		// Аккаунт остаётся, решение о санкции принимается отдельно.
	}
	return nil
}

// requireAdmin перечитывает пользователя и проверяет права.
func (s *ModerationService) requireAdmin(ctx context.Context, actorID uuid.UUID) error {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.ErrUnauthorized
		}
		return err
	}

	if !actor.IsActive() {
		return statusError(actor.Status)
	}
	if !actor.IsAdmin {
		return apperror.ErrForbidden
	}

	return nil
}
