package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/talenvo/talenvo-backend/internal/events"
	"github.com/talenvo/talenvo-backend/internal/models"
	"github.com/talenvo/talenvo-backend/internal/pkg/apperror"
	"github.com/talenvo/talenvo-backend/internal/repository"
	"github.com/talenvo/talenvo-backend/internal/validation"
)

// TTL агрегатов жалоб. Счётчики инвалидируются на каждой записи,
// TTL страхует только от пропущенной инвалидации.
const reportCountTTL = time.Minute

// ReportsRepository описывает зависимости ReportService от слоя хранилища.
type ReportsRepository interface {
	Create(ctx context.Context, report *models.Report) error
	ExistsByReporterAndTarget(ctx context.Context, reporterID uuid.UUID, targetType models.TargetType, targetID uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	ListByReporter(ctx context.Context, reporterID uuid.UUID, limit, offset int) ([]models.Report, error)
	ListPending(ctx context.Context, limit, offset int) ([]models.Report, error)
	CountByTarget(ctx context.Context, targetType models.TargetType, targetID uuid.UUID) (int, error)
	CountByTargets(ctx context.Context) ([]models.ReportTargetCount, error)
}

// ReportPostSource читает публикации для снимков целей.
type ReportPostSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
}

// ReportCommentSource читает комментарии для снимков целей.
type ReportCommentSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
}

// ReportUserSource читает пользователей и профили для снимков целей.
type ReportUserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// ReportService инкапсулирует подачу жалоб и их агрегацию.
type ReportService struct {
	repo     ReportsRepository
	posts    ReportPostSource
	comments ReportCommentSource
	users    ReportUserSource
	cache    *CacheService
	bus      *events.Bus
}

// CreateReportInput содержит данные новой жалобы.
type CreateReportInput struct {
	ReporterID  uuid.UUID
	TargetType  models.TargetType
	TargetID    uuid.UUID
	Reason      string
	Description *string
}

// QueueItem — жалоба в очереди модерации вместе со снимком цели
// и текущим числом жалоб на неё.
type QueueItem struct {
	Report      models.Report         `json:"report"`
	Snapshot    models.TargetSnapshot `json:"snapshot"`
	ReportCount int                   `json:"report_count"`
}

// NewReportService создаёт сервис жалоб.
func NewReportService(repo ReportsRepository, posts ReportPostSource, comments ReportCommentSource, users ReportUserSource, cache *CacheService, bus *events.Bus) *ReportService {
	return &ReportService{
		repo:     repo,
		posts:    posts,
		comments: comments,
		users:    users,
		cache:    cache,
		bus:      bus,
	}
}

// Create регистрирует жалобу.
// Повторная жалоба того же пользователя на ту же цель подавляется:
// возвращается ошибка дубликата, агрегат не меняется.
func (s *ReportService) Create(ctx context.Context, in CreateReportInput) (*models.Report, error) {
	if !in.TargetType.Valid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "неизвестный тип цели")
	}
	if err := validation.ValidateReportReason(in.Reason); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateReportDescription(in.Description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if err := s.checkTargetExists(ctx, in.TargetType, in.TargetID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByReporterAndTarget(ctx, in.ReporterID, in.TargetType, in.TargetID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.ErrDuplicateReport
	}

	report := &models.Report{
		ReporterID:  in.ReporterID,
		TargetType:  in.TargetType,
		TargetID:    in.TargetID,
		Reason:      in.Reason,
		Description: in.Description,
	}

	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}

	s.cache.InvalidateReportCache(in.TargetType, in.TargetID)
	s.bus.Publish(events.ReportCreated{ReportID: report.ID})

	return report, nil
}

// CountByTarget возвращает количество жалоб на цель через кэш.
func (s *ReportService) CountByTarget(ctx context.Context, targetType models.TargetType, targetID uuid.UUID) (int, error) {
	value, err := s.cache.GetOrSet(ctx, ReportCountCacheKey(targetType, targetID), reportCountTTL, func() (interface{}, error) {
		return s.repo.CountByTarget(ctx, targetType, targetID)
	})
	if err != nil {
		return 0, err
	}
	return value.(int), nil
}

// CountByTargets возвращает агрегат жалоб по всем целям через кэш.
func (s *ReportService) CountByTargets(ctx context.Context) ([]models.ReportTargetCount, error) {
	value, err := s.cache.GetOrSet(ctx, ReportCountsCacheKey(), reportCountTTL, func() (interface{}, error) {
		return s.repo.CountByTargets(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.ReportTargetCount), nil
}

// ListMyReports возвращает жалобы пользователя.
func (s *ReportService) ListMyReports(ctx context.Context, reporterID uuid.UUID, limit, offset int) ([]models.Report, error) {
	limit = normalizeLimit(limit)
	if offset < 0 {
		offset = 0
	}

	reports, err := s.repo.ListByReporter(ctx, reporterID, limit, offset)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports, nil
}

// ListQueue возвращает очередь модерации: нерешённые жалобы вместе
// со снимком цели и счётчиком жалоб. Удалённая цель не ломает очередь,
// жалоба показывается с пометкой Missing.
func (s *ReportService) ListQueue(ctx context.Context, limit, offset int) ([]QueueItem, error) {
	limit = normalizeLimit(limit)
	if offset < 0 {
		offset = 0
	}

	reports, err := s.repo.ListPending(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]QueueItem, 0, len(reports))
	for _, report := range reports {
		snapshot := s.resolveSnapshot(ctx, report.TargetType, report.TargetID)

		count, err := s.CountByTarget(ctx, report.TargetType, report.TargetID)
		if err != nil {
			return nil, err
		}

		items = append(items, QueueItem{
			Report:      report,
			Snapshot:    snapshot,
			ReportCount: count,
		})
	}

	return items, nil
}

// InvalidateTarget сбрасывает кэш агрегатов по цели.
// Вызывается модерацией после решения по жалобе.
func (s *ReportService) InvalidateTarget(targetType models.TargetType, targetID uuid.UUID) {
	s.cache.InvalidateReportCache(targetType, targetID)
}

// checkTargetExists проверяет, что цель жалобы существует.
func (s *ReportService) checkTargetExists(ctx context.Context, targetType models.TargetType, targetID uuid.UUID) error {
	switch targetType {
	case models.TargetPost, models.TargetVideo:
		if _, err := s.posts.GetByID(ctx, targetID); err != nil {
			if errors.Is(err, repository.ErrPostNotFound) {
				return apperror.ErrPostNotFound
			}
			return err
		}
	case models.TargetComment:
		if _, err := s.comments.GetByID(ctx, targetID); err != nil {
			if errors.Is(err, repository.ErrCommentNotFound) {
				return apperror.ErrCommentNotFound
			}
			return err
		}
	case models.TargetUser:
		if _, err := s.users.GetByID(ctx, targetID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return apperror.ErrUserNotFound
			}
			return err
		}
	}
	return nil
}

// resolveSnapshot собирает снимок цели на момент показа очереди.
func (s *ReportService) resolveSnapshot(ctx context.Context, targetType models.TargetType, targetID uuid.UUID) models.TargetSnapshot {
	missing := models.TargetSnapshot{Title: "(удалено)", AuthorName: "(неизвестно)", Missing: true}

	switch targetType {
	case models.TargetPost, models.TargetVideo:
		post, err := s.posts.GetByID(ctx, targetID)
		if err != nil {
			return missing
		}
		return models.TargetSnapshot{
			Title:      truncate(post.Content, 120),
			AuthorID:   &post.AuthorID,
			AuthorName: s.resolveAuthorName(ctx, post.AuthorID),
			PhotoID:    post.MediaID,
		}
	case models.TargetComment:
		comment, err := s.comments.GetByID(ctx, targetID)
		if err != nil {
			return missing
		}
		return models.TargetSnapshot{
			Title:      truncate(comment.Content, 120),
			AuthorID:   &comment.AuthorID,
			AuthorName: s.resolveAuthorName(ctx, comment.AuthorID),
		}
	case models.TargetUser:
		user, err := s.users.GetByID(ctx, targetID)
		if err != nil {
			return missing
		}
		snapshot := models.TargetSnapshot{
			Title:      user.Username,
			AuthorID:   &user.ID,
			AuthorName: user.Username,
		}
		if profile, err := s.users.GetProfile(ctx, user.ID); err == nil {
			snapshot.AuthorName = profile.DisplayName
			snapshot.PhotoID = profile.PhotoID
		}
		return snapshot
	}

	return missing
}

// resolveAuthorName возвращает отображаемое имя автора цели.
func (s *ReportService) resolveAuthorName(ctx context.Context, authorID uuid.UUID) string {
	if profile, err := s.users.GetProfile(ctx, authorID); err == nil && profile.DisplayName != "" {
		return profile.DisplayName
	}
	if user, err := s.users.GetByID(ctx, authorID); err == nil {
		return user.Username
	}
	return "(неизвестно)"
}

// truncate обрезает строку до limit рун.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
