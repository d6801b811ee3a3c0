package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/talenvo/talenvo-backend/internal/models"
)

// ErrReportNotFound возвращается, когда жалоба не найдена.
var ErrReportNotFound = errors.New("report not found")

// ErrReportAlreadyDecided возвращается при попытке повторного решения.
var ErrReportAlreadyDecided = errors.New("report already decided")

// ReportRepository отвечает за работу с таблицей reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository создаёт экземпляр репозитория.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create сохраняет новую жалобу со статусом pending.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (reporter_id, target_type, target_id, reason, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		report.ReporterID, report.TargetType, report.TargetID,
		report.Reason, report.Description, models.ReportStatusPending,
	).Scan(&report.ID, &report.CreatedAt); err != nil {
		return fmt.Errorf("report repository: create %w", err)
	}
	report.Status = models.ReportStatusPending

	return nil
}

// ExistsByReporterAndTarget проверяет, жаловался ли уже пользователь на цель.
// Учитываются жалобы в любом статусе, решение не открывает цель заново.
func (r *ReportRepository) ExistsByReporterAndTarget(ctx context.Context, reporterID uuid.UUID, targetType models.TargetType, targetID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM reports WHERE reporter_id = $1 AND target_type = $2 AND target_id = $3)
	`, reporterID, targetType, targetID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("report repository: exists by reporter and target %w", err)
	}
	return exists, nil
}

// GetByID возвращает жалобу по идентификатору.
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	query := `
		SELECT id, reporter_id, target_type, target_id, reason, description, status, reviewed_by, reviewed_at, created_at
		FROM reports
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("report repository: get by id %w", err)
	}

	return &report, nil
}

// ListByReporter возвращает жалобы пользователя.
func (r *ReportRepository) ListByReporter(ctx context.Context, reporterID uuid.UUID, limit, offset int) ([]models.Report, error) {
	query := `
		SELECT id, reporter_id, target_type, target_id, reason, description, status, reviewed_by, reviewed_at, created_at
		FROM reports
		WHERE reporter_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var reports []models.Report
	if err := r.db.SelectContext(ctx, &reports, query, reporterID, limit, offset); err != nil {
		return nil, fmt.Errorf("report repository: list by reporter %w", err)
	}

	return reports, nil
}

// ListPending возвращает нерешённые жалобы для очереди модерации.
func (r *ReportRepository) ListPending(ctx context.Context, limit, offset int) ([]models.Report, error) {
	query := `
		SELECT id, reporter_id, target_type, target_id, reason, description, status, reviewed_by, reviewed_at, created_at
		FROM reports
		WHERE status = 'pending'
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2
	`

	var reports []models.Report
	if err := r.db.SelectContext(ctx, &reports, query, limit, offset); err != nil {
		return nil, fmt.Errorf("report repository: list pending %w", err)
	}

	return reports, nil
}

// CountByTarget возвращает количество жалоб на одну цель.
func (r *ReportRepository) CountByTarget(ctx context.Context, targetType models.TargetType, targetID uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM reports WHERE target_type = $1 AND target_id = $2
	`, targetType, targetID); err != nil {
		return 0, fmt.Errorf("report repository: count by target %w", err)
	}
	return count, nil
}

// CountByTargets возвращает количество жалоб по каждой цели.
func (r *ReportRepository) CountByTargets(ctx context.Context) ([]models.ReportTargetCount, error) {
	query := `
		SELECT target_type, target_id, COUNT(*) AS count
		FROM reports
		GROUP BY target_type, target_id
	`

	var counts []models.ReportTargetCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("report repository: count by targets %w", err)
	}

	return counts, nil
}

// Decide переводит жалобу из pending в терминальный статус.
// Условие status = 'pending' в UPDATE гарантирует, что решение
// принимается ровно один раз даже при гонке двух модераторов.
func (r *ReportRepository) Decide(ctx context.Context, reportID, reviewerID uuid.UUID, status string) (*models.Report, error) {
	var report models.Report
	query := `
		UPDATE reports
		SET status = $1, reviewed_by = $2, reviewed_at = NOW()
		WHERE id = $3 AND status = 'pending'
		RETURNING id, reporter_id, target_type, target_id, reason, description, status, reviewed_by, reviewed_at, created_at
	`
	if err := r.db.GetContext(ctx, &report, query, status, reviewerID, reportID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if e := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM reports WHERE id = $1)`, reportID); e == nil && exists {
				return nil, ErrReportAlreadyDecided
			}
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("report repository: decide %w", err)
	}

	return &report, nil
}

// CountByStatus возвращает количество жалоб по статусам.
func (r *ReportRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM reports GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("report repository: count by status %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("report repository: count by status scan %w", err)
		}
		counts[status] = count
	}

	return counts, nil
}
