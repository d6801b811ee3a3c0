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

// LikeRepository отвечает за работу с таблицей likes.
type LikeRepository struct {
	db *sqlx.DB
}

// NewLikeRepository создаёт экземпляр репозитория.
func NewLikeRepository(db *sqlx.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Toggle переключает лайк в одной транзакции: строка либо удаляется,
// либо вставляется, затем счётчик на цели переписывается фактической
// мощностью отношения. Повторное переключение возвращает исходное
// состояние без дрейфа счётчика.
func (r *LikeRepository) Toggle(ctx context.Context, userID uuid.UUID, targetType models.TargetType, targetID uuid.UUID) (*models.ToggleResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("like repository: toggle begin tx %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM likes WHERE user_id = $1 AND target_type = $2 AND target_id = $3
	`, userID, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("like repository: toggle delete %w", err)
	}

	deleted, _ := result.RowsAffected()
	active := deleted == 0
	if active {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO likes (user_id, target_type, target_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, target_type, target_id) DO NOTHING
		`, userID, targetType, targetID); err != nil {
			return nil, fmt.Errorf("like repository: toggle insert %w", err)
		}
	}

	var count int
	if err := tx.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM likes WHERE target_type = $1 AND target_id = $2
	`, targetType, targetID); err != nil {
		return nil, fmt.Errorf("like repository: toggle count %w", err)
	}

	counterQuery := `UPDATE posts SET like_count = $1 WHERE id = $2`
	if targetType == models.TargetComment {
		counterQuery = `UPDATE comments SET like_count = $1 WHERE id = $2`
	}
	if _, err := tx.ExecContext(ctx, counterQuery, count, targetID); err != nil {
		return nil, fmt.Errorf("like repository: toggle counter %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("like repository: toggle commit %w", err)
	}

	return &models.ToggleResult{Active: active, Count: count}, nil
}

// Exists проверяет, стоит ли лайк пользователя на цели.
func (r *LikeRepository) Exists(ctx context.Context, userID uuid.UUID, targetType models.TargetType, targetID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND target_type = $2 AND target_id = $3)
	`, userID, targetType, targetID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("like repository: exists %w", err)
	}
	return exists, nil
}

// Count возвращает фактическое количество лайков цели.
func (r *LikeRepository) Count(ctx context.Context, targetType models.TargetType, targetID uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM likes WHERE target_type = $1 AND target_id = $2
	`, targetType, targetID); err != nil {
		return 0, fmt.Errorf("like repository: count %w", err)
	}
	return count, nil
}
