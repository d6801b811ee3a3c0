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

// FollowRepository отвечает за работу с таблицей follows.
type FollowRepository struct {
	db *sqlx.DB
}

// NewFollowRepository создаёт экземпляр репозитория.
func NewFollowRepository(db *sqlx.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Toggle переключает подписку в одной транзакции и возвращает новое
// состояние вместе с фактическим числом подписчиков.
func (r *FollowRepository) Toggle(ctx context.Context, followerID, followedID uuid.UUID) (*models.ToggleResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("follow repository: toggle begin tx %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2
	`, followerID, followedID)
	if err != nil {
		return nil, fmt.Errorf("follow repository: toggle delete %w", err)
	}

	deleted, _ := result.RowsAffected()
	active := deleted == 0
	if active {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO follows (follower_id, followed_id)
			VALUES ($1, $2)
			ON CONFLICT (follower_id, followed_id) DO NOTHING
		`, followerID, followedID); err != nil {
			return nil, fmt.Errorf("follow repository: toggle insert %w", err)
		}
	}

	var count int
	if err := tx.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM follows WHERE followed_id = $1
	`, followedID); err != nil {
		return nil, fmt.Errorf("follow repository: toggle count %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("follow repository: toggle commit %w", err)
	}

	return &models.ToggleResult{Active: active, Count: count}, nil
}

// Exists проверяет, подписан ли follower на followed.
func (r *FollowRepository) Exists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2)
	`, followerID, followedID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("follow repository: exists %w", err)
	}
	return exists, nil
}

// CountFollowers возвращает число подписчиков пользователя.
func (r *FollowRepository) CountFollowers(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM follows WHERE followed_id = $1
	`, userID); err != nil {
		return 0, fmt.Errorf("follow repository: count followers %w", err)
	}
	return count, nil
}

// CountFollowing возвращает число подписок пользователя.
func (r *FollowRepository) CountFollowing(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM follows WHERE follower_id = $1
	`, userID); err != nil {
		return 0, fmt.Errorf("follow repository: count following %w", err)
	}
	return count, nil
}
