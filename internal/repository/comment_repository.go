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

// ErrCommentNotFound возвращается, когда комментарий не найден.
var ErrCommentNotFound = errors.New("comment not found")

// CommentRepository отвечает за работу с таблицей comments.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository создаёт экземпляр репозитория.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create создаёт комментарий и пересчитывает comment_count публикации
// в той же транзакции. Счётчик всегда равен фактическому числу строк.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("comment repository: create begin tx %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO comments (post_id, author_id, content, parent_comment_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, like_count, created_at
	`
	if err := tx.QueryRowxContext(
		ctx, query,
		comment.PostID, comment.AuthorID, comment.Content, comment.ParentCommentID,
	).Scan(&comment.ID, &comment.LikeCount, &comment.CreatedAt); err != nil {
		return fmt.Errorf("comment repository: create %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE posts SET comment_count = (SELECT COUNT(*) FROM comments WHERE post_id = $1) WHERE id = $1
	`, comment.PostID); err != nil {
		return fmt.Errorf("comment repository: create recount %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("comment repository: create commit %w", err)
	}

	return nil
}

// GetByID возвращает комментарий по идентификатору.
func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	query := `
		SELECT id, post_id, author_id, content, parent_comment_id, like_count, created_at
		FROM comments
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("comment repository: get by id %w", err)
	}

	return &comment, nil
}

// ListByPost возвращает страницу комментариев публикации.
// Порядок created_at ASC, id ASC стабилен: соседние страницы не пересекаются.
func (r *CommentRepository) ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]models.Comment, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID); err != nil {
		return nil, 0, fmt.Errorf("comment repository: list by post count %w", err)
	}

	query := `
		SELECT id, post_id, author_id, content, parent_comment_id, like_count, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`

	var comments []models.Comment
	if err := r.db.SelectContext(ctx, &comments, query, postID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("comment repository: list by post %w", err)
	}

	return comments, total, nil
}

// Delete удаляет комментарий вместе с ответами и их лайками,
// затем пересчитывает comment_count публикации.
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("comment repository: delete begin tx %w", err)
	}
	defer tx.Rollback()

	var postID uuid.UUID
	if err := tx.GetContext(ctx, &postID, `SELECT post_id FROM comments WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("comment repository: delete lookup %w", err)
	}

	steps := []string{
		`DELETE FROM likes WHERE target_type = 'comment' AND target_id IN (SELECT id FROM comments WHERE parent_comment_id = $1)`,
		`DELETE FROM likes WHERE target_type = 'comment' AND target_id = $1`,
		`DELETE FROM comments WHERE parent_comment_id = $1`,
		`DELETE FROM comments WHERE id = $1`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("comment repository: delete cascade %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE posts SET comment_count = (SELECT COUNT(*) FROM comments WHERE post_id = $1) WHERE id = $1
	`, postID); err != nil {
		return fmt.Errorf("comment repository: delete recount %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("comment repository: delete commit %w", err)
	}

	return nil
}

// Exists проверяет существование комментария.
func (r *CommentRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1)`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("comment repository: exists %w", err)
	}
	return exists, nil
}
