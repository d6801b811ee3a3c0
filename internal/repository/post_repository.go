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

// ErrPostNotFound возвращается, когда публикация не найдена.
var ErrPostNotFound = errors.New("post not found")

// PostRepository отвечает за работу с таблицей posts.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository создаёт экземпляр репозитория.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create создаёт новую публикацию.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (author_id, kind, content, media_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, like_count, comment_count, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		post.AuthorID, post.Kind, post.Content, post.MediaID,
	).Scan(&post.ID, &post.LikeCount, &post.CommentCount, &post.CreatedAt, &post.UpdatedAt); err != nil {
		return fmt.Errorf("post repository: create %w", err)
	}

	return nil
}

// GetByID возвращает публикацию по идентификатору.
func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	query := `
		SELECT id, author_id, kind, content, media_id, like_count, comment_count, created_at, updated_at
		FROM posts
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("post repository: get by id %w", err)
	}

	return &post, nil
}

// Update обновляет текст и медиа публикации.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET content = $1, media_id = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(ctx, query, post.Content, post.MediaID, post.ID).Scan(&post.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPostNotFound
		}
		return fmt.Errorf("post repository: update %w", err)
	}

	return nil
}

// List возвращает страницу ленты в стабильном порядке.
// Сортировка created_at ASC, id ASC, поэтому две соседние страницы
// не пересекаются и не теряют строк.
func (r *PostRepository) List(ctx context.Context, limit, offset int) ([]models.Post, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts`); err != nil {
		return nil, 0, fmt.Errorf("post repository: list count %w", err)
	}

	query := `
		SELECT id, author_id, kind, content, media_id, like_count, comment_count, created_at, updated_at
		FROM posts
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2
	`

	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("post repository: list %w", err)
	}

	return posts, total, nil
}

// ListByAuthor возвращает публикации автора.
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]models.Post, error) {
	query := `
		SELECT id, author_id, kind, content, media_id, like_count, comment_count, created_at, updated_at
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`

	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, query, authorID, limit, offset); err != nil {
		return nil, fmt.Errorf("post repository: list by author %w", err)
	}

	return posts, nil
}

// Delete удаляет публикацию вместе с комментариями и лайками.
// Лайки на саму публикацию и на её комментарии удаляются в той же транзакции,
// жалобы на публикацию не трогаются.
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("post repository: delete begin tx %w", err)
	}
	defer tx.Rollback()

	steps := []string{
		`DELETE FROM likes WHERE target_type = 'comment' AND target_id IN (SELECT id FROM comments WHERE post_id = $1)`,
		`DELETE FROM likes WHERE target_type IN ('post', 'video') AND target_id = $1`,
		`DELETE FROM comments WHERE post_id = $1`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("post repository: delete cascade %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("post repository: delete %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrPostNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("post repository: delete commit %w", err)
	}

	return nil
}

// Exists проверяет существование публикации.
func (r *PostRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("post repository: exists %w", err)
	}
	return exists, nil
}

// CountPosts возвращает общее количество публикаций.
func (r *PostRepository) CountPosts(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts`); err != nil {
		return 0, fmt.Errorf("post repository: count posts %w", err)
	}
	return count, nil
}
