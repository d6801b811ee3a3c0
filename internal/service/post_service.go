package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/talenvo/talenvo-backend/internal/events"
	"github.com/talenvo/talenvo-backend/internal/models"
	"github.com/talenvo/talenvo-backend/internal/pkg/apperror"
	"github.com/talenvo/talenvo-backend/internal/repository"
	"github.com/talenvo/talenvo-backend/internal/validation"
)

// PostRepository описывает зависимости PostService от слоя хранилища.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	List(ctx context.Context, limit, offset int) ([]models.Post, int, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostService инкапсулирует бизнес-логику публикаций.
type PostService struct {
	repo PostRepository
	bus  *events.Bus
}

// CreatePostInput содержит данные новой публикации.
type CreatePostInput struct {
	AuthorID uuid.UUID
	Kind     string
	Content  string
	MediaID  *uuid.UUID
}

// PostPage страница ленты.
type PostPage struct {
	Items   []models.Post `json:"items"`
	HasMore bool          `json:"has_more"`
	Total   int           `json:"total"`
}

// NewPostService создаёт сервис публикаций.
func NewPostService(repo PostRepository, bus *events.Bus) *PostService {
	return &PostService{repo: repo, bus: bus}
}

// Create создаёт публикацию.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if _, ok := models.ValidPostKinds[in.Kind]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "неизвестный вид публикации")
	}
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	post := &models.Post{
		AuthorID: in.AuthorID,
		Kind:     in.Kind,
		Content:  in.Content,
		MediaID:  in.MediaID,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.bus.Publish(events.PostCreated{PostID: post.ID, AuthorID: post.AuthorID})

	return post, nil
}

// GetByID возвращает публикацию.
func (s *PostService) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, apperror.ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// Update редактирует публикацию. Разрешено только автору.
func (s *PostService) Update(ctx context.Context, actorID, postID uuid.UUID, content string, mediaID *uuid.UUID) (*models.Post, error) {
	if err := validation.ValidatePostContent(content); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	post, err := s.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != actorID {
		return nil, apperror.ErrForbidden
	}

	post.Content = content
	post.MediaID = mediaID

	if err := s.repo.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, apperror.ErrPostNotFound
		}
		return nil, err
	}

	s.bus.Publish(events.PostUpdated{PostID: post.ID})

	return post, nil
}

// Delete удаляет публикацию. Разрешено автору или администратору.
func (s *PostService) Delete(ctx context.Context, actor *models.User, postID uuid.UUID) error {
	post, err := s.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != actor.ID && !actor.IsAdmin {
		return apperror.ErrForbidden
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return apperror.ErrPostNotFound
		}
		return err
	}

	s.bus.Publish(events.PostDeleted{PostID: postID})

	return nil
}

// List возвращает страницу ленты.
// hasMore вычисляется как offset + len(items) < total.
func (s *PostService) List(ctx context.Context, limit, offset int) (*PostPage, error) {
	limit = normalizeLimit(limit)
	if offset < 0 {
		offset = 0
	}

	posts, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}

	return &PostPage{
		Items:   posts,
		HasMore: offset+len(posts) < total,
		Total:   total,
	}, nil
}

// ListByAuthor возвращает публикации автора.
func (s *PostService) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]models.Post, error) {
	limit = normalizeLimit(limit)
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByAuthor(ctx, authorID, limit, offset)
}

// normalizeLimit приводит размер страницы к допустимому диапазону.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
