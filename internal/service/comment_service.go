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

// CommentRepository описывает зависимости CommentService от слоя хранилища.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]models.Comment, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentPostChecker проверяет существование публикации.
type CommentPostChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// CommentService инкапсулирует бизнес-логику комментариев.
type CommentService struct {
	repo  CommentRepository
	posts CommentPostChecker
	bus   *events.Bus
}

// CreateCommentInput содержит данные нового комментария.
type CreateCommentInput struct {
	PostID          uuid.UUID
	AuthorID        uuid.UUID
	Content         string
	ParentCommentID *uuid.UUID
}

// NewCommentService создаёт сервис комментариев.
func NewCommentService(repo CommentRepository, posts CommentPostChecker, bus *events.Bus) *CommentService {
	return &CommentService{repo: repo, posts: posts, bus: bus}
}

// Create создаёт комментарий или ответ.
// Вложенность один уровень: ответ на ответ прикрепляется к комментарию
// верхнего уровня той же ветки.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validation.ValidateCommentContent(in.Content); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	exists, err := s.posts.Exists(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.ErrPostNotFound
	}

	parentID := in.ParentCommentID
	if parentID != nil {
		parent, err := s.repo.GetByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, repository.ErrCommentNotFound) {
				return nil, apperror.ErrCommentNotFound
			}
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, apperror.New(apperror.ErrCodeValidation, "родительский комментарий относится к другой публикации")
		}
		// Выпрямление ветки: родителем становится комментарий верхнего уровня.
		if parent.ParentCommentID != nil {
			parentID = parent.ParentCommentID
		}
	}

	comment := &models.Comment{
		PostID:          in.PostID,
		AuthorID:        in.AuthorID,
		Content:         in.Content,
		ParentCommentID: parentID,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.bus.Publish(events.CommentCreated{CommentID: comment.ID, PostID: comment.PostID})

	return comment, nil
}

// ListByPost возвращает страницу комментариев публикации.
// hasMore вычисляется как offset + len(items) < total, поэтому страница,
// закрывающая хвост, приходит с hasMore = false.
func (s *CommentService) ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) (*models.CommentPage, error) {
	limit = normalizeLimit(limit)
	if offset < 0 {
		offset = 0
	}

	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.ErrPostNotFound
	}

	comments, total, err := s.repo.ListByPost(ctx, postID, limit, offset)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	return &models.CommentPage{
		Items:   comments,
		HasMore: offset+len(comments) < total,
		Total:   total,
	}, nil
}

// Delete удаляет комментарий. Разрешено автору или администратору.
func (s *CommentService) Delete(ctx context.Context, actor *models.User, commentID uuid.UUID) error {
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return apperror.ErrCommentNotFound
		}
		return err
	}

	if comment.AuthorID != actor.ID && !actor.IsAdmin {
		return apperror.ErrForbidden
	}

	if err := s.repo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return apperror.ErrCommentNotFound
		}
		return err
	}

	s.bus.Publish(events.CommentDeleted{CommentID: commentID, PostID: comment.PostID})

	return nil
}
