package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/talenvo/talenvo-backend/internal/models"
	"github.com/talenvo/talenvo-backend/internal/pkg/apperror"
	"github.com/talenvo/talenvo-backend/internal/repository"
)

// LikeRepository описывает зависимости LikeService от слоя хранилища.
type LikeRepository interface {
	Toggle(ctx context.Context, userID uuid.UUID, targetType models.TargetType, targetID uuid.UUID) (*models.ToggleResult, error)
	Exists(ctx context.Context, userID uuid.UUID, targetType models.TargetType, targetID uuid.UUID) (bool, error)
	Count(ctx context.Context, targetType models.TargetType, targetID uuid.UUID) (int, error)
}

// FollowRepository описывает зависимости LikeService по подпискам.
type FollowRepository interface {
	Toggle(ctx context.Context, followerID, followedID uuid.UUID) (*models.ToggleResult, error)
	Exists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int, error)
}

// LikeTargetChecker проверяет существование целей лайков.
type LikeTargetChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// LikePostSource отдаёт публикации для сверки вида цели.
type LikePostSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
}

// LikeUserChecker проверяет существование пользователей.
type LikeUserChecker interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// LikeService инкапсулирует переключение лайков и подписок.
type LikeService struct {
	likes    LikeRepository
	follows  FollowRepository
	posts    LikePostSource
	comments LikeTargetChecker
	users    LikeUserChecker
}

// NewLikeService создаёт сервис лайков и подписок.
func NewLikeService(likes LikeRepository, follows FollowRepository, posts LikePostSource, comments LikeTargetChecker, users LikeUserChecker) *LikeService {
	return &LikeService{
		likes:    likes,
		follows:  follows,
		posts:    posts,
		comments: comments,
		users:    users,
	}
}

// ToggleLike переключает лайк на цели и возвращает новое состояние
// с фактическим счётчиком. Повторный вызов возвращает исходное состояние.
func (s *LikeService) ToggleLike(ctx context.Context, userID uuid.UUID, targetType models.TargetType, targetID uuid.UUID) (*models.ToggleResult, error) {
	if !targetType.Likeable() {
		return nil, apperror.New(apperror.ErrCodeValidation, "цель не поддерживает лайки")
	}

	if targetType == models.TargetComment {
		exists, err := s.comments.Exists(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperror.ErrCommentNotFound
		}
		return s.likes.Toggle(ctx, userID, targetType, targetID)
	}

	post, err := s.posts.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, apperror.ErrPostNotFound
		}
		return nil, err
	}
	// Посты и видео лежат в одной таблице, а лайки и их счётчик
	// ключуются по target_type: лайк под чужим видом цели дал бы
	// частичную мощность при пересчёте like_count.
	if post.Kind != string(targetType) {
		return nil, apperror.New(apperror.ErrCodeValidation, "вид цели не совпадает с видом публикации")
	}

	return s.likes.Toggle(ctx, userID, targetType, targetID)
}

// IsLiked сообщает, стоит ли лайк пользователя на цели.
func (s *LikeService) IsLiked(ctx context.Context, userID uuid.UUID, targetType models.TargetType, targetID uuid.UUID) (bool, error) {
	return s.likes.Exists(ctx, userID, targetType, targetID)
}

// ToggleFollow переключает подписку на пользователя.
// Подписка на себя не создаётся: вызов тихо возвращает текущее состояние.
func (s *LikeService) ToggleFollow(ctx context.Context, followerID, followedID uuid.UUID) (*models.ToggleResult, error) {
	if followerID == followedID {
		count, err := s.follows.CountFollowers(ctx, followedID)
		if err != nil {
			return nil, err
		}
		return &models.ToggleResult{Active: false, Count: count}, nil
	}

	if _, err := s.users.GetByID(ctx, followedID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	return s.follows.Toggle(ctx, followerID, followedID)
}

// IsFollowing сообщает, подписан ли follower на followed.
func (s *LikeService) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	return s.follows.Exists(ctx, followerID, followedID)
}
