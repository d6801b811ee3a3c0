package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/talenvo/talenvo-backend/internal/models"
	"github.com/talenvo/talenvo-backend/internal/pkg/apperror"
	"github.com/talenvo/talenvo-backend/internal/repository"
)

// mockLikeRepository эмулирует переключение лайка поверх карты отношений.
type mockLikeRepository struct {
	relations map[string]bool
}

func newMockLikeRepository() *mockLikeRepository {
	return &mockLikeRepository{relations: make(map[string]bool)}
}

func likeKey(userID uuid.UUID, targetType models.TargetType, targetID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", userID, targetType, targetID)
}

func (m *mockLikeRepository) Toggle(ctx context.Context, userID uuid.UUID, targetType models.TargetType, targetID uuid.UUID) (*models.ToggleResult, error) {
	key := likeKey(userID, targetType, targetID)
	if m.relations[key] {
		delete(m.relations, key)
	} else {
		m.relations[key] = true
	}
	count, _ := m.Count(ctx, targetType, targetID)
	return &models.ToggleResult{Active: m.relations[key], Count: count}, nil
}

func (m *mockLikeRepository) Exists(ctx context.Context, userID uuid.UUID, targetType models.TargetType, targetID uuid.UUID) (bool, error) {
	return m.relations[likeKey(userID, targetType, targetID)], nil
}

func (m *mockLikeRepository) Count(ctx context.Context, targetType models.TargetType, targetID uuid.UUID) (int, error) {
	suffix := fmt.Sprintf(":%s:%s", targetType, targetID)
	count := 0
	for key, active := range m.relations {
		if active && len(key) > len(suffix) && key[len(key)-len(suffix):] == suffix {
			count++
		}
	}
	return count, nil
}

// mockFollowRepository эмулирует подписки.
type mockFollowRepository struct {
	relations map[string]bool
}

func newMockFollowRepository() *mockFollowRepository {
	return &mockFollowRepository{relations: make(map[string]bool)}
}

func followKey(followerID, followedID uuid.UUID) string {
	return followerID.String() + ":" + followedID.String()
}

func (m *mockFollowRepository) Toggle(ctx context.Context, followerID, followedID uuid.UUID) (*models.ToggleResult, error) {
	key := followKey(followerID, followedID)
	if m.relations[key] {
		delete(m.relations, key)
	} else {
		m.relations[key] = true
	}
	count, _ := m.CountFollowers(ctx, followedID)
	return &models.ToggleResult{Active: m.relations[key], Count: count}, nil
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	return m.relations[followKey(followerID, followedID)], nil
}

func (m *mockFollowRepository) CountFollowers(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	suffix := ":" + userID.String()
	for key, active := range m.relations {
		if active && key[len(key)-len(suffix):] == suffix {
			count++
		}
	}
	return count, nil
}

func (m *mockFollowRepository) CountFollowing(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	prefix := userID.String() + ":"
	for key, active := range m.relations {
		if active && key[:len(prefix)] == prefix {
			count++
		}
	}
	return count, nil
}

// mockTargetChecker отвечает на вопрос о существовании цели.
type mockTargetChecker struct {
	existing map[uuid.UUID]bool
}

func (m *mockTargetChecker) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.existing[id], nil
}

// mockUserChecker хранит пользователей по идентификатору.
type mockUserChecker struct {
	users map[uuid.UUID]*models.User
}

func (m *mockUserChecker) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func newLikeServiceForTest(postIDs ...uuid.UUID) (*LikeService, *mockFollowRepository, *mockUserChecker) {
	svc, _, follows, users := newLikeServiceFixture(postIDs...)
	return svc, follows, users
}

func newLikeServiceFixture(postIDs ...uuid.UUID) (*LikeService, *mockPostSource, *mockFollowRepository, *mockUserChecker) {
	posts := &mockPostSource{posts: make(map[uuid.UUID]*models.Post)}
	for _, id := range postIDs {
		posts.posts[id] = &models.Post{ID: id, AuthorID: uuid.New(), Kind: models.PostKindPost}
	}
	comments := &mockTargetChecker{existing: make(map[uuid.UUID]bool)}
	follows := newMockFollowRepository()
	users := &mockUserChecker{users: make(map[uuid.UUID]*models.User)}
	svc := NewLikeService(newMockLikeRepository(), follows, posts, comments, users)
	return svc, posts, follows, users
}

func TestLikeService_DoubleToggleRestoresState(t *testing.T) {
	postID := uuid.New()
	svc, _, _ := newLikeServiceForTest(postID)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.ToggleLike(ctx, userID, models.TargetPost, postID)
	if err != nil {
		t.Fatalf("первый toggle вернул ошибку: %v", err)
	}
	if !first.Active || first.Count != 1 {
		t.Fatalf("после первого toggle ожидалось active=true count=1, получили %+v", first)
	}

	second, err := svc.ToggleLike(ctx, userID, models.TargetPost, postID)
	if err != nil {
		t.Fatalf("второй toggle вернул ошибку: %v", err)
	}
	if second.Active || second.Count != 0 {
		t.Fatalf("двойной toggle должен вернуть исходное состояние, получили %+v", second)
	}
}

func TestLikeService_CountIsTrueCardinality(t *testing.T) {
	postID := uuid.New()
	svc, _, _ := newLikeServiceForTest(postID)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.ToggleLike(ctx, uuid.New(), models.TargetPost, postID); err != nil {
			t.Fatalf("toggle вернул ошибку: %v", err)
		}
	}

	res, err := svc.ToggleLike(ctx, uuid.New(), models.TargetPost, postID)
	if err != nil {
		t.Fatalf("toggle вернул ошибку: %v", err)
	}
	if res.Count != 4 {
		t.Fatalf("счётчик должен равняться числу лайкнувших, ожидали 4, получили %d", res.Count)
	}
}

func TestLikeService_MissingTarget(t *testing.T) {
	svc, _, _ := newLikeServiceForTest()
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, uuid.New(), models.TargetPost, uuid.New())
	if !apperror.IsNotFound(err) {
		t.Fatalf("лайк несуществующей цели должен вернуть not found, получили %v", err)
	}
}

func TestLikeService_TargetKindMismatch(t *testing.T) {
	f, posts, _, _ := newLikeServiceFixture()
	ctx := context.Background()

	videoID := uuid.New()
	posts.posts[videoID] = &models.Post{ID: videoID, AuthorID: uuid.New(), Kind: models.PostKindVideo}

	// Лайк видео под видом поста перезаписал бы like_count частичной
	// мощностью, поэтому несовпадение вида отклоняется.
	if _, err := f.ToggleLike(ctx, uuid.New(), models.TargetPost, videoID); !apperror.IsValidation(err) {
		t.Fatalf("лайк с чужим видом цели должен отклоняться валидацией, получили %v", err)
	}

	res, err := f.ToggleLike(ctx, uuid.New(), models.TargetVideo, videoID)
	if err != nil {
		t.Fatalf("лайк с совпадающим видом вернул ошибку: %v", err)
	}
	if !res.Active || res.Count != 1 {
		t.Fatalf("ожидалось active=true count=1, получили %+v", res)
	}
}

func TestLikeService_UserTargetNotLikeable(t *testing.T) {
	svc, _, _ := newLikeServiceForTest()
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, uuid.New(), models.TargetUser, uuid.New())
	if !apperror.IsValidation(err) {
		t.Fatalf("лайк пользователя должен отклоняться валидацией, получили %v", err)
	}
}

func TestLikeService_SelfFollowIsNoop(t *testing.T) {
	svc, follows, _ := newLikeServiceForTest()
	ctx := context.Background()
	userID := uuid.New()

	res, err := svc.ToggleFollow(ctx, userID, userID)
	if err != nil {
		t.Fatalf("подписка на себя не должна возвращать ошибку: %v", err)
	}
	if res.Active {
		t.Fatalf("подписка на себя не должна создаваться")
	}
	if len(follows.relations) != 0 {
		t.Fatalf("отношение подписки на себя не должно появляться в хранилище")
	}
}

func TestLikeService_FollowToggle(t *testing.T) {
	svc, _, users := newLikeServiceForTest()
	ctx := context.Background()

	follower := uuid.New()
	followed := uuid.New()
	users.users[followed] = &models.User{ID: followed, Status: models.UserStatusActive}

	res, err := svc.ToggleFollow(ctx, follower, followed)
	if err != nil {
		t.Fatalf("подписка вернула ошибку: %v", err)
	}
	if !res.Active || res.Count != 1 {
		t.Fatalf("ожидалось active=true count=1, получили %+v", res)
	}

	res, err = svc.ToggleFollow(ctx, follower, followed)
	if err != nil {
		t.Fatalf("отписка вернула ошибку: %v", err)
	}
	if res.Active || res.Count != 0 {
		t.Fatalf("повторный toggle должен снять подписку, получили %+v", res)
	}
}

func TestLikeService_FollowMissingUser(t *testing.T) {
	svc, _, _ := newLikeServiceForTest()
	ctx := context.Background()

	_, err := svc.ToggleFollow(ctx, uuid.New(), uuid.New())
	if !apperror.IsNotFound(err) {
		t.Fatalf("подписка на несуществующего пользователя должна вернуть not found, получили %v", err)
	}
}
