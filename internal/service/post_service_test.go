package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/talenvo/talenvo-backend/internal/events"
	"github.com/talenvo/talenvo-backend/internal/models"
	"github.com/talenvo/talenvo-backend/internal/pkg/apperror"
	"github.com/talenvo/talenvo-backend/internal/repository"
)

// mockPostRepository хранит публикации в порядке создания.
type mockPostRepository struct {
	posts []*models.Post
}

func (m *mockPostRepository) Create(ctx context.Context, post *models.Post) error {
	post.ID = uuid.New()
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	m.posts = append(m.posts, post)
	return nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	for _, p := range m.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrPostNotFound
}

func (m *mockPostRepository) Update(ctx context.Context, post *models.Post) error {
	for i, p := range m.posts {
		if p.ID == post.ID {
			post.UpdatedAt = time.Now()
			m.posts[i] = post
			return nil
		}
	}
	return repository.ErrPostNotFound
}

func (m *mockPostRepository) List(ctx context.Context, limit, offset int) ([]models.Post, int, error) {
	total := len(m.posts)
	if offset >= total {
		return []models.Post{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]models.Post, 0, end-offset)
	for _, p := range m.posts[offset:end] {
		out = append(out, *p)
	}
	return out, total, nil
}

func (m *mockPostRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]models.Post, error) {
	var out []models.Post
	for _, p := range m.posts {
		if p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for i, p := range m.posts {
		if p.ID == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return nil
		}
	}
	return repository.ErrPostNotFound
}

func TestPostService_CreateValidation(t *testing.T) {
	svc := NewPostService(&mockPostRepository{}, events.NewBus())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreatePostInput{AuthorID: uuid.New(), Kind: "story", Content: "текст"}); !apperror.IsValidation(err) {
		t.Fatalf("неизвестный вид публикации должен отклоняться, получили %v", err)
	}

	if _, err := svc.Create(ctx, CreatePostInput{AuthorID: uuid.New(), Kind: models.PostKindPost, Content: "   "}); !apperror.IsValidation(err) {
		t.Fatalf("пустой текст должен отклоняться, получили %v", err)
	}

	long := strings.Repeat("а", 10001)
	if _, err := svc.Create(ctx, CreatePostInput{AuthorID: uuid.New(), Kind: models.PostKindPost, Content: long}); !apperror.IsValidation(err) {
		t.Fatalf("слишком длинный текст должен отклоняться, получили %v", err)
	}
}

func TestPostService_UpdateOnlyAuthor(t *testing.T) {
	repo := &mockPostRepository{}
	svc := NewPostService(repo, events.NewBus())
	ctx := context.Background()
	authorID := uuid.New()

	post, err := svc.Create(ctx, CreatePostInput{AuthorID: authorID, Kind: models.PostKindPost, Content: "исходный текст"})
	if err != nil {
		t.Fatalf("создание публикации вернуло ошибку: %v", err)
	}

	if _, err := svc.Update(ctx, uuid.New(), post.ID, "чужая правка", nil); !apperror.IsForbidden(err) {
		t.Fatalf("правка не автором должна отклоняться, получили %v", err)
	}

	updated, err := svc.Update(ctx, authorID, post.ID, "новый текст", nil)
	if err != nil {
		t.Fatalf("правка автором вернула ошибку: %v", err)
	}
	if updated.Content != "новый текст" {
		t.Fatalf("текст должен обновиться, получили %q", updated.Content)
	}
}

func TestPostService_DeleteByAdmin(t *testing.T) {
	repo := &mockPostRepository{}
	svc := NewPostService(repo, events.NewBus())
	ctx := context.Background()

	post, err := svc.Create(ctx, CreatePostInput{AuthorID: uuid.New(), Kind: models.PostKindVideo, Content: "видео"})
	if err != nil {
		t.Fatalf("создание публикации вернуло ошибку: %v", err)
	}

	stranger := &models.User{ID: uuid.New(), Status: models.UserStatusActive}
	if err := svc.Delete(ctx, stranger, post.ID); !apperror.IsForbidden(err) {
		t.Fatalf("чужой пользователь не должен удалять публикацию, получили %v", err)
	}

	admin := &models.User{ID: uuid.New(), Status: models.UserStatusActive, IsAdmin: true}
	if err := svc.Delete(ctx, admin, post.ID); err != nil {
		t.Fatalf("администратор должен удалять любую публикацию: %v", err)
	}

	if err := svc.Delete(ctx, admin, post.ID); !apperror.IsNotFound(err) {
		t.Fatalf("повторное удаление должно вернуть not found, получили %v", err)
	}
}

func TestPostService_ListPagination(t *testing.T) {
	repo := &mockPostRepository{}
	svc := NewPostService(repo, events.NewBus())
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		if _, err := svc.Create(ctx, CreatePostInput{AuthorID: uuid.New(), Kind: models.PostKindPost, Content: "публикация"}); err != nil {
			t.Fatalf("создание публикации вернуло ошибку: %v", err)
		}
	}

	page, err := svc.List(ctx, 20, 0)
	if err != nil {
		t.Fatalf("лента вернула ошибку: %v", err)
	}
	if len(page.Items) != 20 || !page.HasMore || page.Total != 30 {
		t.Fatalf("первая страница: ожидали 20 элементов и hasMore=true, получили %d и %v", len(page.Items), page.HasMore)
	}

	tail, err := svc.List(ctx, 20, 20)
	if err != nil {
		t.Fatalf("лента вернула ошибку: %v", err)
	}
	if len(tail.Items) != 10 || tail.HasMore {
		t.Fatalf("хвост ленты должен прийти с hasMore=false, получили %d и %v", len(tail.Items), tail.HasMore)
	}

	// Лимит за пределами допустимого приводится к дефолту.
	page, err = svc.List(ctx, -5, 0)
	if err != nil {
		t.Fatalf("лента вернула ошибку: %v", err)
	}
	if len(page.Items) != 20 {
		t.Fatalf("отрицательный лимит должен приводиться к 20, получили %d", len(page.Items))
	}
}
