package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/talenvo/talenvo-backend/internal/events"
	"github.com/talenvo/talenvo-backend/internal/models"
	"github.com/talenvo/talenvo-backend/internal/pkg/apperror"
	"github.com/talenvo/talenvo-backend/internal/repository"
)

// mockCommentRepository хранит комментарии в порядке создания.
type mockCommentRepository struct {
	comments []*models.Comment
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = uuid.New()
	comment.CreatedAt = time.Now()
	m.comments = append(m.comments, comment)
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	for _, c := range m.comments {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repository.ErrCommentNotFound
}

func (m *mockCommentRepository) ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]models.Comment, int, error) {
	var all []models.Comment
	for _, c := range m.comments {
		if c.PostID == postID {
			all = append(all, *c)
		}
	}

	total := len(all)
	if offset >= total {
		return []models.Comment{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for i, c := range m.comments {
		if c.ID == id {
			m.comments = append(m.comments[:i], m.comments[i+1:]...)
			return nil
		}
	}
	return repository.ErrCommentNotFound
}

func newCommentServiceForTest(postID uuid.UUID) (*CommentService, *mockCommentRepository) {
	repo := &mockCommentRepository{}
	posts := &mockTargetChecker{existing: map[uuid.UUID]bool{postID: true}}
	return NewCommentService(repo, posts, events.NewBus()), repo
}

func TestCommentService_ReplyFlattening(t *testing.T) {
	postID := uuid.New()
	svc, _ := newCommentServiceForTest(postID)
	ctx := context.Background()

	top, err := svc.Create(ctx, CreateCommentInput{
		PostID:   postID,
		AuthorID: uuid.New(),
		Content:  "корневой комментарий",
	})
	if err != nil {
		t.Fatalf("создание комментария вернуло ошибку: %v", err)
	}

	reply, err := svc.Create(ctx, CreateCommentInput{
		PostID:          postID,
		AuthorID:        uuid.New(),
		Content:         "ответ",
		ParentCommentID: &top.ID,
	})
	if err != nil {
		t.Fatalf("создание ответа вернуло ошибку: %v", err)
	}
	if reply.ParentCommentID == nil || *reply.ParentCommentID != top.ID {
		t.Fatalf("ответ должен ссылаться на корневой комментарий")
	}

	// Ответ на ответ прикрепляется к комментарию верхнего уровня.
	deep, err := svc.Create(ctx, CreateCommentInput{
		PostID:          postID,
		AuthorID:        uuid.New(),
		Content:         "ответ на ответ",
		ParentCommentID: &reply.ID,
	})
	if err != nil {
		t.Fatalf("создание вложенного ответа вернуло ошибку: %v", err)
	}
	if deep.ParentCommentID == nil || *deep.ParentCommentID != top.ID {
		t.Fatalf("вложенный ответ должен выпрямляться к корню ветки, получили %v", deep.ParentCommentID)
	}
}

func TestCommentService_ReplyToOtherPostRejected(t *testing.T) {
	postID := uuid.New()
	otherPostID := uuid.New()
	repo := &mockCommentRepository{}
	posts := &mockTargetChecker{existing: map[uuid.UUID]bool{postID: true, otherPostID: true}}
	svc := NewCommentService(repo, posts, events.NewBus())
	ctx := context.Background()

	parent, err := svc.Create(ctx, CreateCommentInput{PostID: otherPostID, AuthorID: uuid.New(), Content: "чужая ветка"})
	if err != nil {
		t.Fatalf("создание комментария вернуло ошибку: %v", err)
	}

	_, err = svc.Create(ctx, CreateCommentInput{
		PostID:          postID,
		AuthorID:        uuid.New(),
		Content:         "ответ не туда",
		ParentCommentID: &parent.ID,
	})
	if !apperror.IsValidation(err) {
		t.Fatalf("ответ в чужую публикацию должен отклоняться, получили %v", err)
	}
}

func TestCommentService_PaginationHasMore(t *testing.T) {
	postID := uuid.New()
	svc, _ := newCommentServiceForTest(postID)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		if _, err := svc.Create(ctx, CreateCommentInput{
			PostID:   postID,
			AuthorID: uuid.New(),
			Content:  fmt.Sprintf("комментарий %d", i),
		}); err != nil {
			t.Fatalf("создание комментария вернуло ошибку: %v", err)
		}
	}

	first, err := svc.ListByPost(ctx, postID, 20, 0)
	if err != nil {
		t.Fatalf("первая страница вернула ошибку: %v", err)
	}
	if len(first.Items) != 20 || !first.HasMore || first.Total != 25 {
		t.Fatalf("первая страница: ожидали 20 элементов и hasMore=true, получили %d и %v", len(first.Items), first.HasMore)
	}

	second, err := svc.ListByPost(ctx, postID, 20, 20)
	if err != nil {
		t.Fatalf("вторая страница вернула ошибку: %v", err)
	}
	if len(second.Items) != 5 || second.HasMore {
		t.Fatalf("страница, закрывающая хвост, должна прийти с hasMore=false, получили %d и %v", len(second.Items), second.HasMore)
	}
}

func TestCommentService_DeleteForbiddenForStranger(t *testing.T) {
	postID := uuid.New()
	svc, _ := newCommentServiceForTest(postID)
	ctx := context.Background()

	comment, err := svc.Create(ctx, CreateCommentInput{PostID: postID, AuthorID: uuid.New(), Content: "текст"})
	if err != nil {
		t.Fatalf("создание комментария вернуло ошибку: %v", err)
	}

	stranger := &models.User{ID: uuid.New(), Status: models.UserStatusActive}
	if err := svc.Delete(ctx, stranger, comment.ID); !apperror.IsForbidden(err) {
		t.Fatalf("чужой пользователь не должен удалять комментарий, получили %v", err)
	}

	admin := &models.User{ID: uuid.New(), Status: models.UserStatusActive, IsAdmin: true}
	if err := svc.Delete(ctx, admin, comment.ID); err != nil {
		t.Fatalf("администратор должен удалять любой комментарий: %v", err)
	}
}
