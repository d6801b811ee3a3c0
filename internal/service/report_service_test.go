package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/talenvo/talenvo-backend/internal/events"
	"github.com/talenvo/talenvo-backend/internal/models"
	"github.com/talenvo/talenvo-backend/internal/pkg/apperror"
	"github.com/talenvo/talenvo-backend/internal/repository"
)

// mockReportsRepository хранит жалобы в памяти.
type mockReportsRepository struct {
	reports []*models.Report
}

func (m *mockReportsRepository) Create(ctx context.Context, report *models.Report) error {
	report.ID = uuid.New()
	report.Status = models.ReportStatusPending
	report.CreatedAt = time.Now()
	m.reports = append(m.reports, report)
	return nil
}

func (m *mockReportsRepository) ExistsByReporterAndTarget(ctx context.Context, reporterID uuid.UUID, targetType models.TargetType, targetID uuid.UUID) (bool, error) {
	for _, r := range m.reports {
		if r.ReporterID == reporterID && r.TargetType == targetType && r.TargetID == targetID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockReportsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	for _, r := range m.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, repository.ErrReportNotFound
}

func (m *mockReportsRepository) ListByReporter(ctx context.Context, reporterID uuid.UUID, limit, offset int) ([]models.Report, error) {
	var out []models.Report
	for _, r := range m.reports {
		if r.ReporterID == reporterID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReportsRepository) ListPending(ctx context.Context, limit, offset int) ([]models.Report, error) {
	var out []models.Report
	for _, r := range m.reports {
		if r.Status == models.ReportStatusPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReportsRepository) CountByTarget(ctx context.Context, targetType models.TargetType, targetID uuid.UUID) (int, error) {
	count := 0
	for _, r := range m.reports {
		if r.TargetType == targetType && r.TargetID == targetID {
			count++
		}
	}
	return count, nil
}

func (m *mockReportsRepository) CountByTargets(ctx context.Context) ([]models.ReportTargetCount, error) {
	counts := make(map[models.TargetKey]int)
	for _, r := range m.reports {
		counts[models.TargetKey{Type: r.TargetType, ID: r.TargetID}]++
	}
	out := make([]models.ReportTargetCount, 0, len(counts))
	for key, count := range counts {
		out = append(out, models.ReportTargetCount{TargetType: key.Type, TargetID: key.ID, Count: count})
	}
	return out, nil
}

func (m *mockReportsRepository) Decide(ctx context.Context, reportID, reviewerID uuid.UUID, status string) (*models.Report, error) {
	for _, r := range m.reports {
		if r.ID == reportID {
			if r.Status != models.ReportStatusPending {
				return nil, repository.ErrReportAlreadyDecided
			}
			now := time.Now()
			r.Status = status
			r.ReviewedBy = &reviewerID
			r.ReviewedAt = &now
			return r, nil
		}
	}
	return nil, repository.ErrReportNotFound
}

func (m *mockReportsRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int)
	for _, r := range m.reports {
		out[r.Status]++
	}
	return out, nil
}

// mockPostSource хранит публикации для снимков.
type mockPostSource struct {
	posts map[uuid.UUID]*models.Post
}

func (m *mockPostSource) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	if p, ok := m.posts[id]; ok {
		return p, nil
	}
	return nil, repository.ErrPostNotFound
}

func (m *mockPostSource) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *mockPostSource) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.posts[id]
	return ok, nil
}

// mockCommentSource хранит комментарии для снимков.
type mockCommentSource struct {
	comments map[uuid.UUID]*models.Comment
}

func (m *mockCommentSource) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	if c, ok := m.comments[id]; ok {
		return c, nil
	}
	return nil, repository.ErrCommentNotFound
}

func (m *mockCommentSource) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.comments[id]; !ok {
		return repository.ErrCommentNotFound
	}
	delete(m.comments, id)
	return nil
}

// mockUserSource хранит пользователей и профили для снимков.
type mockUserSource struct {
	users    map[uuid.UUID]*models.User
	profiles map[uuid.UUID]*models.Profile
}

func (m *mockUserSource) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserSource) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return nil, repository.ErrUserNotFound
}

type reportServiceFixture struct {
	svc      *ReportService
	repo     *mockReportsRepository
	posts    *mockPostSource
	comments *mockCommentSource
	users    *mockUserSource
}

func newReportServiceForTest() *reportServiceFixture {
	repo := &mockReportsRepository{}
	posts := &mockPostSource{posts: make(map[uuid.UUID]*models.Post)}
	comments := &mockCommentSource{comments: make(map[uuid.UUID]*models.Comment)}
	users := &mockUserSource{users: make(map[uuid.UUID]*models.User), profiles: make(map[uuid.UUID]*models.Profile)}
	svc := NewReportService(repo, posts, comments, users, NewCacheService(), events.NewBus())
	return &reportServiceFixture{svc: svc, repo: repo, posts: posts, comments: comments, users: users}
}

func (f *reportServiceFixture) addPost() *models.Post {
	post := &models.Post{ID: uuid.New(), AuthorID: uuid.New(), Kind: models.PostKindPost, Content: "содержимое публикации"}
	f.posts.posts[post.ID] = post
	return post
}

func TestReportService_DuplicateSuppressed(t *testing.T) {
	f := newReportServiceForTest()
	ctx := context.Background()
	post := f.addPost()
	reporter := uuid.New()

	_, err := f.svc.Create(ctx, CreateReportInput{
		ReporterID: reporter,
		TargetType: models.TargetPost,
		TargetID:   post.ID,
		Reason:     "спам",
	})
	assert.NoError(t, err)

	_, err = f.svc.Create(ctx, CreateReportInput{
		ReporterID: reporter,
		TargetType: models.TargetPost,
		TargetID:   post.ID,
		Reason:     "спам повторно",
	})
	assert.True(t, apperror.IsDuplicate(err), "повторная жалоба должна подавляться")

	count, err := f.svc.CountByTarget(ctx, models.TargetPost, post.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, count, "агрегат не должен меняться от дубликата")
}

func TestReportService_DistinctReportersAggregate(t *testing.T) {
	f := newReportServiceForTest()
	ctx := context.Background()
	post := f.addPost()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(ctx, CreateReportInput{
			ReporterID: uuid.New(),
			TargetType: models.TargetPost,
			TargetID:   post.ID,
			Reason:     "оскорбления",
		})
		assert.NoError(t, err)
	}

	count, err := f.svc.CountByTarget(ctx, models.TargetPost, post.ID)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)

	counts, err := f.svc.CountByTargets(ctx)
	assert.NoError(t, err)
	assert.Len(t, counts, 1)
	assert.Equal(t, 3, counts[0].Count)
}

func TestReportService_MissingTargetRejected(t *testing.T) {
	f := newReportServiceForTest()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateReportInput{
		ReporterID: uuid.New(),
		TargetType: models.TargetPost,
		TargetID:   uuid.New(),
		Reason:     "спам",
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestReportService_QueueSnapshot(t *testing.T) {
	f := newReportServiceForTest()
	ctx := context.Background()
	post := f.addPost()
	f.users.users[post.AuthorID] = &models.User{ID: post.AuthorID, Username: "author"}
	f.users.profiles[post.AuthorID] = &models.Profile{UserID: post.AuthorID, DisplayName: "Автор"}

	_, err := f.svc.Create(ctx, CreateReportInput{
		ReporterID: uuid.New(),
		TargetType: models.TargetPost,
		TargetID:   post.ID,
		Reason:     "спам",
	})
	assert.NoError(t, err)

	items, err := f.svc.ListQueue(ctx, 20, 0)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.False(t, items[0].Snapshot.Missing)
	assert.Equal(t, "Автор", items[0].Snapshot.AuthorName)
	assert.Equal(t, 1, items[0].ReportCount)
}

func TestReportService_QueueSurvivesDeletedTarget(t *testing.T) {
	f := newReportServiceForTest()
	ctx := context.Background()
	post := f.addPost()

	_, err := f.svc.Create(ctx, CreateReportInput{
		ReporterID: uuid.New(),
		TargetType: models.TargetPost,
		TargetID:   post.ID,
		Reason:     "спам",
	})
	assert.NoError(t, err)

	// Цель удалили, жалоба остаётся в очереди с пометкой.
	delete(f.posts.posts, post.ID)

	items, err := f.svc.ListQueue(ctx, 20, 0)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.True(t, items[0].Snapshot.Missing)
	assert.Equal(t, "(удалено)", items[0].Snapshot.Title)
}

func TestReportService_ReasonValidation(t *testing.T) {
	f := newReportServiceForTest()
	ctx := context.Background()
	post := f.addPost()

	_, err := f.svc.Create(ctx, CreateReportInput{
		ReporterID: uuid.New(),
		TargetType: models.TargetPost,
		TargetID:   post.ID,
		Reason:     "",
	})
	assert.True(t, apperror.IsValidation(err))
}
