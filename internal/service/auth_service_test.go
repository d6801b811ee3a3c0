package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/talenvo/talenvo-backend/internal/models"
	"github.com/talenvo/talenvo-backend/internal/pkg/apperror"
	"github.com/talenvo/talenvo-backend/internal/repository"
)

// mockAuthRepository реализует AuthRepository для тестов.
type mockAuthRepository struct {
	usersByEmail map[string]*models.User
	usersByID    map[uuid.UUID]*models.User
	profiles     map[uuid.UUID]*models.Profile
	sessions     map[string]*models.Session
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[uuid.UUID]*models.User),
		profiles:     make(map[uuid.UUID]*models.Profile),
		sessions:     make(map[string]*models.Session),
	}
}

func (m *mockAuthRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Status = models.UserStatusActive
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockAuthRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if profile, ok := m.profiles[userID]; ok {
		return profile, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockAuthRepository) CreateSession(ctx context.Context, session *models.Session) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockAuthRepository) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	if session, ok := m.sessions[refreshToken]; ok {
		return session, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	delete(m.sessions, refreshToken)
	return nil
}

func (m *mockAuthRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if user, ok := m.usersByID[userID]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

func (m *mockAuthRepository) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	var sessions []models.Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			sessions = append(sessions, *s)
		}
	}
	return sessions, nil
}

func (m *mockAuthRepository) DeleteSessionByID(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) error {
	for token, s := range m.sessions {
		if s.ID == sessionID && s.UserID == userID {
			delete(m.sessions, token)
			return nil
		}
	}
	return nil
}

func (m *mockAuthRepository) DeleteAllSessions(ctx context.Context, userID uuid.UUID) error {
	for token, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, token)
		}
	}
	return nil
}

func newAuthServiceForTest() (*AuthService, *mockAuthRepository) {
	repo := newMockAuthRepository()
	tokenManager := NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	return NewAuthService(repo, tokenManager), repo
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	service, repo := newAuthServiceForTest()
	ctx := context.Background()

	res, err := service.Register(ctx, RegisterInput{
		Email:    "test@example.com",
		Password: "Password123",
	}, map[string]string{"ip": "127.0.0.1"})
	if err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}

	if res.User.ID == uuid.Nil {
		t.Fatalf("user ID должен быть установлен")
	}
	if res.Profile == nil || res.Profile.DisplayName == "" {
		t.Fatalf("профиль должен быть создан")
	}
	if len(repo.sessions) != 1 {
		t.Fatalf("ожидалась одна сессия, получили %d", len(repo.sessions))
	}

	loginRes, err := service.Login(ctx, LoginInput{
		Email:    "test@example.com",
		Password: "Password123",
	}, nil)
	if err != nil {
		t.Fatalf("login вернул ошибку: %v", err)
	}
	if loginRes.TokenPair.AccessToken == "" {
		t.Fatalf("ожидался access токен")
	}
}

func TestAuthService_DuplicateEmail(t *testing.T) {
	service, _ := newAuthServiceForTest()
	ctx := context.Background()

	if _, err := service.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "Password123"}, nil); err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}

	_, err := service.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "Password123"}, nil)
	if !apperror.IsDuplicate(err) {
		t.Fatalf("повторная регистрация должна вернуть дубликат, получили %v", err)
	}
}

func TestAuthService_LoginBannedAccount(t *testing.T) {
	service, repo := newAuthServiceForTest()
	ctx := context.Background()

	if _, err := service.Register(ctx, RegisterInput{Email: "banned@example.com", Password: "Password123"}, nil); err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}
	repo.usersByEmail["banned@example.com"].Status = models.UserStatusBanned

	_, err := service.Login(ctx, LoginInput{Email: "banned@example.com", Password: "Password123"}, nil)
	if !apperror.IsAccountStatus(err) {
		t.Fatalf("вход в заблокированный аккаунт должен отклоняться по статусу, получили %v", err)
	}

	// Неверный пароль не должен раскрывать статус аккаунта.
	_, err = service.Login(ctx, LoginInput{Email: "banned@example.com", Password: "WrongPass123"}, nil)
	if apperror.IsAccountStatus(err) {
		t.Fatalf("неверный пароль не должен раскрывать статус аккаунта")
	}
}

func TestAuthService_CurrentUserFailClosed(t *testing.T) {
	service, repo := newAuthServiceForTest()
	ctx := context.Background()

	res, err := service.Register(ctx, RegisterInput{Email: "active@example.com", Password: "Password123"}, nil)
	if err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}

	if _, err := service.CurrentUser(ctx, res.User.ID); err != nil {
		t.Fatalf("активный пользователь должен проходить проверку: %v", err)
	}

	// Токен на руках ничего не гарантирует: после бана проверка закрывается.
	repo.usersByID[res.User.ID].Status = models.UserStatusSuspended
	if _, err := service.CurrentUser(ctx, res.User.ID); !apperror.IsAccountStatus(err) {
		t.Fatalf("после приостановки CurrentUser должен отклонять, получили %v", err)
	}
}

func TestAuthService_RefreshRotatesSession(t *testing.T) {
	service, repo := newAuthServiceForTest()
	tokenManager := service.tokenManager
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		Username:     "user",
		PasswordHash: string(hash),
		Status:       models.UserStatusActive,
	}
	repo.usersByEmail[user.Email] = user
	repo.usersByID[user.ID] = user

	tokenPair, accessExp, refreshExp, err := tokenManager.GeneratePair(user)
	if err != nil {
		t.Fatalf("не удалось сгенерировать токены: %v", err)
	}
	if accessExp.After(refreshExp) {
		t.Fatalf("access должен истекать раньше refresh")
	}

	repo.sessions[tokenPair.RefreshToken] = &models.Session{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    refreshExp,
	}

	newPair, err := service.Refresh(ctx, tokenPair.RefreshToken, nil)
	if err != nil {
		t.Fatalf("refresh вернул ошибку: %v", err)
	}
	if newPair.RefreshToken == tokenPair.RefreshToken {
		t.Fatalf("ожидался новый refresh токен")
	}
	if _, ok := repo.sessions[tokenPair.RefreshToken]; ok {
		t.Fatalf("старая сессия должна быть удалена")
	}
}

func TestAuthService_RefreshRevokedSession(t *testing.T) {
	service, repo := newAuthServiceForTest()
	ctx := context.Background()

	res, err := service.Register(ctx, RegisterInput{Email: "revoked@example.com", Password: "Password123"}, nil)
	if err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}

	// Сессию отозвали (бан отзывает все сразу).
	if err := repo.DeleteAllSessions(ctx, res.User.ID); err != nil {
		t.Fatalf("не удалось удалить сессии: %v", err)
	}

	_, err = service.Refresh(ctx, res.TokenPair.RefreshToken, nil)
	if err == nil {
		t.Fatalf("refresh по отозванной сессии должен отклоняться")
	}
}
