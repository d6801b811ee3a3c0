package events

import (
	"sync"

	"github.com/google/uuid"

	"github.com/talenvo/talenvo-backend/internal/goroutine"
)

// Типизированные события вместо строковых имён DOM-событий:
// компоненты подписываются на конкретный тип и получают типизированную нагрузку.

// Event — событие доменного слоя.
type Event interface {
	EventName() string
}

// PostCreated публикуется после создания публикации.
type PostCreated struct {
	PostID   uuid.UUID `json:"post_id"`
	AuthorID uuid.UUID `json:"author_id"`
}

func (PostCreated) EventName() string { return "post.created" }

// PostUpdated публикуется после редактирования публикации.
type PostUpdated struct {
	PostID uuid.UUID `json:"post_id"`
}

func (PostUpdated) EventName() string { return "post.updated" }

// PostDeleted публикуется после удаления публикации (автором или модерацией).
type PostDeleted struct {
	PostID uuid.UUID `json:"post_id"`
}

func (PostDeleted) EventName() string { return "post.deleted" }

// CommentCreated публикуется после создания комментария.
type CommentCreated struct {
	CommentID uuid.UUID `json:"comment_id"`
	PostID    uuid.UUID `json:"post_id"`
}

func (CommentCreated) EventName() string { return "comment.created" }

// CommentDeleted публикуется после удаления комментария.
type CommentDeleted struct {
	CommentID uuid.UUID `json:"comment_id"`
	PostID    uuid.UUID `json:"post_id"`
}

func (CommentDeleted) EventName() string { return "comment.deleted" }

// ReportCreated публикуется после регистрации новой жалобы.
type ReportCreated struct {
	ReportID uuid.UUID `json:"report_id"`
}

func (ReportCreated) EventName() string { return "report.created" }

// ReportDecided публикуется после решения по жалобе.
type ReportDecided struct {
	ReportID uuid.UUID `json:"report_id"`
	Status   string    `json:"status"`
}

func (ReportDecided) EventName() string { return "report.decided" }

// UserStatusChanged публикуется при смене статуса доверия пользователя.
type UserStatusChanged struct {
	UserID uuid.UUID `json:"user_id"`
	Status string    `json:"status"`
}

func (UserStatusChanged) EventName() string { return "user.status_changed" }

// Handler обрабатывает одно событие.
type Handler func(Event)

// Bus — внутрипроцессная шина событий.
// Подписка по имени события, доставка синхронная в порядке подписки;
// PublishAsync доставляет в отдельной горутине с защитой от panic.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus создаёт шину событий.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Subscribe регистрирует обработчик для события.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Publish доставляет событие всем подписчикам синхронно.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[e.EventName()]))
	copy(handlers, b.handlers[e.EventName()])
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

// PublishAsync доставляет событие в отдельной горутине.
func (b *Bus) PublishAsync(e Event) {
	goroutine.SafeGo(func() {
		b.Publish(e)
	})
}
