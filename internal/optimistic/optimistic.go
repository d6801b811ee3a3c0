package optimistic

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Протокол оптимистичных действий: изменение применяется к локальному
// представлению сразу с временным идентификатором, затем подтверждается
// авторитетной сущностью сервера или откатывается при ошибке.
// После завершения (успех или откат) локальное состояние совпадает с тем,
// что вернуло бы свежее чтение; временные записи не остаются.

var (
	// ErrUnknownPlaceholder возвращается при подтверждении или откате
	// неизвестного временного идентификатора.
	ErrUnknownPlaceholder = errors.New("optimistic: неизвестный placeholder")

	// ErrActionInFlight возвращается при попытке начать переключение,
	// пока предыдущее ещё не подтверждено (защита от двойного клика).
	ErrActionInFlight = errors.New("optimistic: действие уже выполняется")
)

type entry[T any] struct {
	id      uuid.UUID
	value   T
	pending bool
}

// List — локальное представление списка сущностей (комментарии, ответы).
type List[T any] struct {
	mu    sync.Mutex
	items []entry[T]
}

// NewList создаёт пустое локальное представление.
func NewList[T any]() *List[T] {
	return &List[T]{}
}

// Append добавляет подтверждённую сущность (результат чтения с сервера).
func (l *List[T]) Append(id uuid.UUID, value T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, entry[T]{id: id, value: value})
}

// BeginCreate применяет создание локально и возвращает временный идентификатор.
func (l *List[T]) BeginCreate(value T) uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()

	tempID := uuid.New()
	l.items = append(l.items, entry[T]{id: tempID, value: value, pending: true})
	return tempID
}

// Confirm заменяет placeholder авторитетной сущностью на той же позиции,
// без перечитывания всего списка.
func (l *List[T]) Confirm(tempID, realID uuid.UUID, value T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].id == tempID && l.items[i].pending {
			l.items[i] = entry[T]{id: realID, value: value}
			return nil
		}
	}
	return ErrUnknownPlaceholder
}

// Rollback восстанавливает состояние до BeginCreate: placeholder удаляется
// целиком, висячих временных записей не остаётся.
func (l *List[T]) Rollback(tempID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].id == tempID && l.items[i].pending {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return nil
		}
	}
	return ErrUnknownPlaceholder
}

// Items возвращает текущее локальное представление.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]T, len(l.items))
	for i, e := range l.items {
		out[i] = e.value
	}
	return out
}

// IDs возвращает идентификаторы в порядке списка.
func (l *List[T]) IDs() []uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]uuid.UUID, len(l.items))
	for i, e := range l.items {
		out[i] = e.id
	}
	return out
}

// HasPending сообщает, остались ли неподтверждённые записи.
func (l *List[T]) HasPending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.items {
		if e.pending {
			return true
		}
	}
	return false
}

// Toggle — локальное состояние переключаемого действия (лайк, подписка).
type Toggle struct {
	mu         sync.Mutex
	active     bool
	count      int
	inFlight   bool
	prevActive bool
	prevCount  int
}

// NewToggle создаёт состояние с последними подтверждёнными значениями.
func NewToggle(active bool, count int) *Toggle {
	return &Toggle{active: active, count: count}
}

// Begin применяет переключение локально и запоминает снимок для отката.
// Пока действие в полёте, повторный Begin отклоняется.
func (t *Toggle) Begin() (bool, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.inFlight {
		return t.active, t.count, ErrActionInFlight
	}

	t.prevActive = t.active
	t.prevCount = t.count
	t.inFlight = true

	t.active = !t.active
	if t.active {
		t.count++
	} else {
		t.count--
	}
	return t.active, t.count, nil
}

// Confirm фиксирует подтверждённые сервером значения.
func (t *Toggle) Confirm(active bool, count int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.active = active
	t.count = count
	t.inFlight = false
}

// Rollback возвращает состояние до Begin.
func (t *Toggle) Rollback() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.active = t.prevActive
	t.count = t.prevCount
	t.inFlight = false
}

// State возвращает текущее локальное состояние.
func (t *Toggle) State() (bool, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active, t.count
}
