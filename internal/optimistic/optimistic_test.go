package optimistic

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestList_ConfirmKeepsPosition(t *testing.T) {
	list := NewList[string]()
	list.Append(uuid.New(), "первый")

	tempID := list.BeginCreate("черновик")
	list.Append(uuid.New(), "третий")

	if !list.HasPending() {
		t.Fatalf("после BeginCreate должен быть pending элемент")
	}

	realID := uuid.New()
	if err := list.Confirm(tempID, realID, "подтверждённый"); err != nil {
		t.Fatalf("confirm вернул ошибку: %v", err)
	}

	items := list.Items()
	if len(items) != 3 || items[1] != "подтверждённый" {
		t.Fatalf("подтверждение должно заменить placeholder на месте, получили %v", items)
	}
	if list.IDs()[1] != realID {
		t.Fatalf("после подтверждения должен стоять серверный идентификатор")
	}
	if list.HasPending() {
		t.Fatalf("после подтверждения pending элементов не остаётся")
	}
}

func TestList_RollbackRemovesPlaceholder(t *testing.T) {
	list := NewList[string]()
	list.Append(uuid.New(), "первый")
	tempID := list.BeginCreate("черновик")

	if err := list.Rollback(tempID); err != nil {
		t.Fatalf("rollback вернул ошибку: %v", err)
	}

	items := list.Items()
	if len(items) != 1 || items[0] != "первый" {
		t.Fatalf("после отката список должен совпадать с исходным, получили %v", items)
	}
	if list.HasPending() {
		t.Fatalf("висячих временных записей не должно оставаться")
	}
}

func TestList_UnknownPlaceholder(t *testing.T) {
	list := NewList[int]()

	if err := list.Confirm(uuid.New(), uuid.New(), 1); !errors.Is(err, ErrUnknownPlaceholder) {
		t.Fatalf("confirm неизвестного placeholder должен отклоняться, получили %v", err)
	}
	if err := list.Rollback(uuid.New()); !errors.Is(err, ErrUnknownPlaceholder) {
		t.Fatalf("rollback неизвестного placeholder должен отклоняться, получили %v", err)
	}

	// Повторное подтверждение того же placeholder тоже отклоняется.
	tempID := list.BeginCreate(7)
	if err := list.Confirm(tempID, uuid.New(), 7); err != nil {
		t.Fatalf("первое подтверждение вернуло ошибку: %v", err)
	}
	if err := list.Confirm(tempID, uuid.New(), 7); !errors.Is(err, ErrUnknownPlaceholder) {
		t.Fatalf("повторное подтверждение должно отклоняться, получили %v", err)
	}
}

func TestToggle_ConfirmFlow(t *testing.T) {
	toggle := NewToggle(false, 10)

	active, count, err := toggle.Begin()
	if err != nil {
		t.Fatalf("begin вернул ошибку: %v", err)
	}
	if !active || count != 11 {
		t.Fatalf("локальное применение: ожидали active=true count=11, получили %v %d", active, count)
	}

	// Сервер вернул авторитетное состояние.
	toggle.Confirm(true, 12)
	active, count = toggle.State()
	if !active || count != 12 {
		t.Fatalf("после подтверждения должно стоять серверное состояние, получили %v %d", active, count)
	}
}

func TestToggle_RollbackRestoresSnapshot(t *testing.T) {
	toggle := NewToggle(true, 5)

	if _, _, err := toggle.Begin(); err != nil {
		t.Fatalf("begin вернул ошибку: %v", err)
	}

	toggle.Rollback()
	active, count := toggle.State()
	if !active || count != 5 {
		t.Fatalf("откат должен вернуть состояние до Begin, получили %v %d", active, count)
	}
}

func TestToggle_DoubleClickGuard(t *testing.T) {
	toggle := NewToggle(false, 0)

	if _, _, err := toggle.Begin(); err != nil {
		t.Fatalf("первый begin вернул ошибку: %v", err)
	}

	if _, _, err := toggle.Begin(); !errors.Is(err, ErrActionInFlight) {
		t.Fatalf("повторный begin до подтверждения должен отклоняться, получили %v", err)
	}

	toggle.Confirm(true, 1)
	if _, _, err := toggle.Begin(); err != nil {
		t.Fatalf("после подтверждения begin снова доступен: %v", err)
	}
}
