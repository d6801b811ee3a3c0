package events

import (
	"testing"

	"github.com/google/uuid"
)

func TestBus_PublishDeliversInOrder(t *testing.T) {
	bus := NewBus()

	var got []string
	bus.Subscribe(PostCreated{}.EventName(), func(e Event) {
		got = append(got, "first")
	})
	bus.Subscribe(PostCreated{}.EventName(), func(e Event) {
		got = append(got, "second")
	})

	bus.Publish(PostCreated{PostID: uuid.New(), AuthorID: uuid.New()})

	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("обработчики должны вызываться в порядке подписки, получили %v", got)
	}
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	// Событие без подписчиков не должно паниковать.
	bus.Publish(ReportCreated{ReportID: uuid.New()})
}

func TestBus_TypedPayload(t *testing.T) {
	bus := NewBus()

	var gotStatus string
	bus.Subscribe(UserStatusChanged{}.EventName(), func(e Event) {
		changed, ok := e.(UserStatusChanged)
		if !ok {
			t.Fatalf("обработчик должен получать типизированное событие, получили %T", e)
		}
		gotStatus = changed.Status
	})

	bus.Publish(UserStatusChanged{UserID: uuid.New(), Status: "banned"})

	if gotStatus != "banned" {
		t.Fatalf("нагрузка события должна доходить без потерь, получили %q", gotStatus)
	}
}

func TestBus_SubscriberOnlyGetsItsEvents(t *testing.T) {
	bus := NewBus()

	calls := 0
	bus.Subscribe(CommentCreated{}.EventName(), func(e Event) {
		calls++
	})

	bus.Publish(PostDeleted{PostID: uuid.New()})
	bus.Publish(CommentCreated{CommentID: uuid.New(), PostID: uuid.New()})

	if calls != 1 {
		t.Fatalf("подписчик должен получать только свои события, получили %d вызовов", calls)
	}
}
