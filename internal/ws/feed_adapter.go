package ws

import (
	"github.com/talenvo/talenvo-backend/internal/events"
	"github.com/talenvo/talenvo-backend/internal/logger"
)

// FeedAdapter пересылает события ленты подключённым клиентам.
// Подписывается на шину и превращает доменные события в WebSocket
// сообщения: клиент обновляет ленту без перечитывания всей страницы.
type FeedAdapter struct {
	hub *Hub
}

// NewFeedAdapter создаёт адаптер и подписывает его на шину.
func NewFeedAdapter(hub *Hub, bus *events.Bus) *FeedAdapter {
	a := &FeedAdapter{hub: hub}

	names := []string{
		events.PostCreated{}.EventName(),
		events.PostUpdated{}.EventName(),
		events.PostDeleted{}.EventName(),
		events.CommentCreated{}.EventName(),
		events.CommentDeleted{}.EventName(),
	}
	for _, name := range names {
		bus.Subscribe(name, a.handle)
	}

	return a
}

func (a *FeedAdapter) handle(e events.Event) {
	if err := a.hub.BroadcastAll(e.EventName(), e); err != nil {
		logger.WithComponent("ws").WithField("event", e.EventName()).
			Warnf("не удалось разослать событие: %v", err)
	}
}
