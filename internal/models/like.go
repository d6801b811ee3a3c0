package models

import (
	"time"

	"github.com/google/uuid"
)

// Like — отношение (пользователь, цель). Наблюдаемое состояние — только
// присутствие/отсутствие строки плюс денормализованный счётчик на цели.
type Like struct {
	UserID     uuid.UUID  `db:"user_id" json:"user_id"`
	TargetType TargetType `db:"target_type" json:"target_type"`
	TargetID   uuid.UUID  `db:"target_id" json:"target_id"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Follow — отношение подписки между двумя пользователями.
type Follow struct {
	FollowerID uuid.UUID `db:"follower_id" json:"follower_id"`
	FollowedID uuid.UUID `db:"followed_id" json:"followed_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ToggleResult итог переключения лайка или подписки.
// Count всегда равен фактической мощности отношения на момент вызова.
type ToggleResult struct {
	Active bool `json:"active"`
	Count  int  `json:"count"`
}
