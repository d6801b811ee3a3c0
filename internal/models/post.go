package models

import (
	"time"

	"github.com/google/uuid"
)

// Виды публикаций. Пост и видео структурно одинаковы и живут в одной таблице.
const (
	PostKindPost  = "post"
	PostKindVideo = "video"
)

// ValidPostKinds список валидных видов публикаций
var ValidPostKinds = map[string]struct{}{
	PostKindPost:  {},
	PostKindVideo: {},
}

// Post описывает публикацию в ленте (пост или видео).
// Счётчики like_count и comment_count денормализованы и пересчитываются
// из связей при каждой мутации, чтобы не расходиться с фактом.
type Post struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	AuthorID     uuid.UUID  `db:"author_id" json:"author_id"`
	Kind         string     `db:"kind" json:"kind"`
	Content      string     `db:"content" json:"content"`
	MediaID      *uuid.UUID `db:"media_id" json:"media_id,omitempty"`
	LikeCount    int        `db:"like_count" json:"like_count"`
	CommentCount int        `db:"comment_count" json:"comment_count"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// TargetType возвращает тип цели публикации для лайков и жалоб.
func (p *Post) TargetType() TargetType {
	if p.Kind == PostKindVideo {
		return TargetVideo
	}
	return TargetPost
}
