package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment описывает комментарий к публикации.
// Вложенность строго один уровень: у ответа parent_comment_id всегда
// указывает на комментарий верхнего уровня, ответы на ответы не моделируются.
type Comment struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	PostID          uuid.UUID  `db:"post_id" json:"post_id"`
	AuthorID        uuid.UUID  `db:"author_id" json:"author_id"`
	Content         string     `db:"content" json:"content"`
	ParentCommentID *uuid.UUID `db:"parent_comment_id" json:"parent_comment_id,omitempty"`
	LikeCount       int        `db:"like_count" json:"like_count"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// IsReply сообщает, является ли комментарий ответом.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}

// CommentPage результат постраничного чтения комментариев.
type CommentPage struct {
	Items   []Comment `json:"items"`
	HasMore bool      `json:"has_more"`
	Total   int       `json:"total"`
}
