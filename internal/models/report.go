package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы жалобы. Переходы только pending -> approved и pending -> rejected,
// обратных рёбер нет.
const (
	ReportStatusPending  = "pending"
	ReportStatusApproved = "approved"
	ReportStatusRejected = "rejected"
)

// Report описывает жалобу пользователя на цель.
// На пару (reporter_id, target_type, target_id) допускается не более одной жалобы.
type Report struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ReporterID  uuid.UUID  `db:"reporter_id" json:"reporter_id"`
	TargetType  TargetType `db:"target_type" json:"target_type"`
	TargetID    uuid.UUID  `db:"target_id" json:"target_id"`
	Reason      string     `db:"reason" json:"reason"`
	Description *string    `db:"description" json:"description,omitempty"`
	Status      string     `db:"status" json:"status"`
	ReviewedBy  *uuid.UUID `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// IsDecided сообщает, принято ли уже решение по жалобе.
func (r *Report) IsDecided() bool {
	return r.Status != ReportStatusPending
}

// TargetKey — ключ агрегации жалоб по цели.
type TargetKey struct {
	Type TargetType `json:"type"`
	ID   uuid.UUID  `json:"id"`
}

// ReportTargetCount количество жалоб на одну цель.
type ReportTargetCount struct {
	TargetType TargetType `db:"target_type" json:"target_type"`
	TargetID   uuid.UUID  `db:"target_id" json:"target_id"`
	Count      int        `db:"count" json:"count"`
}

// TargetSnapshot — снимок цели на момент показа очереди модерации.
// Если цель уже удалена, Missing = true и показываются заглушки.
type TargetSnapshot struct {
	Title      string     `json:"title"`
	AuthorID   *uuid.UUID `json:"author_id,omitempty"`
	AuthorName string     `json:"author_name"`
	PhotoID    *uuid.UUID `json:"photo_id,omitempty"`
	Missing    bool       `json:"missing"`
}
