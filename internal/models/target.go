package models

// TargetType — закрытый набор типов целей для лайков и жалоб.
// Новый тип цели добавляется здесь и в Valid/Likeable, а не строкой на месте.
type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetVideo   TargetType = "video"
	TargetComment TargetType = "comment"
	TargetUser    TargetType = "user"
)

// Valid проверяет, что тип цели входит в закрытый набор.
func (t TargetType) Valid() bool {
	switch t {
	case TargetPost, TargetVideo, TargetComment, TargetUser:
		return true
	}
	return false
}

// Likeable проверяет, что цель можно лайкать (пользователей лайкать нельзя).
func (t TargetType) Likeable() bool {
	switch t {
	case TargetPost, TargetVideo, TargetComment:
		return true
	}
	return false
}

// IsContent проверяет, что цель — контент, который можно удалить при одобрении жалобы.
func (t TargetType) IsContent() bool {
	switch t {
	case TargetPost, TargetVideo, TargetComment:
		return true
	}
	return false
}
