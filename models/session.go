package models

import "time"

// SessionStatus представляет статусы сессии, соответствующие ENUM в БД.
type SessionStatus string

const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusEnded  SessionStatus = "ended"
)

// Session — ограниченная по времени группа игроков и матчей.
// Может быть ad-hoc (GroupID == nil) или привязана к постоянной группе.
type Session struct {
	ID        string        `json:"id" db:"id"`
	GroupID   *string       `json:"group_id,omitempty" db:"group_id"`
	JoinCode  string        `json:"join_code" db:"join_code"`
	Status    SessionStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	EndedAt   *time.Time    `json:"ended_at,omitempty" db:"ended_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Players []SessionPlayer `json:"players,omitempty" db:"-"`
}

// SessionPlayer — игрок в рамках одной сессии. AccountID == nil означает
// гостя: его идентификатор не сравним между сессиями.
type SessionPlayer struct {
	ID          string    `json:"id" db:"id"`
	SessionID   string    `json:"session_id" db:"session_id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	AccountID   *string   `json:"account_id,omitempty" db:"account_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// IsGuest reports whether the player has no stable cross-session identity.
func (p SessionPlayer) IsGuest() bool {
	return p.AccountID == nil
}
