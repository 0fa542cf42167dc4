package models

import "time"

// GroupMemberRole представляет роли участников группы.
type GroupMemberRole string

const (
	GroupRoleAdmin  GroupMemberRole = "admin"
	GroupRoleMember GroupMemberRole = "member"
)

// Group — постоянное объединение аккаунтов, под которым создаются сессии.
type Group struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedByID string    `json:"created_by_account_id" db:"created_by_account_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	Members []GroupMember `json:"members,omitempty" db:"-"`
}

type GroupMember struct {
	GroupID   string          `json:"group_id" db:"group_id"`
	AccountID string          `json:"account_id" db:"account_id"`
	Role      GroupMemberRole `json:"role" db:"role"`
	JoinedAt  time.Time       `json:"joined_at" db:"joined_at"`
}

// GroupInvite — приглашение в группу по токену с ограниченным сроком жизни.
type GroupInvite struct {
	ID        string    `json:"id" db:"id"`
	GroupID   string    `json:"group_id" db:"group_id"`
	Token     string    `json:"-" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
