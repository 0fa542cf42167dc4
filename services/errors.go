package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed    = errors.New("validation failed")
	ErrDisplayNameRequired = errors.New("display name is required")
	ErrGroupNameRequired   = errors.New("group name is required")
	ErrSessionEnded        = errors.New("session has already ended")
	ErrJoinCodeInvalid     = errors.New("no active session for this join code")
	ErrInviteExpired       = errors.New("invite has expired")

	// Ошибки конфликтов
	ErrAccountAlreadyInSession = errors.New("account already has a player in this session")
	ErrAlreadyGroupMember      = errors.New("account is already a member of this group")

	// Ошибки доступа
	ErrNotGroupMember = errors.New("account is not a member of this group")

	// Ошибки, специфичные для сущностей
	ErrSessionNotFound = errors.New("session not found")
	ErrPlayerNotFound  = errors.New("session player not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrGroupNotFound   = errors.New("group not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrInviteNotFound  = errors.New("invite not found")

	// Ошибки пересчёта таблиц. При любой из них ранее сохранённые
	// таблицы остаются нетронутыми: частичной перезаписи не бывает.
	ErrStandingsRecomputeFailed = errors.New("failed to recompute standings")
	ErrLeaderboardLoadFailed    = errors.New("failed to load leaderboard")
)
