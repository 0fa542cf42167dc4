package models

import "time"

// TeamStats — единица накопления для игрока или пары. Инварианты:
// MP == W+D+L, Pts == 3*W + D, GD == GF - GA.
type TeamStats struct {
	MP  int `json:"mp" db:"mp"`
	W   int `json:"w" db:"w"`
	D   int `json:"d" db:"d"`
	L   int `json:"l" db:"l"`
	GF  int `json:"gf" db:"gf"`
	GA  int `json:"ga" db:"ga"`
	GD  int `json:"gd" db:"gd"`
	Pts int `json:"pts" db:"pts"`
}

// PlayerStanding — производная строка таблицы по одному игроку сессии.
// Удаляется и пересчитывается целиком при любом изменении журнала матчей.
type PlayerStanding struct {
	SessionID   string `json:"session_id" db:"session_id"`
	PlayerID    string `json:"player_id" db:"session_player_id"`
	DisplayName string `json:"display_name" db:"display_name"`
	TeamStats

	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// PairStanding — производная строка по неупорядоченной паре игроков.
// Player1ID и Player2ID всегда в нормализованном (лексикографическом)
// порядке; Label повторяет этот порядок.
type PairStanding struct {
	SessionID string `json:"session_id" db:"session_id"`
	Player1ID string `json:"player1_id" db:"session_player_id_1"`
	Player2ID string `json:"player2_id" db:"session_player_id_2"`
	Label     string `json:"label" db:"label"`
	TeamStats

	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// GroupPlayerStanding — агрегат по аккаунту поверх всех сессий группы.
// Гости сюда не попадают.
type GroupPlayerStanding struct {
	AccountID   string `json:"account_id"`
	DisplayName string `json:"display_name"`
	TeamStats
}

// GroupPairStanding — агрегат по паре аккаунтов поверх всех сессий группы.
// Account1ID и Account2ID в нормализованном порядке.
type GroupPairStanding struct {
	Account1ID string `json:"account1_id"`
	Account2ID string `json:"account2_id"`
	Label      string `json:"label"`
	TeamStats
}

// SessionBreakdown — таблица одной сессии внутри истории группы.
type SessionBreakdown struct {
	Session     Session          `json:"session"`
	Leaderboard []PlayerStanding `json:"leaderboard"`
	MatchCount  int              `json:"match_count"`
}
