package models

import "time"

// Match — неизменяемый факт: два состава (1–2 игрока на сторону) и счёт.
// Редактирование моделируется как удаление + повторное создание, частичных
// правок нет.
type Match struct {
	ID             string    `json:"id" db:"id"`
	SessionID      string    `json:"session_id" db:"session_id"`
	TeamAPlayerIDs []string  `json:"team_a_player_ids" db:"team_a_player_ids"`
	TeamBPlayerIDs []string  `json:"team_b_player_ids" db:"team_b_player_ids"`
	TeamAGoals     int       `json:"team_a_goals" db:"team_a_goals"`
	TeamBGoals     int       `json:"team_b_goals" db:"team_b_goals"`
	PlayedAt       time.Time `json:"played_at" db:"played_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
