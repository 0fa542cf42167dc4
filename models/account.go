package models

import "time"

// Account — постоянная учётная запись. Единственная идентичность,
// сравнимая между сессиями; игрок сессии может быть привязан к ней.
type Account struct {
	ID          string    `json:"id" db:"id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
