package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"matchnight/models"

	"github.com/lib/pq"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionCodeConflict = errors.New("session join code already in use")
	ErrSessionGroupInvalid = errors.New("session group conflict or invalid")
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	GetByJoinCode(ctx context.Context, joinCode string) (*models.Session, error)
	ListByGroup(ctx context.Context, groupID string) ([]models.Session, error)
	UpdateStatus(ctx context.Context, id string, status models.SessionStatus, endedAt *time.Time) error
}

type postgresSessionRepository struct {
	db *sql.DB
}

func NewPostgresSessionRepository(db *sql.DB) SessionRepository {
	return &postgresSessionRepository{db: db}
}

func (r *postgresSessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (id, group_id, join_code, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		session.ID, session.GroupID, session.JoinCode, session.Status,
	).Scan(&session.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation
				return ErrSessionCodeConflict
			case "23503": // foreign_key_violation
				return ErrSessionGroupInvalid
			}
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *postgresSessionRepository) scanSession(row interface{ Scan(...interface{}) error }) (*models.Session, error) {
	var s models.Session
	err := row.Scan(&s.ID, &s.GroupID, &s.JoinCode, &s.Status, &s.CreatedAt, &s.EndedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

const sessionColumns = `id, group_id, join_code, status, created_at, ended_at`

func (r *postgresSessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	return r.scanSession(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresSessionRepository) GetByJoinCode(ctx context.Context, joinCode string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE join_code = $1 AND status = 'active'`
	return r.scanSession(r.db.QueryRowContext(ctx, query, joinCode))
}

func (r *postgresSessionRepository) ListByGroup(ctx context.Context, groupID string) ([]models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE group_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for group %s: %w", groupID, err)
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		s, err := r.scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func (r *postgresSessionRepository) UpdateStatus(ctx context.Context, id string, status models.SessionStatus, endedAt *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET status = $1, ended_at = $2 WHERE id = $3`,
		status, endedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update session %s status: %w", id, err)
	}
	return checkAffectedRows(result, ErrSessionNotFound)
}
