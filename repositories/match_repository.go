package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"matchnight/models"

	"github.com/lib/pq"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchSessionInvalid = errors.New("match session conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id string) (*models.Match, error)
	ListBySession(ctx context.Context, sessionID string) ([]models.Match, error)
	CountBySession(ctx context.Context, sessionID string) (int, error)
	Delete(ctx context.Context, exec SQLExecutor, id string) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(id, session_id, team_a_player_ids, team_b_player_ids, team_a_goals, team_b_goals, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		match.ID,
		match.SessionID,
		pq.Array(match.TeamAPlayerIDs),
		pq.Array(match.TeamBPlayerIDs),
		match.TeamAGoals,
		match.TeamBGoals,
		match.PlayedAt,
	).Scan(&match.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: %s", ErrMatchSessionInvalid, pqErr.Constraint)
		}
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID,
		&m.SessionID,
		pq.Array(&m.TeamAPlayerIDs),
		pq.Array(&m.TeamBPlayerIDs),
		&m.TeamAGoals,
		&m.TeamBGoals,
		&m.PlayedAt,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	query := `
		SELECT id, session_id, team_a_player_ids, team_b_player_ids,
		       team_a_goals, team_b_goals, played_at, created_at
		FROM matches
		WHERE id = $1`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListBySession(ctx context.Context, sessionID string) ([]models.Match, error) {
	query := `
		SELECT id, session_id, team_a_player_ids, team_b_player_ids,
		       team_a_goals, team_b_goals, played_at, created_at
		FROM matches
		WHERE session_id = $1
		ORDER BY played_at, created_at`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		m, err := r.scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE session_id = $1`, sessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches for session %s: %w", sessionID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
