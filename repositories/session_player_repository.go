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
	ErrSessionPlayerNotFound        = errors.New("session player not found")
	ErrSessionPlayerAccountConflict = errors.New("account already has a player in this session")
	ErrSessionPlayerSessionInvalid  = errors.New("session player session conflict or invalid")
)

type SessionPlayerRepository interface {
	Create(ctx context.Context, player *models.SessionPlayer) error
	GetByID(ctx context.Context, id string) (*models.SessionPlayer, error)
	ListBySession(ctx context.Context, sessionID string) ([]models.SessionPlayer, error)
	ListBySessions(ctx context.Context, sessionIDs []string) ([]models.SessionPlayer, error)
}

type postgresSessionPlayerRepository struct {
	db *sql.DB
}

func NewPostgresSessionPlayerRepository(db *sql.DB) SessionPlayerRepository {
	return &postgresSessionPlayerRepository{db: db}
}

func (r *postgresSessionPlayerRepository) Create(ctx context.Context, player *models.SessionPlayer) error {
	query := `
		INSERT INTO session_players (id, session_id, display_name, account_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		player.ID, player.SessionID, player.DisplayName, player.AccountID,
	).Scan(&player.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique (session_id, account_id)
				return ErrSessionPlayerAccountConflict
			case "23503":
				return ErrSessionPlayerSessionInvalid
			}
		}
		return fmt.Errorf("failed to create session player: %w", err)
	}
	return nil
}

func (r *postgresSessionPlayerRepository) scanPlayer(row interface{ Scan(...interface{}) error }) (*models.SessionPlayer, error) {
	var p models.SessionPlayer
	err := row.Scan(&p.ID, &p.SessionID, &p.DisplayName, &p.AccountID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

const sessionPlayerColumns = `id, session_id, display_name, account_id, created_at`

func (r *postgresSessionPlayerRepository) GetByID(ctx context.Context, id string) (*models.SessionPlayer, error) {
	query := `SELECT ` + sessionPlayerColumns + ` FROM session_players WHERE id = $1`
	return r.scanPlayer(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresSessionPlayerRepository) listWhere(ctx context.Context, query string, args ...interface{}) ([]models.SessionPlayer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list session players: %w", err)
	}
	defer rows.Close()

	players := make([]models.SessionPlayer, 0)
	for rows.Next() {
		p, err := r.scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (r *postgresSessionPlayerRepository) ListBySession(ctx context.Context, sessionID string) ([]models.SessionPlayer, error) {
	query := `SELECT ` + sessionPlayerColumns + ` FROM session_players WHERE session_id = $1 ORDER BY created_at`
	return r.listWhere(ctx, query, sessionID)
}

func (r *postgresSessionPlayerRepository) ListBySessions(ctx context.Context, sessionIDs []string) ([]models.SessionPlayer, error) {
	if len(sessionIDs) == 0 {
		return []models.SessionPlayer{}, nil
	}
	query := `SELECT ` + sessionPlayerColumns + ` FROM session_players WHERE session_id = ANY($1) ORDER BY created_at`
	return r.listWhere(ctx, query, pq.Array(sessionIDs))
}
