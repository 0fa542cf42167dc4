package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"matchnight/models"

	"github.com/lib/pq"
)

var ErrStandingReplaceFailed = errors.New("failed to replace standings")

// StandingRepository хранит производные таблицы. Контракт записи —
// атомарная замена: обе таблицы скоупа удаляются и вставляются заново
// в одной транзакции, частичной перезаписи не бывает.
type StandingRepository interface {
	ReplaceForSession(ctx context.Context, exec SQLExecutor, sessionID string, players []models.PlayerStanding, pairs []models.PairStanding) error
	ListPlayerStandingsBySession(ctx context.Context, sessionID string) ([]models.PlayerStanding, error)
	ListPairStandingsBySession(ctx context.Context, sessionID string) ([]models.PairStanding, error)
	ListPlayerStandingsBySessions(ctx context.Context, sessionIDs []string) ([]models.PlayerStanding, error)
	ListPairStandingsBySessions(ctx context.Context, sessionIDs []string) ([]models.PairStanding, error)
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStandingRepository) ReplaceForSession(
	ctx context.Context,
	exec SQLExecutor,
	sessionID string,
	players []models.PlayerStanding,
	pairs []models.PairStanding,
) error {
	executor := r.getExecutor(exec)

	// Если вызывающий не передал свою транзакцию, открываем собственную:
	// замена обеих таблиц обязана быть цельной.
	tx, isExternalTx := executor.(*sql.Tx)
	if !isExternalTx {
		var err error
		tx, err = r.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%w: begin transaction: %v", ErrStandingReplaceFailed, err)
		}
		defer func() {
			_ = tx.Rollback()
		}()
		executor = tx
	}

	if _, err := executor.ExecContext(ctx, `DELETE FROM player_standings WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("%w: delete player rows: %v", ErrStandingReplaceFailed, err)
	}
	if _, err := executor.ExecContext(ctx, `DELETE FROM pair_standings WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("%w: delete pair rows: %v", ErrStandingReplaceFailed, err)
	}

	playerQuery := `
		INSERT INTO player_standings
			(session_id, session_player_id, display_name, mp, w, d, l, gf, ga, gd, pts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, row := range players {
		_, err := executor.ExecContext(ctx, playerQuery,
			row.SessionID, row.PlayerID, row.DisplayName,
			row.MP, row.W, row.D, row.L, row.GF, row.GA, row.GD, row.Pts,
		)
		if err != nil {
			return fmt.Errorf("%w: insert player row %s: %v", ErrStandingReplaceFailed, row.PlayerID, err)
		}
	}

	pairQuery := `
		INSERT INTO pair_standings
			(session_id, session_player_id_1, session_player_id_2, label, mp, w, d, l, gf, ga, gd, pts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, row := range pairs {
		_, err := executor.ExecContext(ctx, pairQuery,
			row.SessionID, row.Player1ID, row.Player2ID, row.Label,
			row.MP, row.W, row.D, row.L, row.GF, row.GA, row.GD, row.Pts,
		)
		if err != nil {
			return fmt.Errorf("%w: insert pair row %s_%s: %v", ErrStandingReplaceFailed, row.Player1ID, row.Player2ID, err)
		}
	}

	if !isExternalTx {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("%w: commit: %v", ErrStandingReplaceFailed, err)
		}
	}
	return nil
}

const playerStandingColumns = `session_id, session_player_id, display_name, mp, w, d, l, gf, ga, gd, pts, updated_at`

func (r *postgresStandingRepository) scanPlayerStanding(row interface{ Scan(...interface{}) error }) (*models.PlayerStanding, error) {
	var s models.PlayerStanding
	err := row.Scan(
		&s.SessionID, &s.PlayerID, &s.DisplayName,
		&s.MP, &s.W, &s.D, &s.L, &s.GF, &s.GA, &s.GD, &s.Pts,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresStandingRepository) listPlayerStandings(ctx context.Context, query string, args ...interface{}) ([]models.PlayerStanding, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list player standings: %w", err)
	}
	defer rows.Close()

	standings := make([]models.PlayerStanding, 0)
	for rows.Next() {
		s, err := r.scanPlayerStanding(rows)
		if err != nil {
			return nil, err
		}
		standings = append(standings, *s)
	}
	return standings, rows.Err()
}

func (r *postgresStandingRepository) ListPlayerStandingsBySession(ctx context.Context, sessionID string) ([]models.PlayerStanding, error) {
	query := `SELECT ` + playerStandingColumns + ` FROM player_standings WHERE session_id = $1`
	return r.listPlayerStandings(ctx, query, sessionID)
}

func (r *postgresStandingRepository) ListPlayerStandingsBySessions(ctx context.Context, sessionIDs []string) ([]models.PlayerStanding, error) {
	if len(sessionIDs) == 0 {
		return []models.PlayerStanding{}, nil
	}
	query := `SELECT ` + playerStandingColumns + ` FROM player_standings WHERE session_id = ANY($1)`
	return r.listPlayerStandings(ctx, query, pq.Array(sessionIDs))
}

const pairStandingColumns = `session_id, session_player_id_1, session_player_id_2, label, mp, w, d, l, gf, ga, gd, pts, updated_at`

func (r *postgresStandingRepository) scanPairStanding(row interface{ Scan(...interface{}) error }) (*models.PairStanding, error) {
	var s models.PairStanding
	err := row.Scan(
		&s.SessionID, &s.Player1ID, &s.Player2ID, &s.Label,
		&s.MP, &s.W, &s.D, &s.L, &s.GF, &s.GA, &s.GD, &s.Pts,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresStandingRepository) listPairStandings(ctx context.Context, query string, args ...interface{}) ([]models.PairStanding, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pair standings: %w", err)
	}
	defer rows.Close()

	standings := make([]models.PairStanding, 0)
	for rows.Next() {
		s, err := r.scanPairStanding(rows)
		if err != nil {
			return nil, err
		}
		standings = append(standings, *s)
	}
	return standings, rows.Err()
}

func (r *postgresStandingRepository) ListPairStandingsBySession(ctx context.Context, sessionID string) ([]models.PairStanding, error) {
	query := `SELECT ` + pairStandingColumns + ` FROM pair_standings WHERE session_id = $1`
	return r.listPairStandings(ctx, query, sessionID)
}

func (r *postgresStandingRepository) ListPairStandingsBySessions(ctx context.Context, sessionIDs []string) ([]models.PairStanding, error) {
	if len(sessionIDs) == 0 {
		return []models.PairStanding{}, nil
	}
	query := `SELECT ` + pairStandingColumns + ` FROM pair_standings WHERE session_id = ANY($1)`
	return r.listPairStandings(ctx, query, pq.Array(sessionIDs))
}
