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
	ErrInviteNotFound      = errors.New("invite not found")
	ErrInviteTokenConflict = errors.New("invite token already exists")
)

type InviteRepository interface {
	Create(ctx context.Context, invite *models.GroupInvite) error
	GetByID(ctx context.Context, id string) (*models.GroupInvite, error)
	GetByToken(ctx context.Context, token string) (*models.GroupInvite, error)
	ListByGroup(ctx context.Context, groupID string) ([]models.GroupInvite, error)
	Delete(ctx context.Context, id string) error
}

type postgresInviteRepository struct {
	db *sql.DB
}

func NewPostgresInviteRepository(db *sql.DB) InviteRepository {
	return &postgresInviteRepository{db: db}
}

func (r *postgresInviteRepository) Create(ctx context.Context, invite *models.GroupInvite) error {
	query := `
		INSERT INTO group_invites (id, group_id, token, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		invite.ID, invite.GroupID, invite.Token, invite.ExpiresAt,
	).Scan(&invite.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrInviteTokenConflict
		}
		return fmt.Errorf("failed to create invite: %w", err)
	}
	return nil
}

func (r *postgresInviteRepository) GetByID(ctx context.Context, id string) (*models.GroupInvite, error) {
	query := `SELECT id, group_id, token, expires_at, created_at FROM group_invites WHERE id = $1`

	var inv models.GroupInvite
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&inv.ID, &inv.GroupID, &inv.Token, &inv.ExpiresAt, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *postgresInviteRepository) GetByToken(ctx context.Context, token string) (*models.GroupInvite, error) {
	query := `SELECT id, group_id, token, expires_at, created_at FROM group_invites WHERE token = $1`

	var inv models.GroupInvite
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&inv.ID, &inv.GroupID, &inv.Token, &inv.ExpiresAt, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *postgresInviteRepository) ListByGroup(ctx context.Context, groupID string) ([]models.GroupInvite, error) {
	query := `SELECT id, group_id, token, expires_at, created_at FROM group_invites WHERE group_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites for group %s: %w", groupID, err)
	}
	defer rows.Close()

	invites := make([]models.GroupInvite, 0)
	for rows.Next() {
		var inv models.GroupInvite
		if err := rows.Scan(&inv.ID, &inv.GroupID, &inv.Token, &inv.ExpiresAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (r *postgresInviteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM group_invites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invite %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrInviteNotFound)
}
