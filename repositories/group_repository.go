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
	ErrGroupNotFound       = errors.New("group not found")
	ErrGroupMemberConflict = errors.New("account is already a member of the group")
	ErrGroupMemberInvalid  = errors.New("group member conflict or invalid")
)

type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id string) (*models.Group, error)
	AddMember(ctx context.Context, member *models.GroupMember) error
	ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error)
	IsMember(ctx context.Context, groupID, accountID string) (bool, error)
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) Create(ctx context.Context, group *models.Group) error {
	query := `
		INSERT INTO groups (id, name, description, created_by_account_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		group.ID, group.Name, group.Description, group.CreatedByID,
	).Scan(&group.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (r *postgresGroupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	query := `SELECT id, name, description, created_by_account_id, created_at FROM groups WHERE id = $1`

	var g models.Group
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.Name, &g.Description, &g.CreatedByID, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *postgresGroupRepository) AddMember(ctx context.Context, member *models.GroupMember) error {
	query := `
		INSERT INTO group_members (group_id, account_id, role)
		VALUES ($1, $2, $3)
		RETURNING joined_at`

	err := r.db.QueryRowContext(ctx, query,
		member.GroupID, member.AccountID, member.Role,
	).Scan(&member.JoinedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return ErrGroupMemberConflict
			case "23503":
				return ErrGroupMemberInvalid
			}
		}
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

func (r *postgresGroupRepository) ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	query := `SELECT group_id, account_id, role, joined_at FROM group_members WHERE group_id = $1 ORDER BY joined_at`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members for group %s: %w", groupID, err)
	}
	defer rows.Close()

	members := make([]models.GroupMember, 0)
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.GroupID, &m.AccountID, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *postgresGroupRepository) IsMember(ctx context.Context, groupID, accountID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND account_id = $2)`,
		groupID, accountID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}
	return exists, nil
}
