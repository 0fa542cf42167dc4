package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"matchnight/models"
)

var ErrAccountNotFound = errors.New("account not found")

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
}

type postgresAccountRepository struct {
	db *sql.DB
}

func NewPostgresAccountRepository(db *sql.DB) AccountRepository {
	return &postgresAccountRepository{db: db}
}

func (r *postgresAccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `INSERT INTO accounts (id, display_name) VALUES ($1, $2) RETURNING created_at`

	if err := r.db.QueryRowContext(ctx, query, account.ID, account.DisplayName).Scan(&account.CreatedAt); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *postgresAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT id, display_name, created_at FROM accounts WHERE id = $1`

	var a models.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.DisplayName, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}
