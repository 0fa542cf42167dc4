package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"matchnight/models"
	"matchnight/repositories"

	"github.com/google/uuid"
)

type AccountService interface {
	CreateAccount(ctx context.Context, displayName string) (*models.Account, error)
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
}

type accountService struct {
	accountRepo repositories.AccountRepository
}

func NewAccountService(accountRepo repositories.AccountRepository) AccountService {
	return &accountService{accountRepo: accountRepo}
}

func (s *accountService) CreateAccount(ctx context.Context, displayName string) (*models.Account, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil, ErrDisplayNameRequired
	}

	account := &models.Account{
		ID:          uuid.NewString(),
		DisplayName: name,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("account service: create account: %w", err)
	}
	return account, nil
}

func (s *accountService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("account service: get account: %w", err)
	}
	return account, nil
}
