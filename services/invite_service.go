package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"matchnight/models"
	"matchnight/repositories"

	"github.com/google/uuid"
)

const (
	inviteTokenLength = 16                 // Длина токена в байтах (32 символа в hex)
	inviteDuration    = 7 * 24 * time.Hour // Срок действия приглашения (7 дней)

	inviteTokenMaxAttempts = 3
)

var (
	ErrInviteCreationFailed  = errors.New("failed to create invite")
	ErrInviteAcceptFailed    = errors.New("failed to accept invite")
	ErrInviteTokenGeneration = errors.New("failed to generate unique invite token")
)

type InviteService interface {
	CreateInvite(ctx context.Context, groupID string, currentAccountID string) (*models.GroupInvite, error)
	GetInviteByToken(ctx context.Context, token string) (*models.GroupInvite, error)
	AcceptInvite(ctx context.Context, token string, currentAccountID string) (*models.Group, error)
	DeleteInvite(ctx context.Context, inviteID string, currentAccountID string) error
	ListGroupInvites(ctx context.Context, groupID string, currentAccountID string) ([]models.GroupInvite, error)
}

type inviteService struct {
	inviteRepo  repositories.InviteRepository
	groupRepo   repositories.GroupRepository
	accountRepo repositories.AccountRepository
	logger      *slog.Logger
}

func NewInviteService(
	inviteRepo repositories.InviteRepository,
	groupRepo repositories.GroupRepository,
	accountRepo repositories.AccountRepository,
	logger *slog.Logger,
) InviteService {
	return &inviteService{
		inviteRepo:  inviteRepo,
		groupRepo:   groupRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CreateInvite выпускает токен приглашения. Приглашать могут только
// участники группы.
func (s *inviteService) CreateInvite(ctx context.Context, groupID string, currentAccountID string) (*models.GroupInvite, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("invite service: get group: %w", err)
	}

	isMember, err := s.groupRepo.IsMember(ctx, groupID, currentAccountID)
	if err != nil {
		return nil, fmt.Errorf("invite service: check membership: %w", err)
	}
	if !isMember {
		return nil, ErrNotGroupMember
	}

	for attempt := 0; attempt < inviteTokenMaxAttempts; attempt++ {
		token, err := generateSecureToken(inviteTokenLength)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInviteTokenGeneration, err)
		}

		invite := &models.GroupInvite{
			ID:        uuid.NewString(),
			GroupID:   groupID,
			Token:     token,
			ExpiresAt: time.Now().Add(inviteDuration),
		}

		err = s.inviteRepo.Create(ctx, invite)
		if err == nil {
			return invite, nil
		}
		if errors.Is(err, repositories.ErrInviteTokenConflict) {
			continue // Конфликт токена, пробуем снова
		}
		return nil, fmt.Errorf("%w: %w", ErrInviteCreationFailed, err)
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrInviteTokenGeneration, inviteTokenMaxAttempts)
}

func (s *inviteService) GetInviteByToken(ctx context.Context, token string) (*models.GroupInvite, error) {
	invite, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("invite service: get invite by token: %w", err)
	}

	if time.Now().After(invite.ExpiresAt) {
		return nil, ErrInviteExpired
	}
	return invite, nil
}

// AcceptInvite добавляет аккаунт в группу приглашения и гасит токен.
func (s *inviteService) AcceptInvite(ctx context.Context, token string, currentAccountID string) (*models.Group, error) {
	invite, err := s.GetInviteByToken(ctx, token)
	if err != nil {
		return nil, err // ErrInviteNotFound или ErrInviteExpired
	}

	if _, err := s.accountRepo.GetByID(ctx, currentAccountID); err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("invite service: get account: %w", err)
	}

	member := &models.GroupMember{
		GroupID:   invite.GroupID,
		AccountID: currentAccountID,
		Role:      models.GroupRoleMember,
	}
	if err := s.groupRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, repositories.ErrGroupMemberConflict) {
			return nil, ErrAlreadyGroupMember
		}
		return nil, fmt.Errorf("%w: %w", ErrInviteAcceptFailed, err)
	}

	// Участник уже добавлен; неудалённое приглашение просто доживёт
	// до своего expires_at.
	if err := s.inviteRepo.Delete(ctx, invite.ID); err != nil && !errors.Is(err, repositories.ErrInviteNotFound) {
		s.logger.Warn("failed to delete accepted invite",
			slog.String("invite_id", invite.ID), slog.Any("error", err))
	}

	group, err := s.groupRepo.GetByID(ctx, invite.GroupID)
	if err != nil {
		return nil, fmt.Errorf("invite service: get group after accept: %w", err)
	}

	s.logger.Info("invite accepted",
		slog.String("group_id", invite.GroupID),
		slog.String("account_id", currentAccountID))
	return group, nil
}

// DeleteInvite отзывает приглашение. Отзывать могут только участники
// группы, к которой оно относится.
func (s *inviteService) DeleteInvite(ctx context.Context, inviteID string, currentAccountID string) error {
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return ErrInviteNotFound
		}
		return fmt.Errorf("invite service: get invite: %w", err)
	}

	isMember, err := s.groupRepo.IsMember(ctx, invite.GroupID, currentAccountID)
	if err != nil {
		return fmt.Errorf("invite service: check membership: %w", err)
	}
	if !isMember {
		return ErrNotGroupMember
	}

	if err := s.inviteRepo.Delete(ctx, inviteID); err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return ErrInviteNotFound
		}
		return fmt.Errorf("invite service: delete invite: %w", err)
	}
	return nil
}

func (s *inviteService) ListGroupInvites(ctx context.Context, groupID string, currentAccountID string) ([]models.GroupInvite, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("invite service: get group: %w", err)
	}

	isMember, err := s.groupRepo.IsMember(ctx, groupID, currentAccountID)
	if err != nil {
		return nil, fmt.Errorf("invite service: check membership: %w", err)
	}
	if !isMember {
		return nil, ErrNotGroupMember
	}

	invites, err := s.inviteRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("invite service: list invites: %w", err)
	}

	// Просроченные отфильтровываются на уровне сервиса.
	active := make([]models.GroupInvite, 0, len(invites))
	now := time.Now()
	for _, invite := range invites {
		if now.Before(invite.ExpiresAt) {
			active = append(active, invite)
		}
	}
	return active, nil
}
