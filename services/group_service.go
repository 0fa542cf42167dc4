package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"matchnight/models"
	"matchnight/repositories"

	"github.com/google/uuid"
)

type CreateGroupInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type GroupService interface {
	CreateGroup(ctx context.Context, creatorAccountID string, input CreateGroupInput) (*models.Group, error)
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroupSessions(ctx context.Context, groupID string) ([]models.Session, error)
	CreateGroupSession(ctx context.Context, groupID string, accountID string) (*models.Session, error)
}

type groupService struct {
	groupRepo   repositories.GroupRepository
	accountRepo repositories.AccountRepository
	sessionRepo repositories.SessionRepository
	sessions    SessionService
	logger      *slog.Logger
}

func NewGroupService(
	groupRepo repositories.GroupRepository,
	accountRepo repositories.AccountRepository,
	sessionRepo repositories.SessionRepository,
	sessions SessionService,
	logger *slog.Logger,
) GroupService {
	return &groupService{
		groupRepo:   groupRepo,
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		sessions:    sessions,
		logger:      logger,
	}
}

// CreateGroup создаёт группу и сразу делает создателя её администратором.
func (s *groupService) CreateGroup(ctx context.Context, creatorAccountID string, input CreateGroupInput) (*models.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrGroupNameRequired
	}

	if _, err := s.accountRepo.GetByID(ctx, creatorAccountID); err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("group service: get account: %w", err)
	}

	group := &models.Group{
		ID:          uuid.NewString(),
		Name:        name,
		Description: input.Description,
		CreatedByID: creatorAccountID,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("group service: create group: %w", err)
	}

	member := &models.GroupMember{
		GroupID:   group.ID,
		AccountID: creatorAccountID,
		Role:      models.GroupRoleAdmin,
	}
	if err := s.groupRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("group service: add creator as admin: %w", err)
	}
	group.Members = []models.GroupMember{*member}

	s.logger.Info("group created",
		slog.String("group_id", group.ID),
		slog.String("created_by", creatorAccountID))
	return group, nil
}

func (s *groupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("group service: get group: %w", err)
	}

	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("group service: list members: %w", err)
	}
	group.Members = members
	return group, nil
}

func (s *groupService) ListGroupSessions(ctx context.Context, groupID string) ([]models.Session, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("group service: get group: %w", err)
	}

	sessions, err := s.sessionRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("group service: list sessions: %w", err)
	}
	return sessions, nil
}

// CreateGroupSession создаёт сессию, привязанную к группе. Создавать
// сессии могут только участники группы.
func (s *groupService) CreateGroupSession(ctx context.Context, groupID string, accountID string) (*models.Session, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("group service: get group: %w", err)
	}

	isMember, err := s.groupRepo.IsMember(ctx, groupID, accountID)
	if err != nil {
		return nil, fmt.Errorf("group service: check membership: %w", err)
	}
	if !isMember {
		return nil, ErrNotGroupMember
	}

	return s.sessions.CreateSession(ctx, &groupID)
}
