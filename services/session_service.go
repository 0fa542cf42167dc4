package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"matchnight/models"
	"matchnight/repositories"

	"github.com/google/uuid"
)

const (
	joinCodeLength = 6
	// Без 0/O, 1/I/L — код диктуют вслух через стол.
	joinCodeCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

	joinCodeMaxAttempts = 3
)

var ErrJoinCodeGeneration = errors.New("failed to generate unique join code")

type AddPlayerInput struct {
	DisplayName string  `json:"display_name"`
	AccountID   *string `json:"account_id,omitempty"`
}

type SessionService interface {
	CreateSession(ctx context.Context, groupID *string) (*models.Session, error)
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	JoinByCode(ctx context.Context, joinCode string) (*models.Session, error)
	AddPlayer(ctx context.Context, sessionID string, input AddPlayerInput) (*models.SessionPlayer, error)
	EndSession(ctx context.Context, sessionID string) (*models.Session, error)
}

type sessionService struct {
	sessionRepo repositories.SessionRepository
	playerRepo  repositories.SessionPlayerRepository
	logger      *slog.Logger
}

func NewSessionService(
	sessionRepo repositories.SessionRepository,
	playerRepo repositories.SessionPlayerRepository,
	logger *slog.Logger,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		playerRepo:  playerRepo,
		logger:      logger,
	}
}

func generateJoinCode(length int) (string, error) {
	randomBytes := make([]byte, length)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	code := make([]byte, length)
	for i, b := range randomBytes {
		code[i] = joinCodeCharset[int(b)%len(joinCodeCharset)]
	}
	return string(code), nil
}

// CreateSession создаёт активную сессию с уникальным кодом присоединения.
// Конфликт кода — случайность, поэтому несколько повторных попыток.
func (s *sessionService) CreateSession(ctx context.Context, groupID *string) (*models.Session, error) {
	for attempt := 0; attempt < joinCodeMaxAttempts; attempt++ {
		code, err := generateJoinCode(joinCodeLength)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrJoinCodeGeneration, err)
		}

		session := &models.Session{
			ID:       uuid.NewString(),
			GroupID:  groupID,
			JoinCode: code,
			Status:   models.SessionStatusActive,
		}

		err = s.sessionRepo.Create(ctx, session)
		if err == nil {
			s.logger.Info("session created",
				slog.String("session_id", session.ID),
				slog.String("join_code", session.JoinCode))
			return session, nil
		}
		if errors.Is(err, repositories.ErrSessionCodeConflict) {
			continue // Код занят, пробуем снова
		}
		if errors.Is(err, repositories.ErrSessionGroupInvalid) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("session service: create session: %w", err)
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrJoinCodeGeneration, joinCodeMaxAttempts)
}

func (s *sessionService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("session service: get session: %w", err)
	}

	players, err := s.playerRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session service: list players: %w", err)
	}
	session.Players = players
	return session, nil
}

// JoinByCode находит активную сессию по коду. Код нечувствителен к
// регистру: с телефона его набирают как попало.
func (s *sessionService) JoinByCode(ctx context.Context, joinCode string) (*models.Session, error) {
	code := strings.ToUpper(strings.TrimSpace(joinCode))
	if len(code) != joinCodeLength {
		return nil, ErrJoinCodeInvalid
	}

	session, err := s.sessionRepo.GetByJoinCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrJoinCodeInvalid
		}
		return nil, fmt.Errorf("session service: get session by code: %w", err)
	}

	players, err := s.playerRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("session service: list players: %w", err)
	}
	session.Players = players
	return session, nil
}

// AddPlayer добавляет участника в активную сессию. Участник без
// account_id — гость: его результаты живут только внутри этой сессии.
func (s *sessionService) AddPlayer(ctx context.Context, sessionID string, input AddPlayerInput) (*models.SessionPlayer, error) {
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		return nil, ErrDisplayNameRequired
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("session service: get session: %w", err)
	}
	if session.Status != models.SessionStatusActive {
		return nil, ErrSessionEnded
	}

	player := &models.SessionPlayer{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		DisplayName: displayName,
		AccountID:   input.AccountID,
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrSessionPlayerAccountConflict) {
			return nil, ErrAccountAlreadyInSession
		}
		if errors.Is(err, repositories.ErrSessionPlayerSessionInvalid) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("session service: add player: %w", err)
	}

	s.logger.Info("player added to session",
		slog.String("session_id", sessionID),
		slog.String("player_id", player.ID),
		slog.Bool("guest", player.IsGuest()))
	return player, nil
}

func (s *sessionService) EndSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("session service: get session: %w", err)
	}
	if session.Status != models.SessionStatusActive {
		return nil, ErrSessionEnded
	}

	now := time.Now()
	if err := s.sessionRepo.UpdateStatus(ctx, sessionID, models.SessionStatusEnded, &now); err != nil {
		return nil, fmt.Errorf("session service: end session: %w", err)
	}
	session.Status = models.SessionStatusEnded
	session.EndedAt = &now

	s.logger.Info("session ended", slog.String("session_id", sessionID))
	return session, nil
}
