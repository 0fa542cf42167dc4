package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"matchnight/models"
	"matchnight/repositories"
	"matchnight/stats"

	"github.com/google/uuid"
)

// CreateMatchInput — сырой ввод с формы записи матча.
type CreateMatchInput struct {
	TeamAPlayerIDs []string   `json:"team_a_player_ids"`
	TeamBPlayerIDs []string   `json:"team_b_player_ids"`
	TeamAGoals     int        `json:"team_a_goals"`
	TeamBGoals     int        `json:"team_b_goals"`
	PlayedAt       *time.Time `json:"played_at,omitempty"`
}

type MatchService interface {
	CreateMatch(ctx context.Context, sessionID string, input CreateMatchInput) (*models.Match, error)
	GetMatch(ctx context.Context, matchID string) (*models.Match, error)
	ListSessionMatches(ctx context.Context, sessionID string) ([]models.Match, error)
	DeleteMatch(ctx context.Context, matchID string) error
}

type matchService struct {
	matchRepo   repositories.MatchRepository
	playerRepo  repositories.SessionPlayerRepository
	sessionRepo repositories.SessionRepository
	standings   StandingsService
	logger      *slog.Logger
	opts        stats.Options
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	playerRepo repositories.SessionPlayerRepository,
	sessionRepo repositories.SessionRepository,
	standings StandingsService,
	logger *slog.Logger,
	opts stats.Options,
) MatchService {
	return &matchService{
		matchRepo:   matchRepo,
		playerRepo:  playerRepo,
		sessionRepo: sessionRepo,
		standings:   standings,
		logger:      logger,
		opts:        opts,
	}
}

// CreateMatch валидирует запись против состава сессии, сохраняет её и
// запускает полный пересчёт таблиц. Если пересчёт не удался, запись
// откатывается компенсирующим удалением — таблицы и журнал не расходятся.
func (s *matchService) CreateMatch(ctx context.Context, sessionID string, input CreateMatchInput) (*models.Match, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("match service: get session: %w", err)
	}
	if session.Status != models.SessionStatusActive {
		return nil, ErrSessionEnded
	}

	players, err := s.playerRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("match service: list players: %w", err)
	}
	roster := make(map[string]models.SessionPlayer, len(players))
	for _, p := range players {
		roster[p.ID] = p
	}

	playedAt := time.Now()
	if input.PlayedAt != nil {
		playedAt = *input.PlayedAt
	}

	match := &models.Match{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		TeamAPlayerIDs: input.TeamAPlayerIDs,
		TeamBPlayerIDs: input.TeamBPlayerIDs,
		TeamAGoals:     input.TeamAGoals,
		TeamBGoals:     input.TeamBGoals,
		PlayedAt:       playedAt,
	}

	if err := stats.ValidateMatch(*match, roster, s.opts); err != nil {
		var malformed *stats.MalformedMatchError
		if errors.As(err, &malformed) {
			return nil, fmt.Errorf("%w: %s", ErrValidationFailed, malformed.Reason)
		}
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		if errors.Is(err, repositories.ErrMatchSessionInvalid) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("match service: create match: %w", err)
	}

	if err := s.standings.Recompute(ctx, sessionID); err != nil {
		// Компенсирующее удаление: матч без актуальных таблиц хуже,
		// чем отклонённая запись.
		if delErr := s.matchRepo.Delete(ctx, nil, match.ID); delErr != nil {
			s.logger.Error("failed to roll back match after recompute failure",
				slog.String("match_id", match.ID), slog.Any("error", delErr))
		}
		return nil, err
	}

	s.logger.Info("match recorded",
		slog.String("session_id", sessionID),
		slog.String("match_id", match.ID),
		slog.Int("team_a_goals", match.TeamAGoals),
		slog.Int("team_b_goals", match.TeamBGoals))
	return match, nil
}

func (s *matchService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("match service: get match: %w", err)
	}
	return match, nil
}

func (s *matchService) ListSessionMatches(ctx context.Context, sessionID string) ([]models.Match, error) {
	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("match service: get session: %w", err)
	}
	matches, err := s.matchRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("match service: list matches: %w", err)
	}
	return matches, nil
}

// DeleteMatch удаляет запись и пересчитывает таблицы от оставшегося
// журнала. Пересчёт после удаления обязателен: производные строки не
// корректируются инкрементально.
func (s *matchService) DeleteMatch(ctx context.Context, matchID string) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("match service: get match: %w", err)
	}

	if err := s.matchRepo.Delete(ctx, nil, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("match service: delete match: %w", err)
	}

	if err := s.standings.Recompute(ctx, match.SessionID); err != nil {
		return err
	}

	s.logger.Info("match deleted",
		slog.String("session_id", match.SessionID),
		slog.String("match_id", matchID))
	return nil
}
