package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"matchnight/cache"
	"matchnight/models"
	"matchnight/repositories"
	"matchnight/stats"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// StandingsService — точка входа в движок агрегации. Пишущий путь
// (Recompute) перестраивает производные таблицы сессии с нуля от полного
// журнала матчей; читающие пути отдают отсортированные таблицы сессий и
// групповые агрегаты.
type StandingsService interface {
	Recompute(ctx context.Context, sessionID string) error

	SessionPlayerLeaderboard(ctx context.Context, sessionID string) ([]models.PlayerStanding, error)
	SessionPairLeaderboard(ctx context.Context, sessionID string) ([]models.PairStanding, error)

	GroupPlayerLeaderboard(ctx context.Context, groupID string) ([]models.GroupPlayerStanding, error)
	GroupPairLeaderboard(ctx context.Context, groupID string) ([]models.GroupPairStanding, error)
	GroupSessionBreakdown(ctx context.Context, groupID string) ([]models.SessionBreakdown, error)
}

type standingsService struct {
	matchRepo    repositories.MatchRepository
	playerRepo   repositories.SessionPlayerRepository
	sessionRepo  repositories.SessionRepository
	standingRepo repositories.StandingRepository
	groupRepo    repositories.GroupRepository
	boards       *cache.LeaderboardCache
	logger       *slog.Logger
	opts         stats.Options

	// readGroup схлопывает конкурентные чтения одной и той же таблицы
	// при промахе кэша в один запрос к БД.
	readGroup singleflight.Group

	// scopeMu/scopes обеспечивают контракт "не более одного пересчёта
	// на скоуп одновременно": конкурирующие записи в одну сессию
	// сериализуются, перезапись всегда цельная.
	scopeMu sync.Mutex
	scopes  map[string]*sync.Mutex
}

func NewStandingsService(
	matchRepo repositories.MatchRepository,
	playerRepo repositories.SessionPlayerRepository,
	sessionRepo repositories.SessionRepository,
	standingRepo repositories.StandingRepository,
	groupRepo repositories.GroupRepository,
	boards *cache.LeaderboardCache,
	logger *slog.Logger,
	opts stats.Options,
) StandingsService {
	return &standingsService{
		matchRepo:    matchRepo,
		playerRepo:   playerRepo,
		sessionRepo:  sessionRepo,
		standingRepo: standingRepo,
		groupRepo:    groupRepo,
		boards:       boards,
		logger:       logger,
		opts:         opts,
		scopes:       make(map[string]*sync.Mutex),
	}
}

func (s *standingsService) scopeLock(sessionID string) *sync.Mutex {
	s.scopeMu.Lock()
	defer s.scopeMu.Unlock()
	lock, ok := s.scopes[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.scopes[sessionID] = lock
	}
	return lock
}

// Recompute перестраивает обе таблицы сессии от полного журнала матчей и
// атомарно заменяет сохранённые строки. Любая ошибка оставляет прежние
// строки нетронутыми.
func (s *standingsService) Recompute(ctx context.Context, sessionID string) error {
	lock := s.scopeLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	// Журнал и состав читаются параллельно — обе выборки обязаны
	// удаться, иначе пересчёт не начинается.
	var (
		matches []models.Match
		roster  []models.SessionPlayer
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListBySession(gCtx, sessionID)
		return err
	})
	g.Go(func() error {
		var err error
		roster, err = s.playerRepo.ListBySession(gCtx, sessionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrStandingsRecomputeFailed, err)
	}

	players, pairs, err := stats.ComputeStandings(matches, roster, s.opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStandingsRecomputeFailed, err)
	}

	// Репозиторий выполняет замену в собственной транзакции: при любой
	// ошибке прежние строки остаются на месте.
	if err := s.standingRepo.ReplaceForSession(ctx, nil, sessionID, players, pairs); err != nil {
		return fmt.Errorf("%w: %w", ErrStandingsRecomputeFailed, err)
	}

	if err := s.boards.InvalidateSession(ctx, sessionID); err != nil {
		// Кэш с TTL догонит сам; пересчёт от этого не ломается.
		s.logger.Warn("failed to invalidate leaderboard cache",
			slog.String("session_id", sessionID), slog.Any("error", err))
	}

	s.logger.Info("standings recomputed",
		slog.String("session_id", sessionID),
		slog.Int("matches", len(matches)),
		slog.Int("player_rows", len(players)),
		slog.Int("pair_rows", len(pairs)))
	return nil
}

func (s *standingsService) ensureSession(ctx context.Context, sessionID string) error {
	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("%w: %w", ErrLeaderboardLoadFailed, err)
	}
	return nil
}

func (s *standingsService) SessionPlayerLeaderboard(ctx context.Context, sessionID string) ([]models.PlayerStanding, error) {
	if err := s.ensureSession(ctx, sessionID); err != nil {
		return nil, err
	}

	key := cache.SessionPlayerKey(sessionID)
	var cached []models.PlayerStanding
	if hit, err := s.boards.Get(ctx, key, &cached); err != nil {
		s.logger.Warn("leaderboard cache read failed", slog.Any("error", err))
	} else if hit {
		return cached, nil
	}

	v, err, _ := s.readGroup.Do(key, func() (interface{}, error) {
		rows, err := s.standingRepo.ListPlayerStandingsBySession(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLeaderboardLoadFailed, err)
		}
		stats.SortPlayerStandings(rows)
		if err := s.boards.Set(ctx, key, rows); err != nil {
			s.logger.Warn("leaderboard cache write failed", slog.Any("error", err))
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.PlayerStanding), nil
}

func (s *standingsService) SessionPairLeaderboard(ctx context.Context, sessionID string) ([]models.PairStanding, error) {
	if err := s.ensureSession(ctx, sessionID); err != nil {
		return nil, err
	}

	key := cache.SessionPairKey(sessionID)
	var cached []models.PairStanding
	if hit, err := s.boards.Get(ctx, key, &cached); err != nil {
		s.logger.Warn("leaderboard cache read failed", slog.Any("error", err))
	} else if hit {
		return cached, nil
	}

	v, err, _ := s.readGroup.Do(key, func() (interface{}, error) {
		rows, err := s.standingRepo.ListPairStandingsBySession(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLeaderboardLoadFailed, err)
		}
		stats.SortPairStandings(rows)
		if err := s.boards.Set(ctx, key, rows); err != nil {
			s.logger.Warn("leaderboard cache write failed", slog.Any("error", err))
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.PairStanding), nil
}

// groupScope загружает сессии группы вместе с игроками всех сессий.
func (s *standingsService) groupScope(ctx context.Context, groupID string) ([]models.Session, []string, map[string]models.SessionPlayer, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return nil, nil, nil, ErrGroupNotFound
		}
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrLeaderboardLoadFailed, err)
	}

	sessions, err := s.sessionRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrLeaderboardLoadFailed, err)
	}

	sessionIDs := make([]string, len(sessions))
	for i, sess := range sessions {
		sessionIDs[i] = sess.ID
	}

	players, err := s.playerRepo.ListBySessions(ctx, sessionIDs)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrLeaderboardLoadFailed, err)
	}
	roster := make(map[string]models.SessionPlayer, len(players))
	for _, p := range players {
		roster[p.ID] = p
	}

	return sessions, sessionIDs, roster, nil
}

func (s *standingsService) GroupPlayerLeaderboard(ctx context.Context, groupID string) ([]models.GroupPlayerStanding, error) {
	_, sessionIDs, roster, err := s.groupScope(ctx, groupID)
	if err != nil {
		return nil, err
	}

	rows, err := s.standingRepo.ListPlayerStandingsBySessions(ctx, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLeaderboardLoadFailed, err)
	}

	merged := stats.MergeGroupPlayerStandings(rows, roster)
	stats.SortGroupPlayerStandings(merged)
	return merged, nil
}

func (s *standingsService) GroupPairLeaderboard(ctx context.Context, groupID string) ([]models.GroupPairStanding, error) {
	_, sessionIDs, roster, err := s.groupScope(ctx, groupID)
	if err != nil {
		return nil, err
	}

	rows, err := s.standingRepo.ListPairStandingsBySessions(ctx, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLeaderboardLoadFailed, err)
	}

	merged := stats.MergeGroupPairStandings(rows, roster)
	stats.SortGroupPairStandings(merged)
	return merged, nil
}

func (s *standingsService) GroupSessionBreakdown(ctx context.Context, groupID string) ([]models.SessionBreakdown, error) {
	sessions, sessionIDs, _, err := s.groupScope(ctx, groupID)
	if err != nil {
		return nil, err
	}

	rows, err := s.standingRepo.ListPlayerStandingsBySessions(ctx, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLeaderboardLoadFailed, err)
	}
	bySession := make(map[string][]models.PlayerStanding, len(sessions))
	for _, row := range rows {
		bySession[row.SessionID] = append(bySession[row.SessionID], row)
	}

	breakdown := make([]models.SessionBreakdown, 0, len(sessions))
	for _, sess := range sessions {
		leaderboard := bySession[sess.ID]
		stats.SortPlayerStandings(leaderboard)

		count, err := s.matchRepo.CountBySession(ctx, sess.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLeaderboardLoadFailed, err)
		}

		breakdown = append(breakdown, models.SessionBreakdown{
			Session:     sess,
			Leaderboard: leaderboard,
			MatchCount:  count,
		})
	}
	return breakdown, nil
}
