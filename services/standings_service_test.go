package services

import (
	"context"
	"testing"
	"time"

	"matchnight/models"
	"matchnight/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seedSession(sessions *fakeSessionRepo, players *fakePlayerRepo, sessionID string, groupID *string, names map[string]*string) {
	sessions.sessions[sessionID] = &models.Session{
		ID:       sessionID,
		GroupID:  groupID,
		JoinCode: "CODE" + sessionID,
		Status:   models.SessionStatusActive,
	}
	for name, accountID := range names {
		players.players = append(players.players, models.SessionPlayer{
			ID:          sessionID + "-" + name,
			SessionID:   sessionID,
			DisplayName: name,
			AccountID:   accountID,
		})
	}
}

func seedMatch(matches *fakeMatchRepo, id, sessionID string, teamA, teamB []string, goalsA, goalsB int) {
	matches.matches = append(matches.matches, models.Match{
		ID:             id,
		SessionID:      sessionID,
		TeamAPlayerIDs: teamA,
		TeamBPlayerIDs: teamB,
		TeamAGoals:     goalsA,
		TeamBGoals:     goalsB,
		PlayedAt:       time.Now(),
	})
}

func newTestStandingsService(matches *fakeMatchRepo, players *fakePlayerRepo, sessions *fakeSessionRepo, standings *fakeStandingRepo, groups *fakeGroupRepo) StandingsService {
	return NewStandingsService(matches, players, sessions, standings, groups, nil, testLogger(), stats.Options{})
}

func TestRecomputeReplacesDerivedRows(t *testing.T) {
	matches := &fakeMatchRepo{}
	players := &fakePlayerRepo{}
	sessions := newFakeSessionRepo()
	standings := newFakeStandingRepo()

	seedSession(sessions, players, "s1", nil, map[string]*string{
		"Ann": nil, "Bob": nil, "Cid": nil,
	})
	seedMatch(matches, "m1", "s1", []string{"s1-Ann", "s1-Bob"}, []string{"s1-Cid"}, 3, 1)

	svc := newTestStandingsService(matches, players, sessions, standings, newFakeGroupRepo())
	require.NoError(t, svc.Recompute(context.Background(), "s1"))

	require.Len(t, standings.players["s1"], 3)
	require.Len(t, standings.pairs["s1"], 1)
	assert.Equal(t, 1, standings.replaces)

	pair := standings.pairs["s1"][0]
	assert.Equal(t, 1, pair.MP)
	assert.Equal(t, 3, pair.Pts)
}

func TestRecomputeMalformedLogLeavesRowsUntouched(t *testing.T) {
	matches := &fakeMatchRepo{}
	players := &fakePlayerRepo{}
	sessions := newFakeSessionRepo()
	standings := newFakeStandingRepo()

	seedSession(sessions, players, "s1", nil, map[string]*string{
		"Ann": nil, "Bob": nil, "Cid": nil,
	})
	standings.players["s1"] = []models.PlayerStanding{{SessionID: "s1", PlayerID: "s1-Ann", DisplayName: "Ann"}}
	// Составы пересекаются — пересчёт обязан отказаться целиком.
	seedMatch(matches, "m1", "s1", []string{"s1-Ann"}, []string{"s1-Ann", "s1-Bob"}, 1, 0)

	svc := newTestStandingsService(matches, players, sessions, standings, newFakeGroupRepo())
	err := svc.Recompute(context.Background(), "s1")
	require.ErrorIs(t, err, ErrStandingsRecomputeFailed)

	assert.Equal(t, 0, standings.replaces)
	assert.Len(t, standings.players["s1"], 1)
}

func TestSessionLeaderboardsSorted(t *testing.T) {
	matches := &fakeMatchRepo{}
	players := &fakePlayerRepo{}
	sessions := newFakeSessionRepo()
	standings := newFakeStandingRepo()

	seedSession(sessions, players, "s1", nil, map[string]*string{
		"Ann": nil, "Bob": nil, "Cid": nil,
	})
	standings.players["s1"] = []models.PlayerStanding{
		{SessionID: "s1", PlayerID: "s1-Bob", DisplayName: "Bob", TeamStats: models.TeamStats{MP: 2, W: 1, L: 1, GF: 2, GA: 2, Pts: 3}},
		{SessionID: "s1", PlayerID: "s1-Ann", DisplayName: "Ann", TeamStats: models.TeamStats{MP: 2, W: 2, GF: 4, GA: 1, GD: 3, Pts: 6}},
	}

	svc := newTestStandingsService(matches, players, sessions, standings, newFakeGroupRepo())
	rows, err := svc.SessionPlayerLeaderboard(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ann", rows[0].DisplayName)
	assert.Equal(t, "Bob", rows[1].DisplayName)
}

func TestSessionLeaderboardUnknownSession(t *testing.T) {
	svc := newTestStandingsService(&fakeMatchRepo{}, &fakePlayerRepo{}, newFakeSessionRepo(), newFakeStandingRepo(), newFakeGroupRepo())

	_, err := svc.SessionPlayerLeaderboard(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGroupPlayerLeaderboardPoolsAcrossSessions(t *testing.T) {
	matches := &fakeMatchRepo{}
	players := &fakePlayerRepo{}
	sessions := newFakeSessionRepo()
	standings := newFakeStandingRepo()
	groups := newFakeGroupRepo()

	groups.groups["g1"] = &models.Group{ID: "g1", Name: "Tuesday crew"}

	// Энн привязана к аккаунту в обеих сессиях, Гио — гость.
	seedSession(sessions, players, "s1", strPtr("g1"), map[string]*string{
		"Ann": strPtr("acc-ann"), "Gio": nil,
	})
	seedSession(sessions, players, "s2", strPtr("g1"), map[string]*string{
		"Ann": strPtr("acc-ann"),
	})

	standings.players["s1"] = []models.PlayerStanding{
		{SessionID: "s1", PlayerID: "s1-Ann", DisplayName: "Ann", TeamStats: models.TeamStats{MP: 2, W: 1, D: 1, GF: 3, GA: 2, GD: 1, Pts: 4}},
		{SessionID: "s1", PlayerID: "s1-Gio", DisplayName: "Gio", TeamStats: models.TeamStats{MP: 1, W: 1, GF: 2, GA: 0, GD: 2, Pts: 3}},
	}
	standings.players["s2"] = []models.PlayerStanding{
		{SessionID: "s2", PlayerID: "s2-Ann", DisplayName: "Ann", TeamStats: models.TeamStats{MP: 1, W: 1, GF: 1, GA: 0, GD: 1, Pts: 3}},
	}

	svc := newTestStandingsService(matches, players, sessions, standings, groups)
	rows, err := svc.GroupPlayerLeaderboard(context.Background(), "g1")
	require.NoError(t, err)

	// Гость не попадает в групповой агрегат.
	require.Len(t, rows, 1)
	assert.Equal(t, "acc-ann", rows[0].AccountID)
	assert.Equal(t, 3, rows[0].MP)
	assert.Equal(t, 7, rows[0].Pts)
	assert.Equal(t, 2, rows[0].GD)
}

func TestGroupLeaderboardUnknownGroup(t *testing.T) {
	svc := newTestStandingsService(&fakeMatchRepo{}, &fakePlayerRepo{}, newFakeSessionRepo(), newFakeStandingRepo(), newFakeGroupRepo())

	_, err := svc.GroupPlayerLeaderboard(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestGroupSessionBreakdown(t *testing.T) {
	matches := &fakeMatchRepo{}
	players := &fakePlayerRepo{}
	sessions := newFakeSessionRepo()
	standings := newFakeStandingRepo()
	groups := newFakeGroupRepo()

	groups.groups["g1"] = &models.Group{ID: "g1", Name: "Tuesday crew"}
	seedSession(sessions, players, "s1", strPtr("g1"), map[string]*string{"Ann": nil})
	seedMatch(matches, "m1", "s1", []string{"s1-Ann"}, []string{"s1-Bob"}, 1, 0)
	standings.players["s1"] = []models.PlayerStanding{
		{SessionID: "s1", PlayerID: "s1-Ann", DisplayName: "Ann", TeamStats: models.TeamStats{MP: 1, W: 1, GF: 1, GD: 1, Pts: 3}},
	}

	svc := newTestStandingsService(matches, players, sessions, standings, groups)
	breakdown, err := svc.GroupSessionBreakdown(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, breakdown, 1)
	assert.Equal(t, "s1", breakdown[0].Session.ID)
	assert.Equal(t, 1, breakdown[0].MatchCount)
	require.Len(t, breakdown[0].Leaderboard, 1)
}
