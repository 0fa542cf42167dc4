package stats

import (
	"testing"

	"matchnight/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSession = "s1"

func testRoster(ids ...string) []models.SessionPlayer {
	roster := make([]models.SessionPlayer, 0, len(ids))
	for _, id := range ids {
		roster = append(roster, models.SessionPlayer{
			ID:          id,
			SessionID:   testSession,
			DisplayName: "Player " + id,
		})
	}
	return roster
}

func match(id string, teamA, teamB []string, goalsA, goalsB int) models.Match {
	return models.Match{
		ID:             id,
		SessionID:      testSession,
		TeamAPlayerIDs: teamA,
		TeamBPlayerIDs: teamB,
		TeamAGoals:     goalsA,
		TeamBGoals:     goalsB,
	}
}

func playerByID(t *testing.T, rows []models.PlayerStanding, id string) models.PlayerStanding {
	t.Helper()
	for _, r := range rows {
		if r.PlayerID == id {
			return r
		}
	}
	t.Fatalf("no standing row for player %s", id)
	return models.PlayerStanding{}
}

func pairByIDs(t *testing.T, rows []models.PairStanding, id1, id2 string) models.PairStanding {
	t.Helper()
	a, b := NormalizePair(id1, id2)
	for _, r := range rows {
		if r.Player1ID == a && r.Player2ID == b {
			return r
		}
	}
	t.Fatalf("no pair row for (%s,%s)", id1, id2)
	return models.PairStanding{}
}

// 2v1: победители получают по 3 очка, одиночка — поражение, пара только
// у стороны из двух игроков.
func TestComputeStandingsTwoVersusOne(t *testing.T) {
	roster := testRoster("p1", "p2", "p3")
	matches := []models.Match{
		match("m1", []string{"p1", "p2"}, []string{"p3"}, 3, 1),
	}

	players, pairs, err := ComputeStandings(matches, roster, Options{})
	require.NoError(t, err)
	require.Len(t, players, 3)
	require.Len(t, pairs, 1)

	winner := models.TeamStats{MP: 1, W: 1, GF: 3, GA: 1, GD: 2, Pts: 3}
	assert.Equal(t, winner, playerByID(t, players, "p1").TeamStats)
	assert.Equal(t, winner, playerByID(t, players, "p2").TeamStats)
	assert.Equal(t,
		models.TeamStats{MP: 1, L: 1, GF: 1, GA: 3, GD: -2, Pts: 0},
		playerByID(t, players, "p3").TeamStats)

	pair := pairByIDs(t, pairs, "p1", "p2")
	assert.Equal(t, winner, pair.TeamStats)
	assert.Equal(t, "Player p1 & Player p2", pair.Label)
}

func TestComputeStandingsDraw(t *testing.T) {
	roster := testRoster("p1", "p2", "p3", "p4")
	matches := []models.Match{
		match("m1", []string{"p1", "p2"}, []string{"p3", "p4"}, 2, 2),
	}

	players, pairs, err := ComputeStandings(matches, roster, Options{})
	require.NoError(t, err)
	require.Len(t, players, 4)
	require.Len(t, pairs, 2)

	drawn := models.TeamStats{MP: 1, D: 1, GF: 2, GA: 2, GD: 0, Pts: 1}
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		assert.Equal(t, drawn, playerByID(t, players, id).TeamStats, "player %s", id)
	}
	assert.Equal(t, drawn, pairByIDs(t, pairs, "p1", "p2").TeamStats)
	assert.Equal(t, drawn, pairByIDs(t, pairs, "p3", "p4").TeamStats)
}

// Пара, сыгравшая и за "сторону A", и за "сторону B", копит в один
// аккумулятор.
func TestComputeStandingsPairAccumulatesAcrossSides(t *testing.T) {
	roster := testRoster("p1", "p2", "p3", "p4")
	matches := []models.Match{
		match("m1", []string{"p1", "p2"}, []string{"p3", "p4"}, 3, 1),
		match("m2", []string{"p3", "p4"}, []string{"p1", "p2"}, 0, 2),
	}

	_, pairs, err := ComputeStandings(matches, roster, Options{})
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.Equal(t,
		models.TeamStats{MP: 2, W: 2, GF: 5, GA: 1, GD: 4, Pts: 6},
		pairByIDs(t, pairs, "p1", "p2").TeamStats)
	assert.Equal(t,
		models.TeamStats{MP: 2, L: 2, GF: 1, GA: 5, GD: -4, Pts: 0},
		pairByIDs(t, pairs, "p3", "p4").TeamStats)
}

// Команда, записанная как [B,A], попадает в ту же пару, что и [A,B].
func TestComputeStandingsPairOrderNormalized(t *testing.T) {
	roster := testRoster("p1", "p2", "p3")
	matches := []models.Match{
		match("m1", []string{"p1", "p2"}, []string{"p3"}, 1, 0),
		match("m2", []string{"p2", "p1"}, []string{"p3"}, 2, 0),
	}

	_, pairs, err := ComputeStandings(matches, roster, Options{})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t,
		models.TeamStats{MP: 2, W: 2, GF: 3, GA: 0, GD: 3, Pts: 6},
		pairByIDs(t, pairs, "p1", "p2").TeamStats)
}

func TestComputeStandingsEmptyScope(t *testing.T) {
	players, pairs, err := ComputeStandings(nil, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, players)
	assert.Empty(t, pairs)
}

func TestComputeStandingsZeroRowPolicy(t *testing.T) {
	roster := testRoster("p1", "p2", "p3", "idle")
	matches := []models.Match{
		match("m1", []string{"p1", "p2"}, []string{"p3"}, 1, 0),
	}

	players, _, err := ComputeStandings(matches, roster, Options{})
	require.NoError(t, err)
	assert.Len(t, players, 3, "zero-match players omitted by default")

	players, _, err = ComputeStandings(matches, roster, Options{IncludeZeroRows: true})
	require.NoError(t, err)
	require.Len(t, players, 4)
	assert.Equal(t, models.TeamStats{}, playerByID(t, players, "idle").TeamStats)
}

func TestComputeStandingsOrderIndependent(t *testing.T) {
	roster := testRoster("p1", "p2", "p3", "p4")
	matches := []models.Match{
		match("m1", []string{"p1", "p2"}, []string{"p3", "p4"}, 3, 1),
		match("m2", []string{"p1", "p3"}, []string{"p2", "p4"}, 2, 2),
		match("m3", []string{"p4"}, []string{"p1", "p2"}, 1, 0),
	}

	wantPlayers, wantPairs, err := ComputeStandings(matches, roster, Options{})
	require.NoError(t, err)

	shuffled := []models.Match{matches[2], matches[0], matches[1]}
	gotPlayers, gotPairs, err := ComputeStandings(shuffled, roster, Options{})
	require.NoError(t, err)

	assert.ElementsMatch(t, wantPlayers, gotPlayers)
	assert.ElementsMatch(t, wantPairs, gotPairs)
}

func TestValidateMatchRejectsMalformed(t *testing.T) {
	roster := testRoster("p1", "p2", "p3", "p4")
	index := make(map[string]models.SessionPlayer, len(roster))
	for _, p := range roster {
		index[p.ID] = p
	}

	cases := []struct {
		name  string
		match models.Match
	}{
		{"empty side", match("m", []string{"p1", "p2"}, nil, 1, 0)},
		{"oversized side", match("m", []string{"p1", "p2"}, []string{"p3", "p4", "p1"}, 1, 0)},
		{"overlapping rosters", match("m", []string{"p1", "p2"}, []string{"p2", "p3"}, 1, 0)},
		{"duplicate within side", match("m", []string{"p1", "p1"}, []string{"p2"}, 1, 0)},
		{"1v1", match("m", []string{"p1"}, []string{"p2"}, 1, 0)},
		{"negative goals", match("m", []string{"p1", "p2"}, []string{"p3"}, -1, 0)},
		{"goals above limit", match("m", []string{"p1", "p2"}, []string{"p3"}, 20, 0)},
		{"unknown player", match("m", []string{"p1", "ghost"}, []string{"p3"}, 1, 0)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateMatch(tc.match, index, Options{})
			require.Error(t, err)

			var malformedErr *MalformedMatchError
			require.ErrorAs(t, err, &malformedErr)
			assert.Equal(t, "m", malformedErr.MatchID)
		})
	}
}

func TestValidateMatchGoalLimitConfigurable(t *testing.T) {
	index := map[string]models.SessionPlayer{
		"p1": {ID: "p1"}, "p2": {ID: "p2"}, "p3": {ID: "p3"},
	}
	m := match("m", []string{"p1", "p2"}, []string{"p3"}, 25, 0)

	assert.Error(t, ValidateMatch(m, index, Options{}))
	assert.NoError(t, ValidateMatch(m, index, Options{MaxGoals: 30}))
	assert.NoError(t, ValidateMatch(m, index, Options{MaxGoals: -1}))
}

// Битая запись прерывает агрегацию целиком: частичного результата нет.
func TestComputeStandingsFailsFast(t *testing.T) {
	roster := testRoster("p1", "p2", "p3")
	matches := []models.Match{
		match("ok", []string{"p1", "p2"}, []string{"p3"}, 1, 0),
		match("bad", []string{"p1"}, []string{"p1", "p2"}, 1, 0),
	}

	players, pairs, err := ComputeStandings(matches, roster, Options{})
	require.Error(t, err)
	assert.Nil(t, players)
	assert.Nil(t, pairs)

	var malformedErr *MalformedMatchError
	require.ErrorAs(t, err, &malformedErr)
	assert.Equal(t, "bad", malformedErr.MatchID)
}
