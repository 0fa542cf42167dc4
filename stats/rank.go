package stats

import (
	"sort"

	"matchnight/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Канонический порядок таблицы: pts ↓, gd ↓, gf ↓, имя ↑ (локалезависимое
// сравнение, как в веб-клиентах), и стабильный запасной ключ по
// идентичности, чтобы даже полностью совпадающие строки сортировались
// детерминированно.

func rowLess(coll *collate.Collator, a, b models.TeamStats, nameA, nameB, keyA, keyB string) bool {
	if a.Pts != b.Pts {
		return a.Pts > b.Pts
	}
	if a.GD != b.GD {
		return a.GD > b.GD
	}
	if a.GF != b.GF {
		return a.GF > b.GF
	}
	if c := coll.CompareString(nameA, nameB); c != 0 {
		return c < 0
	}
	return keyA < keyB
}

func sortRows[T any](rows []T, statsOf func(T) models.TeamStats, nameOf func(T) string, keyOf func(T) string) {
	// collate.Collator не потокобезопасен, поэтому на каждый вызов свой.
	coll := collate.New(language.Und)
	sort.Slice(rows, func(i, j int) bool {
		return rowLess(coll,
			statsOf(rows[i]), statsOf(rows[j]),
			nameOf(rows[i]), nameOf(rows[j]),
			keyOf(rows[i]), keyOf(rows[j]))
	})
}

// SortPlayerStandings sorts session player rows in leaderboard order, in place.
func SortPlayerStandings(rows []models.PlayerStanding) {
	sortRows(rows,
		func(r models.PlayerStanding) models.TeamStats { return r.TeamStats },
		func(r models.PlayerStanding) string { return r.DisplayName },
		func(r models.PlayerStanding) string { return r.PlayerID })
}

// SortPairStandings sorts session pair rows in leaderboard order, in place.
func SortPairStandings(rows []models.PairStanding) {
	sortRows(rows,
		func(r models.PairStanding) models.TeamStats { return r.TeamStats },
		func(r models.PairStanding) string { return r.Label },
		func(r models.PairStanding) string { return PairKey(r.Player1ID, r.Player2ID) })
}

// SortGroupPlayerStandings sorts pooled group player rows, in place.
func SortGroupPlayerStandings(rows []models.GroupPlayerStanding) {
	sortRows(rows,
		func(r models.GroupPlayerStanding) models.TeamStats { return r.TeamStats },
		func(r models.GroupPlayerStanding) string { return r.DisplayName },
		func(r models.GroupPlayerStanding) string { return r.AccountID })
}

// SortGroupPairStandings sorts pooled group pair rows, in place.
func SortGroupPairStandings(rows []models.GroupPairStanding) {
	sortRows(rows,
		func(r models.GroupPairStanding) models.TeamStats { return r.TeamStats },
		func(r models.GroupPairStanding) string { return r.Label },
		func(r models.GroupPairStanding) string { return PairKey(r.Account1ID, r.Account2ID) })
}
