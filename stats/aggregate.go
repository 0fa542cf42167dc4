package stats

import (
	"fmt"

	"matchnight/models"
)

// DefaultMaxGoals — верхняя граница счёта по умолчанию. Наблюдаемое
// ограничение формы ввода, а не инвариант домена, поэтому настраивается
// через Options.
const DefaultMaxGoals = 19

// Options управляет пограничными политиками движка агрегации. Нулевое
// значение воспроизводит эталонное поведение: игроки без матчей
// опускаются, счёт ограничен DefaultMaxGoals.
type Options struct {
	// IncludeZeroRows — включать ли в выдачу игроков без единого матча
	// (со всеми нулевыми счётчиками).
	IncludeZeroRows bool

	// MaxGoals — максимальный счёт одной стороны. 0 означает
	// DefaultMaxGoals, отрицательное значение снимает ограничение.
	MaxGoals int
}

func (o Options) maxGoals() int {
	if o.MaxGoals == 0 {
		return DefaultMaxGoals
	}
	return o.MaxGoals
}

// MalformedMatchError сообщает о записи матча, нарушающей инварианты
// составов или счёта. Агрегация отвергает такую запись целиком: битые
// данные не должны молча попадать в таблицу.
type MalformedMatchError struct {
	MatchID string
	Reason  string
}

func (e *MalformedMatchError) Error() string {
	return fmt.Sprintf("malformed match %s: %s", e.MatchID, e.Reason)
}

func malformed(matchID, format string, args ...interface{}) error {
	return &MalformedMatchError{MatchID: matchID, Reason: fmt.Sprintf(format, args...)}
}

// ValidateMatch проверяет одну запись матча против инвариантов: 1–2 игрока
// на сторону, непересекающиеся составы, минимум 3 различных игрока,
// счёт в допустимых границах, все идентификаторы известны составу сессии.
// roster == nil отключает проверку принадлежности к составу.
func ValidateMatch(m models.Match, roster map[string]models.SessionPlayer, opts Options) error {
	if n := len(m.TeamAPlayerIDs); n < 1 || n > 2 {
		return malformed(m.ID, "team A has %d players, want 1 or 2", n)
	}
	if n := len(m.TeamBPlayerIDs); n < 1 || n > 2 {
		return malformed(m.ID, "team B has %d players, want 1 or 2", n)
	}

	seen := make(map[string]struct{}, 4)
	for _, id := range m.TeamAPlayerIDs {
		if _, dup := seen[id]; dup {
			return malformed(m.ID, "player %s appears twice on team A", id)
		}
		seen[id] = struct{}{}
	}
	for _, id := range m.TeamBPlayerIDs {
		if _, dup := seen[id]; dup {
			return malformed(m.ID, "player %s appears on both sides or twice on team B", id)
		}
		seen[id] = struct{}{}
	}
	if len(seen) < 3 {
		return malformed(m.ID, "only %d distinct players, matches are 2v2 or 2v1", len(seen))
	}

	max := opts.maxGoals()
	checkGoals := func(side string, goals int) error {
		if goals < 0 {
			return malformed(m.ID, "team %s goals are negative (%d)", side, goals)
		}
		if max > 0 && goals > max {
			return malformed(m.ID, "team %s goals %d exceed limit %d", side, goals, max)
		}
		return nil
	}
	if err := checkGoals("A", m.TeamAGoals); err != nil {
		return err
	}
	if err := checkGoals("B", m.TeamBGoals); err != nil {
		return err
	}

	if roster != nil {
		for id := range seen {
			if _, ok := roster[id]; !ok {
				return malformed(m.ID, "player %s is not in the session roster", id)
			}
		}
	}

	return nil
}

// ComputeStandings сворачивает полный журнал матчей одной сессии в две
// производные таблицы: по игрокам и по парам. Чистая функция: один и тот
// же журнал и состав всегда дают один и тот же результат, порядок матчей
// на итог не влияет. Пустой журнал — не ошибка, а пустые таблицы.
//
// Любая запись, нарушающая инварианты, прерывает агрегацию целиком
// (*MalformedMatchError); частичного результата не бывает.
func ComputeStandings(
	matches []models.Match,
	roster []models.SessionPlayer,
	opts Options,
) ([]models.PlayerStanding, []models.PairStanding, error) {
	byID := make(map[string]models.SessionPlayer, len(roster))
	for _, p := range roster {
		byID[p.ID] = p
	}

	// Сначала валидация всего журнала: либо считаем всё, либо ничего.
	for _, m := range matches {
		if err := ValidateMatch(m, byID, opts); err != nil {
			return nil, nil, err
		}
	}

	playerAgg := make(map[string]models.TeamStats, len(roster))
	pairAgg := make(map[string]*models.PairStanding)
	var pairOrder []string

	foldSide := func(m models.Match, team []string, goalsFor, goalsAgainst int) {
		for _, id := range team {
			playerAgg[id] = Accumulate(playerAgg[id], goalsFor, goalsAgainst)
		}

		// Пару образует только сторона из двух игроков: одиночка
		// "против двоих" парной строки не получает.
		if len(team) != 2 {
			return
		}
		id1, id2 := NormalizePair(team[0], team[1])
		key := PairKey(id1, id2)
		entry, ok := pairAgg[key]
		if !ok {
			entry = &models.PairStanding{
				SessionID: m.SessionID,
				Player1ID: id1,
				Player2ID: id2,
				Label:     PairLabel(byID[id1].DisplayName, byID[id2].DisplayName),
			}
			pairAgg[key] = entry
			pairOrder = append(pairOrder, key)
		}
		entry.TeamStats = Accumulate(entry.TeamStats, goalsFor, goalsAgainst)
	}

	for _, m := range matches {
		foldSide(m, m.TeamAPlayerIDs, m.TeamAGoals, m.TeamBGoals)
		foldSide(m, m.TeamBPlayerIDs, m.TeamBGoals, m.TeamAGoals)
	}

	players := make([]models.PlayerStanding, 0, len(roster))
	for _, p := range roster {
		agg, played := playerAgg[p.ID]
		if !played && !opts.IncludeZeroRows {
			continue
		}
		players = append(players, models.PlayerStanding{
			SessionID:   p.SessionID,
			PlayerID:    p.ID,
			DisplayName: p.DisplayName,
			TeamStats:   agg,
		})
	}

	pairs := make([]models.PairStanding, 0, len(pairOrder))
	for _, key := range pairOrder {
		pairs = append(pairs, *pairAgg[key])
	}

	return players, pairs, nil
}
