package stats

import "matchnight/models"

// Пулинг таблиц нескольких сессий в групповой агрегат. Складываются уже
// посчитанные построчные агрегаты (суммирование TeamStats коммутативно,
// поэтому результат совпадает с пересчётом от общего журнала). Гости
// исключаются явно: их идентификаторы не сравнимы между сессиями.

func addStats(a, b models.TeamStats) models.TeamStats {
	a.MP += b.MP
	a.W += b.W
	a.D += b.D
	a.L += b.L
	a.GF += b.GF
	a.GA += b.GA
	a.GD = a.GF - a.GA
	a.Pts += b.Pts
	return a
}

// MergeGroupPlayerStandings объединяет построчные агрегаты игроков всех
// сессий группы по привязанному аккаунту. roster индексирует игроков всех
// сессий по ID. Строки гостей (без аккаунта) и строки неизвестных игроков
// пропускаются. Имя берётся из первой встреченной строки аккаунта.
func MergeGroupPlayerStandings(
	rows []models.PlayerStanding,
	roster map[string]models.SessionPlayer,
) []models.GroupPlayerStanding {
	agg := make(map[string]*models.GroupPlayerStanding)
	var order []string

	for _, row := range rows {
		player, ok := roster[row.PlayerID]
		if !ok || player.IsGuest() {
			continue
		}
		accountID := *player.AccountID
		entry, ok := agg[accountID]
		if !ok {
			entry = &models.GroupPlayerStanding{
				AccountID:   accountID,
				DisplayName: row.DisplayName,
			}
			agg[accountID] = entry
			order = append(order, accountID)
		}
		entry.TeamStats = addStats(entry.TeamStats, row.TeamStats)
	}

	merged := make([]models.GroupPlayerStanding, 0, len(order))
	for _, id := range order {
		merged = append(merged, *agg[id])
	}
	return merged
}

// MergeGroupPairStandings объединяет парные агрегаты всех сессий группы.
// Пара исключается, если хотя бы один участник — гость: проверка явная,
// а не побочный эффект несовпадения ключей. Ключ — нормализованная пара
// ID аккаунтов, поэтому одни и те же два аккаунта из разных сессий
// сливаются в одну строку.
func MergeGroupPairStandings(
	rows []models.PairStanding,
	roster map[string]models.SessionPlayer,
) []models.GroupPairStanding {
	names := make(map[string]string)
	agg := make(map[string]*models.GroupPairStanding)
	var order []string

	for _, row := range rows {
		p1, ok1 := roster[row.Player1ID]
		p2, ok2 := roster[row.Player2ID]
		if !ok1 || !ok2 || p1.IsGuest() || p2.IsGuest() {
			continue
		}

		a1, a2 := NormalizePair(*p1.AccountID, *p2.AccountID)
		name := func(accountID string, fallback string) string {
			if n, ok := names[accountID]; ok {
				return n
			}
			names[accountID] = fallback
			return fallback
		}
		// Имена фиксируются по первому вхождению аккаунта, порядок в
		// подписи повторяет нормализованный порядок идентификаторов.
		var n1, n2 string
		if a1 == *p1.AccountID {
			n1, n2 = name(a1, p1.DisplayName), name(a2, p2.DisplayName)
		} else {
			n1, n2 = name(a1, p2.DisplayName), name(a2, p1.DisplayName)
		}

		key := PairKey(a1, a2)
		entry, ok := agg[key]
		if !ok {
			entry = &models.GroupPairStanding{
				Account1ID: a1,
				Account2ID: a2,
				Label:      PairLabel(n1, n2),
			}
			agg[key] = entry
			order = append(order, key)
		}
		entry.TeamStats = addStats(entry.TeamStats, row.TeamStats)
	}

	merged := make([]models.GroupPairStanding, 0, len(order))
	for _, key := range order {
		merged = append(merged, *agg[key])
	}
	return merged
}
