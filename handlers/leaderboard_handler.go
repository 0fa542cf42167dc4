package handlers

import (
	"net/http"

	"matchnight/services"
)

type LeaderboardHandler struct {
	standingsService services.StandingsService
}

func NewLeaderboardHandler(ss services.StandingsService) *LeaderboardHandler {
	return &LeaderboardHandler{standingsService: ss}
}

// SessionPlayerLeaderboard godoc
// @Summary Таблица игроков сессии
// @Tags leaderboards
// @Description Строки отсортированы: очки, разница голов, забитые, имя.
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Сессия не найдена"
// @Router /sessions/{sessionID}/leaderboard/players [get]
func (h *LeaderboardHandler) SessionPlayerLeaderboard(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.standingsService.SessionPlayerLeaderboard(r.Context(), sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SessionPairLeaderboard godoc
// @Summary Таблица пар сессии
// @Tags leaderboards
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Сессия не найдена"
// @Router /sessions/{sessionID}/leaderboard/pairs [get]
func (h *LeaderboardHandler) SessionPairLeaderboard(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.standingsService.SessionPairLeaderboard(r.Context(), sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GroupPlayerLeaderboard godoc
// @Summary Сводная таблица игроков группы
// @Tags leaderboards
// @Description Суммирует результаты привязанных аккаунтов по всем сессиям группы. Гости не учитываются.
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Группа не найдена"
// @Router /groups/{groupID}/leaderboard/players [get]
func (h *LeaderboardHandler) GroupPlayerLeaderboard(w http.ResponseWriter, r *http.Request) {
	groupID, err := getUUIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.standingsService.GroupPlayerLeaderboard(r.Context(), groupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GroupPairLeaderboard godoc
// @Summary Сводная таблица пар группы
// @Tags leaderboards
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Группа не найдена"
// @Router /groups/{groupID}/leaderboard/pairs [get]
func (h *LeaderboardHandler) GroupPairLeaderboard(w http.ResponseWriter, r *http.Request) {
	groupID, err := getUUIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.standingsService.GroupPairLeaderboard(r.Context(), groupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GroupSessionBreakdown godoc
// @Summary Сессии группы с мини-таблицами
// @Tags leaderboards
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Группа не найдена"
// @Router /groups/{groupID}/sessions/breakdown [get]
func (h *LeaderboardHandler) GroupSessionBreakdown(w http.ResponseWriter, r *http.Request) {
	groupID, err := getUUIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	breakdown, err := h.standingsService.GroupSessionBreakdown(r.Context(), groupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"sessions": breakdown}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
