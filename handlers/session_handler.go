package handlers

import (
	"net/http"

	"matchnight/services"
)

type SessionHandler struct {
	sessionService services.SessionService
}

func NewSessionHandler(ss services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: ss}
}

// CreateSession godoc
// @Summary Создать вечер игр
// @Tags sessions
// @Description Создает активную сессию с коротким кодом присоединения.
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{} "Сессия создана"
// @Failure 500 {object} map[string]string "Внутренняя ошибка"
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.CreateSession(r.Context(), nil)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetSession godoc
// @Summary Получить сессию с составом
// @Tags sessions
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Сессия не найдена"
// @Router /sessions/{sessionID} [get]
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.sessionService.GetSession(r.Context(), sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type joinByCodeInput struct {
	JoinCode string `json:"join_code"`
}

// JoinByCode godoc
// @Summary Найти активную сессию по коду присоединения
// @Tags sessions
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Неверный код"
// @Router /sessions/join [post]
func (h *SessionHandler) JoinByCode(w http.ResponseWriter, r *http.Request) {
	var input joinByCodeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.sessionService.JoinByCode(r.Context(), input.JoinCode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddPlayer godoc
// @Summary Добавить участника в сессию
// @Tags sessions
// @Description Участник без account_id считается гостем.
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param body body services.AddPlayerInput true "Участник"
// @Success 201 {object} map[string]interface{} "Участник добавлен"
// @Failure 400 {object} map[string]string "Сессия завершена или имя пустое"
// @Failure 409 {object} map[string]string "Аккаунт уже в сессии"
// @Router /sessions/{sessionID}/players [post]
func (h *SessionHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AddPlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.sessionService.AddPlayer(r.Context(), sessionID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EndSession godoc
// @Summary Завершить сессию
// @Tags sessions
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Сессия уже завершена"
// @Router /sessions/{sessionID}/end [post]
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.sessionService.EndSession(r.Context(), sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
