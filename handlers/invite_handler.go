package handlers

import (
	"net/http"

	"matchnight/services"

	"github.com/go-chi/chi/v5"
)

type InviteHandler struct {
	inviteService services.InviteService
}

func NewInviteHandler(is services.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: is}
}

// CreateInvite godoc
// @Summary Выпустить приглашение в группу
// @Tags invites
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 201 {object} map[string]interface{} "Приглашение создано"
// @Failure 403 {object} map[string]string "Не участник группы"
// @Failure 404 {object} map[string]string "Группа не найдена"
// @Router /groups/{groupID}/invites [post]
func (h *InviteHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	accountID, err := currentAccountID(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	groupID, err := getUUIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	invite, err := h.inviteService.CreateInvite(r.Context(), groupID, accountID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// Токен возвращается только здесь: в списках он не светится.
	response := jsonResponse{
		"invite": invite,
		"token":  invite.Token,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListGroupInvites godoc
// @Summary Активные приглашения группы
// @Tags invites
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Не участник группы"
// @Router /groups/{groupID}/invites [get]
func (h *InviteHandler) ListGroupInvites(w http.ResponseWriter, r *http.Request) {
	accountID, err := currentAccountID(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	groupID, err := getUUIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	invites, err := h.inviteService.ListGroupInvites(r.Context(), groupID, accountID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"invites": invites}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteInvite godoc
// @Summary Отозвать приглашение
// @Tags invites
// @Produce json
// @Param inviteID path string true "Invite ID"
// @Success 204 "Приглашение отозвано"
// @Failure 403 {object} map[string]string "Не участник группы"
// @Failure 404 {object} map[string]string "Приглашение не найдено"
// @Router /groups/{groupID}/invites/{inviteID} [delete]
func (h *InviteHandler) DeleteInvite(w http.ResponseWriter, r *http.Request) {
	accountID, err := currentAccountID(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	inviteID, err := getUUIDFromURL(r, "inviteID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.inviteService.DeleteInvite(r.Context(), inviteID, accountID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetInviteByToken godoc
// @Summary Посмотреть приглашение по токену
// @Tags invites
// @Produce json
// @Param token path string true "Invite token"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Приглашение просрочено"
// @Failure 404 {object} map[string]string "Приглашение не найдено"
// @Router /invites/{token} [get]
func (h *InviteHandler) GetInviteByToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	invite, err := h.inviteService.GetInviteByToken(r.Context(), token)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"invite": invite}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AcceptInvite godoc
// @Summary Принять приглашение
// @Tags invites
// @Description Добавляет аккаунт в группу и гасит токен.
// @Produce json
// @Param token path string true "Invite token"
// @Success 200 {object} map[string]interface{} "Аккаунт добавлен в группу"
// @Failure 400 {object} map[string]string "Приглашение просрочено"
// @Failure 409 {object} map[string]string "Уже участник группы"
// @Router /invites/{token}/accept [post]
func (h *InviteHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	accountID, err := currentAccountID(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	token := chi.URLParam(r, "token")

	group, err := h.inviteService.AcceptInvite(r.Context(), token, accountID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"group": group}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
