package handlers

import (
	"net/http"

	"matchnight/services"
)

type GroupHandler struct {
	groupService services.GroupService
}

func NewGroupHandler(gs services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: gs}
}

// CreateGroup godoc
// @Summary Создать группу
// @Tags groups
// @Description Создатель становится администратором группы.
// @Accept json
// @Produce json
// @Param body body services.CreateGroupInput true "Группа"
// @Success 201 {object} map[string]interface{} "Группа создана"
// @Failure 400 {object} map[string]string "Имя группы пустое"
// @Failure 401 {object} map[string]string "Нет заголовка X-Account-ID"
// @Router /groups [post]
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	accountID, err := currentAccountID(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.CreateGroupInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	group, err := h.groupService.CreateGroup(r.Context(), accountID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"group": group}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetGroup godoc
// @Summary Получить группу с участниками
// @Tags groups
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Группа не найдена"
// @Router /groups/{groupID} [get]
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := getUUIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	group, err := h.groupService.GetGroup(r.Context(), groupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"group": group}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListGroupSessions godoc
// @Summary Список сессий группы
// @Tags groups
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Группа не найдена"
// @Router /groups/{groupID}/sessions [get]
func (h *GroupHandler) ListGroupSessions(w http.ResponseWriter, r *http.Request) {
	groupID, err := getUUIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sessions, err := h.groupService.ListGroupSessions(r.Context(), groupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"sessions": sessions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateGroupSession godoc
// @Summary Создать сессию внутри группы
// @Tags groups
// @Description Создавать сессии могут только участники группы.
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 201 {object} map[string]interface{} "Сессия создана"
// @Failure 403 {object} map[string]string "Не участник группы"
// @Failure 404 {object} map[string]string "Группа не найдена"
// @Router /groups/{groupID}/sessions [post]
func (h *GroupHandler) CreateGroupSession(w http.ResponseWriter, r *http.Request) {
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

	session, err := h.groupService.CreateGroupSession(r.Context(), groupID, accountID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
