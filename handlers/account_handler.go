package handlers

import (
	"net/http"

	"matchnight/services"
)

type AccountHandler struct {
	accountService services.AccountService
}

func NewAccountHandler(as services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: as}
}

type createAccountInput struct {
	DisplayName string `json:"display_name"`
}

// CreateAccount godoc
// @Summary Создать аккаунт
// @Tags accounts
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{} "Аккаунт создан"
// @Failure 400 {object} map[string]string "Имя пустое"
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var input createAccountInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), input.DisplayName)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"account": account}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetAccount godoc
// @Summary Получить аккаунт
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Аккаунт не найден"
// @Router /accounts/{accountID} [get]
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := getUUIDFromURL(r, "accountID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	account, err := h.accountService.GetAccount(r.Context(), accountID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"account": account}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
