package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/ledgerline-backend/internal/api/dto"
	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/storage"
)

// AccountsHandler handles account-related HTTP requests.
type AccountsHandler struct {
	*Base
}

// NewAccountsHandler creates a new accounts handler.
func NewAccountsHandler(repo storage.Repository) *AccountsHandler {
	return &AccountsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/accounts - returns a paginated list of accounts.
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := storage.AccountFilters{
		IsManual:    ParseBoolPtrParam(r, "is_manual"),
		Type:        r.URL.Query().Get("type"),
		Institution: r.URL.Query().Get("institution"),
		Limit:       ParseIntParam(r, "limit", storage.DefaultListLimit),
		Offset:      ParseIntParam(r, "offset", 0),
	}

	result, err := h.repo.ListAccounts(filters)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.AccountListResponse{
		Accounts:   make([]dto.AccountResponse, 0, len(result.Accounts)),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	}
	for _, account := range result.Accounts {
		response.Accounts = append(response.Accounts, toAccountResponse(account))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Create handles POST /api/accounts - stores a new account.
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid JSON body"))
		return
	}

	if err := req.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	account := req.ToDomain()
	if err := h.repo.SaveAccount(account); err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusCreated, toAccountResponse(account))
}

// Get handles GET /api/accounts/{id} - returns a single account by ID.
func (h *AccountsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("account ID is required"))
		return
	}

	account, err := h.repo.GetAccount(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if account == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("account"))
		return
	}

	h.WriteJSON(w, http.StatusOK, toAccountResponse(account))
}

// Delete handles DELETE /api/accounts/{id} - removes an account.
func (h *AccountsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("account ID is required"))
		return
	}

	account, err := h.repo.GetAccount(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if account == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("account"))
		return
	}

	if err := h.repo.DeleteAccount(id); err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toAccountResponse converts an account record to its API form.
func toAccountResponse(account *accounts.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:                 account.ID,
		Name:               account.Name,
		InstitutionName:    account.Institution(),
		AccountNumberLast4: account.Last4(),
		AccountType:        account.Type,
		IsManual:           account.IsManual,
		Balance:            account.Balance.String(),
		Currency:           account.Currency,
		CreatedAt:          account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          account.UpdatedAt.Format(time.RFC3339),
	}
}
