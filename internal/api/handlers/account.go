package handlers

import (
	"net/http"

	"github.com/mkovac/go-shelter/internal/api/dto"
	"github.com/mkovac/go-shelter/internal/api/middleware"
	"github.com/mkovac/go-shelter/internal/auth"
)

// AccountHandler serves the bearer-authenticated account endpoints: its own
// deletion, its adoption posts, and logout.
type AccountHandler struct {
	authService *auth.Service
}

func NewAccountHandler(authService *auth.Service) *AccountHandler {
	return &AccountHandler{authService: authService}
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.authService.DeleteAccount(r.Context(), userID); err != nil {
		writeAuthError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) Pets(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	petList, err := h.authService.PetsForUser(r.Context(), userID)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PetsResponse{Pets: petList})
}

func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	token := middleware.GetSessionToken(r.Context())

	if err := h.authService.Logout(r.Context(), userID, token); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal Server Error"})
		return
	}

	w.WriteHeader(http.StatusOK)
}
