package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mkovac/go-shelter/internal/api/dto"
	"github.com/mkovac/go-shelter/internal/auth"
)

type AuthHandler struct {
	authService *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	result, err := h.authService.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	message, err := h.authService.Verify(r.Context(), email)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(message))
}

func (h *AuthHandler) ContinueWithGoogle(w http.ResponseWriter, r *http.Request) {
	idToken := r.URL.Query().Get("idtoken")
	if idToken == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "idtoken is required"})
		return
	}

	result, err := h.authService.ContinueWithGoogle(r.Context(), idToken)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	writeJSON(w, result.Code, result)
}

func (h *AuthHandler) ContinueWithFacebook(w http.ResponseWriter, r *http.Request) {
	accessToken := r.URL.Query().Get("accessToken")
	if accessToken == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "accessToken is required"})
		return
	}

	result, err := h.authService.ContinueWithFacebook(r.Context(), accessToken)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	writeJSON(w, result.Code, result)
}

// writeAuthError maps typed auth failures to their localized message and
// status; anything else is an opaque 500.
func writeAuthError(w http.ResponseWriter, err error) {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		writeJSON(w, authErr.Status, dto.ErrorResponse{Error: authErr.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal Server Error"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
