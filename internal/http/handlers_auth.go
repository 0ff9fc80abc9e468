package httpx

import (
	"net/http"

	"github.com/inkwell-ai/inkwell-api/internal/service"
)

// authHandler exposes the account and session endpoints.
type authHandler struct {
	Svc *service.AuthService
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// tokenResponse is returned by every endpoint that signs the caller in.
type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register handles POST /api/auth/register.
func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, tokenResponse{Token: result.Token})
}

// Login handles POST /api/auth/login.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, tokenResponse{Token: result.Token})
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (h *authHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.ForgotPassword(r.Context(), req.Email); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, messageResponse{Message: "password reset link sent"})
}

// ResetPassword handles POST /api/auth/reset-password/{resetToken}.
func (h *authHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("resetToken")

	var req resetPasswordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.ResetPassword(r.Context(), token, req.Password)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, tokenResponse{Token: result.Token})
}

// Logout handles POST /api/auth/logout. Revoking an already-dead token is
// not an error, so the endpoint succeeds as long as a bearer token was sent.
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := BearerToken(r)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     err,
		})
		return
	}

	if logoutErr := h.Svc.Logout(r.Context(), token); logoutErr != nil {
		WriteAppError(w, logoutErr)
		return
	}

	WriteJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}
