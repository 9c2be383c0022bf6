package handlers

import (
	"errors"
	"net/http"

	"brightsteps/internal/models"
	"brightsteps/internal/repository"
	"brightsteps/internal/security"
	"brightsteps/internal/service"
)

// AuthHandler handles registration, sign-in and profile endpoints.
type AuthHandler struct {
	authService          *service.AuthService
	userRepo             *repository.UserRepository
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService, userRepo *repository.UserRepository, oauthProviders map[string]OAuthProvider, oauthRedirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		userRepo:             userRepo,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

// Register handles POST /api/auth/register. Public registration
// always creates a parent; admins are created by other admins.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password, req.FullName, models.RoleParent)
	if err != nil {
		respondServiceError(w, err, "Registration failed")
		return
	}

	session, err := h.authService.OpenSessionFor(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, err, "Failed to open session after registration")
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, "session_id", session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusCreated, toUserView(user))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err, "Login failed")
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, "session_id", session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusOK, toUserView(user))
}

// StudentLogin handles POST /api/auth/student-login. Returns a
// bearer token instead of setting a cookie; student devices are
// shared and wiped.
func (h *AuthHandler) StudentLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Passcode string `json:"passcode"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.authService.StudentLogin(r.Context(), req.Username, req.Passcode)
	if err != nil {
		respondServiceError(w, err, "Student login failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  toUserView(user),
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session_id"); err == nil {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			respondServiceError(w, err, "Logout failed")
			return
		}
	}
	http.SetCookie(w, security.CreateDeleteCookie(r, "session_id"))
	respondJSON(w, http.StatusNoContent, nil)
}

// Me handles GET /api/auth/me: the signed-in account with its
// profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	response := map[string]interface{}{"user": toUserView(user)}
	profile, err := h.userRepo.GetProfile(r.Context(), user.ID)
	switch {
	case err == nil:
		response["profile"] = toProfileView(profile)
	case errors.Is(err, repository.ErrNotFound):
		// Profile row can briefly lag the account row.
	default:
		respondServiceError(w, err, "Failed to load profile")
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// UpdateProfile handles PUT /api/auth/me/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		FullName string `json:"full_name"`
		Gender   string `json:"gender"`
		Age      int    `json:"age"`
		Address  string `json:"address"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.userRepo.GetProfile(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, err, "Failed to load profile")
		return
	}

	if req.FullName != "" {
		profile.FullName = req.FullName
	}
	profile.Gender = req.Gender
	profile.Age = req.Age
	profile.Address = req.Address

	if err := h.userRepo.UpdateProfile(r.Context(), profile); err != nil {
		respondServiceError(w, err, "Failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, toProfileView(profile))
}

// RequestPasswordReset handles POST /api/auth/forgot-password.
// Always returns 204 so the endpoint cannot probe accounts.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		respondServiceError(w, err, "Password reset request failed")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ConfirmPasswordReset handles POST /api/auth/reset-password.
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.ConfirmPasswordReset(r.Context(), req.Token, req.Password); err != nil {
		respondServiceError(w, err, "Password reset failed")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
