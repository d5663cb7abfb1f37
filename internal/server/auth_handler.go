// Package server provides the HTTP REST API for resume tailoring.
package server

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/server/middleware"
	"github.com/jonathan/resume-tailor/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService   *UserService
	jwtService    *JWTService
	validator     *validator.Validate
	secureCookies bool
	logger        *zap.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService, secureCookies bool, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		userService:   userService,
		jwtService:    jwtService,
		validator:     validator.New(),
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		errorResponse(w, h.logger, r, err)
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		errorResponse(w, h.logger, r, err)
		return
	}
	h.startSession(w, r, user, http.StatusCreated)
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		errorResponse(w, h.logger, r, err)
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		errorResponse(w, h.logger, r, err)
		return
	}
	h.startSession(w, r, user, http.StatusOK)
}

// Me returns the signed-in user, or null when the request carries no valid session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		jsonResponse(w, http.StatusOK, nil)
		return
	}
	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		if HTTPStatus(err) == http.StatusNotFound {
			jsonResponse(w, http.StatusOK, nil)
			return
		}
		errorResponse(w, h.logger, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// Logout clears the session cookie. Bearer tokens stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	jsonResponse(w, http.StatusOK, types.LogoutResponse{Success: true})
}

// UpdatePassword changes the password of the authenticated user.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		jsonResponse(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req types.UpdatePasswordRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		errorResponse(w, h.logger, r, err)
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		errorResponse(w, h.logger, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *types.User, status int) {
	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		errorResponse(w, h.logger, r, err)
		return
	}
	http.SetCookie(w, h.sessionCookie(token, int(h.jwtService.Expiration().Seconds())))
	jsonResponse(w, status, types.LoginResponse{User: user, Token: token})
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     types.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
