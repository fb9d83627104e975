package httpapi

import (
	"net/http"

	"carmate-platform/internal/apperr"
	"carmate-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User         auth.Profile `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func sessionBody(s auth.Session) sessionResponse {
	return sessionResponse{User: s.User, AccessToken: s.AccessToken, RefreshToken: s.RefreshToken}
}

// Login authenticates credentials, returns the session in the body and
// mirrors the tokens into cookies.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, apperr.BadRequest("invalid json body"))
		return
	}

	sess, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		Fail(c, err)
		return
	}

	h.Cookies.setTokenCookies(c, sess.TokenPair)
	OK(c, http.StatusOK, sessionBody(sess))
}

// Register creates a user under an existing company and starts a session.
func (h Handlers) Register(c *gin.Context) {
	var req auth.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, apperr.BadRequest("invalid json body"))
		return
	}

	sess, err := h.Auth.Register(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}

	h.Cookies.setTokenCookies(c, sess.TokenPair)
	OK(c, http.StatusCreated, sessionBody(sess))
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh rotates the token pair. The refresh token comes from the cookie
// when present, else from the body.
func (h Handlers) Refresh(c *gin.Context) {
	token, err := c.Cookie(auth.RefreshTokenCookie)
	if err != nil || token == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
			Fail(c, apperr.Authentication("refresh failed"))
			return
		}
		token = req.RefreshToken
	}

	sess, err := h.Auth.Refresh(c.Request.Context(), token)
	if err != nil {
		Fail(c, err)
		return
	}

	h.Cookies.setTokenCookies(c, sess.TokenPair)
	OK(c, http.StatusOK, gin.H{
		"accessToken":  sess.AccessToken,
		"refreshToken": sess.RefreshToken,
	})
}

// Logout clears the token cookies. Tokens themselves stay valid until
// expiry; there is no server-side revocation.
func (h Handlers) Logout(c *gin.Context) {
	h.Cookies.clearTokenCookies(c)
	OK(c, http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (h Handlers) Me(c *gin.Context) {
	id, ok := auth.IdentityFrom(c.Request.Context())
	if !ok {
		Fail(c, apperr.Unauthorized("authentication required"))
		return
	}
	profile, err := h.Auth.CurrentUser(c.Request.Context(), id.UserID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, http.StatusOK, profile)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h Handlers) ChangePassword(c *gin.Context) {
	id, ok := auth.IdentityFrom(c.Request.Context())
	if !ok {
		Fail(c, apperr.Unauthorized("authentication required"))
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, apperr.BadRequest("invalid json body"))
		return
	}

	if err := h.Auth.ChangePassword(c.Request.Context(), id.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		Fail(c, err)
		return
	}
	OK(c, http.StatusOK, gin.H{"message": "password changed"})
}
