package httpapi

import (
	"net/http"

	"carmate-platform/internal/apperr"
	"carmate-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

type checkPasswordRequest struct {
	Password string `json:"password"`
}

// CheckPassword verifies the caller's password and echoes back the stored
// hash for sensitive follow-up flows.
func (h Handlers) CheckPassword(c *gin.Context) {
	id, ok := auth.IdentityFrom(c.Request.Context())
	if !ok {
		Fail(c, apperr.Unauthorized("authentication required"))
		return
	}

	var req checkPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, apperr.BadRequest("invalid json body"))
		return
	}

	hash, err := h.Auth.CheckPassword(c.Request.Context(), id.UserID, req.Password)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, http.StatusOK, gin.H{"encryptedCurrentPassword": hash})
}

// UpdateMe updates the caller's profile. Every change is gated on the
// current password.
func (h Handlers) UpdateMe(c *gin.Context) {
	id, ok := auth.IdentityFrom(c.Request.Context())
	if !ok {
		Fail(c, apperr.Unauthorized("authentication required"))
		return
	}

	var req auth.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, apperr.BadRequest("invalid json body"))
		return
	}

	profile, err := h.Auth.UpdateProfile(c.Request.Context(), id.UserID, req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, http.StatusOK, profile)
}

// DeleteUser removes a user. Admin-only (enforced by the route chain);
// deleting yourself is rejected.
func (h Handlers) DeleteUser(c *gin.Context) {
	id, ok := auth.IdentityFrom(c.Request.Context())
	if !ok {
		Fail(c, apperr.Unauthorized("authentication required"))
		return
	}

	targetID := c.Param("id")
	if targetID == "" {
		Fail(c, apperr.BadRequest("user id is required"))
		return
	}

	if err := h.Auth.DeleteUser(c.Request.Context(), id.UserID, targetID); err != nil {
		Fail(c, err)
		return
	}
	OK(c, http.StatusOK, gin.H{"message": "user deleted"})
}
