package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"library-management/backend/internal/service"
	"library-management/backend/pkg/response"
)

// ProfileHandler the caller's own role profile.
type ProfileHandler struct {
	profileSvc service.ProfileService
}

// NewProfileHandler returns a ProfileHandler.
func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// Me GET /api/v1/profile/me
func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.profileSvc.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11002, "user not found")
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
