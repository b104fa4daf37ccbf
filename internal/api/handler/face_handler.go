package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-management/backend/internal/dto"
	"library-management/backend/internal/service"
	"library-management/backend/pkg/response"
)

// FaceHandler face enrollment and verification.
type FaceHandler struct {
	faceSvc service.FaceService
}

// NewFaceHandler returns a FaceHandler.
func NewFaceHandler(faceSvc service.FaceService) *FaceHandler {
	return &FaceHandler{faceSvc: faceSvc}
}

// RegisterFace POST /api/v1/auth/register-face
func (h *FaceHandler) RegisterFace(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.FaceDescriptorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "faceDescriptor must be an array of 128 numbers")
		return
	}

	result, err := h.faceSvc.Enroll(c.Request.Context(), userID, req.FaceDescriptor)
	if err != nil {
		h.handleFaceError(c, err)
		return
	}
	response.OK(c, result)
}

// VerifyFace POST /api/v1/auth/verify-face
func (h *FaceHandler) VerifyFace(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.FaceDescriptorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "faceDescriptor must be an array of 128 numbers")
		return
	}

	result, err := h.faceSvc.Verify(c.Request.Context(), userID, req.FaceDescriptor)
	if err != nil {
		h.handleFaceError(c, err)
		return
	}
	response.OK(c, result)
}

// FaceStatus GET /api/v1/auth/face-status
func (h *FaceHandler) FaceStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.faceSvc.Status(c.Request.Context(), userID)
	if err != nil {
		h.handleFaceError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *FaceHandler) handleFaceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDescriptor):
		response.BadRequest(c, 12001, "faceDescriptor must be an array of 128 numbers")
	case errors.Is(err, service.ErrFaceNotEnrolled):
		response.BadRequest(c, 12002, "face not registered")
	case errors.Is(err, service.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, 11002, "user not found")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
