package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"library-management/backend/internal/dto"
	"library-management/backend/internal/service"
	"library-management/backend/pkg/response"
)

// QRSessionHandler QR session endpoints.
type QRSessionHandler struct {
	qrSvc service.QRSessionService
}

// NewQRSessionHandler returns a QRSessionHandler.
func NewQRSessionHandler(qrSvc service.QRSessionService) *QRSessionHandler {
	return &QRSessionHandler{qrSvc: qrSvc}
}

// Create POST /api/v1/qr-sessions (Admin)
//
// 201 for a new session, 200 when today's active session is handed out again.
func (h *QRSessionHandler) Create(c *gin.Context) {
	issuerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateQRSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "validation failed")
			return
		}
	}

	result, err := h.qrSvc.Create(c.Request.Context(), issuerID, &req)
	if err != nil {
		h.handleQRError(c, err)
		return
	}
	if result.Reused {
		response.OK(c, result)
		return
	}
	response.Created(c, result)
}

// Validate POST /api/v1/qr-sessions/validate
func (h *QRSessionHandler) Validate(c *gin.Context) {
	var req dto.ValidateQRSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13002, "QR token is required")
		return
	}

	result, err := h.qrSvc.Validate(c.Request.Context(), req.QRToken)
	if err != nil {
		h.handleQRError(c, err)
		return
	}
	response.OK(c, result)
}

// GetActive GET /api/v1/qr-sessions/active (Admin)
func (h *QRSessionHandler) GetActive(c *gin.Context) {
	issuerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.qrSvc.GetActive(c.Request.Context(), issuerID)
	if err != nil {
		h.handleQRError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *QRSessionHandler) handleQRError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQRTokenInvalid):
		response.BadRequest(c, 13001, "invalid or expired QR token")
	case errors.Is(err, service.ErrQRTokenRequired):
		response.BadRequest(c, 13002, "QR token is required")
	case errors.Is(err, service.ErrQRTTLTooLong):
		response.BadRequest(c, 13003, "requested QR validity exceeds the allowed maximum")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
