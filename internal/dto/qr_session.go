package dto

// ── QR sessions ──

// CreateQRSessionRequest POST /qr-sessions
type CreateQRSessionRequest struct {
	LocationRequired bool `json:"locationRequired"`
	// ExpiresInSeconds selects a fixed validity window instead of the configured policy.
	ExpiresInSeconds int `json:"expiresInSeconds" binding:"omitempty,min=1"`
}

// ValidateQRSessionRequest POST /qr-sessions/validate
type ValidateQRSessionRequest struct {
	QRToken string `json:"qrToken" binding:"required"`
}

// QRSessionResponse issued session.
type QRSessionResponse struct {
	QRToken          string `json:"qrToken"`
	ExpiresAt        string `json:"expiresAt"`
	LocationRequired bool   `json:"locationRequired"`
	CreatedAt        string `json:"createdAt"`
	Reused           bool   `json:"reused"`
}

// QRValidationResponse answer of a successful validation.
type QRValidationResponse struct {
	Valid            bool   `json:"valid"`
	LocationRequired bool   `json:"locationRequired"`
	ExpiresAt        string `json:"expiresAt"`
}

// ActiveQRSessionResponse GET /qr-sessions/active
type ActiveQRSessionResponse struct {
	Active           bool   `json:"active"`
	QRToken          string `json:"qrToken,omitempty"`
	ExpiresAt        string `json:"expiresAt,omitempty"`
	LocationRequired bool   `json:"locationRequired,omitempty"`
	CreatedAt        string `json:"createdAt,omitempty"`
}
