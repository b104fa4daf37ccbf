package dto

// ── face ──

// FaceDescriptorRequest body of register-face and verify-face.
type FaceDescriptorRequest struct {
	FaceDescriptor []float64 `json:"faceDescriptor" binding:"required"`
}

// FaceStatusResponse enrollment state.
type FaceStatusResponse struct {
	FaceRegistered   bool   `json:"faceRegistered"`
	RegistrationDate string `json:"registrationDate,omitempty"`
}

// FaceVerifyResponse comparison outcome.
type FaceVerifyResponse struct {
	Verified   bool    `json:"verified"`
	Confidence float64 `json:"confidence"`
	Distance   float64 `json:"distance"`
	Threshold  float64 `json:"threshold"`
}
