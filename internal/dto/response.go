package dto

// ── auth responses ──

// TokenResponse issued access token.
type TokenResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int          `json:"expiresIn"` // seconds
	User        UserResponse `json:"user"`
}

// UserResponse public view of a user.
type UserResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	FaceRegistered bool   `json:"faceRegistered"`
}

// RegisterResponse created account plus its provisioned profile id.
type RegisterResponse struct {
	User      UserResponse `json:"user"`
	ProfileID string       `json:"profileId,omitempty"`
}
