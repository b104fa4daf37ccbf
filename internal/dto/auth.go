package dto

// ── auth ──

// LoginRequest email/password login.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest admin-created account. The matching profile is provisioned with it.
type RegisterRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=64"`
	Role     string `json:"role"     binding:"required,oneof=Admin Staff Student"`
	Phone    string `json:"phone"    binding:"omitempty,max=20"`
}
