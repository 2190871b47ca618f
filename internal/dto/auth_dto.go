package dto

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=trainee instructor operator 'support engineer' admin"`
}

type RegisterResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the freshly minted session key alongside the token;
// the same key is embedded in the token claims.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	SessionId   string `json:"session_id"`
}
