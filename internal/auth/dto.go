package auth

// LoginRequest captures the credentials sent to either login endpoint. The
// password is only bounded; strength rules belong to create and reset.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=128"`
}

// LoginResponse carries the minted identity token.
type LoginResponse struct {
	Token string `json:"token"`
}
