package dto

// SignupRequest is the JSON body for POST /auth/signup.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SigninRequest is the JSON body for POST /auth/signin.
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned by signup and signin.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}
