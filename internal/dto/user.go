package dto

import "github.com/BruksfildServices01/stay-booking/internal/models"

type SignupRequest struct {
	Name            string `json:"name" binding:"required,max=100"`
	Email           string `json:"email" binding:"required,email,maildomain"`
	Username        string `json:"username" binding:"required,max=50"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
}

// User builds the account for role. Any role in the payload is ignored.
func (r SignupRequest) User(role, passwordHash string) models.User {
	return models.User{
		Name:         r.Name,
		Email:        r.Email,
		Username:     r.Username,
		Role:         role,
		PasswordHash: passwordHash,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ImagePathRequest struct {
	ImagePath string `json:"imagePath" form:"imagePath"`
}
