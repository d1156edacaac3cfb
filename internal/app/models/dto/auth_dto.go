package dto

import "github.com/ensab/scolarite/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token and the role it grants
type LoginResponse struct {
	Token string          `json:"token"`
	Role  models.RoleType `json:"role"`
}
