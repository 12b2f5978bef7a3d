package dto

import "github.com/ahmetcoskunkizilkaya/officedesk/internal/models"

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type SessionResponse struct {
	User UserResponse `json:"user"`
}

// UserResponse is a user without credentials.
type UserResponse struct {
	ID    string `json:"id"`
	Phone string `json:"phone"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	OrgID string `json:"orgId"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Phone: u.Phone,
		Name:  u.Name,
		Role:  u.Role,
		OrgID: u.OrgID,
	}
}

type CreateUserRequest struct {
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	OrgID    string `json:"orgId"`
}

type ViewResponse struct {
	OrgID         string   `json:"orgId"`
	OrgName       string   `json:"orgName"`
	Role          string   `json:"role"`
	StatusActions []string `json:"statusActions"`
	Actions       []string `json:"actions"`
}
