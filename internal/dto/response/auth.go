package response

import (
	"time"

	"restaurant-api/internal/data/entity"
)

type AuthResponse struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
}

type UserResponse struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	Email                 string     `json:"email"`
	Phone                 *string    `json:"phone,omitempty"`
	Roles                 []string   `json:"roles"`
	IsActive              bool       `json:"is_active"`
	IsBanned              bool       `json:"is_banned"`
	BannedAt              *time.Time `json:"banned_at,omitempty"`
	FailedDeliveriesCount int        `json:"failed_deliveries_count"`
	CreatedAt             time.Time  `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:                    user.ID.String(),
		Name:                  user.Name,
		Email:                 user.Email,
		Phone:                 user.Phone,
		Roles:                 user.Roles,
		IsActive:              user.IsActive,
		IsBanned:              user.IsBanned,
		BannedAt:              user.BannedAt,
		FailedDeliveriesCount: user.FailedDeliveriesCount,
		CreatedAt:             user.CreatedAt,
	}
}

func AuthToResponse(user *entity.User, session *entity.Session) AuthResponse {
	resp := AuthResponse{
		UserID: user.ID.String(),
		Email:  user.Email,
		Name:   user.Name,
		Roles:  user.Roles,
	}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp
}
