package domain

import "time"

type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleAuthority Role = "authority"
)

// ParseRole — пустая или неизвестная роль превращается в citizen
func ParseRole(s string) Role {
	if Role(s) == RoleAuthority {
		return RoleAuthority
	}
	return RoleCitizen
}

// User — житель или сотрудник дорожной службы
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	PasswordHash string    `json:"-"`
}

// Session — выданный после входа токен
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired — истёк ли токен к моменту now
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
