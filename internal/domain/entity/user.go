package entity

import "time"

// Role constants for User
const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// User is an account with its profile
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Company      string    `db:"company" json:"company"`
	Position     string    `db:"position" json:"position"`
	Department   string    `db:"department" json:"department"`
	Phone        string    `db:"phone" json:"phone"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CanApprove reports whether the user may approve or reject other users' applications
func (u *User) CanApprove() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// IsAdmin reports whether the user may override lifecycle restrictions
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsValidRole reports whether role is a known role
func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}
