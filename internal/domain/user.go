package domain

import "time"

// Role represents the authorization role of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleRider Role = "rider"
	RoleAdmin Role = "admin"
)

// User represents an account in the directory, keyed by email.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
}
