package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleStudent RoleType = "ETUDIANT"
)

// Valid reports whether r is a known role.
func (r RoleType) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}
