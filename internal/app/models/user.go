package models

import (
	"strings"
	"time"
)

// User is a login account, backing either an Admin or a Student.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"nomUtilisateur" db:"username"`
	Password  string    `json:"-" db:"password"`
	RoleType  RoleType  `json:"role" db:"role"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// Admin is a staff member allowed to process records.
type Admin struct {
	ID        int64    `json:"id" db:"id"`
	UserID    int64    `json:"-" db:"user_id"`
	Username  string   `json:"nomUtilisateur"`
	LastName  string   `json:"nom" db:"nom"`
	FirstName string   `json:"prenom" db:"prenom"`
	CIN       string   `json:"cin" db:"cin"`
	Role      RoleType `json:"role"`
}

// FullName returns "Prenom Nom".
func (a *Admin) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// SearchFields implements listing.Record.
func (a *Admin) SearchFields() []string {
	return []string{a.LastName, a.FirstName, a.Username, a.CIN}
}

func (a *Admin) StatusValue() string { return "" }
func (a *Admin) KindValue() string   { return "" }
