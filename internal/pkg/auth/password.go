package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultStudentPassword is the initial password of the login created with
// a student record. The username is the student's email.
const DefaultStudentPassword = "password"

const passwordCost = 12

// HashPassword returns the bcrypt hash stored in users.password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. A malformed hash
// never matches.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
