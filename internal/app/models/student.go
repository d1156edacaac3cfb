package models

import (
	"strconv"
	"strings"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID           int64  `json:"id" db:"id"`
	UserID       int64  `json:"-" db:"user_id"`
	LastName     string `json:"nom" db:"nom"`
	FirstName    string `json:"prenom" db:"prenom"`
	Email        string `json:"email" db:"email"`
	CodeApogee   int64  `json:"codeApogee" db:"code_apogee"`
	CIN          string `json:"cin" db:"cin"`
	Program      string `json:"filiere" db:"filiere"`
	Level        string `json:"niveau" db:"niveau"`
	AcademicYear string `json:"anneeUniversitaire" db:"annee_universitaire"`
}

// FullName returns "Prenom Nom".
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// SearchFields implements listing.Record.
func (s *Student) SearchFields() []string {
	return []string{s.LastName, s.FirstName, s.Email, s.CIN, s.Program, strconv.FormatInt(s.CodeApogee, 10)}
}

func (s *Student) StatusValue() string { return "" }
func (s *Student) KindValue() string   { return "" }

// Identity is the payload encoded in a student's identity QR code.
type Identity struct {
	ID           int64  `json:"id"`
	LastName     string `json:"nom"`
	FirstName    string `json:"prenom"`
	CodeApogee   int64  `json:"codeApogee"`
	CIN          string `json:"cin"`
	Program      string `json:"filiere"`
	Level        string `json:"niveau"`
	Email        string `json:"email"`
	AcademicYear string `json:"anneeUniversitaire"`
}

// Identity returns the public identity card of s.
func (s *Student) Identity() Identity {
	return Identity{
		ID:           s.ID,
		LastName:     s.LastName,
		FirstName:    s.FirstName,
		CodeApogee:   s.CodeApogee,
		CIN:          s.CIN,
		Program:      s.Program,
		Level:        s.Level,
		Email:        s.Email,
		AcademicYear: s.AcademicYear,
	}
}

// studentFields is reused by records that embed their subject student.
func studentFields(s *Student) []string {
	if s == nil {
		return nil
	}
	return []string{s.LastName, s.FirstName, s.Email, strconv.FormatInt(s.CodeApogee, 10)}
}
