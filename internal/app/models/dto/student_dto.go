package dto

import "github.com/ensab/scolarite/internal/app/models"

// StudentRequest is the body of student create and update calls
type StudentRequest struct {
	LastName     string `json:"nom" binding:"required"`
	FirstName    string `json:"prenom" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	CodeApogee   int64  `json:"codeApogee" binding:"required,gt=0"`
	CIN          string `json:"cin" binding:"required"`
	Program      string `json:"filiere" binding:"required"`
	Level        string `json:"niveau" binding:"required"`
	AcademicYear string `json:"anneeUniversitaire" binding:"required"`
}

// ToModel converts the request into a Student
func (r *StudentRequest) ToModel() *models.Student {
	return &models.Student{
		LastName:     r.LastName,
		FirstName:    r.FirstName,
		Email:        r.Email,
		CodeApogee:   r.CodeApogee,
		CIN:          r.CIN,
		Program:      r.Program,
		Level:        r.Level,
		AcademicYear: r.AcademicYear,
	}
}

// StudentRef identifies a student the way the admin forms do: by email,
// institutional code and national ID together.
type StudentRef struct {
	Email      string `json:"email" binding:"required,email"`
	CodeApogee int64  `json:"codeApogee" binding:"required,gt=0"`
	CIN        string `json:"cin" binding:"required"`
}

// AdminRequest is the body of admin create and update calls
type AdminRequest struct {
	Username  string `json:"nomUtilisateur" binding:"required"`
	Password  string `json:"motDePasse" binding:"omitempty,min=6"`
	LastName  string `json:"nom" binding:"required"`
	FirstName string `json:"prenom" binding:"required"`
	CIN       string `json:"cin" binding:"required"`
}

// ToModel converts the request into an Admin
func (r *AdminRequest) ToModel() *models.Admin {
	return &models.Admin{
		Username:  r.Username,
		LastName:  r.LastName,
		FirstName: r.FirstName,
		CIN:       r.CIN,
		Role:      models.RoleAdmin,
	}
}
