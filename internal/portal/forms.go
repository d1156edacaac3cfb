package portal

import (
	"math"
	"strings"

	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/pkg/validation"
)

// Forms hold raw user input, numbers included, exactly as typed. Each
// validate method checks it before anything is sent.

// StudentRefForm designates a student in the administration forms.
type StudentRefForm struct {
	Email      string
	CodeApogee string
	CIN        string
}

func (f StudentRefForm) validate() (dto.StudentRef, error) {
	if validation.Blank(f.Email, f.CodeApogee, f.CIN) {
		return dto.StudentRef{}, invalid("etudiant", validation.MsgRequiredFields)
	}
	code, err := parseCodeApogee(f.CodeApogee)
	if err != nil {
		return dto.StudentRef{}, err
	}
	return dto.StudentRef{
		Email:      strings.TrimSpace(f.Email),
		CodeApogee: code,
		CIN:        strings.TrimSpace(f.CIN),
	}, nil
}

func parseCodeApogee(raw string) (int64, error) {
	code, ok := validation.NewNumericValidation(raw).Integer().Positive().Parse()
	if !ok {
		return 0, invalid("codeApogee", validation.MsgCodeApogee)
	}
	return int64(code), nil
}

// StudentForm creates or edits a student.
type StudentForm struct {
	LastName     string
	FirstName    string
	Email        string
	CodeApogee   string
	CIN          string
	Program      string
	Level        string
	AcademicYear string
}

func (f StudentForm) validate() (*dto.StudentRequest, error) {
	if validation.Blank(f.LastName, f.FirstName, f.Email, f.CodeApogee, f.CIN, f.Program, f.Level, f.AcademicYear) {
		return nil, invalid("", validation.MsgRequiredFields)
	}
	if !validation.NewStringValidation(f.Email).WithPattern(validation.CompiledPatterns.Email).Validate() {
		return nil, invalid("email", validation.MsgEmail)
	}
	code, err := parseCodeApogee(f.CodeApogee)
	if err != nil {
		return nil, err
	}
	return &dto.StudentRequest{
		LastName:     strings.TrimSpace(f.LastName),
		FirstName:    strings.TrimSpace(f.FirstName),
		Email:        strings.TrimSpace(f.Email),
		CodeApogee:   code,
		CIN:          strings.TrimSpace(f.CIN),
		Program:      strings.TrimSpace(f.Program),
		Level:        strings.TrimSpace(f.Level),
		AcademicYear: strings.TrimSpace(f.AcademicYear),
	}, nil
}

// RequestForm files a document request. Student is ignored for students.
type RequestForm struct {
	Student StudentRefForm
	Type    models.DocumentType
}

// PaymentForm records a payment. Student is ignored for students.
type PaymentForm struct {
	Student StudentRefForm
	Type    models.PaymentType
	Amount  string
}

func (f PaymentForm) fields() (dto.PaymentFields, error) {
	if validation.Blank(string(f.Type), f.Amount) {
		return dto.PaymentFields{}, invalid("", validation.MsgRequiredFields)
	}
	amount, ok := validation.NewNumericValidation(f.Amount).Parse()
	amount = math.Round(amount*100) / 100
	if !ok || !validation.ValidAmount(amount) {
		return dto.PaymentFields{}, invalid("montant", validation.MsgAmount)
	}
	return dto.PaymentFields{Type: f.Type, Amount: amount}, nil
}

// EnrollmentForm registers an enrollment. StudentID is ignored for students.
type EnrollmentForm struct {
	StudentID    int64
	Type         models.EnrollmentType
	AcademicYear string
}

func (f EnrollmentForm) fields() (dto.EnrollmentFields, error) {
	if validation.Blank(string(f.Type)) {
		return dto.EnrollmentFields{}, invalid("typeInscription", validation.MsgRequiredFields)
	}
	if validation.Blank(f.AcademicYear) {
		return dto.EnrollmentFields{}, invalid("anneeUniversitaire", validation.MsgAcademicYear)
	}
	return dto.EnrollmentFields{Type: f.Type, AcademicYear: strings.TrimSpace(f.AcademicYear)}, nil
}

// ComplaintForm files a complaint. Student is ignored for students.
type ComplaintForm struct {
	Student StudentRefForm
	Subject string
	Message string
}

func (f ComplaintForm) fields() (dto.ComplaintFields, error) {
	if validation.Blank(f.Subject, f.Message) {
		return dto.ComplaintFields{}, invalid("", validation.MsgRequiredFields)
	}
	return dto.ComplaintFields{Subject: strings.TrimSpace(f.Subject), Message: strings.TrimSpace(f.Message)}, nil
}

// GradeForm adds or edits a module mark.
type GradeForm struct {
	StudentID int64
	Module    string
	Value     string
}

func (f GradeForm) validate() (*dto.GradeRequest, error) {
	if f.StudentID <= 0 {
		return nil, invalid("etudiantId", validation.MsgStudent)
	}
	if validation.Blank(f.Module, f.Value) {
		return nil, invalid("", validation.MsgRequiredFields)
	}
	value, ok := validation.NewNumericValidation(f.Value).
		WithMin(validation.GradeMin).
		WithMax(validation.GradeMax).
		Parse()
	if !ok {
		return nil, invalid("valeur", validation.MsgGrade)
	}
	return &dto.GradeRequest{StudentID: f.StudentID, Module: strings.TrimSpace(f.Module), Value: &value}, nil
}

func validateResponse(response string) (string, error) {
	if validation.Blank(response) {
		return "", invalid("reponse", validation.MsgResponse)
	}
	return strings.TrimSpace(response), nil
}
