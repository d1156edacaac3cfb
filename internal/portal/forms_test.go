package portal

import (
	"errors"
	"testing"

	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/pkg/validation"
)

func validationMessage(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	return ve.Message
}

func TestGradeForm(t *testing.T) {
	tests := []struct {
		name string
		form GradeForm
		want string
	}{
		{"valid", GradeForm{StudentID: 1, Module: "Analyse", Value: "15.5"}, ""},
		{"upper bound", GradeForm{StudentID: 1, Module: "Analyse", Value: "20"}, ""},
		{"lower bound", GradeForm{StudentID: 1, Module: "Analyse", Value: "0"}, ""},
		{"above range", GradeForm{StudentID: 1, Module: "Analyse", Value: "20.5"}, validation.MsgGrade},
		{"negative", GradeForm{StudentID: 1, Module: "Analyse", Value: "-1"}, validation.MsgGrade},
		{"not a number", GradeForm{StudentID: 1, Module: "Analyse", Value: "abc"}, validation.MsgGrade},
		{"blank module", GradeForm{StudentID: 1, Module: "  ", Value: "12"}, validation.MsgRequiredFields},
		{"no student", GradeForm{Module: "Analyse", Value: "12"}, validation.MsgStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.form.validate()
			if got := validationMessage(t, err); got != tt.want {
				t.Fatalf("message = %q, want %q", got, tt.want)
			}
			if tt.want == "" && (req.Value == nil || req.Module != "Analyse") {
				t.Errorf("request = %+v", req)
			}
		})
	}
}

func TestPaymentAndReferenceForms(t *testing.T) {
	ref := StudentRefForm{Email: " salma@ensab.ma ", CodeApogee: "2002", CIN: "BK1"}
	tests := []struct {
		name string
		form PaymentForm
		want string
	}{
		{"valid", PaymentForm{Student: ref, Type: models.PaymentTuition, Amount: "1500"}, ""},
		{"zero", PaymentForm{Student: ref, Type: models.PaymentTuition, Amount: "0"}, validation.MsgAmount},
		{"negative", PaymentForm{Student: ref, Type: models.PaymentTuition, Amount: "-5"}, validation.MsgAmount},
		{"below a cent", PaymentForm{Student: ref, Type: models.PaymentTuition, Amount: "0,004"}, validation.MsgAmount},
		{"missing type", PaymentForm{Student: ref, Amount: "10"}, validation.MsgRequiredFields},
		{"bad code", PaymentForm{Student: StudentRefForm{Email: "a@b.ma", CodeApogee: "12a", CIN: "X"}, Type: models.PaymentTuition, Amount: "10"}, validation.MsgCodeApogee},
		{"negative code", PaymentForm{Student: StudentRefForm{Email: "a@b.ma", CodeApogee: "-3", CIN: "X"}, Type: models.PaymentTuition, Amount: "10"}, validation.MsgCodeApogee},
		{"missing reference", PaymentForm{Type: models.PaymentTuition, Amount: "10"}, validation.MsgRequiredFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.Student.validate()
			if err == nil {
				_, err = tt.form.fields()
			}
			if got := validationMessage(t, err); got != tt.want {
				t.Errorf("message = %q, want %q", got, tt.want)
			}
		})
	}

	r, err := ref.validate()
	if err != nil || r.Email != "salma@ensab.ma" || r.CodeApogee != 2002 {
		t.Errorf("reference = %+v, %v", r, err)
	}
}

func TestTextForms(t *testing.T) {
	if got := validationMessage(t, second(EnrollmentForm{Type: models.EnrollmentMaster}.fields())); got != validation.MsgAcademicYear {
		t.Errorf("enrollment = %q", got)
	}
	if got := validationMessage(t, second(ComplaintForm{Subject: "Note", Message: " "}.fields())); got != validation.MsgRequiredFields {
		t.Errorf("complaint = %q", got)
	}
	if got := validationMessage(t, second(validateResponse("  "))); got != validation.MsgResponse {
		t.Errorf("response = %q", got)
	}
	student := StudentForm{
		LastName: "Dupont", FirstName: "Jean", Email: "jean@", CodeApogee: "1",
		CIN: "X", Program: "GI", Level: "3", AcademicYear: "2024-2025",
	}
	if got := validationMessage(t, second(student.validate())); got != validation.MsgEmail {
		t.Errorf("student = %q", got)
	}
}

func second[T any](_ T, err error) error { return err }
