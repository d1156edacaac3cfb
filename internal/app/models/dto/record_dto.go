package dto

import "github.com/ensab/scolarite/internal/app/models"

// CreateRequestRequest is an admin-issued document request
type CreateRequestRequest struct {
	StudentRef
	Type models.DocumentType `json:"typeDocument" binding:"required,oneof=ATTESTATION_SCOLARITE RELEVE_NOTES CONVENTION_DE_STAGE"`
}

// StudentRequestRequest is a document request filed by the student
type StudentRequestRequest struct {
	Type models.DocumentType `json:"typeDocument" binding:"required,oneof=ATTESTATION_SCOLARITE RELEVE_NOTES CONVENTION_DE_STAGE"`
}

// CreatePaymentRequest is an admin-issued payment
type CreatePaymentRequest struct {
	StudentRef
	PaymentFields
}

// PaymentFields are the payment attributes shared by both roles
type PaymentFields struct {
	Type   models.PaymentType `json:"typePaiement" binding:"required,oneof=FRAIS_INSCRIPTION FRAIS_SCOLARITE ASSURANCE AUTRES"`
	Amount float64            `json:"montant" binding:"required,gt=0"`
}

// CreateEnrollmentRequest is an admin-issued enrollment; the student is
// selected by id.
type CreateEnrollmentRequest struct {
	StudentID int64 `json:"etudiantId" binding:"required,gt=0"`
	EnrollmentFields
}

// EnrollmentFields are the enrollment attributes shared by both roles
type EnrollmentFields struct {
	Type         models.EnrollmentType `json:"typeInscription" binding:"required,oneof=MASTER DOCTORAT REINSC"`
	AcademicYear string                `json:"anneeUniversitaire" binding:"required"`
}

// CreateComplaintRequest is an admin-issued complaint
type CreateComplaintRequest struct {
	StudentRef
	ComplaintFields
}

// ComplaintFields are the complaint attributes shared by both roles
type ComplaintFields struct {
	Subject string `json:"sujet" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// TreatComplaintRequest carries the administration's answer
type TreatComplaintRequest struct {
	Response string `json:"reponse" binding:"required"`
}

// GradeRequest is the body of grade create and update calls
type GradeRequest struct {
	StudentID int64    `json:"etudiantId" binding:"required,gt=0"`
	Module    string   `json:"module" binding:"required"`
	Value     *float64 `json:"valeur" binding:"required,gte=0,lte=20"`
}
