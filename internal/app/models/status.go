package models

// DocumentType is the kind of document a student may request.
type DocumentType string

const (
	DocumentCertificate DocumentType = "ATTESTATION_SCOLARITE"
	DocumentTranscript  DocumentType = "RELEVE_NOTES"
	DocumentConvention  DocumentType = "CONVENTION_DE_STAGE"
)

var documentLabels = map[DocumentType]string{
	DocumentCertificate: "Attestation de scolarité",
	DocumentTranscript:  "Relevé de notes",
	DocumentConvention:  "Convention de stage",
}

func (t DocumentType) Valid() bool   { _, ok := documentLabels[t]; return ok }
func (t DocumentType) Label() string { return labelOr(documentLabels, t) }

// RequestStatus is the lifecycle state of a document request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "EN_ATTENTE"
	RequestApproved RequestStatus = "APPROVEE"
	RequestRejected RequestStatus = "REFUSEE"
)

var requestStatusLabels = map[RequestStatus]string{
	RequestPending:  "En attente",
	RequestApproved: "Approuvée",
	RequestRejected: "Refusée",
}

func (s RequestStatus) Label() string { return labelOr(requestStatusLabels, s) }

// PaymentType is the fee category of a payment.
type PaymentType string

const (
	PaymentRegistration PaymentType = "FRAIS_INSCRIPTION"
	PaymentTuition      PaymentType = "FRAIS_SCOLARITE"
	PaymentInsurance    PaymentType = "ASSURANCE"
	PaymentOther        PaymentType = "AUTRES"
)

var paymentTypeLabels = map[PaymentType]string{
	PaymentRegistration: "Frais d'inscription",
	PaymentTuition:      "Frais de scolarité",
	PaymentInsurance:    "Assurance",
	PaymentOther:        "Autres",
}

func (t PaymentType) Valid() bool   { _, ok := paymentTypeLabels[t]; return ok }
func (t PaymentType) Label() string { return labelOr(paymentTypeLabels, t) }

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPaid       PaymentStatus = "PAYE"
	PaymentUnpaid     PaymentStatus = "NON_PAYE"
	PaymentInProgress PaymentStatus = "EN_COURS"
)

var paymentStatusLabels = map[PaymentStatus]string{
	PaymentPaid:       "Payé",
	PaymentUnpaid:     "Non payé",
	PaymentInProgress: "En cours",
}

func (s PaymentStatus) Valid() bool   { _, ok := paymentStatusLabels[s]; return ok }
func (s PaymentStatus) Label() string { return labelOr(paymentStatusLabels, s) }

// EnrollmentType is the program an enrollment targets.
type EnrollmentType string

const (
	EnrollmentMaster    EnrollmentType = "MASTER"
	EnrollmentDoctorate EnrollmentType = "DOCTORAT"
	EnrollmentRenewal   EnrollmentType = "REINSC"
)

var enrollmentTypeLabels = map[EnrollmentType]string{
	EnrollmentMaster:    "Master",
	EnrollmentDoctorate: "Doctorat",
	EnrollmentRenewal:   "Réinscription",
}

func (t EnrollmentType) Valid() bool   { _, ok := enrollmentTypeLabels[t]; return ok }
func (t EnrollmentType) Label() string { return labelOr(enrollmentTypeLabels, t) }

// EnrollmentStatus is the lifecycle state of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentRegistered EnrollmentStatus = "ENREGISTRE"
	EnrollmentConfirmed  EnrollmentStatus = "CONFIRME"
	EnrollmentCancelled  EnrollmentStatus = "ANNULE"
)

var enrollmentStatusLabels = map[EnrollmentStatus]string{
	EnrollmentRegistered: "Enregistré",
	EnrollmentConfirmed:  "Confirmé",
	EnrollmentCancelled:  "Annulé",
}

func (s EnrollmentStatus) Label() string { return labelOr(enrollmentStatusLabels, s) }

// ComplaintStatus is the lifecycle state of a complaint.
type ComplaintStatus string

const (
	ComplaintPending   ComplaintStatus = "EN_ATTENTE"
	ComplaintProcessed ComplaintStatus = "TRAITEE"
)

var complaintStatusLabels = map[ComplaintStatus]string{
	ComplaintPending:   "En attente",
	ComplaintProcessed: "Traitée",
}

func (s ComplaintStatus) Label() string { return labelOr(complaintStatusLabels, s) }

func labelOr[K ~string](labels map[K]string, k K) string {
	if l, ok := labels[k]; ok {
		return l
	}
	return string(k)
}
