package models

// DashboardStats summarizes workload across the administration views.
type DashboardStats struct {
	Requests    map[string]int64 `json:"demandes"`
	Payments    map[string]int64 `json:"paiements"`
	Enrollments map[string]int64 `json:"inscriptions"`
	Complaints  map[string]int64 `json:"reclamations"`

	Students int64 `json:"etudiants"`

	// Average number of days between creation and processing.
	AvgPaymentDays    float64 `json:"delaiMoyenPaiement"`
	AvgEnrollmentDays float64 `json:"delaiMoyenInscription"`
	AvgComplaintDays  float64 `json:"delaiMoyenReclamation"`

	// Percentage of complaints already treated.
	SatisfactionRate float64 `json:"tauxSatisfaction"`

	// Requests created per month ("2024-03") and document type.
	MonthlyRequests map[string]map[string]int64 `json:"demandesParMois"`
}
