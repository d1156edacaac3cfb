package portal

import (
	"context"

	"github.com/ensab/scolarite/internal/app/models"
)

// Messages are the banner texts of one operation.
type Messages struct {
	Success  string
	Fallback string
}

// Mutation builds a Mutation showing m around run.
func (m Messages) Mutation(run func(context.Context) error) Mutation {
	return Mutation{Run: run, Success: m.Success, Fallback: m.Fallback}
}

// Operation banners.
var (
	CreateStudent    = Messages{"Étudiant ajouté avec succès !", "Erreur lors de la création de l'étudiant."}
	UpdateStudent    = Messages{"Étudiant mis à jour avec succès !", "Erreur lors de la mise à jour de l'étudiant."}
	CreateRequest    = Messages{"Demande créée avec succès !", "Erreur lors de la création de la demande."}
	CreatePayment    = Messages{"Paiement créé avec succès !", "Erreur lors de la création du paiement."}
	CreateEnrollment = Messages{"Inscription créée avec succès !", "Erreur lors de la création de l'inscription."}
	CreateComplaint  = Messages{"Réclamation créée avec succès !", "Erreur lors de la création de la réclamation."}
	TreatComplaint   = Messages{"Réclamation traitée avec succès !", "Erreur lors du traitement de la réclamation."}
	SaveGrade        = Messages{"Note ajoutée avec succès !", "Erreur lors de la sauvegarde de la note."}
	UpdateGrade      = Messages{"Note mise à jour avec succès !", "Erreur lors de la sauvegarde de la note."}
	DeleteGrade      = Messages{"Note supprimée avec succès !", "Erreur lors de la suppression de la note."}
	GeneratePDF      = Messages{"PDF généré avec succès !", "Erreur lors de la génération du PDF."}
	DownloadReceipt  = Messages{"Reçu téléchargé avec succès !", "Erreur lors de la génération du reçu."}
)

var transitionMessages = map[models.EntityKind]map[models.Action]Messages{
	models.KindRequest: {
		models.ActionApprove: {"Demande approuvée avec succès !", "Erreur lors de l'approbation."},
		models.ActionReject:  {"Demande rejetée avec succès !", "Erreur lors du rejet."},
	},
	models.KindPayment: {
		models.ActionPay:    {"Paiement marqué comme payé !", "Erreur lors de la mise à jour du paiement."},
		models.ActionCancel: {"Paiement annulé avec succès !", "Erreur lors de la mise à jour du paiement."},
	},
	models.KindEnrollment: {
		models.ActionConfirm: {"Inscription confirmée avec succès !", "Erreur lors de la confirmation de l'inscription."},
		models.ActionCancel:  {"Inscription annulée avec succès !", "Erreur lors de l'annulation de l'inscription."},
	},
	models.KindComplaint: {
		models.ActionTreat: TreatComplaint,
	},
}

// TransitionMessages returns the banners of a status action.
func TransitionMessages(kind models.EntityKind, action models.Action) Messages {
	if m, ok := transitionMessages[kind][action]; ok {
		return m
	}
	return Messages{Success: "Opération effectuée avec succès !", Fallback: "Erreur lors de l'opération."}
}

// LoadFailure returns the banner of a failed collection fetch.
func LoadFailure(kind models.EntityKind) string {
	switch kind {
	case models.KindRequest:
		return "Erreur lors du chargement des demandes."
	case models.KindPayment:
		return "Erreur lors du chargement des paiements."
	case models.KindEnrollment:
		return "Erreur lors du chargement des inscriptions."
	case models.KindComplaint:
		return "Erreur lors du chargement des réclamations."
	}
	return MsgLoadFailed
}
