package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/portal"
)

// studentFlags adds the student reference used by administration forms.
func studentFlags(cmd *cobra.Command, ref *portal.StudentRefForm) {
	flags := cmd.Flags()
	flags.StringVar(&ref.Email, "email", "", "student email (administration)")
	flags.StringVar(&ref.CodeApogee, "apogee", "", "student code Apogée (administration)")
	flags.StringVar(&ref.CIN, "cin", "", "student CIN (administration)")
}

func newCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Créer une demande, un paiement, une inscription, une réclamation ou une note",
	}
	cmd.AddCommand(
		newRequestCommand(opts),
		newPaymentCommand(opts),
		newEnrollmentCommand(opts),
		newComplaintCommand(opts),
		newGradeCommand(opts),
	)
	return cmd
}

func newRequestCommand(opts *options) *cobra.Command {
	var form portal.RequestForm
	var docType string
	cmd := &cobra.Command{
		Use:   "demande",
		Short: "Demander un document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			form.Type = models.DocumentType(docType)
			return submit(cmd, models.KindRequest, portal.CreateRequest, func(ctx context.Context) error {
				_, err := c.CreateRequest(ctx, form)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&docType, "type", "", "ATTESTATION_SCOLARITE, RELEVE_NOTES or CONVENTION_DE_STAGE")
	studentFlags(cmd, &form.Student)
	return cmd
}

func newPaymentCommand(opts *options) *cobra.Command {
	var form portal.PaymentForm
	var payType string
	cmd := &cobra.Command{
		Use:   "paiement",
		Short: "Enregistrer un paiement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			form.Type = models.PaymentType(payType)
			return submit(cmd, models.KindPayment, portal.CreatePayment, func(ctx context.Context) error {
				_, err := c.CreatePayment(ctx, form)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&payType, "type", "", "FRAIS_INSCRIPTION, FRAIS_SCOLARITE, ASSURANCE or AUTRES")
	cmd.Flags().StringVar(&form.Amount, "montant", "", "amount in MAD")
	studentFlags(cmd, &form.Student)
	return cmd
}

func newEnrollmentCommand(opts *options) *cobra.Command {
	var form portal.EnrollmentForm
	var enrollType string
	cmd := &cobra.Command{
		Use:   "inscription",
		Short: "Enregistrer une inscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			form.Type = models.EnrollmentType(enrollType)
			return submit(cmd, models.KindEnrollment, portal.CreateEnrollment, func(ctx context.Context) error {
				_, err := c.CreateEnrollment(ctx, form)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&enrollType, "type", "", "MASTER, DOCTORAT or REINSC")
	cmd.Flags().StringVar(&form.AcademicYear, "annee", "", "academic year, e.g. 2024-2025")
	cmd.Flags().Int64Var(&form.StudentID, "etudiant", 0, "student id (administration)")
	return cmd
}

func newComplaintCommand(opts *options) *cobra.Command {
	var form portal.ComplaintForm
	cmd := &cobra.Command{
		Use:   "reclamation",
		Short: "Déposer une réclamation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			return submit(cmd, models.KindComplaint, portal.CreateComplaint, func(ctx context.Context) error {
				_, err := c.CreateComplaint(ctx, form)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&form.Subject, "sujet", "", "subject")
	cmd.Flags().StringVar(&form.Message, "message", "", "message")
	studentFlags(cmd, &form.Student)
	return cmd
}

func newGradeCommand(opts *options) *cobra.Command {
	var form portal.GradeForm
	var id int64
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Ajouter ou modifier une note (administration)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			msgs := portal.SaveGrade
			if id > 0 {
				msgs = portal.UpdateGrade
			}
			return submit(cmd, "", msgs, func(ctx context.Context) error {
				_, err := c.SaveGrade(ctx, id, form)
				return err
			})
		},
	}
	flags := cmd.Flags()
	flags.Int64Var(&id, "id", 0, "grade id, to edit an existing grade")
	flags.Int64Var(&form.StudentID, "etudiant", 0, "student id")
	flags.StringVar(&form.Module, "module", "", "module name")
	flags.StringVar(&form.Value, "valeur", "", "grade between 0 and 20")
	return cmd
}
