package main

import (
	"bufio"
	"context"
	"errors"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/pkg/filestorage"
	"github.com/ensab/scolarite/internal/pkg/listing"
	"github.com/ensab/scolarite/internal/pkg/logger"
	"github.com/ensab/scolarite/internal/portal"
)

func loginCommand(opts *options) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Ouvrir une session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			if password == "" {
				if password, err = readLine(cmd.InOrStdin(), cmd.ErrOrStderr(), "Mot de passe : "); err != nil {
					return err
				}
			}
			if err := c.Login(cmd.Context(), args[0], password); err != nil {
				return err
			}
			if err := c.Session().Save(opts.sessionPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connecté en tant que %s (%s)\n", c.Session().Username, c.Session().Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", os.Getenv("SCOLARITE_PASSWORD"), "password, prompted when empty")
	return cmd
}

func readLine(in io.Reader, prompt io.Writer, label string) (string, error) {
	fmt.Fprint(prompt, label)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func logoutCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Fermer la session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			c.Logout()
			return c.Session().Save(opts.sessionPath)
		},
	}
}

func listCommand(opts *options) *cobra.Command {
	var criteria listing.Criteria
	var studentID int64
	cmd := &cobra.Command{
		Use:       "list <etudiants|demandes|paiements|inscriptions|reclamations|notes>",
		Short:     "Afficher une collection filtrée",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"etudiants", "demandes", "paiements", "inscriptions", "reclamations", "notes"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var out any
			switch args[0] {
			case "etudiants":
				out, err = load(cmd, portal.NewCollection(func(ctx context.Context) ([]*models.Student, error) {
					return c.Students(ctx, listing.Criteria{})
				}, "Erreur lors du chargement des étudiants."), criteria)
			case "demandes":
				out, err = load(cmd, portal.NewCollection(func(ctx context.Context) ([]*models.DocumentRequest, error) {
					return c.Requests(ctx, listing.Criteria{})
				}, portal.LoadFailure(models.KindRequest)), criteria)
			case "paiements":
				out, err = load(cmd, portal.NewCollection(func(ctx context.Context) ([]*models.Payment, error) {
					return c.Payments(ctx, listing.Criteria{})
				}, portal.LoadFailure(models.KindPayment)), criteria)
			case "inscriptions":
				out, err = load(cmd, portal.NewCollection(func(ctx context.Context) ([]*models.Enrollment, error) {
					return c.Enrollments(ctx, listing.Criteria{})
				}, portal.LoadFailure(models.KindEnrollment)), criteria)
			case "reclamations":
				out, err = load(cmd, portal.NewCollection(func(ctx context.Context) ([]*models.Complaint, error) {
					return c.Complaints(ctx, listing.Criteria{})
				}, portal.LoadFailure(models.KindComplaint)), criteria)
			case "notes":
				out, err = c.Grades(ctx, studentID)
			default:
				return fmt.Errorf("collection inconnue %q", args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&criteria.Search, "search", "q", "", "free-text search")
	flags.StringVar(&criteria.Status, "status", listing.All, "status filter")
	flags.StringVar(&criteria.Kind, "type", listing.All, "type filter")
	flags.Int64Var(&studentID, "etudiant", 0, "student id, for notes (administration)")
	return cmd
}

// load fetches a whole collection and filters it locally.
func load[T listing.Record](cmd *cobra.Command, col *portal.Collection[T], criteria listing.Criteria) ([]T, error) {
	if _, err := col.Reload(cmd.Context()); err != nil {
		logger.Debug().Err(err).Msg("Collection fetch failed")
		return nil, fmt.Errorf("%s: %w", col.Error(), err)
	}
	return col.Filtered(criteria), nil
}

func statsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Tableau de bord de l'administration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			stats, err := c.Statistics(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
}

func parseRecordID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("identifiant invalide %q", raw)
	}
	return id, nil
}

func transitionCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "transition <demande|paiement|inscription> <id> <action>",
		Short: "Changer le statut d'un dossier",
		Long:  "Actions: demande approve|reject, paiement pay|cancel, inscription confirm|cancel.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			id, err := parseRecordID(args[1])
			if err != nil {
				return err
			}
			kind, action := models.EntityKind(args[0]), models.Action(args[2])
			return submit(cmd, kind, portal.TransitionMessages(kind, action), func(ctx context.Context) error {
				return c.Transition(ctx, kind, id, action)
			})
		},
	}
}

func treatCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "treat <id> <reponse>",
		Short: "Répondre à une réclamation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			id, err := parseRecordID(args[0])
			if err != nil {
				return err
			}
			return submit(cmd, models.KindComplaint, portal.TreatComplaint, func(ctx context.Context) error {
				_, err := c.Treat(ctx, id, args[1])
				return err
			})
		},
	}
}

// submit runs one mutation through a workflow and prints its banner.
func submit(cmd *cobra.Command, kind models.EntityKind, msgs portal.Messages, run func(context.Context) error) error {
	w := portal.NewWorkflow(nil)
	err := w.Submit(cmd.Context(), msgs.Mutation(run))
	banner := w.Banner()
	if err != nil {
		logger.Debug().Err(err).Str("kind", string(kind)).Msg("Mutation failed")
		return errors.New(banner.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), banner.Message)
	return nil
}

func pdfCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pdf <demande-id>",
		Short: "Télécharger le document d'une demande",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			id, err := parseRecordID(args[0])
			if err != nil {
				return err
			}
			requests, err := c.Requests(cmd.Context(), listing.Criteria{})
			if err != nil {
				return err
			}
			var target *models.DocumentRequest
			for _, r := range requests {
				if r.ID == id {
					target = r
					break
				}
			}
			if target == nil {
				return fmt.Errorf("demande %d introuvable", id)
			}
			return download(cmd, opts, portal.GeneratePDF, func(ctx context.Context) (*portal.File, error) {
				return c.RequestPDF(ctx, target)
			})
		},
	}
}

func receiptCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "recu <paiement-id>",
		Short: "Télécharger le reçu d'un paiement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			id, err := parseRecordID(args[0])
			if err != nil {
				return err
			}
			return download(cmd, opts, portal.DownloadReceipt, func(ctx context.Context) (*portal.File, error) {
				return c.Receipt(ctx, id)
			})
		},
	}
}

func qrCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "qr",
		Short: "Télécharger le QR code d'identité",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			return download(cmd, opts, portal.Messages{Success: "QR code enregistré.", Fallback: "Erreur lors du chargement du QR code."}, c.IdentityQR)
		},
	}
}

// download fetches a document and writes it to the output directory once
// complete.
func download(cmd *cobra.Command, opts *options, msgs portal.Messages, fetch func(context.Context) (*portal.File, error)) error {
	var file *portal.File
	err := submit(cmd, "", msgs, func(ctx context.Context) error {
		var err error
		file, err = fetch(ctx)
		return err
	})
	if err != nil {
		return err
	}

	store, err := filestorage.NewLocalStorage(opts.outDir)
	if err != nil {
		return err
	}
	path, err := store.SaveFile(file.Name, file.Content)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	if file.Reference != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Référence : %s\n", file.Reference)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
