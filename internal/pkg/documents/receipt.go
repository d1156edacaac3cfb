package documents

import (
	"fmt"
	"strconv"

	"github.com/ensab/scolarite/internal/app/models"
)

// ReceiptFilename names the receipt of payment p.
func ReceiptFilename(p *models.Payment, s *models.Student) string {
	return fmt.Sprintf("Recu_Paiement_%d_%s.pdf", p.ID, fileToken(s.LastName))
}

// Receipt renders the payment receipt of p for student s.
func (g *Generator) Receipt(p *models.Payment, s *models.Student) (*Document, error) {
	ref := g.newRef()
	pg := g.newPage()
	g.drawEmblems(pg)
	pg.title("Reçu de paiement")
	pg.y = receiptY

	pg.band("DÉTAIL DE PAIEMENT")
	pg.row("Date de paiement", p.ReceiptDate().Display())
	pg.row("N° de paiement", strconv.FormatInt(p.ID, 10))
	pg.row("Méthode de paiement", "ESPÈCES/VIREMENT")
	pg.row("Statut", p.Status.Label())
	pg.y += bandGap

	pg.band("DÉTAIL DE LA COMMANDE")
	pg.row("Montant", fmt.Sprintf("%.2f MAD", p.Amount))
	pg.row("Type", p.Type.Label())
	pg.y += 2 * bandGap

	pg.band("INFORMATIONS DE L'ÉTUDIANT")
	g.studentRows(pg, s)
	pg.y += bandGap

	pg.band("DÉTAIL ÉTABLISSEMENT")
	pg.row("Nom de l'établissement", g.inst.Short)
	pg.row("Adresse", g.inst.Address)

	g.footers(pg, "Ce document est généré automatiquement et ne nécessite pas de signature", ref)
	return g.render(pg, ReceiptFilename(p, s), ref)
}

func (g *Generator) studentRows(pg *page, s *models.Student) {
	pg.row("Nom complet", s.FullName())
	pg.row("Code Apogée", strconv.FormatInt(s.CodeApogee, 10))
	pg.row("CIN", s.CIN)
	pg.row("Filière", orPlaceholder(s.Program, "Filière"))
	pg.row("E-mail", s.Email)
}
