package documents

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/helpers"
)

// RequestFilename names the document produced for a request of type t.
func RequestFilename(t models.DocumentType, s *models.Student) string {
	return fileToken(t.Label()) + "_" + fileToken(s.LastName) + ".pdf"
}

// Request renders the official document asked for by req. grades is only
// used by transcripts.
func (g *Generator) Request(req *models.DocumentRequest, s *models.Student, grades []*models.Grade) (*Document, error) {
	ref := g.newRef()
	pg := g.newPage()
	g.footers(pg, g.addressLine(), ref)
	g.drawEmblems(pg)
	pg.title(req.Type.Label())
	pg.y = bodyY

	switch req.Type {
	case models.DocumentCertificate:
		g.certificate(pg, s)
	case models.DocumentTranscript:
		g.transcript(pg, s, grades)
	case models.DocumentConvention:
		g.convention(pg, s)
	default:
		return nil, fmt.Errorf("%w: type de document inconnu %q", apperrors.ErrValidationFailed, req.Type)
	}

	return g.render(pg, RequestFilename(req.Type, s), ref)
}

func (g *Generator) academicYear(s *models.Student) string {
	if strings.TrimSpace(s.AcademicYear) != "" {
		return s.AcademicYear
	}
	return helpers.AcademicYear(g.now())
}

func (g *Generator) certificate(pg *page, s *models.Student) {
	pg.font("", 11)
	pg.text(labelX, pg.y, "Le Directeur de l'"+g.inst.Name)
	pg.y += 10
	pg.text(labelX, pg.y, "certifie que :")
	pg.y += 15

	pg.font("B", 13)
	pg.centered(pg.y, strings.ToUpper("M./Mme "+s.FullName()))
	pg.y += 10

	pg.font("", 11)
	pg.text(labelX, pg.y, "CIN : "+s.CIN)
	pg.y += rowHeight
	pg.text(labelX, pg.y, "Code Apogée : "+strconv.FormatInt(s.CodeApogee, 10))
	pg.y += 15

	pg.paragraph(fmt.Sprintf(
		"Est régulièrement inscrit(e) en qualité d'étudiant(e) à l'%s, dans la filière %s, niveau %s, pour l'année universitaire %s.",
		g.inst.Name, orPlaceholder(s.Program, "Filière"), orPlaceholder(s.Level, "Niveau"), g.academicYear(s),
	), rowHeight)
	pg.y += bandGap
	pg.paragraph("L'intéressé(e) suit régulièrement les enseignements et participe aux examens.", rowHeight)
	pg.y += 15 - rowHeight
	pg.paragraph("La présente attestation est délivrée à l'intéressé(e) pour servir et valoir ce que de droit.", rowHeight)
	pg.y += 20 - rowHeight

	g.signature(pg)
}

func (g *Generator) signature(pg *page) {
	pg.font("", 11)
	pg.text(labelX, pg.y, fmt.Sprintf("Fait à %s, le %s", g.inst.City, g.now().Format("02/01/2006")))
	pg.y += 15
	pg.font("B", 11)
	pg.text(pg.width-60, pg.y, "Le Directeur")
}

func (g *Generator) transcript(pg *page, s *models.Student, grades []*models.Grade) {
	pg.font("B", 14)
	pg.centered(pg.y, "RELEVÉ DE NOTES")
	pg.y += 15

	pg.row("Étudiant", s.FullName())
	pg.row("Code Apogée", strconv.FormatInt(s.CodeApogee, 10))
	pg.row("Filière", orPlaceholder(s.Program, "Filière"))
	pg.row("Année universitaire", g.academicYear(s))
	pg.row("Niveau", orPlaceholder(s.Level, "Niveau"))
	pg.y += 8

	mean, ok := models.Average(grades)
	if ok {
		gradeTable(pg, grades, math.Round(mean*100)/100)
	} else {
		pg.font("", 11)
		pg.text(labelX+5, pg.y, "Aucune note disponible pour cet étudiant.")
		pg.y += 10
	}

	pg.font("", 9)
	pg.text(labelX, pg.y, "Barème : Très Bien (16-20) | Bien (14-16) | Assez Bien (12-14) | Passable (10-12)")
}

// gradeTable lists grades under a header repeated on every page, then the
// mean. mean is already rounded to the printed precision.
func gradeTable(pg *page, grades []*models.Grade, mean float64) {
	gradeHeader(pg)
	pg.font("", 10)
	for _, gr := range grades {
		if !pg.room(8) {
			pg.next()
			gradeHeader(pg)
			pg.font("", 10)
		}
		pg.text(labelX, pg.y, gr.Module)
		pg.text(pg.width-70, pg.y, fmt.Sprintf("%.2f", gr.Value))
		pg.text(pg.width-30, pg.y, GradeMention(gr.Value))
		pg.rule(pg.y + 2)
		pg.y += 8
	}

	pg.y += bandGap
	if !pg.room(10) {
		pg.next()
	}
	pg.font("B", 11)
	pg.text(labelX, pg.y, fmt.Sprintf("Moyenne générale : %.2f / 20", mean))
	pg.text(pg.width-60, pg.y, "Mention : "+MeanMention(mean))
	pg.y += 10
}

func gradeHeader(pg *page) {
	pg.pdf.SetFillColor(248, 250, 252)
	pg.pdf.Rect(marginX, pg.y, pg.width-2*marginX, bandHeight, "F")
	pg.font("B", 10)
	pg.text(labelX, pg.y+6, "Module")
	pg.text(pg.width-70, pg.y+6, "Note /20")
	pg.text(pg.width-30, pg.y+6, "Mention")
	pg.y += bandHeight + bandGap
}

const blank = "______________________________"

func (g *Generator) convention(pg *page, s *models.Student) {
	pg.font("", 11)
	pg.text(labelX, pg.y, "Entre les soussignés :")
	pg.y += 10
	pg.font("B", 11)
	pg.text(labelX, pg.y, g.inst.Name)
	pg.y += rowHeight
	pg.font("", 11)
	pg.text(labelX, pg.y, "Représentée par son Directeur")
	pg.y += rowHeight
	pg.text(labelX, pg.y, g.inst.Address)
	pg.y += rowHeight
	pg.text(labelX, pg.y, "D'une part,")
	pg.y += 10

	pg.text(labelX, pg.y, "Et")
	pg.y += 10
	pg.font("B", 11)
	pg.text(labelX, pg.y, "L'ENTREPRISE")
	pg.y += rowHeight
	pg.font("", 11)
	pg.text(labelX, pg.y, "Nom : "+blank)
	pg.y += rowHeight
	pg.text(labelX, pg.y, "Adresse : "+blank)
	pg.y += rowHeight
	pg.text(labelX, pg.y, "D'autre part,")
	pg.y += 15

	article(pg, "Article 1 : Objet de la convention")
	pg.paragraph(fmt.Sprintf(
		"La présente convention a pour objet de définir les modalités du stage effectué par l'étudiant(e) %s, inscrit(e) en %s, filière %s.",
		s.FullName(), orPlaceholder(s.Level, "Niveau"), orPlaceholder(s.Program, "Filière"),
	), rowHeight)
	pg.y += bandGap

	article(pg, "Article 2 : Durée et période du stage")
	for _, line := range []string{
		"Date de début : ____ / ____ / ________",
		"Date de fin : ____ / ____ / ________",
		"Durée totale : __________ semaines",
	} {
		pg.text(labelX, pg.y, line)
		pg.y += rowHeight
	}
	pg.y += bandGap

	article(pg, "Article 3 : Encadrement")
	pg.text(labelX, pg.y, "Tuteur pédagogique : "+blank)
	pg.y += rowHeight
	pg.text(labelX, pg.y, "Maître de stage (entreprise) : "+blank)
	pg.y += 15

	g.signature(pg)
}

func article(pg *page, heading string) {
	pg.font("B", 11)
	pg.text(labelX, pg.y, heading)
	pg.y += rowHeight
	pg.font("", 11)
}

// fileToken makes s safe inside a file name.
func fileToken(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "Document"
	}
	return strings.Join(strings.Fields(s), "_")
}
