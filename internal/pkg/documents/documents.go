// Package documents renders the official PDF documents of the school:
// payment receipts, schooling certificates, transcripts and internship
// conventions. Documents are built in memory; writing them is the caller's job.
package documents

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// Institution identifies the issuing school on every document.
type Institution struct {
	Name    string
	Short   string
	Address string
	City    string
	Phone   string
}

// DefaultInstitution is ENSA Berrechid.
var DefaultInstitution = Institution{
	Name:    "École Nationale des Sciences Appliquées de Berrechid",
	Short:   "ENSA BERRECHID",
	Address: "Avenue de l'Université, BP 218 Berrechid",
	City:    "Berrechid",
	Phone:   "+212 5XX XX XX XX",
}

// AssetSource opens emblem images by file name.
type AssetSource interface {
	Open(name string) (io.ReadCloser, error)
}

// Document is a rendered PDF.
type Document struct {
	Filename  string
	Content   []byte
	Reference string
	Pages     int
}

// Generator renders documents for one institution.
type Generator struct {
	inst     Institution
	assets   AssetSource
	now      func() time.Time
	newRef   func() string
	compress bool
}

// NewGenerator creates a generator. assets may be nil, in which case the
// emblems are drawn as placeholders.
func NewGenerator(inst Institution, assets AssetSource) *Generator {
	return &Generator{
		inst:     inst,
		assets:   assets,
		now:      time.Now,
		newRef:   func() string { return uuid.NewString() },
		compress: true,
	}
}

// Page geometry, in millimetres.
const (
	marginX    = 15.0
	labelX     = 20.0
	colonX     = 75.0
	valueX     = 80.0
	rowHeight  = 7.0
	bandHeight = 10.0
	bandGap    = 5.0
	titleY     = 45.0
	bodyY      = 65.0
	receiptY   = 60.0
	qrSize     = 22.0
)

// Pagination limits: contentBottom is the distance from the page bottom
// kept free for the footer and its code, continuedY is where content
// resumes on an added page.
const (
	contentBottom = 50.0
	continuedY    = 20.0
)

// page wraps a gofpdf document with the house layout.
type page struct {
	pdf   *gofpdf.Fpdf
	tr    func(string) string
	width float64
	y     float64
}

func (g *Generator) newPage() *page {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(g.compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(g.inst.Short, true)
	pdf.AddPage()

	w, _ := pdf.GetPageSize()
	return &page{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		width: w,
	}
}

func (p *page) font(style string, size float64) {
	p.pdf.SetFont("Helvetica", style, size)
}

func (p *page) text(x, y float64, s string) {
	p.pdf.Text(x, y, p.tr(s))
}

// centered writes s centered on the page with its baseline at y.
func (p *page) centered(y float64, s string) {
	s = p.tr(s)
	p.pdf.Text((p.width-p.pdf.GetStringWidth(s))/2, y, s)
}

// paragraph writes s wrapped to the body width starting at the cursor and
// advances the cursor by lineHeight per line.
func (p *page) paragraph(s string, lineHeight float64) {
	lines := p.pdf.SplitText(p.tr(s), p.width-2*labelX)
	for _, line := range lines {
		p.pdf.Text(labelX, p.y, line)
		p.y += lineHeight
	}
}

func (p *page) title(s string) {
	p.pdf.SetTextColor(220, 53, 69)
	p.font("B", 24)
	p.centered(titleY, strings.ToUpper(s))
	p.pdf.SetTextColor(0, 0, 0)
}

// room reports whether height more millimetres fit above the footer.
func (p *page) room(height float64) bool {
	_, h := p.pdf.GetPageSize()
	return p.y+height <= h-contentBottom
}

// next starts a new page and moves the cursor to its top.
func (p *page) next() {
	p.pdf.AddPage()
	p.y = continuedY
}

// band draws a shaded section header and moves the cursor to the first row.
func (p *page) band(header string) {
	p.pdf.SetFillColor(248, 250, 252)
	p.pdf.Rect(marginX, p.y, p.width-2*marginX, bandHeight, "F")
	p.font("B", 11)
	p.text(marginX+2, p.y+6, header)
	p.y += bandHeight + bandGap
}

// row writes a "label : value" line with the value in bold.
func (p *page) row(label, value string) {
	p.font("", 10)
	p.text(labelX, p.y, label)
	p.text(colonX, p.y, ":")
	p.font("B", 10)
	p.text(valueX, p.y, value)
	p.y += rowHeight
}

func (p *page) rule(y float64) {
	p.pdf.SetDrawColor(220, 220, 220)
	p.pdf.Line(marginX, y, p.width-marginX, y)
}

// footers draws the footer at the bottom of every page, including pages added
// later for overflowing content.
func (g *Generator) footers(p *page, second, reference string) {
	p.pdf.SetFooterFunc(func() { g.footer(p, second, reference) })
}

// footer writes the two centered footer lines and the verification code.
func (g *Generator) footer(p *page, second, reference string) {
	_, h := p.pdf.GetPageSize()
	y := h - 20
	p.rule(y)

	p.font("", 8)
	p.pdf.SetTextColor(100, 100, 100)
	p.centered(y+7, g.inst.Name)
	p.centered(y+11, second)
	p.pdf.SetTextColor(0, 0, 0)

	g.drawVerificationCode(p, reference, p.width-marginX-qrSize, y-qrSize-2)
}

func (g *Generator) render(p *page, filename, reference string) (*Document, error) {
	var buf bytes.Buffer
	if err := p.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", filename, err)
	}
	return &Document{Filename: filename, Content: buf.Bytes(), Reference: reference, Pages: p.pdf.PageCount()}, nil
}

func (g *Generator) addressLine() string {
	if g.inst.Phone == "" {
		return g.inst.Address
	}
	return g.inst.Address + " - Tél: " + g.inst.Phone
}

// orPlaceholder substitutes a bracketed hint for an empty value.
func orPlaceholder(value, hint string) string {
	if strings.TrimSpace(value) == "" {
		return "[" + hint + "]"
	}
	return value
}
