package documents

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	_ "golang.org/x/image/webp"
)

// Emblem file names looked up in the asset source.
const (
	SchoolEmblem     = "ensa.png"
	UniversityEmblem = "uh1.png"
)

// emblemPixels bounds the resolution embedded in the PDF.
const emblemPixels = 400

type emblemSlot struct {
	file       string
	label      string
	x, y, w, h float64
}

func (p *page) emblemSlots() []emblemSlot {
	return []emblemSlot{
		{SchoolEmblem, "ENSA", marginX, 10, 35, 20},
		{UniversityEmblem, "UH1", p.width - 50, 10, 30, 25},
	}
}

// drawEmblems places both emblems. An unreadable asset becomes a dark
// labelled placeholder; emblems never fail a document.
func (g *Generator) drawEmblems(p *page) {
	for _, slot := range p.emblemSlots() {
		if !g.drawEmblem(p, slot) {
			placeholder(p, slot)
		}
	}
}

func (g *Generator) drawEmblem(p *page, slot emblemSlot) bool {
	data, ok := g.loadEmblem(slot.file)
	if !ok {
		return false
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.pdf.RegisterImageOptionsReader(slot.file, opts, bytes.NewReader(data))
	if !p.pdf.Ok() {
		p.pdf.ClearError()
		return false
	}
	p.pdf.ImageOptions(slot.file, slot.x, slot.y, slot.w, slot.h, false, opts, 0, "")
	if !p.pdf.Ok() {
		p.pdf.ClearError()
		return false
	}
	return true
}

// loadEmblem decodes the asset (PNG, JPEG, GIF or WebP), bounds its size and
// re-encodes it as 8-bit PNG.
func (g *Generator) loadEmblem(name string) ([]byte, bool) {
	if g.assets == nil {
		return nil, false
	}
	rc, err := g.assets.Open(name)
	if err != nil {
		return nil, false
	}
	defer rc.Close()

	img, err := imaging.Decode(rc, imaging.AutoOrientation(true))
	if err != nil {
		return nil, false
	}
	img = normalize(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

func normalize(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() > emblemPixels || b.Dy() > emblemPixels {
		return imaging.Fit(img, emblemPixels, emblemPixels, imaging.Lanczos)
	}
	return imaging.Clone(img)
}

func placeholder(p *page, slot emblemSlot) {
	p.pdf.SetFillColor(26, 29, 41)
	p.pdf.Rect(slot.x, slot.y, slot.w, slot.h, "F")
	p.pdf.SetTextColor(255, 255, 255)
	p.font("B", 8)
	s := p.tr(slot.label)
	p.pdf.Text(slot.x+(slot.w-p.pdf.GetStringWidth(s))/2, slot.y+8, s)
	p.pdf.SetTextColor(0, 0, 0)
}
