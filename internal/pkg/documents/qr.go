package documents

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ensab/scolarite/internal/pkg/logger"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// QRPixels is the side of generated QR images.
const QRPixels = 256

// QRCode encodes content as a PNG QR code.
func QRCode(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, QRPixels)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// IdentityQR encodes v, typically a student identity card, as JSON in a QR code.
func IdentityQR(v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal identity: %w", err)
	}
	return QRCode(string(payload))
}

// verificationContent is what the footer code of reference encodes.
func (g *Generator) verificationContent(reference string) string {
	return g.inst.Short + " | " + reference
}

func (g *Generator) drawVerificationCode(p *page, reference string, x, y float64) {
	png, err := QRCode(g.verificationContent(reference))
	if err != nil {
		logger.Debug().Err(err).Str("reference", reference).Msg("Verification code skipped")
		return
	}
	name := "qr-" + reference
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	if !p.pdf.Ok() {
		p.pdf.ClearError()
		return
	}
	p.pdf.ImageOptions(name, x, y, qrSize, qrSize, false, opts, 0, "")
	if !p.pdf.Ok() {
		p.pdf.ClearError()
	}
}
