// Package render turns a document's display name and text into a
// standalone PDF using the built-in Helvetica fonts.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	orientation  = "P"
	fontFamily   = "Helvetica"
	titleSize    = 16
	bodySize     = 12
	titleLineH   = 8.0
	bodyLineH    = 6.0
	titleSpacing = 6.0
	pageMarginMM = 15.0
)

// Renderer produces PDF bytes. The zero value writes uncompressed streams.
type Renderer struct {
	compress bool
}

// NewRenderer returns a Renderer that compresses page streams.
func NewRenderer() *Renderer {
	return &Renderer{compress: true}
}

// Render emits name as a bold 16pt title and text as a 12pt justified body.
// Blank parts are left out; with both blank the result is a single empty page.
func (r *Renderer) Render(name, text string) ([]byte, error) {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.SetAutoPageBreak(true, pageMarginMM)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if strings.TrimSpace(name) != "" {
		pdf.SetFont(fontFamily, "B", titleSize)
		pdf.MultiCell(0, titleLineH, tr(name), "", "L", false)
		pdf.Ln(titleSpacing)
	}
	if strings.TrimSpace(text) != "" {
		pdf.SetFont(fontFamily, "", bodySize)
		pdf.MultiCell(0, bodyLineH, tr(text), "", "J", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
