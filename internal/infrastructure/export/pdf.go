package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/regulation"
)

// ErrFontRequired is returned when no Japanese-capable TrueType font is configured
var ErrFontRequired = errors.New("pdf export requires a UTF-8 TrueType font")

const pdfFontFamily = "regulation"

// PDFRenderer lays the generated text out on A4 pages
type PDFRenderer struct {
	fontPath string
}

// NewPDFRenderer creates a renderer using the TrueType font at fontPath
func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{fontPath: fontPath}
}

func (r *PDFRenderer) Format() string      { return entity.ExportFormatPDF }
func (r *PDFRenderer) Extension() string   { return "pdf" }
func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Render(doc regulation.Document, text string) ([]byte, error) {
	if r.fontPath == "" {
		return nil, ErrFontRequired
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(regulation.Title(doc.Company.Name), true)
	pdf.SetAuthor(doc.Company.Name, true)
	pdf.AddUTF8Font(pdfFontFamily, "", r.fontPath)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont(pdfFontFamily, "", 16)
	pdf.CellFormat(0, 12, regulation.Title(doc.Company.Name), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(pdfFontFamily, "", 10.5)
	for _, line := range lines(text) {
		if line == "" {
			pdf.Ln(3)
			continue
		}
		pdf.MultiCell(0, 6, strings.ReplaceAll(line, "\t", "    "), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
