// Package export renders regulations into downloadable file formats.
package export

import (
	"strings"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/regulation"
)

// TextRenderer writes the generated text as UTF-8
type TextRenderer struct{}

func (TextRenderer) Format() string      { return entity.ExportFormatText }
func (TextRenderer) Extension() string   { return "txt" }
func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (TextRenderer) Render(doc regulation.Document, text string) ([]byte, error) {
	return []byte(text), nil
}

func lines(text string) []string {
	return strings.Split(text, "\n")
}

var (
	_ port.DocumentRenderer = TextRenderer{}
	_ port.DocumentRenderer = ShiftJISRenderer{}
	_ port.DocumentRenderer = (*PDFRenderer)(nil)
	_ port.DocumentRenderer = XLSXRenderer{}
)
