package export

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/regulation"
)

// ShiftJISRenderer writes the generated text as Shift_JIS with CRLF line endings,
// the form expected by Windows editors. Characters outside Shift_JIS are replaced.
type ShiftJISRenderer struct{}

func (ShiftJISRenderer) Format() string      { return entity.ExportFormatShiftJIS }
func (ShiftJISRenderer) Extension() string   { return "txt" }
func (ShiftJISRenderer) ContentType() string { return "text/plain; charset=Shift_JIS" }

func (ShiftJISRenderer) Render(doc regulation.Document, text string) ([]byte, error) {
	crlf := strings.ReplaceAll(text, "\n", "\r\n")

	encoder := encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder())
	encoded, _, err := transform.Bytes(encoder, []byte(crlf))
	if err != nil {
		return nil, fmt.Errorf("failed to encode Shift_JIS: %w", err)
	}
	return encoded, nil
}
