package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/garyjia/travel-expense/internal/domain/regulation"
)

func sampleDoc() regulation.Document {
	return regulation.DefaultDocument(time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local))
}

func TestTextRenderer(t *testing.T) {
	doc := sampleDoc()
	text := regulation.GenerateText(doc)

	out, err := TextRenderer{}.Render(doc, text)
	require.NoError(t, err)
	assert.Equal(t, text, string(out))
	assert.Equal(t, "txt", TextRenderer{}.Format())
}

func TestShiftJISRenderer(t *testing.T) {
	text := "第1条 出張旅費\n（日当）\n株式会社サンプル"

	out, err := ShiftJISRenderer{}.Render(sampleDoc(), text)
	require.NoError(t, err)
	assert.NotEqual(t, []byte(text), out)

	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), out)
	require.NoError(t, err)
	assert.Equal(t, "第1条 出張旅費\r\n（日当）\r\n株式会社サンプル", string(decoded))
}

func TestShiftJISRenderer_UnsupportedCharacters(t *testing.T) {
	out, err := ShiftJISRenderer{}.Render(sampleDoc(), "規程 😀")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestShiftJISRenderer_FullDocument(t *testing.T) {
	doc := sampleDoc()
	_, err := ShiftJISRenderer{}.Render(doc, regulation.GenerateText(doc))
	assert.NoError(t, err)
}

func TestPDFRenderer_RequiresFont(t *testing.T) {
	r := NewPDFRenderer("")

	_, err := r.Render(sampleDoc(), "text")
	assert.ErrorIs(t, err, ErrFontRequired)
	assert.Equal(t, "application/pdf", r.ContentType())
}

func TestXLSXRenderer(t *testing.T) {
	doc := sampleDoc()
	doc.IsAccommodationRealExpense = true
	text := regulation.GenerateText(doc)

	out, err := XLSXRenderer{}.Render(doc, text)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	first, err := f.GetCellValue(SheetText, "A1")
	require.NoError(t, err)
	assert.Equal(t, lines(text)[0], first)

	tests := []struct {
		cell string
		want string
	}{
		{"B1", "国内出張"},
		{"E1", "海外出張"},
		{"A2", "役職"},
		{"H2", "交通費"},
		{"A3", "代表取締役"},
		{"B3", "8000"},
		{"C3", regulation.ActualCostMarker},
		{"G3", "5000"},
		{"A6", "従業員"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue(SheetRates, tt.cell)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.cell)
	}
}
