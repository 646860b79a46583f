package regulation

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/travel-expense/internal/domain"
)

func sampleDocument() Document {
	doc := DefaultDocument(time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC))
	doc.Company.Name = "株式会社テスト"
	doc.Company.Representative = "代表取締役 佐藤花子"
	return doc
}

func lines(text string) []string {
	return strings.Split(text, "\n")
}

func TestGenerateText_Structure(t *testing.T) {
	text := GenerateText(sampleDocument())
	ls := lines(text)

	assert.Equal(t, "出張旅費規程", ls[0])
	assert.Contains(t, text, "第４条　出張とは、従業員が自宅または通常の勤務地を起点として、片道50ｋｍ以上の目的地に移動し、職務を遂行するものをいう。\n")
	assert.Contains(t, text, "（円）\n\t国内出張\t海外出張\n役職\t出張日当\t宿泊料\t交通費\t出張日当\t宿泊料\t支度料\t交通費\n")
	assert.Contains(t, text, "\n代表取締役\t8000\t15000\t3000\t15000\t25000\t5000\t5000\n")
	assert.Contains(t, text, "\n従業員\t5000\t8000\t2000\t8000\t15000\t2000\t2000\n\n（交通機関）\n")
	assert.Contains(t, text, "第１１条　本規程は、令和7年4月1日より実施する。\n\n株式会社テスト\n代表取締役 佐藤花子")
	assert.True(t, strings.HasSuffix(text, "株式会社テスト\n代表取締役 佐藤花子"))

	for _, article := range []string{"第１条", "第２条", "第３条", "第４条", "第５条", "第６条", "第７条", "第８条", "第９条", "第１０条", "第１１条"} {
		assert.Equal(t, 1, strings.Count(text, "\n"+article+"　"), article)
	}
}

func TestGenerateText_Deterministic(t *testing.T) {
	doc := sampleDocument()
	assert.Equal(t, GenerateText(doc), GenerateText(doc))
}

func TestGenerateText_RealExpenseSubstitution(t *testing.T) {
	tests := []struct {
		name           string
		accommodation  bool
		transportation bool
		// cell indexes of RateRow expected to hold the marker
		markers []int
	}{
		{"fixed rates", false, false, nil},
		{"accommodation at actual cost", true, false, []int{2, 5}},
		{"transportation at actual cost", false, true, []int{3, 7}},
		{"both at actual cost", true, true, []int{2, 3, 5, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDocument()
			doc.IsAccommodationRealExpense = tt.accommodation
			doc.IsTransportationRealExpense = tt.transportation

			text := GenerateText(doc)
			for _, p := range doc.Positions {
				row := RateRow(doc, p)
				require.Len(t, row, 8)
				assert.Contains(t, text, "\n"+strings.Join(row, "\t")+"\n")

				for i, c := range row {
					want := false
					for _, m := range tt.markers {
						want = want || m == i
					}
					assert.Equal(t, want, c == ActualCostMarker, "cell %d of %s", i, p.Name)
				}
			}
		})
	}
}

func TestGenerateText_NoPositions(t *testing.T) {
	doc := sampleDocument()
	doc.Positions = nil

	text := GenerateText(doc)
	assert.Contains(t, text, "支度料\t交通費\n\n\n（交通機関）")
}

func TestGenerateText_DecimalAmounts(t *testing.T) {
	doc := sampleDocument()
	doc.Positions = []PositionRate{{
		Name:                   "嘱託",
		DomesticDailyAllowance: decimal.RequireFromString("1500.5"),
	}}

	assert.Contains(t, GenerateText(doc), "\n嘱託\t1500.5\t0\t0\t0\t0\t0\t0\n")
}

func TestEraYear(t *testing.T) {
	assert.Equal(t, 1, EraYear(time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 6, EraYear(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestTitleAndExportFileName(t *testing.T) {
	doc := sampleDocument()
	doc.Company.Revision = 3

	assert.Equal(t, "株式会社テスト 出張旅費規程", Title(doc.Company.Name))
	assert.Equal(t, "出張旅費規程_株式会社テスト_v3.txt", ExportFileName(doc, "txt"))
	assert.Equal(t, "出張旅費規程_株式会社テスト_v3.pdf", ExportFileName(doc, ".pdf"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Document)
		field  string
	}{
		{"valid", func(*Document) {}, ""},
		{"missing company", func(d *Document) { d.Company.Name = " " }, "company.name"},
		{"missing date", func(d *Document) { d.Company.ImplementationDate = time.Time{} }, "company.implementation_date"},
		{"zero revision", func(d *Document) { d.Company.Revision = 0 }, "company.revision"},
		{"negative distance", func(d *Document) { d.DistanceThreshold = -1 }, "distance_threshold"},
		{"no positions", func(d *Document) { d.Positions = nil }, "positions"},
		{"unnamed position", func(d *Document) { d.Positions[1].Name = "" }, "positions[1].name"},
		{"negative rate", func(d *Document) { d.Positions[2].OverseasPreparation = decimal.NewFromInt(-100) }, "positions[2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDocument()
			tt.mutate(&doc)

			err := Validate(doc)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var verr domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
