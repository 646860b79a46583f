package regulation

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EraStartYearOffset converts a Gregorian year to a Reiwa year (2019 = 令和1年).
// It is a fixed offset: dates before 2019-05-01 are not mapped to Heisei.
const EraStartYearOffset = 2018

// ActualCostMarker replaces a fixed amount when the category is reimbursed at actual cost.
const ActualCostMarker = "実費"

// EraYear returns the era year printed in the regulation's effective date.
func EraYear(t time.Time) int {
	return t.Year() - EraStartYearOffset
}

// GenerateText renders the regulation. The output depends only on doc, so a saved
// text and a fresh preview of the same document are byte-identical.
func GenerateText(doc Document) string {
	var b strings.Builder

	b.WriteString(articlesBeforeDistance)
	b.WriteString(strconv.Itoa(doc.DistanceThreshold))
	b.WriteString(articlesBeforeRateTable)

	for i, p := range doc.Positions {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(RateRow(doc, p), "\t"))
	}

	b.WriteString(articlesAfterRateTable)

	date := doc.Company.ImplementationDate
	b.WriteString(strconv.Itoa(EraYear(date)))
	b.WriteString("年")
	b.WriteString(strconv.Itoa(int(date.Month())))
	b.WriteString("月")
	b.WriteString(strconv.Itoa(date.Day()))
	b.WriteString("日より実施する。\n\n")

	b.WriteString(doc.Company.Name)
	b.WriteByte('\n')
	b.WriteString(doc.Company.Representative)

	return b.String()
}

// RateTableHeader is the two header lines of the rate table.
var RateTableHeader = [][]string{
	{"", "国内出張", "海外出張"},
	{"役職", "出張日当", "宿泊料", "交通費", "出張日当", "宿泊料", "支度料", "交通費"},
}

// RateRow returns the eight cells of p's table row, with real-expense substitution applied.
func RateRow(doc Document, p PositionRate) []string {
	return []string{
		p.Name,
		p.DomesticDailyAllowance.String(),
		cell(p.DomesticAccommodation, doc.IsAccommodationRealExpense),
		cell(p.DomesticTransportation, doc.IsTransportationRealExpense),
		p.OverseasDailyAllowance.String(),
		cell(p.OverseasAccommodation, doc.IsAccommodationRealExpense),
		p.OverseasPreparation.String(),
		cell(p.OverseasTransportation, doc.IsTransportationRealExpense),
	}
}

func cell(amount decimal.Decimal, actualCost bool) string {
	if actualCost {
		return ActualCostMarker
	}
	return amount.String()
}
