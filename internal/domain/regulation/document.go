// Package regulation renders the company travel expense regulation (出張旅費規程)
// from structured company and per-position rate data.
package regulation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garyjia/travel-expense/internal/domain"
)

// CompanyInfo identifies the issuing company and the revision of the regulation.
type CompanyInfo struct {
	Name               string    `json:"name"`
	Address            string    `json:"address"`
	Representative     string    `json:"representative"`
	Revision           int       `json:"revision"`
	ImplementationDate time.Time `json:"implementation_date"`
}

// PositionRate is one row of the rate table (第７条).
type PositionRate struct {
	Name                   string          `json:"name"`
	DomesticDailyAllowance decimal.Decimal `json:"domestic_daily_allowance"`
	DomesticAccommodation  decimal.Decimal `json:"domestic_accommodation"`
	DomesticTransportation decimal.Decimal `json:"domestic_transportation"`
	OverseasDailyAllowance decimal.Decimal `json:"overseas_daily_allowance"`
	OverseasAccommodation  decimal.Decimal `json:"overseas_accommodation"`
	OverseasPreparation    decimal.Decimal `json:"overseas_preparation"`
	OverseasTransportation decimal.Decimal `json:"overseas_transportation"`
}

// Document is everything the regulation text is generated from.
type Document struct {
	Company CompanyInfo `json:"company"`
	// DistanceThreshold is the one-way distance in km from which a journey counts as a trip.
	DistanceThreshold           int            `json:"distance_threshold"`
	IsTransportationRealExpense bool           `json:"is_transportation_real_expense"`
	IsAccommodationRealExpense  bool           `json:"is_accommodation_real_expense"`
	Positions                   []PositionRate `json:"positions"`
}

// Title is the stored name of a company's regulation.
func Title(companyName string) string {
	return companyName + " 出張旅費規程"
}

// ExportFileName names a downloadable copy of doc with the given extension.
func ExportFileName(doc Document, ext string) string {
	return fmt.Sprintf("出張旅費規程_%s_v%d.%s", doc.Company.Name, doc.Company.Revision, strings.TrimPrefix(ext, "."))
}

// DefaultDocument is the starting point offered for a new regulation.
func DefaultDocument(now time.Time) Document {
	y, m, d := now.Date()
	return Document{
		Company: CompanyInfo{
			Name:               "株式会社サンプル",
			Address:            "東京都千代田区丸の内1-1-1",
			Representative:     "代表取締役 山田太郎",
			Revision:           1,
			ImplementationDate: time.Date(y, m, d, 0, 0, 0, 0, now.Location()),
		},
		DistanceThreshold: 50,
		Positions: []PositionRate{
			position("代表取締役", 8000, 15000, 3000, 15000, 25000, 5000, 5000),
			position("取締役", 7000, 12000, 2500, 12000, 20000, 4000, 4000),
			position("執行役員", 6000, 10000, 2000, 10000, 18000, 3000, 3000),
			position("従業員", 5000, 8000, 2000, 8000, 15000, 2000, 2000),
		},
	}
}

func position(name string, domDaily, domAccom, domTrans, ovsDaily, ovsAccom, ovsPrep, ovsTrans int64) PositionRate {
	return PositionRate{
		Name:                   name,
		DomesticDailyAllowance: decimal.NewFromInt(domDaily),
		DomesticAccommodation:  decimal.NewFromInt(domAccom),
		DomesticTransportation: decimal.NewFromInt(domTrans),
		OverseasDailyAllowance: decimal.NewFromInt(ovsDaily),
		OverseasAccommodation:  decimal.NewFromInt(ovsAccom),
		OverseasPreparation:    decimal.NewFromInt(ovsPrep),
		OverseasTransportation: decimal.NewFromInt(ovsTrans),
	}
}

// Validate checks a document before it is saved. GenerateText itself accepts any document.
func Validate(doc Document) error {
	if strings.TrimSpace(doc.Company.Name) == "" {
		return domain.ValidationError{Field: "company.name", Msg: "is required"}
	}
	if doc.Company.ImplementationDate.IsZero() {
		return domain.ValidationError{Field: "company.implementation_date", Msg: "is required"}
	}
	if doc.Company.Revision < 1 {
		return domain.ValidationError{Field: "company.revision", Msg: "must be at least 1"}
	}
	if doc.DistanceThreshold < 0 {
		return domain.ValidationError{Field: "distance_threshold", Msg: "must not be negative"}
	}
	if len(doc.Positions) == 0 {
		return domain.ValidationError{Field: "positions", Msg: "at least one position is required"}
	}

	for i, p := range doc.Positions {
		if strings.TrimSpace(p.Name) == "" {
			return domain.ValidationError{Field: fmt.Sprintf("positions[%d].name", i), Msg: "is required"}
		}
		for _, amount := range []decimal.Decimal{
			p.DomesticDailyAllowance, p.DomesticAccommodation, p.DomesticTransportation,
			p.OverseasDailyAllowance, p.OverseasAccommodation, p.OverseasPreparation, p.OverseasTransportation,
		} {
			if amount.IsNegative() {
				return domain.ValidationError{Field: fmt.Sprintf("positions[%d]", i), Msg: "rates must not be negative"}
			}
		}
	}

	return nil
}
