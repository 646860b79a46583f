package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/garyjia/travel-expense/internal/domain/regulation"
)

// Regulation status and type constants
const (
	RegulationStatusActive = "active"
	RegulationTypeDomestic = "domestic"
)

// Regulation is a saved travel expense regulation with its rendered text
type Regulation struct {
	ID                          int64     `db:"id" json:"id"`
	UserID                      int64     `db:"user_id" json:"user_id"`
	RegulationName              string    `db:"regulation_name" json:"regulation_name"`
	RegulationType              string    `db:"regulation_type" json:"regulation_type"`
	CompanyName                 string    `db:"company_name" json:"company_name"`
	CompanyAddress              string    `db:"company_address" json:"company_address"`
	Representative              string    `db:"representative" json:"representative"`
	DistanceThreshold           int       `db:"distance_threshold" json:"distance_threshold"`
	ImplementationDate          time.Time `db:"implementation_date" json:"implementation_date"`
	Revision                    int       `db:"revision" json:"revision"`
	IsTransportationRealExpense bool      `db:"is_transportation_real_expense" json:"is_transportation_real_expense"`
	IsAccommodationRealExpense  bool      `db:"is_accommodation_real_expense" json:"is_accommodation_real_expense"`
	RegulationText              string    `db:"regulation_text" json:"regulation_text"`
	Status                      string    `db:"status" json:"status"`
	CreatedAt                   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                   time.Time `db:"updated_at" json:"updated_at"`

	Positions []RegulationPosition `db:"-" json:"positions"`
}

// RegulationPosition is one stored row of a regulation's rate table
type RegulationPosition struct {
	ID                     int64           `db:"id" json:"-"`
	RegulationID           int64           `db:"regulation_id" json:"-"`
	SortOrder              int             `db:"sort_order" json:"-"`
	PositionName           string          `db:"position_name" json:"name"`
	DomesticDailyAllowance decimal.Decimal `db:"domestic_daily_allowance" json:"domestic_daily_allowance"`
	DomesticAccommodation  decimal.Decimal `db:"domestic_accommodation" json:"domestic_accommodation"`
	DomesticTransportation decimal.Decimal `db:"domestic_transportation" json:"domestic_transportation"`
	OverseasDailyAllowance decimal.Decimal `db:"overseas_daily_allowance" json:"overseas_daily_allowance"`
	OverseasAccommodation  decimal.Decimal `db:"overseas_accommodation" json:"overseas_accommodation"`
	OverseasPreparation    decimal.Decimal `db:"overseas_preparation" json:"overseas_preparation"`
	OverseasTransportation decimal.Decimal `db:"overseas_transportation" json:"overseas_transportation"`
}

// NewRegulation builds an active regulation row from doc, including its rendered text.
func NewRegulation(userID int64, doc regulation.Document) *Regulation {
	r := &Regulation{
		UserID:                      userID,
		RegulationName:              regulation.Title(doc.Company.Name),
		RegulationType:              RegulationTypeDomestic,
		CompanyName:                 doc.Company.Name,
		CompanyAddress:              doc.Company.Address,
		Representative:              doc.Company.Representative,
		DistanceThreshold:           doc.DistanceThreshold,
		ImplementationDate:          doc.Company.ImplementationDate,
		Revision:                    doc.Company.Revision,
		IsTransportationRealExpense: doc.IsTransportationRealExpense,
		IsAccommodationRealExpense:  doc.IsAccommodationRealExpense,
		RegulationText:              regulation.GenerateText(doc),
		Status:                      RegulationStatusActive,
	}

	r.Positions = make([]RegulationPosition, len(doc.Positions))
	for i, p := range doc.Positions {
		r.Positions[i] = RegulationPosition{
			SortOrder:              i,
			PositionName:           p.Name,
			DomesticDailyAllowance: p.DomesticDailyAllowance,
			DomesticAccommodation:  p.DomesticAccommodation,
			DomesticTransportation: p.DomesticTransportation,
			OverseasDailyAllowance: p.OverseasDailyAllowance,
			OverseasAccommodation:  p.OverseasAccommodation,
			OverseasPreparation:    p.OverseasPreparation,
			OverseasTransportation: p.OverseasTransportation,
		}
	}

	return r
}

// Document rebuilds the structured document the row was saved from.
func (r *Regulation) Document() regulation.Document {
	doc := regulation.Document{
		Company: regulation.CompanyInfo{
			Name:               r.CompanyName,
			Address:            r.CompanyAddress,
			Representative:     r.Representative,
			Revision:           r.Revision,
			ImplementationDate: r.ImplementationDate,
		},
		DistanceThreshold:           r.DistanceThreshold,
		IsTransportationRealExpense: r.IsTransportationRealExpense,
		IsAccommodationRealExpense:  r.IsAccommodationRealExpense,
		Positions:                   make([]regulation.PositionRate, len(r.Positions)),
	}

	for i, p := range r.Positions {
		doc.Positions[i] = regulation.PositionRate{
			Name:                   p.PositionName,
			DomesticDailyAllowance: p.DomesticDailyAllowance,
			DomesticAccommodation:  p.DomesticAccommodation,
			DomesticTransportation: p.DomesticTransportation,
			OverseasDailyAllowance: p.OverseasDailyAllowance,
			OverseasAccommodation:  p.OverseasAccommodation,
			OverseasPreparation:    p.OverseasPreparation,
			OverseasTransportation: p.OverseasTransportation,
		}
	}

	return doc
}
