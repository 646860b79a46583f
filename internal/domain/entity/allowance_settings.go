package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garyjia/travel-expense/internal/domain/rateconfig"
)

// AllowanceSettings is the stored allowance configuration of one user.
// Rows written before schema version 2 only carry the flat columns.
type AllowanceSettings struct {
	ID            int64 `db:"id"`
	UserID        int64 `db:"user_id"`
	SchemaVersion int   `db:"schema_version"`

	DomesticDailyAllowance decimal.NullDecimal `db:"domestic_daily_allowance"`
	OverseasDailyAllowance decimal.NullDecimal `db:"overseas_daily_allowance"`

	TransportationDailyAllowance decimal.NullDecimal `db:"transportation_daily_allowance"`
	AccommodationDailyAllowance  decimal.NullDecimal `db:"accommodation_daily_allowance"`
	UseTransportationAllowance   sql.NullBool        `db:"use_transportation_allowance"`
	UseAccommodationAllowance    sql.NullBool        `db:"use_accommodation_allowance"`

	DomesticTransportationDailyAllowance decimal.NullDecimal `db:"domestic_transportation_daily_allowance"`
	DomesticAccommodationDailyAllowance  decimal.NullDecimal `db:"domestic_accommodation_daily_allowance"`
	OverseasTransportationDailyAllowance decimal.NullDecimal `db:"overseas_transportation_daily_allowance"`
	OverseasAccommodationDailyAllowance  decimal.NullDecimal `db:"overseas_accommodation_daily_allowance"`
	OverseasPreparationAllowance         decimal.NullDecimal `db:"overseas_preparation_allowance"`
	DomesticUseTransportation            sql.NullBool        `db:"domestic_use_transportation"`
	DomesticUseAccommodation             sql.NullBool        `db:"domestic_use_accommodation"`
	OverseasUseTransportation            sql.NullBool        `db:"overseas_use_transportation"`
	OverseasUseAccommodation             sql.NullBool        `db:"overseas_use_accommodation"`
	OverseasUsePreparation               sql.NullBool        `db:"overseas_use_preparation"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ToPartial reads the row in the shape of its schema version; NULL columns are absent.
func (s *AllowanceSettings) ToPartial() rateconfig.Partial {
	version := rateconfig.SchemaVersion(s.SchemaVersion)
	p := rateconfig.Partial{
		Version:                version,
		DomesticDailyAllowance: nullDecimal(s.DomesticDailyAllowance),
		OverseasDailyAllowance: nullDecimal(s.OverseasDailyAllowance),
	}

	if version == rateconfig.V1 {
		p.TransportationDailyAllowance = nullDecimal(s.TransportationDailyAllowance)
		p.AccommodationDailyAllowance = nullDecimal(s.AccommodationDailyAllowance)
		p.UseTransportationAllowance = nullBool(s.UseTransportationAllowance)
		p.UseAccommodationAllowance = nullBool(s.UseAccommodationAllowance)
		return p
	}

	p.DomesticTransportationDailyAllowance = nullDecimal(s.DomesticTransportationDailyAllowance)
	p.DomesticAccommodationDailyAllowance = nullDecimal(s.DomesticAccommodationDailyAllowance)
	p.OverseasTransportationDailyAllowance = nullDecimal(s.OverseasTransportationDailyAllowance)
	p.OverseasAccommodationDailyAllowance = nullDecimal(s.OverseasAccommodationDailyAllowance)
	p.OverseasPreparationAllowance = nullDecimal(s.OverseasPreparationAllowance)
	p.DomesticUseTransportation = nullBool(s.DomesticUseTransportation)
	p.DomesticUseAccommodation = nullBool(s.DomesticUseAccommodation)
	p.OverseasUseTransportation = nullBool(s.OverseasUseTransportation)
	p.OverseasUseAccommodation = nullBool(s.OverseasUseAccommodation)
	p.OverseasUsePreparation = nullBool(s.OverseasUsePreparation)
	return p
}

// NewAllowanceSettings builds a current-version row from canonical rates.
// The flat columns are left NULL.
func NewAllowanceSettings(userID int64, r rateconfig.Rates) *AllowanceSettings {
	return &AllowanceSettings{
		UserID:                               userID,
		SchemaVersion:                        int(rateconfig.Current),
		DomesticDailyAllowance:               decimal.NewNullDecimal(r.DomesticDailyAllowance),
		OverseasDailyAllowance:               decimal.NewNullDecimal(r.OverseasDailyAllowance),
		DomesticTransportationDailyAllowance: decimal.NewNullDecimal(r.DomesticTransportationDailyAllowance),
		DomesticAccommodationDailyAllowance:  decimal.NewNullDecimal(r.DomesticAccommodationDailyAllowance),
		OverseasTransportationDailyAllowance: decimal.NewNullDecimal(r.OverseasTransportationDailyAllowance),
		OverseasAccommodationDailyAllowance:  decimal.NewNullDecimal(r.OverseasAccommodationDailyAllowance),
		OverseasPreparationAllowance:         decimal.NewNullDecimal(r.OverseasPreparationAllowance),
		DomesticUseTransportation:            sql.NullBool{Bool: r.DomesticUseTransportation, Valid: true},
		DomesticUseAccommodation:             sql.NullBool{Bool: r.DomesticUseAccommodation, Valid: true},
		OverseasUseTransportation:            sql.NullBool{Bool: r.OverseasUseTransportation, Valid: true},
		OverseasUseAccommodation:             sql.NullBool{Bool: r.OverseasUseAccommodation, Valid: true},
		OverseasUsePreparation:               sql.NullBool{Bool: r.OverseasUsePreparation, Valid: true},
	}
}

func nullDecimal(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := v.Decimal
	return &d
}

func nullBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}
