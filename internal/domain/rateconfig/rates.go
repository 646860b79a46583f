// Package rateconfig holds the per-user allowance rate configuration, its versioned
// default tables and the migration from older settings shapes to the current one.
package rateconfig

import (
	"github.com/shopspring/decimal"
)

// SchemaVersion tags the shape a stored configuration was written in.
type SchemaVersion int

const (
	// V1 is the flat shape: one transportation and one accommodation rate for both regions.
	V1 SchemaVersion = 1
	// V2 splits every rate per region and adds the overseas preparation allowance.
	V2 SchemaVersion = 2

	Current = V2
)

// IsKnown reports whether v has a default table.
func (v SchemaVersion) IsKnown() bool {
	return v == V1 || v == V2
}

// Rates is the canonical (V2) configuration consumed by the allowance calculator.
type Rates struct {
	DomesticDailyAllowance decimal.Decimal `json:"domestic_daily_allowance"`
	OverseasDailyAllowance decimal.Decimal `json:"overseas_daily_allowance"`

	DomesticTransportationDailyAllowance decimal.Decimal `json:"domestic_transportation_daily_allowance"`
	DomesticAccommodationDailyAllowance  decimal.Decimal `json:"domestic_accommodation_daily_allowance"`
	OverseasTransportationDailyAllowance decimal.Decimal `json:"overseas_transportation_daily_allowance"`
	OverseasAccommodationDailyAllowance  decimal.Decimal `json:"overseas_accommodation_daily_allowance"`
	OverseasPreparationAllowance         decimal.Decimal `json:"overseas_preparation_allowance"`

	DomesticUseTransportation bool `json:"domestic_use_transportation"`
	DomesticUseAccommodation  bool `json:"domestic_use_accommodation"`
	OverseasUseTransportation bool `json:"overseas_use_transportation"`
	OverseasUseAccommodation  bool `json:"overseas_use_accommodation"`
	OverseasUsePreparation    bool `json:"overseas_use_preparation"`

	// MigratedFrom is the schema version the values were read in, before migration.
	MigratedFrom SchemaVersion `json:"migrated_from"`
}

// RegionRates is the slice of Rates that applies to a single trip.
type RegionRates struct {
	DailyAllowance    decimal.Decimal
	Transportation    decimal.Decimal
	Accommodation     decimal.Decimal
	Preparation       decimal.Decimal
	UseTransportation bool
	UseAccommodation  bool
	UsePreparation    bool
}

// ForRegion selects the domestic or overseas rates. Preparation never applies to domestic trips.
func (r Rates) ForRegion(overseas bool) RegionRates {
	if overseas {
		return RegionRates{
			DailyAllowance:    r.OverseasDailyAllowance,
			Transportation:    r.OverseasTransportationDailyAllowance,
			Accommodation:     r.OverseasAccommodationDailyAllowance,
			Preparation:       r.OverseasPreparationAllowance,
			UseTransportation: r.OverseasUseTransportation,
			UseAccommodation:  r.OverseasUseAccommodation,
			UsePreparation:    r.OverseasUsePreparation,
		}
	}
	return RegionRates{
		DailyAllowance:    r.DomesticDailyAllowance,
		Transportation:    r.DomesticTransportationDailyAllowance,
		Accommodation:     r.DomesticAccommodationDailyAllowance,
		UseTransportation: r.DomesticUseTransportation,
		UseAccommodation:  r.DomesticUseAccommodation,
	}
}

// Partial is a configuration as stored or submitted: any field may be absent (nil).
// V1 rows populate the flat fields, V2 rows the split ones.
type Partial struct {
	Version SchemaVersion `json:"version"`

	DomesticDailyAllowance *decimal.Decimal `json:"domestic_daily_allowance,omitempty"`
	OverseasDailyAllowance *decimal.Decimal `json:"overseas_daily_allowance,omitempty"`

	// V1
	TransportationDailyAllowance *decimal.Decimal `json:"transportation_daily_allowance,omitempty"`
	AccommodationDailyAllowance  *decimal.Decimal `json:"accommodation_daily_allowance,omitempty"`
	UseTransportationAllowance   *bool            `json:"use_transportation_allowance,omitempty"`
	UseAccommodationAllowance    *bool            `json:"use_accommodation_allowance,omitempty"`

	// V2
	DomesticTransportationDailyAllowance *decimal.Decimal `json:"domestic_transportation_daily_allowance,omitempty"`
	DomesticAccommodationDailyAllowance  *decimal.Decimal `json:"domestic_accommodation_daily_allowance,omitempty"`
	OverseasTransportationDailyAllowance *decimal.Decimal `json:"overseas_transportation_daily_allowance,omitempty"`
	OverseasAccommodationDailyAllowance  *decimal.Decimal `json:"overseas_accommodation_daily_allowance,omitempty"`
	OverseasPreparationAllowance         *decimal.Decimal `json:"overseas_preparation_allowance,omitempty"`
	DomesticUseTransportation            *bool            `json:"domestic_use_transportation,omitempty"`
	DomesticUseAccommodation             *bool            `json:"domestic_use_accommodation,omitempty"`
	OverseasUseTransportation            *bool            `json:"overseas_use_transportation,omitempty"`
	OverseasUseAccommodation             *bool            `json:"overseas_use_accommodation,omitempty"`
	OverseasUsePreparation               *bool            `json:"overseas_use_preparation,omitempty"`
}

// InferVersion returns the schema version p is written in. An unset or unknown version
// means V1 when only flat fields are present, Current otherwise.
func InferVersion(p Partial) SchemaVersion {
	if p.Version.IsKnown() {
		return p.Version
	}
	if len(p.flatFields()) > 0 && len(p.splitFields()) == 0 {
		return V1
	}
	return Current
}

// flatFields lists the present V1-only fields by their wire names.
func (p Partial) flatFields() []string {
	var present []string
	if p.TransportationDailyAllowance != nil {
		present = append(present, "transportation_daily_allowance")
	}
	if p.AccommodationDailyAllowance != nil {
		present = append(present, "accommodation_daily_allowance")
	}
	if p.UseTransportationAllowance != nil {
		present = append(present, "use_transportation_allowance")
	}
	if p.UseAccommodationAllowance != nil {
		present = append(present, "use_accommodation_allowance")
	}
	return present
}

// splitFields lists the present V2-only fields by their wire names.
func (p Partial) splitFields() []string {
	var present []string
	for _, f := range []struct {
		name    string
		present bool
	}{
		{"domestic_transportation_daily_allowance", p.DomesticTransportationDailyAllowance != nil},
		{"domestic_accommodation_daily_allowance", p.DomesticAccommodationDailyAllowance != nil},
		{"overseas_transportation_daily_allowance", p.OverseasTransportationDailyAllowance != nil},
		{"overseas_accommodation_daily_allowance", p.OverseasAccommodationDailyAllowance != nil},
		{"overseas_preparation_allowance", p.OverseasPreparationAllowance != nil},
		{"domestic_use_transportation", p.DomesticUseTransportation != nil},
		{"domestic_use_accommodation", p.DomesticUseAccommodation != nil},
		{"overseas_use_transportation", p.OverseasUseTransportation != nil},
		{"overseas_use_accommodation", p.OverseasUseAccommodation != nil},
		{"overseas_use_preparation", p.OverseasUsePreparation != nil},
	} {
		if f.present {
			present = append(present, f.name)
		}
	}
	return present
}

// ToPartial returns r as a fully populated V2 Partial.
func (r Rates) ToPartial() Partial {
	return Partial{
		Version:                              V2,
		DomesticDailyAllowance:               decimalPtr(r.DomesticDailyAllowance),
		OverseasDailyAllowance:               decimalPtr(r.OverseasDailyAllowance),
		DomesticTransportationDailyAllowance: decimalPtr(r.DomesticTransportationDailyAllowance),
		DomesticAccommodationDailyAllowance:  decimalPtr(r.DomesticAccommodationDailyAllowance),
		OverseasTransportationDailyAllowance: decimalPtr(r.OverseasTransportationDailyAllowance),
		OverseasAccommodationDailyAllowance:  decimalPtr(r.OverseasAccommodationDailyAllowance),
		OverseasPreparationAllowance:         decimalPtr(r.OverseasPreparationAllowance),
		DomesticUseTransportation:            boolPtr(r.DomesticUseTransportation),
		DomesticUseAccommodation:             boolPtr(r.DomesticUseAccommodation),
		OverseasUseTransportation:            boolPtr(r.OverseasUseTransportation),
		OverseasUseAccommodation:             boolPtr(r.OverseasUseAccommodation),
		OverseasUsePreparation:               boolPtr(r.OverseasUsePreparation),
	}
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func boolPtr(b bool) *bool { return &b }
