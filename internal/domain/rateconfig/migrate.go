package rateconfig

import "github.com/shopspring/decimal"

// v1Rates is a fully defaulted V1 configuration.
type v1Rates struct {
	DomesticDailyAllowance       decimal.Decimal
	OverseasDailyAllowance       decimal.Decimal
	TransportationDailyAllowance decimal.Decimal
	AccommodationDailyAllowance  decimal.Decimal
	UseTransportation            bool
	UseAccommodation             bool
}

// migrateV1 maps the flat shape onto V2. The shared transportation and accommodation
// rates and flags apply to both regions. V1 had no preparation allowance, so it stays
// disabled and totals computed from a migrated configuration do not change.
func migrateV1(v v1Rates) Rates {
	return Rates{
		DomesticDailyAllowance:               v.DomesticDailyAllowance,
		OverseasDailyAllowance:               v.OverseasDailyAllowance,
		DomesticTransportationDailyAllowance: v.TransportationDailyAllowance,
		DomesticAccommodationDailyAllowance:  v.AccommodationDailyAllowance,
		OverseasTransportationDailyAllowance: v.TransportationDailyAllowance,
		OverseasAccommodationDailyAllowance:  v.AccommodationDailyAllowance,
		OverseasPreparationAllowance:         decimal.Zero,
		DomesticUseTransportation:            v.UseTransportation,
		DomesticUseAccommodation:             v.UseAccommodation,
		OverseasUseTransportation:            v.UseTransportation,
		OverseasUseAccommodation:             v.UseAccommodation,
		OverseasUsePreparation:               false,
		MigratedFrom:                         V1,
	}
}
