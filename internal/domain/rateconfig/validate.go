package rateconfig

import (
	"github.com/shopspring/decimal"

	"github.com/garyjia/travel-expense/internal/domain"
)

// Validate rejects negative amounts. It is a separate step from WithDefaults, which
// accepts any stored value.
func Validate(r Rates) error {
	amounts := []struct {
		field string
		value decimal.Decimal
	}{
		{"domestic_daily_allowance", r.DomesticDailyAllowance},
		{"overseas_daily_allowance", r.OverseasDailyAllowance},
		{"domestic_transportation_daily_allowance", r.DomesticTransportationDailyAllowance},
		{"domestic_accommodation_daily_allowance", r.DomesticAccommodationDailyAllowance},
		{"overseas_transportation_daily_allowance", r.OverseasTransportationDailyAllowance},
		{"overseas_accommodation_daily_allowance", r.OverseasAccommodationDailyAllowance},
		{"overseas_preparation_allowance", r.OverseasPreparationAllowance},
	}

	for _, a := range amounts {
		if a.value.IsNegative() {
			return domain.ValidationError{Field: a.field, Msg: "must not be negative"}
		}
	}
	return nil
}

// CheckShape rejects submitted fields that the resolved schema version would ignore,
// such as flat V1 rates sent alongside split V2 ones.
func CheckShape(p Partial) error {
	switch InferVersion(p) {
	case V1:
		if split := p.splitFields(); len(split) > 0 {
			return domain.ValidationError{Field: split[0], Msg: "is not part of the version 1 settings"}
		}
	default:
		if flat := p.flatFields(); len(flat) > 0 {
			return domain.ValidationError{Field: flat[0], Msg: "is a version 1 field; send the domestic_/overseas_ fields instead"}
		}
	}
	return nil
}
