// Package allowance computes the travel allowance breakdown of a business trip.
package allowance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/garyjia/travel-expense/internal/domain"
	"github.com/garyjia/travel-expense/internal/domain/rateconfig"
)

const day = 24 * time.Hour

// Request is the input of a single calculation. A zero date means the date is not set yet.
type Request struct {
	StartDate  time.Time
	EndDate    time.Time
	IsOverseas bool
	Rates      rateconfig.Rates
}

// Ready reports whether both dates are set.
func (r Request) Ready() bool {
	return !r.StartDate.IsZero() && !r.EndDate.IsZero()
}

// Breakdown is the computed allowance of a trip.
type Breakdown struct {
	Days                int             `json:"days"`
	DailyAllowanceTotal decimal.Decimal `json:"daily_allowance_total"`
	TransportationTotal decimal.Decimal `json:"transportation_total"`
	AccommodationTotal  decimal.Decimal `json:"accommodation_total"`
	PreparationTotal    decimal.Decimal `json:"preparation_total"`
	GrandTotal          decimal.Decimal `json:"grand_total"`
}

// Calculate returns the breakdown for req.
//
// It returns (nil, nil) while either date is unset, and a domain.ValidationError when the
// end date is before the start date.
func Calculate(req Request) (*Breakdown, error) {
	if !req.Ready() {
		return nil, nil
	}

	days, err := CountDays(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	rates := req.Rates.ForRegion(req.IsOverseas)
	n := decimal.NewFromInt(int64(days))

	b := &Breakdown{
		Days:                days,
		DailyAllowanceTotal: n.Mul(rates.DailyAllowance),
		TransportationTotal: decimal.Zero,
		AccommodationTotal:  decimal.Zero,
		PreparationTotal:    decimal.Zero,
	}

	if rates.UseTransportation {
		b.TransportationTotal = n.Mul(rates.Transportation)
	}

	// nights stayed
	if rates.UseAccommodation && days > 1 {
		b.AccommodationTotal = decimal.NewFromInt(int64(days - 1)).Mul(rates.Accommodation)
	}

	// once per trip
	if req.IsOverseas && rates.UsePreparation {
		b.PreparationTotal = rates.Preparation
	}

	b.GrandTotal = b.DailyAllowanceTotal.
		Add(b.TransportationTotal).
		Add(b.AccommodationTotal).
		Add(b.PreparationTotal)

	return b, nil
}

// CountDays returns the inclusive number of calendar days between start and end.
// Each date is reduced to its calendar day in its own location, so times of day and
// daylight saving shifts do not change the count.
func CountDays(start, end time.Time) (int, error) {
	s := calendarDate(start)
	e := calendarDate(end)

	if e.Before(s) {
		return 0, domain.ValidationError{Field: "end_date", Msg: "must not be before start_date"}
	}

	return int(e.Sub(s)/day) + 1, nil
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
