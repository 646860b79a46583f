package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TripApplication is a business trip request (出張申請) with its estimated allowance.
// Status values are the workflow.State strings.
type TripApplication struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Destination string    `db:"destination" json:"destination"`
	Purpose     string    `db:"purpose" json:"purpose"`
	StartDate   time.Time `db:"start_date" json:"start_date"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	IsOverseas  bool      `db:"is_overseas" json:"is_overseas"`

	Days                int             `db:"days" json:"days"`
	DailyAllowanceTotal decimal.Decimal `db:"daily_allowance_total" json:"daily_allowance_total"`
	TransportationTotal decimal.Decimal `db:"transportation_total" json:"transportation_total"`
	AccommodationTotal  decimal.Decimal `db:"accommodation_total" json:"accommodation_total"`
	PreparationTotal    decimal.Decimal `db:"preparation_total" json:"preparation_total"`
	EstimatedCost       decimal.Decimal `db:"estimated_cost" json:"estimated_cost"`

	Status      string     `db:"status" json:"status"`
	SubmittedAt time.Time  `db:"submitted_at" json:"submitted_at"`
	ApprovedAt  *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	ApprovedBy  *int64     `db:"approved_by" json:"approved_by,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// TripTitle is the title given to a trip application for destination
func TripTitle(destination string) string {
	return "出張申請 - " + destination
}

// TripFilter selects trip applications. Zero values mean "any".
type TripFilter struct {
	UserID int64
	Status string
	Limit  int
	Offset int
}
