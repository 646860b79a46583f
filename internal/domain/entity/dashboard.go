package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Application kinds listed together on the dashboard
const (
	ApplicationKindTrip    = "business_trip"
	ApplicationKindExpense = "expense"
)

// ApplicationSummary is one row of the combined application list
type ApplicationSummary struct {
	Kind      string          `db:"kind" json:"kind"`
	ID        int64           `db:"id" json:"id"`
	Title     string          `db:"title" json:"title"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Status    string          `db:"status" json:"status"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// DashboardStats are the figures on the dashboard cards. Monthly sums cover the
// applications created in Month, whatever their status.
type DashboardStats struct {
	Month           string          `json:"month"`
	MonthlyTripCost decimal.Decimal `json:"monthly_trip_cost"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	MonthlyTotal    decimal.Decimal `json:"monthly_total"`
	PendingCount    int             `json:"pending_count"`
	ApprovedCount   int             `json:"approved_count"`
	ApprovedAmount  decimal.Decimal `json:"approved_amount"`
}
