package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense application defaults
const (
	DefaultExpenseTitle    = "経費申請"
	DefaultExpenseCategory = "MISCELLANEOUS"
	DefaultCurrency        = "JPY"
)

// ExpenseCategory is an entry of the expense category master (経費カテゴリ)
type ExpenseCategory struct {
	ID          int64     `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	SortOrder   int       `db:"sort_order" json:"sort_order"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ExpenseApplication is a reimbursement request (経費申請) made of one or more items.
// Amount is the sum of the item amounts. Status values are the workflow.State strings.
type ExpenseApplication struct {
	ID          int64           `db:"id" json:"id"`
	UserID      int64           `db:"user_id" json:"user_id"`
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"description"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Currency    string          `db:"currency" json:"currency"`
	Category    string          `db:"category" json:"category"`
	Status      string          `db:"status" json:"status"`
	SubmittedAt time.Time       `db:"submitted_at" json:"submitted_at"`
	ApprovedAt  *time.Time      `db:"approved_at" json:"approved_at,omitempty"`
	ApprovedBy  *int64          `db:"approved_by" json:"approved_by,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`

	Items []ExpenseItem `db:"-" json:"items"`
}

// ExpenseItem is one dated, categorised line of an expense application
type ExpenseItem struct {
	ID            int64           `db:"id" json:"id"`
	ApplicationID int64           `db:"expense_application_id" json:"-"`
	SortOrder     int             `db:"sort_order" json:"-"`
	CategoryCode  string          `db:"category_code" json:"category_code"`
	Date          time.Time       `db:"date" json:"date"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Description   string          `db:"description" json:"description"`
	ReceiptURL    string          `db:"receipt_url" json:"receipt_url,omitempty"`
}

// ExpenseTotal sums the item amounts
func ExpenseTotal(items []ExpenseItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// ExpenseFilter selects expense applications. Zero values mean "any".
type ExpenseFilter struct {
	UserID int64
	Status string
	Limit  int
	Offset int
}
