package event

// Type identifies the type of domain event
type Type string

const (
	TypeTripSubmitted     Type = "trip.submitted"
	TypeTripStatusChanged Type = "trip.status_changed"
	TypeTripDeleted       Type = "trip.deleted"

	TypeExpenseSubmitted     Type = "expense.submitted"
	TypeExpenseStatusChanged Type = "expense.status_changed"
	TypeExpenseDeleted       Type = "expense.deleted"

	TypeReportCreated Type = "report.created"
)

func (t Type) String() string {
	return string(t)
}

// Types lists every defined event type
func Types() []Type {
	return []Type{
		TypeTripSubmitted, TypeTripStatusChanged, TypeTripDeleted,
		TypeExpenseSubmitted, TypeExpenseStatusChanged, TypeExpenseDeleted,
		TypeReportCreated,
	}
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	for _, known := range Types() {
		if t == known {
			return true
		}
	}
	return false
}
