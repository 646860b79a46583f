package entity

import "time"

// Trip report status constants
const (
	ReportStatusDraft     = "draft"
	ReportStatusSubmitted = "submitted"
)

// TripReport is the report (出張報告書) written after an approved business trip.
// A trip application has at most one report.
type TripReport struct {
	ID                int64     `db:"id" json:"id"`
	UserID            int64     `db:"user_id" json:"user_id"`
	TripApplicationID int64     `db:"business_trip_application_id" json:"business_trip_application_id"`
	ReportTitle       string    `db:"report_title" json:"report_title"`
	Destination       string    `db:"destination" json:"destination"`
	StartDate         time.Time `db:"start_date" json:"start_date"`
	EndDate           time.Time `db:"end_date" json:"end_date"`
	Purpose           string    `db:"purpose" json:"purpose"`
	Content           string    `db:"content" json:"content"`
	Status            string    `db:"status" json:"status"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// ReportTitle is the default title of the report on a trip to destination
func ReportTitle(destination string) string {
	return destination + "出張報告書"
}

// NewTripReport drafts a report pre-filled from trip
func NewTripReport(trip *TripApplication) *TripReport {
	return &TripReport{
		UserID:            trip.UserID,
		TripApplicationID: trip.ID,
		ReportTitle:       ReportTitle(trip.Destination),
		Destination:       trip.Destination,
		StartDate:         trip.StartDate,
		EndDate:           trip.EndDate,
		Purpose:           trip.Purpose,
		Status:            ReportStatusDraft,
	}
}
