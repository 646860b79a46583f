package port

import (
	"context"

	"github.com/garyjia/travel-expense/internal/domain/entity"
)

// Get* methods return (nil, nil) when the row does not exist.

// UserRepository defines persistence operations for User
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateProfile(ctx context.Context, user *entity.User) error
}

// AllowanceSettingsRepository defines persistence operations for AllowanceSettings
type AllowanceSettingsRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*entity.AllowanceSettings, error)
	// Upsert inserts the row or replaces the user's existing one
	Upsert(ctx context.Context, settings *entity.AllowanceSettings) error
}

// TripRepository defines persistence operations for TripApplication
type TripRepository interface {
	Create(ctx context.Context, trip *entity.TripApplication) error
	GetByID(ctx context.Context, id int64) (*entity.TripApplication, error)
	List(ctx context.Context, filter entity.TripFilter) ([]*entity.TripApplication, error)
	// UpdateStatus writes status, approved_at and approved_by
	UpdateStatus(ctx context.Context, trip *entity.TripApplication) error
	Delete(ctx context.Context, id int64) error
}

// RegulationRepository defines persistence operations for Regulation and its positions
type RegulationRepository interface {
	Create(ctx context.Context, reg *entity.Regulation) error
	// Update rewrites the regulation row and replaces all of its positions
	Update(ctx context.Context, reg *entity.Regulation) error
	GetByID(ctx context.Context, id int64) (*entity.Regulation, error)
	ListByUser(ctx context.Context, userID int64) ([]*entity.Regulation, error)
	Delete(ctx context.Context, id int64) error
}

// NotificationRepository defines persistence operations for Notification
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*entity.Notification, error)
	// MarkRead returns false when the notification does not belong to userID
	MarkRead(ctx context.Context, userID, id int64) (bool, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
}

// ExpenseRepository defines persistence operations for ExpenseApplication and its items
type ExpenseRepository interface {
	// Create inserts the application and its items
	Create(ctx context.Context, app *entity.ExpenseApplication) error
	// GetByID returns the application with its items
	GetByID(ctx context.Context, id int64) (*entity.ExpenseApplication, error)
	// List returns applications without their items
	List(ctx context.Context, filter entity.ExpenseFilter) ([]*entity.ExpenseApplication, error)
	// UpdateStatus writes status, approved_at and approved_by
	UpdateStatus(ctx context.Context, app *entity.ExpenseApplication) error
	Delete(ctx context.Context, id int64) error
	// ListCategories returns the active categories in display order
	ListCategories(ctx context.Context) ([]*entity.ExpenseCategory, error)
}

// TripReportRepository defines persistence operations for TripReport
type TripReportRepository interface {
	// Create returns a domain.ConflictError when the trip already has a report
	Create(ctx context.Context, report *entity.TripReport) error
	GetByID(ctx context.Context, id int64) (*entity.TripReport, error)
	GetByTripID(ctx context.Context, tripID int64) (*entity.TripReport, error)
	ListByUser(ctx context.Context, userID int64) ([]*entity.TripReport, error)
	// Update writes the editable fields and status
	Update(ctx context.Context, report *entity.TripReport) error
	Delete(ctx context.Context, id int64) error
	// ReportedTripIDs returns the IDs of the user's trip applications that have a report
	ReportedTripIDs(ctx context.Context, userID int64) (map[int64]bool, error)
}

// ApplicationSummaryRepository reads trip and expense applications as one list
type ApplicationSummaryRepository interface {
	// ListByUser returns the user's applications of both kinds, newest first
	ListByUser(ctx context.Context, userID int64) ([]*entity.ApplicationSummary, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
