package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/infrastructure/persistence/sqlite"
)

const reportColumns = `id, user_id, business_trip_application_id, report_title, destination,
	start_date, end_date, purpose, content, status, created_at, updated_at`

// TripReportRepository implements port.TripReportRepository
type TripReportRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewTripReportRepository creates a new trip report repository
func NewTripReportRepository(db *sqlite.DB, logger *zap.Logger) port.TripReportRepository {
	return &TripReportRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a report and sets its ID
func (r *TripReportRepository) Create(ctx context.Context, report *entity.TripReport) error {
	query := `
		INSERT INTO business_trip_reports (
			user_id, business_trip_application_id, report_title, destination,
			start_date, end_date, purpose, content, status, created_at, updated_at
		) VALUES (
			:user_id, :business_trip_application_id, :report_title, :destination,
			:start_date, :end_date, :purpose, :content, :status, :created_at, :updated_at
		)
	`

	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now

	result, err := sqlx.NamedExecContext(ctx, r.db.Executor(ctx), query, report)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ConflictError{Resource: "trip report", Msg: "the trip application already has a report", Err: err}
		}
		r.logger.Error("Failed to create trip report",
			zap.Int64("trip_id", report.TripApplicationID),
			zap.Error(err))
		return fmt.Errorf("failed to create trip report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	report.ID = id
	return nil
}

// GetByID retrieves a report by ID
func (r *TripReportRepository) GetByID(ctx context.Context, id int64) (*entity.TripReport, error) {
	return r.getOne(ctx, `SELECT `+reportColumns+` FROM business_trip_reports WHERE id = ?`, id)
}

// GetByTripID retrieves the report written for a trip application
func (r *TripReportRepository) GetByTripID(ctx context.Context, tripID int64) (*entity.TripReport, error) {
	return r.getOne(ctx, `SELECT `+reportColumns+` FROM business_trip_reports WHERE business_trip_application_id = ?`, tripID)
}

func (r *TripReportRepository) getOne(ctx context.Context, query string, arg int64) (*entity.TripReport, error) {
	var report entity.TripReport
	if err := r.db.Executor(ctx).GetContext(ctx, &report, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip report: %w", err)
	}
	return &report, nil
}

// ListByUser returns the user's reports, newest first
func (r *TripReportRepository) ListByUser(ctx context.Context, userID int64) ([]*entity.TripReport, error) {
	query := `SELECT ` + reportColumns + ` FROM business_trip_reports
		WHERE user_id = ? ORDER BY created_at DESC, id DESC`

	reports := []*entity.TripReport{}
	if err := r.db.Executor(ctx).SelectContext(ctx, &reports, query, userID); err != nil {
		r.logger.Error("Failed to list trip reports", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list trip reports: %w", err)
	}
	return reports, nil
}

// Update writes the editable fields and status
func (r *TripReportRepository) Update(ctx context.Context, report *entity.TripReport) error {
	query := `
		UPDATE business_trip_reports SET
			report_title = :report_title,
			destination = :destination,
			start_date = :start_date,
			end_date = :end_date,
			purpose = :purpose,
			content = :content,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id
	`

	report.UpdatedAt = time.Now()
	if _, err := sqlx.NamedExecContext(ctx, r.db.Executor(ctx), query, report); err != nil {
		r.logger.Error("Failed to update trip report", zap.Int64("id", report.ID), zap.Error(err))
		return fmt.Errorf("failed to update trip report: %w", err)
	}
	return nil
}

// Delete removes a report
func (r *TripReportRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Executor(ctx).ExecContext(ctx, `DELETE FROM business_trip_reports WHERE id = ?`, id); err != nil {
		r.logger.Error("Failed to delete trip report", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete trip report: %w", err)
	}
	return nil
}

// ReportedTripIDs returns the trip application IDs the user has written reports for
func (r *TripReportRepository) ReportedTripIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	var ids []int64
	query := `SELECT business_trip_application_id FROM business_trip_reports WHERE user_id = ?`
	if err := r.db.Executor(ctx).SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list reported trips: %w", err)
	}

	reported := make(map[int64]bool, len(ids))
	for _, id := range ids {
		reported[id] = true
	}
	return reported, nil
}

// isUniqueViolation matches the driver's message for a UNIQUE constraint failure
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ port.TripReportRepository = (*TripReportRepository)(nil)
