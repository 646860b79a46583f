package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/infrastructure/persistence/sqlite"
)

const tripColumns = `id, user_id, title, description, destination, purpose, start_date, end_date,
	is_overseas, days, daily_allowance_total, transportation_total, accommodation_total,
	preparation_total, estimated_cost, status, submitted_at, approved_at, approved_by,
	created_at, updated_at`

// TripRepository implements port.TripRepository
type TripRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewTripRepository creates a new trip application repository
func NewTripRepository(db *sqlite.DB, logger *zap.Logger) port.TripRepository {
	return &TripRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a trip application and sets its ID
func (r *TripRepository) Create(ctx context.Context, trip *entity.TripApplication) error {
	query := `
		INSERT INTO business_trip_applications (
			user_id, title, description, destination, purpose, start_date, end_date,
			is_overseas, days, daily_allowance_total, transportation_total, accommodation_total,
			preparation_total, estimated_cost, status, submitted_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	trip.CreatedAt = now
	trip.UpdatedAt = now

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		trip.UserID,
		trip.Title,
		trip.Description,
		trip.Destination,
		trip.Purpose,
		trip.StartDate,
		trip.EndDate,
		trip.IsOverseas,
		trip.Days,
		trip.DailyAllowanceTotal,
		trip.TransportationTotal,
		trip.AccommodationTotal,
		trip.PreparationTotal,
		trip.EstimatedCost,
		trip.Status,
		trip.SubmittedAt,
		trip.CreatedAt,
		trip.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create trip application",
			zap.Int64("user_id", trip.UserID),
			zap.Error(err))
		return fmt.Errorf("failed to create trip application: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	trip.ID = id
	return nil
}

// GetByID retrieves a trip application by ID
func (r *TripRepository) GetByID(ctx context.Context, id int64) (*entity.TripApplication, error) {
	query := `SELECT ` + tripColumns + ` FROM business_trip_applications WHERE id = ?`

	var trip entity.TripApplication
	if err := r.db.Executor(ctx).GetContext(ctx, &trip, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip application: %w", err)
	}
	return &trip, nil
}

// List returns trip applications matching filter, newest first
func (r *TripRepository) List(ctx context.Context, filter entity.TripFilter) ([]*entity.TripApplication, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.UserID != 0 {
		conds = append(conds, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}

	query := `SELECT ` + tripColumns + ` FROM business_trip_applications`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY submitted_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	trips := []*entity.TripApplication{}
	if err := r.db.Executor(ctx).SelectContext(ctx, &trips, query, args...); err != nil {
		r.logger.Error("Failed to list trip applications", zap.Error(err))
		return nil, fmt.Errorf("failed to list trip applications: %w", err)
	}
	return trips, nil
}

// UpdateStatus writes status, approved_at and approved_by
func (r *TripRepository) UpdateStatus(ctx context.Context, trip *entity.TripApplication) error {
	query := `
		UPDATE business_trip_applications
		SET status = ?, approved_at = ?, approved_by = ?, updated_at = ?
		WHERE id = ?
	`

	trip.UpdatedAt = time.Now()
	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		trip.Status,
		trip.ApprovedAt,
		trip.ApprovedBy,
		trip.UpdatedAt,
		trip.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update trip status",
			zap.Int64("id", trip.ID),
			zap.String("status", trip.Status),
			zap.Error(err))
		return fmt.Errorf("failed to update trip status: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("trip application %d not found", trip.ID)
	}
	return nil
}

// Delete removes a trip application
func (r *TripRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Executor(ctx).ExecContext(ctx, `DELETE FROM business_trip_applications WHERE id = ?`, id); err != nil {
		r.logger.Error("Failed to delete trip application", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete trip application: %w", err)
	}
	return nil
}

var _ port.TripRepository = (*TripRepository)(nil)
