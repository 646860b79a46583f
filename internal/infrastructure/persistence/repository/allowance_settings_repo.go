package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/infrastructure/persistence/sqlite"
)

// AllowanceSettingsRepository implements port.AllowanceSettingsRepository
type AllowanceSettingsRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewAllowanceSettingsRepository creates a new allowance settings repository
func NewAllowanceSettingsRepository(db *sqlite.DB, logger *zap.Logger) port.AllowanceSettingsRepository {
	return &AllowanceSettingsRepository{
		db:     db,
		logger: logger,
	}
}

// GetByUserID returns the user's settings row, or nil when none is saved
func (r *AllowanceSettingsRepository) GetByUserID(ctx context.Context, userID int64) (*entity.AllowanceSettings, error) {
	query := `
		SELECT id, user_id, schema_version,
			domestic_daily_allowance, overseas_daily_allowance,
			transportation_daily_allowance, accommodation_daily_allowance,
			use_transportation_allowance, use_accommodation_allowance,
			domestic_transportation_daily_allowance, domestic_accommodation_daily_allowance,
			overseas_transportation_daily_allowance, overseas_accommodation_daily_allowance,
			overseas_preparation_allowance,
			domestic_use_transportation, domestic_use_accommodation,
			overseas_use_transportation, overseas_use_accommodation, overseas_use_preparation,
			created_at, updated_at
		FROM allowance_settings
		WHERE user_id = ?
	`

	var settings entity.AllowanceSettings
	if err := r.db.Executor(ctx).GetContext(ctx, &settings, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get allowance settings: %w", err)
	}
	return &settings, nil
}

// Upsert inserts the row or replaces every column of the user's existing one
func (r *AllowanceSettingsRepository) Upsert(ctx context.Context, settings *entity.AllowanceSettings) error {
	query := `
		INSERT INTO allowance_settings (
			user_id, schema_version,
			domestic_daily_allowance, overseas_daily_allowance,
			transportation_daily_allowance, accommodation_daily_allowance,
			use_transportation_allowance, use_accommodation_allowance,
			domestic_transportation_daily_allowance, domestic_accommodation_daily_allowance,
			overseas_transportation_daily_allowance, overseas_accommodation_daily_allowance,
			overseas_preparation_allowance,
			domestic_use_transportation, domestic_use_accommodation,
			overseas_use_transportation, overseas_use_accommodation, overseas_use_preparation,
			created_at, updated_at
		) VALUES (
			:user_id, :schema_version,
			:domestic_daily_allowance, :overseas_daily_allowance,
			:transportation_daily_allowance, :accommodation_daily_allowance,
			:use_transportation_allowance, :use_accommodation_allowance,
			:domestic_transportation_daily_allowance, :domestic_accommodation_daily_allowance,
			:overseas_transportation_daily_allowance, :overseas_accommodation_daily_allowance,
			:overseas_preparation_allowance,
			:domestic_use_transportation, :domestic_use_accommodation,
			:overseas_use_transportation, :overseas_use_accommodation, :overseas_use_preparation,
			:created_at, :updated_at
		)
		ON CONFLICT(user_id) DO UPDATE SET
			schema_version = excluded.schema_version,
			domestic_daily_allowance = excluded.domestic_daily_allowance,
			overseas_daily_allowance = excluded.overseas_daily_allowance,
			transportation_daily_allowance = excluded.transportation_daily_allowance,
			accommodation_daily_allowance = excluded.accommodation_daily_allowance,
			use_transportation_allowance = excluded.use_transportation_allowance,
			use_accommodation_allowance = excluded.use_accommodation_allowance,
			domestic_transportation_daily_allowance = excluded.domestic_transportation_daily_allowance,
			domestic_accommodation_daily_allowance = excluded.domestic_accommodation_daily_allowance,
			overseas_transportation_daily_allowance = excluded.overseas_transportation_daily_allowance,
			overseas_accommodation_daily_allowance = excluded.overseas_accommodation_daily_allowance,
			overseas_preparation_allowance = excluded.overseas_preparation_allowance,
			domestic_use_transportation = excluded.domestic_use_transportation,
			domestic_use_accommodation = excluded.domestic_use_accommodation,
			overseas_use_transportation = excluded.overseas_use_transportation,
			overseas_use_accommodation = excluded.overseas_use_accommodation,
			overseas_use_preparation = excluded.overseas_use_preparation,
			updated_at = excluded.updated_at
	`

	now := time.Now()
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = now
	}
	settings.UpdatedAt = now

	if _, err := sqlx.NamedExecContext(ctx, r.db.Executor(ctx), query, settings); err != nil {
		r.logger.Error("Failed to upsert allowance settings",
			zap.Int64("user_id", settings.UserID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert allowance settings: %w", err)
	}
	return nil
}

var _ port.AllowanceSettingsRepository = (*AllowanceSettingsRepository)(nil)
