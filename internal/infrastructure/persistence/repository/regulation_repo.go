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

const regulationColumns = `id, user_id, regulation_name, regulation_type, company_name, company_address,
	representative, distance_threshold, implementation_date, revision,
	is_transportation_real_expense, is_accommodation_real_expense, regulation_text, status,
	created_at, updated_at`

const positionColumns = `id, regulation_id, sort_order, position_name,
	domestic_daily_allowance, domestic_accommodation, domestic_transportation,
	overseas_daily_allowance, overseas_accommodation, overseas_preparation, overseas_transportation`

// RegulationRepository implements port.RegulationRepository.
// Writes touch two tables; callers run them inside a transaction.
type RegulationRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewRegulationRepository creates a new regulation repository
func NewRegulationRepository(db *sqlite.DB, logger *zap.Logger) port.RegulationRepository {
	return &RegulationRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the regulation and its positions
func (r *RegulationRepository) Create(ctx context.Context, reg *entity.Regulation) error {
	query := `
		INSERT INTO travel_expense_regulations (
			user_id, regulation_name, regulation_type, company_name, company_address,
			representative, distance_threshold, implementation_date, revision,
			is_transportation_real_expense, is_accommodation_real_expense, regulation_text, status,
			created_at, updated_at
		) VALUES (
			:user_id, :regulation_name, :regulation_type, :company_name, :company_address,
			:representative, :distance_threshold, :implementation_date, :revision,
			:is_transportation_real_expense, :is_accommodation_real_expense, :regulation_text, :status,
			:created_at, :updated_at
		)
	`

	now := time.Now()
	reg.CreatedAt = now
	reg.UpdatedAt = now

	exec := r.db.Executor(ctx)
	result, err := sqlx.NamedExecContext(ctx, exec, query, reg)
	if err != nil {
		r.logger.Error("Failed to create regulation", zap.Int64("user_id", reg.UserID), zap.Error(err))
		return fmt.Errorf("failed to create regulation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	reg.ID = id

	return r.insertPositions(ctx, exec, reg)
}

// Update rewrites the regulation row and replaces its positions
func (r *RegulationRepository) Update(ctx context.Context, reg *entity.Regulation) error {
	query := `
		UPDATE travel_expense_regulations SET
			regulation_name = :regulation_name,
			regulation_type = :regulation_type,
			company_name = :company_name,
			company_address = :company_address,
			representative = :representative,
			distance_threshold = :distance_threshold,
			implementation_date = :implementation_date,
			revision = :revision,
			is_transportation_real_expense = :is_transportation_real_expense,
			is_accommodation_real_expense = :is_accommodation_real_expense,
			regulation_text = :regulation_text,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id
	`

	reg.UpdatedAt = time.Now()

	exec := r.db.Executor(ctx)
	if _, err := sqlx.NamedExecContext(ctx, exec, query, reg); err != nil {
		r.logger.Error("Failed to update regulation", zap.Int64("id", reg.ID), zap.Error(err))
		return fmt.Errorf("failed to update regulation: %w", err)
	}

	if _, err := exec.ExecContext(ctx, `DELETE FROM regulation_positions WHERE regulation_id = ?`, reg.ID); err != nil {
		return fmt.Errorf("failed to clear regulation positions: %w", err)
	}

	return r.insertPositions(ctx, exec, reg)
}

func (r *RegulationRepository) insertPositions(ctx context.Context, exec sqlite.Executor, reg *entity.Regulation) error {
	query := `
		INSERT INTO regulation_positions (
			regulation_id, sort_order, position_name,
			domestic_daily_allowance, domestic_accommodation, domestic_transportation,
			overseas_daily_allowance, overseas_accommodation, overseas_preparation, overseas_transportation
		) VALUES (
			:regulation_id, :sort_order, :position_name,
			:domestic_daily_allowance, :domestic_accommodation, :domestic_transportation,
			:overseas_daily_allowance, :overseas_accommodation, :overseas_preparation, :overseas_transportation
		)
	`

	for i := range reg.Positions {
		p := &reg.Positions[i]
		p.RegulationID = reg.ID
		p.SortOrder = i

		result, err := sqlx.NamedExecContext(ctx, exec, query, p)
		if err != nil {
			r.logger.Error("Failed to insert regulation position",
				zap.Int64("regulation_id", reg.ID),
				zap.Int("sort_order", i),
				zap.Error(err))
			return fmt.Errorf("failed to insert regulation position: %w", err)
		}
		if id, err := result.LastInsertId(); err == nil {
			p.ID = id
		}
	}
	return nil
}

// GetByID retrieves a regulation with its positions
func (r *RegulationRepository) GetByID(ctx context.Context, id int64) (*entity.Regulation, error) {
	exec := r.db.Executor(ctx)

	var reg entity.Regulation
	query := `SELECT ` + regulationColumns + ` FROM travel_expense_regulations WHERE id = ?`
	if err := exec.GetContext(ctx, &reg, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get regulation: %w", err)
	}

	if err := r.attachPositions(ctx, exec, []*entity.Regulation{&reg}); err != nil {
		return nil, err
	}
	return &reg, nil
}

// ListByUser returns the user's regulations, most recently updated first
func (r *RegulationRepository) ListByUser(ctx context.Context, userID int64) ([]*entity.Regulation, error) {
	exec := r.db.Executor(ctx)

	regs := []*entity.Regulation{}
	query := `SELECT ` + regulationColumns + ` FROM travel_expense_regulations
		WHERE user_id = ? ORDER BY updated_at DESC, id DESC`
	if err := exec.SelectContext(ctx, &regs, query, userID); err != nil {
		r.logger.Error("Failed to list regulations", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list regulations: %w", err)
	}

	if err := r.attachPositions(ctx, exec, regs); err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *RegulationRepository) attachPositions(ctx context.Context, exec sqlite.Executor, regs []*entity.Regulation) error {
	if len(regs) == 0 {
		return nil
	}

	byID := make(map[int64]*entity.Regulation, len(regs))
	ids := make([]int64, len(regs))
	for i, reg := range regs {
		reg.Positions = []entity.RegulationPosition{}
		byID[reg.ID] = reg
		ids[i] = reg.ID
	}

	query, args, err := sqlx.In(`SELECT `+positionColumns+` FROM regulation_positions
		WHERE regulation_id IN (?) ORDER BY regulation_id, sort_order`, ids)
	if err != nil {
		return fmt.Errorf("failed to build positions query: %w", err)
	}

	var positions []entity.RegulationPosition
	if err := exec.SelectContext(ctx, &positions, exec.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to get regulation positions: %w", err)
	}

	for _, p := range positions {
		if reg, ok := byID[p.RegulationID]; ok {
			reg.Positions = append(reg.Positions, p)
		}
	}
	return nil
}

// Delete removes a regulation; its positions go with it
func (r *RegulationRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Executor(ctx).ExecContext(ctx, `DELETE FROM travel_expense_regulations WHERE id = ?`, id); err != nil {
		r.logger.Error("Failed to delete regulation", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete regulation: %w", err)
	}
	return nil
}

var _ port.RegulationRepository = (*RegulationRepository)(nil)
