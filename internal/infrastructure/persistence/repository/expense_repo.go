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
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/infrastructure/persistence/sqlite"
)

const expenseColumns = `id, user_id, title, description, amount, currency, category, status,
	submitted_at, approved_at, approved_by, created_at, updated_at`

const expenseItemColumns = `id, expense_application_id, sort_order, category_code, date, amount,
	description, receipt_url`

// ExpenseRepository implements port.ExpenseRepository.
// Create touches two tables; callers run it inside a transaction.
type ExpenseRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewExpenseRepository creates a new expense application repository
func NewExpenseRepository(db *sqlite.DB, logger *zap.Logger) port.ExpenseRepository {
	return &ExpenseRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the application and its items
func (r *ExpenseRepository) Create(ctx context.Context, app *entity.ExpenseApplication) error {
	query := `
		INSERT INTO expense_applications (
			user_id, title, description, amount, currency, category, status,
			submitted_at, created_at, updated_at
		) VALUES (
			:user_id, :title, :description, :amount, :currency, :category, :status,
			:submitted_at, :created_at, :updated_at
		)
	`

	now := time.Now()
	app.CreatedAt = now
	app.UpdatedAt = now

	exec := r.db.Executor(ctx)
	result, err := sqlx.NamedExecContext(ctx, exec, query, app)
	if err != nil {
		r.logger.Error("Failed to create expense application", zap.Int64("user_id", app.UserID), zap.Error(err))
		return fmt.Errorf("failed to create expense application: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	app.ID = id

	itemQuery := `
		INSERT INTO expense_application_items (
			expense_application_id, sort_order, category_code, date, amount, description, receipt_url
		) VALUES (
			:expense_application_id, :sort_order, :category_code, :date, :amount, :description, :receipt_url
		)
	`
	for i := range app.Items {
		item := &app.Items[i]
		item.ApplicationID = app.ID
		item.SortOrder = i

		result, err := sqlx.NamedExecContext(ctx, exec, itemQuery, item)
		if err != nil {
			r.logger.Error("Failed to insert expense item",
				zap.Int64("expense_application_id", app.ID),
				zap.Int("sort_order", i),
				zap.Error(err))
			return fmt.Errorf("failed to insert expense item: %w", err)
		}
		if id, err := result.LastInsertId(); err == nil {
			item.ID = id
		}
	}
	return nil
}

// GetByID retrieves an expense application with its items
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*entity.ExpenseApplication, error) {
	exec := r.db.Executor(ctx)

	var app entity.ExpenseApplication
	query := `SELECT ` + expenseColumns + ` FROM expense_applications WHERE id = ?`
	if err := exec.GetContext(ctx, &app, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense application: %w", err)
	}

	app.Items = []entity.ExpenseItem{}
	itemQuery := `SELECT ` + expenseItemColumns + ` FROM expense_application_items
		WHERE expense_application_id = ? ORDER BY sort_order`
	if err := exec.SelectContext(ctx, &app.Items, itemQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get expense items: %w", err)
	}
	return &app, nil
}

// List returns expense applications matching filter, newest first
func (r *ExpenseRepository) List(ctx context.Context, filter entity.ExpenseFilter) ([]*entity.ExpenseApplication, error) {
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

	query := `SELECT ` + expenseColumns + ` FROM expense_applications`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY submitted_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	apps := []*entity.ExpenseApplication{}
	if err := r.db.Executor(ctx).SelectContext(ctx, &apps, query, args...); err != nil {
		r.logger.Error("Failed to list expense applications", zap.Error(err))
		return nil, fmt.Errorf("failed to list expense applications: %w", err)
	}
	return apps, nil
}

// UpdateStatus writes status, approved_at and approved_by
func (r *ExpenseRepository) UpdateStatus(ctx context.Context, app *entity.ExpenseApplication) error {
	query := `
		UPDATE expense_applications
		SET status = ?, approved_at = ?, approved_by = ?, updated_at = ?
		WHERE id = ?
	`

	app.UpdatedAt = time.Now()
	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		app.Status,
		app.ApprovedAt,
		app.ApprovedBy,
		app.UpdatedAt,
		app.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update expense status",
			zap.Int64("id", app.ID),
			zap.String("status", app.Status),
			zap.Error(err))
		return fmt.Errorf("failed to update expense status: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("expense application %d not found", app.ID)
	}
	return nil
}

// Delete removes an expense application; its items go with it
func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Executor(ctx).ExecContext(ctx, `DELETE FROM expense_applications WHERE id = ?`, id); err != nil {
		r.logger.Error("Failed to delete expense application", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete expense application: %w", err)
	}
	return nil
}

// ListCategories returns the active expense categories
func (r *ExpenseRepository) ListCategories(ctx context.Context) ([]*entity.ExpenseCategory, error) {
	query := `SELECT id, code, name, description, sort_order, is_active, created_at, updated_at
		FROM expense_categories WHERE is_active = 1 ORDER BY sort_order, id`

	categories := []*entity.ExpenseCategory{}
	if err := r.db.Executor(ctx).SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list expense categories: %w", err)
	}
	return categories, nil
}

var _ port.ExpenseRepository = (*ExpenseRepository)(nil)
