package repository

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/infrastructure/persistence/sqlite"
)

// ApplicationSummaryRepository implements port.ApplicationSummaryRepository.
// Each table is read separately so the driver sees the declared column types.
type ApplicationSummaryRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewApplicationSummaryRepository creates a new application summary repository
func NewApplicationSummaryRepository(db *sqlite.DB, logger *zap.Logger) port.ApplicationSummaryRepository {
	return &ApplicationSummaryRepository{
		db:     db,
		logger: logger,
	}
}

// ListByUser returns trip and expense applications of the user, newest first
func (r *ApplicationSummaryRepository) ListByUser(ctx context.Context, userID int64) ([]*entity.ApplicationSummary, error) {
	sources := []struct {
		kind  string
		query string
	}{
		{entity.ApplicationKindTrip, `SELECT id, title, estimated_cost AS amount, status, created_at, updated_at
			FROM business_trip_applications WHERE user_id = ?`},
		{entity.ApplicationKindExpense, `SELECT id, title, amount, status, created_at, updated_at
			FROM expense_applications WHERE user_id = ?`},
	}

	exec := r.db.Executor(ctx)
	summaries := []*entity.ApplicationSummary{}
	for _, src := range sources {
		var rows []*entity.ApplicationSummary
		if err := exec.SelectContext(ctx, &rows, src.query, userID); err != nil {
			r.logger.Error("Failed to list applications",
				zap.String("kind", src.kind),
				zap.Int64("user_id", userID),
				zap.Error(err))
			return nil, fmt.Errorf("failed to list %s applications: %w", src.kind, err)
		}
		for _, row := range rows {
			row.Kind = src.kind
		}
		summaries = append(summaries, rows...)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

var _ port.ApplicationSummaryRepository = (*ApplicationSummaryRepository)(nil)
