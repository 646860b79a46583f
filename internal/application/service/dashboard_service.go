package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/workflow"
)

// DashboardService summarises a user's trip and expense applications
type DashboardService interface {
	// Applications lists both kinds of application newest first, optionally by status
	Applications(ctx context.Context, userID int64, status string) ([]*entity.ApplicationSummary, error)
	// Stats computes the dashboard figures for the current month
	Stats(ctx context.Context, userID int64) (*entity.DashboardStats, error)
}

type dashboardServiceImpl struct {
	summaryRepo port.ApplicationSummaryRepository
	now         func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(summaryRepo port.ApplicationSummaryRepository) DashboardService {
	return &dashboardServiceImpl{
		summaryRepo: summaryRepo,
		now:         time.Now,
	}
}

func (s *dashboardServiceImpl) Applications(ctx context.Context, userID int64, status string) ([]*entity.ApplicationSummary, error) {
	if status != "" && !workflow.State(status).IsValid() {
		return nil, domain.ValidationError{Field: "status", Msg: "unknown status"}
	}

	all, err := s.summaryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if status == "" {
		return all, nil
	}

	filtered := make([]*entity.ApplicationSummary, 0, len(all))
	for _, app := range all {
		if app.Status == status {
			filtered = append(filtered, app)
		}
	}
	return filtered, nil
}

func (s *dashboardServiceImpl) Stats(ctx context.Context, userID int64) (*entity.DashboardStats, error) {
	apps, err := s.summaryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	now := s.now().In(time.Local)
	stats := &entity.DashboardStats{
		Month:           now.Format("2006-01"),
		MonthlyTripCost: decimal.Zero,
		MonthlyExpenses: decimal.Zero,
		ApprovedAmount:  decimal.Zero,
	}

	for _, app := range apps {
		created := app.CreatedAt.In(time.Local)
		if created.Year() == now.Year() && created.Month() == now.Month() {
			switch app.Kind {
			case entity.ApplicationKindTrip:
				stats.MonthlyTripCost = stats.MonthlyTripCost.Add(app.Amount)
			case entity.ApplicationKindExpense:
				stats.MonthlyExpenses = stats.MonthlyExpenses.Add(app.Amount)
			}
		}

		switch workflow.State(app.Status) {
		case workflow.StatePending:
			stats.PendingCount++
		case workflow.StateApproved:
			stats.ApprovedCount++
			stats.ApprovedAmount = stats.ApprovedAmount.Add(app.Amount)
		}
	}
	stats.MonthlyTotal = stats.MonthlyTripCost.Add(stats.MonthlyExpenses)

	return stats, nil
}
