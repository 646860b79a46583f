package service

import (
	"context"
	"fmt"
	"time"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain/allowance"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/rateconfig"
)

// PreviewInput is a live calculation request. Rates, when set, replaces the stored
// configuration (unsaved form values).
type PreviewInput struct {
	StartDate  time.Time
	EndDate    time.Time
	IsOverseas bool
	Rates      *rateconfig.Partial
}

// AllowanceService manages per-user allowance rates and calculations
type AllowanceService interface {
	// GetRates returns the user's rates, or the current defaults when nothing is saved
	GetRates(ctx context.Context, userID int64) (rateconfig.Rates, error)
	SaveRates(ctx context.Context, userID int64, p rateconfig.Partial) (rateconfig.Rates, error)
	// Preview returns nil while a date is missing
	Preview(ctx context.Context, userID int64, in PreviewInput) (*allowance.Breakdown, error)
}

type allowanceServiceImpl struct {
	settingsRepo port.AllowanceSettingsRepository
	logger       Logger
}

// NewAllowanceService creates a new AllowanceService
func NewAllowanceService(settingsRepo port.AllowanceSettingsRepository, logger Logger) AllowanceService {
	return &allowanceServiceImpl{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

func (s *allowanceServiceImpl) GetRates(ctx context.Context, userID int64) (rateconfig.Rates, error) {
	row, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load allowance settings", "user_id", userID, "error", err)
		return rateconfig.Rates{}, fmt.Errorf("load allowance settings: %w", err)
	}
	if row == nil {
		return rateconfig.Defaults(), nil
	}
	return rateconfig.WithDefaults(row.ToPartial()), nil
}

func (s *allowanceServiceImpl) SaveRates(ctx context.Context, userID int64, p rateconfig.Partial) (rateconfig.Rates, error) {
	if err := rateconfig.CheckShape(p); err != nil {
		return rateconfig.Rates{}, err
	}
	rates := rateconfig.WithDefaults(p)
	if err := rateconfig.Validate(rates); err != nil {
		return rateconfig.Rates{}, err
	}

	if err := s.settingsRepo.Upsert(ctx, entity.NewAllowanceSettings(userID, rates)); err != nil {
		s.logger.Error("Failed to save allowance settings", "user_id", userID, "error", err)
		return rateconfig.Rates{}, fmt.Errorf("save allowance settings: %w", err)
	}

	s.logger.Info("Allowance settings saved", "user_id", userID, "migrated_from", rates.MigratedFrom)
	return rates, nil
}

func (s *allowanceServiceImpl) Preview(ctx context.Context, userID int64, in PreviewInput) (*allowance.Breakdown, error) {
	var rates rateconfig.Rates
	if in.Rates != nil {
		if err := rateconfig.CheckShape(*in.Rates); err != nil {
			return nil, err
		}
		rates = rateconfig.WithDefaults(*in.Rates)
		if err := rateconfig.Validate(rates); err != nil {
			return nil, err
		}
	} else {
		var err error
		if rates, err = s.GetRates(ctx, userID); err != nil {
			return nil, err
		}
	}

	return allowance.Calculate(allowance.Request{
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		IsOverseas: in.IsOverseas,
		Rates:      rates,
	})
}
