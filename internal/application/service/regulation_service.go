package service

import (
	"context"
	"fmt"
	"time"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/regulation"
)

// RegulationService manages a user's travel expense regulations
type RegulationService interface {
	// Template returns the document a new regulation starts from
	Template() regulation.Document
	// Preview renders doc without saving it
	Preview(doc regulation.Document) string

	Create(ctx context.Context, userID int64, doc regulation.Document) (*entity.Regulation, error)
	Update(ctx context.Context, userID, id int64, doc regulation.Document) (*entity.Regulation, error)
	Get(ctx context.Context, userID, id int64) (*entity.Regulation, error)
	List(ctx context.Context, userID int64) ([]*entity.Regulation, error)
	Delete(ctx context.Context, userID, id int64) error
}

type regulationServiceImpl struct {
	regulationRepo port.RegulationRepository
	txManager      port.TransactionManager
	logger         Logger
	now            func() time.Time
}

// NewRegulationService creates a new RegulationService
func NewRegulationService(regulationRepo port.RegulationRepository, txManager port.TransactionManager, logger Logger) RegulationService {
	return &regulationServiceImpl{
		regulationRepo: regulationRepo,
		txManager:      txManager,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *regulationServiceImpl) Template() regulation.Document {
	return regulation.DefaultDocument(s.now())
}

func (s *regulationServiceImpl) Preview(doc regulation.Document) string {
	return regulation.GenerateText(doc)
}

func (s *regulationServiceImpl) Create(ctx context.Context, userID int64, doc regulation.Document) (*entity.Regulation, error) {
	if err := regulation.Validate(doc); err != nil {
		return nil, err
	}

	reg := entity.NewRegulation(userID, doc)
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return s.regulationRepo.Create(ctx, reg)
	})
	if err != nil {
		s.logger.Error("Failed to create regulation", "user_id", userID, "error", err)
		return nil, fmt.Errorf("create regulation: %w", err)
	}

	s.logger.Info("Regulation created", "regulation_id", reg.ID, "user_id", userID, "positions", len(reg.Positions))
	return reg, nil
}

func (s *regulationServiceImpl) Update(ctx context.Context, userID, id int64, doc regulation.Document) (*entity.Regulation, error) {
	if err := regulation.Validate(doc); err != nil {
		return nil, err
	}

	var reg *entity.Regulation
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.Get(ctx, userID, id)
		if err != nil {
			return err
		}

		reg = entity.NewRegulation(userID, doc)
		reg.ID = existing.ID
		reg.CreatedAt = existing.CreatedAt
		return s.regulationRepo.Update(ctx, reg)
	})
	if err != nil {
		if !isClientError(err) {
			s.logger.Error("Failed to update regulation", "regulation_id", id, "error", err)
		}
		return nil, err
	}

	s.logger.Info("Regulation updated", "regulation_id", id, "revision", reg.Revision)
	return reg, nil
}

// Get returns the regulation only to its owner; others get NotFoundError.
func (s *regulationServiceImpl) Get(ctx context.Context, userID, id int64) (*entity.Regulation, error) {
	reg, err := s.regulationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get regulation: %w", err)
	}
	if reg == nil || reg.UserID != userID {
		return nil, domain.NotFoundError{Resource: "regulation", ID: id}
	}
	return reg, nil
}

func (s *regulationServiceImpl) List(ctx context.Context, userID int64) ([]*entity.Regulation, error) {
	regs, err := s.regulationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list regulations: %w", err)
	}
	return regs, nil
}

func (s *regulationServiceImpl) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.regulationRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete regulation", "regulation_id", id, "error", err)
		return fmt.Errorf("delete regulation: %w", err)
	}
	s.logger.Info("Regulation deleted", "regulation_id", id, "user_id", userID)
	return nil
}
