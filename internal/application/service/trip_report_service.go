package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/travel-expense/internal/application/dispatcher"
	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/event"
	"github.com/garyjia/travel-expense/internal/domain/workflow"
)

// UpdateTripReportInput holds the editable fields of a draft report. An empty title
// falls back to the default for the trip's destination.
type UpdateTripReportInput struct {
	Title   string
	Purpose string
	Content string
}

// TripReportService manages the reports written after approved business trips.
// Reports are private to their author.
type TripReportService interface {
	// Create drafts the report for an approved trip of the actor
	Create(ctx context.Context, actor *entity.User, tripID int64) (*entity.TripReport, error)
	// Candidates lists the actor's approved trips that have no report yet
	Candidates(ctx context.Context, actor *entity.User) ([]*entity.TripApplication, error)
	List(ctx context.Context, actor *entity.User) ([]*entity.TripReport, error)
	Get(ctx context.Context, actor *entity.User, id int64) (*entity.TripReport, error)
	Update(ctx context.Context, actor *entity.User, id int64, in UpdateTripReportInput) (*entity.TripReport, error)
	Submit(ctx context.Context, actor *entity.User, id int64) (*entity.TripReport, error)
	Delete(ctx context.Context, actor *entity.User, id int64) error
}

type tripReportServiceImpl struct {
	reportRepo port.TripReportRepository
	tripRepo   port.TripRepository
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewTripReportService creates a new TripReportService
func NewTripReportService(
	reportRepo port.TripReportRepository,
	tripRepo port.TripRepository,
	d dispatcher.Dispatcher,
	logger Logger,
) TripReportService {
	return &tripReportServiceImpl{
		reportRepo: reportRepo,
		tripRepo:   tripRepo,
		dispatcher: d,
		logger:     logger,
	}
}

func (s *tripReportServiceImpl) Create(ctx context.Context, actor *entity.User, tripID int64) (*entity.TripReport, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("get trip application: %w", err)
	}
	if trip == nil || trip.UserID != actor.ID {
		return nil, domain.NotFoundError{Resource: "trip application", ID: tripID}
	}
	if workflow.State(trip.Status) != workflow.StateApproved {
		return nil, domain.ConflictError{Resource: "trip report", Msg: "reports can only be written for approved trips"}
	}

	report := entity.NewTripReport(trip)
	if err := s.reportRepo.Create(ctx, report); err != nil {
		if isClientError(err) {
			return nil, err
		}
		s.logger.Error("Failed to create trip report", "trip_id", tripID, "error", err)
		return nil, fmt.Errorf("create trip report: %w", err)
	}

	s.logger.Info("Trip report created", "report_id", report.ID, "trip_id", tripID, "user_id", actor.ID)
	publishEvent(ctx, s.dispatcher, s.logger, event.NewEvent(event.TypeReportCreated, report.ID, actor.ID, actor.ID, map[string]interface{}{
		event.KeyTitle: report.ReportTitle,
	}))

	return report, nil
}

func (s *tripReportServiceImpl) Candidates(ctx context.Context, actor *entity.User) ([]*entity.TripApplication, error) {
	reported, err := s.reportRepo.ReportedTripIDs(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list reported trips: %w", err)
	}

	trips, err := s.tripRepo.List(ctx, entity.TripFilter{
		UserID: actor.ID,
		Status: string(workflow.StateApproved),
		Limit:  200,
	})
	if err != nil {
		return nil, fmt.Errorf("list approved trips: %w", err)
	}

	candidates := make([]*entity.TripApplication, 0, len(trips))
	for _, trip := range trips {
		if !reported[trip.ID] {
			candidates = append(candidates, trip)
		}
	}
	return candidates, nil
}

func (s *tripReportServiceImpl) List(ctx context.Context, actor *entity.User) ([]*entity.TripReport, error) {
	reports, err := s.reportRepo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list trip reports: %w", err)
	}
	return reports, nil
}

func (s *tripReportServiceImpl) Get(ctx context.Context, actor *entity.User, id int64) (*entity.TripReport, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get trip report: %w", err)
	}
	if report == nil || report.UserID != actor.ID {
		return nil, domain.NotFoundError{Resource: "trip report", ID: id}
	}
	return report, nil
}

func (s *tripReportServiceImpl) Update(ctx context.Context, actor *entity.User, id int64, in UpdateTripReportInput) (*entity.TripReport, error) {
	report, err := s.draft(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	report.ReportTitle = strings.TrimSpace(in.Title)
	if report.ReportTitle == "" {
		report.ReportTitle = entity.ReportTitle(report.Destination)
	}
	report.Purpose = strings.TrimSpace(in.Purpose)
	report.Content = in.Content

	if err := s.reportRepo.Update(ctx, report); err != nil {
		s.logger.Error("Failed to update trip report", "report_id", id, "error", err)
		return nil, fmt.Errorf("update trip report: %w", err)
	}
	return report, nil
}

func (s *tripReportServiceImpl) Submit(ctx context.Context, actor *entity.User, id int64) (*entity.TripReport, error) {
	report, err := s.draft(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(report.Content) == "" {
		return nil, domain.ValidationError{Field: "content", Msg: "write the report before submitting it"}
	}

	report.Status = entity.ReportStatusSubmitted
	if err := s.reportRepo.Update(ctx, report); err != nil {
		s.logger.Error("Failed to submit trip report", "report_id", id, "error", err)
		return nil, fmt.Errorf("submit trip report: %w", err)
	}

	s.logger.Info("Trip report submitted", "report_id", id, "user_id", actor.ID)
	return report, nil
}

func (s *tripReportServiceImpl) Delete(ctx context.Context, actor *entity.User, id int64) error {
	if _, err := s.draft(ctx, actor, id); err != nil {
		return err
	}
	if err := s.reportRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete trip report", "report_id", id, "error", err)
		return fmt.Errorf("delete trip report: %w", err)
	}
	s.logger.Info("Trip report deleted", "report_id", id, "user_id", actor.ID)
	return nil
}

// draft loads a report of actor that is still editable
func (s *tripReportServiceImpl) draft(ctx context.Context, actor *entity.User, id int64) (*entity.TripReport, error) {
	report, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if report.Status != entity.ReportStatusDraft {
		return nil, domain.ConflictError{Resource: "trip report", Msg: "submitted reports cannot be changed"}
	}
	return report, nil
}
