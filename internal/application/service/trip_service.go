package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/travel-expense/internal/application/dispatcher"
	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain"
	"github.com/garyjia/travel-expense/internal/domain/allowance"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/event"
	"github.com/garyjia/travel-expense/internal/domain/workflow"
)

// MsgRequiredFields is the message shown when a trip form is incomplete
const MsgRequiredFields = "必須項目を入力してください"

// SubmitTripInput is a new business trip application
type SubmitTripInput struct {
	Destination string
	Purpose     string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	IsOverseas  bool
}

// TripService manages business trip applications
type TripService interface {
	Submit(ctx context.Context, userID int64, in SubmitTripInput) (*entity.TripApplication, error)
	Get(ctx context.Context, actor *entity.User, id int64) (*entity.TripApplication, error)
	// List returns the actor's own applications; approvers may list everyone's
	List(ctx context.Context, actor *entity.User, filter entity.TripFilter) ([]*entity.TripApplication, error)
	Approve(ctx context.Context, actor *entity.User, id int64) (*entity.TripApplication, error)
	Reject(ctx context.Context, actor *entity.User, id int64) (*entity.TripApplication, error)
	// Cancel is open to the applicant, and to administrators for approved trips that have started
	Cancel(ctx context.Context, actor *entity.User, id int64) (*entity.TripApplication, error)
	Delete(ctx context.Context, actor *entity.User, id int64) error
	// AllowedActions lists the status changes actor can make to trip now
	AllowedActions(ctx context.Context, actor *entity.User, trip *entity.TripApplication) []workflow.Trigger
}

type tripServiceImpl struct {
	tripRepo   port.TripRepository
	allowances AllowanceService
	lifecycle  *workflow.TripLifecycle
	dispatcher dispatcher.Dispatcher
	txManager  port.TransactionManager
	logger     Logger
	now        func() time.Time
}

// NewTripService creates a new TripService
func NewTripService(
	tripRepo port.TripRepository,
	allowances AllowanceService,
	lifecycle *workflow.TripLifecycle,
	d dispatcher.Dispatcher,
	txManager port.TransactionManager,
	logger Logger,
) TripService {
	return &tripServiceImpl{
		tripRepo:   tripRepo,
		allowances: allowances,
		lifecycle:  lifecycle,
		dispatcher: d,
		txManager:  txManager,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *tripServiceImpl) Submit(ctx context.Context, userID int64, in SubmitTripInput) (*entity.TripApplication, error) {
	in.Destination = strings.TrimSpace(in.Destination)
	in.Purpose = strings.TrimSpace(in.Purpose)
	if in.Destination == "" || in.Purpose == "" || in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, domain.ValidationError{Msg: MsgRequiredFields}
	}

	rates, err := s.allowances.GetRates(ctx, userID)
	if err != nil {
		return nil, err
	}

	breakdown, err := allowance.Calculate(allowance.Request{
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		IsOverseas: in.IsOverseas,
		Rates:      rates,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	trip := &entity.TripApplication{
		UserID:              userID,
		Title:               entity.TripTitle(in.Destination),
		Description:         in.Description,
		Destination:         in.Destination,
		Purpose:             in.Purpose,
		StartDate:           in.StartDate,
		EndDate:             in.EndDate,
		IsOverseas:          in.IsOverseas,
		Days:                breakdown.Days,
		DailyAllowanceTotal: breakdown.DailyAllowanceTotal,
		TransportationTotal: breakdown.TransportationTotal,
		AccommodationTotal:  breakdown.AccommodationTotal,
		PreparationTotal:    breakdown.PreparationTotal,
		EstimatedCost:       breakdown.GrandTotal,
		Status:              string(workflow.StatePending),
		SubmittedAt:         now,
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		s.logger.Error("Failed to create trip application", "user_id", userID, "error", err)
		return nil, fmt.Errorf("create trip application: %w", err)
	}

	s.logger.Info("Trip application submitted",
		"trip_id", trip.ID,
		"user_id", userID,
		"days", trip.Days,
		"estimated_cost", trip.EstimatedCost.String(),
	)
	s.publish(ctx, event.NewEvent(event.TypeTripSubmitted, trip.ID, userID, userID, map[string]interface{}{
		event.KeyTitle: trip.Title,
	}))

	return trip, nil
}

func (s *tripServiceImpl) Get(ctx context.Context, actor *entity.User, id int64) (*entity.TripApplication, error) {
	trip, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip.UserID != actor.ID && !actor.CanApprove() {
		return nil, domain.NotFoundError{Resource: "trip application", ID: id}
	}
	return trip, nil
}

func (s *tripServiceImpl) List(ctx context.Context, actor *entity.User, filter entity.TripFilter) ([]*entity.TripApplication, error) {
	if !actor.CanApprove() {
		filter.UserID = actor.ID
	}
	if filter.Status != "" && !workflow.State(filter.Status).IsValid() {
		return nil, domain.ValidationError{Field: "status", Msg: "unknown status"}
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}

	trips, err := s.tripRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list trip applications: %w", err)
	}
	return trips, nil
}

func (s *tripServiceImpl) Approve(ctx context.Context, actor *entity.User, id int64) (*entity.TripApplication, error) {
	if !actor.CanApprove() {
		return nil, domain.ForbiddenError{Msg: "only managers can approve applications"}
	}
	return s.transition(ctx, actor, id, workflow.TriggerApprove)
}

func (s *tripServiceImpl) Reject(ctx context.Context, actor *entity.User, id int64) (*entity.TripApplication, error) {
	if !actor.CanApprove() {
		return nil, domain.ForbiddenError{Msg: "only managers can reject applications"}
	}
	return s.transition(ctx, actor, id, workflow.TriggerReject)
}

func (s *tripServiceImpl) Cancel(ctx context.Context, actor *entity.User, id int64) (*entity.TripApplication, error) {
	return s.transition(ctx, actor, id, workflow.TriggerCancel)
}

func (s *tripServiceImpl) transition(ctx context.Context, actor *entity.User, id int64, trigger workflow.Trigger) (*entity.TripApplication, error) {
	var (
		trip *entity.TripApplication
		from workflow.State
	)

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		if trip, err = s.load(ctx, id); err != nil {
			return err
		}
		if !actorMayFire(actor, trip.UserID, trigger) {
			return domain.ForbiddenError{Msg: "only the applicant can cancel an application"}
		}

		from = workflow.State(trip.Status)
		machine := s.lifecycle.Machine(from)
		if err := machine.Fire(guardContext(ctx, actor, trip.StartDate), trigger); err != nil {
			return domain.ConflictError{Resource: "trip application", Msg: err.Error(), Err: err}
		}

		trip.Status = string(machine.State())
		if machine.State() == workflow.StateApproved {
			now := s.now()
			approver := actor.ID
			trip.ApprovedAt = &now
			trip.ApprovedBy = &approver
		}

		return s.tripRepo.UpdateStatus(ctx, trip)
	})
	if err != nil {
		if !isClientError(err) {
			s.logger.Error("Failed to change trip status", "trip_id", id, "trigger", trigger, "error", err)
		}
		return nil, err
	}

	s.logger.Info("Trip status changed", "trip_id", id, "from", from, "to", trip.Status, "actor_id", actor.ID)
	s.publish(ctx, event.NewEvent(event.TypeTripStatusChanged, trip.ID, trip.UserID, actor.ID, map[string]interface{}{
		event.KeyTitle:      trip.Title,
		event.KeyFromStatus: string(from),
		event.KeyToStatus:   trip.Status,
	}))

	return trip, nil
}

func (s *tripServiceImpl) Delete(ctx context.Context, actor *entity.User, id int64) error {
	trip, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if trip.UserID != actor.ID {
		return domain.ForbiddenError{Msg: "only the applicant can delete an application"}
	}
	if workflow.State(trip.Status) == workflow.StateApproved {
		return domain.ConflictError{Resource: "trip application", Msg: "cancel an approved application before deleting it"}
	}

	if err := s.tripRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete trip application", "trip_id", id, "error", err)
		return fmt.Errorf("delete trip application: %w", err)
	}

	s.logger.Info("Trip application deleted", "trip_id", id, "user_id", actor.ID)
	s.publish(ctx, event.NewEvent(event.TypeTripDeleted, id, trip.UserID, actor.ID, map[string]interface{}{
		event.KeyTitle: trip.Title,
	}))
	return nil
}

func (s *tripServiceImpl) AllowedActions(ctx context.Context, actor *entity.User, trip *entity.TripApplication) []workflow.Trigger {
	return allowedActions(ctx, s.lifecycle, actor, trip.UserID, trip.Status, trip.StartDate)
}

func (s *tripServiceImpl) load(ctx context.Context, id int64) (*entity.TripApplication, error) {
	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get trip application: %w", err)
	}
	if trip == nil {
		return nil, domain.NotFoundError{Resource: "trip application", ID: id}
	}
	return trip, nil
}

func (s *tripServiceImpl) publish(ctx context.Context, evt *event.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, evt)
}

// publishEvent hands evt to d. Handler failures do not undo the change that raised
// the event.
func publishEvent(ctx context.Context, d dispatcher.Dispatcher, logger Logger, evt *event.Event) {
	if err := d.Dispatch(ctx, evt); err != nil && !errors.Is(err, dispatcher.ErrClosed) {
		logger.Error("Event handlers failed", "event_type", evt.Type, "subject_id", evt.SubjectID, "error", err)
	}
}

func isClientError(err error) bool {
	return domain.IsValidation(err) || domain.IsNotFound(err) || domain.IsForbidden(err) || domain.IsConflict(err)
}
