package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garyjia/travel-expense/internal/application/dispatcher"
	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/event"
	"github.com/garyjia/travel-expense/internal/domain/workflow"
)

// Messages shown when an expense form is incomplete
const (
	MsgNoExpenseItems         = "経費項目を入力してください"
	MsgIncompleteExpenseItems = "経費項目の入力が不完全です。カテゴリ、日付、金額を確認してください。"
)

// ExpenseItemInput is one line of a new expense application
type ExpenseItemInput struct {
	CategoryCode string
	Date         time.Time
	Amount       decimal.Decimal
	Description  string
	ReceiptURL   string
}

// SubmitExpenseInput is a new expense application. An empty title becomes 経費申請.
type SubmitExpenseInput struct {
	Title       string
	Description string
	Items       []ExpenseItemInput
}

// ExpenseService manages expense applications
type ExpenseService interface {
	Categories(ctx context.Context) ([]*entity.ExpenseCategory, error)
	Submit(ctx context.Context, userID int64, in SubmitExpenseInput) (*entity.ExpenseApplication, error)
	Get(ctx context.Context, actor *entity.User, id int64) (*entity.ExpenseApplication, error)
	// List returns the actor's own applications; approvers may list everyone's
	List(ctx context.Context, actor *entity.User, filter entity.ExpenseFilter) ([]*entity.ExpenseApplication, error)
	Approve(ctx context.Context, actor *entity.User, id int64) (*entity.ExpenseApplication, error)
	Reject(ctx context.Context, actor *entity.User, id int64) (*entity.ExpenseApplication, error)
	// Cancel is open to the applicant while pending; approved applications need an administrator
	Cancel(ctx context.Context, actor *entity.User, id int64) (*entity.ExpenseApplication, error)
	Delete(ctx context.Context, actor *entity.User, id int64) error
	AllowedActions(ctx context.Context, actor *entity.User, app *entity.ExpenseApplication) []workflow.Trigger
}

type expenseServiceImpl struct {
	expenseRepo port.ExpenseRepository
	lifecycle   *workflow.TripLifecycle
	dispatcher  dispatcher.Dispatcher
	txManager   port.TransactionManager
	logger      Logger
	now         func() time.Time
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo port.ExpenseRepository,
	lifecycle *workflow.TripLifecycle,
	d dispatcher.Dispatcher,
	txManager port.TransactionManager,
	logger Logger,
) ExpenseService {
	return &expenseServiceImpl{
		expenseRepo: expenseRepo,
		lifecycle:   lifecycle,
		dispatcher:  d,
		txManager:   txManager,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *expenseServiceImpl) Categories(ctx context.Context) ([]*entity.ExpenseCategory, error) {
	categories, err := s.expenseRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expense categories: %w", err)
	}
	return categories, nil
}

func (s *expenseServiceImpl) Submit(ctx context.Context, userID int64, in SubmitExpenseInput) (*entity.ExpenseApplication, error) {
	if len(in.Items) == 0 {
		return nil, domain.ValidationError{Field: "items", Msg: MsgNoExpenseItems}
	}
	for _, item := range in.Items {
		if strings.TrimSpace(item.CategoryCode) == "" || item.Date.IsZero() || !item.Amount.IsPositive() {
			return nil, domain.ValidationError{Field: "items", Msg: MsgIncompleteExpenseItems}
		}
	}

	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.Code] = true
	}

	items := make([]entity.ExpenseItem, len(in.Items))
	for i, item := range in.Items {
		code := strings.TrimSpace(item.CategoryCode)
		if !known[code] {
			return nil, domain.ValidationError{Field: fmt.Sprintf("items[%d].category_code", i), Msg: "unknown category " + code}
		}
		items[i] = entity.ExpenseItem{
			CategoryCode: code,
			Date:         item.Date,
			Amount:       item.Amount,
			Description:  strings.TrimSpace(item.Description),
			ReceiptURL:   strings.TrimSpace(item.ReceiptURL),
		}
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = entity.DefaultExpenseTitle
	}

	app := &entity.ExpenseApplication{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Amount:      entity.ExpenseTotal(items),
		Currency:    entity.DefaultCurrency,
		Category:    entity.DefaultExpenseCategory,
		Status:      string(workflow.StatePending),
		SubmittedAt: s.now(),
		Items:       items,
	}

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return s.expenseRepo.Create(ctx, app)
	})
	if err != nil {
		s.logger.Error("Failed to create expense application", "user_id", userID, "error", err)
		return nil, fmt.Errorf("create expense application: %w", err)
	}

	s.logger.Info("Expense application submitted",
		"expense_id", app.ID,
		"user_id", userID,
		"items", len(app.Items),
		"amount", app.Amount.String(),
	)
	publishEvent(ctx, s.dispatcher, s.logger, event.NewEvent(event.TypeExpenseSubmitted, app.ID, userID, userID, map[string]interface{}{
		event.KeyTitle: app.Title,
	}))

	return app, nil
}

func (s *expenseServiceImpl) Get(ctx context.Context, actor *entity.User, id int64) (*entity.ExpenseApplication, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.UserID != actor.ID && !actor.CanApprove() {
		return nil, domain.NotFoundError{Resource: "expense application", ID: id}
	}
	return app, nil
}

func (s *expenseServiceImpl) List(ctx context.Context, actor *entity.User, filter entity.ExpenseFilter) ([]*entity.ExpenseApplication, error) {
	if !actor.CanApprove() {
		filter.UserID = actor.ID
	}
	if filter.Status != "" && !workflow.State(filter.Status).IsValid() {
		return nil, domain.ValidationError{Field: "status", Msg: "unknown status"}
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}

	apps, err := s.expenseRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list expense applications: %w", err)
	}
	return apps, nil
}

func (s *expenseServiceImpl) Approve(ctx context.Context, actor *entity.User, id int64) (*entity.ExpenseApplication, error) {
	if !actor.CanApprove() {
		return nil, domain.ForbiddenError{Msg: "only managers can approve applications"}
	}
	return s.transition(ctx, actor, id, workflow.TriggerApprove)
}

func (s *expenseServiceImpl) Reject(ctx context.Context, actor *entity.User, id int64) (*entity.ExpenseApplication, error) {
	if !actor.CanApprove() {
		return nil, domain.ForbiddenError{Msg: "only managers can reject applications"}
	}
	return s.transition(ctx, actor, id, workflow.TriggerReject)
}

func (s *expenseServiceImpl) Cancel(ctx context.Context, actor *entity.User, id int64) (*entity.ExpenseApplication, error) {
	return s.transition(ctx, actor, id, workflow.TriggerCancel)
}

func (s *expenseServiceImpl) transition(ctx context.Context, actor *entity.User, id int64, trigger workflow.Trigger) (*entity.ExpenseApplication, error) {
	var (
		app  *entity.ExpenseApplication
		from workflow.State
	)

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		if app, err = s.load(ctx, id); err != nil {
			return err
		}
		if !actorMayFire(actor, app.UserID, trigger) {
			return domain.ForbiddenError{Msg: "only the applicant can cancel an application"}
		}

		from = workflow.State(app.Status)
		machine := s.lifecycle.Machine(from)
		if err := machine.Fire(guardContext(ctx, actor, time.Time{}), trigger); err != nil {
			return domain.ConflictError{Resource: "expense application", Msg: err.Error(), Err: err}
		}

		app.Status = string(machine.State())
		if machine.State() == workflow.StateApproved {
			now := s.now()
			approver := actor.ID
			app.ApprovedAt = &now
			app.ApprovedBy = &approver
		}

		return s.expenseRepo.UpdateStatus(ctx, app)
	})
	if err != nil {
		if !isClientError(err) {
			s.logger.Error("Failed to change expense status", "expense_id", id, "trigger", trigger, "error", err)
		}
		return nil, err
	}

	s.logger.Info("Expense status changed", "expense_id", id, "from", from, "to", app.Status, "actor_id", actor.ID)
	publishEvent(ctx, s.dispatcher, s.logger, event.NewEvent(event.TypeExpenseStatusChanged, app.ID, app.UserID, actor.ID, map[string]interface{}{
		event.KeyTitle:      app.Title,
		event.KeyFromStatus: string(from),
		event.KeyToStatus:   app.Status,
	}))

	return app, nil
}

func (s *expenseServiceImpl) Delete(ctx context.Context, actor *entity.User, id int64) error {
	app, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if app.UserID != actor.ID {
		return domain.ForbiddenError{Msg: "only the applicant can delete an application"}
	}
	if workflow.State(app.Status) == workflow.StateApproved {
		return domain.ConflictError{Resource: "expense application", Msg: "cancel an approved application before deleting it"}
	}

	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete expense application", "expense_id", id, "error", err)
		return fmt.Errorf("delete expense application: %w", err)
	}

	s.logger.Info("Expense application deleted", "expense_id", id, "user_id", actor.ID)
	publishEvent(ctx, s.dispatcher, s.logger, event.NewEvent(event.TypeExpenseDeleted, id, app.UserID, actor.ID, map[string]interface{}{
		event.KeyTitle: app.Title,
	}))
	return nil
}

func (s *expenseServiceImpl) AllowedActions(ctx context.Context, actor *entity.User, app *entity.ExpenseApplication) []workflow.Trigger {
	return allowedActions(ctx, s.lifecycle, actor, app.UserID, app.Status, time.Time{})
}

func (s *expenseServiceImpl) load(ctx context.Context, id int64) (*entity.ExpenseApplication, error) {
	app, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get expense application: %w", err)
	}
	if app == nil {
		return nil, domain.NotFoundError{Resource: "expense application", ID: id}
	}
	return app, nil
}
