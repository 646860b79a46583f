package service

import (
	"context"
	"fmt"

	"github.com/garyjia/travel-expense/internal/application/dispatcher"
	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/event"
	"github.com/garyjia/travel-expense/internal/domain/workflow"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

// NotificationService writes applicant notifications for application events and serves the list
type NotificationService interface {
	// Subscribe registers the event handlers on d
	Subscribe(d dispatcher.Dispatcher)
	// Unsubscribe removes the handlers registered by Subscribe
	Unsubscribe(d dispatcher.Dispatcher)

	List(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, userID, id int64) error
	UnreadCount(ctx context.Context, userID int64) (int, error)
}

type notificationServiceImpl struct {
	notificationRepo port.NotificationRepository
	logger           Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo port.NotificationRepository, logger Logger) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

type subscription struct {
	eventType event.Type
	name      string
	handler   dispatcher.Handler
}

func (s *notificationServiceImpl) subscriptions() []subscription {
	return []subscription{
		{event.TypeTripSubmitted, "notification.trip_submitted", s.onTripSubmitted},
		{event.TypeTripStatusChanged, "notification.trip_status_changed", s.onStatusChanged},
		{event.TypeTripDeleted, "notification.trip_deleted", s.onDeleted},
		{event.TypeExpenseSubmitted, "notification.expense_submitted", s.onExpenseSubmitted},
		{event.TypeExpenseStatusChanged, "notification.expense_status_changed", s.onStatusChanged},
		{event.TypeExpenseDeleted, "notification.expense_deleted", s.onDeleted},
		{event.TypeReportCreated, "notification.report_created", s.onReportCreated},
	}
}

func (s *notificationServiceImpl) Subscribe(d dispatcher.Dispatcher) {
	for _, sub := range s.subscriptions() {
		d.SubscribeNamed(sub.eventType, sub.name, sub.handler)
	}
}

func (s *notificationServiceImpl) Unsubscribe(d dispatcher.Dispatcher) {
	for _, sub := range s.subscriptions() {
		d.Unsubscribe(sub.eventType, sub.name)
	}
}

func (s *notificationServiceImpl) onTripSubmitted(ctx context.Context, evt *event.Event) error {
	return s.create(ctx, &entity.Notification{
		UserID:  evt.UserID,
		Title:   "出張申請が作成されました",
		Message: fmt.Sprintf("%sの申請が正常に作成されました。", evt.GetPayloadString(event.KeyTitle)),
		Type:    entity.NotificationTypeSuccess,
	})
}

func (s *notificationServiceImpl) onStatusChanged(ctx context.Context, evt *event.Event) error {
	to := workflow.State(evt.GetPayloadString(event.KeyToStatus))

	kind := entity.NotificationTypeInfo
	switch to {
	case workflow.StateApproved:
		kind = entity.NotificationTypeSuccess
	case workflow.StateRejected:
		kind = entity.NotificationTypeError
	}

	return s.create(ctx, &entity.Notification{
		UserID:  evt.UserID,
		Title:   "申請ステータスが更新されました",
		Message: fmt.Sprintf("申請が%sに更新されました。", to.Label()),
		Type:    kind,
	})
}

func (s *notificationServiceImpl) onExpenseSubmitted(ctx context.Context, evt *event.Event) error {
	return s.create(ctx, &entity.Notification{
		UserID:  evt.UserID,
		Title:   "経費申請が送信されました",
		Message: fmt.Sprintf("%sが正常に送信されました。", evt.GetPayloadString(event.KeyTitle)),
		Type:    entity.NotificationTypeSuccess,
	})
}

func (s *notificationServiceImpl) onReportCreated(ctx context.Context, evt *event.Event) error {
	return s.create(ctx, &entity.Notification{
		UserID:  evt.UserID,
		Title:   "出張報告書が作成されました",
		Message: fmt.Sprintf("%sが正常に作成されました。", evt.GetPayloadString(event.KeyTitle)),
		Type:    entity.NotificationTypeSuccess,
	})
}

func (s *notificationServiceImpl) onDeleted(ctx context.Context, evt *event.Event) error {
	return s.create(ctx, &entity.Notification{
		UserID:  evt.UserID,
		Title:   "申請が削除されました",
		Message: "申請が正常に削除されました。",
		Type:    entity.NotificationTypeInfo,
	})
}

func (s *notificationServiceImpl) create(ctx context.Context, n *entity.Notification) error {
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Error("Failed to create notification", "user_id", n.UserID, "title", n.Title, "error", err)
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *notificationServiceImpl) List(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	switch {
	case limit <= 0:
		limit = defaultNotificationLimit
	case limit > maxNotificationLimit:
		limit = maxNotificationLimit
	}
	return s.notificationRepo.ListByUser(ctx, userID, unreadOnly, limit)
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID, id int64) error {
	ok, err := s.notificationRepo.MarkRead(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !ok {
		return domain.NotFoundError{Resource: "notification", ID: id}
	}
	return nil
}

func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}
