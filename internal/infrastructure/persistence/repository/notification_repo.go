package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/infrastructure/persistence/sqlite"
)

// NotificationRepository implements port.NotificationRepository
type NotificationRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sqlite.DB, logger *zap.Logger) port.NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new notification record
func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message, type, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		n.UserID,
		n.Title,
		n.Message,
		n.Type,
		n.IsRead,
		n.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create notification",
			zap.Int64("user_id", n.UserID),
			zap.Error(err))
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	n.ID = id
	return nil
}

// ListByUser returns the user's newest notifications
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	query := `SELECT id, user_id, title, message, type, is_read, created_at FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`

	notifications := []*entity.Notification{}
	if err := r.db.Executor(ctx).SelectContext(ctx, &notifications, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks a notification as read
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id int64) (bool, error) {
	result, err := r.db.Executor(ctx).ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		r.logger.Error("Failed to mark notification read", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// CountUnread counts the user's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.Executor(ctx).GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

var _ port.NotificationRepository = (*NotificationRepository)(nil)
