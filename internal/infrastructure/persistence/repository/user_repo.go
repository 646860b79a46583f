package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/infrastructure/persistence/sqlite"
)

const userColumns = `id, email, password_hash, full_name, company, position, department, phone, role, created_at, updated_at`

// UserRepository implements port.UserRepository
type UserRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlite.DB, logger *zap.Logger) port.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a user and sets its ID
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (
			email, password_hash, full_name, company, position, department, phone, role,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Company,
		user.Position,
		user.Department,
		user.Phone,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = id
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*entity.User, error) {
	var user entity.User
	if err := r.db.Executor(ctx).GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpdateProfile writes the profile fields of user
func (r *UserRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET full_name = ?, company = ?, position = ?, department = ?, phone = ?, updated_at = ?
		WHERE id = ?
	`

	user.UpdatedAt = time.Now()
	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		user.FullName,
		user.Company,
		user.Position,
		user.Department,
		user.Phone,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update user profile", zap.Int64("id", user.ID), zap.Error(err))
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return nil
}

var _ port.UserRepository = (*UserRepository)(nil)
