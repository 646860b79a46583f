package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain"
	"github.com/garyjia/travel-expense/internal/domain/entity"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name     string
		in       RegisterInput
		existing *entity.User
		check    func(error) bool
	}{
		{
			name: "valid",
			in:   RegisterInput{Email: " Taro@Example.com ", Password: "password1", FullName: "山田 太郎"},
		},
		{
			name:  "bad email",
			in:    RegisterInput{Email: "taro", Password: "password1", FullName: "山田"},
			check: domain.IsValidation,
		},
		{
			name:  "short password",
			in:    RegisterInput{Email: "taro@example.com", Password: "short", FullName: "山田"},
			check: domain.IsValidation,
		},
		{
			name:  "missing name",
			in:    RegisterInput{Email: "taro@example.com", Password: "password1", FullName: "  "},
			check: domain.IsValidation,
		},
		{
			name:     "duplicate email",
			in:       RegisterInput{Email: "taro@example.com", Password: "password1", FullName: "山田"},
			existing: &entity.User{ID: 9, Email: "taro@example.com"},
			check:    domain.IsConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *entity.User
			repo := &mockUserRepo{
				getByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
					return tt.existing, nil
				},
				createFunc: func(ctx context.Context, user *entity.User) error {
					user.ID = 1
					created = user
					return nil
				},
			}
			svc := NewAuthService(repo, mockHasher{}, &mockTokens{}, &mockLogger{})

			user, err := svc.Register(context.Background(), tt.in)
			if tt.check != nil {
				assert.True(t, tt.check(err), "unexpected error: %v", err)
				assert.Nil(t, created)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "taro@example.com", user.Email)
			assert.Equal(t, "hashed:password1", user.PasswordHash)
			assert.Equal(t, entity.RoleUser, user.Role)
			assert.Same(t, created, user)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	stored := &entity.User{ID: 1, Email: "taro@example.com", PasswordHash: "hashed:password1"}
	repo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, nil
		},
	}
	svc := NewAuthService(repo, mockHasher{}, &mockTokens{}, &mockLogger{})

	res, err := svc.Login(context.Background(), "TARO@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "token-for-taro@example.com", res.Token)
	assert.Same(t, stored, res.User)

	_, err = svc.Login(context.Background(), "taro@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "password1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Authenticate(t *testing.T) {
	user := &entity.User{ID: 1, Role: entity.RoleManager}
	repo := &mockUserRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, nil
		},
	}

	tests := []struct {
		name    string
		tokens  *mockTokens
		wantErr error
	}{
		{"valid", &mockTokens{claims: &port.TokenClaims{UserID: 1}}, nil},
		{"bad token", &mockTokens{parseErr: errors.New("token is expired")}, domain.ErrUnauthorized},
		{"deleted user", &mockTokens{claims: &port.TokenClaims{UserID: 2}}, domain.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(repo, mockHasher{}, tt.tokens, &mockLogger{})

			got, err := svc.Authenticate(context.Background(), "token")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Same(t, user, got)
		})
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	var saved *entity.User
	repo := &mockUserRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.User, error) {
			if id != 1 {
				return nil, nil
			}
			return &entity.User{ID: 1, Email: "taro@example.com", FullName: "old"}, nil
		},
		updateProfileFunc: func(ctx context.Context, user *entity.User) error {
			saved = user
			return nil
		},
	}
	svc := NewAuthService(repo, mockHasher{}, &mockTokens{}, &mockLogger{})

	user, err := svc.UpdateProfile(context.Background(), 1, ProfileInput{FullName: " 山田 花子\n", Company: "株式会社サンプル"})
	require.NoError(t, err)
	assert.Equal(t, "山田 花子", user.FullName)
	assert.Equal(t, "株式会社サンプル", saved.Company)

	_, err = svc.UpdateProfile(context.Background(), 1, ProfileInput{})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.UpdateProfile(context.Background(), 2, ProfileInput{FullName: "x"})
	assert.True(t, domain.IsNotFound(err))
}
