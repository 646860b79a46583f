package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/garyjia/travel-expense/internal/application/port"
)

// BcryptHasher implements port.PasswordHasher
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher; a cost outside bcrypt's range uses bcrypt.DefaultCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

var _ port.PasswordHasher = (*BcryptHasher)(nil)
