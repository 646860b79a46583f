package port

import (
	"time"

	"github.com/garyjia/travel-expense/internal/domain/entity"
)

// PasswordHasher hashes and verifies user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash
	Compare(hash, password string) error
}

// TokenClaims is the identity carried by an access token
type TokenClaims struct {
	UserID    int64
	Role      string
	ExpiresAt time.Time
}

// TokenIssuer issues and verifies access tokens
type TokenIssuer interface {
	Issue(user *entity.User) (token string, expiresAt time.Time, err error)
	Parse(token string) (*TokenClaims, error)
}
