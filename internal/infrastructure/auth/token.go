package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain/entity"
)

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer implements port.TokenIssuer with HS256-signed tokens
type JWTIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer creates a token issuer. secret must not be empty.
func NewJWTIssuer(secret, issuer string, ttl time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid token ttl %s", ttl)
	}
	return &JWTIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for user
func (j *JWTIssuer) Issue(user *entity.User) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(j.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies signature, issuer and expiry
func (j *JWTIssuer) Parse(tokenString string) (*port.TokenClaims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid token subject %q", c.Subject)
	}

	return &port.TokenClaims{
		UserID:    userID,
		Role:      c.Role,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

var _ port.TokenIssuer = (*JWTIssuer)(nil)
