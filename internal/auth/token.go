package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims mirrors the tokens issued by the auth service: the user id and the
// role at issue time.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Subject is what a verified token asserts about its bearer. Role is the
// role at issue time and may be stale; the Account Directory is authoritative.
type Subject struct {
	UserID uuid.UUID
	Role   string
}

type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify checks the HS256 signature and expiry and returns the subject.
func (v *TokenVerifier) Verify(token string) (Subject, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Subject{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !t.Valid {
		return Subject{}, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return Subject{}, fmt.Errorf("%w: bad subject id", ErrInvalidToken)
	}
	return Subject{UserID: id, Role: claims.Role}, nil
}

// IssueToken signs a token in the auth service's format. Token issuance
// belongs to the auth service; this is used by tests and local tooling.
func IssueToken(secret string, userID uuid.UUID, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		ID:   userID.String(),
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
