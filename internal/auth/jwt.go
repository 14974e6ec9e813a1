package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/nextgen-hub/studenthub/internal"
)

// Claims are the fields read from access tokens issued by the hosted auth service.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuthProvider verifies HS256 access tokens with a shared secret.
type JWTAuthProvider struct {
	secret []byte
	logger internal.Logger
}

func NewJWTAuthProvider(secret string, logger internal.Logger) *JWTAuthProvider {
	return &JWTAuthProvider{secret: []byte(secret), logger: logger}
}

func (a *JWTAuthProvider) ValidateToken(ctx context.Context, token string) (*internal.User, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		a.logger.Warnf("rejected jwt: %v", err)
		return nil, errors.Wrap(ErrInvalidToken, "jwt")
	}
	if claims.Subject == "" {
		return nil, errors.Wrap(ErrInvalidToken, "jwt: missing sub")
	}
	return &internal.User{ID: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

// Sign issues a token for user. Used by tests and local tooling.
func (a *JWTAuthProvider) Sign(user *internal.User, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = user.ID
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Email: user.Email, Name: user.Name, RegisteredClaims: claims})
	return t.SignedString(a.secret)
}
