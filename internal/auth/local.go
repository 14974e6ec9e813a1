package auth

import (
	"context"

	"github.com/nextgen-hub/studenthub/internal"
)

// LocalAuthProvider accepts one configured token and maps it to a demo user.
// Development only; config refuses it in production.
type LocalAuthProvider struct {
	Token  string
	logger internal.Logger
}

func (a *LocalAuthProvider) ValidateToken(ctx context.Context, token string) (*internal.User, error) {
	if token != "" && token == a.Token {
		return &internal.User{ID: "u1", Email: "demo@studenthub.local", Name: "Demo User"}, nil
	}
	a.logger.Warnf("invalid local token")
	return nil, ErrInvalidToken
}

func NewLocalAuthProvider(token string, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{Token: token, logger: logger}
}
