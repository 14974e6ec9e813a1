package auth

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/config"
)

var ErrInvalidToken = errors.New("invalid token")

// Provider resolves a bearer token to the user it belongs to.
type Provider interface {
	ValidateToken(ctx context.Context, token string) (*internal.User, error)
}

// NewProvider picks the provider named by cfg.AuthMode.
func NewProvider(cfg *config.Config, logger internal.Logger) (Provider, error) {
	switch cfg.AuthMode {
	case "local":
		return NewLocalAuthProvider(cfg.AuthToken, logger), nil
	case "jwt":
		return NewJWTAuthProvider(cfg.JWTSecret, logger), nil
	case "remote":
		return NewRemoteAuthProvider(cfg.AuthServiceURL, logger), nil
	default:
		return nil, errors.Errorf("auth: unknown mode %q", cfg.AuthMode)
	}
}
