package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nextgen-hub/studenthub/internal"
)

// RemoteAuthProvider asks the auth service who a token belongs to.
type RemoteAuthProvider struct {
	AuthServiceURL string
	HTTPClient     *http.Client
	logger         internal.Logger
}

func (a *RemoteAuthProvider) ValidateToken(ctx context.Context, token string) (*internal.User, error) {
	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.AuthServiceURL, strings.NewReader(string(body)))
	if err != nil {
		a.logger.Errorf("failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		a.logger.Errorf("failed to call auth service: %v", err)
		return nil, errors.Wrap(err, "auth: call auth service")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		a.logger.Warnf("auth service returned %d", resp.StatusCode)
		return nil, errors.Wrapf(ErrInvalidToken, "auth service returned %d", resp.StatusCode)
	}
	var user internal.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		a.logger.Errorf("failed to decode auth response: %v", err)
		return nil, errors.Wrap(err, "auth: decode response")
	}
	if user.ID == "" {
		return nil, errors.Wrap(ErrInvalidToken, "auth service returned no user id")
	}
	return &user, nil
}

func NewRemoteAuthProvider(url string, logger internal.Logger) *RemoteAuthProvider {
	return &RemoteAuthProvider{
		AuthServiceURL: url,
		HTTPClient:     &http.Client{Timeout: 5 * time.Second},
		logger:         logger,
	}
}
