package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avdeenkov/homebook-checkout/internal/domain"
)

// AuthClient talks to the auth service.
type AuthClient struct {
	base
}

func NewAuthClient(url string) *AuthClient {
	return &AuthClient{base: newBase(url)}
}

// Register creates the account. A conflict maps to ErrDuplicateAccount
// and any other rejection is surfaced verbatim as an AuthError.
func (c *AuthClient) Register(ctx context.Context, in domain.Registration) error {
	err := c.doJSON(ctx, http.MethodPost, "/register", "", in, nil)
	if err == nil {
		return nil
	}

	var se *serverError
	if errors.As(err, &se) {
		if se.Status == http.StatusConflict {
			return domain.ErrDuplicateAccount
		}
		return &domain.AuthError{Msg: se.Error()}
	}
	return fmt.Errorf("register: %w", err)
}

func (c *AuthClient) Login(ctx context.Context, email, password string) (string, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/login", "", payload, &resp); err != nil {
		var se *serverError
		if errors.As(err, &se) {
			return "", &domain.AuthError{Msg: se.Error()}
		}
		return "", fmt.Errorf("login: %w", err)
	}
	return resp.AccessToken, nil
}

func (c *AuthClient) CurrentUser(ctx context.Context, bearer string) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.doJSON(ctx, http.MethodGet, "/me", bearer, nil, &profile); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &profile, nil
}
