package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/avdeenkov/homebook-checkout/internal/domain"
)

// PaymentClient talks to the payment server, which owns booking drafts
// and payment sessions.
type PaymentClient struct {
	base
}

func NewPaymentClient(url string) *PaymentClient {
	return &PaymentClient{base: newBase(url)}
}

// CreateSession submits the booking intent and returns the correlation
// token plus the external redirect target. Failures map to
// InitiationError: nothing was persisted, retrying is safe.
func (c *PaymentClient) CreateSession(ctx context.Context, bearer string, intent domain.BookingIntent) (*domain.PaymentSession, error) {
	var session domain.PaymentSession
	if err := c.doJSON(ctx, http.MethodPost, "/bookings/payment-session", bearer, intent, &session); err != nil {
		var se *serverError
		if errors.As(err, &se) {
			return nil, &domain.InitiationError{Msg: se.Error()}
		}
		return nil, &domain.InitiationError{Msg: "could not start payment, please try again"}
	}
	if session.SessionID == "" || session.RedirectURL == "" {
		return nil, &domain.InitiationError{Msg: "payment server returned an incomplete session"}
	}
	return &session, nil
}

// Status verifies a payment session after the return trip.
func (c *PaymentClient) Status(ctx context.Context, bearer, sessionID string) (*domain.PaymentStatus, error) {
	var status domain.PaymentStatus
	path := "/bookings/payment-status?session_id=" + url.QueryEscape(sessionID)
	if err := c.doJSON(ctx, http.MethodGet, path, bearer, nil, &status); err != nil {
		return nil, fmt.Errorf("payment status: %w", err)
	}
	return &status, nil
}
