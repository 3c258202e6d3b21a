package checkout

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/avdeenkov/homebook-checkout/internal/domain"
	"github.com/avdeenkov/homebook-checkout/internal/kafka"
	"github.com/avdeenkov/homebook-checkout/internal/schedule"
)

// Pay runs the payment step: guest bootstrap when needed, then booking
// intent submission. The correlation token is written to the durable
// slot before the redirect URL is released; without that ordering the
// return trip has nothing to verify against.
func (s *CheckoutService) Pay(ctx context.Context, id string) (string, error) {
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return "", err
	}
	if session.Step != domain.StepPayment {
		return "", domain.NewValidationError("complete the previous steps first")
	}

	if !session.Authenticated() {
		if err := s.bootstrapGuest(ctx, session); err != nil {
			return "", err
		}
	}

	intent, err := s.buildIntent(session)
	if err != nil {
		return "", err
	}

	payment, err := s.gateway.CreateSession(ctx, session.AuthToken, intent)
	if err != nil {
		return "", err
	}

	// No recovery path exists if this write is lost, so a failure here
	// aborts before the redirect URL escapes.
	if err := s.tokens.SetToken(ctx, id, payment.SessionID); err != nil {
		return "", &domain.InitiationError{Msg: "could not start payment, please try again"}
	}

	attempt := &domain.PaymentAttempt{
		SessionID: session.ID,
		Token:     payment.SessionID,
		Email:     session.Form.Email,
		ExpiresAt: time.Now().Add(s.attemptTTL),
	}
	if s.attempts != nil {
		if err := s.attempts.CreateInitiated(ctx, attempt); err != nil {
			log.Printf("WARNING: journal attempt %s for session %s: %v", payment.SessionID, session.ID, err)
		}
	}

	s.publish(ctx, kafka.EventPaymentInitiated, session, payment.SessionID, string(domain.AttemptStatusInitiated), "")

	session.UpdatedAt = time.Now()
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		log.Printf("save session %s after initiation: %v", session.ID, err)
	}

	return payment.RedirectURL, nil
}

// buildIntent assembles the booking payload: identity from the
// committed profile with form fields as fallback, the normalized
// scheduled date, and the flag telling the server to bill the caller's
// current cart.
func (s *CheckoutService) buildIntent(session *domain.CheckoutSession) (domain.BookingIntent, error) {
	form := session.Form

	scheduled, err := schedule.ScheduledDate(form.Date, form.Time)
	if err != nil {
		return domain.BookingIntent{}, domain.NewValidationError("please choose a valid date and time")
	}

	name, email, phone := form.Name, form.Email, form.Phone
	if session.User != nil {
		if session.User.Name != "" {
			name = session.User.Name
		}
		if session.User.Email != "" {
			email = session.User.Email
		}
		if session.User.Phone != "" {
			phone = session.User.Phone
		}
	}

	return domain.BookingIntent{
		Name:           name,
		Email:          email,
		Phone:          phone,
		Address:        form.Address,
		Latitude:       form.Latitude,
		Longitude:      form.Longitude,
		ScheduledDate:  scheduled,
		Notes:          form.Notes,
		UseCurrentCart: true,
		ReturnURL:      s.returnURL + "?session_id=" + url.QueryEscape(session.ID),
	}, nil
}
