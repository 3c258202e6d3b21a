package checkout

import (
	"context"
	"log"
	"time"

	"github.com/avdeenkov/homebook-checkout/internal/domain"
	"github.com/avdeenkov/homebook-checkout/internal/kafka"
)

// Reconcile runs once per return-trip page load. The outcome comes
// purely from the return URL; truth about the payment is re-derived
// from the stored correlation token plus a server status query.
func (s *CheckoutService) Reconcile(ctx context.Context, id string, outcome domain.PaymentOutcome) (*domain.CheckoutSession, error) {
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	switch outcome {
	case domain.OutcomeSuccess:
		return s.reconcileSuccess(ctx, session)
	case domain.OutcomeCanceled:
		return s.reconcileCanceled(ctx, session)
	default:
		return session, nil
	}
}

func (s *CheckoutService) reconcileSuccess(ctx context.Context, session *domain.CheckoutSession) (*domain.CheckoutSession, error) {
	token, err := s.tokens.Token(ctx, session.ID)
	if err != nil {
		// The processor already reported success; a broken token read
		// degrades to the token-less branch rather than a false failure.
		log.Printf("read token slot for session %s: %v", session.ID, err)
		token = ""
	}

	if token == "" {
		// Storage was cleared or another tab finished the flow. Skip
		// verification, clear the cart only.
		s.clearCart(ctx, session)
		return s.finishConfirmed(ctx, session, "")
	}

	status, err := s.gateway.Status(ctx, session.AuthToken, token)
	switch {
	case err != nil:
		// Degraded verification: the processor said success, so the
		// user still sees success; the server-side webhook finalizes
		// the booking independently.
		log.Printf("WARNING: verify payment %s for session %s: %v", token, session.ID, err)
		s.journal(ctx, token, domain.AttemptStatusDegraded, "")
		s.publish(ctx, kafka.EventPaymentDegraded, session, token, string(domain.AttemptStatusDegraded), "")
	case !status.Verified:
		log.Printf("WARNING: payment %s for session %s not yet verified server-side", token, session.ID)
		s.journal(ctx, token, domain.AttemptStatusDegraded, "")
		s.publish(ctx, kafka.EventPaymentDegraded, session, token, string(domain.AttemptStatusDegraded), "")
	default:
		session.BookingID = status.BookingID
		s.journal(ctx, token, domain.AttemptStatusFinalized, status.BookingID)
		s.publish(ctx, kafka.EventPaymentFinalized, session, token, string(domain.AttemptStatusFinalized), status.BookingID)
	}

	// Cleanup is identical on both branches: the token is removed
	// exactly once and the cart is cleared.
	if err := s.tokens.ClearToken(ctx, session.ID); err != nil {
		log.Printf("clear token slot for session %s: %v", session.ID, err)
	}
	s.clearCart(ctx, session)

	return s.finishConfirmed(ctx, session, session.BookingID)
}

// reconcileCanceled preserves everything: the cart is untouched and
// the token stays in its slot, so a later genuine success from the
// same payment session still verifies. The wizard resumes at Payment.
func (s *CheckoutService) reconcileCanceled(ctx context.Context, session *domain.CheckoutSession) (*domain.CheckoutSession, error) {
	session.CancelNotice = true
	session.Step = domain.StepPayment
	session.UpdatedAt = time.Now()

	if token, err := s.tokens.Token(ctx, session.ID); err == nil && token != "" {
		s.journal(ctx, token, domain.AttemptStatusCancelled, "")
		s.publish(ctx, kafka.EventPaymentCancelled, session, token, string(domain.AttemptStatusCancelled), "")
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *CheckoutService) finishConfirmed(ctx context.Context, session *domain.CheckoutSession, bookingID string) (*domain.CheckoutSession, error) {
	session.Confirmed = true
	session.CancelNotice = false
	session.BookingID = bookingID
	session.UpdatedAt = time.Now()
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *CheckoutService) clearCart(ctx context.Context, session *domain.CheckoutSession) {
	if err := s.cart.Clear(ctx, session.AuthToken, session.CartKey); err != nil {
		log.Printf("clear cart for session %s: %v", session.ID, err)
	}
}

func (s *CheckoutService) journal(ctx context.Context, token string, status domain.AttemptStatus, bookingID string) {
	if s.attempts == nil {
		return
	}
	if _, err := s.attempts.UpdateStatus(ctx, token, status, bookingID); err != nil {
		log.Printf("journal attempt %s as %s: %v", token, status, err)
	}
}
