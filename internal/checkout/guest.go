package checkout

import (
	"context"
	"log"
	"time"

	"github.com/avdeenkov/homebook-checkout/internal/domain"
)

// bootstrapGuest converts an unauthenticated session into an
// authenticated one, inline, when payment is initiated. The token is
// installed on the session and saved before any further call is
// issued; the profile fetch and cart replay run strictly after it.
// Registration and login failures abort the payment attempt; replay
// failures are logged and swallowed, the booking proceeds from the
// local cart contents.
func (s *CheckoutService) bootstrapGuest(ctx context.Context, session *domain.CheckoutSession) error {
	form := session.Form

	err := s.auth.Register(ctx, domain.Registration{
		Name:     form.Name,
		Email:    form.Email,
		Phone:    form.Phone,
		Password: form.Password,
	})
	if err != nil {
		return err
	}

	token, err := s.auth.Login(ctx, form.Email, form.Password)
	if err != nil {
		return err
	}

	session.AuthToken = token
	session.UpdatedAt = time.Now()
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return err
	}

	profile, err := s.auth.CurrentUser(ctx, token)
	if err != nil {
		log.Printf("fetch profile after registration for session %s: %v", session.ID, err)
	} else {
		session.User = profile
	}

	s.replayCart(ctx, session)
	return nil
}

// replayCart copies the guest cart onto the freshly created account,
// one add per distinct item so quantities are not double-counted.
func (s *CheckoutService) replayCart(ctx context.Context, session *domain.CheckoutSession) {
	items, err := s.cart.Items(ctx, "", session.CartKey)
	if err != nil {
		log.Printf("read guest cart for session %s: %v", session.ID, err)
		return
	}

	for _, item := range items {
		if err := s.cart.Add(ctx, session.AuthToken, "", item.ServiceID, item.Quantity); err != nil {
			log.Printf("replay cart item %d for session %s: %v", item.ServiceID, session.ID, err)
		}
	}
}
