package checkout

import (
	"context"
	"log"
	"time"

	"github.com/avdeenkov/homebook-checkout/internal/domain"
	"github.com/avdeenkov/homebook-checkout/internal/kafka"
	"github.com/avdeenkov/homebook-checkout/internal/repository"
	"github.com/avdeenkov/homebook-checkout/internal/wizard"
	"github.com/google/uuid"
)

type CheckoutUseCase interface {
	Start(ctx context.Context, bearer, cartKey string) (*domain.CheckoutSession, error)
	Get(ctx context.Context, id string) (*domain.CheckoutSession, error)
	UpdateForm(ctx context.Context, id string, form domain.CheckoutForm) (*domain.CheckoutSession, error)
	Advance(ctx context.Context, id string) (*domain.CheckoutSession, error)
	Retreat(ctx context.Context, id string) (*domain.CheckoutSession, error)
	Pay(ctx context.Context, id string) (string, error)
	Reconcile(ctx context.Context, id string, outcome domain.PaymentOutcome) (*domain.CheckoutSession, error)
	DismissCancellation(ctx context.Context, id string) (*domain.CheckoutSession, error)
}

// Cart is the external cart collaborator. Guests are addressed by cart
// key, authenticated callers by bearer token.
type Cart interface {
	Items(ctx context.Context, bearer, cartKey string) (domain.CartSnapshot, error)
	Clear(ctx context.Context, bearer, cartKey string) error
	Add(ctx context.Context, bearer, cartKey string, serviceID int64, quantity int) error
}

// Auth is the external auth collaborator.
type Auth interface {
	Register(ctx context.Context, in domain.Registration) error
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, bearer string) (*domain.Profile, error)
}

// PaymentGateway is the payment server boundary.
type PaymentGateway interface {
	CreateSession(ctx context.Context, bearer string, intent domain.BookingIntent) (*domain.PaymentSession, error)
	Status(ctx context.Context, bearer, sessionID string) (*domain.PaymentStatus, error)
}

type SessionStore interface {
	SaveSession(ctx context.Context, session *domain.CheckoutSession) error
	GetSession(ctx context.Context, id string) (*domain.CheckoutSession, error)
}

// TokenStore is the durable single-slot correlation-token store.
type TokenStore interface {
	SetToken(ctx context.Context, sessionID, token string) error
	Token(ctx context.Context, sessionID string) (string, error)
	ClearToken(ctx context.Context, sessionID string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CheckoutService struct {
	sessions           SessionStore
	tokens             TokenStore
	cart               Cart
	auth               Auth
	gateway            PaymentGateway
	attempts           repository.AttemptRepository
	producer           Producer
	checkoutTopic      string
	notificationsTopic string
	returnURL          string
	attemptTTL         time.Duration
}

type CheckoutServiceOption func(*CheckoutService)

func WithNotificationsTopic(topic string) CheckoutServiceOption {
	return func(s *CheckoutService) {
		s.notificationsTopic = topic
	}
}

func NewCheckoutService(
	sessions SessionStore,
	tokens TokenStore,
	cart Cart,
	auth Auth,
	gateway PaymentGateway,
	attempts repository.AttemptRepository,
	producer Producer,
	checkoutTopic string,
	returnURL string,
	attemptTTL time.Duration,
	opts ...CheckoutServiceOption,
) *CheckoutService {
	service := &CheckoutService{
		sessions:      sessions,
		tokens:        tokens,
		cart:          cart,
		auth:          auth,
		gateway:       gateway,
		attempts:      attempts,
		producer:      producer,
		checkoutTopic: checkoutTopic,
		returnURL:     returnURL,
		attemptTTL:    attemptTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Start creates a checkout session. When the caller is already
// authenticated the form is pre-filled from the stored profile and the
// guest fields are skipped for the rest of the flow.
func (s *CheckoutService) Start(ctx context.Context, bearer, cartKey string) (*domain.CheckoutSession, error) {
	now := time.Now()
	session := &domain.CheckoutSession{
		ID:        uuid.NewString(),
		CartKey:   cartKey,
		Step:      domain.StepDetails,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if bearer != "" {
		profile, err := s.auth.CurrentUser(ctx, bearer)
		if err != nil {
			log.Printf("prefill profile for session %s: %v", session.ID, err)
		} else {
			session.AuthToken = bearer
			session.User = profile
			session.Form.Name = profile.Name
			session.Form.Email = profile.Email
			session.Form.Phone = profile.Phone
			session.Form.Address = profile.Address
		}
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *CheckoutService) Get(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	return s.sessions.GetSession(ctx, id)
}

func (s *CheckoutService) UpdateForm(ctx context.Context, id string, form domain.CheckoutForm) (*domain.CheckoutSession, error) {
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Form = form
	session.UpdatedAt = time.Now()
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Advance moves the wizard forward. On validation failure the session
// is returned untouched alongside the error.
func (s *CheckoutService) Advance(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := wizard.Advance(session.Step, session.Form, session.Authenticated())
	if err != nil {
		return session, err
	}

	session.Step = next
	session.UpdatedAt = time.Now()
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *CheckoutService) Retreat(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Step = wizard.Retreat(session.Step)
	session.UpdatedAt = time.Now()
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// DismissCancellation closes the cancellation notice and returns the
// wizard to the payment step.
func (s *CheckoutService) DismissCancellation(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	session.CancelNotice = false
	session.Step = domain.StepPayment
	session.UpdatedAt = time.Now()
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *CheckoutService) publish(ctx context.Context, eventType string, session *domain.CheckoutSession, token, status, bookingID string) {
	if s.producer == nil || s.checkoutTopic == "" {
		return
	}
	event := kafka.CheckoutEvent{
		Type:      eventType,
		SessionID: session.ID,
		Token:     token,
		Email:     session.Form.Email,
		Status:    status,
		BookingID: bookingID,
		At:        time.Now(),
	}
	if err := s.producer.Publish(ctx, s.checkoutTopic, session.ID, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for session %s: %v", eventType, session.ID, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, session.ID, event); err != nil {
			log.Printf("WARNING: failed to publish %s notification for session %s: %v", eventType, session.ID, err)
		}
	}
}

var _ CheckoutUseCase = (*CheckoutService)(nil)
