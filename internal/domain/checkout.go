package domain

import (
	"net/url"
	"time"
)

type WizardStep string

const (
	StepDetails  WizardStep = "DETAILS"
	StepSchedule WizardStep = "SCHEDULE"
	StepPayment  WizardStep = "PAYMENT"
)

// PaymentOutcome is derived from the return URL's query parameters and
// never computed any other way.
type PaymentOutcome string

const (
	OutcomeNone     PaymentOutcome = "NONE"
	OutcomeSuccess  PaymentOutcome = "SUCCESS"
	OutcomeCanceled PaymentOutcome = "CANCELED"
)

// ParseOutcome reads the success/canceled flags the external payment
// page appends to the return URL. Absence of both means a normal load.
func ParseOutcome(query url.Values) PaymentOutcome {
	switch {
	case query.Get("success") == "true":
		return OutcomeSuccess
	case query.Get("canceled") == "true":
		return OutcomeCanceled
	default:
		return OutcomeNone
	}
}

type CartItem struct {
	ServiceID int64   `json:"service_id"`
	Title     string  `json:"title"`
	ImageRef  string  `json:"image_ref"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type CartSnapshot []CartItem

type CheckoutForm struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Password  string  `json:"password,omitempty"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Notes     string  `json:"notes"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type Profile struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CheckoutSession is the durable per-visitor state of the wizard. It
// survives full page reloads, including the redirect to the external
// payment page and back.
type CheckoutSession struct {
	ID           string       `json:"id"`
	CartKey      string       `json:"cart_key,omitempty"`
	Step         WizardStep   `json:"step"`
	Form         CheckoutForm `json:"form"`
	AuthToken    string       `json:"auth_token,omitempty"`
	User         *Profile     `json:"user,omitempty"`
	CancelNotice bool         `json:"cancel_notice"`
	Confirmed    bool         `json:"confirmed"`
	BookingID    string       `json:"booking_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (s *CheckoutSession) Authenticated() bool {
	return s.AuthToken != ""
}

// BookingIntent is the payload submitted to create the combined
// booking draft + payment session. UseCurrentCart asks the server to
// bill the caller's cart contents instead of an explicit item list.
type BookingIntent struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Address        string  `json:"address"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	ScheduledDate  string  `json:"scheduled_date"`
	Notes          string  `json:"notes"`
	UseCurrentCart bool    `json:"use_current_cart"`
	ReturnURL      string  `json:"return_url"`
}

// PaymentSession is the server's answer to a booking intent: the
// correlation token plus the external page to send the browser to.
type PaymentSession struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
}

type PaymentStatus struct {
	Verified  bool   `json:"verified"`
	BookingID string `json:"booking_id"`
}

type AttemptStatus string

const (
	AttemptStatusInitiated AttemptStatus = "INITIATED"
	AttemptStatusFinalized AttemptStatus = "FINALIZED"
	AttemptStatusDegraded  AttemptStatus = "DEGRADED"
	AttemptStatusCancelled AttemptStatus = "CANCELLED"
	AttemptStatusExpired   AttemptStatus = "EXPIRED"
)

// PaymentAttempt is the journal row written for every initiated
// payment session. DEGRADED means the processor reported success but
// the verification call failed; the webhook path finalizes the booking
// independently.
type PaymentAttempt struct {
	ID        int64
	SessionID string
	Token     string
	Email     string
	Status    AttemptStatus
	BookingID string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
