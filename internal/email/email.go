package email

import (
	"context"
	"fmt"

	"github.com/avdeenkov/homebook-checkout/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.CheckoutEvent) error {
	fmt.Printf("send email to %s about %s for booking %s\n", event.Email, event.Type, event.BookingID)
	return nil
}
