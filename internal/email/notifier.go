package email

import (
	"context"

	"github.com/BruksfildServices01/tour-booking/internal/events"
)

// TicketRenderer produces the PDF attached to confirmations.
type TicketRenderer func(ev events.BookingConfirmed) ([]byte, error)

// Notifier mails booking confirmations. It serves both as the direct
// notifier when no broker is configured and as the consumer handler.
type Notifier struct {
	mailer Mailer
	ticket TicketRenderer
}

var _ events.Notifier = (*Notifier)(nil)

func NewNotifier(mailer Mailer, ticket TicketRenderer) *Notifier {
	return &Notifier{mailer: mailer, ticket: ticket}
}

func (n *Notifier) BookingConfirmed(ctx context.Context, ev events.BookingConfirmed) error {
	var pdf []byte
	if n.ticket != nil {
		b, err := n.ticket(ev)
		if err != nil {
			return err
		}
		pdf = b
	}

	msg, err := BookingConfirmed(ev, pdf)
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, msg)
}
