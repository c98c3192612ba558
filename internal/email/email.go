package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/transferbooking/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender stands in for the mail gateway: it renders the notification and writes it to the log.
type Sender struct {
	log logrus.FieldLogger
}

func NewSender(log logrus.FieldLogger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.CartEvent) error {
	subject, ok := subjects[event.Type]
	if !ok {
		s.log.WithField("type", event.Type).Debug("no notification for event")
		return nil
	}
	s.log.WithFields(logrus.Fields{
		"to":      event.ContactName,
		"phone":   event.Phone,
		"token":   event.Token,
		"subject": subject,
	}).Info(Body(event))
	return nil
}

var subjects = map[string]string{
	kafka.EventTransferAddedToCart: "Your transfer is in the cart",
	kafka.EventCartItemExpired:     "Your transfer hold has expired",
}

func Body(event kafka.CartEvent) string {
	switch event.Type {
	case kafka.EventTransferAddedToCart:
		return fmt.Sprintf("%s: %.2f %s, held until %s", event.Summary, event.TotalPrice, event.Currency, event.ExpiresAt.Format("2006-01-02 15:04"))
	case kafka.EventCartItemExpired:
		return fmt.Sprintf("%s was released from your cart", event.Summary)
	default:
		return event.Summary
	}
}
