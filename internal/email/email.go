package email

import (
	"context"
	"log"

	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	log.Printf("send email to %s: %s for pnr %s (flight %s, %d seats)",
		event.Email, event.Type, event.PNR, event.FlightID, event.Seats)
	return nil
}
