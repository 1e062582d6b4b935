package notifications

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"nexusems/internal/shared/config"
	"nexusems/internal/waitlist"
	"nexusems/pkg/logger"
	"nexusems/pkg/metrics"
)

// deadlineFormat is how booking deadlines appear in email bodies
const deadlineFormat = "Mon, 02 Jan 2006 15:04 MST"

// Service composes and delivers outbound notifications. Waitlist spot emails
// go straight through the mailer so the notification run observes the send;
// everything else is published to the Kafka bus when one is configured and
// falls back to direct delivery otherwise.
type Service struct {
	mailer        Mailer
	producer      Producer
	publicBaseURL string
	log           *logger.Logger
}

// BookingConfirmation carries what a booking email needs
type BookingConfirmation struct {
	Name          string
	Email         string
	BookingNumber string
	EventName     string
	Quantity      int
	Total         decimal.Decimal
}

// NewService creates the notification service. producer may be nil.
func NewService(mailer Mailer, producer Producer, cfg *config.Config) *Service {
	return &Service{
		mailer:        mailer,
		producer:      producer,
		publicBaseURL: cfg.PublicBaseURL,
		log:           logger.GetDefault(),
	}
}

// DispatchSpotAvailable emails one waitlisted attendee that a ticket opened
// up. The send is synchronous and any failure is returned to the caller,
// scoped to this recipient alone.
func (s *Service) DispatchSpotAvailable(ctx context.Context, n waitlist.SpotNotification) error {
	bookingURL := fmt.Sprintf("%s/events/%s/book", s.publicBaseURL, n.EventRef)
	deadline := n.Deadline.Format(deadlineFormat)
	subject := fmt.Sprintf("A ticket is available for %s", n.EventName)

	htmlBody := fmt.Sprintf(`<h2>A spot opened up!</h2>
<p>Hi %s,</p>
<p>A ticket has become available for <strong>%s</strong>.</p>
<p>You have until <strong>%s</strong> (24 hours) to complete your booking:</p>
<p><a href="%s">%s</a></p>
<p>After the deadline your spot may be offered to someone else.</p>`,
		n.Name, n.EventName, deadline, bookingURL, bookingURL)

	textBody := fmt.Sprintf(
		"Hi %s,\n\nA ticket has become available for %s.\nYou have until %s (24 hours) to complete your booking:\n%s\n\nAfter the deadline your spot may be offered to someone else.",
		n.Name, n.EventName, deadline, bookingURL)

	if err := s.mailer.Send(ctx, n.Email, subject, htmlBody, textBody); err != nil {
		metrics.EmailsFailed.WithLabelValues(string(KindSpotAvailable)).Inc()
		return err
	}
	metrics.EmailsSent.WithLabelValues(string(KindSpotAvailable)).Inc()
	return nil
}

// SendAccountCredentials delivers a temporary password to a new organizer
func (s *Service) SendAccountCredentials(ctx context.Context, email, name, tempPassword string) error {
	subject := "Your NexusEMS organizer account"

	htmlBody := fmt.Sprintf(`<h2>Welcome to NexusEMS</h2>
<p>Hi %s,</p>
<p>An organizer account has been created for you.</p>
<p>Temporary password: <strong>%s</strong></p>
<p>You will be asked to change it on first login.</p>`, name, tempPassword)

	textBody := fmt.Sprintf(
		"Hi %s,\n\nAn organizer account has been created for you.\nTemporary password: %s\nYou will be asked to change it on first login.",
		name, tempPassword)

	msg := NewMessage(KindAccountCredentials, name, email, subject, htmlBody, textBody)
	return s.deliver(ctx, msg)
}

// SendBookingConfirmation tells an attendee their booking went through
func (s *Service) SendBookingConfirmation(ctx context.Context, bc BookingConfirmation) error {
	subject := fmt.Sprintf("Booking confirmed for %s", bc.EventName)

	htmlBody := fmt.Sprintf(`<h2>Booking confirmed</h2>
<p>Hi %s,</p>
<p>Your booking for <strong>%s</strong> is confirmed.</p>
<p>Booking number: <strong>%s</strong><br>
Tickets: %d<br>
Total: $%s</p>`,
		bc.Name, bc.EventName, bc.BookingNumber, bc.Quantity, bc.Total.StringFixed(2))

	textBody := fmt.Sprintf(
		"Hi %s,\n\nYour booking for %s is confirmed.\nBooking number: %s\nTickets: %d\nTotal: $%s",
		bc.Name, bc.EventName, bc.BookingNumber, bc.Quantity, bc.Total.StringFixed(2))

	msg := NewMessage(KindBookingConfirmed, bc.Name, bc.Email, subject, htmlBody, textBody)
	return s.deliver(ctx, msg)
}

// SendBookingCancelled confirms a cancellation back to the attendee
func (s *Service) SendBookingCancelled(ctx context.Context, name, email, bookingNumber, eventName string) error {
	subject := fmt.Sprintf("Booking cancelled for %s", eventName)

	htmlBody := fmt.Sprintf(`<h2>Booking cancelled</h2>
<p>Hi %s,</p>
<p>Your booking <strong>%s</strong> for <strong>%s</strong> has been cancelled.</p>`,
		name, bookingNumber, eventName)

	textBody := fmt.Sprintf(
		"Hi %s,\n\nYour booking %s for %s has been cancelled.",
		name, bookingNumber, eventName)

	msg := NewMessage(KindBookingCancelled, name, email, subject, htmlBody, textBody)
	return s.deliver(ctx, msg)
}

// deliver publishes to the bus when available, otherwise sends directly
func (s *Service) deliver(ctx context.Context, msg *Message) error {
	if s.producer != nil {
		err := s.producer.Publish(ctx, msg)
		if err == nil {
			return nil
		}
		s.log.WithError(err).Warn("notification bus publish failed, sending directly",
			"kind", string(msg.Kind), "to", msg.RecipientEmail)
	}

	if err := s.mailer.Send(ctx, msg.RecipientEmail, msg.Subject, msg.HTMLBody, msg.TextBody); err != nil {
		metrics.EmailsFailed.WithLabelValues(string(msg.Kind)).Inc()
		return err
	}
	metrics.EmailsSent.WithLabelValues(string(msg.Kind)).Inc()
	return nil
}
