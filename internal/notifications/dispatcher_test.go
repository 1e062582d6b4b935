package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexusems/internal/shared/config"
	"nexusems/internal/waitlist"
)

type sentMail struct {
	to       string
	subject  string
	htmlBody string
	textBody string
}

type fakeMailer struct {
	sent    []sentMail
	failFor map[string]error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if err := f.failFor[to]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, htmlBody: htmlBody, textBody: textBody})
	return nil
}

func newTestService(mailer Mailer) *Service {
	return NewService(mailer, nil, &config.Config{PublicBaseURL: "https://tickets.example.com"})
}

func TestDispatchSpotAvailable(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestService(mailer)

	deadline := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	err := svc.DispatchSpotAvailable(context.Background(), waitlist.SpotNotification{
		EntryID:   "W-000001AAAA0001",
		Name:      "Tomás Rivera",
		Email:     "tomas@example.com",
		EventRef:  "E-001",
		EventName: "Harbor Lights Music Festival",
		Deadline:  deadline,
	})
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	mail := mailer.sent[0]
	assert.Equal(t, "tomas@example.com", mail.to)
	assert.Equal(t, "A ticket is available for Harbor Lights Music Festival", mail.subject)
	assert.Contains(t, mail.textBody, "Tomás Rivera")
	assert.Contains(t, mail.textBody, "24 hours")
	assert.Contains(t, mail.textBody, deadline.Format(deadlineFormat))
	assert.Contains(t, mail.textBody, "https://tickets.example.com/events/E-001/book")
	assert.Contains(t, mail.htmlBody, "https://tickets.example.com/events/E-001/book")
}

func TestDispatchSpotAvailableFailureIsReturned(t *testing.T) {
	mailer := &fakeMailer{failFor: map[string]error{
		"mei@example.com": errors.New("smtp: connection reset"),
	}}
	svc := newTestService(mailer)

	err := svc.DispatchSpotAvailable(context.Background(), waitlist.SpotNotification{
		Name: "Mei Chen", Email: "mei@example.com",
		EventRef: "E-001", EventName: "Harbor Lights Music Festival",
		Deadline: time.Now().Add(24 * time.Hour),
	})
	require.Error(t, err)
	assert.Empty(t, mailer.sent)

	// A later send to a different recipient is unaffected.
	err = svc.DispatchSpotAvailable(context.Background(), waitlist.SpotNotification{
		Name: "Ivan Petrov", Email: "ivan@example.com",
		EventRef: "E-001", EventName: "Harbor Lights Music Festival",
		Deadline: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Len(t, mailer.sent, 1)
}

func TestSendAccountCredentials(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestService(mailer)

	err := svc.SendAccountCredentials(context.Background(), "organizer@nexusems.io", "Olu Farrell", "s3cret-temp")
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "organizer@nexusems.io", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].textBody, "s3cret-temp")
	assert.Contains(t, mailer.sent[0].textBody, "Olu Farrell")
}

func TestSendBookingConfirmation(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestService(mailer)

	err := svc.SendBookingConfirmation(context.Background(), BookingConfirmation{
		Name:          "Noor Haddad",
		Email:         "noor@example.com",
		BookingNumber: "BK-1A2B3C4D",
		EventName:     "Harbor Lights Music Festival",
		Quantity:      2,
		Total:         decimal.RequireFromString("81.00"),
	})
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].subject, "Booking confirmed")
	assert.Contains(t, mailer.sent[0].textBody, "BK-1A2B3C4D")
	assert.Contains(t, mailer.sent[0].textBody, "$81.00")
}

// failingProducer always refuses, forcing the direct-send fallback
type failingProducer struct{}

func (failingProducer) Publish(ctx context.Context, msg *Message) error {
	return errors.New("kafka: broker unreachable")
}
func (failingProducer) Close() error { return nil }

func TestDeliverFallsBackWhenBusIsDown(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, failingProducer{}, &config.Config{PublicBaseURL: "https://tickets.example.com"})

	err := svc.SendAccountCredentials(context.Background(), "organizer@nexusems.io", "Olu Farrell", "temp")
	require.NoError(t, err)
	assert.Len(t, mailer.sent, 1)
}
