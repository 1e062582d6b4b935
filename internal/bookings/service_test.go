package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexusems/internal/events"
	"nexusems/internal/notifications"
	"nexusems/internal/tickets"
	"nexusems/internal/waitlist"
)

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*Booking
	failNext error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *Booking) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	b := *booking
	f.bookings[b.ID] = &b
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (f *fakeBookingRepo) GetByNumber(ctx context.Context, number string) (*Booking, error) {
	for _, b := range f.bookings {
		if b.Number == number {
			out := *b
			return &out, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeBookingRepo) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.EventID == eventID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) MarkCancelled(ctx context.Context, id uuid.UUID, at time.Time) error {
	b, ok := f.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	if b.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	b.Status = StatusCancelled
	b.CancelledAt = &at
	if b.Payment != nil {
		b.Payment.Status = PaymentStatusRefunded
	}
	return nil
}

type fakeEventDir struct {
	events map[uuid.UUID]*events.EventResponse
}

func (f *fakeEventDir) GetEvent(ctx context.Context, id uuid.UUID) (*events.EventResponse, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, events.ErrEventNotFound
	}
	return e, nil
}

type fakeTicketBooker struct {
	tickets  map[uuid.UUID]*tickets.Ticket
	released []uuid.UUID
}

func (f *fakeTicketBooker) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]tickets.Ticket, error) {
	var out []tickets.Ticket
	for _, id := range ids {
		if t, ok := f.tickets[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTicketBooker) BookTickets(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		t, ok := f.tickets[id]
		if !ok || t.Status != tickets.StatusAvailable {
			return errors.New("ticket no longer available")
		}
	}
	for _, id := range ids {
		f.tickets[id].Status = tickets.StatusBooked
	}
	return nil
}

func (f *fakeTicketBooker) ReleaseTickets(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var released int64
	for _, id := range ids {
		if t, ok := f.tickets[id]; ok && t.Status == tickets.StatusBooked {
			t.Status = tickets.StatusAvailable
			released++
			f.released = append(f.released, id)
		}
	}
	return released, nil
}

type fakeRedeemer struct {
	amount decimal.Decimal
	err    error
	code   string
}

func (f *fakeRedeemer) Redeem(ctx context.Context, code string, eventID uuid.UUID, subtotal decimal.Decimal) (decimal.Decimal, error) {
	f.code = code
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.amount, nil
}

type fakeWaitlist struct {
	registered   []string
	registerErr  error
	notifyCalls  []uuid.UUID
	notifyResult *waitlist.NotifyResult
}

func (f *fakeWaitlist) Register(ctx context.Context, entryID string) (*waitlist.Entry, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.registered = append(f.registered, entryID)
	return &waitlist.Entry{ID: entryID, Status: waitlist.StatusRegistered}, nil
}

func (f *fakeWaitlist) NotifyAvailability(ctx context.Context, eventID uuid.UUID) *waitlist.NotifyResult {
	f.notifyCalls = append(f.notifyCalls, eventID)
	if f.notifyResult != nil {
		return f.notifyResult
	}
	return &waitlist.NotifyResult{Success: true, Message: "no users in waitlist to notify"}
}

type fakeNotifier struct {
	confirmations []notifications.BookingConfirmation
	cancellations []string
}

func (f *fakeNotifier) SendBookingConfirmation(ctx context.Context, bc notifications.BookingConfirmation) error {
	f.confirmations = append(f.confirmations, bc)
	return nil
}

func (f *fakeNotifier) SendBookingCancelled(ctx context.Context, name, email, bookingNumber, eventName string) error {
	f.cancellations = append(f.cancellations, bookingNumber)
	return nil
}

type bookingFixture struct {
	repo      *fakeBookingRepo
	booker    *fakeTicketBooker
	redeemer  *fakeRedeemer
	waitlist  *fakeWaitlist
	notifier  *fakeNotifier
	service   Service
	eventID   uuid.UUID
	ticketIDs []uuid.UUID
}

func newBookingFixture(t *testing.T, seatCount int) *bookingFixture {
	t.Helper()

	eventID := uuid.New()
	booker := &fakeTicketBooker{tickets: make(map[uuid.UUID]*tickets.Ticket)}
	var ids []uuid.UUID
	for i := 0; i < seatCount; i++ {
		id := uuid.New()
		booker.tickets[id] = &tickets.Ticket{
			ID: id, EventID: eventID, Zone: "MAIN", Row: "A", SeatNumber: i + 1,
			Price:  decimal.NewFromInt(45),
			Status: tickets.StatusAvailable,
		}
		ids = append(ids, id)
	}

	repo := newFakeBookingRepo()
	eventDir := &fakeEventDir{events: map[uuid.UUID]*events.EventResponse{
		eventID: {ID: eventID.String(), Ref: "E-001", Name: "Harbor Lights Music Festival"},
	}}
	redeemer := &fakeRedeemer{amount: decimal.Zero}
	wl := &fakeWaitlist{}
	notifier := &fakeNotifier{}

	return &bookingFixture{
		repo:      repo,
		booker:    booker,
		redeemer:  redeemer,
		waitlist:  wl,
		notifier:  notifier,
		service:   NewService(repo, eventDir, booker, redeemer, wl, notifier),
		eventID:   eventID,
		ticketIDs: ids,
	}
}

func TestCreateBooking(t *testing.T) {
	fx := newBookingFixture(t, 3)
	ctx := context.Background()

	booking, err := fx.service.CreateBooking(ctx, fx.eventID, &CreateBookingRequest{
		Name:      "Noor Haddad",
		Email:     "noor@example.com",
		TicketIDs: fx.ticketIDs[:2],
	})
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed, booking.Status)
	assert.True(t, decimal.NewFromInt(90).Equal(booking.Subtotal))
	assert.True(t, decimal.NewFromInt(90).Equal(booking.Total))
	assert.Len(t, booking.Seats, 2)
	require.NotNil(t, booking.Payment)
	assert.Equal(t, PaymentStatusPaid, booking.Payment.Status)

	for _, id := range fx.ticketIDs[:2] {
		assert.Equal(t, tickets.StatusBooked, fx.booker.tickets[id].Status)
	}
	assert.Equal(t, tickets.StatusAvailable, fx.booker.tickets[fx.ticketIDs[2]].Status)

	require.Len(t, fx.notifier.confirmations, 1)
	assert.Equal(t, booking.Number, fx.notifier.confirmations[0].BookingNumber)
	assert.Equal(t, 2, fx.notifier.confirmations[0].Quantity)
}

func TestCreateBookingWithDiscount(t *testing.T) {
	fx := newBookingFixture(t, 2)
	fx.redeemer.amount = decimal.NewFromInt(9)

	booking, err := fx.service.CreateBooking(context.Background(), fx.eventID, &CreateBookingRequest{
		Name:         "Noor Haddad",
		Email:        "noor@example.com",
		TicketIDs:    fx.ticketIDs,
		DiscountCode: "earlybird",
	})
	require.NoError(t, err)

	assert.Equal(t, "earlybird", fx.redeemer.code)
	require.NotNil(t, booking.DiscountCode)
	assert.Equal(t, "EARLYBIRD", *booking.DiscountCode)
	assert.True(t, decimal.NewFromInt(9).Equal(booking.DiscountAmount))
	assert.True(t, decimal.NewFromInt(81).Equal(booking.Total))
}

func TestCreateBookingUnavailableTicket(t *testing.T) {
	fx := newBookingFixture(t, 2)
	fx.booker.tickets[fx.ticketIDs[0]].Status = tickets.StatusBooked

	_, err := fx.service.CreateBooking(context.Background(), fx.eventID, &CreateBookingRequest{
		Name:      "Noor Haddad",
		Email:     "noor@example.com",
		TicketIDs: fx.ticketIDs,
	})
	assert.ErrorIs(t, err, ErrTicketsUnavailable)
}

func TestCreateBookingWrongEvent(t *testing.T) {
	fx := newBookingFixture(t, 1)
	fx.booker.tickets[fx.ticketIDs[0]].EventID = uuid.New()

	_, err := fx.service.CreateBooking(context.Background(), fx.eventID, &CreateBookingRequest{
		Name:      "Noor Haddad",
		Email:     "noor@example.com",
		TicketIDs: fx.ticketIDs,
	})
	assert.ErrorIs(t, err, ErrTicketMismatch)
}

func TestCreateBookingUnknownTicket(t *testing.T) {
	fx := newBookingFixture(t, 1)

	_, err := fx.service.CreateBooking(context.Background(), fx.eventID, &CreateBookingRequest{
		Name:      "Noor Haddad",
		Email:     "noor@example.com",
		TicketIDs: []uuid.UUID{uuid.New()},
	})
	assert.ErrorIs(t, err, ErrTicketsUnavailable)
}

func TestCreateBookingReleasesTicketsOnStoreFailure(t *testing.T) {
	fx := newBookingFixture(t, 2)
	fx.repo.failNext = errors.New("connection refused")

	_, err := fx.service.CreateBooking(context.Background(), fx.eventID, &CreateBookingRequest{
		Name:      "Noor Haddad",
		Email:     "noor@example.com",
		TicketIDs: fx.ticketIDs,
	})
	require.Error(t, err)

	// Seats must not stay stranded in BOOKED.
	for _, id := range fx.ticketIDs {
		assert.Equal(t, tickets.StatusAvailable, fx.booker.tickets[id].Status)
	}
}

func TestCreateBookingCompletesWaitlistEntry(t *testing.T) {
	fx := newBookingFixture(t, 1)

	_, err := fx.service.CreateBooking(context.Background(), fx.eventID, &CreateBookingRequest{
		Name:            "Tomás Rivera",
		Email:           "tomas@example.com",
		TicketIDs:       fx.ticketIDs,
		WaitlistEntryID: "W-123456ABCDEF01",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"W-123456ABCDEF01"}, fx.waitlist.registered)
}

func TestCancelBookingTriggersWaitlistNotification(t *testing.T) {
	fx := newBookingFixture(t, 2)
	ctx := context.Background()

	booking, err := fx.service.CreateBooking(ctx, fx.eventID, &CreateBookingRequest{
		Name:      "Noor Haddad",
		Email:     "noor@example.com",
		TicketIDs: fx.ticketIDs,
	})
	require.NoError(t, err)

	fx.waitlist.notifyResult = &waitlist.NotifyResult{
		Success:          true,
		Message:          "notified 1 waitlist user(s)",
		AvailableTickets: 2,
		NotifiedUsers: []waitlist.NotifiedUser{
			{WaitlistID: "W-000001AAAA0001", Name: "Mei Chen", Email: "mei@example.com"},
		},
	}

	result, err := fx.service.CancelBooking(ctx, booking.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, result.Booking.Status)
	assert.Equal(t, int64(2), result.ReleasedTickets)
	require.NotNil(t, result.Waitlist)
	assert.True(t, result.Waitlist.Success)
	assert.Len(t, result.Waitlist.NotifiedUsers, 1)

	// The freed event is the one the waitlist pass ran for.
	require.Len(t, fx.waitlist.notifyCalls, 1)
	assert.Equal(t, fx.eventID, fx.waitlist.notifyCalls[0])

	for _, id := range fx.ticketIDs {
		assert.Equal(t, tickets.StatusAvailable, fx.booker.tickets[id].Status)
	}
	assert.Equal(t, []string{booking.Number}, fx.notifier.cancellations)
}

func TestCancelBookingTwice(t *testing.T) {
	fx := newBookingFixture(t, 1)
	ctx := context.Background()

	booking, err := fx.service.CreateBooking(ctx, fx.eventID, &CreateBookingRequest{
		Name:      "Noor Haddad",
		Email:     "noor@example.com",
		TicketIDs: fx.ticketIDs,
	})
	require.NoError(t, err)

	_, err = fx.service.CancelBooking(ctx, booking.ID)
	require.NoError(t, err)

	_, err = fx.service.CancelBooking(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancelBookingNotFound(t *testing.T) {
	fx := newBookingFixture(t, 1)

	_, err := fx.service.CancelBooking(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
