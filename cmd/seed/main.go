package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"nexusems/internal/bookings"
	"nexusems/internal/discounts"
	"nexusems/internal/events"
	"nexusems/internal/organizers"
	"nexusems/internal/shared/config"
	"nexusems/internal/shared/database"
	"nexusems/internal/tickets"
	"nexusems/internal/waitlist"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting NexusEMS database seeder...")

	cfg := config.Load()

	// InitDB runs the automigrations before returning.
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"waitlist_entries",
		"payments",
		"booked_seats",
		"bookings",
		"discounts",
		"tickets",
		"event_assets",
		"ticket_types",
		"events",
		"accounts",
	}

	for _, table := range tables {
		if err := s.db.GetPostgreSQL().Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("failed to clean table %s: %w", table, err)
		}
	}
	if err := s.db.GetPostgreSQL().Exec("ALTER SEQUENCE event_refs RESTART WITH 1").Error; err != nil {
		return fmt.Errorf("failed to reset event ref sequence: %w", err)
	}
	return nil
}

// SeedAll inserts a demo organizer, admin, event with seating, a promo code
// and a few waitlist entries.
func (s *Seeder) SeedAll() error {
	gdb := s.db.GetPostgreSQL()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := organizers.Account{
		FirstName:    "Ada",
		LastName:     "Lords",
		Email:        "admin@nexusems.io",
		PasswordHash: string(hash),
		Role:         organizers.RoleAdmin,
	}
	organizer := organizers.Account{
		FirstName:    "Olu",
		LastName:     "Farrell",
		Email:        "organizer@nexusems.io",
		Phone:        "+1-555-0142",
		PasswordHash: string(hash),
		Role:         organizers.RoleOrganizer,
	}
	if err := gdb.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if err := gdb.Create(&organizer).Error; err != nil {
		return fmt.Errorf("failed to seed organizer: %w", err)
	}

	var ref int64
	if err := gdb.Raw("SELECT nextval('event_refs')").Scan(&ref).Error; err != nil {
		return fmt.Errorf("failed to allocate event ref: %w", err)
	}

	start := time.Now().AddDate(0, 1, 0).Truncate(time.Hour)
	event := events.Event{
		Ref:         fmt.Sprintf("E-%03d", ref),
		Name:        "Harbor Lights Music Festival",
		Description: "Two stages, one waterfront, all night.",
		Venue:       "Pier 9 Amphitheatre",
		StartTime:   start,
		EndTime:     start.Add(6 * time.Hour),
		OrganizerID: organizer.ID,
		TicketTypes: []events.TicketType{
			{Name: "General", Price: decimal.NewFromInt(45), Color: "#4caf50", SortOrder: 0},
			{Name: "VIP", Price: decimal.NewFromInt(120), Color: "#ff9800", SortOrder: 1},
		},
	}
	if err := gdb.Create(&event).Error; err != nil {
		return fmt.Errorf("failed to seed event: %w", err)
	}

	var seats []tickets.Ticket
	for _, row := range []string{"A", "B"} {
		for seat := 1; seat <= 10; seat++ {
			seats = append(seats, tickets.Ticket{
				EventID:    event.ID,
				TypeName:   "General",
				Zone:       "MAIN",
				Row:        row,
				SeatNumber: seat,
				Price:      decimal.NewFromInt(45),
				Status:     tickets.StatusAvailable,
			})
		}
	}
	if err := gdb.Create(&seats).Error; err != nil {
		return fmt.Errorf("failed to seed tickets: %w", err)
	}

	discount := discounts.Discount{
		Code:       "EARLYBIRD",
		Type:       discounts.TypePercentage,
		Value:      decimal.NewFromInt(10),
		EventID:    &event.ID,
		ValidFrom:  time.Now().AddDate(0, 0, -1),
		ValidUntil: start,
	}
	if err := gdb.Create(&discount).Error; err != nil {
		return fmt.Errorf("failed to seed discount: %w", err)
	}

	// Book a couple of seats so the waitlist has something to wait for.
	booked := []uuid.UUID{seats[0].ID, seats[1].ID}
	if err := gdb.Model(&tickets.Ticket{}).
		Where("id IN ?", booked).
		Update("status", tickets.StatusBooked).Error; err != nil {
		return fmt.Errorf("failed to mark seeded tickets booked: %w", err)
	}
	booking := bookings.Booking{
		Number:        bookings.NewBookingNumber(),
		EventID:       event.ID,
		AttendeeName:  "Noor Haddad",
		AttendeeEmail: "noor@example.com",
		Status:        bookings.StatusConfirmed,
		Subtotal:      decimal.NewFromInt(90),
		Total:         decimal.NewFromInt(90),
		Seats: []bookings.BookedSeat{
			{TicketID: seats[0].ID, Zone: "MAIN", Row: "A", SeatNumber: 1, Price: decimal.NewFromInt(45)},
			{TicketID: seats[1].ID, Zone: "MAIN", Row: "A", SeatNumber: 2, Price: decimal.NewFromInt(45)},
		},
		Payment: &bookings.Payment{
			Amount:    decimal.NewFromInt(90),
			Status:    bookings.PaymentStatusPaid,
			Reference: fmt.Sprintf("PAY-%s", uuid.NewString()),
		},
	}
	if err := gdb.Create(&booking).Error; err != nil {
		return fmt.Errorf("failed to seed booking: %w", err)
	}

	base := time.Now().Add(-time.Hour)
	names := []struct{ name, email string }{
		{"Tomás Rivera", "tomas@example.com"},
		{"Mei Chen", "mei@example.com"},
		{"Ivan Petrov", "ivan@example.com"},
	}
	for i, n := range names {
		entry := waitlist.Entry{
			ID:        waitlist.NewEntryID(base.Add(time.Duration(i) * time.Minute)),
			EventID:   event.ID,
			Name:      n.name,
			Email:     n.email,
			Status:    waitlist.StatusWaiting,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := gdb.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to seed waitlist entry: %w", err)
		}
	}

	fmt.Printf("Seeded event %s with %d seats, 1 booking, 3 waitlist entries\n", event.Ref, len(seats))
	fmt.Println("Login: admin@nexusems.io / password123")
	return nil
}
