package database

import (
	"fmt"
	"log"

	"nexusems/internal/bookings"
	"nexusems/internal/discounts"
	"nexusems/internal/events"
	"nexusems/internal/organizers"
	"nexusems/internal/tickets"
	"nexusems/internal/waitlist"

	"gorm.io/gorm"
)

// Migrate runs GORM auto-migrations for all domain models
func Migrate(db *gorm.DB) error {
	// Enable the uuid extension before any table that defaults to uuid_generate_v4()
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid extension: %w", err)
	}

	models := []interface{}{
		&organizers.Account{},
		&events.Event{},
		&events.TicketType{},
		&events.EventAsset{},
		&tickets.Ticket{},
		&discounts.Discount{},
		&bookings.Booking{},
		&bookings.BookedSeat{},
		&bookings.Payment{},
		&waitlist.Entry{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	// Monotonic external event references (E-001, E-002, ...)
	if err := db.Exec(`CREATE SEQUENCE IF NOT EXISTS event_refs START 1`).Error; err != nil {
		return fmt.Errorf("failed to create event ref sequence: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}
