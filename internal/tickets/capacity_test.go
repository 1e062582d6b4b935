package tickets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountAvailable(t *testing.T) {
	cases := []struct {
		name     string
		statuses []Status
		want     int
	}{
		{"empty", nil, 0},
		{"all available", []Status{StatusAvailable, StatusAvailable}, 2},
		{"all booked", []Status{StatusBooked, StatusBooked, StatusBooked}, 0},
		{"mixed", []Status{StatusAvailable, StatusBooked, StatusAvailable, StatusBooked, StatusBooked}, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := make([]Ticket, 0, len(tc.statuses))
			for _, st := range tc.statuses {
				ts = append(ts, Ticket{Status: st})
			}
			assert.Equal(t, tc.want, CountAvailable(ts))
		})
	}
}

func TestIsAvailable(t *testing.T) {
	assert.True(t, (&Ticket{Status: StatusAvailable}).IsAvailable())
	assert.False(t, (&Ticket{Status: StatusBooked}).IsAvailable())
}
