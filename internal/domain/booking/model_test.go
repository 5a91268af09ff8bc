package booking_test

import (
	"testing"

	"gudlft/internal/domain/booking"
)

func TestBooking_Validate(t *testing.T) {
	valid := booking.Booking{ID: "b1", ClubName: "Simply Lift", CompetitionName: "Spring Festival", Places: 2, PointsSpent: 6}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(b *booking.Booking)
	}{
		{"missing id", func(b *booking.Booking) { b.ID = "" }},
		{"missing club", func(b *booking.Booking) { b.ClubName = "" }},
		{"missing competition", func(b *booking.Booking) { b.CompetitionName = "" }},
		{"zero places", func(b *booking.Booking) { b.Places = 0 }},
		{"negative points", func(b *booking.Booking) { b.PointsSpent = -3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid
			tt.mutate(&b)
			if err := b.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNewReference(t *testing.T) {
	got := booking.NewReference("Spring Festival", "Simply Lift", "3f2a9c1d-1111-2222-3333-444455556666")
	want := "spring-festival-simply-lift-3f2a9c1d"
	if got != want {
		t.Errorf("NewReference = %q, want %q", got, want)
	}
}
