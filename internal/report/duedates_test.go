package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/starsgrow/libertad-financiera/internal/storage"
)

func TestDaysUntilDue(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{"due later today", time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC), 1},
		{"due exactly now", now, 0},
		{"due tomorrow morning", time.Date(2024, 5, 11, 8, 0, 0, 0, time.UTC), 1},
		{"due in three days", now.AddDate(0, 0, 3), 3},
		{"overdue by one day", now.AddDate(0, 0, -1), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntilDue(tt.due, now); got != tt.want {
				t.Fatalf("want %d, got %d", tt.want, got)
			}
		})
	}
}

func TestUrgencyOf(t *testing.T) {
	tests := []struct {
		days int
		want Urgency
	}{
		{-3, UrgencyOverdue},
		{0, UrgencyOverdue},
		{1, UrgencyDueSoon},
		{3, UrgencyDueSoon},
		{4, UrgencyDueLater},
		{5, UrgencyDueLater},
		{6, UrgencyNormal},
		{30, UrgencyNormal},
	}
	for _, tt := range tests {
		if got := UrgencyOf(tt.days); got != tt.want {
			t.Fatalf("UrgencyOf(%d): want %d, got %d", tt.days, tt.want, got)
		}
	}
}

func TestUpcoming(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	amount := decimal.NewFromInt(100)

	expenses := []storage.FixedExpense{
		{ID: "in-window", Name: "Internet", Amount: amount, DueDate: now.AddDate(0, 0, 3)},
		{ID: "overdue-1", Name: "Rent", Amount: amount, DueDate: now.AddDate(0, 0, -1)},
		{ID: "too-far", Name: "Insurance", Amount: amount, DueDate: now.AddDate(0, 0, 10)},
		{ID: "too-old", Name: "Water", Amount: amount, DueDate: now.AddDate(0, 0, -5)},
		{ID: "paid", Name: "Gym", Amount: amount, DueDate: now.AddDate(0, 0, 2), IsPaid: true},
	}

	got := Upcoming(expenses, now)
	if len(got) != 2 {
		t.Fatalf("want 2 upcoming, got %d", len(got))
	}
	// Soonest first.
	if got[0].ID != "overdue-1" || got[1].ID != "in-window" {
		t.Fatalf("bad order: %s, %s", got[0].ID, got[1].ID)
	}
}
