package report

import (
	"math"
	"sort"
	"time"

	"github.com/starsgrow/libertad-financiera/internal/storage"
)

type Urgency int

const (
	// UrgencyOverdue covers overdue and due-today (days until due <= 0).
	UrgencyOverdue Urgency = iota
	UrgencyDueSoon
	UrgencyDueLater
	UrgencyNormal
)

// DaysUntilDue counts whole days between now and the due date, rounding
// partial days up, so a bill due later today reports 0 and one due
// tomorrow morning reports 1.
func DaysUntilDue(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

func UrgencyOf(daysUntilDue int) Urgency {
	switch {
	case daysUntilDue <= 0:
		return UrgencyOverdue
	case daysUntilDue <= 3:
		return UrgencyDueSoon
	case daysUntilDue <= 5:
		return UrgencyDueLater
	default:
		return UrgencyNormal
	}
}

// Upcoming returns the unpaid expenses worth surfacing: due within the
// next 5 days or overdue by at most 1, ordered soonest first.
func Upcoming(expenses []storage.FixedExpense, now time.Time) []storage.FixedExpense {
	var upcoming []storage.FixedExpense
	for _, e := range expenses {
		if e.IsPaid {
			continue
		}
		days := DaysUntilDue(e.DueDate, now)
		if days >= -1 && days <= 5 {
			upcoming = append(upcoming, e)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(upcoming[j].DueDate)
	})
	return upcoming
}
