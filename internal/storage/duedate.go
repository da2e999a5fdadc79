package storage

import (
	"errors"
	"time"
)

type DuePolicy string

const (
	DueFirstOfMonth DuePolicy = "first"
	DueLastOfMonth  DuePolicy = "last"
	DueSpecificDay  DuePolicy = "specific"
	DueCustom       DuePolicy = "custom"
)

var ErrDuePolicy = errors.New("invalid due date policy")

// ComputeDueDate resolves a due-date policy against the month of ref.
// A specific day past the end of the month clamps to the month's last
// day (day 31 in a 30-day month becomes day 30).
func ComputeDueDate(policy DuePolicy, specificDay int, custom time.Time, ref time.Time) (time.Time, error) {
	year, month, _ := ref.Date()
	loc := ref.Location()
	switch policy {
	case DueFirstOfMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, loc), nil
	case DueLastOfMonth:
		return time.Date(year, month+1, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1), nil
	case DueSpecificDay:
		if specificDay < 1 {
			return time.Time{}, ErrDuePolicy
		}
		lastDay := time.Date(year, month+1, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1).Day()
		day := specificDay
		if day > lastDay {
			day = lastDay
		}
		return time.Date(year, month, day, 0, 0, 0, 0, loc), nil
	case DueCustom:
		if custom.IsZero() {
			return time.Time{}, ErrDuePolicy
		}
		return custom, nil
	default:
		return time.Time{}, ErrDuePolicy
	}
}
