package storage

import (
	"errors"
	"testing"
	"time"
)

func TestComputeDueDate(t *testing.T) {
	ref := time.Date(2024, 4, 12, 15, 30, 0, 0, time.UTC)
	custom := time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		policy      DuePolicy
		specificDay int
		custom      time.Time
		want        time.Time
		wantErr     error
	}{
		{
			name:   "first of month",
			policy: DueFirstOfMonth,
			want:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "last of month",
			policy: DueLastOfMonth,
			want:   time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "specific day",
			policy:      DueSpecificDay,
			specificDay: 15,
			want:        time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "day 31 clamps in a 30-day month",
			policy:      DueSpecificDay,
			specificDay: 31,
			want:        time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "specific day below 1 is rejected",
			policy:      DueSpecificDay,
			specificDay: 0,
			wantErr:     ErrDuePolicy,
		},
		{
			name:   "custom date passes through",
			policy: DueCustom,
			custom: custom,
			want:   custom,
		},
		{
			name:    "custom zero value is rejected",
			policy:  DueCustom,
			wantErr: ErrDuePolicy,
		},
		{
			name:    "unknown policy is rejected",
			policy:  DuePolicy("whenever"),
			wantErr: ErrDuePolicy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDueDate(tt.policy, tt.specificDay, tt.custom, ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestComputeDueDateFebruaryClamp(t *testing.T) {
	// 2023 is not a leap year.
	ref := time.Date(2023, 2, 5, 0, 0, 0, 0, time.UTC)
	got, err := ComputeDueDate(DueSpecificDay, 30, time.Time{}, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}
