package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scrapbid/marketplace/internal/model"
)

func TestDigestDue(t *testing.T) {
	sunday := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)   // Sunday and the 1st
	monday := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)   // Monday the 2nd
	firstWed := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC) // Wednesday the 1st

	tests := []struct {
		name      string
		frequency string
		day       time.Time
		want      bool
	}{
		{name: "daily_any_day", frequency: model.FreqDaily, day: monday, want: true},
		{name: "weekly_on_sunday", frequency: model.FreqWeekly, day: sunday, want: true},
		{name: "weekly_on_monday", frequency: model.FreqWeekly, day: monday, want: false},
		{name: "monthly_on_first", frequency: model.FreqMonthly, day: firstWed, want: true},
		{name: "monthly_on_second", frequency: model.FreqMonthly, day: monday, want: false},
		{name: "monthly_sunday_first", frequency: model.FreqMonthly, day: sunday, want: true},
		{name: "unknown_frequency", frequency: "hourly", day: sunday, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DigestDue(tc.frequency, tc.day))
		})
	}
}
