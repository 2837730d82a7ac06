package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMonth(t *testing.T) {
	t.Parallel()

	month := NewMonth(2025, 10, catalogEvents(t))

	assert.Equal(t, "2025년 11월", month.Title)
	assert.Equal(t, []string{"일", "월", "화", "수", "목", "금", "토"}, month.Weekdays)
	assert.Equal(t, 6, month.Blanks, "2025-11-01 is a Saturday")
	require.Len(t, month.Days, 30)

	counts := map[int]int{}
	for _, day := range month.Days {
		counts[day.Day] = day.Events
	}

	assert.Equal(t, 2, counts[1])
	assert.Equal(t, 3, counts[15])
	assert.Equal(t, 2, counts[16])
	assert.Equal(t, 1, counts[30])
	assert.Equal(t, "2025-11-30", month.Days[29].Date)
}

func TestNewMonth_Shapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		year       int
		month      int
		wantDays   int
		wantBlanks int
	}{
		{name: "leap february", year: 2024, month: 1, wantDays: 29, wantBlanks: 4},
		{name: "february", year: 2025, month: 1, wantDays: 28, wantBlanks: 6},
		{name: "starts on sunday", year: 2026, month: 2, wantDays: 31, wantBlanks: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			month := NewMonth(tt.year, tt.month, nil)
			assert.Len(t, month.Days, tt.wantDays)
			assert.Equal(t, tt.wantBlanks, month.Blanks)

			for _, day := range month.Days {
				assert.Zero(t, day.Events)
			}
		})
	}
}
