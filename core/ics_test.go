package core

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteICS(t *testing.T) {
	t.Parallel()

	catalog, err := EmbeddedCatalog()
	require.NoError(t, err)

	query := Query{Year: 2025, Month: 10, Category: CategoryPerformance}
	stamp := time.Date(2025, time.October, 1, 9, 30, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, query, catalog.ByCategory(CategoryPerformance), stamp))

	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Equal(t, 3, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "X-WR-CALNAME:PERFORMANCE 2025-11\r\n")
	assert.Contains(t, out, "DTSTAMP:20251001T093000Z\r\n")

	// id 3 runs 2025-11-01..04, DTEND is exclusive
	assert.Contains(t, out, "UID:3-20251101@culture-events\r\n")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20251101\r\nDTEND;VALUE=DATE:20251105\r\n")
	assert.Contains(t, out, "GEO:35.169100;129.136100\r\n")
}

func TestWriteICS_EscapesAndSkips(t *testing.T) {
	t.Parallel()

	good := validEvent()
	good.Title = "Rock, Paper; Scissors"
	good.Description = "line one\nline two"

	broken := validEvent()
	broken.Id = "2"
	broken.DateStart = "tomorrow"

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, Query{Year: 2025, Month: 10, Category: CategoryFestival}, []Event{good, broken}, time.Now()))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, `SUMMARY:Rock\, Paper\; Scissors`)
	assert.Contains(t, out, `DESCRIPTION:line one\nline two`)
}
