package views

import (
	"fmt"
	"time"

	"culture-events/core"
)

// Weekdays are the column labels of the month grid, starting on Sunday.
var Weekdays = []string{"일", "월", "화", "수", "목", "금", "토"}

type Day struct {
	Date   string `json:"date"`
	Day    int    `json:"day"`
	Events int    `json:"events"`
}

type Month struct {
	Year     int      `json:"year"`
	Month    int      `json:"month"`
	Title    string   `json:"title"`
	Weekdays []string `json:"weekdays"`
	Blanks   int      `json:"blanks"`
	Days     []Day    `json:"days"`
}

// NewMonth lays out a zero based month with the number of events running on each day.
func NewMonth(year int, month int, events []core.Event) Month {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	days := make([]Day, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, Day{
			Date:   d.Format(core.DateLayout),
			Day:    d.Day(),
			Events: len(core.FilterByDay(events, d)),
		})
	}

	return Month{
		Year:     year,
		Month:    month,
		Title:    fmt.Sprintf("%d년 %d월", year, month+1),
		Weekdays: Weekdays,
		Blanks:   int(first.Weekday()),
		Days:     days,
	}
}
