package core

import (
	"strings"
	"time"
)

// FilterByDay keeps the events whose [dateStart, dateEnd] range contains day.
// Events with unparseable dates never match.
func FilterByDay(events []Event, day time.Time) []Event {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	filtered := make([]Event, 0, len(events))
	for _, event := range events {
		start, end := event.Span()
		if start.IsZero() {
			continue
		}

		if !day.Before(start) && !day.After(end) {
			filtered = append(filtered, event)
		}
	}

	return filtered
}

// FilterByQuery matches q case-insensitively against title, location, description and cast.
func FilterByQuery(events []Event, q string) []Event {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return events
	}

	filtered := make([]Event, 0, len(events))
	for _, event := range events {
		for _, field := range []string{event.Title, event.Location, event.Description, event.Cast} {
			if strings.Contains(strings.ToLower(field), q) {
				filtered = append(filtered, event)
				break
			}
		}
	}

	return filtered
}

// ParseDay reads a YYYY-MM-DD day and checks it falls inside the month of query.
func ParseDay(raw string, query Query) (time.Time, error) {
	day, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidDay
	}

	if day.Year() != query.Year || int(day.Month())-1 != query.Month {
		return time.Time{}, ErrInvalidDay
	}

	return day, nil
}
