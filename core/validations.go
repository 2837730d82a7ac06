package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

func ValidateEvent(event Event) error {
	required := []struct {
		name  string
		value string
	}{
		{"id", event.Id},
		{"title", event.Title},
		{"dateStart", event.DateStart},
		{"dateEnd", event.DateEnd},
		{"location", event.Location},
		{"imageUrl", event.ImageUrl},
		{"description", event.Description},
	}
	for _, field := range required {
		if len(strings.TrimSpace(field.value)) == 0 {
			return fmt.Errorf("%s is required", field.name)
		}
	}

	if !event.Category.Valid() {
		return fmt.Errorf("category %q is not supported", event.Category)
	}

	start, err := time.Parse(DateLayout, event.DateStart)
	if err != nil {
		return fmt.Errorf("dateStart must use YYYY-MM-DD: %w", err)
	}

	end, err := time.Parse(DateLayout, event.DateEnd)
	if err != nil {
		return fmt.Errorf("dateEnd must use YYYY-MM-DD: %w", err)
	}

	if end.Before(start) {
		return errors.New("dateEnd must not be before dateStart")
	}

	if c := event.Coordinates; c != nil {
		if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
			return fmt.Errorf("coordinates (%g, %g) are out of range", c.Lat, c.Lng)
		}
	}

	return nil
}

// ValidateBatch checks every event and the uniqueness of non-blank ids.
func ValidateBatch(events []Event) error {
	seen := make(map[string]struct{}, len(events))

	for i, event := range events {
		err := ValidateEvent(event)
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}

		if _, ok := seen[event.Id]; ok {
			return fmt.Errorf("event %d: %w: %s", i, ErrDuplicateId, event.Id)
		}
		seen[event.Id] = struct{}{}
	}

	return nil
}
