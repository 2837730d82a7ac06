package core

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var fallbackYAML []byte

// Catalog is the immutable fallback dataset. It is built once at start and only hands out copies.
type Catalog struct {
	events []Event
	origin string
}

func NewCatalog(origin string, events []Event) (*Catalog, error) {
	err := ValidateBatch(events)
	if err != nil {
		return nil, fmt.Errorf("invalid %s catalog: %w", origin, err)
	}

	return &Catalog{events: cloneEvents(events), origin: origin}, nil
}

// EmbeddedCatalog parses the dataset compiled into the binary.
func EmbeddedCatalog() (*Catalog, error) {
	var events []Event

	err := yaml.Unmarshal(fallbackYAML, &events)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}

	return NewCatalog("embedded", events)
}

func (c *Catalog) Origin() string {
	return c.origin
}

func (c *Catalog) Len() int {
	return len(c.events)
}

func (c *Catalog) All() []Event {
	return cloneEvents(c.events)
}

func (c *Catalog) ByCategory(category Category) []Event {
	out := make([]Event, 0, len(c.events))
	for _, event := range c.events {
		if event.Category == category {
			out = append(out, cloneEvent(event))
		}
	}

	return out
}

func cloneEvents(events []Event) []Event {
	out := make([]Event, len(events))
	for i, event := range events {
		out[i] = cloneEvent(event)
	}

	return out
}

func cloneEvent(event Event) Event {
	if event.Coordinates != nil {
		coordinates := *event.Coordinates
		event.Coordinates = &coordinates
	}

	if event.Transport != nil {
		transport := *event.Transport
		event.Transport = &transport
	}

	return event
}
