package views

import (
	"context"
	"errors"
	"fmt"
	"time"

	"culture-events/core"
)

const (
	DefaultLevel   = 9
	HighlightCount = 4
)

var ErrWidgetTimeout = errors.New("map widget did not become available in time")

// DefaultCenter is Busan City Hall.
var DefaultCenter = LatLng{Lat: 35.1796, Lng: 129.0756}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Bounds struct {
	SouthWest LatLng `json:"southWest"`
	NorthEast LatLng `json:"northEast"`
}

func (b *Bounds) Extend(p LatLng) {
	b.SouthWest.Lat = min(b.SouthWest.Lat, p.Lat)
	b.SouthWest.Lng = min(b.SouthWest.Lng, p.Lng)
	b.NorthEast.Lat = max(b.NorthEast.Lat, p.Lat)
	b.NorthEast.Lng = max(b.NorthEast.Lng, p.Lng)
}

type Marker struct {
	Id       string `json:"id"`
	Title    string `json:"title"`
	Position LatLng `json:"position"`
}

type Popup struct {
	Title    string `json:"title"`
	Location string `json:"location"`
}

// Canvas is a map instance created by a Widget.
type Canvas interface {
	AddMarker(marker Marker)
	BindPopup(markerId string, popup Popup)
	FitBounds(bounds Bounds)
}

// Widget is the map SDK. It may take a while to become available after start.
type Widget interface {
	Available(ctx context.Context) bool
	NewMap(center LatLng, level int) Canvas
}

// WaitAvailable polls widget every interval until it is available, timeout elapses or ctx ends.
func WaitAvailable(ctx context.Context, widget Widget, interval time.Duration, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if widget.Available(waitCtx) {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return fmt.Errorf("waiting for map widget: %w", ctx.Err())
			}
			return ErrWidgetTimeout
		case <-ticker.C:
			if widget.Available(waitCtx) {
				return nil
			}
		}
	}
}

type Highlight struct {
	Id       string `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	ImageUrl string `json:"imageUrl"`
}

// Highlights lists the first HighlightCount events.
func Highlights(events []core.Event) []Highlight {
	highlights := make([]Highlight, 0, HighlightCount)
	for _, event := range events[:min(len(events), HighlightCount)] {
		highlights = append(highlights, Highlight{Id: event.Id, Title: event.Title, Location: event.Location, ImageUrl: event.ImageUrl})
	}

	return highlights
}

type MapRenderer struct {
	widget   Widget
	interval time.Duration
	timeout  time.Duration
}

func NewMapRenderer(widget Widget, interval time.Duration, timeout time.Duration) *MapRenderer {
	return &MapRenderer{widget: widget, interval: interval, timeout: timeout}
}

// Render waits for the widget and draws one marker with a click popup per event that has
// coordinates. The canvas is nil when the widget never became available.
func (r *MapRenderer) Render(ctx context.Context, events []core.Event) (Canvas, error) {
	err := WaitAvailable(ctx, r.widget, r.interval, r.timeout)
	if err != nil {
		return nil, err
	}

	canvas := r.widget.NewMap(DefaultCenter, DefaultLevel)

	var bounds *Bounds

	for _, event := range events {
		if event.Coordinates == nil {
			continue
		}

		position := LatLng{Lat: event.Coordinates.Lat, Lng: event.Coordinates.Lng}

		canvas.AddMarker(Marker{Id: event.Id, Title: event.Title, Position: position})
		canvas.BindPopup(event.Id, Popup{Title: event.Title, Location: event.Location})

		if bounds == nil {
			bounds = &Bounds{SouthWest: position, NorthEast: position}
		}

		bounds.Extend(position)
	}

	if bounds != nil {
		canvas.FitBounds(*bounds)
	}

	return canvas, nil
}
