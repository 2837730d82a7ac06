package views

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

type SceneMarker struct {
	Marker
	Popup *Popup `json:"popup,omitempty"`
}

// Scene is a map drawn as data, for the browser to replay on the real map SDK.
type Scene struct {
	Center  LatLng        `json:"center"`
	Level   int           `json:"level"`
	Markers []SceneMarker `json:"markers"`
	Bounds  *Bounds       `json:"bounds,omitempty"`
}

func (s *Scene) AddMarker(marker Marker) {
	s.Markers = append(s.Markers, SceneMarker{Marker: marker})
}

func (s *Scene) BindPopup(markerId string, popup Popup) {
	for i := range s.Markers {
		if s.Markers[i].Id == markerId {
			s.Markers[i].Popup = &popup
			return
		}
	}
}

func (s *Scene) FitBounds(bounds Bounds) {
	s.Bounds = &bounds
}

// SceneWidget is available once the map SDK script answers. An empty sdkURL means always available.
type SceneWidget struct {
	client    *http.Client
	sdkURL    string
	available atomic.Bool
}

func NewSceneWidget(sdkURL string, client *http.Client) *SceneWidget {
	if client == nil {
		client = http.DefaultClient
	}

	widget := &SceneWidget{client: client, sdkURL: sdkURL}
	widget.available.Store(sdkURL == "")

	return widget
}

func (w *SceneWidget) Available(ctx context.Context) bool {
	if w.available.Load() {
		return true
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, w.sdkURL, nil)
	if err != nil {
		return false
	}

	resp, err := w.client.Do(req)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("url", w.sdkURL).Msg("map sdk not reachable")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false
	}

	w.available.Store(true)

	return true
}

func (w *SceneWidget) NewMap(center LatLng, level int) Canvas {
	return &Scene{Center: center, Level: level, Markers: []SceneMarker{}}
}
