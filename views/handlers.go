package views

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"culture-events/core"
)

type MapView struct {
	WidgetReady bool                `json:"widgetReady"`
	Scene       Canvas              `json:"scene,omitempty"`
	Highlights  []Highlight         `json:"highlights"`
	Source      core.Source         `json:"source"`
	Reason      core.FallbackReason `json:"reason,omitempty"`
}

type CalendarView struct {
	Month
	Source core.Source         `json:"source"`
	Reason core.FallbackReason `json:"reason,omitempty"`
}

type Handlers interface {
	GetGrid(gctx *gin.Context)
	GetCalendar(gctx *gin.Context)
	GetMap(gctx *gin.Context)
}

type handlers struct {
	fetcher core.Fetcher
	maps    *MapRenderer
}

func NewHandlers(fetcher core.Fetcher, maps *MapRenderer) Handlers {
	return &handlers{fetcher: fetcher, maps: maps}
}

func (h *handlers) GetGrid(gctx *gin.Context) {
	request, result, ok := core.FetchRequested(gctx, h.fetcher)
	if !ok {
		return
	}

	result.Events = request.Apply(result.Events)

	var buf bytes.Buffer

	err := RenderGrid(&buf, NewGrid(result.Events, false, request.HasSearch()))
	if err != nil {
		log.Ctx(gctx.Request.Context()).Error().Err(err).Msg("failed to render grid")
		gctx.AbortWithStatusJSON(http.StatusInternalServerError, core.NewError("failed to render grid", err))

		return
	}

	gctx.Header("X-Events-Source", string(result.Source))
	gctx.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *handlers) GetCalendar(gctx *gin.Context) {
	request, result, ok := core.FetchRequested(gctx, h.fetcher)
	if !ok {
		return
	}

	// the whole month is counted, only the search narrows it
	gctx.JSON(http.StatusOK, CalendarView{
		Month:  NewMonth(request.Query.Year, request.Query.Month, core.FilterByQuery(result.Events, request.Search)),
		Source: result.Source,
		Reason: result.Reason,
	})
}

// GetMap answers with widgetReady=false and no scene when the map widget is not available in time.
func (h *handlers) GetMap(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	request, result, ok := core.FetchRequested(gctx, h.fetcher)
	if !ok {
		return
	}

	result.Events = request.Apply(result.Events)

	view := MapView{Highlights: Highlights(result.Events), Source: result.Source, Reason: result.Reason}

	canvas, err := h.maps.Render(ctx, result.Events)
	switch {
	case err == nil:
		view.WidgetReady = true
		view.Scene = canvas
	case errors.Is(err, ErrWidgetTimeout):
		log.Ctx(ctx).Warn().Err(err).Msg("map widget unavailable")
	default:
		log.Ctx(ctx).Info().Err(err).Msg("map rendering cancelled")
	}

	gctx.JSON(http.StatusOK, view)
}
