package core

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// EventsRequest is the query string shared by every /events route.
type EventsRequest struct {
	Query  Query
	Day    time.Time
	Search string
}

type eventsParams struct {
	Year     *int   `form:"year"`
	Month    *int   `form:"month"`
	Category string `form:"category"`
	Day      string `form:"day"`
	Q        string `form:"q"`
}

// ParseEventsRequest binds year, month (0-11), category and the optional day and q filters.
// A missing year or month defaults to the current one.
func ParseEventsRequest(gctx *gin.Context) (EventsRequest, error) {
	var params eventsParams

	err := gctx.ShouldBindQuery(&params)
	if err != nil {
		return EventsRequest{}, fmt.Errorf("invalid query string: %w", err)
	}

	now := time.Now()
	request := EventsRequest{
		Query:  Query{Year: now.Year(), Month: int(now.Month()) - 1, Category: Category(params.Category)},
		Search: strings.TrimSpace(params.Q),
	}

	if params.Year != nil {
		request.Query.Year = *params.Year
	}

	if params.Month != nil {
		request.Query.Month = *params.Month
	}

	err = request.Query.Validate()
	if err != nil {
		return EventsRequest{}, err
	}

	if params.Day != "" {
		request.Day, err = ParseDay(params.Day, request.Query)
		if err != nil {
			return EventsRequest{}, err
		}
	}

	return request, nil
}

func (r EventsRequest) HasSearch() bool {
	return r.Search != ""
}

// Apply narrows a fetched batch to the requested day and search text.
func (r EventsRequest) Apply(events []Event) []Event {
	if !r.Day.IsZero() {
		events = FilterByDay(events, r.Day)
	}

	return FilterByQuery(events, r.Search)
}

// FetchRequested parses the request and runs the fetch. Filters are left to the caller.
// It aborts with 400 and returns false when the query string is invalid.
func FetchRequested(gctx *gin.Context, fetcher Fetcher) (EventsRequest, Result, bool) {
	ctx := gctx.Request.Context()

	request, err := ParseEventsRequest(gctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("invalid events query")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("invalid events query", err))

		return EventsRequest{}, Result{}, false
	}

	result := fetcher.FetchEvents(ctx, request.Query)
	if result.Degraded() {
		log.Ctx(ctx).Info().Str("reason", string(result.Reason)).Msg("serving fallback events")
	}

	return request, result, true
}

type Handlers interface {
	GetEvents(gctx *gin.Context)
	GetEventsICS(gctx *gin.Context)
}

type handlers struct {
	fetcher Fetcher
}

func NewHandlers(fetcher Fetcher) Handlers {
	return &handlers{fetcher: fetcher}
}

// GetEvents serves GET /events. Fetch failures degrade to the fallback dataset, never to 5xx.
func (h *handlers) GetEvents(gctx *gin.Context) {
	request, result, ok := FetchRequested(gctx, h.fetcher)
	if !ok {
		return
	}

	result.Events = request.Apply(result.Events)

	gctx.JSON(http.StatusOK, result)
}

func (h *handlers) GetEventsICS(gctx *gin.Context) {
	request, result, ok := FetchRequested(gctx, h.fetcher)
	if !ok {
		return
	}

	result.Events = request.Apply(result.Events)

	filename := fmt.Sprintf("culture-events_%s_%04d-%02d.ics",
		strings.ToLower(string(request.Query.Category)), request.Query.Year, request.Query.Month+1)

	gctx.Header("Content-Type", "text/calendar; charset=utf-8")
	gctx.Header("Content-Disposition", "attachment; filename="+filename)
	gctx.Status(http.StatusOK)

	err := WriteICS(gctx.Writer, request.Query, result.Events, time.Now())
	if err != nil {
		log.Ctx(gctx.Request.Context()).Error().Err(err).Msg("failed to write calendar export")
	}
}
