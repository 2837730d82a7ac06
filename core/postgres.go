package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"culture-events/pkg/resources"
)

const selectCatalog = `SELECT id::text, title,
	to_char(date_start, 'YYYY-MM-DD'), to_char(date_end, 'YYYY-MM-DD'),
	location, image_url, category, description,
	price, "cast", lat, lng, parking, subway, bus
 FROM culture_events
 ORDER BY id`

// Repository reads the fallback dataset kept in Postgres. It never writes.
type Repository interface {
	LoadCatalog(ctx context.Context) (*Catalog, error)
}

type repository struct {
	tracer  trace.Tracer
	metrics *CatalogMetrics
	pool    resources.DBInstance
}

func NewRepository(pool resources.DBInstance) Repository {
	return &repository{
		tracer:  otel.GetTracerProvider().Tracer("culture-events/core"),
		metrics: NewCatalogMetrics(otel.GetMeterProvider()),
		pool:    pool,
	}
}

func (r *repository) LoadCatalog(ctx context.Context) (*Catalog, error) {
	start := time.Now()

	var (
		err  error
		size int
	)

	defer func() { r.metrics.Observe(ctx, start, size, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.LoadCatalog")
	defer span.End()

	rows, err := r.pool.Query(ctx, selectCatalog)
	if err != nil {
		return nil, fmt.Errorf("failed to query culture_events: %w", err)
	}
	defer rows.Close()

	var events []Event

	for rows.Next() {
		var (
			e                    Event
			category             string
			price, cast          *string
			lat, lng             *float64
			parking, subway, bus *string
		)

		err = rows.Scan(&e.Id, &e.Title, &e.DateStart, &e.DateEnd, &e.Location, &e.ImageUrl, &category, &e.Description,
			&price, &cast, &lat, &lng, &parking, &subway, &bus)
		if err != nil {
			return nil, fmt.Errorf("failed to scan culture_events row: %w", err)
		}

		e.Category = Category(category)
		e.Price, e.Cast = deref(price), deref(cast)

		if lat != nil && lng != nil {
			e.Coordinates = &Coordinates{Lat: *lat, Lng: *lng}
		}

		if parking != nil || subway != nil || bus != nil {
			e.Transport = &Transport{Parking: deref(parking), Subway: deref(subway), Bus: deref(bus)}
		}

		events = append(events, e)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to read culture_events: %w", err)
	}

	if len(events) == 0 {
		err = ErrEmptyCatalog
		return nil, err
	}

	catalog, err := NewCatalog("postgres", events)
	if err != nil {
		return nil, err
	}

	size = catalog.Len()
	span.SetAttributes(attribute.Int("catalog.size", size))

	return catalog, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

/*

 */

// CatalogMetrics records each load of the fallback catalog from Postgres.
type CatalogMetrics struct {
	loads    metric.Int64Counter
	rows     metric.Int64Histogram
	duration metric.Float64Histogram
}

func NewCatalogMetrics(provider metric.MeterProvider) *CatalogMetrics {
	meter := provider.Meter("culture-events/db")

	loads, _ := meter.Int64Counter("catalog.load.total", metric.WithDescription("Catalog loads by outcome."))
	rows, _ := meter.Int64Histogram("catalog.load.rows", metric.WithDescription("Events read by a successful load."))
	duration, _ := meter.Float64Histogram("catalog.load.duration", metric.WithUnit("s"))

	return &CatalogMetrics{loads: loads, rows: rows, duration: duration}
}

// Observe tags the load as ok, empty or error. Rows are only recorded for an ok load.
func (m *CatalogMetrics) Observe(ctx context.Context, start time.Time, size int, err error) {
	outcome := "ok"

	switch {
	case errors.Is(err, ErrEmptyCatalog):
		outcome = "empty"
	case err != nil:
		outcome = "error"
	}

	attrs := metric.WithAttributes(
		attribute.String("db.system", "postgres"),
		attribute.String("db.sql.table", "culture_events"),
		attribute.String("outcome", outcome),
	)

	m.loads.Add(ctx, 1, attrs)
	m.duration.Record(ctx, time.Since(start).Seconds(), attrs)

	if err == nil {
		m.rows.Record(ctx, int64(size), attrs)
	}
}
