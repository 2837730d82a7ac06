package core

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultFallbackDelay = 800 * time.Millisecond

type Fetcher interface {
	FetchEvents(ctx context.Context, query Query) Result
}

type ProviderOption func(*Provider)

// WithGenerator enables the remote path. A nil generator means no credential is configured.
func WithGenerator(generator Generator) ProviderOption {
	return func(p *Provider) { p.generator = generator }
}

// WithFallbackDelay sets the pause before answering from the catalog when no credential is configured.
func WithFallbackDelay(delay time.Duration) ProviderOption {
	return func(p *Provider) { p.fallbackDelay = delay }
}

func WithCity(city string) ProviderOption {
	return func(p *Provider) { p.city = city }
}

func WithMetrics(metrics *FetchMetrics) ProviderOption {
	return func(p *Provider) { p.metrics = metrics }
}

func WithImageURL(fn func() string) ProviderOption {
	return func(p *Provider) { p.imageURL = fn }
}

type Provider struct {
	catalog       *Catalog
	generator     Generator
	fallbackDelay time.Duration
	city          string
	metrics       *FetchMetrics
	imageURL      func() string
	tracer        trace.Tracer
}

func NewProvider(catalog *Catalog, opts ...ProviderOption) *Provider {
	p := &Provider{
		catalog:       catalog,
		fallbackDelay: DefaultFallbackDelay,
		city:          DefaultCity,
		imageURL:      RandomImageURL,
		tracer:        otel.GetTracerProvider().Tracer("culture-events/core"),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Provider) Remote() bool {
	return p.generator != nil
}

func (p *Provider) FetchEvents(ctx context.Context, query Query) Result {
	start := time.Now()

	ctx, span := p.tracer.Start(ctx, "provider.FetchEvents", trace.WithAttributes(
		attribute.Int("query.year", query.Year),
		attribute.Int("query.month", query.Month),
		attribute.String("query.category", string(query.Category)),
	))
	defer span.End()

	result := p.resolve(ctx, query)

	span.SetAttributes(
		attribute.String("result.source", string(result.Source)),
		attribute.String("result.reason", string(result.Reason)),
		attribute.Int("result.size", len(result.Events)),
	)
	if result.Err != nil {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, string(result.Reason))
	}

	p.metrics.Observe(query, result, start)

	return result
}

func (p *Provider) resolve(ctx context.Context, query Query) Result {
	logger := log.Ctx(ctx).With().Str("component", "provider").
		Int("year", query.Year).Int("month", query.Month).Str("category", string(query.Category)).Logger()

	if p.generator == nil {
		logger.Warn().Msg("no generation credential configured, using fallback events")

		timer := time.NewTimer(p.fallbackDelay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
		}

		return p.fallback(query, ReasonNoCredential, nil)
	}

	text, err := p.generator.Generate(ctx, NewGenerationRequest(query, p.city))
	if err != nil {
		logger.Error().Err(err).Msg("event generation failed")
		return p.fallback(query, ReasonNetworkError, err)
	}

	if strings.TrimSpace(text) == "" {
		logger.Warn().Msg("event generation returned no text")
		return p.fallback(query, ReasonEmptyResponse, ErrEmptyResponse)
	}

	events, err := ParseGenerated(text)
	if err != nil {
		logger.Error().Err(err).Msg("generated events could not be parsed")
		return p.fallback(query, ReasonParseError, err)
	}

	logger.Debug().Int("events", len(events)).Msg("generated events resolved")

	return Result{
		Events: p.normalize(events, query.Category),
		Source: SourceRemote,
	}
}

func (p *Provider) fallback(query Query, reason FallbackReason, err error) Result {
	return Result{
		Events: p.catalog.ByCategory(query.Category),
		Source: SourceFallback,
		Reason: reason,
		Err:    err,
	}
}

// normalize forces the requested category, replaces every image with a fresh placeholder
// and re-assigns repeated ids.
func (p *Provider) normalize(events []Event, category Category) []Event {
	seen := make(map[string]struct{}, len(events))
	out := make([]Event, 0, len(events))

	for _, event := range events {
		event.Category = category
		event.ImageUrl = p.imageURL()

		if _, dup := seen[event.Id]; dup {
			event.Id = uuid.NewString()
		}
		seen[event.Id] = struct{}{}

		out = append(out, event)
	}

	return out
}

// ParseGenerated decodes a generated JSON array and checks it against the event schema.
// The category is not checked because the provider overwrites it.
func ParseGenerated(text string) ([]Event, error) {
	var events []Event

	err := json.Unmarshal([]byte(text), &events)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBatch, err)
	}

	if events == nil {
		return nil, fmt.Errorf("%w: null batch", ErrMalformedBatch)
	}

	for i, event := range events {
		if !event.Category.Valid() {
			event.Category = CategoryFestival
		}

		err = ValidateEvent(event)
		if err != nil {
			return nil, fmt.Errorf("%w: event %d: %w", ErrMalformedBatch, i, err)
		}
	}

	return events, nil
}

func RandomImageURL() string {
	return fmt.Sprintf("https://picsum.photos/400/500?random=%d", rand.Int64())
}
