package core

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultModel     = "gemini-2.5-flash"
	DefaultCity      = "Busan, South Korea"
	GeneratedPerCall = 6
)

type GenerationRequest struct {
	Query  Query
	City   string
	Prompt string
	Schema *genai.Schema
}

// Generator asks a generative service for a batch of events and returns the raw response text.
type Generator interface {
	Generate(ctx context.Context, request GenerationRequest) (string, error)
}

func NewGenerationRequest(query Query, city string) GenerationRequest {
	if city == "" {
		city = DefaultCity
	}

	return GenerationRequest{
		Query:  query,
		City:   city,
		Prompt: BuildPrompt(query, city),
		Schema: EventSchema(),
	}
}

func BuildPrompt(query Query, city string) string {
	kind := "Festival/Event (Fireworks, Outdoor, Community)"
	if query.Category == CategoryPerformance {
		kind = "Performance/Exhibition (Art, Music, Theater)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d realistic cultural events for %s.\n", GeneratedPerCall, city)
	fmt.Fprintf(&b, "Year: %d\n", query.Year)
	fmt.Fprintf(&b, "Month: %d\n", query.Month+1)
	fmt.Fprintf(&b, "Category: %s\n\n", kind)
	b.WriteString("Ensure the dates are within this specific month.\n")
	if city == DefaultCity {
		b.WriteString("Use realistic location names in Busan (e.g., BEXCO, Gwangalli, Busan Cultural Center).\n")
	} else {
		fmt.Fprintf(&b, "Use realistic venue and location names in %s.\n", city)
	}
	b.WriteString("Provide realistic pricing, cast info (or '-'), and transport info (parking, subway, bus).\n")
	fmt.Fprintf(&b, "For coordinates, provide approximate lat/lng for the location in %s.\n", city)
	b.WriteString("For image URLs, use placeholder images from picsum.photos.\n")

	return b.String()
}

// EventSchema constrains the generated response to an array of events.
func EventSchema() *genai.Schema {
	str := func(description string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: description}
	}

	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":          str(""),
				"title":       str(""),
				"dateStart":   str("YYYY-MM-DD format"),
				"dateEnd":     str("YYYY-MM-DD format"),
				"location":    str(""),
				"imageUrl":    str(""),
				"category":    {Type: genai.TypeString, Enum: []string{string(CategoryPerformance), string(CategoryFestival)}},
				"description": str(""),
				"price":       str(""),
				"cast":        str(""),
				"coordinates": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"lat": {Type: genai.TypeNumber},
						"lng": {Type: genai.TypeNumber},
					},
				},
				"transport": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"parking": str(""),
						"subway":  str(""),
						"bus":     str(""),
					},
				},
			},
			Required: []string{"id", "title", "dateStart", "dateEnd", "location", "imageUrl", "category", "description"},
		},
	}
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, request GenerationRequest) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(request.Prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   request.Schema,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	return resp.Text(), nil
}
