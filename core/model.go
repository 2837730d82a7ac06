package core

import "time"

// DateLayout is the calendar-day format used by every date field of an Event.
const DateLayout = "2006-01-02"

type Category string

const (
	CategoryPerformance Category = "PERFORMANCE"
	CategoryFestival    Category = "FESTIVAL"
)

var Categories = []Category{CategoryPerformance, CategoryFestival}

func (c Category) Valid() bool {
	return c == CategoryPerformance || c == CategoryFestival
}

func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if !c.Valid() {
		return "", ErrInvalidCategory
	}

	return c, nil
}

type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

type Transport struct {
	Parking string `json:"parking,omitempty" yaml:"parking,omitempty"`
	Subway  string `json:"subway,omitempty" yaml:"subway,omitempty"`
	Bus     string `json:"bus,omitempty" yaml:"bus,omitempty"`
}

type Event struct {
	Id          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	DateStart   string       `json:"dateStart" yaml:"dateStart"`
	DateEnd     string       `json:"dateEnd" yaml:"dateEnd"`
	Location    string       `json:"location" yaml:"location"`
	ImageUrl    string       `json:"imageUrl" yaml:"imageUrl"`
	Category    Category     `json:"category" yaml:"category"`
	Description string       `json:"description" yaml:"description"`
	Price       string       `json:"price,omitempty" yaml:"price,omitempty"`
	Cast        string       `json:"cast,omitempty" yaml:"cast,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	Transport   *Transport   `json:"transport,omitempty" yaml:"transport,omitempty"`
}

// Span returns the first and last day of the event. Both are zero when a date does not parse.
func (e Event) Span() (time.Time, time.Time) {
	start, err := time.Parse(DateLayout, e.DateStart)
	if err != nil {
		return time.Time{}, time.Time{}
	}

	end, err := time.Parse(DateLayout, e.DateEnd)
	if err != nil {
		return time.Time{}, time.Time{}
	}

	return start, end
}

// Query selects one month of events of a single category. Month is zero based (0 = January).
type Query struct {
	Year     int      `json:"year"`
	Month    int      `json:"month"`
	Category Category `json:"category"`
}

func (q Query) Validate() error {
	if q.Year < 1 || q.Year > 9999 {
		return ErrInvalidYear
	}

	if q.Month < 0 || q.Month > 11 {
		return ErrInvalidMonth
	}

	if !q.Category.Valid() {
		return ErrInvalidCategory
	}

	return nil
}

type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

type FallbackReason string

const (
	ReasonNone          FallbackReason = ""
	ReasonNoCredential  FallbackReason = "no_credential"
	ReasonNetworkError  FallbackReason = "network_error"
	ReasonParseError    FallbackReason = "parse_error"
	ReasonEmptyResponse FallbackReason = "empty_response"
)

// Result is what a fetch resolves to. A fetch never fails: degraded outcomes carry
// SourceFallback and the reason the remote path was not used.
type Result struct {
	Events []Event        `json:"events"`
	Source Source         `json:"source"`
	Reason FallbackReason `json:"reason,omitempty"`
	Err    error          `json:"-"`
}

func (r Result) Degraded() bool {
	return r.Source == SourceFallback
}
