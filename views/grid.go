package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"culture-events/core"
)

// SkeletonCount is the number of placeholder cards shown while events load.
const SkeletonCount = 4

//go:embed templates/*.html
var templates embed.FS

var gridTemplate = template.Must(template.New("grid.html").Funcs(template.FuncMap{
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}

		return out
	},
}).ParseFS(templates, "templates/grid.html"))

type Card struct {
	Id       string        `json:"id"`
	Title    string        `json:"title"`
	Period   string        `json:"period"`
	Location string        `json:"location"`
	ImageUrl string        `json:"imageUrl"`
	Category core.Category `json:"category"`
	Price    string        `json:"price,omitempty"`
}

type EmptyState struct {
	Search bool   `json:"search"`
	Title  string `json:"title"`
	Hint   string `json:"hint"`
}

// Grid is exactly one of: loading skeletons, an empty state, or cards.
type Grid struct {
	Loading   bool        `json:"loading"`
	Skeletons int         `json:"skeletons,omitempty"`
	Cards     []Card      `json:"cards,omitempty"`
	Empty     *EmptyState `json:"empty,omitempty"`
}

func NewGrid(events []core.Event, loading bool, hasSearch bool) Grid {
	if loading {
		return Grid{Loading: true, Skeletons: SkeletonCount}
	}

	if len(events) == 0 {
		if hasSearch {
			return Grid{Empty: &EmptyState{Search: true, Title: "검색 결과가 없습니다.", Hint: "다른 검색어로 찾아보세요."}}
		}

		return Grid{Empty: &EmptyState{Title: "해당 날짜에 예정된 행사가 없습니다.", Hint: "다른 날짜를 선택해보세요."}}
	}

	cards := make([]Card, 0, len(events))
	for _, event := range events {
		cards = append(cards, Card{
			Id:       event.Id,
			Title:    event.Title,
			Period:   period(event),
			Location: event.Location,
			ImageUrl: event.ImageUrl,
			Category: event.Category,
			Price:    event.Price,
		})
	}

	return Grid{Cards: cards}
}

func RenderGrid(w io.Writer, grid Grid) error {
	err := gridTemplate.Execute(w, grid)
	if err != nil {
		return fmt.Errorf("failed to render grid: %w", err)
	}

	return nil
}

func period(event core.Event) string {
	if event.DateStart == event.DateEnd {
		return event.DateStart
	}

	return event.DateStart + " ~ " + event.DateEnd
}
