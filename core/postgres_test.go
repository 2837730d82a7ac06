package core

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var catalogColumns = []string{
	"id", "title", "date_start", "date_end", "location", "image_url", "category", "description",
	"price", "cast", "lat", "lng", "parking", "subway", "bus",
}

func ptr[T any](v T) *T {
	return &v
}

func TestRepository_LoadCatalog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
		wantIds   []string
		check     func(t *testing.T, catalog *Catalog)
	}{
		{
			name: "success",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(catalogColumns).
					AddRow("10", "Sea Concert", "2025-11-02", "2025-11-02", "Haeundae", "https://picsum.photos/id/1/400/500",
						"PERFORMANCE", "Open air concert.", ptr("무료"), ptr("Busan Phil"), ptr(35.1587), ptr(129.1604),
						nil, ptr("Line 2 Haeundae"), nil).
					AddRow("11", "Lantern Night", "2025-11-08", "2025-11-09", "Samnak Park", "https://picsum.photos/id/2/400/500",
						"FESTIVAL", "Lanterns on the river.", nil, nil, nil, nil, nil, nil, nil)
				mock.ExpectQuery("SELECT (.+) FROM culture_events").WillReturnRows(rows)
			},
			wantIds: []string{"10", "11"},
			check: func(t *testing.T, catalog *Catalog) {
				t.Helper()

				assert.Equal(t, "postgres", catalog.Origin())

				events := catalog.All()
				assert.Equal(t, "무료", events[0].Price)
				require.NotNil(t, events[0].Coordinates)
				assert.InDelta(t, 35.1587, events[0].Coordinates.Lat, 1e-9)
				require.NotNil(t, events[0].Transport)
				assert.Equal(t, "Line 2 Haeundae", events[0].Transport.Subway)
				assert.Empty(t, events[0].Transport.Bus)

				assert.Nil(t, events[1].Coordinates)
				assert.Nil(t, events[1].Transport)
				assert.Equal(t, []string{"11"}, ids(catalog.ByCategory(CategoryFestival)))
			},
		},
		{
			name: "query failure",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT (.+) FROM culture_events").WillReturnError(errors.New("relation does not exist"))
			},
			wantErr: errors.New("failed to query culture_events"),
		},
		{
			name: "empty table",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT (.+) FROM culture_events").WillReturnRows(pgxmock.NewRows(catalogColumns))
			},
			wantErr: ErrEmptyCatalog,
		},
		{
			name: "invalid row",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(catalogColumns).
					AddRow("12", "Broken", "2025-11-09", "2025-11-01", "Nampo", "https://picsum.photos/id/3/400/500",
						"FESTIVAL", "Ends before it starts.", nil, nil, nil, nil, nil, nil, nil)
				mock.ExpectQuery("SELECT (.+) FROM culture_events").WillReturnRows(rows)
			},
			wantErr: errors.New("invalid postgres catalog"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			require.NoError(t, err)

			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewRepository(mock)
			catalog, err := repo.LoadCatalog(ctx)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, catalog)

				if errors.Is(tt.wantErr, ErrEmptyCatalog) {
					require.ErrorIs(t, err, ErrEmptyCatalog)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantIds, ids(catalog.All()))
				tt.check(t, catalog)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_LoadCatalogMetrics(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name        string
		rows        *pgxmock.Rows
		wantOutcome string
		wantRows    bool
	}{
		{
			name: "ok",
			rows: pgxmock.NewRows(catalogColumns).
				AddRow("10", "Sea Concert", "2025-11-02", "2025-11-02", "Haeundae", "https://picsum.photos/id/1/400/500",
					"PERFORMANCE", "Open air concert.", nil, nil, nil, nil, nil, nil, nil),
			wantOutcome: "ok",
			wantRows:    true,
		},
		{
			name:        "empty",
			rows:        pgxmock.NewRows(catalogColumns),
			wantOutcome: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			require.NoError(t, err)

			defer mock.Close()

			mock.ExpectQuery("SELECT (.+) FROM culture_events").WillReturnRows(tt.rows)

			reader := sdkmetric.NewManualReader()
			repo := &repository{
				tracer:  otel.Tracer("test"),
				metrics: NewCatalogMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))),
				pool:    mock,
			}

			_, _ = repo.LoadCatalog(ctx)

			var rm metricdata.ResourceMetrics
			require.NoError(t, reader.Collect(ctx, &rm))

			found := map[string]metricdata.Metrics{}
			for _, scope := range rm.ScopeMetrics {
				for _, m := range scope.Metrics {
					found[m.Name] = m
				}
			}

			loads, ok := found["catalog.load.total"].Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.Len(t, loads.DataPoints, 1)
			assert.Equal(t, int64(1), loads.DataPoints[0].Value)

			outcome, ok := loads.DataPoints[0].Attributes.Value("outcome")
			require.True(t, ok)
			assert.Equal(t, tt.wantOutcome, outcome.AsString())

			_, hasRows := found["catalog.load.rows"]
			assert.Equal(t, tt.wantRows, hasRows)
			assert.Contains(t, found, "catalog.load.duration")
		})
	}
}
