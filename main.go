package main

import (
	"context"
	"net/http"
	"net/http/pprof"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/qmdx00/lifecycle"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"culture-events/core"
	"culture-events/pkg/resources"
	"culture-events/pkg/servers"
	"culture-events/views"
)

func main() {
	name, version := "culture-events", "1.0"

	// 1. Config
	cfg, err := resources.LoadConfig(".env")
	if err != nil {
		log.Fatal().Err(err).Str("stage", "startup").Str("component", "main").Msg("invalid configuration")
	}

	// 2. Logger
	logger := resources.ConfigureLogger(cfg.Log, os.Stdout, name, version)
	ctx := logger.WithContext(context.Background())

	startupLogger := log.Ctx(ctx).With().Str("stage", "startup").Str("component", "main").Logger()
	shutdownLogger := log.Ctx(ctx).With().Str("stage", "shut down").Str("component", "main").Logger()

	startupLogger.Info().Msg("application starting up")
	defer shutdownLogger.Info().Msg("application stopped")

	// 3. Telemetry (traces/metrics/logs). zerolog keeps printing to stdout and is mirrored over OTLP.
	telemetry, err := resources.CreateTelemetry(ctx, cfg.Telemetry, name, version)
	if err != nil {
		telemetry.Close()
		startupLogger.Fatal().Err(err).Msg("unable to set up telemetry")
	}

	if telemetry.Enabled() {
		log.Logger = log.Logger.Hook(resources.NewZerologHook(name, version))
		ctx = log.Logger.WithContext(ctx)
	}

	// 4. Fallback dataset
	catalog, err := core.EmbeddedCatalog()
	if err != nil {
		startupLogger.Fatal().Err(err).Msg("unable to load the embedded catalog")
	}

	if cfg.Events.FallbackSource == resources.FallbackSourcePostgres {
		catalog = loadPostgresCatalog(ctx, cfg.Database, catalog)
	}

	startupLogger.Info().Str("origin", catalog.Origin()).Int("events", catalog.Len()).Msg("fallback catalog loaded")

	// 5. Generator. Without a credential every fetch is answered from the catalog.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []core.ProviderOption{
		core.WithFallbackDelay(cfg.Events.FallbackDelay),
		core.WithCity(cfg.Events.City),
		core.WithMetrics(core.NewFetchMetrics(registry)),
	}

	if cfg.Gemini.APIKey == "" {
		startupLogger.Warn().Msg("gemini credentials not provided, event generation disabled")
	} else {
		generator, err := core.NewGeminiGenerator(ctx, core.GeminiConfig{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
			Timeout: cfg.Gemini.Timeout,
		})
		if err != nil {
			startupLogger.Error().Err(err).Msg("unable to create gemini client, event generation disabled")
		} else {
			opts = append(opts, core.WithGenerator(generator))
		}
	}

	// 6. Wiring
	provider := core.NewProvider(catalog, opts...)
	eventHandlers := core.NewHandlers(provider)

	maps := views.NewMapRenderer(views.NewSceneWidget(cfg.Map.SDKURL, nil), cfg.Map.PollInterval, cfg.Map.WaitTimeout)
	viewHandlers := views.NewHandlers(provider, maps)

	// 7. Daemons/servers setup
	gin.SetMode(gin.ReleaseMode)

	restHandler := gin.New()
	restHandler.Use(gin.Recovery())
	restHandler.Use(otelgin.Middleware(name))
	restHandler.Use(resources.NewHTTPMetrics(name).Middleware())
	restHandler.Use(resources.RequestLogging())

	restHandler.GET("/events", eventHandlers.GetEvents)
	restHandler.GET("/events/ics", eventHandlers.GetEventsICS)
	restHandler.GET("/events/grid", viewHandlers.GetGrid)
	restHandler.GET("/events/calendar", viewHandlers.GetCalendar)
	restHandler.GET("/events/map", viewHandlers.GetMap)
	restHandler.GET("/healthz", func(gctx *gin.Context) { gctx.String(http.StatusOK, "ok") })
	restHandler.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	debugHandler := http.NewServeMux()
	debugHandler.HandleFunc("/debug/pprof/", pprof.Index)
	debugHandler.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	debugHandler.HandleFunc("/debug/pprof/profile", pprof.Profile)
	debugHandler.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	debugHandler.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// 8. Daemons/servers lifecycle, stopped on SIGINT/SIGTERM
	var app servers.Application = lifecycle.NewApp(
		lifecycle.WithName(name),
		lifecycle.WithVersion(version),
	)

	app.Attach(servers.BuildBaseServer(telemetry))
	app.Attach(servers.BuildHttpServer("debug-server", servers.NewServer(cfg.Server.Host, cfg.Server.DebugPort, debugHandler)))
	app.Attach(servers.BuildHttpServer("rest-server", servers.NewServer(cfg.Server.Host, cfg.Server.Port, restHandler)))

	startupLogger.Info().Bool("remote", provider.Remote()).Msg("application running")

	// 9. Wait for shutdown signal
	err = app.Run()
	if err != nil {
		shutdownLogger.Error().Err(err).Msg("runtime error")
	}
}

// loadPostgresCatalog reads the catalog table once and closes the pool. Any failure keeps
// the embedded catalog.
func loadPostgresCatalog(ctx context.Context, cfg resources.DatabaseConfig, embedded *core.Catalog) *core.Catalog {
	pool, err := resources.CreateDatabaseConnectionPool(ctx, cfg)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("postgres unavailable, keeping the embedded catalog")
		return embedded
	}
	defer pool.Close()

	catalog, err := core.NewRepository(pool).LoadCatalog(ctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("unable to load the postgres catalog, keeping the embedded catalog")
		return embedded
	}

	return catalog
}
