package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"course-portal/internal/apiclient"
	"course-portal/internal/config"
	"course-portal/internal/event"
	"course-portal/internal/handler"
	"course-portal/internal/loading"
	"course-portal/internal/pipeline"
	"course-portal/internal/router"
	"course-portal/internal/service"
	"course-portal/internal/session"
	"course-portal/internal/websocket"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	rootHandler, cleanup, err := NewHandler(cfg)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           rootHandler,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		cleanupFuncs: []func(){cleanup},
	}, nil
}

// NewHandler assembles the portal and returns its root handler together
// with the function that stops its background workers.
func NewHandler(cfg *config.Config) (http.Handler, func(), error) {
	bus := event.NewBus()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := pipeline.NewMetrics(reg)
	counter := loading.NewCounter(loading.WithBus(bus), loading.WithGauge(metrics.InFlight))

	doer := pipeline.Standard(&http.Client{Timeout: cfg.APITimeout}, pipeline.Options{
		Token:   session.TokenFromContext,
		Counter: counter,
		OnUnauthorized: func(ctx context.Context) {
			session.ExpireFromContext(ctx)
			bus.Publish(event.New(event.TypeSessionExpired, nil))
		},
		Metrics: metrics,
	})

	api, err := apiclient.New(cfg.APIBaseURL, doer)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize api client: %w", err)
	}

	durable, err := session.NewCodec(cfg.SessionSecret, session.TierDurable, cfg.SessionDurableTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize durable session codec: %w", err)
	}
	ephemeral, err := session.NewCodec(cfg.SessionSecret, session.TierEphemeral, cfg.SessionEphemeralTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize session codec: %w", err)
	}
	sessions := session.NewManager(durable, ephemeral, cfg.CookieSecure)

	views, err := handler.NewRenderer()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	examService := service.NewExamService(api)

	handlers := router.Handlers{
		Public:  handler.NewPublicHandler(api, views),
		Auth:    handler.NewAuthHandler(api, views),
		Admin:   handler.NewAdminHandler(views),
		Course:  handler.NewCourseHandler(api, views, cfg.MaxUploadSize),
		Diploma: handler.NewDiplomaHandler(api, views),
		User:    handler.NewUserHandler(api, views),
		Email:   handler.NewEmailHandler(api, views),
		Exam:    handler.NewExamHandler(api, examService, views),
		Loading: handler.NewLoadingHandler(counter),
	}

	hub := websocket.NewHub(bus, event.TypeLoadingChanged)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	expired, unsubscribe := bus.Subscribe(event.TypeSessionExpired)
	go logExpiredSessions(hubCtx, expired)

	appRouter := router.New(cfg, sessions, handlers, router.Streams{
		Hub: hub,
		Snapshot: func() event.Event {
			return event.New(event.TypeLoadingChanged, event.LoadingPayload{
				InFlight: counter.Value(),
				Visible:  counter.Visible(),
			})
		},
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	return appRouter, func() {
		unsubscribe()
		hubCancel()
	}, nil
}

func logExpiredSessions(ctx context.Context, events <-chan event.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			slog.Info("session credential rejected by api, signing out", "event_id", e.ID)
		}
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
