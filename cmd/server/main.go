package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lifeline/internal/alert/device"
	"lifeline/internal/alert/handler"
	alertmetrics "lifeline/internal/alert/metrics"
	"lifeline/internal/alert/service"
	alertstore "lifeline/internal/alert/store"
	"lifeline/internal/alert/sharetoken"
	"lifeline/internal/alert/tracer"
	"lifeline/internal/audit"
	"lifeline/internal/events"
	"lifeline/internal/notify"
	"lifeline/internal/notify/email"
	"lifeline/internal/notify/push"
	"lifeline/internal/platform/config"
	"lifeline/internal/platform/database"
	"lifeline/internal/platform/health"
	"lifeline/internal/platform/kafka"
	"lifeline/internal/platform/kafka/producer"
	"lifeline/internal/platform/logger"
	"lifeline/internal/ratelimit"
	"lifeline/internal/seeder"
	subjectstore "lifeline/internal/subject/store"
	"lifeline/internal/workers/retention"
	"lifeline/pkg/platform/middleware/admin"
	devicemw "lifeline/pkg/platform/middleware/device"
	"lifeline/pkg/platform/middleware/metadata"
	"lifeline/pkg/platform/middleware/request"
	"lifeline/pkg/platform/middleware/requesttime"
	"lifeline/pkg/platform/validation"
)

// main wires the dependency graph and keeps the server lifecycle small.
// Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing lifeline",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"database", cfg.Database.URL != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores: Postgres when a URL is configured, in-memory otherwise.
	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.Database.URL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	var (
		subjects   service.SubjectDirectory
		alerts     service.AlertStore
		auditStore audit.Store
		sweepAlert retention.AlertStore
	)
	if pool != nil {
		defer pool.Close()
		db := pool.DB()
		subjects = subjectstore.NewPostgres(db)
		pg := alertstore.NewPostgres(db)
		alerts, sweepAlert = pg, pg
		auditStore = audit.NewPostgres(db)
	} else {
		subjectMem := subjectstore.New()
		alertMem := alertstore.New()
		subjects = subjectMem
		alerts, sweepAlert = alertMem, alertMem
		auditStore = audit.NewInMemoryStore()

		if cfg.SeedDemo {
			if err := seeder.New(subjectMem, log).SeedAll(ctx); err != nil {
				log.Error("demo seeding failed", "error", err)
				os.Exit(1)
			}
		}
	}

	recorder := audit.NewRecorder(auditStore,
		audit.WithAsyncBuffer(cfg.Audit.Buffer),
		audit.WithRecorderLogger(log))
	defer recorder.Close()

	// Notification channels degrade to disabled stubs without credentials,
	// so an alert is still stored when no provider is configured.
	var pushChannel notify.Channel
	if cfg.Push.Configured() {
		pushChannel = push.New(push.Config{
			Endpoint: cfg.Push.Endpoint,
			AppID:    cfg.Push.AppID,
			APIKey:   cfg.Push.APIKey,
			Timeout:  cfg.Push.Timeout,
		}, log)
	} else {
		pushChannel = notify.Disabled("push", "push provider not configured")
		log.Warn("push notifications disabled: missing credentials")
	}

	var emailChannel notify.Channel
	if cfg.Email.Configured() {
		emailChannel = email.New(email.Config{
			Endpoint:    cfg.Email.Endpoint,
			APIKey:      cfg.Email.APIKey,
			SenderName:  cfg.Email.SenderName,
			SenderEmail: cfg.Email.SenderEmail,
			Timeout:     cfg.Email.Timeout,
		}, log)
	} else {
		emailChannel = notify.Disabled("email", "email provider not configured")
		log.Warn("email notifications disabled: missing credentials")
	}

	var eventProducer events.Producer = producer.NoopProducer{}
	if cfg.Kafka.Enabled() {
		kafkaProducer, err := producer.New(producer.DefaultConfig(cfg.Kafka.Brokers), log)
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer kafkaProducer.Close()
		eventProducer = kafkaProducer
	}
	publisher := events.NewPublisher(eventProducer, cfg.Kafka.Topic, log)

	deviceService := device.NewService(cfg.DeviceCapture)

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(alertmetrics.New()),
		service.WithTracer(tracer.NewOTel()),
		service.WithAuditRecorder(recorder),
		service.WithEventPublisher(publisher),
		service.WithDeviceDescriber(deviceService),
	}
	if cfg.RateLimit.Enabled() {
		opts = append(opts, service.WithRateLimiter(ratelimit.New(cfg.RateLimit.Every, cfg.RateLimit.Burst)))
	}

	shareIssuer := sharetoken.New(cfg.Share.SigningKey, cfg.Share.TokenTTL)
	if shareIssuer.Enabled() {
		opts = append(opts,
			service.WithShareTokens(shareIssuer),
			service.WithShareBaseURL(cfg.PublicBaseURL))
	}

	alertService := service.New(subjects, alerts, pushChannel, emailChannel, opts...)

	handlerOpts := []handler.Option{}
	if shareIssuer.Enabled() {
		handlerOpts = append(handlerOpts, handler.WithShareVerifier(shareIssuer))
	}
	alertHandler := handler.New(alertService, log, handlerOpts...)

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("database", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(checkCtx)
		})
	}
	if cfg.Kafka.Enabled() {
		brokerCheck := kafka.NewHealthChecker(cfg.Kafka.Brokers, 2*time.Second)
		healthHandler.RegisterCheck("kafka", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return brokerCheck.Check(checkCtx)
		})
	}

	requestMetrics := request.NewMetrics()
	metadataCfg := metadata.DefaultConfig()
	metadataCfg.TrustedProxies = cfg.TrustedProxies

	router := chi.NewRouter()
	router.Use(request.Recovery(log))
	router.Use(request.RequestID)
	router.Use(metadata.NewMiddleware(metadataCfg).Handler)
	router.Use(devicemw.Device(&devicemw.DeviceConfig{
		FingerprintFn: deviceService.Fingerprint,
		HeaderName:    "X-Device-ID",
	}))
	router.Use(requesttime.Middleware)
	router.Use(request.Logger(log))
	router.Use(request.LatencyMiddleware(requestMetrics))
	router.Use(request.Timeout(cfg.RequestTimeout))
	router.Use(request.BodyLimit(validation.MaxBodySize))

	healthHandler.Register(router)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		if cfg.Admin.TokenHash != "" {
			r.Use(admin.MarkAdminTokenHash(cfg.Admin.TokenHash))
		} else if cfg.Admin.Token != "" {
			r.Use(admin.MarkAdminToken(cfg.Admin.Token))
		}
		alertHandler.Register(r)
	})

	if cfg.Admin.Enabled() {
		router.Group(func(r chi.Router) {
			if cfg.Admin.TokenHash != "" {
				r.Use(admin.RequireAdminTokenHash(cfg.Admin.TokenHash, log))
			} else {
				r.Use(admin.RequireAdminToken(cfg.Admin.Token, log))
			}
			alertHandler.RegisterAdmin(r)
		})
	} else {
		log.Warn("admin endpoints disabled: no admin token configured")
	}

	sweeper, err := retention.New(sweepAlert, auditStore, cfg.Retention.MaxAge,
		retention.WithInterval(cfg.Retention.Interval),
		retention.WithLogger(log))
	if err != nil {
		log.Error("retention sweeper init failed", "error", err)
		os.Exit(1)
	}
	if sweeper.Enabled() {
		go func() {
			if err := sweeper.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error("retention sweeper stopped", "error", err)
			}
		}()
	} else {
		log.Info("retention sweeper disabled: records kept forever")
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
