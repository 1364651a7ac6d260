package main

import (
	"clientdesk/cmd/internal/auth"
	"clientdesk/cmd/internal/config"
	"clientdesk/cmd/internal/domain/database"
	"clientdesk/cmd/internal/domain/database/repository"
	cognitoclient "clientdesk/cmd/internal/integration/aws/cognito"
	s3store "clientdesk/cmd/internal/integration/aws/s3"
	"clientdesk/cmd/internal/integration/storage"
	appmiddleware "clientdesk/cmd/internal/middleware"
	"clientdesk/cmd/internal/monitoring"
	"clientdesk/cmd/internal/notify"
	"clientdesk/cmd/internal/routes"
	"clientdesk/cmd/internal/service"
	"clientdesk/cmd/internal/site"
	"clientdesk/cmd/internal/utils/apierror"
	"clientdesk/cmd/internal/utils/validators"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides HTTP_ADDR")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	setLogLevel(cfg.LogLevel)
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SentryDSN != "" {
		if err := monitoring.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Release); err != nil {
			log.Warnf("sentry disabled: %v", err)
		} else {
			defer monitoring.FlushSentry()
		}
	}
	monitoring.Init()

	// Database
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	// Identity
	var verifier auth.Verifier
	var cogClient cognitoclient.CognitoInterface
	if cfg.Cognito.Enabled() {
		client, err := cognitoclient.InitCognitoClient(cfg.AWSRegion, cfg.Cognito)
		if err != nil {
			return err
		}
		cogClient = client
		verifier = auth.NewCognitoVerifier(cfg.AWSRegion, cfg.Cognito.UserPoolID, cfg.Cognito.ClientID)
	} else {
		log.Warn("no Cognito user pool configured, accepting HS256 development tokens")
		verifier = &auth.HMACVerifier{Secret: []byte(cfg.DevTokenSecret)}
	}

	var revocations auth.RevocationStore
	if cfg.RedisAddr != "" {
		revocations, err = auth.NewRedisRevocations(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer revocations.Close()
	}

	// Blob storage
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	// Notifications
	relay := notify.Fanout{notify.LogRelay{}, notify.MetricsRelay{}, notify.SentryRelay{}}
	if cfg.KafkaBroker != "" {
		producer, err := notify.NewKafkaProducer(cfg.KafkaBroker)
		if err != nil {
			return err
		}
		kafkaRelay := notify.NewKafkaRelay(producer, cfg.KafkaTopic)
		defer kafkaRelay.Close()
		relay = append(relay, kafkaRelay)
	}

	validate := validators.New()

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	inquiryRepo := repository.NewContactInquiryRepository(db)

	// Getting services
	userService := service.NewUserService(userRepo, validate, cogClient, revocations)
	clientService := service.NewClientService(clientRepo, validate, relay)
	engagementService := service.NewEngagementService(serviceRepo, validate, relay)
	documentService := service.NewDocumentService(documentRepo, store, validate, relay)
	apptService := service.NewAppointmentService(apptRepo, validate, relay)
	inquiryService := service.NewContactInquiryService(inquiryRepo, validate, relay)

	// Getting routes
	handlers := &routes.Handlers{
		Clients:      routes.NewClientDefault(clientService),
		Services:     routes.NewEngagementDefault(engagementService),
		Documents:    routes.NewDocumentDefault(documentService),
		Appointments: routes.NewAppointmentDefault(apptService),
		Inquiries:    routes.NewContactInquiryDefault(inquiryService),
		Users:        routes.NewUserDefault(userService),
	}

	content, err := site.LoadContent()
	if err != nil {
		return err
	}
	renderer, err := site.NewRenderer()
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(requestLogger()))
	e.Use(appmiddleware.PrometheusMetrics())
	if cfg.SentryDSN != "" {
		e.Use(appmiddleware.SentryMiddleware())
	}

	contactLimit := contactRateLimiter(cfg.ContactRatePerMinute)
	routes.Register(e, handlers, auth.RequireSession(verifier, revocations), contactLimit)
	site.NewSiteDefault(content, inquiryService).Register(e, contactLimit)

	e.GET("/healthz", healthz(db))
	e.GET("/metrics", echo.WrapHandler(monitoring.Handler()))

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Addr)
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (service.BlobStore, error) {
	if cfg.StorageDriver == "s3" {
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Endpoint)
	}
	return storage.NewLocalStore(cfg.StorageDir)
}

// contactRateLimiter allows perMinute public submissions per client IP.
func contactRateLimiter(perMinute int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     perMinute,
		ExpiresIn: 10 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(apierror.TooManyRequestsError.Code(), apierror.TooManyRequestsError)
		},
	})
}

func healthz(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			log.Errorf("health check failed: %v", err)
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}
}

func requestLogger() middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Errorf("%s %s %d %s %s: %v", v.Method, v.URI, v.Status, v.Latency, v.RemoteIP, v.Error)
				return nil
			}
			log.Infof("%s %s %d %s %s", v.Method, v.URI, v.Status, v.Latency, v.RemoteIP)
			return nil
		},
	}
}

func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(log.DEBUG)
	case "warn", "warning":
		log.SetLevel(log.WARN)
	case "error":
		log.SetLevel(log.ERROR)
	case "off":
		log.SetLevel(log.OFF)
	default:
		log.SetLevel(log.INFO)
	}
}
