package main

import (
	"context"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/middleware"
	aqmtemplate "github.com/aquamarinepk/aqm/template"
	"github.com/joho/godotenv"

	"github.com/appetiteclub/frontdesk/pkg"
	"github.com/appetiteclub/frontdesk/pkg/cache"
	"github.com/appetiteclub/frontdesk/pkg/event"
	"github.com/appetiteclub/frontdesk/pkg/telemetry"
	"github.com/appetiteclub/frontdesk/services/console/internal/console"
	"github.com/appetiteclub/frontdesk/services/console/internal/mongo"
)

//go:embed assets
var assetsFS embed.FS

const (
	appNamespace = "CONSOLE"
	appName      = "console"
	appVersion   = "0.1.0"
)

func main() {
	_ = godotenv.Load()

	config, err := aqm.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := aqm.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	otelEndpoint, _ := config.GetString("otel.endpoint")
	otelInsecure, _ := config.GetString("otel.insecure")
	shutdownTracing := telemetry.Setup(ctx, appName, otelEndpoint, otelInsecure == "true", logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("tracing shutdown failed", "error", err)
		}
	}()

	settings := console.LoadSettings(config, logger)
	if settings.SessionSecret == "" {
		settings.SessionSecret = randomSecret()
		logger.Info("auth.session.secret not set; sessions will not survive a restart")
	}

	tmplMgr := aqmtemplate.NewManager(assetsFS, aqmtemplate.WithLogger(logger))
	lifecycles := []interface{}{tmplMgr}

	var sessions console.SessionRepo
	switch storeKind, _ := config.GetString("auth.session.store"); storeKind {
	case "mongo":
		repo := mongo.NewSessionRepo(mongo.OptionsFrom(config), logger)
		lifecycles = append(lifecycles, repo)
		sessions = repo
	default:
		repo := console.NewMemorySessionRepo()
		repo.StartCleanup(ctx, 5*time.Minute)
		sessions = repo
	}

	var publisher cache.Publisher
	if natsURL, _ := config.GetString("nats.url"); natsURL != "" {
		if jetstream, _ := config.GetString("nats.jetstream"); jetstream == "false" {
			pub, err := pkg.NewNATSPublisher(natsURL)
			if err != nil {
				log.Fatalf("cannot initialize NATS publisher: %v", err)
			}
			defer pub.Close()
			publisher = pub
		} else {
			stream, err := pkg.NewNATSStream(ctx, pkg.NATSStreamConfig{
				URL:        natsURL,
				StreamName: streamName(config),
				Topic:      settings.NATSTopic,
			}, logger)
			if err != nil {
				log.Fatalf("cannot initialize action stream: %v", err)
			}
			defer stream.Close()
			publisher = stream
		}
	}

	workspaces := console.NewWorkspaces(settings, console.NewSealer(settings.SessionSecret), publisher, logger)
	workspaces.StartSweep(ctx, 5*time.Minute)
	handler := console.NewHandler(console.NewTemplateRenderer(tmplMgr), sessions, workspaces, settings, logger)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger: logger,
	})

	options := []aqm.Option{
		aqm.WithConfig(config),
		aqm.WithLogger(logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port", handler),
		aqm.WithLifecycle(lifecycles...),
		aqm.WithHealthChecks(appName),
	}

	ms := aqm.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}

func streamName(config *aqm.Config) string {
	if name, _ := config.GetString("nats.stream"); name != "" {
		return name
	}
	return event.ActionsStream
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("cannot generate session secret: %v", err)
	}
	return hex.EncodeToString(b)
}
