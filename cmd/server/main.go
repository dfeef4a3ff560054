// Package main initializes and starts the Back2U lost & found server,
// setting up configuration, logging, the record store, repositories,
// services and HTTP handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	nethttp "net/http"

	"github.com/back2u/back2u/internal/config"
	"github.com/back2u/back2u/internal/geocode"
	"github.com/back2u/back2u/internal/logger"
	"github.com/back2u/back2u/internal/repository"
	"github.com/back2u/back2u/internal/server/handler/http"
	"github.com/back2u/back2u/internal/service"
	"github.com/back2u/back2u/internal/session"
	"github.com/back2u/back2u/internal/store"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Open the record store: local SQLite by default, PostgreSQL when a
	// postgres DSN is configured.
	var (
		recordStore *store.SQLStore
		err         error
	)
	if dsn := options.DatabaseDSN; dsn == "" {
		var path string
		path, err = store.DefaultPath()
		if err == nil {
			zapLogger.Info("using local record store", zap.String("path", path))
			recordStore, err = store.OpenSQLite(path)
		}
	} else if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		recordStore, err = store.OpenPostgres(dsn)
	} else {
		recordStore, err = store.OpenSQLite(dsn)
	}
	if err != nil {
		zapLogger.Fatal("cannot init record store", zap.Error(err))
	}
	defer func() { _ = recordStore.DB.Close() }()

	// Initialize repositories over the record store.
	identityRepo := repository.NewRecordIdentityRepository(recordStore, zapLogger)
	reportRepo := repository.NewRecordReportRepository(recordStore, zapLogger)
	notificationRepo := repository.NewRecordNotificationRepository(recordStore, zapLogger)

	// Initialize business-logic services.
	notificationService := service.NewNotificationService(notificationRepo, zapLogger)
	identityService := service.NewIdentityService(identityRepo, &service.BcryptVerifier{}, notificationService, zapLogger)
	reportService := service.NewReportService(reportRepo, notificationService, zapLogger)

	// Seed first-run accounts and restore persisted session state.
	if err := identityService.Initialize(context.Background()); err != nil {
		zapLogger.Fatal("failed to initialize identity state", zap.Error(err))
	}

	// Bearer-token session manager and reverse-geocoding client.
	sessions := session.NewManager()
	geocoder := geocode.NewClient(options.GeocoderURL)

	// Create HTTP handlers and build the router.
	router := http.NewRouter(http.RouterDeps{
		Identity:      &http.IdentityHandler{Identity: identityService, Sessions: sessions},
		Admin:         &http.AdminHandler{Identity: identityService, Reports: reportService, Sessions: sessions},
		Reports:       &http.ReportHandler{Reports: reportService, Identity: identityService},
		Notifications: &http.NotificationHandler{Notifications: notificationService},
		Geocode:       &http.GeocodeHandler{Geo: geocoder},
		Sessions:      sessions,
		Users:         identityService,
		Log:           zapLogger,
	})

	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
