package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/config"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/database"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/events"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/format"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/logging"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/repository"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/scheduler"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/secret"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stdout); err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}
	log := logging.For("server")

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.WithField("path", cfg.Database.Path).Info("connected to database")

	publisher := newPublisher(cfg, log)
	defer publisher.Close()

	var box *secret.Box
	if cfg.Auth.SecretKey != "" {
		box, err = secret.NewBox(cfg.Auth.SecretKey)
		if err != nil {
			log.Fatalf("Invalid SECRET_KEY: %v", err)
		}
	} else {
		log.Warn("SECRET_KEY not set, partner bank details are disabled")
	}
	if cfg.Auth.InternalAPIKey == "" {
		log.Warn("INTERNAL_API_KEY not set, write endpoints will refuse every request")
	}

	// Create repositories
	billboardRepo := repository.NewBillboardRepository(db)
	partnerRepo := repository.NewPartnerRepository(db)
	shareRepo := repository.NewPartnerShareRepository(db)
	revenueRepo := repository.NewRevenueRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	pricingRepo := repository.NewPricingRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Create services
	partnershipService := service.NewPartnershipService(
		db,
		billboardRepo,
		shareRepo,
		partnerRepo,
		publisher,
		cfg.Drafts.SaveDebounce,
	)
	revenueService := service.NewRevenueService(
		db,
		billboardRepo,
		shareRepo,
		revenueRepo,
		publisher,
		partnershipService,
	)
	snapshotService := service.NewSnapshotService(billboardRepo, shareRepo, snapshotRepo, publisher)
	statementService := service.NewStatementService(
		partnershipService,
		revenueService,
		settingRepo,
		format.New(cfg.Statement.Locale),
		cfg.Statement.SettingsCacheTTL,
	)

	services := api.Services{
		System: service.NewSystemService(db, map[string]bool{
			"amqp":    cfg.Events.AMQPURL != "",
			"secrets": box != nil,
		}),
		Billboard:   service.NewBillboardService(billboardRepo),
		Import:      service.NewImportService(db, billboardRepo, publisher),
		Partner:     service.NewPartnerService(partnerRepo, shareRepo, box),
		Partnership: partnershipService,
		Revenue:     revenueService,
		Snapshot:    snapshotService,
		Statement:   statementService,
		Pricing:     service.NewPricingService(db, pricingRepo, publisher),
	}

	sched, err := scheduler.New(snapshotService, cfg.Schedule.Snapshot)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	sched.Start()

	// Create router
	router := api.NewRouter(services, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	// Pending debounced saves run before the database closes.
	partnershipService.Flush()
	sched.Stop(ctx)

	log.Info("server exited")
}

// newPublisher connects to the broker when AMQP_URL is set and falls back to
// logging events otherwise.
func newPublisher(cfg *config.Config, log *logrus.Entry) events.Publisher {
	if cfg.Events.AMQPURL == "" {
		return events.NewLogPublisher()
	}

	pub, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
	if err != nil {
		log.WithError(err).Warn("broker unavailable, logging events instead")
		return events.NewLogPublisher()
	}
	log.WithField("exchange", cfg.Events.Exchange).Info("publishing events to broker")
	return pub
}
