package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/account-manager/internal/audit"
	"github.com/mrlokans/account-manager/internal/cache"
	"github.com/mrlokans/account-manager/internal/config"
	"github.com/mrlokans/account-manager/internal/database"
	"github.com/mrlokans/account-manager/internal/database/accounts"
	auditrepo "github.com/mrlokans/account-manager/internal/database/audit"
	http_controllers "github.com/mrlokans/account-manager/internal/http"
	"github.com/mrlokans/account-manager/internal/i18n"
	"github.com/mrlokans/account-manager/internal/importers"
	"github.com/mrlokans/account-manager/internal/scheduler"
	"github.com/mrlokans/account-manager/internal/services"
	"github.com/mrlokans/account-manager/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// In-flight requests finish before onShutdown releases their dependencies.
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Account Manager v%s", version)

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()
	log.Printf("Database driver: %s", db.Driver)

	var statsCache *cache.StatsCache
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			log.Printf("WARNING: Stats cache disabled: %v", err)
		} else {
			defer client.Close()
			statsCache = cache.NewStatsCache(client, cfg.Redis.StatsTTL)
			log.Printf("Stats cache enabled at %s (ttl %v)", cfg.Redis.Addr, cfg.Redis.StatsTTL)
		}
	} else {
		log.Printf("Stats cache disabled. Set 'REDIS_ADDR' to enable.")
	}

	if cfg.Passwords.Hash {
		log.Printf("Password hashing enabled (bcrypt cost %d)", cfg.Passwords.BcryptCost)
	} else {
		log.Printf("WARNING: Passwords are stored as plaintext. Set 'PASSWORD_HASHING=true' to hash them.")
	}

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	accountService := services.NewAccountService(
		accounts.NewRepository(db.DB),
		statsCache,
		services.PasswordOptions{Hash: cfg.Passwords.Hash, Cost: cfg.Passwords.BcryptCost},
	)
	validator := services.NewRecordValidator()
	pipeline := importers.NewPipeline(accountService, validator, importers.Limits{
		MaxBytes:   cfg.Import.MaxBytes,
		MaxRecords: cfg.Import.MaxRecords,
	})

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(tasks.DatabasePath(cfg.Database, cfg.Tasks), tasks.ConfigFrom(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditService))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	cleanupScheduler := scheduler.NewAuditCleanupScheduler(cfg.Audit, taskClient, auditService)
	if err := cleanupScheduler.Start(context.Background()); err != nil {
		log.Printf("WARNING: Audit cleanup scheduler not started: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Accounts:        accountService,
		Validator:       validator,
		Importer:        pipeline,
		AuditService:    auditService,
		Database:        db,
		StatsCache:      statsCache,
		Localizer:       i18n.NewLocalizer(cfg.Global.Locale),
		ImportRateLimit: cfg.RateLimit.ImportsPerMinute,
		Production:      cfg.Database.Production,
		Version:         version,
	})

	onShutdown := func(ctx context.Context) {
		cleanupScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		auditService.Flush()
	}

	Serve(router, cfg, onShutdown)
}
