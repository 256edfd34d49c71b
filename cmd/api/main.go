package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/config"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/registry"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/worklog"
	appHTTP "github.com/cmlabs-hris/worktime-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/worktime-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/worktime-backend-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/worktime-backend-go/internal/service/attendance"
	auditService "github.com/cmlabs-hris/worktime-backend-go/internal/service/audit"
	policyService "github.com/cmlabs-hris/worktime-backend-go/internal/service/policy"
	statsService "github.com/cmlabs-hris/worktime-backend-go/internal/service/stats"
	workLogService "github.com/cmlabs-hris/worktime-backend-go/internal/service/worklog"
)

// repositories is the storage backend selected by STORAGE_DRIVER.
type repositories struct {
	clockEntries attendance.ClockEntryRepository
	workLogs     worklog.WorkLogRepository
	policies     policy.OverrideRepository
	registry     registry.Registry
	audit        audit.Repository
	close        func()
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.StorageDriverSQLite:
		store, err := sqlite.New(cfg.Database.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return &repositories{
			clockEntries: sqlite.NewClockEntryRepository(store),
			workLogs:     sqlite.NewWorkLogRepository(store),
			policies:     sqlite.NewPolicyRepository(store),
			registry:     sqlite.NewRegistryRepository(store),
			audit:        sqlite.NewAuditRepository(store),
			close:        func() { store.Close() },
		}, nil

	default:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return &repositories{
			clockEntries: postgresql.NewClockEntryRepository(db),
			workLogs:     postgresql.NewWorkLogRepository(db),
			policies:     postgresql.NewPolicyRepository(db),
			registry:     postgresql.NewRegistryRepository(db),
			audit:        postgresql.NewAuditRepository(db),
			close:        db.Close,
		}, nil
	}
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	defaultPolicy, err := cfg.DefaultPolicy()
	if err != nil {
		return err
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return err
	}

	hub := sse.NewHub()
	emitter := auditService.NewAuditEmitter(repos.audit, hub, cfg.AuditEmitterConfig())
	defer emitter.Close()

	maxRangeDays := cfg.App.StatsMaxRangeDays
	policyProvider := policyService.NewPolicyProvider(repos.policies, defaultPolicy)
	attendanceSvc := attendanceService.NewAttendanceService(repos.clockEntries, policyProvider, emitter, maxRangeDays)
	workLogSvc := workLogService.NewWorkLogService(repos.workLogs, repos.registry, nil, emitter, maxRangeDays)
	statsSvc := statsService.NewStatsService(repos.workLogs, repos.clockEntries, repos.registry, policyProvider, maxRangeDays)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc, cfg.Jobs.StaleSessionAfter).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
			Env:            cfg.App.Env,
			LogLevel:       cfg.LogLevel(),
		},
		JWTService,
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewWorkLogHandler(workLogSvc),
		appHTTP.NewStatsHandler(statsSvc),
		appHTTP.NewEventsHandler(hub, JWTService),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// event streams end with the signal context
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
