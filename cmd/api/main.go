package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/payroll-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/payroll-backend-go/internal/service/attendance"
	complianceService "github.com/cmlabs-hris/payroll-backend-go/internal/service/compliance"
	payrollService "github.com/cmlabs-hris/payroll-backend-go/internal/service/payroll"
	salaryService "github.com/cmlabs-hris/payroll-backend-go/internal/service/salary"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "payroll:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{ServiceName: "payroll", Environment: cfg.App.Env, Level: cfg.App.LogLevel})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rules, err := config.LoadCompliance(cfg.Payroll.ComplianceConfigPath)
	if err != nil {
		return fmt.Errorf("load compliance rules: %w", err)
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.Database.MaxConns)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgresql.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info("database schema applied")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	payrollMetrics := metrics.NewPayrollMetrics(registry)

	// Repositories
	payrollRepo := postgresql.NewPayrollRepository(db)
	structureRepo := postgresql.NewSalaryStructureRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	complianceRepo := postgresql.NewComplianceRecordRepository(db)
	txManager := postgresql.NewTxManager(db, log)

	// Engine
	aggregator := salaryService.NewAggregator(salaryService.NewEvaluator(log, payrollMetrics))
	registryCalc := complianceService.NewDefaultRegistry(rules)
	projector := complianceService.NewProjector(rules.TDS, rules.Projection)
	prorator := attendanceService.NewProrator(cfg.Payroll.Holidays)

	// Services
	salarySvc := salaryService.NewSalaryService(structureRepo, aggregator)
	complianceSvc := complianceService.NewComplianceService(registryCalc, projector)
	payrollSvc := payrollService.NewPayrollService(
		txManager,
		payrollRepo,
		structureRepo,
		attendanceRepo,
		complianceRepo,
		payrollService.Engine{Aggregator: aggregator, Registry: registryCalc, Prorator: prorator},
		payrollService.Options{Workers: cfg.Payroll.Workers, Logger: log, Metrics: payrollMetrics},
	)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, time.Hour)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:            cfg.App.Env,
			Version:        version,
			AllowedOrigins: cfg.App.AllowedOrigins,
			MetricsPath:    cfg.App.MetricsPath,
			Gatherer:       registry,
		},
		JWTService,
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewSalaryHandler(salarySvc),
		appHTTP.NewComplianceHandler(complianceSvc),
	)

	scheduler := cron.NewScheduler(log)
	cron.NewPayrollJobs(payrollSvc, cfg.Payroll.AutoRunDay, log).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", server.Addr), zap.Int("workers", cfg.Payroll.Workers))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
