package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/misterunderhilll/clinic-scheduler/internal/config"
	"github.com/misterunderhilll/clinic-scheduler/internal/domain/admin"
	"github.com/misterunderhilll/clinic-scheduler/internal/domain/appointment"
	"github.com/misterunderhilll/clinic-scheduler/internal/domain/doctor"
	"github.com/misterunderhilll/clinic-scheduler/internal/domain/patient"
	"github.com/misterunderhilll/clinic-scheduler/internal/domain/prescription"
	"github.com/misterunderhilll/clinic-scheduler/internal/platform/auth"
	"github.com/misterunderhilll/clinic-scheduler/internal/platform/db"
	"github.com/misterunderhilll/clinic-scheduler/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic scheduling API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	tokens := auth.NewTokenService(cfg.SigningSecret(), time.Duration(cfg.TokenTTLDays)*24*time.Hour)

	availCache, err := doctor.NewAvailabilityCache(cfg.AvailabilityCacheSize)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build availability cache")
	}

	adminRepo := admin.NewRepoPG(pool)
	doctorRepo := doctor.NewRepoPG(pool)
	patientRepo := patient.NewRepoPG(pool)
	apptRepo := appointment.NewRepoPG(pool)
	prescriptionRepo := prescription.NewRepoPG(pool)

	// The appointment repo doubles as the doctor service's view of booked
	// times, and the doctor service doubles as the appointment service's
	// directory. Repos before services keeps the construction acyclic.
	adminSvc := admin.NewService(adminRepo, tokens)
	doctorSvc := doctor.NewService(doctorRepo, apptRepo, apptRepo, tokens, availCache)
	apptSvc := appointment.NewService(apptRepo, doctorSvc, availCache)
	patientSvc := patient.NewService(patientRepo, apptSvc, tokens)
	prescriptionSvc := prescription.NewService(prescriptionRepo, apptSvc)

	tokens.RegisterResolver(auth.RoleAdmin, adminSvc.Exists)
	tokens.RegisterResolver(auth.RoleDoctor, doctorSvc.Exists)
	tokens.RegisterResolver(auth.RolePatient, patientSvc.Exists)

	admin.NewHandler(adminSvc).RegisterRoutes(e)
	doctor.NewHandler(doctorSvc).RegisterRoutes(e, tokens)
	appointment.NewHandler(apptSvc, patientSvc).RegisterRoutes(e, tokens)
	patient.NewHandler(patientSvc).RegisterRoutes(e, tokens)
	prescription.NewHandler(prescriptionSvc).RegisterRoutes(e, tokens)

	e.GET("/health", db.HealthHandler(pool))

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
