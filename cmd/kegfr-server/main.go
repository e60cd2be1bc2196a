package main

import (
	"context"
	"encoding/json"
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

	"github.com/shaktimishra84/kinetic-egfr-app/internal/config"
	"github.com/shaktimishra84/kinetic-egfr-app/internal/domain/renal"
	"github.com/shaktimishra84/kinetic-egfr-app/internal/platform/auth"
	"github.com/shaktimishra84/kinetic-egfr-app/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "kegfr-server",
		Short: "Kinetic eGFR (Chen) API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(calcCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the kinetic eGFR API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func calcCmd() *cobra.Command {
	var (
		unit      string
		scrSS     float64
		crcl      float64
		age       int
		sex       string
		weight    float64
		scr1      float64
		t1        string
		scr2      float64
		t2        string
		maxRise   float64
		tbwWeight float64
		fb1       float64
		fb2       float64
		fbWeight  float64
		fbSex     string
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Run one kinetic eGFR computation and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			time1, err := time.Parse(time.RFC3339, t1)
			if err != nil {
				return fmt.Errorf("parsing --t1: %w", err)
			}
			time2, err := time.Parse(time.RFC3339, t2)
			if err != nil {
				return fmt.Errorf("parsing --t2: %w", err)
			}

			req := &renal.ComputeRequest{
				Unit:           renal.Unit(unit),
				SteadyStateSCr: &scrSS,
				SCr1:           &scr1,
				Time1:          &time1,
				SCr2:           &scr2,
				Time2:          &time2,
			}

			if cmd.Flags().Changed("crcl") {
				req.Baseline.CrCl = &crcl
			} else {
				req.Baseline.Age = &age
				req.Baseline.Sex = renal.Sex(sex)
				req.Baseline.WeightKg = &weight
			}

			if cmd.Flags().Changed("max-rise") {
				req.MaxRise = &renal.MaxRiseInput{Mode: "fixed", Fixed: &maxRise}
			} else if cmd.Flags().Changed("tbw-weight") {
				req.MaxRise = &renal.MaxRiseInput{Mode: "tbw", Sex: renal.Sex(sex), WeightKg: &tbwWeight}
			}

			if cmd.Flags().Changed("fb1") || cmd.Flags().Changed("fb2") {
				req.FluidBalance = &renal.FluidBalanceInput{
					FB1Liters: &fb1,
					FB2Liters: &fb2,
					Sex:       renal.Sex(fbSex),
					WeightKg:  &fbWeight,
				}
			}

			svc := renal.NewService(renal.DefaultMaxRisePerDay, renal.DefaultWarnIntervalHours)
			resp, err := svc.Compute(cmd.Context(), req)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&unit, "unit", "mg/dL", "Creatinine unit: mg/dL or umol/L")
	cmd.Flags().Float64Var(&scrSS, "scr-ss", 0, "Steady-state (baseline) serum creatinine")
	cmd.Flags().Float64Var(&crcl, "crcl", 0, "Baseline CrCl in mL/min (skips Cockcroft-Gault)")
	cmd.Flags().IntVar(&age, "age", 0, "Age in years (Cockcroft-Gault)")
	cmd.Flags().StringVar(&sex, "sex", "male", "Sex: male or female")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Weight in kg (Cockcroft-Gault)")
	cmd.Flags().Float64Var(&scr1, "scr1", 0, "First kinetic-window creatinine")
	cmd.Flags().StringVar(&t1, "t1", "", "Time of first reading (RFC3339)")
	cmd.Flags().Float64Var(&scr2, "scr2", 0, "Second kinetic-window creatinine")
	cmd.Flags().StringVar(&t2, "t2", "", "Time of second reading (RFC3339)")
	cmd.Flags().Float64Var(&maxRise, "max-rise", 0, "Fixed max creatinine rise per day")
	cmd.Flags().Float64Var(&tbwWeight, "tbw-weight", 0, "Weight in kg for TBW-derived max rise")
	cmd.Flags().Float64Var(&fb1, "fb1", 0, "Cumulative fluid balance at first reading (L)")
	cmd.Flags().Float64Var(&fb2, "fb2", 0, "Cumulative fluid balance at second reading (L)")
	cmd.Flags().Float64Var(&fbWeight, "fb-weight", 0, "Weight in kg for fluid-balance TBW")
	cmd.Flags().StringVar(&fbSex, "fb-sex", "male", "Sex for fluid-balance TBW")
	cmd.MarkFlagRequired("scr-ss")
	cmd.MarkFlagRequired("scr1")
	cmd.MarkFlagRequired("t1")
	cmd.MarkFlagRequired("scr2")
	cmd.MarkFlagRequired("t2")

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.JWTSigningKey),
		}))
	}

	// API group with rate limiting
	apiV1 := e.Group("/api/v1")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	// Renal domain
	renalSvc := renal.NewService(cfg.MaxRiseDefault, cfg.MinIntervalWarnHours)
	renalHandler := renal.NewHandler(renalSvc)
	renalHandler.RegisterRoutes(apiV1)

	// Graceful shutdown
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
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
