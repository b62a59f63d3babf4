package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minhtn89/jshound/internal/api"
	"github.com/minhtn89/jshound/internal/scanner"
	sharedErrors "github.com/minhtn89/jshound/internal/shared/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run jshound as a REST API service",
	Long: `Expose stored scan reports and asynchronous scans over HTTP, for an
external UI that triggers scans and renders results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		authToken, _ := cmd.Flags().GetString("auth-token")
		shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")
		corsOrigins, _ := cmd.Flags().GetStringSlice("cors-origins")
		rateLimit, _ := cmd.Flags().GetInt("rate-limit")
		rateBurst, _ := cmd.Flags().GetInt("rate-burst")

		if authToken == "" {
			authToken = viper.GetString("serve.auth_token")
		}

		// Structured logger for the API surface
		zlog, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() {
			if err := zlog.Sync(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
			}
		}()

		store, err := scanner.NewStore(resultsDir)
		if err != nil {
			return err
		}

		scanCfg := scanConfigFromFlags(scanCmd)
		server := api.NewServer(api.Config{
			Reports: &reportAPIService{store: store},
			Scans: &scanJobService{
				manager: api.NewJobManager(),
				scanner: scanner.New(scanCfg, zlog.Sugar()),
				store:   store,
				logger:  zlog.Sugar(),
			},
			AuthToken:   authToken,
			Logger:      zlog,
			CORSOrigins: corsOrigins,
			RateLimit:   rateLimit,
			RateBurst:   rateBurst,
		})

		httpServer := &http.Server{
			Addr:         addr,
			Handler:      server,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("%s API server listening on %s (results dir: %s)\n", colorInfo("→"), addr, resultsDir)
			fmt.Printf("%s Press Ctrl+C to gracefully shutdown\n", colorInfo("→"))
			serverErrors <- httpServer.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
		case sig := <-shutdown:
			fmt.Printf("\n%s Received signal %v, initiating graceful shutdown...\n", colorInfo("→"), sig)

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				if closeErr := httpServer.Close(); closeErr != nil {
					return fmt.Errorf("failed to gracefully shutdown server: %w (close error: %v)", err, closeErr)
				}
				return fmt.Errorf("failed to gracefully shutdown server: %w", err)
			}

			fmt.Printf("%s Server shutdown complete\n", colorSuccess("✓"))
		}

		return nil
	},
}

// reportAPIService adapts the report store to the API's read surface.
type reportAPIService struct {
	store *scanner.Store
}

func (s *reportAPIService) ListDomains(ctx context.Context) ([]string, error) {
	return s.store.ListDomains()
}

func (s *reportAPIService) GetReport(ctx context.Context, domain string) (*scanner.Report, error) {
	return s.store.LoadLatest(domain)
}

// scanJobService runs scans in the background and tracks them as jobs.
type scanJobService struct {
	manager *api.JobManager
	scanner *scanner.Scanner
	store   *scanner.Store
	logger  *zap.SugaredLogger
}

func (s *scanJobService) StartScan(ctx context.Context, req api.JobRequest) (*api.Job, error) {
	domain := scanner.NormalizeDomain(req.Domain)
	if domain == "" {
		return nil, sharedErrors.ErrEmptyDomain
	}

	job := s.manager.CreateJob(domain)
	// Detached from the request context: the scan outlives the HTTP call.
	go s.run(job.ID, domain)
	return job, nil
}

func (s *scanJobService) GetScan(ctx context.Context, id string) (*api.Job, error) {
	job := s.manager.GetJob(id)
	if job == nil {
		return nil, errors.New("scan not found")
	}
	return job, nil
}

func (s *scanJobService) ListScans(ctx context.Context, limit int) ([]api.Job, error) {
	return s.manager.ListJobs(limit), nil
}

func (s *scanJobService) run(jobID, domain string) {
	started := time.Now().UTC()
	s.manager.UpdateJob(jobID, func(j *api.Job) {
		j.Status = "running"
		j.StartedAt = &started
	})

	report, err := s.scanner.Scan(context.Background(), domain)
	finished := time.Now().UTC()

	if err != nil {
		s.logger.Errorw("background scan failed", "job", jobID, "domain", domain, "error", err)
		s.manager.UpdateJob(jobID, func(j *api.Job) {
			j.Status = "failed"
			j.FinishedAt = &finished
			j.Error = err.Error()
		})
		return
	}

	if _, err := s.store.Save(report); err != nil {
		s.logger.Errorw("failed to persist report", "job", jobID, "domain", domain, "error", err)
		s.manager.UpdateJob(jobID, func(j *api.Job) {
			j.Status = "failed"
			j.FinishedAt = &finished
			j.Error = err.Error()
		})
		return
	}

	s.manager.UpdateJob(jobID, func(j *api.Job) {
		j.Status = "completed"
		j.FinishedAt = &finished
		j.TotalAssets = report.TotalAssets
		j.Vulnerable = report.VulnerableAssets
	})
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Address for the API server")
	serveCmd.Flags().String("auth-token", "", "Optional shared secret for API requests")
	serveCmd.Flags().Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	serveCmd.Flags().StringSlice("cors-origins", nil, "Allowed CORS origins (empty = allow all)")
	serveCmd.Flags().Int("rate-limit", 0, "Requests per second per client IP (0 = disabled)")
	serveCmd.Flags().Int("rate-burst", 10, "Burst size for the per-IP rate limiter")
}
