package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/linkmatch/apitrack/domain/repository"
	"github.com/linkmatch/apitrack/infrastructure/config"
	"github.com/linkmatch/apitrack/infrastructure/logging"
	infraRepo "github.com/linkmatch/apitrack/infrastructure/repository"
	"github.com/linkmatch/apitrack/interface/presenter"
	"github.com/linkmatch/apitrack/usecase/impl"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

const (
	defaultNumWorkers      = 4
	defaultIntervalSeconds = 30
	defaultReportDir       = "demo_reports"
)

// Simulated API endpoints with distinct latency profiles
var apiProfiles = []struct {
	name     string
	baseMs   int
	jitterMs int
	failRate float64
}{
	{"search_profiles", 180, 120, 0.02},
	{"send_message", 90, 60, 0.05},
	{"get_connections", 250, 200, 0.01},
	{"enrich_contact", 600, 400, 0.08},
	{"export_leads", 1200, 900, 0.03},
}

// Config holds the demo settings
type Config struct {
	NumWorkers int
	Interval   time.Duration
	ReportDir  string
}

// loadConfig reads settings from environment variables
func loadConfig() *Config {
	cfg := &Config{
		NumWorkers: defaultNumWorkers,
		Interval:   defaultIntervalSeconds * time.Second,
		ReportDir:  defaultReportDir,
	}

	if v := os.Getenv("DEMO_NUM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NumWorkers = n
		}
	}
	if v := os.Getenv("DEMO_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Interval = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("DEMO_REPORT_DIR"); v != "" {
		cfg.ReportDir = v
	}

	return cfg
}

func main() {
	cfg := loadConfig()

	logger := &logging.NoOpLogger{}
	statusSvc := impl.NewStatusService()
	tracker := impl.NewTracker(logger, statusSvc, 0)
	aggregation := impl.NewAggregationService(3.0)

	reportRepo, err := infraRepo.NewJSONReportRepository(cfg.ReportDir, 10)
	if err != nil {
		log.Fatalf("failed to create report repository: %v", err)
	}

	reportSvc := impl.NewReportService(
		tracker,
		aggregation,
		reportRepo,
		nil,
		[]repository.StatsPublisherRepository{infraRepo.NewNoOpStatsPublisher()},
		statusSvc,
		&config.ReportConfig{Directory: cfg.ReportDir, IntervalSec: int(cfg.Interval.Seconds())},
		nil,
		logger,
	)

	if err := reportSvc.StartPeriodicReports(); err != nil {
		log.Fatalf("failed to start report loop: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Workers hammer the simulated APIs through the instrumentation wrapper
	for i := 0; i < cfg.NumWorkers; i++ {
		rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(i)))
		go worker(ctx, tracker, rng)
	}

	fmt.Printf("Demo running: %d workers, reports every %s into %s/\n",
		cfg.NumWorkers, cfg.Interval, cfg.ReportDir)
	fmt.Println("Press Ctrl+C to stop and print the final report.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	cancel()
	if err := reportSvc.StopPeriodicReports(); err != nil {
		log.Printf("failed to stop report loop: %v", err)
	}

	report, err := reportSvc.LatestReport()
	if err != nil {
		log.Fatalf("failed to load final report: %v", err)
	}

	console := presenter.NewConsolePresenter()
	if err := console.PrintReport(report); err != nil {
		log.Fatalf("failed to print report: %v", err)
	}
}

// worker issues simulated API calls until the context is canceled
func worker(ctx context.Context, tracker usecase.TrackingService, rng *rand.Rand) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		profile := apiProfiles[rng.Intn(len(apiProfiles))]
		_ = tracker.Instrument(ctx, profile.name, func(ctx context.Context) error {
			delay := time.Duration(profile.baseMs+rng.Intn(profile.jitterMs+1)) * time.Millisecond
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			if rng.Float64() < profile.failRate {
				return errors.New("simulated upstream error")
			}
			return nil
		})

		time.Sleep(time.Duration(50+rng.Intn(200)) * time.Millisecond)
	}
}
