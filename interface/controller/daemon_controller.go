package controller

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/linkmatch/apitrack/domain"
	"github.com/linkmatch/apitrack/domain/entity"
	"github.com/linkmatch/apitrack/infrastructure/config"
	"github.com/linkmatch/apitrack/interface/presenter"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

// DaemonController manages the daemon lifecycle: the periodic report loop,
// the live call log, PID file handling, and signal-driven shutdown.
type DaemonController struct {
	config        *config.AppConfig
	configService usecase.ConfigService
	reportService usecase.ReportService
	tracker       usecase.TrackingService
	statusService usecase.StatusService
	console       presenter.ConsolePresenter

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	logger  domain.Logger
	pidFile string
}

// NewDaemonController creates a new daemon controller
func NewDaemonController(
	cfg *config.AppConfig,
	configService usecase.ConfigService,
	reportService usecase.ReportService,
	tracker usecase.TrackingService,
	statusService usecase.StatusService,
	console presenter.ConsolePresenter,
	logger domain.Logger,
) *DaemonController {
	return &DaemonController{
		config:        cfg,
		configService: configService,
		reportService: reportService,
		tracker:       tracker,
		statusService: statusService,
		console:       console,
		logger:        logger,
	}
}

// Start starts the daemon
func (d *DaemonController) Start() error {
	d.ctx, d.cancel = context.WithCancel(context.Background())

	d.logger.Info(d.ctx, "Starting apitrack daemon...")

	// Write PID file
	if err := d.writePIDFile(); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	// Update status service
	if err := d.statusService.SetDaemonStarted(time.Now()); err != nil {
		return fmt.Errorf("failed to update daemon status: %w", err)
	}

	// Start the periodic report loop
	if err := d.reportService.StartPeriodicReports(); err != nil {
		_ = d.removePIDFile()
		return fmt.Errorf("failed to start report loop: %w", err)
	}

	// Start the live call log if configured
	if d.config.Tracking != nil && d.config.Tracking.LiveLog {
		d.startLiveLog()
	}

	d.logger.Info(d.ctx, "Daemon started successfully")
	return nil
}

// Run starts the daemon and blocks until a termination signal arrives
func (d *DaemonController) Run() error {
	if err := d.Start(); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		d.logger.Info(d.ctx, "Received signal", domain.NewField("signal", sig.String()))
	case <-d.ctx.Done():
	}

	return d.Stop()
}

// Stop stops the daemon gracefully. The report service flushes buffered
// records into a final report before shutdown.
func (d *DaemonController) Stop() error {
	d.logger.Info(d.ctx, "Stopping apitrack daemon...")

	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()

	if err := d.reportService.StopPeriodicReports(); err != nil {
		d.logger.Error(d.ctx, "Failed to stop report loop", domain.NewField("error", err.Error()))
	}

	if err := d.statusService.SetDaemonStopped(); err != nil {
		d.logger.Error(d.ctx, "Failed to update daemon status", domain.NewField("error", err.Error()))
	}

	if err := d.removePIDFile(); err != nil {
		d.logger.Error(d.ctx, "Failed to remove PID file", domain.NewField("error", err.Error()))
	}

	d.logger.Info(d.ctx, "Daemon stopped successfully")
	return nil
}

// startLiveLog subscribes to the tracker and prints each completed call.
// A slow console loses records rather than blocking the recording path.
func (d *DaemonController) startLiveLog() {
	buffer := 64
	if d.config.Tracking.SubscriberBuffer > 0 {
		buffer = d.config.Tracking.SubscriberBuffer
	}
	feed, unsubscribe := d.tracker.Subscribe(buffer)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer unsubscribe()

		for {
			select {
			case <-d.ctx.Done():
				return
			case record, ok := <-feed:
				if !ok {
					return
				}
				d.printLiveCall(record)
			}
		}
	}()
}

func (d *DaemonController) printLiveCall(record *entity.CallRecord) {
	if record == nil {
		return
	}
	if d.console != nil {
		if err := d.console.PrintLiveCall(record); err == nil {
			return
		}
	}
	d.logger.Info(d.ctx, "API call completed",
		domain.NewField("api", record.APIName),
		domain.NewField("duration_seconds", record.Seconds()),
		domain.NewField("outcome", string(record.Outcome)))
}

// writePIDFile writes the process ID to a file
func (d *DaemonController) writePIDFile() error {
	if d.config.Daemon == nil || d.config.Daemon.PidFile == "" {
		return nil
	}

	pid := os.Getpid()
	pidStr := strconv.Itoa(pid)

	if err := os.WriteFile(d.config.Daemon.PidFile, []byte(pidStr), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	d.pidFile = d.config.Daemon.PidFile
	return nil
}

// removePIDFile removes the PID file
func (d *DaemonController) removePIDFile() error {
	if d.pidFile == "" {
		return nil
	}

	if err := os.Remove(d.pidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}

	return nil
}
