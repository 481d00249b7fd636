package impl

import (
	"context"
	"sync"
	"time"

	"github.com/linkmatch/apitrack/domain"
	"github.com/linkmatch/apitrack/domain/entity"
	"github.com/linkmatch/apitrack/domain/repository"
	"github.com/linkmatch/apitrack/infrastructure/config"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

// ReportServiceImpl implements the ReportService interface. It owns the
// hourly drain-aggregate-persist loop and the pending-records retry path.
type ReportServiceImpl struct {
	tracker     usecase.TrackingService
	aggregation usecase.AggregationService
	reportRepo  repository.ReportRepository
	archiveRepo repository.RecordArchiveRepository
	publishers  []repository.StatsPublisherRepository
	statusSvc   usecase.StatusService
	config      *config.ReportConfig
	archiveCfg  *config.ArchiveConfig
	logger      domain.Logger

	ticker      *time.Ticker
	stopChan    chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool

	// genMu guards generation and the window boundary, separately from
	// the lifecycle mutex so shutdown cannot deadlock against a tick.
	genMu       sync.Mutex
	windowStart time.Time
}

// NewReportService creates a new report service implementation
func NewReportService(
	tracker usecase.TrackingService,
	aggregation usecase.AggregationService,
	reportRepo repository.ReportRepository,
	archiveRepo repository.RecordArchiveRepository,
	publishers []repository.StatsPublisherRepository,
	statusSvc usecase.StatusService,
	cfg *config.ReportConfig,
	archiveCfg *config.ArchiveConfig,
	logger domain.Logger,
) usecase.ReportService {
	return &ReportServiceImpl{
		tracker:     tracker,
		aggregation: aggregation,
		reportRepo:  reportRepo,
		archiveRepo: archiveRepo,
		publishers:  publishers,
		statusSvc:   statusSvc,
		config:      cfg,
		archiveCfg:  archiveCfg,
		logger:      logger,
		stopChan:    make(chan struct{}),
	}
}

// StartPeriodicReports starts the hourly report loop
func (s *ReportServiceImpl) StartPeriodicReports() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return usecase.NewReportServiceError("already_running", "report service is already running")
	}
	if s.config == nil {
		return usecase.NewReportServiceError("invalid_config", "report config is nil")
	}

	interval := time.Duration(s.config.IntervalSec) * time.Second
	s.genMu.Lock()
	s.windowStart = time.Now()
	s.genMu.Unlock()
	s.ticker = time.NewTicker(interval)
	s.isRunning = true

	if s.statusSvc != nil {
		_ = s.statusSvc.UpdateNextReport(s.windowStart.Add(interval))
	}

	s.wg.Add(1)
	go s.runPeriodicReports(interval)

	return nil
}

// StopPeriodicReports stops the report loop. A final report is generated
// from any buffered records before shutdown.
func (s *ReportServiceImpl) StopPeriodicReports() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopChan)
	s.wg.Wait()

	// Flush whatever is buffered so a clean shutdown loses nothing.
	if _, err := s.generate(); err != nil {
		ctx := context.Background()
		s.logger.Warn(ctx, "Failed to generate final report", domain.NewField("error", err.Error()))
	}

	s.isRunning = false
	s.stopChan = make(chan struct{}) // Reset for potential restart

	return nil
}

// GenerateReportNow drains the tracker and persists a report immediately
func (s *ReportServiceImpl) GenerateReportNow() (*entity.Report, error) {
	return s.generate()
}

// LatestReport returns the most recently persisted report
func (s *ReportServiceImpl) LatestReport() (*entity.Report, error) {
	report, err := s.reportRepo.Latest()
	if err != nil {
		return nil, usecase.NewReportServiceError("load_latest", err.Error())
	}
	return report, nil
}

// ListReports returns persisted report names, newest first
func (s *ReportServiceImpl) ListReports(limit int) ([]string, error) {
	names, err := s.reportRepo.List(limit)
	if err != nil {
		return nil, usecase.NewReportServiceError("list", err.Error())
	}
	return names, nil
}

// LoadReport reads a persisted report by name
func (s *ReportServiceImpl) LoadReport(name string) (*entity.Report, error) {
	report, err := s.reportRepo.Load(name)
	if err != nil {
		return nil, usecase.NewReportServiceError("load", err.Error()).WithDetail("name", name)
	}
	return report, nil
}

// LoadLatestReports reads the newest count reports, newest first
func (s *ReportServiceImpl) LoadLatestReports(count int) ([]*entity.Report, error) {
	reports, err := s.reportRepo.LoadLatest(count)
	if err != nil {
		return nil, usecase.NewReportServiceError("load_latest", err.Error())
	}
	return reports, nil
}

// runPeriodicReports runs the periodic report generation loop
func (s *ReportServiceImpl) runPeriodicReports(interval time.Duration) {
	defer s.wg.Done()

	for {
		select {
		case <-s.ticker.C:
			if _, err := s.generate(); err != nil {
				ctx := context.Background()
				s.logger.Warn(ctx, "Failed to generate periodic report", domain.NewField("error", err.Error()))
				// Records stay buffered; the next tick retries them.
			}
			if s.statusSvc != nil {
				_ = s.statusSvc.UpdateNextReport(time.Now().Add(interval))
			}
		case <-s.stopChan:
			return
		}
	}
}

// generate drains, aggregates, persists, and fans out one report
func (s *ReportServiceImpl) generate() (*entity.Report, error) {
	s.genMu.Lock()
	defer s.genMu.Unlock()

	ctx := context.Background()

	windowEnd := time.Now()
	windowStart := s.windowStart
	if windowStart.IsZero() || windowStart.After(windowEnd) {
		windowStart = windowEnd
	}

	records := s.tracker.Drain()

	report, err := s.aggregation.BuildReport(records, windowStart, windowEnd)
	if err != nil {
		s.tracker.Restore(records)
		return nil, usecase.NewReportServiceError("aggregate", err.Error())
	}

	name, err := s.reportRepo.Save(report)
	if err != nil {
		// Persist failed: the drained records are merged back into the
		// buffer so the next cycle reports them.
		s.tracker.Restore(records)
		if s.statusSvc != nil {
			_ = s.statusSvc.RecordError(err)
		}
		return nil, usecase.NewReportServiceError("persist", err.Error())
	}
	s.windowStart = windowEnd

	s.logger.Info(ctx, "Report persisted",
		domain.NewField("report", name),
		domain.NewField("apis", len(report.PerAPIStats)),
		domain.NewField("calls", report.Summary.TotalCalls))

	if s.statusSvc != nil {
		_ = s.statusSvc.UpdateLastReport(windowEnd)
		_ = s.statusSvc.ClearError()
	}

	// Archival and publishing are best effort; the persisted report is
	// already the source of truth.
	if s.archiveRepo != nil && len(records) > 0 {
		if err := s.archiveRepo.SaveAll(records); err != nil {
			s.logger.Warn(ctx, "Failed to archive call records", domain.NewField("error", err.Error()))
		}
		s.pruneArchive(ctx, windowEnd)
	}
	for _, publisher := range s.publishers {
		if publisher == nil {
			continue
		}
		if err := publisher.PublishStats(report, s.config.HostLabel); err != nil {
			s.logger.Warn(ctx, "Failed to publish report stats", domain.NewField("error", err.Error()))
		}
	}

	return report, nil
}

// pruneArchive drops archived records older than the retention window and
// logs the archive size. Best effort, like archival itself.
func (s *ReportServiceImpl) pruneArchive(ctx context.Context, now time.Time) {
	if s.archiveCfg == nil || s.archiveCfg.RetentionDays <= 0 {
		return
	}

	cutoff := now.AddDate(0, 0, -s.archiveCfg.RetentionDays)
	deleted, err := s.archiveRepo.DeleteBefore(cutoff)
	if err != nil {
		s.logger.Warn(ctx, "Failed to prune record archive", domain.NewField("error", err.Error()))
		return
	}

	total, err := s.archiveRepo.CountAll()
	if err != nil {
		s.logger.Warn(ctx, "Failed to count archived records", domain.NewField("error", err.Error()))
		return
	}

	if deleted > 0 {
		s.logger.Info(ctx, "Pruned record archive",
			domain.NewField("deleted", deleted),
			domain.NewField("retention_days", s.archiveCfg.RetentionDays),
			domain.NewField("archived_total", total))
	}
}
