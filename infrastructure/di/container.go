package di

import (
	"fmt"
	"os"

	"github.com/linkmatch/apitrack/domain"
	"github.com/linkmatch/apitrack/domain/repository"
	"github.com/linkmatch/apitrack/infrastructure/config"
	"github.com/linkmatch/apitrack/infrastructure/logging"
	infraRepo "github.com/linkmatch/apitrack/infrastructure/repository"
	"github.com/linkmatch/apitrack/interface/cli"
	"github.com/linkmatch/apitrack/interface/controller"
	"github.com/linkmatch/apitrack/interface/presenter"
	"github.com/linkmatch/apitrack/usecase/impl"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

// Container is the dependency injection container
type Container struct {
	// Configuration
	config        *config.AppConfig
	configRepo    repository.ConfigRepository
	configService usecase.ConfigService

	// Repositories
	reportRepo  repository.ReportRepository
	archiveRepo repository.RecordArchiveRepository
	csvWriter   repository.CSVWriterRepository
	publishers  []repository.StatsPublisherRepository

	// Use Cases
	tracker          usecase.TrackingService
	aggregation      usecase.AggregationService
	reportService    usecase.ReportService
	analysisService  usecase.AnalysisService
	statusService    usecase.StatusService
	csvExportService usecase.CSVExportService

	// Presenters
	consolePresenter presenter.ConsolePresenter
	jsonPresenter    presenter.JSONPresenter

	// Controllers
	cliController    *cli.CLIController
	daemonController *controller.DaemonController

	// Logging
	loggerFactory domain.LoggerFactory
	logger        domain.Logger

	// Options
	debugMode bool
}

// ContainerOption is a function that configures the container
type ContainerOption func(*Container)

// WithDebugMode sets the debug mode
func WithDebugMode(debug bool) ContainerOption {
	return func(c *Container) {
		c.debugMode = debug
	}
}

// NewContainer creates a new DI container
func NewContainer(opts ...ContainerOption) (*Container, error) {
	container := &Container{}

	// Apply options
	for _, opt := range opts {
		opt(container)
	}

	// Load configuration
	if err := container.initConfig(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logging
	if err := container.initLogging(); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	// Initialize repositories
	if err := container.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	// Initialize use cases
	if err := container.initUseCases(); err != nil {
		return nil, fmt.Errorf("failed to initialize use cases: %w", err)
	}

	// Initialize presenters
	if err := container.initPresenters(); err != nil {
		return nil, fmt.Errorf("failed to initialize presenters: %w", err)
	}

	// Initialize controllers
	if err := container.initControllers(); err != nil {
		return nil, fmt.Errorf("failed to initialize controllers: %w", err)
	}

	return container, nil
}

// initConfig initializes configuration
func (c *Container) initConfig() error {
	// Create config repository
	c.configRepo = infraRepo.NewJSONConfigRepository()

	// Create temporary NoOpLogger for initial configuration loading
	tempLogger := &logging.NoOpLogger{}

	// Create config service with temporary logger
	configService, err := impl.NewConfigService(c.configRepo, tempLogger)
	if err != nil {
		c.config = config.DefaultConfig()
		return fmt.Errorf("failed to create config service: %w", err)
	}
	c.configService = configService

	// Ensure config file exists (create template if needed)
	if err := configService.EnsureConfigExists(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to create config file: %v\n", err)
	}

	// Get configuration from service (with fallback to defaults)
	cfg := configService.GetConfig()

	// Override debug mode if set via command line
	if c.debugMode {
		if cfg.Logging == nil {
			cfg.Logging = &config.LoggingConfig{
				Level: "debug",
				Debug: true,
			}
		} else {
			cfg.Logging.Debug = true
		}
	}

	// Ensure Daemon config exists if daemon mode is enabled via environment
	if os.Getenv("APITRACK_DAEMON_ENABLED") == "true" && cfg.Daemon == nil {
		cfg.Daemon = &config.DaemonConfig{
			Enabled: true,
			LogPath: "/tmp/apitrack.log",
			PidFile: "/tmp/apitrack.pid",
		}
	}

	c.config = cfg
	return nil
}

// initLogging initializes logging components
func (c *Container) initLogging() error {
	// Ensure logging configuration exists
	if c.config.Logging == nil {
		c.config.Logging = &config.LoggingConfig{
			Level: "info",
			Debug: false,
			Promtail: &config.PromtailConfig{
				URL:              "http://localhost:3100/loki/api/v1/push",
				BatchWaitSeconds: 1,
				BatchCapacity:    100,
				TimeoutSeconds:   5,
			},
		}
	}

	// Create logger factory
	c.loggerFactory = logging.NewLoggerFactory(c.config.Logging)

	// Create main logger for the container
	c.logger = c.loggerFactory.CreateLogger("apitrack")

	return nil
}

// initRepositories initializes repository implementations
func (c *Container) initRepositories() error {
	// Report persistence
	reportCfg := c.config.Report
	if reportCfg == nil {
		reportCfg = &config.ReportConfig{Directory: "performance_reports", IntervalSec: 3600}
		c.config.Report = reportCfg
	}
	reportRepo, err := infraRepo.NewJSONReportRepository(reportCfg.Directory, reportCfg.RetainCount)
	if err != nil {
		return fmt.Errorf("failed to create report repository: %w", err)
	}
	c.reportRepo = reportRepo

	// Raw record archive, only when enabled
	if c.config.Archive != nil && c.config.Archive.Enabled {
		archiveRepo, err := infraRepo.NewSQLiteArchiveRepository(c.config.Archive.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to create archive repository: %w", err)
		}
		c.archiveRepo = archiveRepo
	}

	// CSV writer
	c.csvWriter = infraRepo.NewCSVWriterRepository(c.CreateLogger("csv"))

	// Stats publishers, one per configured backend
	if err := c.initPublishers(); err != nil {
		return err
	}

	return nil
}

// initPublishers wires every configured stats backend. Reports are
// published to all of them; with none configured a no-op keeps the
// report loop's publish step uniform.
func (c *Container) initPublishers() error {
	c.publishers = nil

	if c.config.Prometheus != nil && c.config.Prometheus.RemoteWriteURL != "" {
		pub, err := infraRepo.NewPrometheusStatsPublisher(c.config.Prometheus, c.CreateLogger("prometheus"))
		if err != nil {
			return fmt.Errorf("failed to create prometheus publisher: %w", err)
		}
		c.publishers = append(c.publishers, pub)
	}

	if c.config.CloudWatch != nil && c.config.CloudWatch.Enabled {
		pub, err := infraRepo.NewCloudWatchStatsPublisher(c.config.CloudWatch, c.CreateLogger("cloudwatch"))
		if err != nil {
			return fmt.Errorf("failed to create cloudwatch publisher: %w", err)
		}
		c.publishers = append(c.publishers, pub)
	}

	if c.config.CloudMonitoring != nil && c.config.CloudMonitoring.Enabled {
		pub, err := infraRepo.NewCloudMonitoringStatsPublisher(c.config.CloudMonitoring, c.CreateLogger("cloudmonitoring"))
		if err != nil {
			return fmt.Errorf("failed to create cloud monitoring publisher: %w", err)
		}
		c.publishers = append(c.publishers, pub)
	}

	if len(c.publishers) == 0 {
		c.publishers = append(c.publishers, infraRepo.NewNoOpStatsPublisher())
	}

	return nil
}

// initUseCases initializes use case implementations
func (c *Container) initUseCases() error {
	c.statusService = impl.NewStatusService()

	bufferCap := 0
	if c.config.Tracking != nil {
		bufferCap = c.config.Tracking.BufferCap
	}
	c.tracker = impl.NewTracker(c.CreateLogger("tracker"), c.statusService, bufferCap)

	outlierMultiplier := 3.0
	if c.config.Tracking != nil && c.config.Tracking.OutlierMultiplier > 0 {
		outlierMultiplier = c.config.Tracking.OutlierMultiplier
	}
	c.aggregation = impl.NewAggregationService(outlierMultiplier)

	c.reportService = impl.NewReportService(
		c.tracker,
		c.aggregation,
		c.reportRepo,
		c.archiveRepo,
		c.publishers,
		c.statusService,
		c.config.Report,
		c.config.Archive,
		c.CreateLogger("report"),
	)

	c.analysisService = impl.NewAnalysisService(c.reportService, c.analysisThresholds())

	c.csvExportService = impl.NewCSVExportService(
		c.archiveRepo,
		c.csvWriter,
		c.CreateLogger("export"),
	)

	return nil
}

// analysisThresholds maps the analysis config onto analyzer thresholds,
// falling back to the stock tuning for anything unset
func (c *Container) analysisThresholds() usecase.AnalysisThresholds {
	thresholds := usecase.DefaultAnalysisThresholds()
	cfg := c.config.Analysis
	if cfg == nil {
		return thresholds
	}

	if cfg.SlowMeanSeconds > 0 {
		thresholds.SlowMeanSeconds = cfg.SlowMeanSeconds
	}
	if cfg.SlowP95Seconds > 0 {
		thresholds.SlowP95Seconds = cfg.SlowP95Seconds
	}
	if cfg.HighVolumeShare > 0 {
		thresholds.HighVolumeShare = cfg.HighVolumeShare
	}
	if cfg.HighVolumeMinCalls > 0 {
		thresholds.HighVolumeMinCalls = cfg.HighVolumeMinCalls
	}
	if cfg.UnstableOutlierRate > 0 {
		thresholds.UnstableOutlierRate = cfg.UnstableOutlierRate
	}
	if cfg.HighFailureRate > 0 {
		thresholds.HighFailureRate = cfg.HighFailureRate
	}
	if cfg.RegressionDeltaPct > 0 {
		thresholds.RegressionDeltaPct = cfg.RegressionDeltaPct
	}

	return thresholds
}

// initPresenters initializes presenter implementations
func (c *Container) initPresenters() error {
	c.consolePresenter = presenter.NewConsolePresenter()
	c.jsonPresenter = presenter.NewJSONPresenter()
	return nil
}

// initControllers initializes controller implementations
func (c *Container) initControllers() error {
	c.cliController = cli.NewCLIController(
		c.reportService,
		c.analysisService,
		c.csvExportService,
		c.statusService,
		c.consolePresenter,
		c.jsonPresenter,
	)

	c.daemonController = controller.NewDaemonController(
		c.config,
		c.configService,
		c.reportService,
		c.tracker,
		c.statusService,
		c.consolePresenter,
		c.CreateLogger("daemon"),
	)

	return nil
}

// GetConfig returns the application configuration
func (c *Container) GetConfig() *config.AppConfig {
	return c.config
}

// GetConfigRepository returns the config repository
func (c *Container) GetConfigRepository() repository.ConfigRepository {
	return c.configRepo
}

// GetConfigService returns the config service
func (c *Container) GetConfigService() usecase.ConfigService {
	return c.configService
}

// GetReportRepository returns the report repository
func (c *Container) GetReportRepository() repository.ReportRepository {
	return c.reportRepo
}

// GetArchiveRepository returns the record archive repository, nil when
// the archive is disabled
func (c *Container) GetArchiveRepository() repository.RecordArchiveRepository {
	return c.archiveRepo
}

// GetStatsPublishers returns the configured stats publishers
func (c *Container) GetStatsPublishers() []repository.StatsPublisherRepository {
	return c.publishers
}

// GetTracker returns the tracking service
func (c *Container) GetTracker() usecase.TrackingService {
	return c.tracker
}

// GetAggregationService returns the aggregation service
func (c *Container) GetAggregationService() usecase.AggregationService {
	return c.aggregation
}

// GetReportService returns the report service
func (c *Container) GetReportService() usecase.ReportService {
	return c.reportService
}

// GetAnalysisService returns the analysis service
func (c *Container) GetAnalysisService() usecase.AnalysisService {
	return c.analysisService
}

// GetStatusService returns the status service
func (c *Container) GetStatusService() usecase.StatusService {
	return c.statusService
}

// GetCSVExportService returns the CSV export service
func (c *Container) GetCSVExportService() usecase.CSVExportService {
	return c.csvExportService
}

// GetConsolePresenter returns the console presenter
func (c *Container) GetConsolePresenter() presenter.ConsolePresenter {
	return c.consolePresenter
}

// GetJSONPresenter returns the JSON presenter
func (c *Container) GetJSONPresenter() presenter.JSONPresenter {
	return c.jsonPresenter
}

// GetCLIController returns the CLI controller
func (c *Container) GetCLIController() *cli.CLIController {
	return c.cliController
}

// GetDaemonController returns the daemon controller
func (c *Container) GetDaemonController() *controller.DaemonController {
	return c.daemonController
}

// GetLoggerFactory returns the logger factory
func (c *Container) GetLoggerFactory() domain.LoggerFactory {
	return c.loggerFactory
}

// GetLogger returns the main logger
func (c *Container) GetLogger() domain.Logger {
	return c.logger
}

// CreateLogger creates a new logger for a specific component
func (c *Container) CreateLogger(component string) domain.Logger {
	if c.loggerFactory == nil {
		return &logging.NoOpLogger{}
	}
	return c.loggerFactory.CreateLogger(component)
}

// Close releases external resources held by the container
func (c *Container) Close() error {
	var firstErr error

	for _, pub := range c.publishers {
		if err := pub.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if c.archiveRepo != nil {
		if err := c.archiveRepo.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// Builder pattern for custom container configuration

// ContainerBuilder builds a custom container
type ContainerBuilder struct {
	config      *config.AppConfig
	configRepo  repository.ConfigRepository
	reportRepo  repository.ReportRepository
	archiveRepo repository.RecordArchiveRepository
	publishers  []repository.StatsPublisherRepository
}

// NewContainerBuilder creates a new container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{}
}

// WithConfig sets a custom configuration
func (b *ContainerBuilder) WithConfig(cfg *config.AppConfig) *ContainerBuilder {
	b.config = cfg
	return b
}

// WithConfigRepository sets a custom config repository
func (b *ContainerBuilder) WithConfigRepository(repo repository.ConfigRepository) *ContainerBuilder {
	b.configRepo = repo
	return b
}

// WithReportRepository sets a custom report repository
func (b *ContainerBuilder) WithReportRepository(repo repository.ReportRepository) *ContainerBuilder {
	b.reportRepo = repo
	return b
}

// WithArchiveRepository sets a custom record archive repository
func (b *ContainerBuilder) WithArchiveRepository(repo repository.RecordArchiveRepository) *ContainerBuilder {
	b.archiveRepo = repo
	return b
}

// WithStatsPublishers sets custom stats publishers
func (b *ContainerBuilder) WithStatsPublishers(publishers ...repository.StatsPublisherRepository) *ContainerBuilder {
	b.publishers = publishers
	return b
}

// Build builds the container with custom components
func (b *ContainerBuilder) Build() (*Container, error) {
	container := &Container{}

	// Use custom config repository or create default
	if b.configRepo != nil {
		container.configRepo = b.configRepo
	} else {
		container.configRepo = infraRepo.NewJSONConfigRepository()
	}

	// Use custom config or load default
	if b.config != nil {
		container.config = b.config
		tempLogger := &logging.NoOpLogger{}
		configService, err := impl.NewConfigService(container.configRepo, tempLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create config service: %w", err)
		}
		container.configService = configService
	} else {
		if err := container.initConfig(); err != nil {
			return nil, fmt.Errorf("failed to initialize config: %w", err)
		}
	}

	if err := container.initLogging(); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	// Use custom repositories or create defaults
	if err := container.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}
	if b.reportRepo != nil {
		container.reportRepo = b.reportRepo
	}
	if b.archiveRepo != nil {
		container.archiveRepo = b.archiveRepo
	}
	if len(b.publishers) > 0 {
		container.publishers = b.publishers
	}

	if err := container.initUseCases(); err != nil {
		return nil, fmt.Errorf("failed to initialize use cases: %w", err)
	}
	if err := container.initPresenters(); err != nil {
		return nil, fmt.Errorf("failed to initialize presenters: %w", err)
	}
	if err := container.initControllers(); err != nil {
		return nil, fmt.Errorf("failed to initialize controllers: %w", err)
	}

	return container, nil
}

// ServiceLocator provides a global access point to services (use with caution)
var defaultContainer *Container

// InitializeDefault initializes the default container
func InitializeDefault() error {
	container, err := NewContainer()
	if err != nil {
		return err
	}
	defaultContainer = container
	return nil
}

// GetDefaultContainer returns the default container
func GetDefaultContainer() (*Container, error) {
	if defaultContainer == nil {
		if err := InitializeDefault(); err != nil {
			return nil, err
		}
	}
	return defaultContainer, nil
}
