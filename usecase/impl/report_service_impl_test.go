package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkmatch/apitrack/domain/entity"
	"github.com/linkmatch/apitrack/domain/repository"
	"github.com/linkmatch/apitrack/infrastructure/config"
	infraRepo "github.com/linkmatch/apitrack/infrastructure/repository"
	"github.com/linkmatch/apitrack/infrastructure/logging"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

// failingReportRepo fails every save until unbroken
type failingReportRepo struct {
	repository.ReportRepository
	broken bool
	saves  int
}

func (r *failingReportRepo) Save(report *entity.Report) (string, error) {
	if r.broken {
		return "", errors.New("disk full")
	}
	r.saves++
	return r.ReportRepository.Save(report)
}

func newReportFixture(t *testing.T) (usecase.ReportService, usecase.TrackingService, *failingReportRepo) {
	t.Helper()

	inner, err := infraRepo.NewJSONReportRepository(t.TempDir(), 0)
	require.NoError(t, err)
	repo := &failingReportRepo{ReportRepository: inner}

	statusSvc := NewStatusService()
	tracker := NewTracker(&logging.NoOpLogger{}, statusSvc, 0)
	aggregation := NewAggregationService(3.0)
	cfg := &config.ReportConfig{IntervalSec: 3600, HostLabel: "test-host"}

	service := NewReportService(
		tracker,
		aggregation,
		repo,
		nil,
		[]repository.StatsPublisherRepository{infraRepo.NewNoOpStatsPublisher()},
		statusSvc,
		cfg,
		nil,
		&logging.NoOpLogger{},
	)
	return service, tracker, repo
}

// recordingArchive captures archive calls made by the report loop
type recordingArchive struct {
	saved        []*entity.CallRecord
	deleteCutoff time.Time
	deleteCalls  int
	countCalls   int
}

func (a *recordingArchive) SaveAll(records []*entity.CallRecord) error {
	a.saved = append(a.saved, records...)
	return nil
}

func (a *recordingArchive) FindByAPI(apiName string, start, end time.Time) ([]*entity.CallRecord, error) {
	return a.saved, nil
}

func (a *recordingArchive) CountAll() (int, error) {
	a.countCalls++
	return len(a.saved), nil
}

func (a *recordingArchive) DeleteBefore(cutoff time.Time) (int, error) {
	a.deleteCalls++
	a.deleteCutoff = cutoff
	return 0, nil
}

func (a *recordingArchive) Close() error { return nil }

func recordCalls(t *testing.T, tracker usecase.TrackingService, api string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := tracker.Instrument(context.Background(), api, func(ctx context.Context) error {
			return nil
		})
		require.NoError(t, err)
	}
}

func TestReportService_GenerateReportNow(t *testing.T) {
	service, tracker, repo := newReportFixture(t)

	recordCalls(t, tracker, "search_profiles", 3)
	recordCalls(t, tracker, "send_message", 2)

	report, err := service.GenerateReportNow()
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 5, report.Summary.TotalCalls)
	assert.Equal(t, []string{"search_profiles", "send_message"}, report.APINames())
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, 0, tracker.BufferedCount())

	loaded, err := service.LatestReport()
	require.NoError(t, err)
	assert.Equal(t, report.Name, loaded.Name)
}

func TestReportService_PersistFailureRestoresRecords(t *testing.T) {
	service, tracker, repo := newReportFixture(t)

	recordCalls(t, tracker, "enrich_contact", 4)
	repo.broken = true

	_, err := service.GenerateReportNow()
	require.Error(t, err)

	// The drained records went back into the buffer
	assert.Equal(t, 4, tracker.BufferedCount())

	// The next generation picks them up
	repo.broken = false
	report, err := service.GenerateReportNow()
	require.NoError(t, err)
	assert.Equal(t, 4, report.Summary.TotalCalls)
	assert.Equal(t, 0, tracker.BufferedCount())
}

func TestReportService_LatestReportWhenNoneExist(t *testing.T) {
	service, _, _ := newReportFixture(t)

	_, err := service.LatestReport()
	require.Error(t, err)
}

func TestReportService_ListReports(t *testing.T) {
	service, tracker, _ := newReportFixture(t)

	names, err := service.ListReports(10)
	require.NoError(t, err)
	assert.Empty(t, names)

	recordCalls(t, tracker, "search_profiles", 1)
	report, err := service.GenerateReportNow()
	require.NoError(t, err)

	names, err = service.ListReports(10)
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, report.Name, names[0])

	loaded, err := service.LoadReport(names[0])
	require.NoError(t, err)
	assert.Equal(t, report.Summary.TotalCalls, loaded.Summary.TotalCalls)
}

func TestReportService_StartStopPeriodicReports(t *testing.T) {
	service, tracker, repo := newReportFixture(t)

	require.NoError(t, service.StartPeriodicReports())

	// Starting twice is an error
	err := service.StartPeriodicReports()
	require.Error(t, err)

	recordCalls(t, tracker, "get_connections", 2)

	// Stop flushes buffered records into a final report
	require.NoError(t, service.StopPeriodicReports())
	assert.Equal(t, 0, tracker.BufferedCount())
	assert.GreaterOrEqual(t, repo.saves, 1)

	// Stopping an already stopped service is a no-op
	require.NoError(t, service.StopPeriodicReports())
}

func TestReportService_StartWithNilConfig(t *testing.T) {
	statusSvc := NewStatusService()
	tracker := NewTracker(&logging.NoOpLogger{}, statusSvc, 0)
	inner, err := infraRepo.NewJSONReportRepository(t.TempDir(), 0)
	require.NoError(t, err)

	service := NewReportService(tracker, NewAggregationService(3.0), inner, nil, nil, statusSvc, nil, nil, &logging.NoOpLogger{})
	require.Error(t, service.StartPeriodicReports())
}

func TestReportService_ArchiveRetentionPrunedOnGenerate(t *testing.T) {
	inner, err := infraRepo.NewJSONReportRepository(t.TempDir(), 0)
	require.NoError(t, err)

	statusSvc := NewStatusService()
	tracker := NewTracker(&logging.NoOpLogger{}, statusSvc, 0)
	archive := &recordingArchive{}

	service := NewReportService(
		tracker,
		NewAggregationService(3.0),
		inner,
		archive,
		nil,
		statusSvc,
		&config.ReportConfig{IntervalSec: 3600},
		&config.ArchiveConfig{Enabled: true, RetentionDays: 30},
		&logging.NoOpLogger{},
	)

	recordCalls(t, tracker, "search_profiles", 3)
	_, err = service.GenerateReportNow()
	require.NoError(t, err)

	assert.Len(t, archive.saved, 3)
	assert.Equal(t, 1, archive.deleteCalls)
	assert.Equal(t, 1, archive.countCalls)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -30), archive.deleteCutoff, time.Minute)
}

func TestReportService_ArchivePruneSkippedWithoutRetention(t *testing.T) {
	inner, err := infraRepo.NewJSONReportRepository(t.TempDir(), 0)
	require.NoError(t, err)

	statusSvc := NewStatusService()
	tracker := NewTracker(&logging.NoOpLogger{}, statusSvc, 0)
	archive := &recordingArchive{}

	service := NewReportService(
		tracker,
		NewAggregationService(3.0),
		inner,
		archive,
		nil,
		statusSvc,
		&config.ReportConfig{IntervalSec: 3600},
		nil,
		&logging.NoOpLogger{},
	)

	recordCalls(t, tracker, "send_message", 2)
	_, err = service.GenerateReportNow()
	require.NoError(t, err)

	assert.Len(t, archive.saved, 2)
	assert.Equal(t, 0, archive.deleteCalls)
}

func TestReportService_WindowAdvancesBetweenReports(t *testing.T) {
	service, tracker, _ := newReportFixture(t)

	recordCalls(t, tracker, "search_profiles", 1)
	first, err := service.GenerateReportNow()
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	recordCalls(t, tracker, "search_profiles", 1)
	second, err := service.GenerateReportNow()
	require.NoError(t, err)

	// The second window starts where the first one ended
	assert.Equal(t, first.WindowEnd, second.WindowStart)
	assert.True(t, second.WindowEnd.After(second.WindowStart))
}
