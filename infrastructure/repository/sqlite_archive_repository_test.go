package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkmatch/apitrack/domain/entity"
	"github.com/linkmatch/apitrack/domain/repository"
)

func newArchive(t *testing.T) repository.RecordArchiveRepository {
	t.Helper()
	repo, err := NewSQLiteArchiveRepository(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

func archiveRecord(api string, startedAt time.Time, outcome entity.CallOutcome) *entity.CallRecord {
	return &entity.CallRecord{
		APIName:   api,
		StartedAt: startedAt,
		Duration:  150 * time.Millisecond,
		Outcome:   outcome,
	}
}

func TestSQLiteArchiveRepository_SaveAndFind(t *testing.T) {
	repo := newArchive(t)
	base := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	records := []*entity.CallRecord{
		archiveRecord("search_profiles", base, entity.OutcomeSuccess),
		archiveRecord("send_message", base.Add(time.Minute), entity.OutcomeFailure),
		archiveRecord("search_profiles", base.Add(2*time.Minute), entity.OutcomeSuccess),
	}
	records[1].ErrorClass = entity.ErrorClassRateLimited
	records[0].Metadata = map[string]string{"campaign": "spring_outreach"}

	require.NoError(t, repo.SaveAll(records))

	found, err := repo.FindByAPI("search_profiles", base.Add(-time.Hour), base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "search_profiles", found[0].APIName)
	assert.True(t, found[0].StartedAt.Before(found[1].StartedAt))
	assert.Equal(t, 150*time.Millisecond, found[0].Duration)

	value, ok := found[0].GetMetadata("campaign")
	assert.True(t, ok)
	assert.Equal(t, "spring_outreach", value)

	failures, err := repo.FindByAPI("send_message", base.Add(-time.Hour), base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, entity.OutcomeFailure, failures[0].Outcome)
	assert.Equal(t, entity.ErrorClassRateLimited, failures[0].ErrorClass)
}

func TestSQLiteArchiveRepository_FindAllAPIs(t *testing.T) {
	repo := newArchive(t)
	base := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.SaveAll([]*entity.CallRecord{
		archiveRecord("search_profiles", base, entity.OutcomeSuccess),
		archiveRecord("send_message", base.Add(time.Second), entity.OutcomeSuccess),
	}))

	all, err := repo.FindByAPI("", base.Add(-time.Minute), base.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLiteArchiveRepository_FindRespectsTimeRange(t *testing.T) {
	repo := newArchive(t)
	base := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveAll([]*entity.CallRecord{
		archiveRecord("search_profiles", base, entity.OutcomeSuccess),
		archiveRecord("search_profiles", base.Add(time.Hour), entity.OutcomeSuccess),
	}))

	found, err := repo.FindByAPI("search_profiles", base.Add(-time.Minute), base.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, found[0].StartedAt.Equal(base))
}

func TestSQLiteArchiveRepository_CountAndDelete(t *testing.T) {
	repo := newArchive(t)
	base := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveAll([]*entity.CallRecord{
		archiveRecord("search_profiles", base, entity.OutcomeSuccess),
		archiveRecord("search_profiles", base.Add(time.Hour), entity.OutcomeSuccess),
		archiveRecord("search_profiles", base.Add(2*time.Hour), entity.OutcomeSuccess),
	}))

	count, err := repo.CountAll()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	deleted, err := repo.DeleteBefore(base.Add(90 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	count, err = repo.CountAll()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteArchiveRepository_SaveAllEmpty(t *testing.T) {
	repo := newArchive(t)
	require.NoError(t, repo.SaveAll(nil))

	count, err := repo.CountAll()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSQLiteArchiveRepository_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")
	base := time.Now().UTC()

	first, err := NewSQLiteArchiveRepository(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.SaveAll([]*entity.CallRecord{
		archiveRecord("export_leads", base, entity.OutcomeSuccess),
	}))
	require.NoError(t, first.Close())

	second, err := NewSQLiteArchiveRepository(dbPath)
	require.NoError(t, err)
	defer func() {
		_ = second.Close()
	}()

	count, err := second.CountAll()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewSQLiteArchiveRepository_RequiresPath(t *testing.T) {
	_, err := NewSQLiteArchiveRepository("")
	assert.Error(t, err)
}
