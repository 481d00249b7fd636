package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/linkmatch/apitrack/domain/entity"
	"github.com/linkmatch/apitrack/domain/repository"
)

// SQLiteArchiveRepository persists raw call records in a SQLite database
// so they outlive the in-memory buffer and report windows
type SQLiteArchiveRepository struct {
	db   *sql.DB
	path string
}

// NewSQLiteArchiveRepository opens (or creates) the archive database
func NewSQLiteArchiveRepository(dbPath string) (repository.RecordArchiveRepository, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("archive database path is required")
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, repository.NewArchiveRepositoryError("open", err)
	}

	repo := &SQLiteArchiveRepository{db: db, path: dbPath}
	if err := repo.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteArchiveRepository) migrate() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS api_calls (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			api_name    TEXT NOT NULL,
			started_at  INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			outcome     TEXT NOT NULL,
			error_class TEXT NOT NULL DEFAULT '',
			metadata    TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_api_calls_api_name ON api_calls(api_name);
		CREATE INDEX IF NOT EXISTS idx_api_calls_started_at ON api_calls(started_at);
	`)
	if err != nil {
		return repository.NewArchiveRepositoryError("migrate", err)
	}
	return nil
}

// SaveAll inserts the records in one transaction
func (r *SQLiteArchiveRepository) SaveAll(records []*entity.CallRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return repository.NewArchiveRepositoryError("save", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO api_calls (api_name, started_at, duration_ns, outcome, error_class, metadata) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return repository.NewArchiveRepositoryError("save", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, record := range records {
		if record == nil {
			continue
		}
		metadata := ""
		if len(record.Metadata) > 0 {
			data, err := json.Marshal(record.Metadata)
			if err != nil {
				_ = tx.Rollback()
				return repository.NewArchiveRepositoryError("save", fmt.Errorf("failed to marshal metadata: %w", err))
			}
			metadata = string(data)
		}
		_, err := stmt.Exec(
			record.APIName,
			record.StartedAt.UnixNano(),
			int64(record.Duration),
			string(record.Outcome),
			record.ErrorClass,
			metadata,
		)
		if err != nil {
			_ = tx.Rollback()
			return repository.NewArchiveRepositoryError("save", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return repository.NewArchiveRepositoryError("save", err)
	}
	return nil
}

// FindByAPI returns archived records for one API within the time range,
// ordered by start time. An empty apiName matches all APIs.
func (r *SQLiteArchiveRepository) FindByAPI(apiName string, start, end time.Time) ([]*entity.CallRecord, error) {
	query := `SELECT api_name, started_at, duration_ns, outcome, error_class, metadata
		FROM api_calls WHERE started_at >= ? AND started_at <= ?`
	args := []interface{}{start.UnixNano(), end.UnixNano()}
	if apiName != "" {
		query += ` AND api_name = ?`
		args = append(args, apiName)
	}
	query += ` ORDER BY started_at ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, repository.NewArchiveRepositoryError("find", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []*entity.CallRecord
	for rows.Next() {
		var (
			name       string
			startedNs  int64
			durationNs int64
			outcome    string
			errorClass string
			metadata   string
		)
		if err := rows.Scan(&name, &startedNs, &durationNs, &outcome, &errorClass, &metadata); err != nil {
			return nil, repository.NewArchiveRepositoryError("find", err)
		}

		record := &entity.CallRecord{
			APIName:    name,
			StartedAt:  time.Unix(0, startedNs),
			Duration:   time.Duration(durationNs),
			Outcome:    entity.CallOutcome(outcome),
			ErrorClass: errorClass,
		}
		if metadata != "" {
			var md map[string]string
			if err := json.Unmarshal([]byte(metadata), &md); err == nil {
				record.Metadata = md
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.NewArchiveRepositoryError("find", err)
	}
	return records, nil
}

// CountAll returns the total number of archived records
func (r *SQLiteArchiveRepository) CountAll() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM api_calls`).Scan(&count); err != nil {
		return 0, repository.NewArchiveRepositoryError("count", err)
	}
	return count, nil
}

// DeleteBefore removes records older than the cutoff and returns how
// many were deleted
func (r *SQLiteArchiveRepository) DeleteBefore(cutoff time.Time) (int, error) {
	result, err := r.db.Exec(`DELETE FROM api_calls WHERE started_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, repository.NewArchiveRepositoryError("delete", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, repository.NewArchiveRepositoryError("delete", err)
	}
	return int(affected), nil
}

// Close closes the underlying database
func (r *SQLiteArchiveRepository) Close() error {
	return r.db.Close()
}
