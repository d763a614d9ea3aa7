package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/parasol/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RecordStore = (*Store)(nil)

// Store is a SQLite-backed record store.
type Store struct {
	db     *sql.DB
	path   string
	closed atomic.Bool
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.parasol/data/records.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, domain.DefaultConfigDirName, domain.DefaultDataDirName)
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, domain.DefaultDatabaseName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

const recordColumns = `id, kind, service_id, capability_id, operation_id, use_case_id, source_type,
	name, display_name, pattern, category, content, attributes, updated_at`

// Write stores or updates one record. An existing row keeps its ID;
// a new record without one is given a fresh UUID.
func (s *Store) Write(ctx context.Context, record domain.Record) error {
	if s.closed.Load() {
		return domain.ErrStoreClosed
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	attributes, err := domain.MarshalPayloads(record.Attributes)
	if err != nil {
		return fmt.Errorf("marshalling attributes: %w", err)
	}
	updated := record.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (natural_key, `+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(natural_key) DO UPDATE SET
			source_type = excluded.source_type,
			display_name = excluded.display_name,
			pattern = excluded.pattern,
			category = excluded.category,
			content = excluded.content,
			attributes = excluded.attributes,
			updated_at = excluded.updated_at
	`,
		record.NaturalKey(),
		record.ID,
		string(record.Kind),
		record.ServiceID,
		record.CapabilityID,
		record.OperationID,
		record.UseCaseID,
		string(record.SourceType),
		record.Name,
		record.DisplayName,
		record.Pattern,
		record.Category,
		record.Content,
		string(attributes),
		updated.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing record %s: %w", record.NaturalKey(), err)
	}
	return nil
}

// Records returns every record in first-write order.
func (s *Store) Records(ctx context.Context) ([]domain.Record, error) {
	return s.query(ctx, "SELECT "+recordColumns+" FROM records ORDER BY rowid")
}

// ListServices returns all services that have records, sorted by ID.
// A service without its own service record is named by its ID.
func (s *Store) ListServices(ctx context.Context) ([]domain.ServiceRow, error) {
	if s.closed.Load() {
		return nil, domain.ErrStoreClosed
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.service_id,
			COALESCE(sr.name, r.service_id),
			COALESCE(sr.display_name, r.service_id),
			COALESCE(sr.content, '')
		FROM (SELECT DISTINCT service_id FROM records) r
		LEFT JOIN records sr ON sr.service_id = r.service_id AND sr.kind = ?
		ORDER BY r.service_id
	`, string(domain.KindService))
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	defer rows.Close()

	services := []domain.ServiceRow{}
	for rows.Next() {
		var row domain.ServiceRow
		if err := rows.Scan(&row.ID, &row.Name, &row.DisplayName, &row.Content); err != nil {
			return nil, fmt.Errorf("scanning service: %w", err)
		}
		services = append(services, row)
	}
	return services, rows.Err()
}

// LoadService returns a service with its capabilities and operations.
func (s *Store) LoadService(ctx context.Context, serviceID string) (
	*domain.ServiceRow, []domain.CapabilityRow, []domain.OperationRow, error,
) {
	records, err := s.query(ctx,
		"SELECT "+recordColumns+" FROM records WHERE service_id = ? ORDER BY rowid", serviceID)
	if err != nil {
		return nil, nil, nil, err
	}
	return domain.AssembleService(serviceID, records)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]domain.Record, error) {
	if s.closed.Load() {
		return nil, domain.ErrStoreClosed
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(rows *sql.Rows) (domain.Record, error) {
	var rec domain.Record
	var kind, sourceType, attributes, updated string
	err := rows.Scan(
		&rec.ID,
		&kind,
		&rec.ServiceID,
		&rec.CapabilityID,
		&rec.OperationID,
		&rec.UseCaseID,
		&sourceType,
		&rec.Name,
		&rec.DisplayName,
		&rec.Pattern,
		&rec.Category,
		&rec.Content,
		&attributes,
		&updated,
	)
	if err != nil {
		return rec, fmt.Errorf("scanning record: %w", err)
	}
	rec.Kind = domain.Kind(kind)
	rec.SourceType = domain.SourceType(sourceType)

	if rec.Attributes, err = domain.ParsePayloads([]byte(attributes)); err != nil {
		return rec, fmt.Errorf("record %s attributes: %w", rec.ID, err)
	}
	if len(rec.Attributes) == 0 {
		rec.Attributes = nil
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return rec, fmt.Errorf("record %s updated_at: %w", rec.ID, err)
	}
	return rec, nil
}
