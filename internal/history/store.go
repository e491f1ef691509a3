// # internal/history/store.go
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Run is one generation run: what was read, what was produced, how long it
// took. Stored so watch-mode churn can be inspected after the fact.
type Run struct {
	ID        string
	Timestamp time.Time
	Trigger   string // "once", "watch"

	EnumLines int
	TMLines   int
	FunLines  int

	Enumerations int
	Functions    int
	Sections     int

	OutputBytes int
	Duration    time.Duration
	Failed      bool
	Error       string
}

// Store is the sqlite-backed generation history.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history %q: %w", cleanPath, err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize history schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT NOT NULL PRIMARY KEY,
  ts_ns INTEGER NOT NULL,
  trigger_kind TEXT NOT NULL,
  enum_lines INTEGER NOT NULL,
  tm_lines INTEGER NOT NULL,
  fun_lines INTEGER NOT NULL,
  enumerations INTEGER NOT NULL,
  functions INTEGER NOT NULL,
  sections INTEGER NOT NULL,
  output_bytes INTEGER NOT NULL,
  duration_ns INTEGER NOT NULL,
  failed INTEGER NOT NULL DEFAULT 0,
  error TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(ts_ns);
`

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SaveRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}

	// Timestamps are stored as integer Unix nanoseconds; a textual format
	// would order lexicographically, which RFC 3339 fractions break.
	_, err := s.db.Exec(`
INSERT INTO runs (
  id, ts_ns, trigger_kind, enum_lines, tm_lines, fun_lines,
  enumerations, functions, sections, output_bytes, duration_ns, failed, error
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Timestamp.UTC().UnixNano(),
		run.Trigger,
		run.EnumLines,
		run.TMLines,
		run.FunLines,
		run.Enumerations,
		run.Functions,
		run.Sections,
		run.OutputBytes,
		run.Duration.Nanoseconds(),
		boolToInt(run.Failed),
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

// RecentRuns returns the newest runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(`
SELECT id, ts_ns, trigger_kind, enum_lines, tm_lines, fun_lines,
  enumerations, functions, sections, output_bytes, duration_ns, failed, error
FROM runs ORDER BY ts_ns DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("load runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			tsNS       int64
			durationNS int64
			failed     int
		)
		if err := rows.Scan(
			&run.ID, &tsNS, &run.Trigger,
			&run.EnumLines, &run.TMLines, &run.FunLines,
			&run.Enumerations, &run.Functions, &run.Sections,
			&run.OutputBytes, &durationNS, &failed, &run.Error,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		run.Timestamp = time.Unix(0, tsNS).UTC()
		run.Duration = time.Duration(durationNS)
		run.Failed = failed != 0
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
