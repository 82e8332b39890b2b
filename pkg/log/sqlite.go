package log

import (
	"database/sql"
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"rc5-go/pkg/appdir"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

var (
	writeSinceStart  atomic.Int64
	dbWriterInstance *sqliteWriter
	dbHandle         *sql.DB
)

type sqliteWriter struct {
	db   *sql.DB
	stmt *sql.Stmt
	mu   sync.Mutex
}

func newSQLiteWriter(dbPath string) (*sqliteWriter, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode=wal&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db %s: %w", dbPath, err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db %s: %w", dbPath, err)
	}

	_, err = db.Exec(`
    CREATE TABLE IF NOT EXISTS logs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        inserted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
        log_data TEXT NOT NULL
    );`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create logs table: %w", err)
	}

	for _, idx := range []string{
		`CREATE INDEX IF NOT EXISTS idx_logs_json_time ON logs (json_extract(log_data, '$.time'));`,
		`CREATE INDEX IF NOT EXISTS idx_logs_json_level ON logs (json_extract(log_data, '$.level'));`,
	} {
		if _, err := db.Exec(idx); err != nil {
			stdlog.Printf("log: warning: create index: %v", err)
		}
	}

	stmt, err := db.Prepare(`INSERT INTO logs (log_data) VALUES (?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare insert statement: %w", err)
	}
	return &sqliteWriter{db: db, stmt: stmt}, nil
}

func (w *sqliteWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stmt == nil {
		return 0, ErrNotInitialized
	}
	if _, err := w.stmt.Exec(string(p)); err != nil {
		stdlog.Printf("log: write to sqlite: %v", err)
		return 0, err
	}
	writeSinceStart.Add(1)
	return len(p), nil
}

func (w *sqliteWriter) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var firstErr error
	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			firstErr = fmt.Errorf("close statement: %w", err)
		}
		w.stmt = nil
	}
	if w.db != nil {
		if err := w.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close db: %w", err)
		}
		w.db = nil
	}
	return firstErr
}

// Init opens (or creates) the SQLite log database. A relative dbFile is
// placed under ~/.rc5-go.
func Init(dbFile string) error {
	if dbFile == "" {
		return fmt.Errorf("log: Init needs an explicit database file")
	}
	dbPath := appdir.Path(dbFile)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("log: create %s: %w", filepath.Dir(dbPath), err)
	}

	mu.Lock()
	defer mu.Unlock()

	if dbWriterInstance != nil {
		return fmt.Errorf("log: already initialized")
	}

	writer, err := newSQLiteWriter(dbPath)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	dbWriterInstance = writer
	dbHandle = writer.db
	writeSinceStart.Store(0)
	rebuild()
	return nil
}

// Close flushes a final entry and closes the database. Calling it without Init
// is a no-op.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if dbWriterInstance == nil {
		return nil
	}

	w := dbWriterInstance
	dbWriterInstance = nil
	dbHandle = nil
	rebuild()

	closing := zerolog.New(w).With().Timestamp().Logger()
	closing.Log().Msg("closing sqlite logger")

	if err := w.close(); err != nil {
		return fmt.Errorf("log: close sqlite logger: %w", err)
	}
	return nil
}
