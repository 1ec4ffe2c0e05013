package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTimeout bounds the connect and integrity probe of a single Open call.
const openTimeout = 10 * time.Second

var (
	// ErrNotFound indicates the database file does not exist.
	ErrNotFound = errors.New("database file not found")
	// ErrPermissionDenied indicates the database file exists but cannot be read.
	ErrPermissionDenied = errors.New("database file not readable")
	// ErrCorrupt indicates the file exists but is not a usable SQLite database.
	ErrCorrupt = errors.New("database file corrupt")
)

// Handle wraps an exclusively owned connection to a single SQLite database file.
// A Handle has exactly one owner at a time; ownership moves with the value and
// is never shared. Close releases the connection and is safe to call more than
// once.
type Handle struct {
	path string
	db   *gorm.DB

	closeOnce sync.Once
	closeErr  error
}

// Open validates and opens the database file at path.
//
// The file must already exist and be readable; Open never creates it. After
// connecting, a cheap integrity probe (PRAGMA schema_version) verifies the
// file is actually a SQLite database. Failures map to ErrNotFound,
// ErrPermissionDenied or ErrCorrupt so callers can report a specific cause.
func Open(path string) (*Handle, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat database file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrCorrupt, path)
	}

	// Probe readability up front; the sqlite driver reports permission
	// problems lazily on first use.
	f, err := os.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to open database file: %w", err)
	}
	_ = f.Close()

	// Suppress GORM logging; callers log through the application logger.
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(path), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	h := &Handle{path: path, db: db}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// A local file needs no large pool; keep it small but allow the serving
	// path and a health probe to overlap.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	// Integrity probe: a metadata read fails with "file is not a database"
	// on garbage input, where the ping alone may succeed.
	var schemaVersion int
	if err := db.WithContext(ctx).Raw("PRAGMA schema_version").Scan(&schemaVersion).Error; err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	return h, nil
}

// Path returns the filesystem path the handle was opened with.
func (h *Handle) Path() string {
	return h.path
}

// DB exposes the underlying GORM connection for query execution.
func (h *Handle) DB() *gorm.DB {
	return h.db
}

// HealthCheck runs a cheap round-trip query against the users table and
// returns the record count. Used both at server startup and by the
// standalone connectivity test.
func (h *Handle) HealthCheck(ctx context.Context) (int64, error) {
	var count int64
	if err := h.db.WithContext(ctx).Raw("SELECT COUNT(*) FROM users").Scan(&count).Error; err != nil {
		return 0, fmt.Errorf("health check query failed: %w", err)
	}
	return count, nil
}

// Close releases the underlying connection. Calling Close on an
// already-closed handle is a no-op.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		sqlDB, err := h.db.DB()
		if err != nil {
			h.closeErr = err
			return
		}
		h.closeErr = sqlDB.Close()
	})
	return h.closeErr
}
