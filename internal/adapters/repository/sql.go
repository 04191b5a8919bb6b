package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite

	"github.com/okian/sharpscore/internal/domain/fingerprint"
)

// Default DSNs per driver.
const (
	DefaultSQLiteDSN   = "file:sharpscore.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
	DefaultPostgresDSN = "postgres://localhost:5432/sharpscore?sslmode=disable"
)

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS fingerprints (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  ts INTEGER NOT NULL,
  doc TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS fingerprints_user_ts ON fingerprints (user_id, ts, seq);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS fingerprints (
  seq BIGSERIAL PRIMARY KEY,
  id TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  ts BIGINT NOT NULL,
  doc TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS fingerprints_user_ts ON fingerprints (user_id, ts, seq);
`

// SQLStore keeps each record as a JSON document next to its lookup columns.
// It serves both sqlite (modernc) and postgres (pgx stdlib).
type SQLStore struct {
	db     *sql.DB
	driver string
}

// NewSQLStore opens driver ("sqlite" or "postgres"), tunes the pool and
// ensures the schema exists. An empty dsn selects the driver default.
func NewSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	var (
		drvName string
		schema  string
	)
	switch driver {
	case DriverSQLite:
		drvName, schema = "sqlite", schemaSQLite
		if dsn == "" {
			dsn = DefaultSQLiteDSN
		}
	case DriverPostgres:
		drvName, schema = "pgx", schemaPostgres
		if dsn == "" {
			dsn = DefaultPostgresDSN
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql: open: %w", err)
	}
	tunePool(driver, db)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sql: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sql: schema: %w", err)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

// tunePool keeps sqlite to a single connection so in-memory databases are
// shared and writers never contend.
func tunePool(driver string, db *sql.DB) {
	switch driver {
	case DriverSQLite:
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	default:
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(45 * time.Minute)
		db.SetConnMaxIdleTime(15 * time.Minute)
	}
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLStore) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FindByUser implements RecordStore.
func (s *SQLStore) FindByUser(ctx context.Context, userID string) ([]fingerprint.Record, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT doc FROM fingerprints WHERE user_id = ? ORDER BY ts, seq`), userID)
	if err != nil {
		return nil, fmt.Errorf("sql: query: %w", err)
	}
	defer rows.Close()

	out := []fingerprint.Record{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("sql: scan: %w", err)
		}
		var rec fingerprint.Record
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, fmt.Errorf("sql: decode: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sql: rows: %w", err)
	}
	return out, nil
}

// Insert implements RecordStore.
func (s *SQLStore) Insert(ctx context.Context, rec fingerprint.Record) (string, error) {
	if rec.UserID == "" {
		return "", ErrInvalidUserID
	}
	doc, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("sql: encode: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO fingerprints (id, user_id, ts, doc) VALUES (?, ?, ?, ?)`),
		id, rec.UserID, rec.Timestamp, string(doc))
	if err != nil {
		return "", fmt.Errorf("sql: insert: %w", err)
	}
	return id, nil
}

// DeleteAll implements RecordStore.
func (s *SQLStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM fingerprints`)
	if err != nil {
		return 0, fmt.Errorf("sql: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sql: rows affected: %w", err)
	}
	return n, nil
}

// Close implements RecordStore.
func (s *SQLStore) Close(context.Context) error {
	return s.db.Close()
}
