// Package repository persists fingerprint records and reads them back per
// user. Records are written once by ingestion and never updated.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/sharpscore/internal/domain/fingerprint"
	"github.com/okian/sharpscore/pkg/metrics"
)

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// RecordStore reads and writes fingerprint records.
type RecordStore interface {
	// FindByUser returns every record for userID ordered by timestamp, then
	// insertion. No match is an empty slice, not an error.
	FindByUser(ctx context.Context, userID string) ([]fingerprint.Record, error)

	// Insert stores rec and returns its storage id.
	Insert(ctx context.Context, rec fingerprint.Record) (string, error)

	// DeleteAll removes every record and reports how many were removed.
	DeleteAll(ctx context.Context) (int64, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// Config selects and configures a store driver.
type Config struct {
	Driver          string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	SQLDSN          string
}

// Open connects the configured driver and wraps it with metrics.
func Open(ctx context.Context, cfg Config) (RecordStore, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))

	var (
		s   RecordStore
		err error
	)
	switch driver {
	case "", DriverMemory:
		driver = DriverMemory
		s = NewMemoryStore()
	case DriverMongo:
		s, err = NewMongoStore(ctx, cfg.MongoURI,
			WithMongoDatabase(cfg.MongoDatabase),
			WithMongoCollection(cfg.MongoCollection))
	case DriverSQLite, DriverPostgres:
		s, err = NewSQLStore(ctx, driver, cfg.SQLDSN)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(driver, s), nil
}

// Instrument records latency and failures of every store call.
func Instrument(driver string, s RecordStore) RecordStore {
	return &instrumented{driver: driver, next: s}
}

type instrumented struct {
	driver string
	next   RecordStore
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	latency := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordStoreOperation(i.driver, op, latency, err != nil)
}

func (i *instrumented) FindByUser(ctx context.Context, userID string) ([]fingerprint.Record, error) {
	start := time.Now()
	recs, err := i.next.FindByUser(ctx, userID)
	i.observe("find_by_user", start, err)
	return recs, err
}

func (i *instrumented) Insert(ctx context.Context, rec fingerprint.Record) (string, error) {
	start := time.Now()
	id, err := i.next.Insert(ctx, rec)
	i.observe("insert", start, err)
	return id, err
}

func (i *instrumented) DeleteAll(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := i.next.DeleteAll(ctx)
	i.observe("delete_all", start, err)
	return n, err
}

func (i *instrumented) Close(ctx context.Context) error {
	return i.next.Close(ctx)
}
