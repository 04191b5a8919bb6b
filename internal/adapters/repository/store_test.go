package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/okian/sharpscore/internal/adapters/repository"
	"github.com/okian/sharpscore/internal/domain/fingerprint"
	fixtures "github.com/okian/sharpscore/internal/testutil"
	"github.com/okian/sharpscore/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

// storeContract exercises behaviour every driver must share.
func storeContract(t *testing.T, name string, open func() repository.RecordStore) {
	ctx := context.Background()

	Convey("Given a "+name+" store", t, func() {
		s := open()
		_, err := s.DeleteAll(ctx)
		So(err, ShouldBeNil)
		Reset(func() { _ = s.Close(ctx) })

		Convey("When nothing was inserted for a user", func() {
			recs, err := s.FindByUser(ctx, "nobody")

			Convey("Then the result is empty, not an error", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldNotBeNil)
				So(len(recs), ShouldEqual, 0)
			})
		})

		Convey("When records are inserted out of order", func() {
			recs := fixtures.Records("u1", 3)
			order := []int{2, 0, 1}
			for _, i := range order {
				id, err := s.Insert(ctx, recs[i])
				So(err, ShouldBeNil)
				So(id, ShouldNotBeBlank)
			}
			_, err := s.Insert(ctx, fixtures.Record("u2"))
			So(err, ShouldBeNil)

			Convey("Then they come back by timestamp and only for that user", func() {
				got, err := s.FindByUser(ctx, "u1")
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 3)
				for i := range got {
					So(got[i], ShouldResemble, recs[i])
				}
			})

			Convey("Then DeleteAll removes everything", func() {
				n, err := s.DeleteAll(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 4)
				got, _ := s.FindByUser(ctx, "u1")
				So(len(got), ShouldEqual, 0)
			})
		})

		Convey("When a record lacks optional groups", func() {
			rec := fixtures.Record("partial")
			rec.Battery = nil
			rec.Events.Copy = nil
			_, err := s.Insert(ctx, rec)
			So(err, ShouldBeNil)

			Convey("Then absence survives the round trip", func() {
				got, err := s.FindByUser(ctx, "partial")
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 1)
				So(got[0].Battery, ShouldBeNil)
				So(got[0].Events.Copy, ShouldBeNil)
				So(got[0].Events.Mousemove, ShouldResemble, fingerprint.Bool(true))
			})
		})

		Convey("When the user id is empty", func() {
			_, err := s.FindByUser(ctx, "")
			So(errors.Is(err, repository.ErrInvalidUserID), ShouldBeTrue)
			_, err = s.Insert(ctx, fingerprint.Record{})
			So(errors.Is(err, repository.ErrInvalidUserID), ShouldBeTrue)
		})
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, "memory", func() repository.RecordStore { return repository.NewMemoryStore() })

	Convey("Given a closed memory store", t, func() {
		s := repository.NewMemoryStore()
		So(s.Close(context.Background()), ShouldBeNil)
		_, err := s.FindByUser(context.Background(), "u")
		So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
	})
}

func TestSQLiteStore(t *testing.T) {
	storeContract(t, "sqlite", func() repository.RecordStore {
		dsn := "file:" + filepath.Join(t.TempDir(), "records.db")
		s, err := repository.NewSQLStore(context.Background(), repository.DriverSQLite, dsn)
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		return s
	})
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("SHARP_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SHARP_TEST_POSTGRES_DSN not set")
	}
	storeContract(t, "postgres", func() repository.RecordStore {
		s, err := repository.NewSQLStore(context.Background(), repository.DriverPostgres, dsn)
		if err != nil {
			t.Fatalf("open postgres: %v", err)
		}
		return s
	})
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("SHARP_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SHARP_TEST_MONGO_URI not set")
	}
	storeContract(t, "mongo", func() repository.RecordStore {
		s, err := repository.NewMongoStore(context.Background(), uri,
			repository.WithMongoDatabase("sharpscore_test"))
		if err != nil {
			t.Fatalf("open mongo: %v", err)
		}
		return s
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	Convey("Given store configs", t, func() {
		Convey("Then the default driver is memory", func() {
			s, err := repository.Open(ctx, repository.Config{})
			So(err, ShouldBeNil)
			So(s.Close(ctx), ShouldBeNil)
		})

		Convey("Then sqlite opens through the factory and is instrumented", func() {
			s, err := repository.Open(ctx, repository.Config{
				Driver: repository.DriverSQLite,
				SQLDSN: "file:" + filepath.Join(t.TempDir(), "open.db"),
			})
			So(err, ShouldBeNil)
			defer s.Close(ctx)

			_, err = s.Insert(ctx, fixtures.Record("u"))
			So(err, ShouldBeNil)
			series := testutil.CollectAndCount(metrics.GetRegistry(), "sharpscore_api_store_latency_milliseconds")
			So(series, ShouldBeGreaterThanOrEqualTo, 1)
		})

		Convey("Then unknown drivers are rejected", func() {
			_, err := repository.Open(ctx, repository.Config{Driver: "cassandra"})
			So(errors.Is(err, repository.ErrUnsupportedDriver), ShouldBeTrue)
		})

		Convey("Then mongo requires a uri", func() {
			_, err := repository.Open(ctx, repository.Config{Driver: repository.DriverMongo})
			So(err, ShouldNotBeNil)
		})
	})
}
