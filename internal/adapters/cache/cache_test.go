package cache

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
)

func testMatrix() *domain.DistanceMatrix {
	locs := []geo.Point{{Lat: 42.69, Lon: 23.32}, {Lat: 42.70, Lon: 23.35}}
	m, _ := domain.NewDistanceMatrix(locs, [][]int{{0, 900}, {900, 0}}, [][]int{{0, 120}, {120, 0}})
	return m
}

func TestSqliteMatrixCacheRoundTrip(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	if err := InitSqliteSchema(db); err != nil {
		t.Fatalf("InitSqliteSchema() error = %v", err)
	}

	c := NewSqliteMatrixCache(db)
	ctx := context.Background()
	m := testMatrix()

	if err := c.Put(ctx, "fp1", m, time.Hour); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := c.Get(ctx, "fp1")
	if err != nil || !ok {
		t.Fatalf("Get() = (%v, %v, %v), want a hit", got, ok, err)
	}
	if got.DistanceMeters(0, 1) != 900 {
		t.Errorf("DistanceMeters(0,1) = %d, want 900", got.DistanceMeters(0, 1))
	}

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = (_, %v, %v), want a miss", ok, err)
	}
}

func TestSqliteMatrixCacheExpires(t *testing.T) {
	db, _ := sql.Open("sqlite", ":memory:")
	defer db.Close()
	_ = InitSqliteSchema(db)

	c := NewSqliteMatrixCache(db)
	ctx := context.Background()

	if err := c.Put(ctx, "fp1", testMatrix(), -time.Second); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if _, ok, err := c.Get(ctx, "fp1"); err != nil || ok {
		t.Fatalf("Get() = (_, %v, %v), want expired miss", ok, err)
	}
}

func TestRedisMatrixCacheRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisMatrixCache(client)
	ctx := context.Background()
	m := testMatrix()

	if err := c.Put(ctx, "fp1", m, time.Hour); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := c.Get(ctx, "fp1")
	if err != nil || !ok {
		t.Fatalf("Get() = (%v, %v, %v), want a hit", got, ok, err)
	}
	if got.DistanceMeters(0, 1) != 900 {
		t.Errorf("DistanceMeters(0,1) = %d, want 900", got.DistanceMeters(0, 1))
	}
}
