package storage

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

func openTestStore(t *testing.T, opts Options) *boltStore {
	t.Helper()
	raw, err := openBolt(filepath.Join(t.TempDir(), "nested", "cache.db"), normalizeOptions(opts))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := raw.(*boltStore)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBoltStorePutGet(t *testing.T) {
	store := openTestStore(t, Options{TTL: time.Minute})

	if _, ok, err := store.Get("dashboard:PL:2024"); err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}

	if err := store.Put("dashboard:PL:2024", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get("dashboard:PL:2024")
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if string(got) != `{"a":1}` {
		t.Fatalf("Get = %q", got)
	}

	if err := store.Put("dashboard:PL:2024", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, _, _ = store.Get("dashboard:PL:2024")
	if string(got) != `{"a":2}` {
		t.Fatalf("overwrite not visible, got %q", got)
	}
}

func TestBoltStoreExpiresAndCleansUp(t *testing.T) {
	store := openTestStore(t, Options{TTL: time.Minute, CleanupInterval: time.Hour})
	base := time.Now()
	store.now = func() time.Time { return base }

	for _, key := range []string{"a", "b", "c"} {
		if err := store.Put(key, []byte(key)); err != nil {
			t.Fatalf("Put %s: %v", key, err)
		}
	}

	store.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, ok, err := store.Get("a"); err != nil || ok {
		t.Fatalf("expected expired entry, ok=%v err=%v", ok, err)
	}

	store.lastCleanup.Store(base.Add(-2 * time.Hour).Unix())
	if err := store.maybeCleanupExpired(store.now()); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if err := store.db.View(func(tx *bolt.Tx) error {
		if n := tx.Bucket([]byte(snapshotBucket)).Stats().KeyN; n != 0 {
			t.Fatalf("expected empty bucket after cleanup, got %d keys", n)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.Put("x", []byte("y")); err != nil {
		t.Fatalf("noop store Put: %v", err)
	}
	if _, ok, _ := store.Get("x"); ok {
		t.Fatalf("noop store should never hit")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing path")
	}
}
