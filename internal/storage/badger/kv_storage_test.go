package badger

import (
	"context"
	"testing"

	"github.com/finboardhq/finboard-portal/internal/common"
	"github.com/finboardhq/finboard-portal/internal/config"
)

func setupTestKV(t *testing.T) *KVStorage {
	t.Helper()

	logger := common.NewSilentLogger()
	cfg := &config.BadgerConfig{Path: t.TempDir()}

	db, err := NewBadgerDB(logger, cfg)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewKVStorage(db, logger)
}

func TestKVStorage_SetAndGet(t *testing.T) {
	kv := setupTestKV(t)
	ctx := context.Background()

	if err := kv.Set(ctx, "settings:default_country", "bd"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := kv.Get(ctx, "settings:default_country")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "bd" {
		t.Errorf("expected bd, got %s", val)
	}
}

func TestKVStorage_GetNotFound(t *testing.T) {
	kv := setupTestKV(t)

	if _, err := kv.Get(context.Background(), "nonexistent-key"); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestKVStorage_Overwrite(t *testing.T) {
	kv := setupTestKV(t)
	ctx := context.Background()

	kv.Set(ctx, "settings:display_currency", "USD")
	kv.Set(ctx, "settings:display_currency", "BDT")

	val, err := kv.Get(ctx, "settings:display_currency")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "BDT" {
		t.Errorf("expected BDT after overwrite, got %s", val)
	}
}

func TestKVStorage_Delete(t *testing.T) {
	kv := setupTestKV(t)
	ctx := context.Background()

	kv.Set(ctx, "key", "value")
	if err := kv.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := kv.Get(ctx, "key"); err == nil {
		t.Error("expected error after delete")
	}
}

func TestKVStorage_DeleteMissingIsNoOp(t *testing.T) {
	kv := setupTestKV(t)

	if err := kv.Delete(context.Background(), "never-existed"); err != nil {
		t.Errorf("deleting a missing key must not error: %v", err)
	}
}

func TestKVStorage_GetAll(t *testing.T) {
	kv := setupTestKV(t)
	ctx := context.Background()

	kv.Set(ctx, "a", "1")
	kv.Set(ctx, "b", "2")

	all, err := kv.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 2 || all["a"] != "1" || all["b"] != "2" {
		t.Errorf("unexpected map: %v", all)
	}
}
