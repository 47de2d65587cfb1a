package config

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katalog/domain/product"
	"katalog/persistence/slot"
	"katalog/persistence/slot/cachedslot"
	"katalog/persistence/slot/memslot"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("KATALOG_DATA_DIR", "")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "simple", cfg.Variant)
	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, DefaultDataDir(), cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "katalog.db"), cfg.SQLitePath)
	assert.Equal(t, 3*time.Second, cfg.NotifyTTL)
	assert.Equal(t, int64(1), cfg.WorkerID)
	assert.Equal(t, product.VariantSimple, cfg.Policy().Variant)
}

func TestLoad_FromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("KATALOG_VARIANT", "Extended")
	t.Setenv("KATALOG_STORAGE", "SQLITE")
	t.Setenv("KATALOG_DATA_DIR", dir)
	t.Setenv("KATALOG_NOTIFY_TTL", "1500ms")
	t.Setenv("KATALOG_WORKER_ID", "7")
	t.Setenv("KATALOG_REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "extended", cfg.Variant)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, filepath.Join(dir, "katalog.db"), cfg.SQLitePath)
	assert.Equal(t, 1500*time.Millisecond, cfg.NotifyTTL)
	assert.Equal(t, int64(7), cfg.WorkerID)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.Policy().Extended)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"KATALOG_VARIANT":    "deluxe",
		"KATALOG_STORAGE":    "s3",
		"KATALOG_LOG_LEVEL":  "loud",
		"KATALOG_LOG_FORMAT": "xml",
		"KATALOG_WORKER_ID":  "4096",
		"KATALOG_NOTIFY_TTL": "soon",
		"KATALOG_CACHE_TTL":  "-1s",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestOpenSlot(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, storage := range []string{StorageMemory, StorageFile, StorageSQLite} {
		t.Run(storage, func(t *testing.T) {
			cfg := &Config{Storage: storage, DataDir: dir, SQLitePath: filepath.Join(dir, "db", "katalog.db")}
			s, err := cfg.OpenSlot(ctx, nil)
			require.NoError(t, err)
			defer slot.Close(s)

			require.NoError(t, s.Write(ctx, "products", []byte("[]")))
			got, err := s.Read(ctx, "products")
			require.NoError(t, err)
			assert.Equal(t, "[]", string(got))
		})
	}

	_, err := (&Config{Storage: "tape"}).OpenSlot(ctx, nil)
	assert.Error(t, err)
}

func TestWithCache(t *testing.T) {
	inner := memslot.New()

	assert.Same(t, inner, (&Config{}).withCache(inner))

	wrapped := (&Config{CacheTTL: time.Minute}).withCache(inner)
	assert.IsType(t, &cachedslot.Slot{}, wrapped)
	assert.Equal(t, "memory+cache", wrapped.Backend())
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "info", LogFormat: "json"}
	cfg.NewLogger(&buf).Info(context.Background(), "hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
