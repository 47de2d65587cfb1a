package fileslot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katalog/persistence/slot"
)

func TestSlot_MemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, err := s.Read(ctx, "products")
	assert.ErrorIs(t, err, slot.ErrEmpty)

	require.NoError(t, s.Write(ctx, "products", []byte(`[{"id":1}]`)))
	require.NoError(t, s.Write(ctx, "products", []byte(`[]`)))

	got, err := s.Read(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestSlot_NoTempFilesLeftBehind(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Write(ctx, "products", []byte(`[]`)))

	infos, err := s.fs.ReadDir("/")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "products.json", infos[0].Name())

	data, err := util.ReadFile(s.fs, "products.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestSlot_InvalidKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	for _, key := range []string{"", "../etc", "a/b", ".hidden"} {
		assert.Error(t, s.Write(ctx, key, []byte("x")), key)
		_, err := s.Read(ctx, key)
		assert.Error(t, err, key)
	}
}

func TestSlot_OS(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "katalog")

	s, err := NewOS(dir)
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, "products", []byte(`[]`)))

	data, err := os.ReadFile(filepath.Join(dir, "products.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
	assert.Equal(t, filepath.Join(dir, "products.json"), s.Path("products"))
	assert.Equal(t, "file", s.Backend())
}
