package catalog

import (
	"context"
	stdErrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katalog/domain/product"
)

type recordingPersister struct {
	mu    sync.Mutex
	saved [][]product.Product
	fail  error
	load  []product.Product
}

func (p *recordingPersister) Load(ctx context.Context) []product.Product {
	return p.load
}

func (p *recordingPersister) Save(ctx context.Context, products []product.Product) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.saved = append(p.saved, products)
	return nil
}

func (p *recordingPersister) last() []product.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.saved) == 0 {
		return nil
	}
	return p.saved[len(p.saved)-1]
}

type sequenceIDs struct {
	ids []int64
	i   int
}

func (s *sequenceIDs) NextID() (int64, error) {
	id := s.ids[s.i]
	s.i++
	return id, nil
}

func newTestStore(t *testing.T, p *recordingPersister, opts Options) *Store {
	t.Helper()
	s, err := Open(context.Background(), p, opts)
	require.NoError(t, err)
	return s
}

func TestStore_CreatePrependsAndWritesThrough(t *testing.T) {
	ctx := context.Background()
	p := &recordingPersister{load: product.SimplePolicy().Seed()}
	s := newTestStore(t, p, Options{})

	created, err := s.Create(ctx, product.Fields{Name: "Teh"})
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, created, all[0])
	assert.Equal(t, all, p.last())
}

func TestStore_IDsIncreaseWithCreationOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, &recordingPersister{}, Options{})

	a, err := s.Create(ctx, product.Fields{Name: "Satu"})
	require.NoError(t, err)
	b, err := s.Create(ctx, product.Fields{Name: "Dua"})
	require.NoError(t, err)
	assert.Greater(t, b.ID, a.ID)
}

func TestStore_CreateSkipsTakenIDs(t *testing.T) {
	ctx := context.Background()
	p := &recordingPersister{load: product.SimplePolicy().Seed()}
	s := newTestStore(t, p, Options{IDGenerator: &sequenceIDs{ids: []int64{1, 0, 2, 7}}})

	created, err := s.Create(ctx, product.Fields{Name: "Teh"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
}

func TestStore_UpdateReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	p := &recordingPersister{load: product.SimplePolicy().Seed()}
	s := newTestStore(t, p, Options{})

	ok, err := s.Update(ctx, 2, product.Fields{Name: "Minuman Segar"})
	require.NoError(t, err)
	assert.True(t, ok)

	all := s.All()
	assert.Equal(t, int64(2), all[1].ID)
	assert.Equal(t, "Minuman Segar", all[1].Name)
	assert.Empty(t, all[1].Description, "update is a full replace")
}

func TestStore_UpdateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, &recordingPersister{load: product.SimplePolicy().Seed()}, Options{})
	fields := product.Fields{Name: "Roti", Description: "Roti tawar"}

	_, err := s.Update(ctx, 1, fields)
	require.NoError(t, err)
	once := s.All()

	_, err = s.Update(ctx, 1, fields)
	require.NoError(t, err)
	assert.Equal(t, once, s.All())
}

func TestStore_UnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	p := &recordingPersister{load: product.SimplePolicy().Seed()}
	s := newTestStore(t, p, Options{})

	ok, err := s.Update(ctx, 99, product.Fields{Name: "X"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Delete(ctx, 99)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Empty(t, p.saved, "no write for unknown ids")
	assert.Equal(t, product.SimplePolicy().Seed(), s.All())
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	p := &recordingPersister{load: product.SimplePolicy().Seed()}
	s := newTestStore(t, p, Options{})

	ok, err := s.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, s.Exists(1))
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, s.All(), p.last())
}

func TestStore_RollbackOnSaveFailure(t *testing.T) {
	ctx := context.Background()
	boom := stdErrors.New("disk full")
	p := &recordingPersister{load: product.SimplePolicy().Seed(), fail: boom}
	s := newTestStore(t, p, Options{})
	before := s.All()

	_, err := s.Create(ctx, product.Fields{Name: "Teh"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, s.All())

	_, err = s.Update(ctx, 1, product.Fields{Name: "Baru"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, s.All())

	_, err = s.Delete(ctx, 1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, s.All())
}

func TestStore_OnChange(t *testing.T) {
	ctx := context.Background()
	var calls [][]product.Product
	s := newTestStore(t, &recordingPersister{}, Options{
		OnChange: func(products []product.Product) { calls = append(calls, products) },
	})

	created, err := s.Create(ctx, product.Fields{Name: "Teh"})
	require.NoError(t, err)
	_, err = s.Delete(ctx, created.ID)
	require.NoError(t, err)
	_, err = s.Delete(ctx, created.ID)
	require.NoError(t, err)

	require.Len(t, calls, 2)
	assert.Len(t, calls[0], 1)
	assert.Empty(t, calls[1])
}

func TestStore_AllReturnsCopy(t *testing.T) {
	s, err := NewStore(product.SimplePolicy().Seed(), nil, Options{})
	require.NoError(t, err)

	all := s.All()
	all[0].Name = "changed"
	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Makanan", got.Name)
}

func TestStore_RejectsInvalidInitialCatalog(t *testing.T) {
	_, err := NewStore([]product.Product{
		product.New(1, product.Fields{Name: "Teh"}),
		product.New(1, product.Fields{Name: "Kopi"}),
	}, nil, Options{})
	assert.Error(t, err)

	_, err = Open(context.Background(), nil, Options{})
	assert.Error(t, err)

	_, err = NewStore(nil, nil, Options{WorkerID: 5000})
	assert.Error(t, err)
}
