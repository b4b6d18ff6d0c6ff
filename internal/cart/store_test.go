package cart

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurye/shop/internal/localstore"
)

type brokenStorage struct {
	getErr error
	setErr error
	sets   int
}

func (b *brokenStorage) Get(string) ([]byte, error) { return nil, b.getErr }
func (b *brokenStorage) Set(string, []byte) error {
	b.sets++
	return b.setErr
}
func (b *brokenStorage) Delete(string) error { return nil }
func (b *brokenStorage) Close() error        { return nil }

func soap() Item   { return Item{ID: "soap", Title: "Soap", Price: 45.5, Image: "img-soap"} }
func coffee() Item { return Item{ID: "coffee", Title: "Coffee", Price: 320} }

func TestAdd_AccumulatesQuantity(t *testing.T) {
	s := New(localstore.NewMemory(), nil)

	s.Add(soap(), 2)
	s.Add(soap(), 3)

	line, ok := s.Line("soap")
	require.True(t, ok)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, 5, s.Count())
	assert.Len(t, s.Lines(), 1)
}

func TestAdd_QuantityBelowOneCountsAsOne(t *testing.T) {
	s := New(nil, nil)

	s.Add(soap(), 0)
	s.Add(coffee(), -4)

	assert.Equal(t, 2, s.Count())
}

func TestAdd_KeepsInsertionOrder(t *testing.T) {
	s := New(nil, nil)

	s.Add(soap(), 1)
	s.Add(coffee(), 1)
	s.Add(soap(), 1)

	var ids []string
	for _, l := range s.Lines() {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"soap", "coffee"}, ids)
}

func TestAdd_IgnoresEmptyID(t *testing.T) {
	s := New(nil, nil)
	s.Add(Item{Title: "ghost"}, 1)
	assert.Zero(t, s.Count())
	assert.Zero(t, s.Flash())
}

func TestAdd_IncrementsFlashEveryTime(t *testing.T) {
	s := New(nil, nil)
	s.Add(soap(), 1)
	s.Add(soap(), 1)
	s.Add(coffee(), 1)
	s.Remove("soap")
	s.ChangeQuantity("coffee", 1)

	assert.Equal(t, uint64(3), s.Flash())
}

func TestChangeQuantity_NeverBelowOne(t *testing.T) {
	s := New(nil, nil)
	s.Add(soap(), 3)

	s.ChangeQuantity("soap", -10)
	line, _ := s.Line("soap")
	assert.Equal(t, 1, line.Quantity)

	s.ChangeQuantity("soap", -1)
	line, ok := s.Line("soap")
	require.True(t, ok, "decrement must not remove the line")
	assert.Equal(t, 1, line.Quantity)

	s.ChangeQuantity("soap", 4)
	line, _ = s.Line("soap")
	assert.Equal(t, 5, line.Quantity)
}

func TestChangeQuantity_UnknownIDIsNoOp(t *testing.T) {
	s := New(nil, nil)
	s.Add(soap(), 1)
	s.ChangeQuantity("missing", 5)
	assert.Equal(t, 1, s.Count())
}

func TestRemove_ThenAddStartsFresh(t *testing.T) {
	s := New(nil, nil)
	s.Add(soap(), 4)
	s.Add(coffee(), 1)

	s.Remove("soap")
	s.Remove("soap")
	_, ok := s.Line("soap")
	assert.False(t, ok)

	s.Add(soap(), 2)
	line, ok := s.Line("soap")
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "soap", s.Lines()[1].ID, "re-added line goes to the end")
}

func TestClear(t *testing.T) {
	mem := localstore.NewMemory()
	s := New(mem, nil)
	s.Add(soap(), 1)
	s.Add(coffee(), 1)

	s.Clear()

	assert.Zero(t, s.Count())
	assert.Empty(t, s.Lines())
	data, err := mem.Get(StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestCount_IsSumOfQuantities(t *testing.T) {
	s := New(nil, nil)
	s.Add(soap(), 2)
	s.Add(coffee(), 7)
	s.ChangeQuantity("coffee", -3)

	sum := 0
	for _, l := range s.Lines() {
		sum += l.Quantity
	}
	assert.Equal(t, sum, s.Count())
	assert.Equal(t, 6, s.Count())
}

func TestPersistence_RoundTrip(t *testing.T) {
	mem := localstore.NewMemory()
	s := New(mem, nil)
	s.Add(soap(), 2)
	s.Add(coffee(), 1)
	s.ChangeQuantity("coffee", 2)
	want := s.Lines()

	reloaded := New(mem, nil)

	if diff := cmp.Diff(want, reloaded.Lines()); diff != "" {
		t.Fatalf("hydrated cart mismatch (-want +got):\n%s", diff)
	}
}

func TestPersistence_SQLiteRoundTrip(t *testing.T) {
	db, err := localstore.OpenSQLite(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	s := New(db, nil)
	s.Add(soap(), 3)

	reloaded := New(db, nil)
	if diff := cmp.Diff(s.Lines(), reloaded.Lines()); diff != "" {
		t.Fatalf("hydrated cart mismatch (-want +got):\n%s", diff)
	}
}

func TestHydrate_CorruptRecordYieldsEmptyCart(t *testing.T) {
	mem := localstore.NewMemory()
	require.NoError(t, mem.Set(StorageKey, []byte(`{not json`)))

	s := New(mem, nil)
	assert.Zero(t, s.Count())
	assert.Error(t, s.Hydrate())

	// still usable
	s.Add(soap(), 1)
	assert.Equal(t, 1, s.Count())
}

func TestHydrate_MissingRecordIsNotAnError(t *testing.T) {
	s := New(localstore.NewMemory(), nil)
	assert.NoError(t, s.Hydrate())
	assert.Zero(t, s.Count())
}

func TestHydrate_UnreadableStorage(t *testing.T) {
	s := New(&brokenStorage{getErr: errors.New("disk gone")}, nil)
	assert.Zero(t, s.Count())
	assert.ErrorContains(t, s.Hydrate(), "disk gone")
}

func TestPersistFailure_IsRecordedNotRaised(t *testing.T) {
	storage := &brokenStorage{getErr: localstore.ErrNotFound, setErr: errors.New("quota exceeded")}
	s := New(storage, nil)

	s.Add(soap(), 1)
	s.Add(soap(), 1)

	assert.Equal(t, 2, s.Count(), "cart keeps working in memory")
	assert.Equal(t, 2, storage.sets)
	assert.ErrorContains(t, s.LastPersistError(), "quota exceeded")
	assert.Error(t, s.Persist())

	storage.setErr = nil
	s.Remove("soap")
	assert.NoError(t, s.LastPersistError())
}

func TestSubtotal(t *testing.T) {
	s := New(nil, nil)
	s.Add(soap(), 2)   // 91.00
	s.Add(coffee(), 1) // 320.00
	s.Add(Item{ID: "free", Title: "Sample"}, 3)

	assert.True(t, s.Subtotal().Equal(decimal.RequireFromString("411")), "got %s", s.Subtotal())
}

func TestLines_ReturnsCopy(t *testing.T) {
	s := New(nil, nil)
	s.Add(soap(), 1)

	lines := s.Lines()
	lines[0].Quantity = 99

	line, _ := s.Line("soap")
	assert.Equal(t, 1, line.Quantity)
}

func TestStore_ConcurrentMutations(t *testing.T) {
	s := New(localstore.NewMemory(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add(soap(), 1)
			_ = s.Count()
			_ = s.Lines()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, s.Count())
	assert.Equal(t, uint64(20), s.Flash())
}

func TestDecode_Sanitizes(t *testing.T) {
	lines, err := Decode([]byte(`[
		{"id":"a","title":"A","price":10,"quantity":0},
		{"id":"","title":"nameless","price":1,"quantity":1},
		{"id":"b","title":"B","price":-5,"quantity":2},
		{"id":"a","title":"A again","price":10,"quantity":3}
	]`))
	require.NoError(t, err)

	want := []Line{
		{ID: "a", Title: "A", Price: 10, Quantity: 4},
		{ID: "b", Title: "B", Price: 0, Quantity: 2},
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_EmptyCartIsArray(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestAdd_NonFinitePriceStoredAsZero(t *testing.T) {
	mem := localstore.NewMemory()
	s := New(mem, nil)

	s.Add(Item{ID: "odd", Title: "Odd", Price: math.Inf(1)}, 1)
	s.Add(Item{ID: "nan", Title: "NaN", Price: math.NaN()}, 1)
	require.NoError(t, s.LastPersistError(), "cart must stay persistable")

	s.Add(soap(), 1)
	require.NoError(t, s.LastPersistError())

	line, ok := s.Line("odd")
	require.True(t, ok)
	assert.Zero(t, line.Price)
	assert.True(t, s.Subtotal().Equal(decimal.RequireFromString("45.5")), "got %s", s.Subtotal())

	reloaded := New(mem, nil)
	require.NoError(t, reloaded.Hydrate())
	assert.Equal(t, 3, reloaded.Count())
}
