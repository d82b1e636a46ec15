package categories

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplist/internal/core"
	"shoplist/internal/storage"
	"shoplist/internal/storage/memory"
)

func item(t *testing.T, name, price, label string) core.ShoppingItem {
	t.Helper()
	it, err := core.NewShoppingItem(name, decimal.RequireFromString(price), label)
	require.NoError(t, err)
	return it
}

func TestLoadMissingFolderIsEmpty(t *testing.T) {
	s := NewStore(memory.New(), nil)
	got, err := s.Load(context.Background(), "never-saved")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSaveLoadRoundTripFractionalPrices(t *testing.T) {
	ctx := context.Background()
	backing := memory.New()
	s := NewStore(backing, nil)

	cat, err := core.NewCategory("Produce")
	require.NoError(t, err)
	cat.IsExpanded = true
	cat.AddItem(item(t, "Apples", "3.99", core.LabelFood))
	cat.AddItem(item(t, "Soap", "0.10", core.LabelCleaning))
	cat.AddItem(item(t, "Vitamins", "12.345", core.LabelMedication))
	empty, err := core.NewCategory("Empty")
	require.NoError(t, err)

	want := []core.Category{cat, empty}
	require.NoError(t, s.Save(ctx, "f1", want))

	// Fresh store over the same backing forces a decode
	got, err := NewStore(backing, nil).Load(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range want {
		assert.Truef(t, want[i].Equal(got[i]), "category %d: want %+v, got %+v", i, want[i], got[i])
	}
	assert.True(t, cat.TotalTax().Equal(got[0].TotalTax()))
	assert.True(t, cat.TotalPrice().Equal(got[0].TotalPrice()))
	assert.NotNil(t, got[1].Items)
}

func TestSaveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	backing := memory.New()
	s := NewStore(backing, nil)

	cat, _ := core.NewCategory("Dairy")
	cat.AddItem(item(t, "Milk", "4.50", core.LabelFood))
	list := []core.Category{cat}

	require.NoError(t, s.Save(ctx, "f1", list))
	first, _, _ := backing.Get(ctx, storage.CategoriesKey("f1"))
	require.NoError(t, s.Save(ctx, "f1", list))
	second, _, _ := backing.Get(ctx, storage.CategoriesKey("f1"))
	assert.Equal(t, string(first), string(second))

	got, err := NewStore(backing, nil).Load(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, cat.Equal(got[0]))
}

func TestLoadReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.New(), nil)
	_, err := s.AddCategory(ctx, "f1", "Dairy")
	require.NoError(t, err)

	got, _ := s.Load(ctx, "f1")
	got[0].Name = "changed"
	got = append(got, core.Category{Name: "extra"})

	again, _ := s.Load(ctx, "f1")
	require.Len(t, again, 1)
	assert.Equal(t, "Dairy", again[0].Name)
}

func TestCategoryMutations(t *testing.T) {
	ctx := context.Background()
	backing := memory.New()
	s := NewStore(backing, nil)

	dairy, err := s.AddCategory(ctx, "f1", "Dairy")
	require.NoError(t, err)
	_, err = s.AddCategory(ctx, "f1", "Dairy")
	require.NoError(t, err, "duplicate category names are allowed")
	_, err = s.AddCategory(ctx, "f1", " ")
	require.ErrorIs(t, err, core.ErrInvalidInput)

	require.NoError(t, s.RenameCategory(ctx, "f1", 1, "Bakery"))
	require.ErrorIs(t, s.RenameCategory(ctx, "f1", 1, ""), core.ErrInvalidInput)

	expanded, err := s.ToggleExpanded(ctx, "f1", 0)
	require.NoError(t, err)
	assert.True(t, expanded)
	expanded, err = s.ToggleExpanded(ctx, "f1", 0)
	require.NoError(t, err)
	assert.False(t, expanded)

	milk := item(t, "Milk", "4.50", core.LabelFood)
	cheese := item(t, "Cheese", "7.25", core.LabelFood)
	require.NoError(t, s.AddItem(ctx, "f1", 0, milk))
	require.NoError(t, s.AddItem(ctx, "f1", 0, cheese))

	removed, err := s.RemoveItem(ctx, "f1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, milk.ID, removed.ID)

	got, err := NewStore(backing, nil).Load(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, dairy.ID, got[0].ID)
	assert.Equal(t, "Bakery", got[1].Name)
	require.Len(t, got[0].Items, 1)
	assert.Equal(t, "Cheese", got[0].Items[0].Name)

	gone, err := s.RemoveCategory(ctx, "f1", 0)
	require.NoError(t, err)
	assert.Len(t, gone.Items, 1)
	got, _ = s.Load(ctx, "f1")
	require.Len(t, got, 1)
	assert.Equal(t, "Bakery", got[0].Name)
}

func TestOutOfRangeIndexes(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.New(), nil)
	_, _ = s.AddCategory(ctx, "f1", "Dairy")

	tests := []struct {
		name string
		run  func() error
	}{
		{"remove category", func() error { _, err := s.RemoveCategory(ctx, "f1", 1); return err }},
		{"negative category", func() error { _, err := s.RemoveCategory(ctx, "f1", -1); return err }},
		{"rename", func() error { return s.RenameCategory(ctx, "f1", 5, "x") }},
		{"toggle", func() error { _, err := s.ToggleExpanded(ctx, "f1", 1); return err }},
		{"add item", func() error { return s.AddItem(ctx, "f1", 1, item(t, "Milk", "1", "")) }},
		{"remove item", func() error { _, err := s.RemoveItem(ctx, "f1", 0, 0); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.run(), core.ErrNotFound)
		})
	}
}

func TestAddItemRejectsInvalidItem(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.New(), nil)
	_, _ = s.AddCategory(ctx, "f1", "Dairy")

	bad := core.ShoppingItem{ID: core.NewID(), Name: "Milk", Price: decimal.NewFromInt(-1)}
	require.ErrorIs(t, s.AddItem(ctx, "f1", 0, bad), core.ErrInvalidInput)
}

func TestFailedWriteKeepsState(t *testing.T) {
	ctx := context.Background()
	backing := memory.New()
	s := NewStore(backing, nil)
	_, err := s.AddCategory(ctx, "f1", "Dairy")
	require.NoError(t, err)

	backing.FailWith(core.ErrStoreUnavailable)
	_, err = s.AddCategory(ctx, "f1", "Bakery")
	require.ErrorIs(t, err, core.ErrStoreUnavailable)
	require.ErrorIs(t, s.AddItem(ctx, "f1", 0, item(t, "Milk", "4.50", core.LabelFood)), core.ErrStoreUnavailable)
	backing.FailWith(nil)

	got, err := s.Load(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Items)
}

func TestCorruptBlobDegradesAndBlocksMutations(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewFromEntries(map[string][]byte{
		storage.CategoriesKey("f1"): []byte("not json"),
	})
	s := NewStore(backing, nil)

	got, err := s.Load(ctx, "f1")
	require.NoError(t, err)
	assert.Empty(t, got)
	require.ErrorIs(t, s.Corrupt(ctx, "f1"), core.ErrCorruptState)

	_, err = s.AddCategory(ctx, "f1", "Dairy")
	require.ErrorIs(t, err, core.ErrCorruptState)

	require.NoError(t, s.Save(ctx, "f1", nil))
	require.NoError(t, s.Corrupt(ctx, "f1"))
	_, err = s.AddCategory(ctx, "f1", "Dairy")
	require.NoError(t, err)
}

func TestDeleteAndFolderIDs(t *testing.T) {
	ctx := context.Background()
	backing := memory.New()
	s := NewStore(backing, nil)
	_, _ = s.AddCategory(ctx, "f1", "Dairy")
	_, _ = s.AddCategory(ctx, "f2", "Bakery")

	ids, err := s.FolderIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f2"}, ids)

	require.NoError(t, s.Delete(ctx, "f1"))
	require.NoError(t, s.Delete(ctx, "f1"))
	_, found, _ := backing.Get(ctx, storage.CategoriesKey("f1"))
	assert.False(t, found)

	got, err := s.Load(ctx, "f1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInvalidBlobIsCorrupt(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		blob string
	}{
		{"negative price", `[{"id":"c1","name":"Dairy","items":[{"id":"i1","name":"Milk","price":"-1","category":"Food"}]}]`},
		{"empty item name", `[{"id":"c1","name":"Dairy","items":[{"id":"i1","name":" ","price":"1","category":"Food"}]}]`},
		{"empty category name", `[{"id":"c1","name":"","items":[]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backing := memory.NewFromEntries(map[string][]byte{
				storage.CategoriesKey("f1"): []byte(tt.blob),
			})
			s := NewStore(backing, nil)

			got, err := s.Load(ctx, "f1")
			require.NoError(t, err)
			assert.Empty(t, got)
			require.ErrorIs(t, s.Corrupt(ctx, "f1"), core.ErrCorruptState)

			_, err = s.AddCategory(ctx, "f1", "Bakery")
			require.ErrorIs(t, err, core.ErrCorruptState)
			raw, _, _ := backing.Get(ctx, storage.CategoriesKey("f1"))
			assert.Equal(t, tt.blob, string(raw))
		})
	}
}

func TestSaveRejectsInvalidCategories(t *testing.T) {
	ctx := context.Background()
	backing := memory.New()
	s := NewStore(backing, nil)

	bad := []core.Category{{ID: "c1", Name: "Dairy", Items: []core.ShoppingItem{
		{ID: "i1", Name: "Milk", Price: decimal.NewFromInt(-1)},
	}}}
	require.ErrorIs(t, s.Save(ctx, "f1", bad), core.ErrInvalidInput)
	require.ErrorIs(t, s.Save(ctx, "f1", []core.Category{{ID: "c2"}}), core.ErrInvalidInput)
	assert.Equal(t, 0, backing.Len())
}
