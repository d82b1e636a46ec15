// Package categories persists the categories and items of each folder. Every
// folder's list is one blob under storage.CategoriesKey(folderID) and is
// rewritten whole on each mutation.
package categories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"shoplist/internal/core"
	applog "shoplist/internal/log"
	"shoplist/internal/storage"
)

type entry struct {
	categories []core.Category
	corrupt    error
}

// Store caches loaded folders in memory. The in-memory copy of a folder is
// replaced only after its blob was written.
type Store struct {
	mu      sync.Mutex
	store   storage.Store
	logger  *slog.Logger
	entries map[string]*entry
}

func NewStore(store storage.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		store:   store,
		logger:  logger,
		entries: make(map[string]*entry),
	}
}

func (s *Store) entry(ctx context.Context, folderID string) (*entry, error) {
	if e, ok := s.entries[folderID]; ok {
		return e, nil
	}

	key := storage.CategoriesKey(folderID)
	var list []core.Category
	e := &entry{}
	_, err := storage.GetJSON(ctx, s.store, key, &list)
	if err == nil {
		for i, c := range list {
			if verr := c.Validate(); verr != nil {
				err = fmt.Errorf("%w: category %d: %w", core.ErrCorruptState, i, verr)
				break
			}
		}
	}
	switch {
	case errors.Is(err, core.ErrCorruptState):
		fields := applog.NewFields().
			WithOperation(applog.OpLoad).
			WithKey(key).
			WithFolder(folderID, "").
			WithErrorType(applog.ErrorTypeCorrupt).
			WithError(err)
		s.logger.WarnContext(ctx, "Category list is unreadable, continuing with an empty list", fields.ToSlice()...)
		e.corrupt = err
		list = nil
	case err != nil:
		return nil, fmt.Errorf("load categories: %w", err)
	}
	for i := range list {
		if list[i].Items == nil {
			list[i].Items = []core.ShoppingItem{}
		}
	}
	if list == nil {
		list = []core.Category{}
	}
	e.categories = list
	s.entries[folderID] = e
	return e, nil
}

func (s *Store) writable(ctx context.Context, folderID string) (*entry, error) {
	e, err := s.entry(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if e.corrupt != nil {
		return nil, fmt.Errorf("categories of folder %s are not writable until saved: %w", folderID, e.corrupt)
	}
	return e, nil
}

func (s *Store) persist(ctx context.Context, e *entry, folderID string, next []core.Category) error {
	if err := storage.SetJSON(ctx, s.store, storage.CategoriesKey(folderID), next); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	e.categories = next
	e.corrupt = nil
	return nil
}

// Load returns the categories of a folder. A folder that was never saved has
// no categories.
func (s *Store) Load(ctx context.Context, folderID string) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(ctx, folderID)
	if err != nil {
		return nil, err
	}
	return core.CloneCategories(e.categories), nil
}

// Save replaces the whole category list of a folder. It also clears a
// corrupt state.
func (s *Store) Save(ctx context.Context, folderID string, categories []core.Category) error {
	next := core.CloneCategories(categories)
	if next == nil {
		next = []core.Category{}
	}
	for i := range next {
		if err := next[i].Validate(); err != nil {
			return fmt.Errorf("category %d: %w", i, err)
		}
		if next[i].Items == nil {
			next[i].Items = []core.ShoppingItem{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[folderID]
	if !ok {
		e = &entry{}
	}
	if err := s.persist(ctx, e, folderID, next); err != nil {
		return err
	}
	s.entries[folderID] = e
	s.logger.DebugContext(ctx, "Categories saved",
		applog.FieldFolderID, folderID,
		applog.FieldCount, len(next))
	return nil
}

// Corrupt reports the decode error of a folder's stored list, if any.
func (s *Store) Corrupt(ctx context.Context, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(ctx, folderID)
	if err != nil {
		return err
	}
	return e.corrupt
}

// mutate applies fn to a copy of the folder's list and persists the result.
func (s *Store) mutate(ctx context.Context, folderID string, fn func([]core.Category) ([]core.Category, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.writable(ctx, folderID)
	if err != nil {
		return err
	}
	next, err := fn(core.CloneCategories(e.categories))
	if err != nil {
		return err
	}
	return s.persist(ctx, e, folderID, next)
}

// AddCategory appends a new empty category and returns it.
func (s *Store) AddCategory(ctx context.Context, folderID, name string) (core.Category, error) {
	c, err := core.NewCategory(name)
	if err != nil {
		return core.Category{}, err
	}
	err = s.mutate(ctx, folderID, func(list []core.Category) ([]core.Category, error) {
		return append(list, c), nil
	})
	if err != nil {
		return core.Category{}, err
	}
	s.logger.InfoContext(ctx, "Category added",
		applog.FieldFolderID, folderID,
		applog.FieldCategoryID, c.ID,
		applog.FieldCategoryName, c.Name)
	return c, nil
}

// RemoveCategory deletes the category at index together with its items.
func (s *Store) RemoveCategory(ctx context.Context, folderID string, index int) (core.Category, error) {
	var removed core.Category
	err := s.mutate(ctx, folderID, func(list []core.Category) ([]core.Category, error) {
		if err := checkIndex("category", index, len(list)); err != nil {
			return nil, err
		}
		removed = list[index]
		return append(list[:index], list[index+1:]...), nil
	})
	if err != nil {
		return core.Category{}, err
	}
	s.logger.InfoContext(ctx, "Category removed",
		applog.FieldFolderID, folderID,
		applog.FieldCategoryID, removed.ID,
		applog.FieldCount, len(removed.Items))
	return removed, nil
}

func (s *Store) RenameCategory(ctx context.Context, folderID string, index int, name string) error {
	return s.mutate(ctx, folderID, func(list []core.Category) ([]core.Category, error) {
		if err := checkIndex("category", index, len(list)); err != nil {
			return nil, err
		}
		if err := list[index].Rename(name); err != nil {
			return nil, err
		}
		return list, nil
	})
}

// ToggleExpanded flips the expanded flag and returns the new value.
func (s *Store) ToggleExpanded(ctx context.Context, folderID string, index int) (bool, error) {
	var expanded bool
	err := s.mutate(ctx, folderID, func(list []core.Category) ([]core.Category, error) {
		if err := checkIndex("category", index, len(list)); err != nil {
			return nil, err
		}
		list[index].IsExpanded = !list[index].IsExpanded
		expanded = list[index].IsExpanded
		return list, nil
	})
	return expanded, err
}

// AddItem appends item to the category at categoryIndex.
func (s *Store) AddItem(ctx context.Context, folderID string, categoryIndex int, item core.ShoppingItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	err := s.mutate(ctx, folderID, func(list []core.Category) ([]core.Category, error) {
		if err := checkIndex("category", categoryIndex, len(list)); err != nil {
			return nil, err
		}
		list[categoryIndex].AddItem(item)
		return list, nil
	})
	if err != nil {
		return err
	}
	fields := applog.NewFields().
		WithOperation(applog.OpCreate).
		WithFolder(folderID, "").
		WithItem(item.ID, item.Name, item.Price.String(), item.Category)
	fields[applog.FieldCategoryIndex] = categoryIndex
	s.logger.InfoContext(ctx, "Item added", fields.ToSlice()...)
	return nil
}

// RemoveItem deletes the item at itemIndex of the category at categoryIndex.
func (s *Store) RemoveItem(ctx context.Context, folderID string, categoryIndex, itemIndex int) (core.ShoppingItem, error) {
	var removed core.ShoppingItem
	err := s.mutate(ctx, folderID, func(list []core.Category) ([]core.Category, error) {
		if err := checkIndex("category", categoryIndex, len(list)); err != nil {
			return nil, err
		}
		c := &list[categoryIndex]
		if err := checkIndex("item", itemIndex, len(c.Items)); err != nil {
			return nil, err
		}
		removed = c.Items[itemIndex]
		c.Items = append(c.Items[:itemIndex], c.Items[itemIndex+1:]...)
		return list, nil
	})
	if err != nil {
		return core.ShoppingItem{}, err
	}
	s.logger.InfoContext(ctx, "Item removed",
		applog.FieldFolderID, folderID,
		applog.FieldCategoryIndex, categoryIndex,
		applog.FieldItemIndex, itemIndex)
	return removed, nil
}

// Delete drops the folder's stored list. Deleting a folder that has no list
// is not an error.
func (s *Store) Delete(ctx context.Context, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, storage.CategoriesKey(folderID)); err != nil {
		return fmt.Errorf("delete categories: %w", err)
	}
	delete(s.entries, folderID)
	return nil
}

// FolderIDs lists folders that have a stored category list.
func (s *Store) FolderIDs(ctx context.Context) ([]string, error) {
	keys, err := s.store.Keys(ctx, storage.CategoriesPrefix)
	if err != nil {
		return nil, fmt.Errorf("list category keys: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, k[len(storage.CategoriesPrefix):])
	}
	return ids, nil
}

func checkIndex(what string, index, n int) error {
	if index < 0 || index >= n {
		return fmt.Errorf("%s index %d of %d: %w", what, index, n, core.ErrNotFound)
	}
	return nil
}
