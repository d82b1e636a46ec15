package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shoplist/internal/categories"
	"shoplist/internal/core"
	"shoplist/internal/folders"
	applog "shoplist/internal/log"
)

// ShoppingService orchestrates folder and category operations that touch
// both the registry and the category store.
type ShoppingService struct {
	folders    *folders.Registry
	categories *categories.Store
	logger     *slog.Logger
}

func NewShoppingService(registry *folders.Registry, store *categories.Store, logger *slog.Logger) *ShoppingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShoppingService{
		folders:    registry,
		categories: store,
		logger:     logger,
	}
}

func (s *ShoppingService) Folders() *folders.Registry {
	return s.folders
}

func (s *ShoppingService) Categories() *categories.Store {
	return s.categories
}

// CreateFolder adds an empty folder.
func (s *ShoppingService) CreateFolder(ctx context.Context, name, description string) (core.Folder, error) {
	return s.folders.Add(ctx, name, description)
}

// RenameFolder changes name and description. Categories stay attached because
// they are keyed by folder id.
func (s *ShoppingService) RenameFolder(ctx context.Context, id, name, description string) (core.Folder, error) {
	return s.folders.Update(ctx, id, name, description)
}

// DeleteFolder removes a folder and its categories. The category list goes
// first; if the folder cannot be removed afterwards the list is written back,
// so a failed call leaves both in place.
func (s *ShoppingService) DeleteFolder(ctx context.Context, id string) error {
	f, err := s.folders.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("remove folder: %w", err)
	}
	cats, err := s.categories.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("load categories of %q: %w", f.Name, err)
	}
	hadCategories := s.categories.Corrupt(ctx, id) == nil && len(cats) > 0

	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete categories of %q: %w", f.Name, err)
	}

	if _, err := s.folders.Remove(ctx, id); err != nil {
		if hadCategories {
			if rerr := s.categories.Save(ctx, id, cats); rerr != nil {
				fields := applog.NewFields().
					WithOperation(applog.OpDelete).
					WithFolder(f.ID, f.Name).
					WithErrorType(applog.ErrorTypeDatabase).
					WithError(rerr)
				s.logger.ErrorContext(ctx, "Failed to restore categories after folder delete failed", fields.ToSlice()...)
			}
		}
		return fmt.Errorf("remove folder: %w", err)
	}
	return nil
}

// AddCategory adds a category to an existing folder.
func (s *ShoppingService) AddCategory(ctx context.Context, folderID, name string) (core.Category, error) {
	if _, err := s.folders.Get(ctx, folderID); err != nil {
		return core.Category{}, err
	}
	return s.categories.AddCategory(ctx, folderID, name)
}

// RemoveCategory drops a category and its items.
func (s *ShoppingService) RemoveCategory(ctx context.Context, folderID string, index int) (core.Category, error) {
	if _, err := s.folders.Get(ctx, folderID); err != nil {
		return core.Category{}, err
	}
	removed, err := s.categories.RemoveCategory(ctx, folderID, index)
	if err != nil {
		return core.Category{}, err
	}
	s.refreshItemCount(ctx, folderID)
	return removed, nil
}

// AddItemFromInput validates raw form input and appends the item to the
// category at categoryIndex.
func (s *ShoppingService) AddItemFromInput(ctx context.Context, folderID string, categoryIndex int, name, priceText, label string) (core.ShoppingItem, error) {
	price, err := core.ParsePrice(priceText)
	if err != nil {
		return core.ShoppingItem{}, err
	}
	item, err := core.NewShoppingItem(name, price, label)
	if err != nil {
		return core.ShoppingItem{}, err
	}
	if _, err := s.folders.Get(ctx, folderID); err != nil {
		return core.ShoppingItem{}, err
	}
	if err := s.categories.AddItem(ctx, folderID, categoryIndex, item); err != nil {
		return core.ShoppingItem{}, err
	}
	s.refreshItemCount(ctx, folderID)
	return item, nil
}

// RemoveItem drops one item.
func (s *ShoppingService) RemoveItem(ctx context.Context, folderID string, categoryIndex, itemIndex int) (core.ShoppingItem, error) {
	if _, err := s.folders.Get(ctx, folderID); err != nil {
		return core.ShoppingItem{}, err
	}
	removed, err := s.categories.RemoveItem(ctx, folderID, categoryIndex, itemIndex)
	if err != nil {
		return core.ShoppingItem{}, err
	}
	s.refreshItemCount(ctx, folderID)
	return removed, nil
}

// FolderSummary totals every category of a folder.
func (s *ShoppingService) FolderSummary(ctx context.Context, folderID string) (core.CategorySummary, []core.CategorySummary, error) {
	f, err := s.folders.Get(ctx, folderID)
	if err != nil {
		return core.CategorySummary{}, nil, err
	}
	cats, err := s.categories.Load(ctx, folderID)
	if err != nil {
		return core.CategorySummary{}, nil, err
	}
	per := make([]core.CategorySummary, len(cats))
	for i, c := range cats {
		per[i] = core.Summarize(c)
	}
	return core.SummarizeAll(f.Name, cats), per, nil
}

// PruneOrphans deletes category lists whose folder no longer exists and
// returns how many were removed.
func (s *ShoppingService) PruneOrphans(ctx context.Context) (int, error) {
	list, err := s.folders.List(ctx)
	if err != nil {
		return 0, err
	}
	known := make(map[string]struct{}, len(list))
	for _, f := range list {
		known[f.ID] = struct{}{}
	}

	ids, err := s.categories.FolderIDs(ctx)
	if err != nil {
		return 0, err
	}
	pruned := 0
	for _, id := range ids {
		if _, ok := known[id]; ok {
			continue
		}
		if err := s.categories.Delete(ctx, id); err != nil {
			return pruned, err
		}
		pruned++
	}
	if pruned > 0 {
		s.logger.InfoContext(ctx, "Pruned orphaned category lists", applog.FieldCount, pruned)
	}
	return pruned, nil
}

// refreshItemCount recomputes the folder's item-count hint. Failures are
// logged only; the hint is not authoritative.
func (s *ShoppingService) refreshItemCount(ctx context.Context, folderID string) {
	cats, err := s.categories.Load(ctx, folderID)
	if err == nil {
		err = s.folders.SetItemCount(ctx, folderID, core.CountItems(cats))
	}
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		s.logger.WarnContext(ctx, "Failed to refresh item count",
			applog.FieldFolderID, folderID,
			applog.FieldError, err)
	}
}
