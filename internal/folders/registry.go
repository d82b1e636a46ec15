// Package folders owns folder identity: the ordered list of folders and
// their names, descriptions and item-count hints. The whole list is stored
// as one blob and rewritten on every mutation.
package folders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"shoplist/internal/core"
	applog "shoplist/internal/log"
	"shoplist/internal/storage"
)

type Registry struct {
	mu      sync.Mutex
	store   storage.Store
	logger  *slog.Logger
	loaded  bool
	corrupt error
	folders []core.Folder
}

func NewRegistry(store storage.Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{store: store, logger: logger}
}

// load reads the folder list on first use. An undecodable blob is logged and
// treated as an empty list; mutations stay blocked until Reset.
func (r *Registry) load(ctx context.Context) error {
	if r.loaded {
		return nil
	}
	var list []core.Folder
	_, err := storage.GetJSON(ctx, r.store, storage.FoldersKey, &list)
	if err == nil {
		err = validateFolders(list)
	}
	switch {
	case errors.Is(err, core.ErrCorruptState):
		fields := applog.NewFields().
			WithOperation(applog.OpLoad).
			WithKey(storage.FoldersKey).
			WithErrorType(applog.ErrorTypeCorrupt).
			WithError(err)
		r.logger.WarnContext(ctx, "Folder list is unreadable, continuing with an empty list", fields.ToSlice()...)
		r.corrupt = err
		list = nil
	case err != nil:
		return fmt.Errorf("load folders: %w", err)
	}
	r.folders = list
	r.loaded = true
	return nil
}

// persist writes next and adopts it only after the write succeeded.
func (r *Registry) persist(ctx context.Context, next []core.Folder) error {
	if next == nil {
		next = []core.Folder{}
	}
	if err := storage.SetJSON(ctx, r.store, storage.FoldersKey, next); err != nil {
		return fmt.Errorf("save folders: %w", err)
	}
	r.folders = next
	return nil
}

func (r *Registry) writable(ctx context.Context) error {
	if err := r.load(ctx); err != nil {
		return err
	}
	if r.corrupt != nil {
		return fmt.Errorf("folders are not writable until reset: %w", r.corrupt)
	}
	return nil
}

// List returns folders in insertion order.
func (r *Registry) List(ctx context.Context) ([]core.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.load(ctx); err != nil {
		return nil, err
	}
	out := make([]core.Folder, len(r.folders))
	copy(out, r.folders)
	return out, nil
}

// Get returns the folder with id.
func (r *Registry) Get(ctx context.Context, id string) (core.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.load(ctx); err != nil {
		return core.Folder{}, err
	}
	idx := r.index(id)
	if idx < 0 {
		return core.Folder{}, fmt.Errorf("folder %s: %w", id, core.ErrNotFound)
	}
	return r.folders[idx], nil
}

// FindByName looks a folder up by name, ignoring case.
func (r *Registry) FindByName(ctx context.Context, name string) (core.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.load(ctx); err != nil {
		return core.Folder{}, err
	}
	idx := r.nameIndex(name, "")
	if idx < 0 {
		return core.Folder{}, fmt.Errorf("folder %q: %w", name, core.ErrNotFound)
	}
	return r.folders[idx], nil
}

// Add creates a folder. Empty names are rejected with core.ErrInvalidInput
// and names already in use with core.ErrDuplicate.
func (r *Registry) Add(ctx context.Context, name, description string) (core.Folder, error) {
	f, err := core.NewFolder(name, description)
	if err != nil {
		return core.Folder{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writable(ctx); err != nil {
		return core.Folder{}, err
	}
	if r.nameIndex(f.Name, "") >= 0 {
		return core.Folder{}, fmt.Errorf("folder %q: %w", f.Name, core.ErrDuplicate)
	}

	next := append(r.cloneList(), f)
	if err := r.persist(ctx, next); err != nil {
		return core.Folder{}, err
	}

	r.logger.InfoContext(ctx, "Folder added",
		applog.FieldFolderID, f.ID,
		applog.FieldFolderName, f.Name)
	return f, nil
}

// Remove deletes the folder with id and returns it.
func (r *Registry) Remove(ctx context.Context, id string) (core.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writable(ctx); err != nil {
		return core.Folder{}, err
	}
	idx := r.index(id)
	if idx < 0 {
		return core.Folder{}, fmt.Errorf("folder %s: %w", id, core.ErrNotFound)
	}

	removed := r.folders[idx]
	next := r.cloneList()
	next = append(next[:idx], next[idx+1:]...)
	if err := r.persist(ctx, next); err != nil {
		return core.Folder{}, err
	}

	r.logger.InfoContext(ctx, "Folder removed",
		applog.FieldFolderID, removed.ID,
		applog.FieldFolderName, removed.Name)
	return removed, nil
}

// Update renames a folder and replaces its description.
func (r *Registry) Update(ctx context.Context, id, name, description string) (core.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writable(ctx); err != nil {
		return core.Folder{}, err
	}
	idx := r.index(id)
	if idx < 0 {
		return core.Folder{}, fmt.Errorf("folder %s: %w", id, core.ErrNotFound)
	}

	updated := r.folders[idx]
	updated.Name = strings.TrimSpace(name)
	updated.Description = strings.TrimSpace(description)
	if err := updated.Validate(); err != nil {
		return core.Folder{}, err
	}
	if r.nameIndex(updated.Name, id) >= 0 {
		return core.Folder{}, fmt.Errorf("folder %q: %w", updated.Name, core.ErrDuplicate)
	}

	next := r.cloneList()
	next[idx] = updated
	if err := r.persist(ctx, next); err != nil {
		return core.Folder{}, err
	}

	r.logger.InfoContext(ctx, "Folder updated",
		applog.FieldFolderID, updated.ID,
		applog.FieldFolderName, updated.Name)
	return updated, nil
}

// SetItemCount refreshes the item-count hint. Unchanged values skip the write.
func (r *Registry) SetItemCount(ctx context.Context, id string, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writable(ctx); err != nil {
		return err
	}
	idx := r.index(id)
	if idx < 0 {
		return fmt.Errorf("folder %s: %w", id, core.ErrNotFound)
	}
	if n < 0 {
		return fmt.Errorf("%w: negative item count %d", core.ErrInvalidInput, n)
	}
	if r.folders[idx].ItemCount == n {
		return nil
	}

	next := r.cloneList()
	next[idx].ItemCount = n
	return r.persist(ctx, next)
}

// Corrupt reports the decode error of the stored list, if any.
func (r *Registry) Corrupt(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.load(ctx); err != nil {
		return err
	}
	return r.corrupt
}

// Reset overwrites the stored list with an empty one. It is the explicit way
// out of a corrupt state.
func (r *Registry) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.persist(ctx, nil); err != nil {
		return err
	}
	r.loaded = true
	r.corrupt = nil
	r.logger.WarnContext(ctx, "Folder list reset", applog.FieldKey, storage.FoldersKey)
	return nil
}

// Reload drops the in-memory list so the next call reads the store again.
func (r *Registry) Reload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	r.corrupt = nil
	r.folders = nil
}

func (r *Registry) index(id string) int {
	for i, f := range r.folders {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// nameIndex finds name case-insensitively, skipping the folder with exceptID.
func (r *Registry) nameIndex(name, exceptID string) int {
	name = strings.TrimSpace(name)
	for i, f := range r.folders {
		if f.ID != exceptID && strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

func (r *Registry) cloneList() []core.Folder {
	out := make([]core.Folder, len(r.folders), len(r.folders)+1)
	copy(out, r.folders)
	return out
}

// validateFolders rejects decoded lists that could not have been written by
// Add or Update.
func validateFolders(list []core.Folder) error {
	seen := make(map[string]struct{}, len(list))
	for i, f := range list {
		if f.ID == "" {
			return fmt.Errorf("%w: folder %d has no id", core.ErrCorruptState, i)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("%w: folder id %s repeated", core.ErrCorruptState, f.ID)
		}
		seen[f.ID] = struct{}{}
		if err := f.Validate(); err != nil {
			return fmt.Errorf("%w: folder %d: %w", core.ErrCorruptState, i, err)
		}
	}
	return nil
}
