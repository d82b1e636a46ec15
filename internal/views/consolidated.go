// Package views builds read-only listings that span several folders.
package views

import (
	"context"
	"fmt"
	"log/slog"

	"shoplist/internal/core"
	applog "shoplist/internal/log"
)

// FolderLister is the part of the folder registry the view reads.
type FolderLister interface {
	List(ctx context.Context) ([]core.Folder, error)
}

// CategoryLoader is the part of the category store the view reads.
type CategoryLoader interface {
	Load(ctx context.Context, folderID string) ([]core.Category, error)
}

// Entry is one category of the consolidated listing. Category is a copy whose
// name carries the owning folder as a prefix.
type Entry struct {
	FolderID   string
	FolderName string
	Category   core.Category
}

// DisplayName is the name shown in the consolidated listing.
func DisplayName(folderName, categoryName string) string {
	return fmt.Sprintf("[%s] %s", folderName, categoryName)
}

type CrossFolderView struct {
	folders    FolderLister
	categories CategoryLoader
	logger     *slog.Logger
}

func NewCrossFolderView(folders FolderLister, categories CategoryLoader, logger *slog.Logger) *CrossFolderView {
	if logger == nil {
		logger = slog.Default()
	}
	return &CrossFolderView{folders: folders, categories: categories, logger: logger}
}

// BuildConsolidatedList walks folders in registry order and returns a copy of
// every category. Nothing is cached and nothing is written back.
func (v *CrossFolderView) BuildConsolidatedList(ctx context.Context) ([]Entry, error) {
	folders, err := v.folders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	out := []Entry{}
	for _, f := range folders {
		cats, err := v.categories.Load(ctx, f.ID)
		if err != nil {
			return nil, fmt.Errorf("load categories of %q: %w", f.Name, err)
		}
		for _, c := range cats {
			c = c.Clone()
			c.Name = DisplayName(f.Name, c.Name)
			out = append(out, Entry{FolderID: f.ID, FolderName: f.Name, Category: c})
		}
	}

	v.logger.DebugContext(ctx, "Consolidated list built",
		applog.FieldOperation, applog.OpList,
		applog.FieldCount, len(out))
	return out, nil
}

// Categories strips the folder attribution from entries.
func Categories(entries []Entry) []core.Category {
	out := make([]core.Category, len(entries))
	for i, e := range entries {
		out[i] = e.Category
	}
	return out
}
