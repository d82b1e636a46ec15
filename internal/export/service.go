// Package export renders the consolidated cross-folder listing as an XLSX
// workbook or a YAML document.
package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"shoplist/internal/core"
	applog "shoplist/internal/log"
	"shoplist/internal/views"
)

const (
	ItemsSheet   = "Items"
	SummarySheet = "Summary"
)

// Lister produces the consolidated listing.
type Lister interface {
	BuildConsolidatedList(ctx context.Context) ([]views.Entry, error)
}

type Service struct {
	view   Lister
	logger *slog.Logger
}

func NewService(view Lister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{view: view, logger: logger}
}

// XLSX returns a workbook with one row per item and one summary row per
// category. Amounts are written as fixed two-decimal strings.
func (s *Service) XLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()
	entries, err := s.view.BuildConsolidatedList(ctx)
	if err != nil {
		return nil, fmt.Errorf("build listing: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", ItemsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	writeRow(f, ItemsSheet, 1, "Folder", "Category", "Item", "Label", "Price", "Tax Rate", "Tax", "Total")
	writeRow(f, SummarySheet, 1, "Folder", "Category", "Items", "Subtotal", "Tax", "Total")

	itemRow, sumRow := 2, 2
	for _, e := range entries {
		for _, it := range e.Category.Items {
			writeRow(f, ItemsSheet, itemRow,
				e.FolderName,
				e.Category.Name,
				it.Name,
				it.Category,
				core.FormatAmount(it.Price),
				it.TaxRate().String(),
				core.FormatAmount(it.TaxAmount()),
				core.FormatAmount(it.TotalPrice()),
			)
			itemRow++
		}
		sum := core.Summarize(e.Category)
		writeRow(f, SummarySheet, sumRow,
			e.FolderName,
			sum.Name,
			sum.Items,
			core.FormatAmount(sum.Subtotal),
			core.FormatAmount(sum.Tax),
			core.FormatAmount(sum.Total),
		)
		sumRow++
	}

	_ = f.SetColWidth(ItemsSheet, "A", "A", 18)
	_ = f.SetColWidth(ItemsSheet, "B", "C", 28)
	_ = f.SetColWidth(ItemsSheet, "D", "D", 14)
	_ = f.SetColWidth(ItemsSheet, "E", "H", 12)
	_ = f.SetColWidth(SummarySheet, "A", "A", 18)
	_ = f.SetColWidth(SummarySheet, "B", "B", 28)
	_ = f.SetColWidth(SummarySheet, "C", "F", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.InfoContext(ctx, "Exported workbook",
		applog.FieldOperation, applog.OpExport,
		applog.FieldCount, itemRow-2,
		"categories", len(entries),
		"elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

type (
	// Document is the YAML export layout.
	Document struct {
		Categories []CategoryDoc `yaml:"categories"`
		Totals     TotalsDoc     `yaml:"totals"`
	}

	CategoryDoc struct {
		Folder   string    `yaml:"folder"`
		Name     string    `yaml:"name"`
		Items    []ItemDoc `yaml:"items"`
		Subtotal string    `yaml:"subtotal"`
		Tax      string    `yaml:"tax"`
		Total    string    `yaml:"total"`
	}

	ItemDoc struct {
		Name  string `yaml:"name"`
		Label string `yaml:"label,omitempty"`
		Price string `yaml:"price"`
		Tax   string `yaml:"tax"`
		Total string `yaml:"total"`
	}

	TotalsDoc struct {
		Items    int    `yaml:"items"`
		Subtotal string `yaml:"subtotal"`
		Tax      string `yaml:"tax"`
		Total    string `yaml:"total"`
	}
)

// BuildDocument converts the listing into the YAML export layout.
func BuildDocument(entries []views.Entry) Document {
	doc := Document{Categories: make([]CategoryDoc, 0, len(entries))}
	for _, e := range entries {
		sum := core.Summarize(e.Category)
		cd := CategoryDoc{
			Folder:   e.FolderName,
			Name:     e.Category.Name,
			Items:    make([]ItemDoc, 0, len(e.Category.Items)),
			Subtotal: core.FormatAmount(sum.Subtotal),
			Tax:      core.FormatAmount(sum.Tax),
			Total:    core.FormatAmount(sum.Total),
		}
		for _, it := range e.Category.Items {
			cd.Items = append(cd.Items, ItemDoc{
				Name:  it.Name,
				Label: it.Category,
				Price: core.FormatAmount(it.Price),
				Tax:   core.FormatAmount(it.TaxAmount()),
				Total: core.FormatAmount(it.TotalPrice()),
			})
		}
		doc.Categories = append(doc.Categories, cd)
	}

	all := core.SummarizeAll("all", views.Categories(entries))
	doc.Totals = TotalsDoc{
		Items:    all.Items,
		Subtotal: core.FormatAmount(all.Subtotal),
		Tax:      core.FormatAmount(all.Tax),
		Total:    core.FormatAmount(all.Total),
	}
	return doc
}

// YAML returns the listing as a YAML document.
func (s *Service) YAML(ctx context.Context) ([]byte, error) {
	entries, err := s.view.BuildConsolidatedList(ctx)
	if err != nil {
		return nil, fmt.Errorf("build listing: %w", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(BuildDocument(entries)); err != nil {
		return nil, fmt.Errorf("yaml encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yaml encode: %w", err)
	}

	s.logger.InfoContext(ctx, "Exported YAML",
		applog.FieldOperation, applog.OpExport,
		"categories", len(entries))
	return buf.Bytes(), nil
}
