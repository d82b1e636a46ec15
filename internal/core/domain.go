package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type (
	// Folder is a top-level named grouping of categories.
	Folder struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		ItemCount   int    `json:"itemCount"` // display hint only
	}

	// Category groups items inside a folder. Names are not unique.
	Category struct {
		ID         string         `json:"id"`
		Name       string         `json:"name"`
		IsExpanded bool           `json:"isExpanded"`
		Items      []ShoppingItem `json:"items"`
	}

	// ShoppingItem is a priced entry. Category is a tax label, not a parent reference.
	ShoppingItem struct {
		ID       string          `json:"id"`
		Name     string          `json:"name"`
		Price    decimal.Decimal `json:"price"`
		Category string          `json:"category"`
	}
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrDuplicate        = errors.New("duplicate")
	ErrCorruptState     = errors.New("corrupt state")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUnauthorized     = errors.New("unauthorized")

	ErrEmptyName     = fmt.Errorf("%w: empty name", ErrInvalidInput)
	ErrNegativePrice = fmt.Errorf("%w: negative price", ErrInvalidInput)
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrInvalidInput)
)

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// NewFolder validates the name and assigns a fresh id.
func NewFolder(name, description string) (Folder, error) {
	f := Folder{
		ID:          NewID(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
	if err := f.Validate(); err != nil {
		return Folder{}, err
	}
	return f, nil
}

func (f Folder) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrEmptyName
	}
	if f.ItemCount < 0 {
		return fmt.Errorf("%w: negative item count", ErrInvalidInput)
	}
	return nil
}

// NewShoppingItem validates its input and assigns a fresh id.
func NewShoppingItem(name string, price decimal.Decimal, label string) (ShoppingItem, error) {
	it := ShoppingItem{
		ID:       NewID(),
		Name:     strings.TrimSpace(name),
		Price:    price,
		Category: strings.TrimSpace(label),
	}
	if err := it.Validate(); err != nil {
		return ShoppingItem{}, err
	}
	return it, nil
}

func (i ShoppingItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// TaxRate is derived from the item's label on every call.
func (i ShoppingItem) TaxRate() decimal.Decimal {
	return TaxRate(i.Category)
}

func (i ShoppingItem) TaxAmount() decimal.Decimal {
	return i.Price.Mul(i.TaxRate())
}

func (i ShoppingItem) TotalPrice() decimal.Decimal {
	return i.Price.Add(i.TaxAmount())
}

// Equal compares stored fields; prices are compared numerically.
func (i ShoppingItem) Equal(o ShoppingItem) bool {
	return i.ID == o.ID && i.Name == o.Name && i.Category == o.Category && i.Price.Equal(o.Price)
}

// NewCategory returns an empty, collapsed category.
func NewCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, ErrEmptyName
	}
	return Category{ID: NewID(), Name: name, Items: []ShoppingItem{}}, nil
}

// Validate checks the category name and every item.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	for i, it := range c.Items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// AddItem appends, keeping insertion order.
func (c *Category) AddItem(item ShoppingItem) {
	c.Items = append(c.Items, item)
}

// RemoveItem deletes the item with the given id. Callers may ignore ErrNotFound.
func (c *Category) RemoveItem(id string) error {
	idx := c.ItemIndex(id)
	if idx < 0 {
		return fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	return nil
}

func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	c.Name = name
	return nil
}

// ItemIndex returns -1 when no item has the id.
func (c Category) ItemIndex(id string) int {
	for i, it := range c.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Subtotal is the sum of untaxed prices.
func (c Category) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.Items {
		sum = sum.Add(it.Price)
	}
	return sum
}

func (c Category) TotalTax() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.Items {
		sum = sum.Add(it.TaxAmount())
	}
	return sum
}

func (c Category) TotalPrice() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.Items {
		sum = sum.Add(it.TotalPrice())
	}
	return sum
}

// Clone returns a deep copy so the items slice can be mutated independently.
func (c Category) Clone() Category {
	out := c
	if c.Items != nil {
		out.Items = make([]ShoppingItem, len(c.Items))
		copy(out.Items, c.Items)
	}
	return out
}

func (c Category) Equal(o Category) bool {
	if c.ID != o.ID || c.Name != o.Name || c.IsExpanded != o.IsExpanded || len(c.Items) != len(o.Items) {
		return false
	}
	for i := range c.Items {
		if !c.Items[i].Equal(o.Items[i]) {
			return false
		}
	}
	return true
}

// CloneCategories deep-copies a category list.
func CloneCategories(in []Category) []Category {
	if in == nil {
		return nil
	}
	out := make([]Category, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

// CountItems sums items over all categories.
func CountItems(categories []Category) int {
	n := 0
	for _, c := range categories {
		n += len(c.Items)
	}
	return n
}
