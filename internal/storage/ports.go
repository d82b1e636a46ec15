// Package storage holds the key-value persistence adapter and its
// backends. Every higher component stores one JSON blob per key.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"shoplist/internal/core"
)

// Store is a flat local key-value store of byte blobs.
type Store interface {
	// Get returns the blob stored under key. found is false if the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set replaces the blob stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists keys starting with prefix in lexical order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Well-known keys.
const (
	FoldersKey       = "folders"
	LoggedInEmailKey = "loggedInEmail"

	CategoriesPrefix = "categories:"
	CredentialPrefix = "credential:"
)

// CategoriesKey is the key of a folder's category list.
func CategoriesKey(folderID string) string {
	return CategoriesPrefix + folderID
}

// CredentialKey is the key of an account record; emails are case-insensitive.
func CredentialKey(email string) string {
	return CredentialPrefix + strings.ToLower(strings.TrimSpace(email))
}

// GetJSON decodes the blob under key into v. A blob that fails to decode
// yields an error wrapping core.ErrCorruptState; v is left untouched.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	data, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%w: decode %q: %w", core.ErrCorruptState, key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
