package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/upb/codeintervu-admin/storage"
)

// StorageKey is the one storage slot holding the admin credential.
// Every reader and writer goes through Credentials so the key cannot drift.
const StorageKey = "token"

// Credentials reads and writes the credential slot
type Credentials struct {
	store storage.Store
}

// NewCredentials binds the credential slot to store
func NewCredentials(store storage.Store) *Credentials {
	return &Credentials{store: store}
}

// Load returns the stored credential, or ErrCredentialAbsent
func (c *Credentials) Load(ctx context.Context) (string, error) {
	token, err := c.store.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && token == "") {
		return "", ErrCredentialAbsent
	}
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	return token, nil
}

// Save overwrites the slot with token
func (c *Credentials) Save(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("save credential: empty token")
	}
	if err := c.store.Set(ctx, StorageKey, token); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Evict deletes the slot. Evicting an absent credential is a no-op.
func (c *Credentials) Evict(ctx context.Context) error {
	if err := c.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("evict credential: %w", err)
	}
	return nil
}
