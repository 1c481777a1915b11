package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/codeintervu-admin/storage"
)

func TestCredentials_RoundTrip(t *testing.T) {
	ctx := context.Background()
	creds := NewCredentials(storage.NewMemoryStore())

	raw := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJleHAiOjE3MDAwMDAwMDB9.sig-_"
	require.NoError(t, creds.Save(ctx, raw))

	got, err := creds.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestCredentials_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("absent", func(t *testing.T) {
		_, err := NewCredentials(storage.NewMemoryStore()).Load(ctx)
		assert.ErrorIs(t, err, ErrCredentialAbsent)
	})

	t.Run("empty value counts as absent", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, store.Set(ctx, StorageKey, ""))

		_, err := NewCredentials(store).Load(ctx)
		assert.ErrorIs(t, err, ErrCredentialAbsent)
	})

	t.Run("storage error is wrapped", func(t *testing.T) {
		cause := errors.New("disk on fire")
		store := new(MockStore)
		store.On("Get", mock.Anything, StorageKey).Return("", cause)

		_, err := NewCredentials(store).Load(ctx)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, ErrCredentialAbsent)
	})
}

func TestCredentials_Save_RejectsEmpty(t *testing.T) {
	store := storage.NewMemoryStore()
	assert.Error(t, NewCredentials(store).Save(context.Background(), ""))
	assert.Equal(t, 0, store.Len())
}

func TestCredentials_Evict(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	creds := NewCredentials(store)
	require.NoError(t, creds.Save(ctx, "a.b.c"))

	require.NoError(t, creds.Evict(ctx))
	require.NoError(t, creds.Evict(ctx))

	_, err := creds.Load(ctx)
	assert.ErrorIs(t, err, ErrCredentialAbsent)
}
