package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/aslectra/backend/internal/errors"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	var store ImageStore = NewMemoryStore()

	id, err := store.Save(ctx, strings.NewReader("pixels"), "image/png")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	rc, info, err := store.Open(ctx, id)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(body))
	assert.Equal(t, "image/png", info.ContentType)
	assert.Equal(t, int64(6), info.Size)

	require.NoError(t, store.Delete(ctx, id))
	_, _, err = store.Open(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrImageNotFound)
}

func TestUnavailable(t *testing.T) {
	ctx := context.Background()
	_, err := Unavailable{}.Save(ctx, strings.NewReader("x"), "image/png")
	assert.ErrorIs(t, err, apperrors.ErrImageStoreUnavailable)

	_, _, err = Unavailable{}.Open(ctx, "abc")
	assert.ErrorIs(t, err, apperrors.ErrImageNotFound)
	assert.NoError(t, Unavailable{}.Delete(ctx, "abc"))
}

func TestGridFSStore_InvalidReference(t *testing.T) {
	store := NewGridFSStore(nil)
	_, _, err := store.Open(context.Background(), "not-an-object-id")
	assert.ErrorIs(t, err, apperrors.ErrImageNotFound)
	assert.ErrorIs(t, store.Delete(context.Background(), "nope"), apperrors.ErrImageNotFound)
}
