package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/nayzak/internal/db"
)

func TestUploadLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, PutUpload(ctx, database, "cars/a.png", "image/png", []byte{1, 2, 3}))

	data, mime, err := GetUpload(ctx, database, "cars/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
	assert.Equal(t, "image/png", mime)

	assert.Error(t, PutUpload(ctx, database, "cars/a.png", "image/png", []byte{4}), "keys are unique")

	require.NoError(t, DeleteUpload(ctx, database, "cars/a.png"))
	data, _, err = GetUpload(ctx, database, "cars/a.png")
	require.NoError(t, err)
	assert.Nil(t, data)
}
