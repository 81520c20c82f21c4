package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/nayzak/internal/db"
)

func TestNewKey(t *testing.T) {
	a := NewKey(".jpg")
	b := NewKey(".jpg")

	assert.True(t, strings.HasPrefix(a, KeyPrefix))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.NotEqual(t, a, b)
}

func TestDBStorage(t *testing.T) {
	s := NewDB(db.NewTestDB(t))
	ctx := context.Background()

	key := NewKey(".png")
	url, err := s.Put(ctx, key, "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+key, url)

	got, ok := s.Key(url)
	require.True(t, ok)
	assert.Equal(t, key, got)

	data, mime, err := s.Open(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, "image/png", mime)

	require.NoError(t, s.Delete(ctx, key))
	data, _, err = s.Open(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, s.Delete(ctx, key), "deleting a missing object is not an error")
}

func TestDBStorageKeyRejectsForeignURLs(t *testing.T) {
	s := NewDB(db.NewTestDB(t))

	for _, url := range []string{
		"https://cdn.example.com/cars/a.jpg",
		"/uploads/other/a.jpg",
		"/static/style.css",
		"",
	} {
		_, ok := s.Key(url)
		assert.False(t, ok, url)
	}
}

func TestMinIOKey(t *testing.T) {
	s := &MinIO{bucket: "car-images", baseURL: "https://img.nayzak.ly/car-images/"}

	key, ok := s.Key("https://img.nayzak.ly/car-images/cars/abc.webp")
	require.True(t, ok)
	assert.Equal(t, "cars/abc.webp", key)

	_, ok = s.Key("https://img.nayzak.ly/other-bucket/cars/abc.webp")
	assert.False(t, ok)
}
