package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/nayzak/internal/db"
	"github.com/erazemk/nayzak/internal/model"
	"github.com/erazemk/nayzak/internal/store"
)

func TestGeneratePassword(t *testing.T) {
	a, err := generatePassword(16)
	require.NoError(t, err)
	b, err := generatePassword(16)
	require.NoError(t, err)

	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
	assert.NoError(t, model.ValidatePassword(a))
}

func TestInitDatabaseCreatesAdmin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nayzak.sqlite3")

	password, err := initDatabase(path, "admin@nayzak.ly")
	require.NoError(t, err)

	database, err := db.Open(path)
	require.NoError(t, err)
	defer database.Close()

	user, err := store.GetUserByEmail(context.Background(), database, "admin@nayzak.ly")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)))
}
