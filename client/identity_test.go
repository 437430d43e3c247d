package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateUserIDIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile", "user_id")

	first, err := GetOrCreateUserID(path)
	require.NoError(t, err)
	_, err = uuid.Parse(first)
	require.NoError(t, err, "generated id should be a uuid")

	second, err := GetOrCreateUserID(path)
	require.NoError(t, err)
	assert.Equal(t, first, second, "id must survive restarts")
}

func TestGetOrCreateUserIDKeepsExistingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_id")
	require.NoError(t, os.WriteFile(path, []byte("  legacy-opaque-id \n"), 0o600))

	id, err := GetOrCreateUserID(path)
	require.NoError(t, err)
	assert.Equal(t, "legacy-opaque-id", id)
}

func TestGetOrCreateUserIDReplacesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_id")
	require.NoError(t, os.WriteFile(path, []byte(" \n"), 0o600))

	id, err := GetOrCreateUserID(path)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}
