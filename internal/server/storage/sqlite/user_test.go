package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/blogapi/internal/server/storage"
)

func TestUserStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, s, "alice", false)

	byID, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, byID.Username)
	assert.Equal(t, user.PasswordHash, byID.PasswordHash)
	assert.False(t, byID.IsAdmin)

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestUserStorage_GetUserByUsername_CaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, s, "alice", false)

	found, err := s.GetUserByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestUserStorage_CreateUser_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, s, "alice", false)

	// uniqueness is case-insensitive: "Alice" after "alice" must fail
	duplicate := createTestUserModel("Alice")
	err := s.CreateUser(ctx, duplicate)
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)
}

func TestUserStorage_GetUser_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = s.GetUserByUsername(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_UsernameExists(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, s, "alice", false)

	tests := []struct {
		name     string
		username string
		want     bool
	}{
		{name: "exact match", username: "alice", want: true},
		{name: "different case", username: "Alice", want: true},
		{name: "upper case", username: "ALICE", want: true},
		{name: "missing", username: "bob", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := s.UsernameExists(ctx, tt.username)
			require.NoError(t, err)
			assert.Equal(t, tt.want, exists)
		})
	}
}
