package user

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harrow/internal/database"
	"harrow/internal/models"
	"harrow/internal/security"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := NewRepository(db)
	require.NoError(t, err)
	return repo
}

func TestAddAndCheck(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "alice@example.com", "Alice", "hunter2", models.LevelWriter))

	assert.True(t, repo.Check(ctx, "alice@example.com", "hunter2"))
	assert.False(t, repo.Check(ctx, "alice@example.com", "hunter3"))
	assert.False(t, repo.Check(ctx, "bob@example.com", "hunter2"))
}

func TestAddStoresHashNotPlaintext(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "alice@example.com", "Alice", "hunter2", models.LevelViewer))

	u, err := repo.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", u.Password)
	assert.True(t, strings.HasPrefix(u.Password, "$1$"))
}

func TestAddDoesNotRehashVersionedValue(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	hashed := security.ComputeHash("hunter2")
	require.NoError(t, repo.Add(ctx, "alice@example.com", "Alice", hashed, models.LevelWriter))

	u, err := repo.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, hashed, u.Password)
	assert.True(t, repo.Check(ctx, "alice@example.com", "hunter2"))
}

func TestAddRejectsDuplicateID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "alice@example.com", "Alice", "pw", models.LevelWriter))
	err := repo.Add(ctx, "alice@example.com", "Other", "pw", models.LevelWriter)
	assert.ErrorIs(t, err, ErrExists)
}

func TestAddValidatesInput(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	assert.Error(t, repo.Add(ctx, "not-an-email", "Alice", "pw", models.LevelWriter))
	assert.Error(t, repo.Add(ctx, "", "Alice", "pw", models.LevelWriter))
	assert.Error(t, repo.Add(ctx, "alice@example.com", "Alice", "pw", "admin"))
}

func TestUpdatePasswordAndLevel(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "alice@example.com", "Alice", "old", models.LevelViewer))

	pw := "new"
	require.NoError(t, repo.Update(ctx, "alice@example.com", &pw, nil))
	assert.True(t, repo.Check(ctx, "alice@example.com", "new"))
	assert.False(t, repo.Check(ctx, "alice@example.com", "old"))

	level := models.LevelWriter
	require.NoError(t, repo.Update(ctx, "alice@example.com", nil, &level))
	u, err := repo.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.LevelWriter, u.Level)

	// Neither field set is a no-op, even for a missing user.
	assert.NoError(t, repo.Update(ctx, "missing@example.com", nil, nil))

	bad := "root"
	assert.Error(t, repo.Update(ctx, "alice@example.com", nil, &bad))
}

func TestRemove(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "alice@example.com", "Alice", "pw", models.LevelWriter))
	require.NoError(t, repo.Remove(ctx, "alice@example.com"))

	_, err := repo.Get(ctx, "alice@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToName(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "alice@example.com", "Alice", "pw", models.LevelWriter))

	assert.Equal(t, "Alice", repo.ToName(ctx, "alice@example.com"))
	assert.Equal(t, "ghost@example.com", repo.ToName(ctx, "ghost@example.com"))
}
