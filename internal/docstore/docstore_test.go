package docstore

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Body string `json:"body"`
}

func newTestCollection(t *testing.T) *Collection[note] {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	col, err := NewCollection(db, "notes", []string{"id", "kind"}, func(n note) map[string]string {
		return map[string]string{"id": n.ID, "kind": n.Kind}
	})
	require.NoError(t, err)
	return col
}

func TestInsertAndFindOne(t *testing.T) {
	col := newTestCollection(t)
	ctx := context.Background()

	require.NoError(t, col.InsertOne(ctx, note{ID: "a", Kind: "draft", Body: "hello"}))

	got, err := col.FindOne(ctx, Filter{"id": "a"})
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Body)

	_, err = col.FindOne(ctx, Filter{"id": "missing"})
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestFindManyPreservesInsertionOrder(t *testing.T) {
	col := newTestCollection(t)
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, col.InsertOne(ctx, note{ID: id, Kind: "draft"}))
	}

	all, err := col.FindMany(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[1].ID)
	assert.Equal(t, "b", all[2].ID)

	drafts, err := col.FindMany(ctx, Filter{"kind": "draft"})
	require.NoError(t, err)
	assert.Len(t, drafts, 3)
}

func TestUpdateOne(t *testing.T) {
	col := newTestCollection(t)
	ctx := context.Background()

	require.NoError(t, col.InsertOne(ctx, note{ID: "a", Kind: "draft", Body: "v1"}))
	require.NoError(t, col.UpdateOne(ctx, Filter{"id": "a"}, note{ID: "a", Kind: "final", Body: "v2"}, false))

	got, err := col.FindOne(ctx, Filter{"id": "a"})
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Body)
	assert.Equal(t, "final", got.Kind)

	err = col.UpdateOne(ctx, Filter{"id": "missing"}, note{ID: "missing", Kind: "draft"}, false)
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestUpdateOneUpsert(t *testing.T) {
	col := newTestCollection(t)
	ctx := context.Background()

	require.NoError(t, col.UpdateOne(ctx, Filter{"id": "a"}, note{ID: "a", Kind: "draft", Body: "v1"}, true))

	got, err := col.FindOne(ctx, Filter{"id": "a"})
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Body)

	n, err := col.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDeleteOneAndMany(t *testing.T) {
	col := newTestCollection(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, col.InsertOne(ctx, note{ID: id, Kind: "draft"}))
	}

	require.NoError(t, col.DeleteOne(ctx, Filter{"id": "b"}))
	// Deleting a missing document is not an error.
	require.NoError(t, col.DeleteOne(ctx, Filter{"id": "b"}))

	require.NoError(t, col.DeleteMany(ctx, []Filter{{"id": "a"}, {"id": "c"}}))

	n, err := col.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCountByFilter(t *testing.T) {
	col := newTestCollection(t)
	ctx := context.Background()

	require.NoError(t, col.InsertOne(ctx, note{ID: "a", Kind: "draft"}))
	require.NoError(t, col.InsertOne(ctx, note{ID: "b", Kind: "final"}))
	require.NoError(t, col.InsertOne(ctx, note{ID: "c", Kind: "draft"}))

	n, err := col.Count(ctx, Filter{"kind": "draft"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFilterRejectsUnindexedKeys(t *testing.T) {
	col := newTestCollection(t)
	ctx := context.Background()

	_, err := col.FindOne(ctx, Filter{"body": "hello"})
	assert.Error(t, err)
}
