// Package docstore stores schemaless JSON documents in sqlite. Each
// collection is one table holding the serialized document plus a column
// per declared key, so lookups stay exact-match on indexed fields the
// way a document database would do them.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoDocuments is returned by FindOne when nothing matches the filter.
var ErrNoDocuments = errors.New("docstore: no documents in result")

// Filter matches documents by exact value on indexed keys. An empty or
// nil filter matches every document in the collection.
type Filter map[string]string

// Collection provides document CRUD for one collection. Keys listed at
// construction become indexed columns; every key value is extracted
// from the document with the keyOf function on insert and update.
type Collection[T any] struct {
	db    *sql.DB
	table string
	keys  []string
	keyOf func(T) map[string]string
}

// NewCollection creates (if needed) the backing table and indexes for
// the named collection. Key names must be valid identifiers; they come
// from code, never from user input.
func NewCollection[T any](db *sql.DB, name string, keys []string, keyOf func(T) map[string]string) (*Collection[T], error) {
	cols := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		cols = append(cols, fmt.Sprintf("%q TEXT NOT NULL", k))
	}
	cols = append(cols, "doc TEXT NOT NULL")

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s)", name, strings.Join(cols, ", "))
	if _, err := db.Exec(ddl); err != nil {
		return nil, fmt.Errorf("error creating collection %s: %w", name, err)
	}

	for _, k := range keys {
		idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %q ON %q (%q)", name+"_"+k, name, k)
		if _, err := db.Exec(idx); err != nil {
			return nil, fmt.Errorf("error indexing collection %s: %w", name, err)
		}
	}

	return &Collection[T]{db: db, table: name, keys: keys, keyOf: keyOf}, nil
}

// InsertOne appends a document to the collection.
func (c *Collection[T]) InsertOne(ctx context.Context, doc T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}

	keyValues := c.keyOf(doc)
	cols := make([]string, 0, len(c.keys)+1)
	marks := make([]string, 0, len(c.keys)+1)
	args := make([]any, 0, len(c.keys)+1)
	for _, k := range c.keys {
		cols = append(cols, fmt.Sprintf("%q", k))
		marks = append(marks, "?")
		args = append(args, keyValues[k])
	}
	cols = append(cols, "doc")
	marks = append(marks, "?")
	args = append(args, string(data))

	query := fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)", c.table, strings.Join(cols, ", "), strings.Join(marks, ", "))
	_, err = c.db.ExecContext(ctx, query, args...)
	return err
}

// FindOne returns the first document matching the filter, or
// ErrNoDocuments when there is none.
func (c *Collection[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	where, args, err := c.where(filter)
	if err != nil {
		return nil, err
	}

	var data string
	query := fmt.Sprintf("SELECT doc FROM %q%s LIMIT 1", c.table, where)
	err = c.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, err
	}

	var doc T
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("error decoding document: %w", err)
	}
	return &doc, nil
}

// FindMany returns every document matching the filter in insertion
// order.
func (c *Collection[T]) FindMany(ctx context.Context, filter Filter) ([]T, error) {
	where, args, err := c.where(filter)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT doc FROM %q%s ORDER BY rowid", c.table, where)
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []T
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var doc T
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			return nil, fmt.Errorf("error decoding document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// UpdateOne replaces the first document matching the filter. With
// upsert set, a missing document is inserted instead.
func (c *Collection[T]) UpdateOne(ctx context.Context, filter Filter, doc T, upsert bool) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}
	where, whereArgs, err := c.where(filter)
	if err != nil {
		return err
	}

	keyValues := c.keyOf(doc)
	sets := make([]string, 0, len(c.keys)+1)
	args := make([]any, 0, len(c.keys)+1+len(whereArgs))
	for _, k := range c.keys {
		sets = append(sets, fmt.Sprintf("%q = ?", k))
		args = append(args, keyValues[k])
	}
	sets = append(sets, "doc = ?")
	args = append(args, string(data))
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %q SET %s WHERE rowid IN (SELECT rowid FROM %q%s LIMIT 1)",
		c.table, strings.Join(sets, ", "), c.table, where)
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if !upsert {
			return ErrNoDocuments
		}
		return c.InsertOne(ctx, doc)
	}
	return nil
}

// DeleteOne removes the first document matching the filter. Removing a
// document that does not exist is not an error.
func (c *Collection[T]) DeleteOne(ctx context.Context, filter Filter) error {
	where, args, err := c.where(filter)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %q WHERE rowid IN (SELECT rowid FROM %q%s LIMIT 1)", c.table, c.table, where)
	_, err = c.db.ExecContext(ctx, query, args...)
	return err
}

// DeleteMany removes the first match of each filter in one transaction.
func (c *Collection[T]) DeleteMany(ctx context.Context, filters []Filter) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, filter := range filters {
		where, args, err := c.where(filter)
		if err != nil {
			return err
		}
		query := fmt.Sprintf("DELETE FROM %q WHERE rowid IN (SELECT rowid FROM %q%s LIMIT 1)", c.table, c.table, where)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Count returns the number of documents matching the filter.
func (c *Collection[T]) Count(ctx context.Context, filter Filter) (int, error) {
	where, args, err := c.where(filter)
	if err != nil {
		return 0, err
	}

	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %q%s", c.table, where)
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (c *Collection[T]) where(filter Filter) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}

	conds := make([]string, 0, len(filter))
	args := make([]any, 0, len(filter))
	for _, k := range c.keys {
		v, ok := filter[k]
		if !ok {
			continue
		}
		conds = append(conds, fmt.Sprintf("%q = ?", k))
		args = append(args, v)
	}
	if len(conds) != len(filter) {
		return "", nil, fmt.Errorf("docstore: filter uses keys not indexed on %s", c.table)
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}
