package archive

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"harrow/internal/docstore"
	"harrow/internal/models"
)

// ErrNotFound is returned when no archive entry has the given id.
var ErrNotFound = errors.New("archive: not found")

// Repository provides access to archived page snapshots. Entries are
// append-only: they are written once before a page update overwrites
// the live document and are only ever removed by an explicit purge.
type Repository struct {
	col *docstore.Collection[models.Archive]

	now func() time.Time
}

// NewRepository creates an archive repository over the given database.
func NewRepository(db *sql.DB) (*Repository, error) {
	col, err := docstore.NewCollection(db, "archive", []string{"id", "page_id"}, func(a models.Archive) map[string]string {
		return map[string]string{"id": a.ID, "page_id": a.PageID}
	})
	if err != nil {
		return nil, err
	}
	return &Repository{col: col, now: time.Now}, nil
}

// Add stores a snapshot of the given page under a fresh archive id.
func (r *Repository) Add(ctx context.Context, page models.Page) error {
	return r.col.InsertOne(ctx, models.Archive{
		ID:     uuid.NewString(),
		Date:   r.now().UTC(),
		Page:   page,
		PageID: page.ID,
	})
}

// Get returns the archive entry with the given id.
func (r *Repository) Get(ctx context.Context, aid string) (*models.Archive, error) {
	a, err := r.col.FindOne(ctx, docstore.Filter{"id": aid})
	if errors.Is(err, docstore.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	return a, err
}

// ByPage returns every snapshot taken of the given page, oldest first.
func (r *Repository) ByPage(ctx context.Context, pid string) ([]models.Archive, error) {
	return r.col.FindMany(ctx, docstore.Filter{"page_id": pid})
}

// Remove purges the entries with the given archive ids.
func (r *Repository) Remove(ctx context.Context, aids ...string) error {
	if len(aids) == 1 {
		return r.col.DeleteOne(ctx, docstore.Filter{"id": aids[0]})
	}
	filters := make([]docstore.Filter, 0, len(aids))
	for _, aid := range aids {
		filters = append(filters, docstore.Filter{"id": aid})
	}
	return r.col.DeleteMany(ctx, filters)
}

// CountByPage returns how many snapshots exist for the given page.
func (r *Repository) CountByPage(ctx context.Context, pid string) (int, error) {
	return r.col.Count(ctx, docstore.Filter{"page_id": pid})
}
