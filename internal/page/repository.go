package page

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"harrow/internal/docstore"
	"harrow/internal/models"
)

var (
	// ErrExists is returned when adding a page whose id is taken.
	ErrExists = errors.New("page: id already exists")
	// ErrNotFound is returned when no page has the given id.
	ErrNotFound = errors.New("page: not found")
)

// Archiver snapshots a page before an update overwrites it.
type Archiver interface {
	Add(ctx context.Context, page models.Page) error
}

// Patch carries the fields of an update. Nil fields are left
// unchanged.
type Patch struct {
	Title   *string
	Content *string
}

// Repository is the facade over page storage. It enforces id
// uniqueness, refreshes update stamps, and snapshots the previous
// version through the archiver before overwriting.
type Repository struct {
	col       *docstore.Collection[models.Page]
	archiver  Archiver // nil disables archiving
	titleAsID bool

	now func() time.Time
}

// NewRepository creates a page repository over the given database.
// With titleAsID set, a page's title doubles as its identifier.
func NewRepository(db *sql.DB, archiver Archiver, titleAsID bool) (*Repository, error) {
	col, err := docstore.NewCollection(db, "pages", []string{"id"}, func(p models.Page) map[string]string {
		return map[string]string{"id": p.ID}
	})
	if err != nil {
		return nil, err
	}
	return &Repository{col: col, archiver: archiver, titleAsID: titleAsID, now: time.Now}, nil
}

// Add creates a new page and returns its id, or ErrExists when the id
// is already taken.
func (r *Repository) Add(ctx context.Context, title, content, author string) (string, error) {
	pid := title
	if !r.titleAsID {
		pid = uuid.NewString()
	}

	n, err := r.col.Count(ctx, docstore.Filter{"id": pid})
	if err != nil {
		return "", err
	}
	if n > 0 {
		return "", ErrExists
	}

	stamp := models.Stamp{By: author, Date: r.now().UTC()}
	err = r.col.InsertOne(ctx, models.Page{
		ID:      pid,
		Title:   title,
		Content: content,
		Created: stamp,
		Updated: stamp,
	})
	if err != nil {
		return "", err
	}
	return pid, nil
}

// Update merges the patch into an existing page, refreshes its update
// stamp, and returns the page's id, which changes when titles double
// as ids and the title changed.
//
// A rename is a delete followed by an upsert, not an atomic replace:
// a concurrent reader can briefly observe neither id. The archive
// snapshot is likewise a separate write that lands before the update.
func (r *Repository) Update(ctx context.Context, pid, author string, patch Patch) (string, error) {
	data, err := r.col.FindOne(ctx, docstore.Filter{"id": pid})
	if errors.Is(err, docstore.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	if r.archiver != nil {
		if err := r.archiver.Add(ctx, *data); err != nil {
			return "", err
		}
	}

	if r.titleAsID && patch.Title != nil && *patch.Title != pid {
		if err := r.col.DeleteOne(ctx, docstore.Filter{"id": pid}); err != nil {
			return "", err
		}
		pid = *patch.Title
	}

	data.ID = pid
	if patch.Title != nil {
		data.Title = *patch.Title
	}
	if patch.Content != nil {
		data.Content = *patch.Content
	}
	data.Updated = models.Stamp{By: author, Date: r.now().UTC()}

	if err := r.col.UpdateOne(ctx, docstore.Filter{"id": pid}, *data, true); err != nil {
		return "", err
	}
	return pid, nil
}

// Get returns the page with the given id.
func (r *Repository) Get(ctx context.Context, pid string) (*models.Page, error) {
	p, err := r.col.FindOne(ctx, docstore.Filter{"id": pid})
	if errors.Is(err, docstore.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	return p, err
}

// All returns every live page in insertion order.
func (r *Repository) All(ctx context.Context) ([]models.Page, error) {
	return r.col.FindMany(ctx, nil)
}

// Latest returns the n most recently updated pages, newest first.
func (r *Repository) Latest(ctx context.Context, n int) ([]models.Page, error) {
	pages, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Updated.Date.After(pages[j].Updated.Date)
	})
	if len(pages) > n {
		pages = pages[:n]
	}
	return pages, nil
}

// IndexGroup is one letter of the alphabetical index.
type IndexGroup struct {
	Key   string
	Pages []models.Page
}

// Index groups every page by the uppercased first character of its
// title, with groups ordered ascending by key and pages kept in
// storage order within each group.
func (r *Repository) Index(ctx context.Context) ([]IndexGroup, error) {
	pages, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]models.Page)
	for _, p := range pages {
		key := ""
		if runes := []rune(p.Title); len(runes) > 0 {
			key = strings.ToUpper(string(runes[0]))
		}
		grouped[key] = append(grouped[key], p)
	}

	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]IndexGroup, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, IndexGroup{Key: k, Pages: grouped[k]})
	}
	return groups, nil
}
