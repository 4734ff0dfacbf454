package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"harrow/internal/docstore"
	"harrow/internal/models"
	"harrow/internal/security"
)

var (
	// ErrExists is returned when adding a user whose id is taken.
	ErrExists = errors.New("user: id already exists")
	// ErrNotFound is returned when no user has the given id.
	ErrNotFound = errors.New("user: not found")
)

// Repository provides access to user accounts.
type Repository struct {
	col *docstore.Collection[models.User]
}

// NewRepository creates a user repository over the given database.
func NewRepository(db *sql.DB) (*Repository, error) {
	col, err := docstore.NewCollection(db, "users", []string{"id"}, func(u models.User) map[string]string {
		return map[string]string{"id": u.ID}
	})
	if err != nil {
		return nil, err
	}
	return &Repository{col: col}, nil
}

func validate(uid, level string) error {
	if err := validation.Validate(uid, validation.Required, is.EmailFormat); err != nil {
		return fmt.Errorf("user: invalid id: %w", err)
	}
	if err := validation.Validate(level, validation.Required, validation.In(models.LevelViewer, models.LevelWriter)); err != nil {
		return fmt.Errorf("user: invalid level: %w", err)
	}
	return nil
}

// Add provisions a new account. The password may be supplied either as
// plaintext or as an already-versioned hash; plaintext is hashed here.
func (r *Repository) Add(ctx context.Context, uid, name, pw, level string) error {
	if err := validate(uid, level); err != nil {
		return err
	}

	n, err := r.col.Count(ctx, docstore.Filter{"id": uid})
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrExists
	}

	if _, ok := security.Version(pw); !ok {
		pw = security.ComputeHash(pw)
	}

	return r.col.InsertOne(ctx, models.User{
		ID:       uid,
		Name:     name,
		Password: pw,
		Level:    level,
	})
}

// Remove deletes the account with the given id.
func (r *Repository) Remove(ctx context.Context, uid string) error {
	return r.col.DeleteOne(ctx, docstore.Filter{"id": uid})
}

// Get returns the account with the given id.
func (r *Repository) Get(ctx context.Context, uid string) (*models.User, error) {
	u, err := r.col.FindOne(ctx, docstore.Filter{"id": uid})
	if errors.Is(err, docstore.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	return u, err
}

// Update changes the password and/or access level of an account. Nil
// fields are left unchanged; calling with neither is a no-op.
func (r *Repository) Update(ctx context.Context, uid string, pw, level *string) error {
	if pw == nil && level == nil {
		return nil
	}

	u, err := r.Get(ctx, uid)
	if err != nil {
		return err
	}

	if pw != nil {
		hashed := *pw
		if _, ok := security.Version(hashed); !ok {
			hashed = security.ComputeHash(hashed)
		}
		u.Password = hashed
	}
	if level != nil {
		if !models.ValidLevel(*level) {
			return fmt.Errorf("user: invalid level %q", *level)
		}
		u.Level = *level
	}

	return r.col.UpdateOne(ctx, docstore.Filter{"id": uid}, *u, false)
}

// Check reports whether pw is the password of the account with the
// given id. Stored hashes are deterministic, so the comparison is a
// plain string equality on the hashed value.
func (r *Repository) Check(ctx context.Context, uid, pw string) bool {
	if _, ok := security.Version(pw); !ok {
		pw = security.ComputeHash(pw)
	}

	u, err := r.Get(ctx, uid)
	if err != nil {
		return false
	}
	return u.Password == pw
}

// ToName returns the display name for a user id, falling back to the
// id itself when the account is gone.
func (r *Repository) ToName(ctx context.Context, uid string) string {
	u, err := r.Get(ctx, uid)
	if err != nil {
		return uid
	}
	return u.Name
}
