package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"petkeep/apperr"
	"petkeep/internal/session"
	"petkeep/validate"
)

// Schema bounds every create/update payload. Exported so clients can run the
// same pre-check before dispatching a mutation.
var Schema = validate.Schema{
	{Name: "name", Kind: validate.String, Required: true, MinLen: 3, MaxLen: 50},
	{Name: "ownerName", Kind: validate.String, Required: true, MinLen: 3, MaxLen: 50},
	{Name: "imageUrl", Kind: validate.URL},
	{Name: "age", Kind: validate.Int, Required: true, Min: 1, Max: 30},
	{Name: "notes", Kind: validate.String, MaxLen: 200},
}

// Input is a full replacement payload for a record's mutable fields.
type Input struct {
	Name      string
	OwnerName string
	ImageURL  string
	Age       int
	Notes     string
}

func (in Input) values() map[string]any {
	return map[string]any{
		"name":      in.Name,
		"ownerName": in.OwnerName,
		"imageUrl":  in.ImageURL,
		"age":       in.Age,
		"notes":     in.Notes,
	}
}

// Service is the per-mutation authorization gate. Every call takes the
// resolved session explicitly (nil means unauthenticated) and runs the same
// fixed sequence: authentication, structural validation, ownership, store.
// Validation failures must never surface as authorization failures or vice
// versa; the client distinguishes them for messaging.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create persists a new record owned by the session user.
func (s *Service) Create(ctx context.Context, sess *session.Claims, in Input) (Pet, error) {
	if err := requireSession(sess); err != nil {
		return Pet{}, err
	}
	if vs := Schema.Check(in.values()); len(vs) > 0 {
		return Pet{}, apperr.Invalid(vs[0].Field, vs[0].Message)
	}

	now := s.now()
	p := Pet{
		ID:        uuid.NewString(),
		OwnerID:   sess.UserID,
		Name:      strings.TrimSpace(in.Name),
		OwnerName: strings.TrimSpace(in.OwnerName),
		ImageURL:  imageOrPlaceholder(in.ImageURL),
		Age:       in.Age,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, apperr.Wrap(apperr.ErrPersistenceFailed, "Failed to add pet", err)
	}
	return p, nil
}

// Update replaces the mutable fields of a record the session user owns.
func (s *Service) Update(ctx context.Context, sess *session.Claims, id string, in Input) (Pet, error) {
	if err := requireSession(sess); err != nil {
		return Pet{}, err
	}
	if err := validateID(id); err != nil {
		return Pet{}, err
	}
	if vs := Schema.Check(in.values()); len(vs) > 0 {
		return Pet{}, apperr.Invalid(vs[0].Field, vs[0].Message)
	}

	cur, err := s.requireOwned(ctx, sess, id)
	if err != nil {
		return Pet{}, err
	}

	cur.Name = strings.TrimSpace(in.Name)
	cur.OwnerName = strings.TrimSpace(in.OwnerName)
	cur.ImageURL = imageOrPlaceholder(in.ImageURL)
	cur.Age = in.Age
	cur.Notes = strings.TrimSpace(in.Notes)
	cur.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, cur); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Pet{}, apperr.New(apperr.ErrNotFound, "Pet not found")
		}
		return Pet{}, apperr.Wrap(apperr.ErrPersistenceFailed, "Failed to edit pet", err)
	}
	return cur, nil
}

// Delete removes a record the session user owns. Deleting an id that no
// longer exists is NotFound, not a fault, so a repeated delete stays safe.
func (s *Service) Delete(ctx context.Context, sess *session.Claims, id string) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}

	if _, err := s.requireOwned(ctx, sess, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.New(apperr.ErrNotFound, "Pet not found")
		}
		return apperr.Wrap(apperr.ErrPersistenceFailed, "Failed to delete pet", err)
	}
	return nil
}

// ListByOwner returns the session user's collection, the authoritative
// snapshot the client projection is seeded from.
func (s *Service) ListByOwner(ctx context.Context, sess *session.Claims) ([]Pet, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByOwner(ctx, sess.UserID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrPersistenceFailed, "Failed to load pets", err)
	}
	return items, nil
}

func requireSession(sess *session.Claims) error {
	if sess == nil || strings.TrimSpace(sess.UserID) == "" {
		return apperr.New(apperr.ErrUnauthenticated, "Not authenticated")
	}
	return nil
}

// validateID re-checks user-supplied ids against the server id shape before
// any lookup. Client-minted placeholder ids fail here by construction.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Invalid("id", "Invalid pet ID")
	}
	return nil
}

func imageOrPlaceholder(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return PlaceholderImageURL
	}
	return u
}
