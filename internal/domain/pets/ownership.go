package pets

import (
	"context"
	"errors"

	"petkeep/apperr"
	"petkeep/internal/session"
)

// requireOwned fetches the target record and verifies the session user owns
// it. Runs strictly after structural validation and strictly before the store
// mutation; the read and the later write are not transactionally isolated,
// which is acceptable because ownership never transfers.
func (s *Service) requireOwned(ctx context.Context, sess *session.Claims, id string) (Pet, error) {
	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Pet{}, apperr.New(apperr.ErrNotFound, "Pet not found")
		}
		return Pet{}, apperr.Wrap(apperr.ErrPersistenceFailed, "Failed to load pet", err)
	}
	if cur.OwnerID != sess.UserID {
		return Pet{}, apperr.New(apperr.ErrUnauthorized, "Unauthorized")
	}
	return cur, nil
}
