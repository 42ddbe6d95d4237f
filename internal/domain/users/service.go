package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"petkeep/apperr"
	"petkeep/validate"
)

// credentialSchema bounds the sign-up form. Login reuses only the shape
// checks implicitly: a credential pair that could never have been stored
// fails the hash comparison anyway.
var credentialSchema = validate.Schema{
	{Name: "email", Kind: validate.Email, Required: true, MaxLen: 100},
	{Name: "password", Kind: validate.String, Required: true, MinLen: 8, MaxLen: 100},
}

const hashCost = 10

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SignUp validates the credential pair, hashes the password and stores the
// new user. A duplicate email is an input problem the user can fix, not a
// persistence fault.
func (s *Service) SignUp(ctx context.Context, email, password string) (User, error) {
	vs := credentialSchema.Check(map[string]any{"email": email, "password": password})
	if len(vs) > 0 {
		return User{}, apperr.Invalid(vs[0].Field, vs[0].Message)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return User{}, apperr.Wrap(apperr.ErrPersistenceFailed, "Failed to create user", err)
	}

	u := User{
		ID:           uuid.NewString(),
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return User{}, apperr.Invalid("email", "Email already exists")
		}
		return User{}, apperr.Wrap(apperr.ErrPersistenceFailed, "Failed to create user", err)
	}
	return u, nil
}

// Authorize checks an email/password pair against the stored credentials.
// Unknown email and wrong password produce the same terminal outcome so the
// response never reveals which part was wrong.
func (s *Service) Authorize(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperr.New(apperr.ErrInvalidCredentials, "Invalid credentials")
		}
		return User{}, apperr.Wrap(apperr.ErrPersistenceFailed, "Failed to sign in", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, apperr.New(apperr.ErrInvalidCredentials, "Invalid credentials")
	}
	return u, nil
}
