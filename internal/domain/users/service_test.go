package users_test

import (
	"context"
	"errors"
	"testing"

	"petkeep/apperr"
	"petkeep/internal/adapters/storage/memory"
	"petkeep/internal/domain/users"
)

func TestSignUpThenAuthorize(t *testing.T) {
	svc := users.NewService(memory.NewUserRepo())
	ctx := context.Background()

	created, err := svc.SignUp(ctx, "a@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if created.ID == "" {
		t.Fatal("SignUp: missing id")
	}
	if created.PasswordHash == "secret123" {
		t.Fatal("password stored in the clear")
	}

	u, err := svc.Authorize(ctx, "a@example.com", "secret123")
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if u.ID != created.ID {
		t.Fatalf("Authorize returned wrong user: %q != %q", u.ID, created.ID)
	}
}

func TestAuthorize_WrongPassword(t *testing.T) {
	svc := users.NewService(memory.NewUserRepo())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "a@example.com", "secret123"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	_, err := svc.Authorize(ctx, "a@example.com", "wrong-password")
	if !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected InvalidCredentials, got %v", err)
	}
}

func TestAuthorize_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	svc := users.NewService(memory.NewUserRepo())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "a@example.com", "secret123"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	_, unknownErr := svc.Authorize(ctx, "b@example.com", "secret123")
	_, wrongErr := svc.Authorize(ctx, "a@example.com", "nope-nope-nope")

	if !errors.Is(unknownErr, apperr.ErrInvalidCredentials) || !errors.Is(wrongErr, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected InvalidCredentials for both, got %v / %v", unknownErr, wrongErr)
	}
	if apperr.UserMessage(unknownErr) != apperr.UserMessage(wrongErr) {
		t.Fatalf("messages leak which part was wrong: %q vs %q",
			apperr.UserMessage(unknownErr), apperr.UserMessage(wrongErr))
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	svc := users.NewService(memory.NewUserRepo())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "a@example.com", "secret123"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	_, err := svc.SignUp(ctx, "a@example.com", "different-pass")
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected InvalidInput for duplicate email, got %v", err)
	}
	if apperr.UserMessage(err) != "Email already exists" {
		t.Fatalf("unexpected message: %q", apperr.UserMessage(err))
	}
}

func TestSignUp_RejectsBadCredentials(t *testing.T) {
	svc := users.NewService(memory.NewUserRepo())
	ctx := context.Background()

	cases := []struct {
		name      string
		email     string
		password  string
		wantField string
	}{
		{"bad email", "not-an-email", "secret123", "email"},
		{"short password", "a@example.com", "short", "password"},
		{"empty email", "", "secret123", "email"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SignUp(ctx, tc.email, tc.password)
			var ae *apperr.Error
			if !errors.As(err, &ae) || !errors.Is(err, apperr.ErrInvalidInput) {
				t.Fatalf("expected InvalidInput, got %v", err)
			}
			if ae.Field != tc.wantField {
				t.Fatalf("expected violation on %q, got %q", tc.wantField, ae.Field)
			}
		})
	}
}
