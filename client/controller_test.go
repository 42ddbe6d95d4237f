package client

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"petkeep/apperr"
	"petkeep/internal/adapters/storage/memory"
	"petkeep/internal/router"
	"petkeep/internal/session"
)

func newServerAPI(t *testing.T, email string) *API {
	t.Helper()

	auth, err := session.New([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	ts := httptest.NewServer(router.New(router.Options{
		Logger:   slog.New(slog.DiscardHandler),
		Sessions: auth,
		Users:    memory.NewUserRepo(),
		Pets:     memory.NewPetRepo(),
	}))
	t.Cleanup(ts.Close)

	api, err := NewAPI(ts.URL)
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}
	if _, err := api.SignUp(context.Background(), email, "secret123"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	return api
}

func rex() Fields {
	return Fields{Name: "Rex", OwnerName: "Jo Ann", Age: 3}
}

func TestController_OptimisticAddThenConfirm(t *testing.T) {
	api := newServerAPI(t, "a@example.com")
	ctx := context.Background()

	ctrl := NewController(api)
	if err := ctrl.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	id, err := ctrl.AddTentative(ctx, rex())
	if err != nil {
		t.Fatalf("AddTentative: %v", err)
	}

	// Phase 1: visible immediately, under a placeholder id.
	p := ctrl.Pets()
	if len(p) != 1 || p[0].ID != id || !IsPlaceholderID(p[0].ID) {
		t.Fatalf("tentative record not projected: %+v", p)
	}
	if p[0].Name != "Rex" || p[0].Age != 3 {
		t.Fatalf("tentative fields wrong: %+v", p[0])
	}

	// Phase 2: the authoritative snapshot supersedes the placeholder.
	ctrl.Wait()
	p = ctrl.Pets()
	if len(p) != 1 {
		t.Fatalf("expected 1 record after confirmation, got %d", len(p))
	}
	if IsPlaceholderID(p[0].ID) {
		t.Fatalf("placeholder id survived confirmation: %q", p[0].ID)
	}
	if p[0].Name != "Rex" || p[0].OwnerID == "" {
		t.Fatalf("authoritative record wrong: %+v", p[0])
	}
}

func TestController_EditAndRemove(t *testing.T) {
	api := newServerAPI(t, "a@example.com")
	ctx := context.Background()

	created, err := api.CreatePet(ctx, rex())
	if err != nil {
		t.Fatalf("CreatePet: %v", err)
	}

	ctrl := NewController(api)
	if err := ctrl.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := ctrl.EditTentative(ctx, created.ID, Fields{Name: "Rex II", OwnerName: "Jo Ann", Age: 4}); err != nil {
		t.Fatalf("EditTentative: %v", err)
	}
	if p := ctrl.Pets(); p[0].Name != "Rex II" {
		t.Fatalf("edit not applied locally: %+v", p[0])
	}

	ctrl.Wait()
	if p := ctrl.Pets(); p[0].Name != "Rex II" || p[0].Age != 4 {
		t.Fatalf("edit lost after confirmation: %+v", p[0])
	}

	// Deleting the selected record clears the selection synchronously.
	ctrl.Select(created.ID)
	if _, ok := ctrl.Selected(); !ok {
		t.Fatal("selection missing")
	}
	if err := ctrl.RemoveTentative(ctx, created.ID); err != nil {
		t.Fatalf("RemoveTentative: %v", err)
	}
	if _, ok := ctrl.Selected(); ok {
		t.Fatal("selection should clear when the selected record is removed")
	}
	if p := ctrl.Pets(); len(p) != 0 {
		t.Fatalf("record still projected after removal: %+v", p)
	}

	ctrl.Wait()
	if p := ctrl.Pets(); len(p) != 0 {
		t.Fatalf("record came back after confirmation: %+v", p)
	}
}

func TestController_SelectionIsLocal(t *testing.T) {
	api := newServerAPI(t, "a@example.com")
	ctx := context.Background()

	created, err := api.CreatePet(ctx, rex())
	if err != nil {
		t.Fatalf("CreatePet: %v", err)
	}

	ctrl := NewController(api)
	if err := ctrl.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	ctrl.Select(created.ID)
	sel, ok := ctrl.Selected()
	if !ok || sel.ID != created.ID {
		t.Fatalf("Selected() = %+v, %v", sel, ok)
	}
}

func TestAPI_SecondUserCannotMutate(t *testing.T) {
	api := newServerAPI(t, "owner@example.com")
	ctx := context.Background()

	created, err := api.CreatePet(ctx, rex())
	if err != nil {
		t.Fatalf("CreatePet: %v", err)
	}

	// Second account on the same server.
	intruder, err := NewAPI(api.base)
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}
	if _, err := intruder.SignUp(ctx, "intruder@example.com", "secret123"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if _, err := intruder.UpdatePet(ctx, created.ID, rex()); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected Unauthorized on foreign update, got %v", err)
	}
	if err := intruder.DeletePet(ctx, created.ID); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected Unauthorized on foreign delete, got %v", err)
	}
}

// stubServer serves a canned collection and scripted mutation responses so
// in-flight windows and failures are deterministic.
func stubServer(t *testing.T, snapshot []Pet, mutate http.HandlerFunc) *API {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /app/pets", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snapshot)
	})
	mux.HandleFunc("/app/pets", mutate)
	mux.HandleFunc("/app/pets/", mutate)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	api, err := NewAPI(ts.URL)
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}
	return api
}

func TestController_RejectsSecondMutationWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	api := stubServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Pet{ID: "b3a5e9a2-93d8-4a93-a722-d6dbf0b75f11"})
	})

	ctrl := NewController(api)
	ctx := context.Background()

	id, err := ctrl.AddTentative(ctx, rex())
	if err != nil {
		t.Fatalf("AddTentative: %v", err)
	}

	// The create is still blocked server-side; a second mutation on the
	// same record must be rejected, not interleaved.
	err = ctrl.EditTentative(ctx, id, Fields{Name: "Too soon", OwnerName: "Jo Ann", Age: 4})
	if !errors.Is(err, ErrMutationPending) {
		t.Fatalf("expected ErrMutationPending, got %v", err)
	}
	if err := ctrl.RemoveTentative(ctx, id); !errors.Is(err, ErrMutationPending) {
		t.Fatalf("expected ErrMutationPending on remove, got %v", err)
	}

	close(release)
	ctrl.Wait()
}

func TestController_FailureRevertsAndNotifies(t *testing.T) {
	stored := Pet{ID: "b3a5e9a2-93d8-4a93-a722-d6dbf0b75f11", Name: "Rex", OwnerName: "Jo Ann", Age: 3}
	api := stubServer(t, []Pet{stored}, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Failed to edit pet"})
	})

	ctrl := NewController(api)
	ctx := context.Background()
	if err := ctrl.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := ctrl.EditTentative(ctx, stored.ID, Fields{Name: "Rex II", OwnerName: "Jo Ann", Age: 4}); err != nil {
		t.Fatalf("EditTentative: %v", err)
	}
	if p := ctrl.Pets(); p[0].Name != "Rex II" {
		t.Fatalf("tentative edit not visible: %+v", p[0])
	}

	ctrl.Wait()

	// Reverted to the last authoritative snapshot.
	p := ctrl.Pets()
	if p[0].Name != "Rex" || p[0].Age != 3 {
		t.Fatalf("projection not reverted: %+v", p[0])
	}

	select {
	case n := <-ctrl.Notifications():
		if n.Message != "Failed to edit pet" || n.PetID != stored.ID || n.Op != OpEdit {
			t.Fatalf("unexpected notification: %+v", n)
		}
	default:
		t.Fatal("expected a failure notification")
	}
}
