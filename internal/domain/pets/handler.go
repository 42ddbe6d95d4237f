package pets

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"petkeep/apperr"
	"petkeep/internal/middleware"
	"petkeep/internal/session"
)

// RegisterRoutes mounts the record endpoints on the protected subrouter.
// The dashboard doubles as the authoritative snapshot the client loads.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/dashboard", listPetsHandler(svc))
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc))
		pr.Post("/", createPetHandler(svc))
		pr.Put("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))
	})
}

type petRequest struct {
	Name      string `json:"name"`
	OwnerName string `json:"ownerName"`
	ImageURL  string `json:"imageUrl"`
	Age       int    `json:"age"`
	Notes     string `json:"notes"`
}

func (req petRequest) input() Input {
	return Input{
		Name:      req.Name,
		OwnerName: req.OwnerName,
		ImageURL:  req.ImageURL,
		Age:       req.Age,
		Notes:     req.Notes,
	}
}

type petResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	OwnerName string    `json:"ownerName"`
	ImageURL  string    `json:"imageUrl"`
	Age       int       `json:"age"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOf(r)

		var req petRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFailure(w, apperr.Invalid("", "Invalid pet data"))
			return
		}

		p, err := svc.Create(r.Context(), sess, req.input())
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByOwner(r.Context(), sessionOf(r))
		if err != nil {
			writeFailure(w, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOf(r)

		var req petRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFailure(w, apperr.Invalid("", "Invalid pet data"))
			return
		}

		p, err := svc.Update(r.Context(), sess, chi.URLParam(r, "petID"), req.input())
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), sessionOf(r), chi.URLParam(r, "petID")); err != nil {
			writeFailure(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// sessionOf hands the service an explicit session argument; nil means the
// middleware resolved nothing and the gate fails with Unauthenticated.
func sessionOf(r *http.Request) *session.Claims {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		return nil
	}
	return &claims
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		OwnerName: p.OwnerName,
		ImageURL:  p.ImageURL,
		Age:       p.Age,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// writeJSON/writeFailure are duplicated across domain handlers on purpose;
// extracting a shared helper package is not worth it at two call sites.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), map[string]string{"message": apperr.UserMessage(err)})
}
