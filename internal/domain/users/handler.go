package users

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"petkeep/apperr"
	"petkeep/internal/middleware"
	"petkeep/internal/session"
)

// RegisterPublicRoutes mounts the authentication entry points. Both issue the
// session cookie on success; the original flow signs the user in right after
// sign-up, so sign-up does too.
func RegisterPublicRoutes(r chi.Router, svc *Service, auth *session.Authority, secureCookies bool) {
	r.Post("/signup", signUpHandler(svc, auth, secureCookies))
	r.Post("/login", logInHandler(svc, auth, secureCookies))
}

// RegisterProtectedRoutes mounts the session-bound endpoints under the
// protected prefix.
func RegisterProtectedRoutes(r chi.Router, svc *Service) {
	r.Post("/logout", logOutHandler())
	r.Get("/account", accountHandler())
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func signUpHandler(svc *Service, auth *session.Authority, secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFailure(w, apperr.Invalid("", "Invalid form data"))
			return
		}

		u, err := svc.SignUp(r.Context(), req.Email, req.Password)
		if err != nil {
			writeFailure(w, err)
			return
		}

		token, err := auth.Issue(u.ID, u.Email)
		if err != nil {
			writeFailure(w, apperr.Wrap(apperr.ErrPersistenceFailed, "Failed to create session", err))
			return
		}
		session.SetCookie(w, token, secure)

		writeJSON(w, http.StatusCreated, userResponse{ID: u.ID, Email: u.Email})
	}
}

func logInHandler(svc *Service, auth *session.Authority, secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFailure(w, apperr.Invalid("", "Invalid form data"))
			return
		}

		u, err := svc.Authorize(r.Context(), req.Email, req.Password)
		if err != nil {
			writeFailure(w, err)
			return
		}

		token, err := auth.Issue(u.ID, u.Email)
		if err != nil {
			writeFailure(w, apperr.Wrap(apperr.ErrPersistenceFailed, "Failed to create session", err))
			return
		}
		session.SetCookie(w, token, secure)

		writeJSON(w, http.StatusOK, userResponse{ID: u.ID, Email: u.Email})
	}
}

func logOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session.ClearCookie(w)
		if strings.Contains(r.Header.Get("Accept"), "application/json") {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func accountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeFailure(w, apperr.New(apperr.ErrUnauthenticated, "Not authenticated"))
			return
		}
		writeJSON(w, http.StatusOK, userResponse{ID: claims.UserID, Email: claims.Email})
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
