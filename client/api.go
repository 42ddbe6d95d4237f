// Package client is the Go SDK for a petkeep server. It bundles an HTTP API
// client with an optimistic state controller that applies mutations to a
// local projection before the server confirms them.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"petkeep/apperr"
	"petkeep/validate"
)

// Pet mirrors the server's record representation.
type Pet struct {
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

// Fields is a mutation payload: the mutable fields of one record.
type Fields struct {
	Name      string `json:"name"`
	OwnerName string `json:"ownerName"`
	ImageURL  string `json:"imageUrl"`
	Age       int    `json:"age"`
	Notes     string `json:"notes"`
}

// formSchema mirrors the server-side schema so callers can pre-check a form
// before dispatching. The server re-validates regardless.
var formSchema = validate.Schema{
	{Name: "name", Kind: validate.String, Required: true, MinLen: 3, MaxLen: 50},
	{Name: "ownerName", Kind: validate.String, Required: true, MinLen: 3, MaxLen: 50},
	{Name: "imageUrl", Kind: validate.URL},
	{Name: "age", Kind: validate.Int, Required: true, Min: 1, Max: 30},
	{Name: "notes", Kind: validate.String, MaxLen: 200},
}

// Validate runs the client-side pre-check.
func (f Fields) Validate() []validate.Violation {
	return formSchema.Check(map[string]any{
		"name":      f.Name,
		"ownerName": f.OwnerName,
		"imageUrl":  f.ImageURL,
		"age":       f.Age,
		"notes":     f.Notes,
	})
}

// Account identifies the signed-in user.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// API talks to a petkeep server. The session cookie set by Login/SignUp lives
// in the client's jar, so one API value is one authenticated browser tab.
type API struct {
	base string
	hc   *http.Client
}

func NewAPI(baseURL string) (*API, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &API{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Jar: jar, Timeout: 30 * time.Second},
	}, nil
}

func (a *API) SignUp(ctx context.Context, email, password string) (Account, error) {
	var acc Account
	err := a.do(ctx, http.MethodPost, "/signup", credentials{email, password}, &acc)
	return acc, err
}

func (a *API) Login(ctx context.Context, email, password string) (Account, error) {
	var acc Account
	err := a.do(ctx, http.MethodPost, "/login", credentials{email, password}, &acc)
	return acc, err
}

func (a *API) Logout(ctx context.Context) error {
	return a.do(ctx, http.MethodPost, "/app/logout", nil, nil)
}

// ListPets fetches the authoritative snapshot of the caller's collection.
func (a *API) ListPets(ctx context.Context) ([]Pet, error) {
	var out []Pet
	err := a.do(ctx, http.MethodGet, "/app/pets", nil, &out)
	return out, err
}

func (a *API) CreatePet(ctx context.Context, f Fields) (Pet, error) {
	var p Pet
	err := a.do(ctx, http.MethodPost, "/app/pets", f, &p)
	return p, err
}

func (a *API) UpdatePet(ctx context.Context, id string, f Fields) (Pet, error) {
	var p Pet
	err := a.do(ctx, http.MethodPut, "/app/pets/"+id, f, &p)
	return p, err
}

func (a *API) DeletePet(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/app/pets/"+id, nil, nil)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// do issues one request and decodes either the success body into out or the
// structured {message} failure into an apperr kind. Success is never inferred
// from the absence of a body; the status code is always inspected.
func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.base+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.hc.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.ErrPersistenceFailed, "Failed to reach server", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		if failure.Message == "" {
			failure.Message = fmt.Sprintf("Request failed with status %d", resp.StatusCode)
		}
		return apperr.FromStatus(resp.StatusCode, failure.Message)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
