package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"petkeep/apperr"
	"petkeep/internal/domain/pets"
)

// ErrMutationPending rejects a second mutation on a record whose previous
// mutation has not resolved yet. Interleaved tentative states on one record
// cannot be reverted coherently, so the controller refuses to create them.
var ErrMutationPending = errors.New("client: a mutation for this record is still in flight")

// Notification surfaces an asynchronous mutation failure. Non-blocking and
// dismissible by construction: if nobody is listening it is dropped.
type Notification struct {
	Op      Op
	PetID   string
	Message string
}

// Controller is the optimistic state controller. Every mutation runs in two
// phases: a synchronous apply to the local projection, then an asynchronous
// server call. On failure the projection reverts to the last authoritative
// snapshot (plus any other still-pending mutations); on success the next
// authoritative snapshot supersedes the tentative entry.
//
// The projection is a cache of the caller's own collection, not a source of
// truth, and makes no promises about concurrent writers on other clients.
type Controller struct {
	api *API

	mu           sync.Mutex
	snapshot     []Pet // last authoritative server state
	pending      []Command
	projection   []Pet
	selectedID   string
	placeholderN uint64

	notes chan Notification
	wg    sync.WaitGroup
}

func NewController(api *API) *Controller {
	return &Controller{
		api:   api,
		notes: make(chan Notification, 16),
	}
}

// Load seeds the projection from the server. Call after Login.
func (c *Controller) Load(ctx context.Context) error {
	snap, err := c.api.ListPets(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = snap
	c.recompute()
	return nil
}

// Pets returns the current projection in issue order.
func (c *Controller) Pets() []Pet {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Pet, len(c.projection))
	copy(out, c.projection)
	return out
}

// Select marks a record as selected. Purely local; no server call.
func (c *Controller) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedID = id
}

// Selected returns the selected record, if it is still in the projection.
func (c *Controller) Selected() (Pet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.find(c.selectedID)
}

// Filter returns the projected records whose name contains q, for the search
// box. Case-insensitive, purely local.
func (c *Controller) Filter(q string) []Pet {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Pet, 0, len(c.projection))
	for _, p := range c.projection {
		if containsFold(p.Name, q) {
			out = append(out, p)
		}
	}
	return out
}

// AddTentative inserts the record locally under a placeholder id and
// dispatches the create. The placeholder is returned so the caller can track
// the entry until the authoritative snapshot supersedes it.
func (c *Controller) AddTentative(ctx context.Context, f Fields) (string, error) {
	c.mu.Lock()
	c.placeholderN++
	id := placeholderID(time.Now().UnixMilli(), c.placeholderN)
	tentative := Pet{
		ID:        id,
		Name:      f.Name,
		OwnerName: f.OwnerName,
		ImageURL:  orPlaceholderImage(f.ImageURL),
		Age:       f.Age,
		Notes:     f.Notes,
	}
	cmd := Command{Op: OpAdd, ID: id, Pet: tentative}
	c.push(cmd)
	c.mu.Unlock()

	c.dispatch(ctx, cmd, func(ctx context.Context) error {
		_, err := c.api.CreatePet(ctx, f)
		return err
	})
	return id, nil
}

// EditTentative applies the new field values locally and dispatches the
// update.
func (c *Controller) EditTentative(ctx context.Context, id string, f Fields) error {
	c.mu.Lock()
	if c.inFlight(id) {
		c.mu.Unlock()
		return ErrMutationPending
	}
	if _, ok := c.find(id); !ok {
		c.mu.Unlock()
		return apperr.New(apperr.ErrNotFound, "Pet not found")
	}
	cmd := Command{Op: OpEdit, ID: id, Fields: f}
	c.push(cmd)
	c.mu.Unlock()

	c.dispatch(ctx, cmd, func(ctx context.Context) error {
		_, err := c.api.UpdatePet(ctx, id, f)
		return err
	})
	return nil
}

// RemoveTentative drops the record locally and dispatches the delete.
// Removing the selected record clears the selection.
func (c *Controller) RemoveTentative(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.inFlight(id) {
		c.mu.Unlock()
		return ErrMutationPending
	}
	if _, ok := c.find(id); !ok {
		c.mu.Unlock()
		return apperr.New(apperr.ErrNotFound, "Pet not found")
	}
	cmd := Command{Op: OpDelete, ID: id}
	c.push(cmd)
	if c.selectedID == id {
		c.selectedID = ""
	}
	c.mu.Unlock()

	c.dispatch(ctx, cmd, func(ctx context.Context) error {
		return c.api.DeletePet(ctx, id)
	})
	return nil
}

// Notifications delivers mutation failures. The channel is buffered and sends
// never block; with no listener the buffer fills and further notifications
// are dropped rather than stalling mutations.
func (c *Controller) Notifications() <-chan Notification {
	return c.notes
}

// Wait blocks until all dispatched mutations have resolved. Test hook and
// graceful-teardown aid; the UI never needs it.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// dispatch runs phase 2. The call deliberately outlives the caller's context:
// a mutation the user already saw applied locally should not be aborted by
// the form teardown that follows it.
func (c *Controller) dispatch(ctx context.Context, cmd Command, call func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		err := call(ctx)

		if err != nil {
			c.mu.Lock()
			c.drop(cmd)
			c.recompute() // reverts to snapshot + remaining pending
			c.mu.Unlock()
			c.notify(Notification{Op: cmd.Op, PetID: cmd.ID, Message: apperr.UserMessage(err)})
			return
		}

		// Confirmed: the server is the source of truth going forward.
		snap, snapErr := c.api.ListPets(ctx)

		c.mu.Lock()
		c.drop(cmd)
		if snapErr == nil {
			c.snapshot = snap
		}
		c.recompute()
		c.mu.Unlock()
	}()
}

// push records a pending command and reapplies it to the projection.
// Call with the lock held.
func (c *Controller) push(cmd Command) {
	c.pending = append(c.pending, cmd)
	c.recompute()
}

// drop removes a resolved command. Call with the lock held.
func (c *Controller) drop(cmd Command) {
	for i := range c.pending {
		if c.pending[i].Op == cmd.Op && c.pending[i].ID == cmd.ID {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}

// recompute rebuilds the projection from the snapshot and pending commands.
// Call with the lock held.
func (c *Controller) recompute() {
	c.projection = Reduce(c.snapshot, c.pending)
}

// inFlight reports whether id already has a pending mutation. Placeholder ids
// are pending by definition until their create resolves. Call with the lock
// held.
func (c *Controller) inFlight(id string) bool {
	for _, cmd := range c.pending {
		if cmd.ID == id {
			return true
		}
	}
	return false
}

// find looks id up in the projection. Call with the lock held.
func (c *Controller) find(id string) (Pet, bool) {
	for _, p := range c.projection {
		if p.ID == id {
			return p, true
		}
	}
	return Pet{}, false
}

func (c *Controller) notify(n Notification) {
	select {
	case c.notes <- n:
	default:
	}
}

func orPlaceholderImage(u string) string {
	if u == "" {
		return pets.PlaceholderImageURL
	}
	return u
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
