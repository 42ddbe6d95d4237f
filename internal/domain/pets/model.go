package pets

import "time"

// PlaceholderImageURL is applied when a record is stored without an image.
const PlaceholderImageURL = "https://placehold.co/300x300"

// Pet is one owned record in the collection. ID and OwnerID are immutable
// once created; exactly one owner can view, edit or delete the record.
type Pet struct {
	ID      string
	OwnerID string

	Name      string
	OwnerName string
	ImageURL  string
	Age       int
	Notes     string

	CreatedAt time.Time
	UpdatedAt time.Time
}
