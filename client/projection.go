package client

import (
	"fmt"
	"strings"
)

// Op tags a projection command.
type Op int

const (
	OpAdd Op = iota + 1
	OpEdit
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpEdit:
		return "edit"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Command is one tentative mutation against the projection. ID is the target
// record; for Add it is the client-minted placeholder. Pet is set for Add,
// Fields for Edit.
type Command struct {
	Op     Op
	ID     string
	Pet    Pet
	Fields Fields
}

// Apply reduces one command over an ordered record sequence. Pure: the input
// slice is never mutated, so the caller can rebuild any projection from a
// snapshot plus a command list.
func Apply(seq []Pet, cmd Command) []Pet {
	switch cmd.Op {
	case OpAdd:
		out := make([]Pet, 0, len(seq)+1)
		out = append(out, seq...)
		return append(out, cmd.Pet)
	case OpEdit:
		out := make([]Pet, len(seq))
		for i, p := range seq {
			if p.ID == cmd.ID {
				p.Name = cmd.Fields.Name
				p.OwnerName = cmd.Fields.OwnerName
				p.ImageURL = cmd.Fields.ImageURL
				p.Age = cmd.Fields.Age
				p.Notes = cmd.Fields.Notes
			}
			out[i] = p
		}
		return out
	case OpDelete:
		out := make([]Pet, 0, len(seq))
		for _, p := range seq {
			if p.ID != cmd.ID {
				out = append(out, p)
			}
		}
		return out
	default:
		return seq
	}
}

// Reduce rebuilds a projection from the authoritative snapshot and the
// pending commands in issue order.
func Reduce(snapshot []Pet, pending []Command) []Pet {
	out := snapshot
	for _, cmd := range pending {
		out = Apply(out, cmd)
	}
	return out
}

const placeholderPrefix = "tmp-"

// IsPlaceholderID reports whether id was minted locally by a controller and
// has not yet been superseded by a server-assigned identifier.
func IsPlaceholderID(id string) bool {
	return strings.HasPrefix(id, placeholderPrefix)
}

// placeholderID mints a locally-unique tentative id. The timestamp keeps ids
// unique across controller instances, the counter within one.
func placeholderID(unixMilli int64, n uint64) string {
	return fmt.Sprintf("%s%d-%d", placeholderPrefix, unixMilli, n)
}
