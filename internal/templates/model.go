package templates

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindMessage Kind = "message"
	KindMedia   Kind = "media"
)

func ValidKind(k Kind) bool {
	return k == KindMessage || k == KindMedia
}

// Template is a reusable message or media entry of the content library.
// Message templates carry a body; media templates carry a stored-file URL.
type Template struct {
	ID        uuid.UUID
	Kind      Kind
	Title     string
	Body      *string
	MediaURL  *string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
