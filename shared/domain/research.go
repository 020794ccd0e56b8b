package domain

import (
	"time"

	"github.com/lib/pq"
)

type (
	ResearchId = int64
	UpdateId   = int64

	// Stored as text[] columns, paths relative to the media root.
	AttachmentPaths = pq.StringArray
)

// Research is a project owned by a profile; it owns an ordered list of
// updates.
type Research struct {
	Id        ResearchId
	OwnerId   ProfileId
	Title     string
	CreatedAt time.Time
	Updates   []ResearchUpdate
}

// ResearchUpdate is one versioned entry of a research item. Deleted is a
// soft flag: deleted updates stay in storage but are filtered from every
// listing.
type ResearchUpdate struct {
	Id              UpdateId
	ResearchId      ResearchId
	Title           string
	Description     string
	DescriptionHTML string `json:",omitempty"` // rendered, sanitized; populated on reads
	Images          AttachmentPaths
	Files           AttachmentPaths
	VideoURL        string
	Draft           bool
	Deleted         bool
	CreatedAt       time.Time
	ModifiedAt      time.Time
}

// UpdateDraft is the client-side payload of the upsert operation.
type UpdateDraft struct {
	Title       string
	Description string
	VideoURL    string
	KeptImages  []string // existing attachment paths the client kept
	KeptFiles   []string
}
