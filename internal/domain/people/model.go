// Package people implements the natural-language person-query core:
// extracting search terms from free text, building store predicates,
// normalizing stored records, and rendering deterministic text reports.
package people

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store key lookups when no row matches.
// It is a distinguished non-fatal outcome, rendered as a "no ... found"
// message rather than surfaced as a failure.
var ErrNotFound = errors.New("not found")

// PersonRecord is a raw stored row. Email is the only guaranteed-present,
// uniquely-identifying field; all other scalars may be empty. Data carries
// the optional extension payload: either already-structured
// (map[string]any / json.RawMessage) or textual JSON requiring a parse step.
type PersonRecord struct {
	Email    string
	Name     string
	Phone    string
	Company  string
	Title    string
	Location string
	Data     any
}

// ImageRecord associates opaque image content with an email.
// Joined to people by email equality only; no referential constraint.
type ImageRecord struct {
	Email       string
	Content     []byte
	ContentType string
}

// SocialProfile is one platform entry in the extension payload. Only entries
// carrying a URL are rendered.
type SocialProfile struct {
	URL string `json:"url"`
}

// Organization is one membership entry in the extension payload.
type Organization struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Extension is the parsed, lifted extension payload. A nil *Extension on the
// presentation model means the payload was absent or unparsable; inside a
// present extension, empty fields are simply omitted at render time, never
// substituted with placeholders.
type Extension struct {
	DisplayName     string
	Bio             string
	Gender          string
	Location        string
	PhoneNumbers    []string
	AlternateEmails []string
	SocialProfiles  map[string]SocialProfile
	Organizations   []Organization
}

// PresentationModel is the flattened, render-ready view of a person record.
// Derived per call, never stored.
type PresentationModel struct {
	Email     string
	Name      string
	Phone     string
	Company   string
	Title     string
	Location  string
	Extension *Extension
}

// Store is the read-only record store consumed by the query core.
// Implementations must return ErrNotFound (possibly wrapped) from the
// key lookups when no row matches, distinguishable from transport errors.
type Store interface {
	// Search returns up to limit people matching all predicates conjunctively.
	// An empty predicate list matches everything, bounded by limit.
	Search(ctx context.Context, preds []Predicate, limit int) ([]PersonRecord, error)

	// PersonByEmail returns the single person keyed by email.
	PersonByEmail(ctx context.Context, email string) (*PersonRecord, error)

	// ImageByEmail returns the image associated with email.
	ImageByEmail(ctx context.Context, email string) (*ImageRecord, error)
}
