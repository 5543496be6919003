package people

import (
	"encoding/json"
	"log/slog"
)

// extensionPayload mirrors the wire shape of the data column: the richer
// profile fields are nested under a top-level result object.
type extensionPayload struct {
	Result *extensionResult `json:"result"`
}

type extensionResult struct {
	DisplayName     string                   `json:"display_name"`
	Bio             string                   `json:"bio"`
	Gender          string                   `json:"gender"`
	Location        string                   `json:"location"`
	PhoneNumbers    []string                 `json:"phone_numbers"`
	AlternateEmails []string                 `json:"alternate_emails"`
	SocialProfiles  map[string]SocialProfile `json:"social_profiles"`
	Organizations   []Organization           `json:"organizations"`
}

// Formatter normalizes raw person records into presentation models.
// A nil logger is replaced with slog.Default.
type Formatter struct {
	logger *slog.Logger
}

// NewFormatter returns a Formatter logging extension parse failures to lg.
func NewFormatter(lg *slog.Logger) *Formatter {
	if lg == nil {
		lg = slog.Default()
	}
	return &Formatter{logger: lg}
}

// Format flattens a raw record into a presentation model. Scalars are copied
// verbatim; absence is resolved to "N/A" only at render time. The extension
// payload is parsed when present: a malformed payload is logged and omitted,
// never propagated as an error, so a structured payload and the same payload
// pre-serialized to text format identically.
func (f *Formatter) Format(rec PersonRecord) PresentationModel {
	m := PresentationModel{
		Email:    rec.Email,
		Name:     rec.Name,
		Phone:    rec.Phone,
		Company:  rec.Company,
		Title:    rec.Title,
		Location: rec.Location,
	}
	m.Extension = f.parseExtension(rec)
	return m
}

// parseExtension decodes rec.Data into a tagged optional Extension.
// Returns nil for an absent, empty, unparsable, or result-less payload.
func (f *Formatter) parseExtension(rec PersonRecord) *Extension {
	raw, ok := payloadBytes(rec.Data)
	if !ok {
		return nil
	}

	var payload extensionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		f.logger.Warn("discarding malformed extension payload",
			"email", rec.Email, "error", err)
		return nil
	}
	if payload.Result == nil {
		return nil
	}

	res := payload.Result
	ext := &Extension{
		DisplayName:     res.DisplayName,
		Bio:             res.Bio,
		Gender:          res.Gender,
		Location:        res.Location,
		PhoneNumbers:    res.PhoneNumbers,
		AlternateEmails: res.AlternateEmails,
		SocialProfiles:  res.SocialProfiles,
		Organizations:   res.Organizations,
	}

	// The extension location overrides the record's; fall back to the
	// top-level location when the payload carries none.
	if ext.Location == "" {
		ext.Location = rec.Location
	}

	return ext
}

// payloadBytes reduces the loosely-typed Data field to JSON bytes.
// Structured payloads (maps built in memory) are re-serialized so they take
// the same parse path as textual payloads from the store.
func payloadBytes(data any) ([]byte, bool) {
	switch v := data.(type) {
	case nil:
		return nil, false
	case string:
		if v == "" {
			return nil, false
		}
		return []byte(v), true
	case []byte:
		if len(v) == 0 {
			return nil, false
		}
		return v, true
	case json.RawMessage:
		if len(v) == 0 {
			return nil, false
		}
		return v, true
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		return raw, true
	}
}
