package people

import (
	"reflect"
	"testing"
)

func TestFormat_ScalarsCopied(t *testing.T) {
	t.Parallel()

	f := NewFormatter(nil)
	rec := PersonRecord{
		Email:    "alice@techcorp.com",
		Name:     "Alice Johnson",
		Phone:    "555-123-4567",
		Company:  "Tech Corp",
		Title:    "Engineer",
		Location: "Austin",
	}

	m := f.Format(rec)
	if m.Email != rec.Email || m.Name != rec.Name || m.Phone != rec.Phone ||
		m.Company != rec.Company || m.Title != rec.Title || m.Location != rec.Location {
		t.Errorf("Format() = %+v; scalars must copy verbatim", m)
	}
	if m.Extension != nil {
		t.Errorf("Extension = %+v; want nil for absent payload", m.Extension)
	}
}

func TestFormat_StructuredAndTextualPayloadsAgree(t *testing.T) {
	t.Parallel()

	f := NewFormatter(nil)

	structured := map[string]any{
		"result": map[string]any{
			"display_name": "Alice J.",
			"bio":          "Builds things.",
			"phone_numbers": []string{
				"555-000-1111",
			},
		},
	}
	textual := `{"result": {"display_name": "Alice J.", "bio": "Builds things.", "phone_numbers": ["555-000-1111"]}}`

	a := f.Format(PersonRecord{Email: "a@x.com", Data: structured})
	b := f.Format(PersonRecord{Email: "a@x.com", Data: textual})

	if !reflect.DeepEqual(a, b) {
		t.Errorf("structured payload formatted as %+v, textual as %+v; want identical", a, b)
	}
	if a.Extension == nil || a.Extension.DisplayName != "Alice J." {
		t.Errorf("Extension = %+v; want parsed display name", a.Extension)
	}
}

func TestFormat_MalformedPayloadDiscarded(t *testing.T) {
	t.Parallel()

	f := NewFormatter(nil)
	m := f.Format(PersonRecord{Email: "a@x.com", Name: "Alice", Data: "{not json"})

	if m.Extension != nil {
		t.Errorf("Extension = %+v; want nil for malformed payload", m.Extension)
	}
	if m.Name != "Alice" {
		t.Errorf("Name = %q; scalars must survive a malformed payload", m.Name)
	}
}

func TestFormat_PayloadWithoutResult(t *testing.T) {
	t.Parallel()

	f := NewFormatter(nil)
	m := f.Format(PersonRecord{Email: "a@x.com", Data: `{"something": "else"}`})

	if m.Extension != nil {
		t.Errorf("Extension = %+v; want nil when payload lacks result", m.Extension)
	}
}

func TestFormat_ExtensionLocationFallsBack(t *testing.T) {
	t.Parallel()

	f := NewFormatter(nil)

	m := f.Format(PersonRecord{
		Email:    "a@x.com",
		Location: "Austin",
		Data:     `{"result": {"bio": "hi"}}`,
	})
	if m.Extension == nil {
		t.Fatal("Extension = nil; want parsed extension")
	}
	if m.Extension.Location != "Austin" {
		t.Errorf("Extension.Location = %q; want record fallback %q", m.Extension.Location, "Austin")
	}

	m = f.Format(PersonRecord{
		Email:    "a@x.com",
		Location: "Austin",
		Data:     `{"result": {"location": "Remote"}}`,
	})
	if m.Extension.Location != "Remote" {
		t.Errorf("Extension.Location = %q; payload value must win", m.Extension.Location)
	}
}

func TestFormat_RawBytesPayload(t *testing.T) {
	t.Parallel()

	f := NewFormatter(nil)
	m := f.Format(PersonRecord{Email: "a@x.com", Data: []byte(`{"result": {"gender": "female"}}`)})

	if m.Extension == nil || m.Extension.Gender != "female" {
		t.Errorf("Extension = %+v; want gender parsed from []byte payload", m.Extension)
	}
}
