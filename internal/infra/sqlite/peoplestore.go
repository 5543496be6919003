package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/matiasleandrokruk/rolodex/internal/domain/people"
)

// People and image tables. The query core never names tables directly; this
// store is the only place that binds predicates to SQL.
const (
	tablePeople = "people"
	tableImages = "person_images"
)

// predicateFields whitelists the columns a predicate may target. Predicates
// arrive from the predicate builder, but the interface is open, so the store
// refuses to interpolate anything else into SQL.
var predicateFields = map[string]bool{
	"email":    true,
	"name":     true,
	"company":  true,
	"title":    true,
	"location": true,
	"phone":    true,
}

// PersonStore implements people.Store over SQLite. All query-core access is
// read-only; the write helpers exist for the `rolodex add` command and tests.
type PersonStore struct {
	db *sql.DB
}

// NewPersonStore creates a PersonStore over an open database.
func NewPersonStore(db *sql.DB) *PersonStore {
	return &PersonStore{db: db}
}

// Search returns up to limit people matching every predicate as a
// case-insensitive substring. No predicates means an unfiltered listing.
// Rows come back ordered by email so results are reproducible.
func (s *PersonStore) Search(ctx context.Context, preds []people.Predicate, limit int) ([]people.PersonRecord, error) {
	var (
		where strings.Builder
		args  []any
	)
	for _, p := range preds {
		if !predicateFields[p.Field] {
			return nil, fmt.Errorf("search %s: unknown predicate field %q", tablePeople, p.Field)
		}
		if where.Len() == 0 {
			where.WriteString(" WHERE ")
		} else {
			where.WriteString(" AND ")
		}
		fmt.Fprintf(&where, "LOWER(COALESCE(%s, '')) LIKE ?", p.Field)
		args = append(args, p.Pattern)
	}
	args = append(args, limit)

	query := "SELECT email, name, phone, company, title, location, data FROM " +
		tablePeople + where.String() + " ORDER BY email LIMIT ?"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", tablePeople, err)
	}
	defer rows.Close()

	var out []people.PersonRecord
	for rows.Next() {
		rec, scanErr := scanPerson(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("search %s: %w", tablePeople, scanErr)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search %s: %w", tablePeople, err)
	}
	return out, nil
}

// PersonByEmail returns the single row keyed by email, or people.ErrNotFound.
func (s *PersonStore) PersonByEmail(ctx context.Context, email string) (*people.PersonRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT email, name, phone, company, title, location, data FROM "+tablePeople+" WHERE email = ?",
		email,
	)

	rec, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("person %q: %w", email, people.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get person %q: %w", email, err)
	}
	return &rec, nil
}

// ImageByEmail returns the image row keyed by email, or people.ErrNotFound.
func (s *PersonStore) ImageByEmail(ctx context.Context, email string) (*people.ImageRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT email, content, content_type FROM "+tableImages+" WHERE email = ?",
		email,
	)

	var img people.ImageRecord
	err := row.Scan(&img.Email, &img.Content, &img.ContentType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("image %q: %w", email, people.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get image %q: %w", email, err)
	}
	return &img, nil
}

// UpsertPerson inserts or replaces a person row. Used by `rolodex add`;
// never called from the query core.
func (s *PersonStore) UpsertPerson(ctx context.Context, rec people.PersonRecord) error {
	if rec.Email == "" {
		return fmt.Errorf("upsert person: email is required")
	}

	var data any
	if rec.Data != nil {
		raw, ok := dataText(rec.Data)
		if !ok {
			return fmt.Errorf("upsert person %q: data payload is not JSON-serializable", rec.Email)
		}
		data = raw
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO people (email, name, phone, company, title, location, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			company = excluded.company,
			title = excluded.title,
			location = excluded.location,
			data = excluded.data,
			updated_at = datetime('now')
	`,
		rec.Email,
		nullString(rec.Name),
		nullString(rec.Phone),
		nullString(rec.Company),
		nullString(rec.Title),
		nullString(rec.Location),
		data,
	)
	if err != nil {
		return fmt.Errorf("upsert person %q: %w", rec.Email, err)
	}
	return nil
}

// PutImage inserts or replaces the image associated with an email.
func (s *PersonStore) PutImage(ctx context.Context, img people.ImageRecord) error {
	if img.Email == "" || len(img.Content) == 0 {
		return fmt.Errorf("put image: email and content are required")
	}

	contentType := img.ContentType
	if contentType == "" {
		contentType = "image/png"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO person_images (email, content, content_type)
		VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			content = excluded.content,
			content_type = excluded.content_type
	`, img.Email, img.Content, contentType)
	if err != nil {
		return fmt.Errorf("put image %q: %w", img.Email, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(scan rowScanner) (people.PersonRecord, error) {
	var (
		rec                                    people.PersonRecord
		name, phone, company, title, loc, data sql.NullString
	)

	if err := scan.Scan(&rec.Email, &name, &phone, &company, &title, &loc, &data); err != nil {
		return people.PersonRecord{}, err
	}

	rec.Name = name.String
	rec.Phone = phone.String
	rec.Company = company.String
	rec.Title = title.String
	rec.Location = loc.String
	if data.Valid && data.String != "" {
		rec.Data = data.String
	}
	return rec, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// dataText reduces an arbitrary payload value to its stored text form.
func dataText(data any) (string, bool) {
	switch v := data.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(raw), true
	}
}
