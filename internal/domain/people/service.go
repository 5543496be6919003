package people

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Service runs the person-query pipeline against a read-only Store:
// extract → build predicates → query → format → render. Every method is
// stateless per call; nothing is cached between invocations.
type Service struct {
	store     Store
	formatter *Formatter
	logger    *slog.Logger
}

// NewService creates a Service over store. A nil logger falls back to
// slog.Default.
func NewService(store Store, lg *slog.Logger) *Service {
	if lg == nil {
		lg = slog.Default()
	}
	return &Service{
		store:     store,
		formatter: NewFormatter(lg),
		logger:    lg,
	}
}

// SearchPeople runs the full natural-language pipeline for a free-text
// query. Image-vocabulary queries are redirected: if the query itself
// carries an email, the image lookup runs directly; otherwise a fixed
// guidance sentence is returned.
func (s *Service) SearchPeople(ctx context.Context, query string, limit int) (string, error) {
	extraction := Extract(query)

	if intent := extraction.Image; intent != nil {
		if email := matchEmail(intent.Query); email != "" {
			return s.ImageLookup(ctx, email)
		}
		return "Image lookups need an email address. Use the search_by_image tool with the person's email.", nil
	}

	preds := BuildPredicates(extraction.Terms)
	s.logger.Info("searching people", "query", query, "predicates", len(preds), "limit", limit)

	records, err := s.store.Search(ctx, preds, limit)
	if err != nil {
		return "", fmt.Errorf("search people: %w", err)
	}

	return RenderSummary(s.formatModels(records)), nil
}

// PersonDetails renders the full labeled report for the person keyed by
// email. A missing record is a rendered outcome, not an error.
func (s *Service) PersonDetails(ctx context.Context, email string) (string, error) {
	rec, err := s.store.PersonByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return fmt.Sprintf("No person found with email: %s", email), nil
	}
	if err != nil {
		return "", fmt.Errorf("get person %q: %w", email, err)
	}

	return RenderDetail(s.formatter.Format(*rec)), nil
}

// ImageLookup reports on the stored image for email, then looks up the
// associated person record. The image lookup completes before the person
// lookup starts; either absence is a rendered outcome.
func (s *Service) ImageLookup(ctx context.Context, email string) (string, error) {
	img, err := s.store.ImageByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return fmt.Sprintf("No image found for email: %s", email), nil
	}
	if err != nil {
		return "", fmt.Errorf("get image %q: %w", email, err)
	}

	header := fmt.Sprintf("Image on file for %s (%d bytes, %s).", email, len(img.Content), img.ContentType)

	rec, err := s.store.PersonByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return header + " No person record is associated with this email.", nil
	}
	if err != nil {
		return "", fmt.Errorf("get person %q: %w", email, err)
	}

	return header + "\n\n" + RenderDetail(s.formatter.Format(*rec)), nil
}

// ListAll renders an unfiltered directory listing bounded by limit.
func (s *Service) ListAll(ctx context.Context, limit int) (string, error) {
	records, err := s.store.Search(ctx, nil, limit)
	if err != nil {
		return "", fmt.Errorf("list people: %w", err)
	}

	return RenderListing(s.formatModels(records)), nil
}

func (s *Service) formatModels(records []PersonRecord) []PresentationModel {
	models := make([]PresentationModel, len(records))
	for i, rec := range records {
		models[i] = s.formatter.Format(rec)
	}
	return models
}
