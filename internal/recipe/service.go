package recipe

import (
	"context"
	"fmt"
	"log/slog"
)

// PantryLister provides the names of the ingredients on hand
type PantryLister interface {
	Names() ([]string, error)
}

// Service ranks recipes against the current pantry
type Service struct {
	pantry PantryLister
	source Source
}

// NewService creates a new Service. source may be nil when no recipe database
// is configured.
func NewService(pantry PantryLister, source Source) *Service {
	return &Service{pantry: pantry, source: source}
}

// Catalog ranks the built-in catalog against the pantry
func (s *Service) Catalog(ctx context.Context) ([]Ranked, error) {
	names, err := s.pantry.Names()
	if err != nil {
		return nil, fmt.Errorf("listing pantry: %w", err)
	}
	return ScoreCatalog(names, Catalog()), nil
}

// Suggestions ranks stored suggestions against the pantry. A failing recipe
// database is logged and treated as having no suggestions.
func (s *Service) Suggestions(ctx context.Context) ([]Ranked, error) {
	names, err := s.pantry.Names()
	if err != nil {
		return nil, fmt.Errorf("listing pantry: %w", err)
	}

	var suggested []Suggested
	if s.source != nil {
		suggested, err = s.source.ListSuggested(ctx)
		if err != nil {
			slog.Warn("Recipe database unavailable, returning no suggestions", "error", err)
			suggested = nil
		}
	}
	return ScoreSuggested(names, suggested), nil
}

// HasRecipes reports whether a recipe database with a recipes table is
// available. Errors are reported as false.
func (s *Service) HasRecipes(ctx context.Context) bool {
	if s.source == nil {
		return false
	}
	ok, err := s.source.HasRecipes(ctx)
	if err != nil {
		slog.Warn("Checking recipes table failed", "error", err)
		return false
	}
	return ok
}
