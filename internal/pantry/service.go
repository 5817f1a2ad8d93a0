package pantry

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/ingredient"
)

var (
	// ErrInvalidName is returned for blank ingredient names
	ErrInvalidName = errors.New("ingredient name is required")

	// ErrInvalidQuantity is returned for negative quantities
	ErrInvalidQuantity = errors.New("quantity must not be negative")
)

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service manages the fridge contents
type Service struct {
	db         DB
	threshold  float64
	timeSource TimeSource

	// serializes read-modify-write updates from handlers and workers
	mu sync.Mutex
}

// NewService creates a new Service. threshold is the minimum similarity for an
// added name to be merged into a differently spelled existing item; 1.0 merges
// exact (case-insensitive) matches only.
func NewService(db DB, threshold float64) *Service {
	return NewServiceWithDeps(db, threshold, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with a custom time source for testing
func NewServiceWithDeps(db DB, threshold float64, timeSrc TimeSource) *Service {
	return &Service{
		db:         db,
		threshold:  threshold,
		timeSource: timeSrc,
	}
}

// List returns all items, most recently added first
func (s *Service) List() ([]*Item, error) {
	items, err := s.db.ListItems()
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return items, nil
}

// Names returns the display names of all items
func (s *Service) Names() ([]string, error) {
	items, err := s.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names, nil
}

// Count returns the number of distinct items
func (s *Service) Count() (int, error) {
	n, err := s.db.CountItems()
	if err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return n, nil
}

// Add records one more of the named ingredient. A matching item has its
// quantity incremented and its added date reset; otherwise a new item is
// created with quantity 1.
func (s *Service) Add(name string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(name)
}

// AddAll adds every name in order, stopping at the first storage failure.
// Blank names are skipped.
func (s *Service) AddAll(names []string) ([]*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]*Item, 0, len(names))
	for _, name := range names {
		item, err := s.add(name)
		if errors.Is(err, ErrInvalidName) {
			continue
		}
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) add(name string) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	now := s.timeSource.Now()

	item, err := s.find(name)
	if err != nil {
		return nil, err
	}
	if item == nil {
		item = &Item{Name: name}
	}
	item.Quantity++
	item.AddedDate = now

	if err := s.db.SaveItem(item); err != nil {
		return nil, fmt.Errorf("saving item: %w", err)
	}
	return item, nil
}

// find returns the existing item for name, or nil if there is none
func (s *Service) find(name string) (*Item, error) {
	item, err := s.db.GetItem(name)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	if s.threshold >= 1 {
		return nil, nil
	}

	items, err := s.db.ListItems()
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	normalized := ingredient.Normalize(name)
	var best *Item
	bestScore := -1.0
	for _, candidate := range items {
		if score := similarity(normalized, ingredient.Normalize(candidate.Name)); score > bestScore {
			best, bestScore = candidate, score
		}
	}
	if best != nil && bestScore >= s.threshold {
		return best, nil
	}
	return nil, nil
}

// SetQuantity sets the quantity of an item, creating it if needed
func (s *Service) SetQuantity(name string, quantity int) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.db.GetItem(name)
	if errors.Is(err, ErrNotFound) {
		item = &Item{Name: name}
	} else if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.Quantity = quantity
	item.AddedDate = s.timeSource.Now()

	if err := s.db.SaveItem(item); err != nil {
		return nil, fmt.Errorf("saving item: %w", err)
	}
	return item, nil
}

// Delete removes an item
func (s *Service) Delete(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteItem(name); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// similarity returns a score between 0 and 1 from the Levenshtein distance
// relative to the longer string.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}
