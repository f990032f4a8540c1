package pictures

import (
	"errors"
	"sync"

	"github.com/ayush/concert-capstone/internal/models"
)

var (
	ErrNotFound  = errors.New("picture not found")
	ErrDuplicate = errors.New("picture already exists")
)

// Store is the process-local picture list. Every check-and-mutate runs under
// one lock, so concurrent creates of the same id cannot both succeed.
type Store struct {
	mu       sync.RWMutex
	pictures []models.Picture
}

// NewStore copies initial into a new store. Later entries that repeat an id
// are dropped.
func NewStore(initial []models.Picture) *Store {
	s := &Store{pictures: make([]models.Picture, 0, len(initial))}
	seen := make(map[int]bool, len(initial))
	for _, p := range initial {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		s.pictures = append(s.pictures, p)
	}
	return s
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pictures)
}

// List returns a snapshot in insertion order.
func (s *Store) List() []models.Picture {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Picture, len(s.pictures))
	copy(out, s.pictures)
	return out
}

func (s *Store) Get(id int) (models.Picture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.pictures[i], nil
	}
	return models.Picture{}, ErrNotFound
}

// Create appends p unless its id is taken.
func (s *Store) Create(p models.Picture) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(p.ID) >= 0 {
		return ErrDuplicate
	}
	s.pictures = append(s.pictures, p)
	return nil
}

// Update merges f into the picture with the given id and returns the result.
func (s *Store) Update(id int, f models.PictureFields) (models.Picture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return models.Picture{}, ErrNotFound
	}
	s.pictures[i].Merge(f)
	return s.pictures[i], nil
}

func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.pictures = append(s.pictures[:i], s.pictures[i+1:]...)
	return nil
}

// index must be called with mu held.
func (s *Store) index(id int) int {
	for i := range s.pictures {
		if s.pictures[i].ID == id {
			return i
		}
	}
	return -1
}
