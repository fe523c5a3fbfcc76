package todo

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// NotFoundError is returned by Get, Update and Delete when no item matches
// the given id. Its message is the exact body the HTTP layer sends with 404.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Todo with id %s not found", e.ID)
}

// Store is the authoritative in-memory todo collection. One exclusive lock
// guards every operation for its full duration, so operations never
// interleave and callers always observe a fully-applied collection.
// Items keep insertion order.
type Store struct {
	mu    sync.Mutex
	todos []Todo
	newID func() string // injectable for deterministic tests
}

// NewStore creates an empty Store. Ids are random v4 UUIDs; uniqueness comes
// from the generator, the store does not check for collisions.
func NewStore() *Store {
	return &Store{newID: uuid.NewString}
}

// List returns a snapshot copy of all items in storage order.
func (s *Store) List() []Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// Get returns the item with the given id, or a NotFoundError.
func (s *Store) Get(id string) (Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.todos {
		if t.ID == id {
			return t, nil
		}
	}
	return Todo{}, &NotFoundError{ID: id}
}

// Create appends a new item with a fresh id, the given title and
// Completed=false, and returns it. Any title is accepted, including "".
func (s *Store) Create(title string) Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := Todo{
		ID:    s.newID(),
		Title: title,
	}
	s.todos = append(s.todos, t)
	return t
}

// Update replaces the title of the item with the given id in place and
// returns the updated item. Id and Completed are left unchanged.
func (s *Store) Update(id, title string) (Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos[i].Title = title
			return s.todos[i], nil
		}
	}
	return Todo{}, &NotFoundError{ID: id}
}

// Delete removes the item with the given id and returns it, or returns a
// NotFoundError.
func (s *Store) Delete(id string) (Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			removed := s.todos[i]
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			return removed, nil
		}
	}
	return Todo{}, &NotFoundError{ID: id}
}

// Count returns the number of items currently held.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.todos)
}
