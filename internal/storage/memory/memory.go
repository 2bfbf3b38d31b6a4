package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/opencontacts/contacts-backend/internal/domain"
	"github.com/opencontacts/contacts-backend/internal/storage"
)

// Store implements an in-memory storage
type Store struct {
	contacts *ContactStore
}

// NewStore creates a new in-memory store
func NewStore() *Store {
	return &Store{
		contacts: &ContactStore{data: make(map[domain.ContactID]*domain.Contact)},
	}
}

func (s *Store) Contacts() storage.ContactStore { return s.contacts }
func (s *Store) Close() error                   { return nil }
func (s *Store) Ping(ctx context.Context) error { return nil }

// ContactStore implements in-memory contact storage. The map never
// shares pointers with callers; every read hands out a copy and every
// write stores one, so a rejected update cannot leave partial state and
// callers cannot mutate records outside the lock.
type ContactStore struct {
	mu   sync.RWMutex
	data map[domain.ContactID]*domain.Contact
}

func clone(c *domain.Contact) *domain.Contact {
	cp := *c
	if c.Birthday != nil {
		b := *c.Birthday
		cp.Birthday = &b
	}
	return &cp
}

func (s *ContactStore) Create(ctx context.Context, contact *domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[contact.ID]; exists {
		return storage.ErrAlreadyExists
	}
	for _, existing := range s.data {
		if strings.EqualFold(existing.Email, contact.Email) {
			return storage.ErrAlreadyExists
		}
	}

	contact.CreatedAt = time.Now()
	contact.UpdatedAt = time.Now()
	s.data[contact.ID] = clone(contact)
	return nil
}

func (s *ContactStore) GetByID(ctx context.Context, id domain.ContactID) (*domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contact, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return clone(contact), nil
}

func (s *ContactStore) List(ctx context.Context, filter storage.ContactFilter) ([]*domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contacts := make([]*domain.Contact, 0)
	for _, contact := range s.data {
		if matches(contact, filter) {
			contacts = append(contacts, clone(contact))
		}
	}

	sort.Slice(contacts, func(i, j int) bool {
		li, lj := strings.ToLower(contacts[i].LastName), strings.ToLower(contacts[j].LastName)
		if li != lj {
			return li < lj
		}
		return strings.ToLower(contacts[i].FirstName) < strings.ToLower(contacts[j].FirstName)
	})

	return paginate(contacts, filter.Offset, filter.Limit), nil
}

func (s *ContactStore) Update(ctx context.Context, contact *domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[contact.ID]; !exists {
		return storage.ErrNotFound
	}
	for id, existing := range s.data {
		if id != contact.ID && strings.EqualFold(existing.Email, contact.Email) {
			return storage.ErrAlreadyExists
		}
	}

	contact.UpdatedAt = time.Now()
	s.data[contact.ID] = clone(contact)
	return nil
}

func (s *ContactStore) Delete(ctx context.Context, id domain.ContactID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[id]; !exists {
		return storage.ErrNotFound
	}

	delete(s.data, id)
	return nil
}

// matches applies the filter semantics: a general query is an OR across
// name and email fields, explicit field filters are an AND.
func matches(contact *domain.Contact, filter storage.ContactFilter) bool {
	if filter.Query != "" {
		q := strings.ToLower(filter.Query)
		return strings.Contains(strings.ToLower(contact.FirstName), q) ||
			strings.Contains(strings.ToLower(contact.LastName), q) ||
			strings.Contains(strings.ToLower(contact.Email), q)
	}

	if filter.FirstName != "" && !strings.Contains(strings.ToLower(contact.FirstName), strings.ToLower(filter.FirstName)) {
		return false
	}
	if filter.LastName != "" && !strings.Contains(strings.ToLower(contact.LastName), strings.ToLower(filter.LastName)) {
		return false
	}
	if filter.Email != "" && !strings.Contains(strings.ToLower(contact.Email), strings.ToLower(filter.Email)) {
		return false
	}
	return true
}

func paginate(contacts []*domain.Contact, offset, limit int) []*domain.Contact {
	if offset > 0 {
		if offset >= len(contacts) {
			return []*domain.Contact{}
		}
		contacts = contacts[offset:]
	}
	if limit > 0 && limit < len(contacts) {
		contacts = contacts[:limit]
	}
	return contacts
}
