package storage

import (
	"context"
	"errors"

	"github.com/opencontacts/contacts-backend/internal/domain"
)

// Common errors. ErrDatabase wraps driver-level failures so callers can
// distinguish them from domain outcomes like ErrNotFound.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrDatabase      = errors.New("database error")
)

// ContactFilter narrows a contact listing. Query applies OR semantics
// across first name, last name and email; the explicit fields apply AND
// semantics. All matches are case-insensitive substring matches. When
// Query is set, the explicit fields are ignored.
type ContactFilter struct {
	Query     string
	FirstName string
	LastName  string
	Email     string

	Limit  int
	Offset int
}

// ContactStore defines the interface for contact storage operations
type ContactStore interface {
	// Create creates a new contact
	Create(ctx context.Context, contact *domain.Contact) error

	// GetByID retrieves a contact by ID
	GetByID(ctx context.Context, id domain.ContactID) (*domain.Contact, error)

	// List retrieves contacts matching the filter, ordered by last then
	// first name
	List(ctx context.Context, filter ContactFilter) ([]*domain.Contact, error)

	// Update updates a contact
	Update(ctx context.Context, contact *domain.Contact) error

	// Delete deletes a contact
	Delete(ctx context.Context, id domain.ContactID) error
}

// Store aggregates all storage interfaces
type Store interface {
	Contacts() ContactStore

	// Close closes the storage connection
	Close() error

	// Ping checks if the storage is alive
	Ping(ctx context.Context) error
}
