package backend

import (
	"context"
	"fmt"

	"github.com/opencontacts/contacts-backend/internal/storage"
	"github.com/opencontacts/contacts-backend/internal/storage/memory"
	"github.com/opencontacts/contacts-backend/internal/storage/mongodb"
	"github.com/opencontacts/contacts-backend/pkg/config"
)

// Type defines the type of storage backend
type Type string

const (
	// TypeMemory uses in-memory storage (for testing/development)
	TypeMemory Type = "memory"
	// TypeMongoDB uses MongoDB storage (for production)
	TypeMongoDB Type = "mongodb"
)

// Backend wraps storage stores with a common interface for lifecycle management
type Backend interface {
	// Contacts returns the contact store
	Contacts() storage.ContactStore
	// Ping checks if the storage is alive
	Ping(ctx context.Context) error
	// Close closes the storage connection
	Close() error
}

// memoryBackend wraps the memory store to implement Backend
type memoryBackend struct {
	store *memory.Store
}

func (b *memoryBackend) Contacts() storage.ContactStore { return b.store.Contacts() }
func (b *memoryBackend) Ping(ctx context.Context) error { return b.store.Ping(ctx) }
func (b *memoryBackend) Close() error                   { return nil }

// mongoBackend wraps the MongoDB store to implement Backend
type mongoBackend struct {
	store *mongodb.Store
}

func (b *mongoBackend) Contacts() storage.ContactStore { return b.store.Contacts() }
func (b *mongoBackend) Ping(ctx context.Context) error { return b.store.Ping(ctx) }
func (b *mongoBackend) Close() error                   { return b.store.Close() }

// New creates a storage backend based on the configuration
func New(ctx context.Context, cfg *config.Config) (Backend, error) {
	storageType := Type(cfg.Storage.Type)

	switch storageType {
	case TypeMemory, "":
		// Default to memory if not specified
		store := memory.NewStore()
		return &memoryBackend{store: store}, nil

	case TypeMongoDB:
		store, err := mongodb.NewStore(ctx, &cfg.Storage.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to create MongoDB backend: %w", err)
		}
		return &mongoBackend{store: store}, nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
