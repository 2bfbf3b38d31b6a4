package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/opencontacts/contacts-backend/internal/domain"
	"github.com/opencontacts/contacts-backend/internal/storage"
)

// ContactStore implements MongoDB contact storage
type ContactStore struct {
	collection *mongo.Collection
}

// dbErr wraps a driver failure so callers can match storage.ErrDatabase
func dbErr(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %v", storage.ErrDatabase, op, err)
}

func (s *ContactStore) Create(ctx context.Context, contact *domain.Contact) error {
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = time.Now()

	_, err := s.collection.InsertOne(ctx, contact)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrAlreadyExists
		}
		return dbErr("create contact", err)
	}
	return nil
}

func (s *ContactStore) GetByID(ctx context.Context, id domain.ContactID) (*domain.Contact, error) {
	var contact domain.Contact
	err := s.collection.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&contact)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, storage.ErrNotFound
		}
		return nil, dbErr("get contact", err)
	}
	return &contact, nil
}

func (s *ContactStore) List(ctx context.Context, filter storage.ContactFilter) ([]*domain.Contact, error) {
	query := buildQuery(filter)

	opts := options.Find().
		SetSort(bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}}).
		SetCollation(&caseInsensitive)
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, dbErr("list contacts", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	contacts := make([]*domain.Contact, 0)
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, dbErr("decode contacts", err)
	}
	return contacts, nil
}

func (s *ContactStore) Update(ctx context.Context, contact *domain.Contact) error {
	contact.UpdatedAt = time.Now()

	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": string(contact.ID)}, contact)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrAlreadyExists
		}
		return dbErr("update contact", err)
	}
	if result.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *ContactStore) Delete(ctx context.Context, id domain.ContactID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return dbErr("delete contact", err)
	}
	if result.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// buildQuery translates a ContactFilter into a MongoDB filter document.
// A general query becomes an $or across the searchable fields; explicit
// field filters combine implicitly with AND.
func buildQuery(filter storage.ContactFilter) bson.M {
	if filter.Query != "" {
		re := substringRegex(filter.Query)
		return bson.M{"$or": []bson.M{
			{"first_name": re},
			{"last_name": re},
			{"email": re},
		}}
	}

	query := bson.M{}
	if filter.FirstName != "" {
		query["first_name"] = substringRegex(filter.FirstName)
	}
	if filter.LastName != "" {
		query["last_name"] = substringRegex(filter.LastName)
	}
	if filter.Email != "" {
		query["email"] = substringRegex(filter.Email)
	}
	return query
}

func substringRegex(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}
