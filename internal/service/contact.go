package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/opencontacts/contacts-backend/internal/domain"
	"github.com/opencontacts/contacts-backend/internal/storage"
)

// DefaultBirthdayWindowDays is the upcoming-birthday lookahead when the
// caller does not specify one.
const DefaultBirthdayWindowDays = 7

// MaxBirthdayWindowDays caps the lookahead at one (leap) year.
const MaxBirthdayWindowDays = 366

// ContactService provides contact management operations
type ContactService struct {
	store  storage.Store
	logger *zap.Logger

	// now is swappable in tests
	now func() time.Time
}

// NewContactService creates a new contact service
func NewContactService(store storage.Store, logger *zap.Logger) *ContactService {
	return &ContactService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Create creates a new contact
func (s *ContactService) Create(ctx context.Context, req *domain.ContactCreate) (*domain.Contact, error) {
	contact := req.NewContact()

	if err := s.store.Contacts().Create(ctx, contact); err != nil {
		s.logger.Error("Failed to create contact",
			zap.String("email", req.Email),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Created contact",
		zap.String("contact_id", contact.ID.String()),
		zap.String("name", contact.FullName()))

	return contact, nil
}

// GetByID retrieves a contact by ID
func (s *ContactService) GetByID(ctx context.Context, id domain.ContactID) (*domain.Contact, error) {
	return s.store.Contacts().GetByID(ctx, id)
}

// List retrieves contacts matching the filter
func (s *ContactService) List(ctx context.Context, filter storage.ContactFilter) ([]*domain.Contact, error) {
	return s.store.Contacts().List(ctx, filter)
}

// Update applies a partial update to a contact
func (s *ContactService) Update(ctx context.Context, id domain.ContactID, req *domain.ContactUpdate) (*domain.Contact, error) {
	contact, err := s.store.Contacts().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(contact)

	if err := s.store.Contacts().Update(ctx, contact); err != nil {
		s.logger.Error("Failed to update contact",
			zap.String("contact_id", id.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Updated contact", zap.String("contact_id", id.String()))
	return contact, nil
}

// Delete deletes a contact
func (s *ContactService) Delete(ctx context.Context, id domain.ContactID) error {
	if err := s.store.Contacts().Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete contact",
			zap.String("contact_id", id.String()),
			zap.Error(err))
		return err
	}

	s.logger.Info("Deleted contact", zap.String("contact_id", id.String()))
	return nil
}

// UpcomingBirthdays returns contacts whose next birthday falls within the
// given number of days, soonest first. Contacts without a birthday are
// skipped. The next occurrence rolls to next year once the date has
// passed, and Feb 29 birthdays fall on Feb 28 in non-leap years.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, days int) ([]*domain.UpcomingBirthday, error) {
	if days <= 0 {
		days = DefaultBirthdayWindowDays
	}
	if days > MaxBirthdayWindowDays {
		days = MaxBirthdayWindowDays
	}

	contacts, err := s.store.Contacts().List(ctx, storage.ContactFilter{})
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	upcoming := make([]*domain.UpcomingBirthday, 0)
	for _, contact := range contacts {
		if contact.Birthday == nil {
			continue
		}

		next := domain.NextBirthday(contact.Birthday.Time, today)
		daysUntil := int(next.Sub(today).Hours() / 24)
		if daysUntil > days {
			continue
		}

		upcoming = append(upcoming, &domain.UpcomingBirthday{
			Contact:      contact,
			NextBirthday: domain.DateOf(next),
			DaysUntil:    daysUntil,
		})
	}

	sort.Slice(upcoming, func(i, j int) bool {
		if upcoming[i].DaysUntil != upcoming[j].DaysUntil {
			return upcoming[i].DaysUntil < upcoming[j].DaysUntil
		}
		return upcoming[i].Contact.LastName < upcoming[j].Contact.LastName
	})

	return upcoming, nil
}
