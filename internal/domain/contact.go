package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContactID represents a unique contact identifier
type ContactID string

// NewContactID creates a new contact ID
func NewContactID() ContactID {
	return ContactID(uuid.New().String())
}

// ParseContactID parses a string into a ContactID, rejecting malformed values
func ParseContactID(s string) (ContactID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid contact id %q: %w", s, err)
	}
	return ContactID(id.String()), nil
}

// String returns the string representation
func (id ContactID) String() string {
	return string(id)
}

// Contact represents a contact record
type Contact struct {
	ID        ContactID `json:"id" bson:"_id"`
	FirstName string    `json:"first_name" bson:"first_name"`
	LastName  string    `json:"last_name" bson:"last_name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Birthday  *Date     `json:"birthday,omitempty" bson:"birthday,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// FullName returns the contact's display name
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ContactCreate represents a contact creation request
type ContactCreate struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Birthday  *Date  `json:"birthday"`
}

// NewContact builds a Contact from a creation request. Timestamps are
// assigned by the storage layer.
func (r *ContactCreate) NewContact() *Contact {
	return &Contact{
		ID:        NewContactID(),
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Birthday:  r.Birthday,
	}
}

// ContactUpdate represents a partial contact update. Only non-nil fields
// are applied.
type ContactUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
	Birthday  *Date   `json:"birthday,omitempty"`
}

// Apply copies the provided fields onto the contact
func (r *ContactUpdate) Apply(c *Contact) {
	if r.FirstName != nil {
		c.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		c.LastName = *r.LastName
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	if r.Birthday != nil {
		c.Birthday = r.Birthday
	}
}

// UpcomingBirthday pairs a contact with its next birthday occurrence
type UpcomingBirthday struct {
	Contact      *Contact `json:"contact"`
	NextBirthday Date     `json:"next_birthday"`
	DaysUntil    int      `json:"days_until"`
}

// NextBirthday returns the next occurrence of birthday on or after from,
// as a UTC calendar date. A Feb 29 birthday falls on Feb 28 in non-leap
// years.
func NextBirthday(birthday, from time.Time) time.Time {
	today := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)

	next := birthdayInYear(today.Year(), birthday.Month(), birthday.Day())
	if next.Before(today) {
		next = birthdayInYear(today.Year()+1, birthday.Month(), birthday.Day())
	}
	return next
}

func birthdayInYear(year int, month time.Month, day int) time.Time {
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
