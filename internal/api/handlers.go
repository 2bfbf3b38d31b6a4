// Package api provides HTTP API handlers for the contacts backend.
package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/opencontacts/contacts-backend/internal/domain"
	"github.com/opencontacts/contacts-backend/internal/service"
	"github.com/opencontacts/contacts-backend/internal/storage"
	"github.com/opencontacts/contacts-backend/pkg/config"
)

// HealthResponse is the response from the /health endpoint. Status is a
// static liveness signal; it never reflects downstream state.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Handlers aggregates all HTTP handlers
type Handlers struct {
	services *service.Services
	cfg      *config.Config
	logger   *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services *service.Services, cfg *config.Config, logger *zap.Logger) *Handlers {
	return &Handlers{
		services: services,
		cfg:      cfg,
		logger:   logger.Named("handlers"),
	}
}

// Health handles the /health endpoint
//
//	@Summary	Liveness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	api.HealthResponse
//	@Router		/health [get]
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(200, HealthResponse{
		Status:  "healthy",
		Version: h.cfg.App.Version,
	})
}

// listContactsQuery carries the search parameters. q applies OR semantics
// across first_name, last_name and email; the field parameters apply AND
// semantics.
type listContactsQuery struct {
	Query     string `form:"q"`
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Email     string `form:"email"`
	Limit     int    `form:"limit,default=50" binding:"min=1,max=500"`
	Offset    int    `form:"offset" binding:"min=0"`
}

type birthdaysQuery struct {
	Days int `form:"days,default=7" binding:"min=1,max=366"`
}

// CreateContact creates a new contact
//
//	@Summary	Create a contact
//	@Tags		contacts
//	@Accept		json
//	@Produce	json
//	@Param		contact	body		domain.ContactCreate	true	"Contact to create"
//	@Success	201		{object}	domain.Contact
//	@Failure	400		{object}	map[string]string
//	@Failure	409		{object}	map[string]string
//	@Router		/api/contacts [post]
func (h *Handlers) CreateContact(c *gin.Context) {
	var req domain.ContactCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	contact, err := h.services.Contact.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			c.JSON(409, gin.H{"error": "A contact with this email already exists"})
			return
		}
		h.logger.Error("Failed to create contact", zap.Error(err))
		c.JSON(500, gin.H{"error": "Failed to create contact"})
		return
	}

	c.JSON(201, contact)
}

// ListContacts lists contacts, optionally filtered
//
//	@Summary	List and search contacts
//	@Tags		contacts
//	@Produce	json
//	@Param		q			query		string	false	"General search (OR across first_name, last_name, email)"
//	@Param		first_name	query		string	false	"First name filter (AND)"
//	@Param		last_name	query		string	false	"Last name filter (AND)"
//	@Param		email		query		string	false	"Email filter (AND)"
//	@Param		limit		query		int		false	"Page size"	default(50)
//	@Param		offset		query		int		false	"Page offset"
//	@Success	200			{array}		domain.Contact
//	@Failure	400			{object}	map[string]string
//	@Router		/api/contacts [get]
func (h *Handlers) ListContacts(c *gin.Context) {
	var query listContactsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	contacts, err := h.services.Contact.List(c.Request.Context(), storage.ContactFilter{
		Query:     query.Query,
		FirstName: query.FirstName,
		LastName:  query.LastName,
		Email:     query.Email,
		Limit:     query.Limit,
		Offset:    query.Offset,
	})
	if err != nil {
		h.logger.Error("Failed to list contacts", zap.Error(err))
		c.JSON(500, gin.H{"error": "Failed to list contacts"})
		return
	}

	c.JSON(200, contacts)
}

// UpcomingBirthdays lists contacts with birthdays in the coming days
//
//	@Summary	Contacts with upcoming birthdays
//	@Tags		contacts
//	@Produce	json
//	@Param		days	query		int	false	"Lookahead window in days"	default(7)
//	@Success	200		{array}		domain.UpcomingBirthday
//	@Failure	400		{object}	map[string]string
//	@Router		/api/contacts/birthdays [get]
func (h *Handlers) UpcomingBirthdays(c *gin.Context) {
	var query birthdaysQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	upcoming, err := h.services.Contact.UpcomingBirthdays(c.Request.Context(), query.Days)
	if err != nil {
		h.logger.Error("Failed to compute upcoming birthdays", zap.Error(err))
		c.JSON(500, gin.H{"error": "Failed to compute upcoming birthdays"})
		return
	}

	c.JSON(200, upcoming)
}

// GetContact retrieves a single contact
//
//	@Summary	Get a contact
//	@Tags		contacts
//	@Produce	json
//	@Param		id	path		string	true	"Contact ID"
//	@Success	200	{object}	domain.Contact
//	@Failure	400	{object}	map[string]string
//	@Failure	404	{object}	map[string]string
//	@Router		/api/contacts/{id} [get]
func (h *Handlers) GetContact(c *gin.Context) {
	id, err := domain.ParseContactID(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid contact id"})
		return
	}

	contact, err := h.services.Contact.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Contact not found"})
			return
		}
		h.logger.Error("Failed to get contact", zap.Error(err))
		c.JSON(500, gin.H{"error": "Failed to get contact"})
		return
	}

	c.JSON(200, contact)
}

// UpdateContact applies a partial update to a contact
//
//	@Summary	Update a contact
//	@Tags		contacts
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Contact ID"
//	@Param		contact	body		domain.ContactUpdate	true	"Fields to change"
//	@Success	200		{object}	domain.Contact
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Failure	409		{object}	map[string]string
//	@Router		/api/contacts/{id} [put]
func (h *Handlers) UpdateContact(c *gin.Context) {
	id, err := domain.ParseContactID(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid contact id"})
		return
	}

	var req domain.ContactUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	contact, err := h.services.Contact.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			c.JSON(404, gin.H{"error": "Contact not found"})
		case errors.Is(err, storage.ErrAlreadyExists):
			c.JSON(409, gin.H{"error": "A contact with this email already exists"})
		default:
			h.logger.Error("Failed to update contact", zap.Error(err))
			c.JSON(500, gin.H{"error": "Failed to update contact"})
		}
		return
	}

	c.JSON(200, contact)
}

// DeleteContact deletes a contact
//
//	@Summary	Delete a contact
//	@Tags		contacts
//	@Param		id	path	string	true	"Contact ID"
//	@Success	204
//	@Failure	400	{object}	map[string]string
//	@Failure	404	{object}	map[string]string
//	@Router		/api/contacts/{id} [delete]
func (h *Handlers) DeleteContact(c *gin.Context) {
	id, err := domain.ParseContactID(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid contact id"})
		return
	}

	if err := h.services.Contact.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Contact not found"})
			return
		}
		h.logger.Error("Failed to delete contact", zap.Error(err))
		c.JSON(500, gin.H{"error": "Failed to delete contact"})
		return
	}

	c.Status(204)
}
