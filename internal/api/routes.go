package api

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the contact routes under the /api prefix. The
// static /birthdays route is registered alongside the :id routes; gin
// resolves static segments before parameters.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	apiGroup := router.Group("/api")

	contacts := apiGroup.Group("/contacts")
	{
		contacts.POST("", h.CreateContact)
		contacts.GET("", h.ListContacts)
		contacts.GET("/birthdays", h.UpcomingBirthdays)
		contacts.GET("/:id", h.GetContact)
		contacts.PUT("/:id", h.UpdateContact)
		contacts.DELETE("/:id", h.DeleteContact)
	}
}
