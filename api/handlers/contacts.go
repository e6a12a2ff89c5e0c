package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/models"
	"github.com/meghashyamc/whoisthat/services/contacts"
	"github.com/meghashyamc/whoisthat/validation"
)

type ContactRequest struct {
	FirstName   string   `json:"first_name" validate:"max=500"`
	LastName    string   `json:"last_name" validate:"max=500"`
	Emails      []string `json:"emails" validate:"max=20,dive,email"`
	Phones      []string `json:"phones" validate:"max=20"`
	JobTitle    string   `json:"job_title" validate:"max=500"`
	Company     string   `json:"company" validate:"max=500"`
	Description string   `json:"description" validate:"max=5000"`
	Website     string   `json:"website" validate:"max=1000"`
}

func (r *ContactRequest) toModel() *models.Contact {
	contact := &models.Contact{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Emails:      models.EmailList(r.Emails),
		Phones:      models.PhoneList(r.Phones),
		JobTitle:    r.JobTitle,
		Company:     r.Company,
		Description: r.Description,
		Website:     r.Website,
	}
	contact.Normalize()
	return contact
}

func SetupContacts(router *gin.Engine, logger logger.Logger, service *contacts.Service, validator *validation.Validator) {
	router.GET("/contacts/:id", handleGetContact(service, logger))
	router.POST("/contacts", handleCreateContact(service, logger, validator))
	router.PUT("/contacts/:id", handleUpdateContact(service, logger, validator))
	router.DELETE("/contacts/:id", handleDeleteContact(service, logger))
}

func handleGetContact(service *contacts.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		contactID := c.Param("id")

		contact, err := service.Get(c.Request.Context(), contactID)
		if err != nil {
			logger.Warn("could not fetch contact", "contact_id", contactID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, statusFromError(err), []string{err.Error()})
			return
		}

		writeResponse(c, contact, http.StatusOK, nil)
	}
}

func handleCreateContact(service *contacts.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := ContactRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract contact request body", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate contact request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		created, err := service.Create(c.Request.Context(), request.toModel())
		if err != nil {
			if errors.Is(err, contacts.ErrMissingName) {
				c.Abort()
				writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
				return
			}
			logger.Error("contact creation failed", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, statusFromError(err), []string{err.Error()})
			return
		}

		writeResponse(c, created, http.StatusCreated, nil)
	}
}

func handleUpdateContact(service *contacts.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		contactID := c.Param("id")

		request := ContactRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract contact request body", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate contact request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		updated, err := service.Update(c.Request.Context(), contactID, request.toModel())
		if err != nil {
			if errors.Is(err, contacts.ErrMissingName) {
				c.Abort()
				writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
				return
			}
			logger.Error("contact update failed", "contact_id", contactID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, statusFromError(err), []string{err.Error()})
			return
		}

		writeResponse(c, updated, http.StatusOK, nil)
	}
}

func handleDeleteContact(service *contacts.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		contactID := c.Param("id")

		if err := service.Delete(c.Request.Context(), contactID); err != nil {
			logger.Error("contact deletion failed", "contact_id", contactID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, statusFromError(err), []string{err.Error()})
			return
		}

		writeResponse(c, nil, http.StatusNoContent, nil)
	}
}
