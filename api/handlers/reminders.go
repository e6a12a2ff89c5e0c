package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/models"
	"github.com/meghashyamc/whoisthat/services/reminders"
	"github.com/meghashyamc/whoisthat/validation"
)

type ReminderRequest struct {
	Text      string `json:"text" validate:"required,valid_query,max=5000"`
	DueDate   string `json:"due_date" validate:"required"`
	Completed bool   `json:"completed"`
	Priority  string `json:"priority" validate:"max=50"`
}

func SetupReminders(router *gin.Engine, logger logger.Logger, service *reminders.Service, validator *validation.Validator) {
	router.GET("/contacts/:id/reminders", handleListReminders(service, logger, validator))
	router.POST("/contacts/:id/reminders", handleCreateReminder(service, logger, validator))
	router.PUT("/reminders/:id", handleUpdateReminder(service, logger, validator))
	router.DELETE("/reminders/:id", handleDeleteReminder(service, logger))
}

func handleListReminders(service *reminders.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		contactID := c.Param("id")

		request := ListItemsRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}
		request.setDefaults()

		if err := validator.Validate(request); err != nil {
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		found, err := service.ForContact(c.Request.Context(), contactID, request.Limit, request.Offset)
		if err != nil {
			logger.Error("listing reminders failed", "contact_id", contactID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, statusFromError(err), []string{err.Error()})
			return
		}

		writeResponse(c, found, http.StatusOK, nil)
	}
}

func handleCreateReminder(service *reminders.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		contactID := c.Param("id")

		request := ReminderRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract reminder request body", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate reminder request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		reminder := &models.Reminder{
			ContactID: contactID,
			Text:      request.Text,
			DueDate:   request.DueDate,
			Completed: request.Completed,
			Priority:  request.Priority,
		}
		created, err := service.Create(c.Request.Context(), reminder)
		if err != nil {
			if isReminderValidationError(err) {
				c.Abort()
				writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
				return
			}
			logger.Error("reminder creation failed", "contact_id", contactID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, statusFromError(err), []string{err.Error()})
			return
		}

		writeResponse(c, created, http.StatusCreated, nil)
	}
}

func handleUpdateReminder(service *reminders.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		reminderID := c.Param("id")

		request := ReminderRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract reminder request body", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate reminder request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		reminder := &models.Reminder{
			Text:      request.Text,
			DueDate:   request.DueDate,
			Completed: request.Completed,
			Priority:  request.Priority,
		}
		updated, err := service.Update(c.Request.Context(), reminderID, reminder)
		if err != nil {
			if isReminderValidationError(err) {
				c.Abort()
				writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
				return
			}
			logger.Error("reminder update failed", "reminder_id", reminderID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, statusFromError(err), []string{err.Error()})
			return
		}

		writeResponse(c, updated, http.StatusOK, nil)
	}
}

func handleDeleteReminder(service *reminders.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reminderID := c.Param("id")

		if err := service.Delete(c.Request.Context(), reminderID); err != nil {
			logger.Error("reminder deletion failed", "reminder_id", reminderID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, statusFromError(err), []string{err.Error()})
			return
		}

		writeResponse(c, nil, http.StatusNoContent, nil)
	}
}

func isReminderValidationError(err error) bool {
	return errors.Is(err, reminders.ErrEmptyText) ||
		errors.Is(err, reminders.ErrMissingContactID) ||
		errors.Is(err, reminders.ErrInvalidDueDate)
}
