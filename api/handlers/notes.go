package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/models"
	"github.com/meghashyamc/whoisthat/services/notes"
	"github.com/meghashyamc/whoisthat/validation"
)

const defaultItemsPerContact = 50

type NoteRequest struct {
	Content string `json:"content" validate:"required,valid_query,max=50000"`
}

type ListItemsRequest struct {
	Limit  int `form:"limit" json:"limit" validate:"min=0,max=100"`
	Offset int `form:"offset" json:"offset" validate:"min=0"`
}

func (r *ListItemsRequest) setDefaults() {
	if r.Limit == 0 {
		r.Limit = defaultItemsPerContact
	}
}

func SetupNotes(router *gin.Engine, logger logger.Logger, service *notes.Service, validator *validation.Validator) {
	router.GET("/contacts/:id/notes", handleListNotes(service, logger, validator))
	router.POST("/contacts/:id/notes", handleCreateNote(service, logger, validator))
	router.PUT("/notes/:id", handleUpdateNote(service, logger, validator))
	router.DELETE("/notes/:id", handleDeleteNote(service, logger))
}

func handleListNotes(service *notes.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
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
			logger.Error("listing notes failed", "contact_id", contactID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, statusFromError(err), []string{err.Error()})
			return
		}

		writeResponse(c, found, http.StatusOK, nil)
	}
}

func handleCreateNote(service *notes.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		contactID := c.Param("id")

		request := NoteRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract note request body", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate note request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		note := &models.Note{ContactID: contactID, Content: request.Content}
		created, err := service.Create(c.Request.Context(), note)
		if err != nil {
			if errors.Is(err, notes.ErrEmptyContent) || errors.Is(err, notes.ErrMissingContactID) {
				c.Abort()
				writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
				return
			}
			logger.Error("note creation failed", "contact_id", contactID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, statusFromError(err), []string{err.Error()})
			return
		}

		writeResponse(c, created, http.StatusCreated, nil)
	}
}

func handleUpdateNote(service *notes.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		noteID := c.Param("id")

		request := NoteRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract note request body", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate note request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		updated, err := service.Update(c.Request.Context(), noteID, &models.Note{Content: request.Content})
		if err != nil {
			if errors.Is(err, notes.ErrEmptyContent) {
				c.Abort()
				writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
				return
			}
			logger.Error("note update failed", "note_id", noteID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, statusFromError(err), []string{err.Error()})
			return
		}

		writeResponse(c, updated, http.StatusOK, nil)
	}
}

func handleDeleteNote(service *notes.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		noteID := c.Param("id")

		if err := service.Delete(c.Request.Context(), noteID); err != nil {
			logger.Error("note deletion failed", "note_id", noteID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, statusFromError(err), []string{err.Error()})
			return
		}

		writeResponse(c, nil, http.StatusNoContent, nil)
	}
}
