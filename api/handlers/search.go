package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/services/search"
	"github.com/meghashyamc/whoisthat/validation"
)

type SearchRequest struct {
	Query         string `form:"query" json:"query" validate:"required,valid_query,min=1,max=1000"`
	MaxResults    int    `form:"max_results" json:"max_results" validate:"min=0,max=100"`
	MinConfidence int    `form:"min_confidence" json:"min_confidence" validate:"valid_confidence"`
}

func (r *SearchRequest) setDefaults() {
	if r.MaxResults == 0 {
		r.MaxResults = search.DefaultMaxResults
	}

	if r.MinConfidence == 0 {
		r.MinConfidence = search.DefaultMinConfidence
	}
}

func SetupSearch(router *gin.Engine, logger logger.Logger, service *search.Service, validator *validation.Validator) {
	router.GET("/search", handleSearch(service, logger, validator))
}

func handleSearch(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SearchRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}
		request.setDefaults()

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		results, err := service.Search(c.Request.Context(), request.Query, request.MaxResults, request.MinConfidence)
		if err != nil {
			logger.Error("search failed", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, statusFromError(err), []string{err.Error()})
			return
		}

		writeResponse(c, results, http.StatusOK, nil)
	}
}
