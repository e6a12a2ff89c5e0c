package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/matching"
	"github.com/meghashyamc/whoisthat/services/discovery"
	"github.com/meghashyamc/whoisthat/validation"
)

type DiscoverRequest struct {
	Name          string `form:"name" json:"name" validate:"max=500"`
	Email         string `form:"email" json:"email" validate:"max=500"`
	Phone         string `form:"phone" json:"phone" validate:"max=100"`
	Company       string `form:"company" json:"company" validate:"max=500"`
	SocialURL     string `form:"social_url" json:"social_url" validate:"max=1000"`
	MaxResults    int    `form:"max_results" json:"max_results" validate:"min=0,max=100"`
	MinConfidence int    `form:"min_confidence" json:"min_confidence" validate:"valid_confidence"`
}

func (r *DiscoverRequest) setDefaults() {
	if r.MaxResults == 0 {
		r.MaxResults = discovery.DefaultMaxResults
	}

	if r.MinConfidence == 0 {
		r.MinConfidence = discovery.DefaultMinConfidence
	}
}

func (r *DiscoverRequest) hasIdentityHint() bool {
	return r.Name != "" || r.Email != "" || r.Phone != "" || r.SocialURL != ""
}

func SetupDiscovery(router *gin.Engine, logger logger.Logger, service *discovery.Service, validator *validation.Validator) {
	router.GET("/contacts/discover", handleDiscover(service, logger, validator))
}

func handleDiscover(service *discovery.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := DiscoverRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from discover request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}
		request.setDefaults()

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate discover request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		if !request.hasIdentityHint() {
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{"at least one of name, email, phone or social_url is required"})
			return
		}

		query := matching.ContactQuery{
			Name:      request.Name,
			Email:     request.Email,
			Phone:     request.Phone,
			Company:   request.Company,
			SocialURL: request.SocialURL,
		}

		matches, err := service.FindContact(c.Request.Context(), query, request.MaxResults, request.MinConfidence)
		if err != nil {
			logger.Error("contact discovery failed", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, statusFromError(err), []string{err.Error()})
			return
		}

		writeResponse(c, matches, http.StatusOK, nil)
	}
}
