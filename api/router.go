package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meghashyamc/whoisthat/api/handlers"
)

func (s *server) setupRoutes(router *gin.Engine) {
	router.GET("/health", health())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.SetupSearch(router, s.logger, s.searchService, s.validator)
	handlers.SetupDiscovery(router, s.logger, s.discoveryService, s.validator)
	handlers.SetupContacts(router, s.logger, s.contactService, s.validator)
	handlers.SetupNotes(router, s.logger, s.noteService, s.validator)
	handlers.SetupReminders(router, s.logger, s.reminderService, s.validator)
}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.Default()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())

	return router
}
