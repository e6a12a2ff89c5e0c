package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meghashyamc/whoisthat/config"
	"github.com/meghashyamc/whoisthat/dex"
	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/services/contacts"
	"github.com/meghashyamc/whoisthat/services/discovery"
	"github.com/meghashyamc/whoisthat/services/notes"
	"github.com/meghashyamc/whoisthat/services/reminders"
	"github.com/meghashyamc/whoisthat/services/search"
	"github.com/meghashyamc/whoisthat/validation"
)

type server struct {
	router     *gin.Engine
	httpServer *http.Server
	cfg        *config.Config
	validator  *validation.Validator
	logger     logger.Logger

	searchService    *search.Service
	discoveryService *discovery.Service
	contactService   *contacts.Service
	noteService      *notes.Service
	reminderService  *reminders.Service
}

func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)

	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(),
	}
	if err := s.setupDependencies(); err != nil {
		return err
	}
	s.setupRouter()
	s.setupHTTPServer()
	s.setupGracefulShutdown(ctx)

	return nil
}

func (s *server) setupDependencies() error {
	var err error
	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}

	client := dex.New(s.cfg.GetDexAPIURL(), s.cfg.GetDexAPIKey(), s.cfg.GetRequestTimeout(), s.logger)
	ttl := s.cfg.GetCacheTTL()

	s.searchService = search.New(s.logger, client, ttl)
	s.discoveryService = discovery.New(s.logger, client, ttl)

	// Every write to Dex goes stale in both caches.
	s.contactService = contacts.New(s.logger, client, s.searchService, s.discoveryService)
	s.noteService = notes.New(s.logger, client, s.searchService, s.discoveryService)
	s.reminderService = reminders.New(s.logger, client, s.searchService, s.discoveryService)

	return nil
}

func (s *server) setupRouter() {
	router := newRouter()

	router.Use(loggingMiddleware(s.logger))

	s.setupRoutes(router)

	s.router = router
}

func (s *server) setupHTTPServer() {

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}
	s.httpServer = httpServer
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
}

func (s *server) setupGracefulShutdown(ctx context.Context) {

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		s.logger.Info("starting to shut down http server")
		shutdownCtx := context.Background()
		shutdownCtx, cancel := context.WithTimeout(shutdownCtx, 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error shutting down http server", "err", err)
			return
		}
		s.logger.Info("shut down http server successfully")
	}()

	wg.Wait()
}
