package api

import (
	"errors"
	"log"
	"net/http"

	"go-jobtrack/internal/database"
	"go-jobtrack/internal/tracker"

	"github.com/gin-gonic/gin"
)

// Server is the presentation boundary: a JSON surface over the controllers.
type Server struct {
	engine  *gin.Engine
	tracker *tracker.Tracker
}

func New(t *tracker.Tracker) *Server {
	s := &Server{
		engine:  gin.Default(),
		tracker: t,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "JobTrack API is running!",
			"status":  "healthy",
		})
	})

	api := s.engine.Group("/api")

	api.GET("/applications", s.listApplications)
	api.POST("/applications", s.createApplication)
	api.PUT("/applications/:id", s.updateApplication)
	api.DELETE("/applications/:id", s.deleteApplication)
	api.GET("/stats", s.stats)

	api.GET("/applications/:id/contacts", s.listContacts)
	api.POST("/applications/:id/contacts", s.createContact)
	api.PUT("/applications/:id/contacts/:cid", s.updateContact)
	api.DELETE("/applications/:id/contacts/:cid", s.deleteContact)

	api.GET("/applications/:id/reminders", s.listReminders)
	api.POST("/applications/:id/reminders", s.createReminder)
	api.PUT("/applications/:id/reminders/:rid", s.updateReminder)
	api.DELETE("/applications/:id/reminders/:rid", s.deleteReminder)
	api.POST("/applications/:id/reminders/:rid/toggle", s.toggleReminder)

	api.GET("/applications/:id/research", s.getResearch)
	api.PUT("/applications/:id/research", s.saveResearch)
}

func (s *Server) Run(addr string) error {
	log.Printf("Server listening on %s", addr)
	return s.engine.Run(addr)
}

// ServeHTTP makes the server usable with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// fail maps controller errors onto status codes: validation 400, missing
// rows 404, anything else is a store failure surfaced as 502 instead of
// being swallowed.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tracker.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "store error"})
	}
}
