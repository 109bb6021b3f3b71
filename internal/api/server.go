// Package api exposes the menu and session operations over HTTP with JSON
// payloads.
package api

import (
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sunghokim128/littlelemon/internal/menu"
	"github.com/sunghokim128/littlelemon/internal/models"
	"github.com/sunghokim128/littlelemon/internal/session"
)

// Server wires the menu controller and session manager to HTTP routes.
type Server struct {
	controller *menu.Controller
	session    *session.Manager
	imageBase  string
}

// NewServer creates the HTTP surface. imageBase is the remote base path
// item image filenames are resolved against; items are stored with bare
// filenames and resolved at response time.
func NewServer(controller *menu.Controller, sess *session.Manager, imageBase string) *Server {
	return &Server{
		controller: controller,
		session:    sess,
		imageBase:  strings.TrimSuffix(imageBase, "/"),
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	r.HandleFunc("/api/menu", s.handleMenu).Methods("GET")
	r.HandleFunc("/api/menu/refresh", s.handleRefresh).Methods("POST")

	r.HandleFunc("/api/onboard", s.handleOnboard).Methods("POST")
	r.HandleFunc("/api/profile", s.handleGetProfile).Methods("GET")
	r.HandleFunc("/api/profile", s.handlePutProfile).Methods("PUT")
	r.HandleFunc("/api/logout", s.handleLogout).Methods("POST")

	return r
}

// resolveImages returns sections with each item's image filename resolved
// against the image base path. Already-absolute URIs pass through untouched.
func (s *Server) resolveImages(sections []models.Section) []models.Section {
	if s.imageBase == "" {
		return sections
	}
	out := make([]models.Section, len(sections))
	for i, section := range sections {
		items := make([]models.MenuItem, len(section.Items))
		for j, item := range section.Items {
			if item.Image != "" && !strings.Contains(item.Image, "://") {
				item.Image = s.imageBase + "/" + item.Image
			}
			items[j] = item
		}
		out[i] = models.Section{Title: section.Title, Items: items}
	}
	return out
}
