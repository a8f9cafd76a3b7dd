package timer

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	domain "github.com/oshokin/nfc-timer/internal/domain/timer"
	"github.com/oshokin/nfc-timer/internal/logger"
)

//go:embed templates/activate.html
var templates embed.FS

// Service is the part of the timer state manager the transport depends on.
type Service interface {
	Arm(ctx context.Context) domain.Activation
	IsActive(ctx context.Context) bool
}

// activatePage is the data handed to the activation template.
type activatePage struct {
	// StartTime is HH:MM:SS.
	StartTime string
	// EndTimestamp is fractional epoch seconds.
	EndTimestamp float64
}

// Server implements the HTTP routes on top of a Service.
type Server struct {
	// service is the timer state manager.
	service Service
	// port is shown in the index banner.
	port int
	// location renders the start time, host local time by default.
	location *time.Location
	// page renders /activate.
	page *template.Template
}

// NewServer wires service into HTTP handlers. port is only used for the index banner.
func NewServer(service Service, port int, location *time.Location) (*Server, error) {
	page, err := template.ParseFS(templates, "templates/activate.html")
	if err != nil {
		return nil, fmt.Errorf("parse activate template: %w", err)
	}

	if location == nil {
		location = time.Local
	}

	return &Server{
		service:  service,
		port:     port,
		location: location,
		page:     page,
	}, nil
}

// Handler returns the routed handler with request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /activate", s.handleActivate)
	mux.HandleFunc("GET /status", s.handleStatus)

	return withRequestLogging(mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, fmt.Sprintf("NFC Server Ready on Port %d. Waiting for scan...", s.port))
}

// handleActivate arms the timer and renders the countdown page.
func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	activation := s.service.Arm(ctx)

	page := activatePage{
		StartTime:    activation.StartClock(s.location),
		EndTimestamp: activation.EndTimestamp(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	if err := s.page.Execute(w, page); err != nil {
		logger.ErrorKV(ctx, "Render activate page", "error", err)
	}
}

// handleStatus answers exactly ON or OFF.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	state := domain.State(s.service.IsActive(r.Context()))

	writeText(w, http.StatusOK, state.String())
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	_, _ = w.Write([]byte(body))
}
