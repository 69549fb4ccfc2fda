// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server serves the handoff web form. Each browser session collects
// its own ordered patient list and downloads it as the two-column PDF.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/pdiddy/handoff/internal/format"
	"github.com/pdiddy/handoff/internal/report"
	"github.com/pdiddy/handoff/internal/session"
	"github.com/pdiddy/handoff/pkg/types"
)

const (
	sessionCookie          = "handoff_session"
	defaultAddr            = ":8080"
	defaultShutdownTimeout = 10 * time.Second
)

//go:embed templates/index.html
var templateFS embed.FS

// Server handles form submissions and report downloads.
type Server struct {
	cfg   types.Config
	store *session.Store
	tmpl  *template.Template
	log   zerolog.Logger

	// reportMu serializes writing and reopening the artifact, so a session
	// never streams a shared file another session has just overwritten.
	reportMu    sync.Mutex
	writeReport func([]types.PatientRecord, types.LayoutConfig, report.Options, string) (report.Result, error)
}

// New returns a Server backed by store.
func New(cfg types.Config, store *session.Store, log zerolog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	return &Server{
		cfg:         cfg,
		store:       store,
		tmpl:        tmpl,
		log:         log,
		writeReport: report.WriteFile,
	}, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Get("/patients", s.handleListPatients)
	r.Post("/patients", s.handleAddPatient)
	r.Get("/report.pdf", s.handleReport)

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("Listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type indexData struct {
	Added       bool
	Fields      []formField
	Medications []formField
	Trailing    []formField
	Patients    []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Added:       r.URL.Query().Get("added") != "",
		Fields:      formFields,
		Medications: medicationFields(),
		Trailing:    trailingFields,
		Patients:    format.Blocks(s.records(r)),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.log.Error().Err(err).Msg("Failed to render form")
	}
}

func (s *Server) handleAddPatient(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	id := sessionID(r)
	if id == "" {
		id = session.NewID()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	n := s.store.Get(id).Add(parseRecord(r.PostForm))

	s.log.Debug().
		Str("session", id).
		Int("patient", n).
		Msg("Patient added")

	http.Redirect(w, r, "/?added=1", http.StatusSeeOther)
}

func (s *Server) handleListPatients(w http.ResponseWriter, r *http.Request) {
	recs := s.records(r)
	if recs == nil {
		recs = []types.PatientRecord{}
	}
	respondWithJSON(w, http.StatusOK, types.PatientsFile{Patients: recs})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	recs := s.records(r)
	if len(recs) == 0 {
		http.Error(w, "no patients added", http.StatusNotFound)
		return
	}

	f, err := s.generate(id, recs)
	if err != nil {
		http.Error(w, "failed to generate report", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", types.DefaultReportName))
	if _, err := io.Copy(w, f); err != nil {
		s.log.Error().Err(err).Msg("Failed to stream report")
	}
}

// generate writes the artifact for session id and returns it opened for
// reading. The open handle keeps this session's bytes even if a later
// request replaces the file.
func (s *Server) generate(id string, recs []types.PatientRecord) (*os.File, error) {
	s.reportMu.Lock()
	defer s.reportMu.Unlock()

	path := report.Path(id, s.cfg.Output)
	res, err := s.writeReport(recs, s.cfg.Layout, report.Options{}, path)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("Failed to generate report")
		return nil, err
	}
	if len(res.Overflow) > 0 {
		s.log.Warn().
			Str("session", id).
			Ints("patients", res.Overflow).
			Msg("Patients placed below the page bottom are clipped")
	}

	f, err := report.Open(path)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("Failed to open report")
		return nil, err
	}
	return f, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sessionID returns the session id carried by the request cookie, or "" when
// the cookie is missing or malformed.
func sessionID(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil || !session.ValidID(c.Value) {
		return ""
	}
	return c.Value
}

// records returns the caller's records without creating a session. Unknown
// and expired sessions read as empty.
func (s *Server) records(r *http.Request) []types.PatientRecord {
	id := sessionID(r)
	if id == "" {
		return nil
	}
	sess, ok := s.store.Lookup(id)
	if !ok {
		return nil
	}
	return sess.Records()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("Request")
	})
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(payload)
}
