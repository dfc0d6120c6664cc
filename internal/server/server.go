// Package server provides the budget advice HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rs/cors"

	"github.com/theirongolddev/budgetwise/internal/budget"
	"github.com/theirongolddev/budgetwise/internal/intake"
)

const maxBodyBytes = 1 << 20

// Config controls the server runtime behavior.
type Config struct {
	Addr           string
	AllowedOrigins []string
	EventsBuffer   int
	Budget         budget.Config
	Logger         *slog.Logger
}

// Event records one completed session for /v1/events.
type Event struct {
	ID             int64     `json:"id"`
	SessionID      string    `json:"session_id"`
	Timestamp      time.Time `json:"timestamp"`
	Source         string    `json:"source"`
	Classification string    `json:"classification"`
	SavingsPercent float64   `json:"savings_percent"`
	Reductions     int       `json:"reductions"`
	Insufficient   bool      `json:"insufficient"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt     time.Time `json:"started_at"`
	Sessions      int64     `json:"sessions"`
	Rejected      int64     `json:"rejected"`
	Shortfalls    int64     `json:"shortfalls"`
	CatalogSize   int       `json:"catalog_size"`
	LastSessionAt time.Time `json:"last_session_at,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
	EventCount    int       `json:"event_count"`
}

// Service runs budget sessions over HTTP.
type Service struct {
	cfg Config
	log *slog.Logger

	mu            sync.RWMutex
	startedAt     time.Time
	sessions      int64
	rejected      int64
	shortfalls    int64
	lastSessionAt time.Time
	lastError     string
	nextEventID   int64
	events        []Event
}

// New returns a service with the provided config.
func New(cfg Config) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8790"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Budget.Catalog == nil {
		defaults := budget.DefaultConfig()
		defaults.Logger = cfg.Budget.Logger
		cfg.Budget = defaults
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Budget.Logger == nil {
		cfg.Budget.Logger = cfg.Logger
	}

	return &Service{
		cfg:       cfg,
		log:       cfg.Logger,
		startedAt: time.Now(),
	}
}

// Handler returns the routed, CORS-wrapped HTTP handler.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/budget", s.handleBudget)
	mux.HandleFunc("/v1/budget", s.handleBudget)
	mux.HandleFunc("/v1/message", s.handleMessage)
	mux.HandleFunc("/v1/catalog", s.handleCatalog)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})
	return c.Handler(mux)
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("budget server listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("budget http server: %w", err)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleBudget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	in, err := intake.DecodeRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes), s.cfg.Budget.Catalog)
	if err != nil {
		s.reject(w, r, err)
		return
	}
	res, err := s.run(r, in, "json")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, intake.NewResponse(res))
}

// handleMessage speaks the chat text protocol: the request body is the
// "Income: N, Name: N, ..." message and the reply is plain text.
func (s *Service) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, intake.ErrorResponse{Error: err.Error()})
		return
	}
	in, err := intake.ParseText(string(body), s.cfg.Budget.Catalog)
	if err != nil {
		s.reject(w, r, err)
		return
	}
	res, err := s.run(r, in, "text")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, intake.FormatReply(res))
}

type catalogEntry struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

func (s *Service) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	entries := s.cfg.Budget.Catalog.Entries()
	out := make([]catalogEntry, len(entries))
	for i, e := range entries {
		out[i] = catalogEntry{Name: e.Name, Category: string(e.Category), Priority: string(e.Priority)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) run(r *http.Request, in budget.Input, source string) (budget.Result, error) {
	res, err := budget.RunWithConfig(in, s.cfg.Budget)
	if err != nil {
		return budget.Result{}, err
	}
	s.log.Info("budget session",
		"session", res.SessionID,
		"source", source,
		"remote", r.RemoteAddr,
		"classification", res.Standing,
		"firings", res.Stats.Firings,
	)
	s.record(res, source)
	return res, nil
}

func (s *Service) record(res budget.Result, source string) {
	ev := Event{
		SessionID:      res.SessionID,
		Timestamp:      time.Now(),
		Source:         source,
		Classification: string(res.Standing),
		SavingsPercent: res.SavingsPercent.Round(1).InexactFloat64(),
	}
	for _, a := range res.Advice {
		switch a.Kind {
		case budget.AdviceReduceExpense:
			ev.Reductions++
		case budget.AdviceInsufficient:
			ev.Insufficient = true
		}
	}

	s.mu.Lock()
	s.sessions++
	if res.Standing == budget.NeedsAdjustment {
		s.shortfalls++
	}
	s.lastSessionAt = ev.Timestamp
	s.lastError = ""
	s.mu.Unlock()

	s.publishEvent(ev)
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:     s.startedAt,
		Sessions:      s.sessions,
		Rejected:      s.rejected,
		Shortfalls:    s.shortfalls,
		CatalogSize:   s.cfg.Budget.Catalog.Size(),
		LastSessionAt: s.lastSessionAt,
		LastError:     s.lastError,
		EventCount:    len(s.events),
	}
}

// reject answers a validation failure with 400 and its error code.
func (s *Service) reject(w http.ResponseWriter, r *http.Request, err error) {
	s.mu.Lock()
	s.rejected++
	s.lastError = err.Error()
	s.mu.Unlock()

	s.log.Warn("budget request rejected", "path", r.URL.Path, "remote", r.RemoteAddr, "err", err)
	writeJSON(w, http.StatusBadRequest, intake.ErrorResponse{Error: err.Error(), Code: budget.Code(err)})
}

// fail answers an engine failure on valid input with 500.
func (s *Service) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()

	s.log.Error("budget session failed", "path", r.URL.Path, "err", err)
	writeJSON(w, http.StatusInternalServerError, intake.ErrorResponse{Error: err.Error(), Code: "internal"})
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeJSON(w, http.StatusMethodNotAllowed, intake.ErrorResponse{Error: "method not allowed", Code: "method_not_allowed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
