// Package server exposes projections over a local JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/theirongolddev/holdcalc/internal/assets"
	"github.com/theirongolddev/holdcalc/internal/model"
	"github.com/theirongolddev/holdcalc/internal/projection"
	"github.com/theirongolddev/holdcalc/internal/store"
	"github.com/theirongolddev/holdcalc/internal/succession"

	"github.com/creasty/defaults"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr              string        `default:"127.0.0.1:8787"`
	EventsBuffer      int           `default:"200"`
	ReadHeaderTimeout time.Duration `default:"5s"`
	ShutdownTimeout   time.Duration `default:"5s"`
	AllowNegative     bool
}

// Store is the subset of the history store the server uses.
type Store interface {
	Save(ctx context.Context, r model.Record) (model.Record, error)
	List(ctx context.Context, limit int) ([]model.Record, error)
}

// Event is emitted for every projection served.
type Event struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`
	Timestamp  time.Time       `json:"timestamp"`
	Portfolio  model.Portfolio `json:"portfolio"`
	SavingsY20 decimal.Decimal `json:"savings_y20"`
	RecordID   string          `json:"record_id,omitempty"`
}

// Service serves the HTTP API.
type Service struct {
	cfg   Config
	log   zerolog.Logger
	store Store

	mu          sync.RWMutex
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service. st may be nil, in which case saving and history
// are unavailable.
func New(cfg Config, logger zerolog.Logger, st Store) (*Service, error) {
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("server config defaults: %w", err)
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}

	return &Service{
		cfg:   cfg,
		log:   logger.With().Str("component", "server").Logger(),
		store: st,
		subs:  make(map[int]chan Event),
	}, nil
}

// Addr returns the configured listen address.
func (s *Service) Addr() string { return s.cfg.Addr }

// Handler returns the API routes wrapped in request logging.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/projection", s.handleProjectionQuery)
	mux.HandleFunc("POST /v1/projection", s.handleProjectionBody)
	mux.HandleFunc("GET /v1/assumptions", s.handleAssumptions)
	mux.HandleFunc("POST /v1/succession", s.handleSuccession)
	mux.HandleFunc("GET /v1/history", s.handleHistory)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return s.logRequests(mux)
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info().Str("addr", s.cfg.Addr).Msg("listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.log.Info().Msg("shutting down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) recentEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleProjectionQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := assets.ParsePortfolio(q.Get("vehicles"), q.Get("real_estate"), q.Get("cash"))
	s.serveProjection(w, r, p, "", false)
}

func (s *Service) handleProjectionBody(w http.ResponseWriter, r *http.Request) {
	var req projectionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body", nil)
		return
	}
	p := model.Portfolio{
		Vehicles:   req.Vehicles.Decimal(),
		RealEstate: req.RealEstate.Decimal(),
		Cash:       req.Cash.Decimal(),
	}
	s.serveProjection(w, r, p, req.Label, req.Save)
}

func (s *Service) serveProjection(w http.ResponseWriter, r *http.Request, p model.Portfolio, label string, save bool) {
	if !s.cfg.AllowNegative {
		if violations := assets.Violations(p); len(violations) > 0 {
			writeError(w, http.StatusUnprocessableEntity, assets.ErrInvalidAssetValue.Error(), violations)
			return
		}
	}

	resp := newProjectionResponse(p)
	if save {
		if s.store == nil {
			writeError(w, http.StatusServiceUnavailable, "history store not configured", nil)
			return
		}
		rec, err := s.store.Save(r.Context(), store.NewRecord(label, p))
		if err != nil {
			s.log.Error().Err(err).Msg("saving projection")
			writeError(w, http.StatusInternalServerError, "saving projection failed", nil)
			return
		}
		resp.RecordID = rec.ID
	}

	s.publishEvent(Event{
		Type:       "projection",
		Timestamp:  time.Now(),
		Portfolio:  p,
		SavingsY20: resp.Savings[projection.Horizon],
		RecordID:   resp.RecordID,
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleAssumptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, projection.Assumptions())
}

// handleSuccession always validates; AllowNegative only covers projections.
func (s *Service) handleSuccession(w http.ResponseWriter, r *http.Request) {
	var req successionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body", nil)
		return
	}
	in := req.input()
	if violations := in.Violations(); len(violations) > 0 {
		writeError(w, http.StatusUnprocessableEntity, assets.ErrInvalidAssetValue.Error(), violations)
		return
	}
	writeJSON(w, http.StatusOK, succession.Simulate(in))
}

func (s *Service) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history store not configured", nil)
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer", nil)
			return
		}
		limit = n
	}

	records, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("listing history")
		writeError(w, http.StatusInternalServerError, "listing history failed", nil)
		return
	}
	if records == nil {
		records = []model.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.recentEvents())
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Replay what is buffered so a new client starts with context.
	for _, ev := range s.recentEvents() {
		writeSSE(w, ev)
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
