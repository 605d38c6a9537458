package main

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/bodul/xwplay/internal/dispatch"
	"github.com/bodul/xwplay/internal/generate"
	"github.com/bodul/xwplay/internal/puzzle"
	"github.com/bodul/xwplay/internal/render"
	"github.com/bodul/xwplay/internal/session"
	"github.com/bodul/xwplay/internal/verify"
)

const (
	maxBodySize = 64 << 10
	// generateDefaultSize applies when a /generate request names no size.
	generateDefaultSize = 15

	sessionIdleTimeout = time.Hour
	sessionSweepPeriod = time.Minute
)

// ipLimiter keeps one token bucket per client IP.
type ipLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

type visitor struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	l := &ipLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
	}
	// Cleanup stale entries every minute.
	go func() {
		for {
			time.Sleep(time.Minute)
			l.mu.Lock()
			for ip, v := range l.visitors {
				if time.Since(v.lastSeen) > 5*time.Minute {
					delete(l.visitors, ip)
				}
			}
			l.mu.Unlock()
		}
	}()
	return l
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.lim.Allow()
}

// Server is the main HTTP server.
type Server struct {
	router *chi.Mux
	store  *Store
	sse    *Broadcaster
	gen    session.Generator
	local  *generate.Generator
	opts   session.Options

	generateRL *ipLimiter
	eventRL    *ipLimiter

	stop      chan struct{}
	closeOnce sync.Once
}

// NewServer creates a configured HTTP server. Sessions draw puzzles from
// gen; local, when not nil, also serves POST /generate.
func NewServer(store *Store, gen session.Generator, local *generate.Generator, opts session.Options) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		store:      store,
		sse:        NewBroadcaster(),
		gen:        gen,
		local:      local,
		opts:       opts,
		generateRL: newIPLimiter(rate.Every(time.Second), 5), // 5 burst, 1/s per IP
		eventRL:    newIPLimiter(60, 60),                     // 60 events/s per IP
		stop:       make(chan struct{}),
	}
	s.routes()
	go s.sweepSessions(sessionSweepPeriod, sessionIdleTimeout)
	return s
}

func (s *Server) routes() {
	// Limiters key on the peer address; forwarded headers are not trusted.
	s.router.Use(chimw.RequestID)
	s.router.Use(requestLogger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(securityHeaders)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.router.Handle("/metrics", promhttp.Handler())

	// Generation service
	s.router.Post("/generate", s.handleGenerate)
	s.router.Post("/check", s.handleCheck)

	// Session API
	s.router.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/", s.handleListSessions)
		r.Get("/{id}", s.handleGetSession)
		r.Delete("/{id}", s.handleDeleteSession)
		r.Post("/{id}/events", s.handleSendEvent)
		r.Get("/{id}/events", s.handleSessionEvents)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "not found", http.StatusNotFound)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close ends every SSE stream and session. It is safe to call more than once.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.sse.Close()
		s.store.CloseAll()
	})
}

// sweepSessions closes sessions left idle with no stream attached.
func (s *Server) sweepSessions(every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			watched := func(id string) bool { return s.sse.ClientCount(id) > 0 }
			for _, sess := range s.store.Expire(idle, watched) {
				sess.Close()
				s.sse.Disconnect(sess.ID())
				log.Info().Str("session", sess.ID()).Msg("idle session expired")
			}
		}
	}
}

// --- Middleware ---

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// --- Generation handlers ---

// POST /generate: build a puzzle in the generation wire format.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !s.generateRL.allow(clientIP(r)) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}
	if s.local == nil {
		jsonError(w, "generation not configured", http.StatusServiceUnavailable)
		return
	}

	req := puzzle.Request{Size: generateDefaultSize}
	if err := decodeBody(w, r, &req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := s.local.Generate(r.Context(), req.Size)
	switch {
	case errors.Is(err, generate.ErrSize):
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Error().Err(err).Int("size", req.Size).Msg("generate")
		jsonError(w, "generation failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /check: compare one answer with one word.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input string `json:"input"`
		Word  string `json:"word"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"correct": verify.CheckWord(req.Input, req.Word)})
}

// --- Session handlers ---

// POST /api/sessions: start a session, generating a first puzzle when a
// size is given.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Size *int `json:"size"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Size != nil && !s.generateRL.allow(clientIP(r)) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}

	id := generateID()
	sess := session.New(id, s.gen, s.sse.Sink(id), s.opts)
	if err := s.store.Add(sess); err != nil {
		sess.Close()
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	log.Info().Str("session", id).Msg("session created")

	if req.Size != nil {
		if err := sess.Send(r.Context(), dispatch.GenerateRequested{Size: *req.Size}); err != nil {
			jsonError(w, "session unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// GET /api/sessions: list sessions.
func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

// GET /api/sessions/{id}: what the session currently shows.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Get(chi.URLParam(r, "id"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	st, err := sess.Snapshot(r.Context())
	if err != nil {
		sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// DELETE /api/sessions/{id}: close a session.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess := s.store.Remove(id)
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	sess.Close()
	s.sse.Disconnect(id)
	log.Info().Str("session", id).Msg("session deleted")
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/sessions/{id}/events: deliver one input event.
func (s *Server) handleSendEvent(w http.ResponseWriter, r *http.Request) {
	if !s.eventRL.allow(clientIP(r)) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}

	sess := s.store.Get(chi.URLParam(r, "id"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	ev, err := dispatch.DecodeEvent(body)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, ok := ev.(dispatch.GenerateRequested); ok && !s.generateRL.allow(clientIP(r)) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}

	if err := sess.Send(r.Context(), ev); err != nil {
		sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/sessions/{id}/events: SSE stream of directives. The stream
// opens with the directives that rebuild the current state.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess := s.store.Get(id)
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	// Registering inside Inspect means no directive falls between the
	// replay and the live stream.
	var c *client
	err := sess.Inspect(r.Context(), func(f *render.Frame) {
		replay := f.Replay()
		backlog := make([]string, 0, len(replay))
		for _, d := range replay {
			data, err := dispatch.MarshalDirective(d)
			if err != nil {
				log.Error().Err(err).Str("directive", d.Type()).Msg("encode directive")
				continue
			}
			backlog = append(backlog, string(data))
		}
		c = s.sse.Register(id, backlog...)
	})
	if err != nil {
		sessionError(w, err)
		return
	}
	s.sse.ServeSSE(w, r, c)
}

// --- Helpers ---

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func sessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrClosed) {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	jsonError(w, "request cancelled", http.StatusServiceUnavailable)
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
