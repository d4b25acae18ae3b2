// Package waitapitest provides an in-process wait-time service for tests.
package waitapitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gorilla/mux"
)

// Path is where the server mounts the API.
const Path = "/watch-api.php"

// Request records one call received by the server.
type Request struct {
	Method    string
	Action    string
	APIKey    string
	RequestID string
	Body      []byte
}

// Server implements the wait-time API contract in memory.
type Server struct {
	*httptest.Server

	apiKey string

	mu         sync.Mutex
	current    int
	hasCurrent bool
	pushStatus int
	readStatus int
	readBody   []byte
	hold       chan struct{}
	requests   []Request
}

// New starts a server that accepts apiKey. Callers must Close it.
func New(apiKey string) *Server {
	s := &Server{apiKey: apiKey, pushStatus: http.StatusOK, readStatus: http.StatusOK}

	r := mux.NewRouter()
	r.Use(s.record, s.authenticate)
	r.HandleFunc(Path, s.handleCurrent).Methods(http.MethodGet).Queries("action", "current")
	r.HandleFunc(Path, s.handlePush).Methods(http.MethodPost).Headers("Content-Type", "application/json")

	s.Server = httptest.NewServer(r)
	return s
}

// Endpoint returns the URL clients should be configured with.
func (s *Server) Endpoint() string {
	return s.URL + Path
}

// SetCurrent sets the selection the server reports on reads.
func (s *Server) SetCurrent(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = id
	s.hasCurrent = true
}

// Current returns the stored selection.
func (s *Server) Current() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.hasCurrent
}

// SetPushStatus makes pushes answer with code instead of 200.
func (s *Server) SetPushStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushStatus = code
}

// SetReadStatus makes reads answer with code instead of 200.
func (s *Server) SetReadStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readStatus = code
}

// SetReadBody overrides the body returned by reads. Nil restores the default.
func (s *Server) SetReadBody(body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readBody = body
}

// HoldPushes blocks push handlers until the returned release func is called.
func (s *Server) HoldPushes() (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.hold = ch
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.hold = nil
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests used method.
func (s *Server) Count(method string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method {
			n++
		}
	}
	return n
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Request{
			Method:    r.Method,
			Action:    r.URL.Query().Get("action"),
			APIKey:    r.Header.Get("X-API-Key"),
			RequestID: r.Header.Get("X-Request-ID"),
		}
		if r.Body != nil {
			body, err := io.ReadAll(r.Body)
			if err == nil {
				rec.Body = body
				r.Body = io.NopCloser(bytes.NewReader(body))
			}
		}
		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != s.apiKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status, body, current := s.readStatus, s.readBody, s.current
	s.mu.Unlock()

	if status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if body != nil {
		_, _ = w.Write(body)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]int{"current_option_id": current})
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	hold := s.hold
	s.mu.Unlock()
	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}

	var payload struct {
		OptionID *int `json:"option_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.OptionID == nil {
		http.Error(w, "option_id required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	status := s.pushStatus
	if status == http.StatusOK {
		s.current = *payload.OptionID
		s.hasCurrent = true
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": status == http.StatusOK})
}
