// Package remotetest runs an in-process fake of the remote task store for
// tests. It speaks the same JSON API as the reference backend: integer ids,
// "created"/"updated" history entries, and {"error": "..."} bodies on 400/404.
package remotetest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"taskboard/internal/middleware"
	"taskboard/internal/models/task"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Request is what the fake recorded about one call.
type Request struct {
	Method    string
	Path      string
	RequestID string
	Body      []byte
}

type Server struct {
	*httptest.Server

	store *storage

	mtx      sync.Mutex
	requests []Request
	failures map[string][]int
}

func NewServer() *Server {
	s := &Server{
		store:    newStorage(),
		failures: make(map[string][]int),
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIdHeader},
	}))
	r.Use(s.record)
	r.Use(s.injectFailures)

	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", s.listTasks)
		r.Post("/", s.createTask)

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", s.updateTask)
			r.Delete("/", s.deleteTask)
		})
	})

	s.Server = httptest.NewServer(r)
	return s
}

// Seed stores tasks as given (ids kept; empty ids get the next free one).
func (s *Server) Seed(tasks ...task.Task) []task.Task {
	res := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, s.store.seed(t))
	}
	return res
}

// Tasks is a snapshot of the server-side collection.
func (s *Server) Tasks() []task.Task {
	return s.store.list()
}

func (s *Server) SetClock(now func() time.Time) {
	s.store.mtx.Lock()
	s.store.now = now
	s.store.mtx.Unlock()
}

// FailNext makes the next request with the given method answer status.
// Calls queue up per method.
func (s *Server) FailNext(method string, status int) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.failures[method] = append(s.failures[method], status)
}

func (s *Server) Requests() []Request {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	res := make([]Request, len(s.requests))
	copy(res, s.requests)
	return res
}

func (s *Server) RequestCount(method string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method {
			n++
		}
	}
	return n
}

// LastRequest returns the most recent request with the given method.
func (s *Server) LastRequest(method string) (Request, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method {
			return reqs[i], true
		}
	}
	return Request{}, false
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mtx.Lock()
		s.requests = append(s.requests, Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			RequestID: r.Header.Get(middleware.RequestIdHeader),
			Body:      body,
		})
		s.mtx.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mtx.Lock()
		queue := s.failures[r.Method]
		status := 0
		if len(queue) > 0 {
			status = queue[0]
			s.failures[r.Method] = queue[1:]
		}
		s.mtx.Unlock()

		if status != 0 {
			responseWithError(w, status, fmt.Sprintf("%d %s: injected failure", status, http.StatusText(status)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	responseWithJSON(w, http.StatusOK, s.store.list())
}

type createRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	DueDate     *task.Date     `json:"due_date"`
	Priority    *task.Priority `json:"priority"`
	Category    *task.Category `json:"category"`
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !checkContentType(r, "application/json") || json.NewDecoder(r.Body).Decode(&req) != nil || req.Title == nil {
		responseWithError(w, http.StatusBadRequest, "400 Bad Request: Title is required")
		return
	}

	t := task.Task{
		Title:    *req.Title,
		Status:   task.StatusPending,
		Priority: task.PriorityMedium,
		Category: task.CategoryUncategorized,
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.DueDate != nil {
		t.DueDate = *req.DueDate
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.Category != nil {
		t.Category = *req.Category
	}

	responseWithJSON(w, http.StatusCreated, s.store.create(t))
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id := task.ParseID(chi.URLParam(r, "id"))

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		responseWithError(w, http.StatusBadRequest, "400 Bad Request: "+err.Error())
		return
	}

	var decodeErr error
	updated, ok := s.store.update(id, func(t *task.Task) {
		decodeErr = applyFields(t, fields)
	})
	if !ok {
		responseWithError(w, http.StatusNotFound, "404 Not Found: Task not found")
		return
	}
	if decodeErr != nil {
		responseWithError(w, http.StatusBadRequest, "400 Bad Request: "+decodeErr.Error())
		return
	}
	responseWithJSON(w, http.StatusOK, updated)
}

func applyFields(t *task.Task, fields map[string]json.RawMessage) error {
	targets := map[string]any{
		"title":       &t.Title,
		"description": &t.Description,
		"status":      &t.Status,
		"due_date":    &t.DueDate,
		"priority":    &t.Priority,
		"category":    &t.Category,
	}
	for key, raw := range fields {
		target, ok := targets[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
	}
	return nil
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := task.ParseID(chi.URLParam(r, "id"))
	if !s.store.delete(id) {
		responseWithError(w, http.StatusNotFound, "404 Not Found: Task not found")
		return
	}
	responseWithJSON(w, http.StatusOK, map[string]bool{"result": true})
}

func responseWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func responseWithError(w http.ResponseWriter, code int, message string) {
	responseWithJSON(w, code, map[string]string{"error": message})
}

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == target
}
