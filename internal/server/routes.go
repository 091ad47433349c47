package server

import (
	"encoding/json"
	"net/http"

	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.httpLogger)
	r.Use(middleware.Recoverer)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"https://*", "http://*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.rootHandler)
	r.Get("/health", s.healthHandler)
	r.Get("/livez", s.livenessHandler)
	r.Get("/readyz", s.readinessHandler)

	r.Route("/todos", func(r chi.Router) {
		r.Use(s.auth.RequireUser)

		r.Get("/", s.listTodosHandler)
		r.Get("/add-todo", s.addTodoFormHandler)
		r.Post("/add-todo", s.createTodoHandler)
		r.Get("/edit-todo/{todo_id}", s.editTodoFormHandler)
		r.Post("/edit-todo/{todo_id}", s.updateTodoHandler)
		r.Get("/delete/{todo_id}", s.deleteTodoHandler)
		r.Get("/complete/{todo_id}", s.completeTodoHandler)
	})

	return r
}

func (s *Server) httpLogger(next http.Handler) http.Handler {
	return httplogger.LoggingMiddlewareSlog(s.log, next)
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, listPath, http.StatusFound)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "up", "message": "in-memory store"})
		return
	}
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func (s *Server) livenessHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	if !s.isReady.Load() {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
