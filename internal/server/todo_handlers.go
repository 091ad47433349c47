package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Tomlord1122/todo-app/internal/auth"
	"github.com/Tomlord1122/todo-app/internal/domain"
	"github.com/Tomlord1122/todo-app/internal/service"
	"github.com/Tomlord1122/todo-app/internal/view"
)

const (
	listPath      = "/todos"
	maxFormMemory = 1 << 20
)

// Every handler below runs behind auth.RequireUser, so the context always
// carries a user.

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	todos, err := s.todoService.ListTodos(r.Context(), user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, view.HomePage, view.Page{User: user, Todos: todos})
}

func (s *Server) addTodoFormHandler(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, view.AddTodoPage, view.Page{User: currentUser(r)})
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	form, err := parseTodoForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if _, err := s.todoService.CreateTodo(r.Context(), user.ID, form); err != nil {
		s.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, listPath, http.StatusFound)
}

func (s *Server) editTodoFormHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, ok := todoIDParam(w, r)
	if !ok {
		return
	}

	var todo *domain.Todo
	if storeID, ok := storedID(id); ok {
		var err error
		todo, err = s.todoService.GetTodo(r.Context(), storeID, user.ID)
		if err != nil && !errors.Is(err, service.ErrTodoNotFound) {
			s.serverError(w, r, err)
			return
		}
	}

	s.render(w, r, view.EditTodoPage, view.Page{User: user, Todo: todo, TodoID: id})
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, ok := todoIDParam(w, r)
	if !ok {
		return
	}

	form, err := parseTodoForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	storeID, ok := storedID(id)
	if !ok {
		http.Error(w, "Todo not found", http.StatusNotFound)
		return
	}

	err = s.todoService.UpdateTodo(r.Context(), storeID, user.ID, form)
	if errors.Is(err, service.ErrTodoNotFound) {
		http.Error(w, "Todo not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, listPath, http.StatusFound)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, ok := todoIDParam(w, r)
	if !ok {
		return
	}

	if storeID, ok := storedID(id); ok {
		if err := s.todoService.DeleteTodo(r.Context(), storeID, user.ID); err != nil {
			s.serverError(w, r, err)
			return
		}
	}

	http.Redirect(w, r, listPath, http.StatusFound)
}

func (s *Server) completeTodoHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, ok := todoIDParam(w, r)
	if !ok {
		return
	}

	storeID, ok := storedID(id)
	if !ok {
		http.Error(w, "Todo not found", http.StatusNotFound)
		return
	}

	_, err := s.todoService.ToggleComplete(r.Context(), storeID, user.ID)
	if errors.Is(err, service.ErrTodoNotFound) {
		http.Error(w, "Todo not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, listPath, http.StatusFound)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, page view.Page) {
	if err := s.views.Render(w, http.StatusOK, name, page); err != nil {
		s.serverError(w, r, err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	attrs := []any{"err", err, "method", r.Method, "path", r.URL.Path, "requestID", middleware.GetReqID(r.Context())}
	if user, ok := auth.UserFromContext(r.Context()); ok {
		attrs = append(attrs, "userID", user.ID)
	}
	s.log.Error("Request failed", attrs...)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func currentUser(r *http.Request) *auth.User {
	user, _ := auth.UserFromContext(r.Context())
	return user
}

// todoIDParam accepts any integer. Ids that can never match a stored row
// are left to the callers' not-found handling.
func todoIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "todo_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid todo ID provided", http.StatusUnprocessableEntity)
		return 0, false
	}
	return id, true
}

func storedID(id int64) (uint, bool) {
	if id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// parseTodoForm accepts urlencoded and multipart bodies and requires both
// fields to be present. Empty values are allowed.
func parseTodoForm(r *http.Request) (service.TodoForm, error) {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return service.TodoForm{}, fmt.Errorf("invalid form body: %w", err)
	}
	for _, field := range []string{"title", "description"} {
		if _, ok := r.PostForm[field]; !ok {
			return service.TodoForm{}, fmt.Errorf("missing form field %q", field)
		}
	}
	return service.TodoForm{
		Title:       r.PostForm.Get("title"),
		Description: r.PostForm.Get("description"),
	}, nil
}
