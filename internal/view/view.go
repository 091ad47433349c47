// Package view renders the HTML pages of the todo application.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/Tomlord1122/todo-app/internal/auth"
	"github.com/Tomlord1122/todo-app/internal/domain"
)

const (
	HomePage     = "home.html"
	AddTodoPage  = "add-todo.html"
	EditTodoPage = "edit-todo.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the data every template receives. Todo may be nil on the edit
// page when the id does not resolve.
type Page struct {
	User   *auth.User
	Todos  []domain.Todo
	Todo   *domain.Todo
	TodoID int64
}

type Renderer struct {
	pages map[string]*template.Template
}

// New parses the layout together with each page.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{HomePage, AddTodoPage, EditTodoPage} {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
