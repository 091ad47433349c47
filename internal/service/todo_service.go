package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Tomlord1122/todo-app/internal/domain"
	"github.com/Tomlord1122/todo-app/internal/repository"
)

// ErrTodoNotFound is returned when the requested todo does not exist or is
// not visible to the caller.
var ErrTodoNotFound = errors.New("todo not found")

// TodoForm holds the user-editable fields submitted by the add and edit forms.
type TodoForm struct {
	Title       string
	Description string
}

// TodoService defines the operations for managing a user's todos.
// Every call runs in its own store transaction.
type TodoService interface {
	// ListTodos returns the owner's todos in insertion order.
	ListTodos(ctx context.Context, ownerID uint) ([]domain.Todo, error)

	// GetTodo looks up a todo for the edit form.
	GetTodo(ctx context.Context, id, userID uint) (*domain.Todo, error)

	// CreateTodo inserts an incomplete todo owned by ownerID.
	CreateTodo(ctx context.Context, ownerID uint, form TodoForm) (*domain.Todo, error)

	// UpdateTodo overwrites title and description.
	UpdateTodo(ctx context.Context, id, userID uint, form TodoForm) error

	// DeleteTodo removes the todo if ownerID owns it. A miss is not an error.
	DeleteTodo(ctx context.Context, id, ownerID uint) error

	// ToggleComplete flips the complete flag and returns the updated todo.
	ToggleComplete(ctx context.Context, id, userID uint) (*domain.Todo, error)
}

// Options tune ownership checks.
type Options struct {
	// OwnerScopedEdits restricts GetTodo, UpdateTodo and ToggleComplete to
	// the caller's own todos. When false any authenticated user can reach
	// any todo id through those operations.
	OwnerScopedEdits bool
}

type todoService struct {
	tx   repository.Transactor
	opts Options
	log  *slog.Logger
}

func NewTodoService(tx repository.Transactor, opts Options, log *slog.Logger) TodoService {
	return &todoService{
		tx:   tx,
		opts: opts,
		log:  log,
	}
}

func (s *todoService) ListTodos(ctx context.Context, ownerID uint) ([]domain.Todo, error) {
	var todos []domain.Todo
	err := s.tx.InTx(ctx, func(repo repository.TodoRepository) error {
		var err error
		todos, err = repo.ListByOwner(ownerID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list todos for user %d: %w", ownerID, err)
	}
	return todos, nil
}

func (s *todoService) GetTodo(ctx context.Context, id, userID uint) (*domain.Todo, error) {
	var todo *domain.Todo
	err := s.tx.InTx(ctx, func(repo repository.TodoRepository) error {
		var err error
		todo, err = s.lookup(repo, id, userID)
		return err
	})
	if err != nil {
		return nil, s.wrap("get", id, err)
	}
	return todo, nil
}

func (s *todoService) CreateTodo(ctx context.Context, ownerID uint, form TodoForm) (*domain.Todo, error) {
	todo := &domain.Todo{
		Title:       form.Title,
		Description: form.Description,
		Complete:    false,
		OwnerID:     ownerID,
	}
	err := s.tx.InTx(ctx, func(repo repository.TodoRepository) error {
		return repo.Create(todo)
	})
	if err != nil {
		return nil, fmt.Errorf("create todo for user %d: %w", ownerID, err)
	}
	s.log.Debug("Todo created", "todoID", todo.ID, "ownerID", ownerID)
	return todo, nil
}

func (s *todoService) UpdateTodo(ctx context.Context, id, userID uint, form TodoForm) error {
	err := s.tx.InTx(ctx, func(repo repository.TodoRepository) error {
		if _, err := s.lookup(repo, id, userID); err != nil {
			return err
		}
		return repo.UpdateDetails(id, form.Title, form.Description)
	})
	if err != nil {
		return s.wrap("update", id, err)
	}
	return nil
}

func (s *todoService) DeleteTodo(ctx context.Context, id, ownerID uint) error {
	err := s.tx.InTx(ctx, func(repo repository.TodoRepository) error {
		_, err := repo.FindByIDAndOwner(id, ownerID)
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Debug("Delete skipped, todo not owned by user", "todoID", id, "userID", ownerID)
			return nil
		}
		if err != nil {
			return err
		}
		return repo.Delete(id)
	})
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	return nil
}

func (s *todoService) ToggleComplete(ctx context.Context, id, userID uint) (*domain.Todo, error) {
	var todo *domain.Todo
	err := s.tx.InTx(ctx, func(repo repository.TodoRepository) error {
		current, err := s.lookup(repo, id, userID)
		if err != nil {
			return err
		}
		updated := *current
		updated.Complete = !current.Complete
		if err := repo.SetComplete(id, updated.Complete); err != nil {
			return err
		}
		todo = &updated
		return nil
	})
	if err != nil {
		return nil, s.wrap("toggle", id, err)
	}
	return todo, nil
}

// lookup applies the configured ownership rule for edit-style operations.
func (s *todoService) lookup(repo repository.TodoRepository, id, userID uint) (*domain.Todo, error) {
	if s.opts.OwnerScopedEdits {
		return repo.FindByIDAndOwner(id, userID)
	}
	return repo.FindByID(id)
}

func (s *todoService) wrap(op string, id uint, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s todo %d: %w", op, id, ErrTodoNotFound)
	}
	return fmt.Errorf("%s todo %d: %w", op, id, err)
}
