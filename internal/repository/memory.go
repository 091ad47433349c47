package repository

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/Tomlord1122/todo-app/internal/domain"
)

// MemoryStore is an in-process Transactor for development and tests.
// Transactions are serialised; each works on a private copy that replaces
// the committed state only if fn succeeds. Ids come from a store-wide
// sequence that is not rolled back, as with a Postgres serial column, so
// an id handed out inside a failed transaction is never reused.
type MemoryStore struct {
	mu     sync.Mutex
	todos  map[uint]domain.Todo
	nextID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{todos: make(map[uint]domain.Todo), nextID: 1}
}

func (m *MemoryStore) InTx(ctx context.Context, fn func(todos TodoRepository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	m.nextID = max(m.nextID, 1)
	tx := &memoryTodoRepository{todos: maps.Clone(m.todos), nextID: &m.nextID}
	if tx.todos == nil {
		tx.todos = make(map[uint]domain.Todo)
	}
	if err := fn(tx); err != nil {
		return err
	}
	m.todos = tx.todos
	return nil
}

// Len reports the number of committed todos.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.todos)
}

type memoryTodoRepository struct {
	todos  map[uint]domain.Todo
	nextID *uint
}

// Create sets todo.ID immediately, like the gorm repository. The id only
// refers to a stored row once the transaction commits.
func (r *memoryTodoRepository) Create(todo *domain.Todo) error {
	todo.ID = *r.nextID
	*r.nextID++
	stored := *todo
	stored.Owner = nil
	r.todos[todo.ID] = stored
	return nil
}

func (r *memoryTodoRepository) FindByID(id uint) (*domain.Todo, error) {
	todo, ok := r.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &todo, nil
}

func (r *memoryTodoRepository) FindByIDAndOwner(id, ownerID uint) (*domain.Todo, error) {
	todo, ok := r.todos[id]
	if !ok || todo.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return &todo, nil
}

func (r *memoryTodoRepository) ListByOwner(ownerID uint) ([]domain.Todo, error) {
	todos := []domain.Todo{}
	ids := make([]uint, 0, len(r.todos))
	for id := range r.todos {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if todo := r.todos[id]; todo.OwnerID == ownerID {
			todos = append(todos, todo)
		}
	}
	return todos, nil
}

func (r *memoryTodoRepository) UpdateDetails(id uint, title, description string) error {
	todo, ok := r.todos[id]
	if !ok {
		return ErrNotFound
	}
	todo.Title = title
	todo.Description = description
	r.todos[id] = todo
	return nil
}

func (r *memoryTodoRepository) SetComplete(id uint, complete bool) error {
	todo, ok := r.todos[id]
	if !ok {
		return ErrNotFound
	}
	todo.Complete = complete
	r.todos[id] = todo
	return nil
}

func (r *memoryTodoRepository) Delete(id uint) error {
	delete(r.todos, id)
	return nil
}
