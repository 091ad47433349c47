package repository

import (
	"errors"

	"github.com/Tomlord1122/todo-app/internal/domain"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// TodoRepository defines the todo data operations available inside a
// transaction.
type TodoRepository interface {
	Create(todo *domain.Todo) error
	FindByID(id uint) (*domain.Todo, error)
	FindByIDAndOwner(id, ownerID uint) (*domain.Todo, error)
	ListByOwner(ownerID uint) ([]domain.Todo, error)
	UpdateDetails(id uint, title, description string) error
	SetComplete(id uint, complete bool) error
	Delete(id uint) error
}

// gormTodoRepository implements TodoRepository on a transaction-scoped *gorm.DB.
type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository wraps db, which is normally the tx handed out by
// GormTransactor.InTx.
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) Create(todo *domain.Todo) error {
	return r.db.Omit("Owner").Create(todo).Error
}

func (r *gormTodoRepository) FindByID(id uint) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.Where("id = ?", id).First(&todo).Error
	if err != nil {
		return nil, translate(err)
	}
	return &todo, nil
}

func (r *gormTodoRepository) FindByIDAndOwner(id, ownerID uint) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&todo).Error
	if err != nil {
		return nil, translate(err)
	}
	return &todo, nil
}

// ListByOwner returns the owner's todos in insertion order.
func (r *gormTodoRepository) ListByOwner(ownerID uint) ([]domain.Todo, error) {
	todos := []domain.Todo{}
	err := r.db.Where("owner_id = ?", ownerID).Order("id").Find(&todos).Error
	if err != nil {
		return nil, err
	}
	return todos, nil
}

// UpdateDetails issues an explicit UPDATE of title and description.
func (r *gormTodoRepository) UpdateDetails(id uint, title, description string) error {
	result := r.db.Model(&domain.Todo{}).
		Where("id = ?", id).
		Updates(map[string]any{"title": title, "description": description})
	return affected(result)
}

func (r *gormTodoRepository) SetComplete(id uint, complete bool) error {
	result := r.db.Model(&domain.Todo{}).
		Where("id = ?", id).
		Update("complete", complete)
	return affected(result)
}

// Delete hard-deletes by id. Deleting a missing row is not an error.
func (r *gormTodoRepository) Delete(id uint) error {
	return r.db.Where("id = ?", id).Delete(&domain.Todo{}).Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
