package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/s-ko0401/training-system/internal/model"
)

// TodoRepository TODO 数据访问接口
type TodoRepository interface {
	Create(ctx context.Context, todo *model.PlanTodo) error
	GetByID(ctx context.Context, id string) (*model.PlanTodo, error)
	ListByTopic(ctx context.Context, topicID string) ([]model.PlanTodo, error)
	Update(ctx context.Context, todo *model.PlanTodo) error
	Delete(ctx context.Context, id string) error
}

type todoRepo struct {
	db *gorm.DB
}

// NewTodoRepo 创建 TodoRepository 实例
func NewTodoRepo(db *gorm.DB) TodoRepository {
	return &todoRepo{db: db}
}

func (r *todoRepo) Create(ctx context.Context, todo *model.PlanTodo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

func (r *todoRepo) GetByID(ctx context.Context, id string) (*model.PlanTodo, error) {
	var todo model.PlanTodo
	err := r.db.WithContext(ctx).
		Where("todo_id = ?", id).
		First(&todo).Error
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *todoRepo) ListByTopic(ctx context.Context, topicID string) ([]model.PlanTodo, error) {
	var todos []model.PlanTodo
	err := r.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order(siblingOrder).
		Find(&todos).Error
	return todos, err
}

func (r *todoRepo) Update(ctx context.Context, todo *model.PlanTodo) error {
	return r.db.WithContext(ctx).Save(todo).Error
}

func (r *todoRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("todo_id = ?", id).
		Delete(&model.PlanTodo{}).Error
}
