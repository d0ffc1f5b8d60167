package repository

import (
	"context"

	"gorm.io/gorm"
)

// siblingOrder 兄弟节点的统一排序规则：显式 sort_order 优先，缺省回退创建顺序
const siblingOrder = "sort_order ASC NULLS LAST, created_at ASC"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Plan         PlanRepository
	Section      SectionRepository
	Topic        TopicRepository
	Todo         TodoRepository
	TrainingPlan TrainingPlanRepository
	TrainingTask TrainingTaskRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Plan:         NewPlanRepo(db),
		Section:      NewSectionRepo(db),
		Topic:        NewTopicRepo(db),
		Todo:         NewTodoRepo(db),
		TrainingPlan: NewTrainingPlanRepo(db),
		TrainingTask: NewTrainingTaskRepo(db),
	}
}

// BeginTx 开启数据库事务
// 级联删除与割当复制必须整体成功或整体回滚，Service 层通过 WithTx 使用
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到指定事务的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
