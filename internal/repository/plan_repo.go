package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/s-ko0401/training-system/internal/model"
)

// PlanRepository 研修计划模板数据访问接口
type PlanRepository interface {
	Create(ctx context.Context, plan *model.Plan) error
	GetByID(ctx context.Context, id string) (*model.Plan, error)
	// GetTree 返回完整树：每一层按 sort_order + 创建顺序排序
	GetTree(ctx context.Context, id string) (*model.Plan, error)
	List(ctx context.Context) ([]model.Plan, error)
	Update(ctx context.Context, plan *model.Plan) error
	// DeleteCascade 删除计划及其全部子孙（调用方负责包事务）
	DeleteCascade(ctx context.Context, id string) error
}

type planRepo struct {
	db *gorm.DB
}

// NewPlanRepo 创建 PlanRepository 实例
func NewPlanRepo(db *gorm.DB) PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) Create(ctx context.Context, plan *model.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *planRepo) GetByID(ctx context.Context, id string) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.WithContext(ctx).
		Where("plan_id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) GetTree(ctx context.Context, id string) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order(siblingOrder)
		}).
		Preload("Sections.Topics", func(db *gorm.DB) *gorm.DB {
			return db.Order(siblingOrder)
		}).
		Preload("Sections.Topics.Todos", func(db *gorm.DB) *gorm.DB {
			return db.Order(siblingOrder)
		}).
		Where("plan_id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) List(ctx context.Context) ([]model.Plan, error) {
	var plans []model.Plan
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&plans).Error
	return plans, err
}

func (r *planRepo) Update(ctx context.Context, plan *model.Plan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *planRepo) DeleteCascade(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)

	sectionIDs := db.Model(&model.PlanSection{}).Select("section_id").Where("plan_id = ?", id)
	topicIDs := db.Model(&model.PlanTopic{}).Select("topic_id").Where("section_id IN (?)", sectionIDs)

	if err := db.Where("topic_id IN (?)", topicIDs).Delete(&model.PlanTodo{}).Error; err != nil {
		return err
	}
	if err := db.Where("section_id IN (?)", sectionIDs).Delete(&model.PlanTopic{}).Error; err != nil {
		return err
	}
	if err := db.Where("plan_id = ?", id).Delete(&model.PlanSection{}).Error; err != nil {
		return err
	}
	return db.Where("plan_id = ?", id).Delete(&model.Plan{}).Error
}
