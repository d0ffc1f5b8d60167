package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/s-ko0401/training-system/internal/model"
)

// SectionRepository 大项目数据访问接口
type SectionRepository interface {
	Create(ctx context.Context, section *model.PlanSection) error
	GetByID(ctx context.Context, id string) (*model.PlanSection, error)
	ListByPlan(ctx context.Context, planID string) ([]model.PlanSection, error)
	Update(ctx context.Context, section *model.PlanSection) error
	// DeleteCascade 删除大项目及其下属小项目/TODO（调用方负责包事务）
	DeleteCascade(ctx context.Context, id string) error
}

type sectionRepo struct {
	db *gorm.DB
}

// NewSectionRepo 创建 SectionRepository 实例
func NewSectionRepo(db *gorm.DB) SectionRepository {
	return &sectionRepo{db: db}
}

func (r *sectionRepo) Create(ctx context.Context, section *model.PlanSection) error {
	return r.db.WithContext(ctx).Create(section).Error
}

func (r *sectionRepo) GetByID(ctx context.Context, id string) (*model.PlanSection, error) {
	var section model.PlanSection
	err := r.db.WithContext(ctx).
		Where("section_id = ?", id).
		First(&section).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *sectionRepo) ListByPlan(ctx context.Context, planID string) ([]model.PlanSection, error) {
	var sections []model.PlanSection
	err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order(siblingOrder).
		Find(&sections).Error
	return sections, err
}

func (r *sectionRepo) Update(ctx context.Context, section *model.PlanSection) error {
	return r.db.WithContext(ctx).Save(section).Error
}

func (r *sectionRepo) DeleteCascade(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)

	topicIDs := db.Model(&model.PlanTopic{}).Select("topic_id").Where("section_id = ?", id)

	if err := db.Where("topic_id IN (?)", topicIDs).Delete(&model.PlanTodo{}).Error; err != nil {
		return err
	}
	if err := db.Where("section_id = ?", id).Delete(&model.PlanTopic{}).Error; err != nil {
		return err
	}
	return db.Where("section_id = ?", id).Delete(&model.PlanSection{}).Error
}
