package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/s-ko0401/training-system/internal/model"
)

// TrainingPlanRepository 研修割当数据访问接口
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *model.StudentTrainingPlan) error
	GetByID(ctx context.Context, id string) (*model.StudentTrainingPlan, error)
	// GetByIDForUpdate 行级锁读取，用于串行化同一割当上的删除与读取
	GetByIDForUpdate(ctx context.Context, id string) (*model.StudentTrainingPlan, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.StudentTrainingPlan, error)
	Update(ctx context.Context, plan *model.StudentTrainingPlan) error
	// DeleteCascade 删除割当及其全部任务（调用方负责包事务）
	DeleteCascade(ctx context.Context, id string) error
}

type trainingPlanRepo struct {
	db *gorm.DB
}

// NewTrainingPlanRepo 创建 TrainingPlanRepository 实例
func NewTrainingPlanRepo(db *gorm.DB) TrainingPlanRepository {
	return &trainingPlanRepo{db: db}
}

func (r *trainingPlanRepo) Create(ctx context.Context, plan *model.StudentTrainingPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *trainingPlanRepo) GetByID(ctx context.Context, id string) (*model.StudentTrainingPlan, error) {
	var plan model.StudentTrainingPlan
	err := r.db.WithContext(ctx).
		Where("training_plan_id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *trainingPlanRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.StudentTrainingPlan, error) {
	var plan model.StudentTrainingPlan
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("training_plan_id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *trainingPlanRepo) ListByStudent(ctx context.Context, studentID string) ([]model.StudentTrainingPlan, error) {
	var plans []model.StudentTrainingPlan
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("assigned_at ASC").
		Find(&plans).Error
	return plans, err
}

func (r *trainingPlanRepo) Update(ctx context.Context, plan *model.StudentTrainingPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *trainingPlanRepo) DeleteCascade(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("training_plan_id = ?", id).Delete(&model.StudentTrainingTask{}).Error; err != nil {
		return err
	}
	return db.Where("training_plan_id = ?", id).Delete(&model.StudentTrainingPlan{}).Error
}
