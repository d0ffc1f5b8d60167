package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/s-ko0401/training-system/internal/model"
)

// taskOrder 研修任务的展示顺序：
// 研修日（未排日程视为第 0 天）→ 大项目 → 小项目 → 同日内次序 → 创建顺序
const taskOrder = "COALESCE(day_index, 0) ASC, " +
	"section_sort_order ASC NULLS LAST, " +
	"topic_sort_order ASC NULLS LAST, " +
	"sort_order ASC NULLS LAST, " +
	"created_at ASC"

// TrainingTaskRepository 研修任务数据访问接口
type TrainingTaskRepository interface {
	CreateBatch(ctx context.Context, tasks []model.StudentTrainingTask) error
	GetByID(ctx context.Context, id string) (*model.StudentTrainingTask, error)
	ListByPlan(ctx context.Context, trainingPlanID string) ([]model.StudentTrainingTask, error)
	ListByPlans(ctx context.Context, trainingPlanIDs []string) ([]model.StudentTrainingTask, error)
	Update(ctx context.Context, task *model.StudentTrainingTask) error
}

type trainingTaskRepo struct {
	db *gorm.DB
}

// NewTrainingTaskRepo 创建 TrainingTaskRepository 实例
func NewTrainingTaskRepo(db *gorm.DB) TrainingTaskRepository {
	return &trainingTaskRepo{db: db}
}

func (r *trainingTaskRepo) CreateBatch(ctx context.Context, tasks []model.StudentTrainingTask) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tasks).Error
}

func (r *trainingTaskRepo) GetByID(ctx context.Context, id string) (*model.StudentTrainingTask, error) {
	var task model.StudentTrainingTask
	err := r.db.WithContext(ctx).
		Where("task_id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *trainingTaskRepo) ListByPlan(ctx context.Context, trainingPlanID string) ([]model.StudentTrainingTask, error) {
	var tasks []model.StudentTrainingTask
	err := r.db.WithContext(ctx).
		Where("training_plan_id = ?", trainingPlanID).
		Order(taskOrder).
		Find(&tasks).Error
	return tasks, err
}

func (r *trainingTaskRepo) ListByPlans(ctx context.Context, trainingPlanIDs []string) ([]model.StudentTrainingTask, error) {
	if len(trainingPlanIDs) == 0 {
		return nil, nil
	}
	var tasks []model.StudentTrainingTask
	err := r.db.WithContext(ctx).
		Where("training_plan_id IN ?", trainingPlanIDs).
		Order(taskOrder).
		Find(&tasks).Error
	return tasks, err
}

func (r *trainingTaskRepo) Update(ctx context.Context, task *model.StudentTrainingTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}
