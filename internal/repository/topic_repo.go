package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/s-ko0401/training-system/internal/model"
)

// TopicRepository 小项目数据访问接口
type TopicRepository interface {
	Create(ctx context.Context, topic *model.PlanTopic) error
	GetByID(ctx context.Context, id string) (*model.PlanTopic, error)
	ListBySection(ctx context.Context, sectionID string) ([]model.PlanTopic, error)
	Update(ctx context.Context, topic *model.PlanTopic) error
	// DeleteCascade 删除小项目及其下属 TODO（调用方负责包事务）
	DeleteCascade(ctx context.Context, id string) error
}

type topicRepo struct {
	db *gorm.DB
}

// NewTopicRepo 创建 TopicRepository 实例
func NewTopicRepo(db *gorm.DB) TopicRepository {
	return &topicRepo{db: db}
}

func (r *topicRepo) Create(ctx context.Context, topic *model.PlanTopic) error {
	return r.db.WithContext(ctx).Create(topic).Error
}

func (r *topicRepo) GetByID(ctx context.Context, id string) (*model.PlanTopic, error) {
	var topic model.PlanTopic
	err := r.db.WithContext(ctx).
		Where("topic_id = ?", id).
		First(&topic).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepo) ListBySection(ctx context.Context, sectionID string) ([]model.PlanTopic, error) {
	var topics []model.PlanTopic
	err := r.db.WithContext(ctx).
		Where("section_id = ?", sectionID).
		Order(siblingOrder).
		Find(&topics).Error
	return topics, err
}

func (r *topicRepo) Update(ctx context.Context, topic *model.PlanTopic) error {
	return r.db.WithContext(ctx).Save(topic).Error
}

func (r *topicRepo) DeleteCascade(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("topic_id = ?", id).Delete(&model.PlanTodo{}).Error; err != nil {
		return err
	}
	return db.Where("topic_id = ?", id).Delete(&model.PlanTopic{}).Error
}
