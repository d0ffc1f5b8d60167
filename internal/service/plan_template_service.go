package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/s-ko0401/training-system/internal/dto"
	"github.com/s-ko0401/training-system/internal/model"
	"github.com/s-ko0401/training-system/internal/repository"
)

// ── 计划模板模块业务错误 ──

var (
	ErrPlanNotFound    = errors.New("研修计划不存在")
	ErrSectionNotFound = errors.New("大项目不存在")
	ErrTopicNotFound   = errors.New("小项目不存在")
	ErrTodoNotFound    = errors.New("TODO 不存在")
	ErrNameRequired    = errors.New("名称不能为空")
)

// PlanTemplateService 研修计划模板业务接口
//
// 计划树的 CRUD 与级联删除。同级名称不要求唯一；
// 删除计划/大项目/小项目时其全部子孙在同一事务内一并删除。
type PlanTemplateService interface {
	ListPlans(ctx context.Context) ([]dto.PlanSummaryResponse, error)
	GetPlan(ctx context.Context, id string) (*dto.PlanTemplateResponse, error)
	CreatePlan(ctx context.Context, req *dto.PlanRequest) (*dto.PlanSummaryResponse, error)
	UpdatePlan(ctx context.Context, id string, req *dto.PlanRequest) (*dto.PlanSummaryResponse, error)
	DeletePlan(ctx context.Context, id string) error

	CreateSection(ctx context.Context, req *dto.SectionRequest) (*dto.SectionResponse, error)
	UpdateSection(ctx context.Context, id string, req *dto.SectionRequest) (*dto.SectionResponse, error)
	DeleteSection(ctx context.Context, id string) error

	CreateTopic(ctx context.Context, req *dto.TopicRequest) (*dto.TopicResponse, error)
	UpdateTopic(ctx context.Context, id string, req *dto.TopicRequest) (*dto.TopicResponse, error)
	DeleteTopic(ctx context.Context, id string) error

	CreateTodo(ctx context.Context, req *dto.TodoRequest) (*dto.TodoResponse, error)
	UpdateTodo(ctx context.Context, id string, req *dto.TodoRequest) (*dto.TodoResponse, error)
	DeleteTodo(ctx context.Context, id string) error
}

type planTemplateService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPlanTemplateService 创建 PlanTemplateService 实例
func NewPlanTemplateService(repo *repository.Repository, logger *zap.Logger) PlanTemplateService {
	return &planTemplateService{repo: repo, logger: logger}
}

// ────────────────────── Plan ──────────────────────

func (s *planTemplateService) ListPlans(ctx context.Context) ([]dto.PlanSummaryResponse, error) {
	plans, err := s.repo.Plan.List(ctx)
	if err != nil {
		s.logger.Error("列出研修计划失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PlanSummaryResponse, 0, len(plans))
	for i := range plans {
		result = append(result, *toPlanSummary(&plans[i]))
	}
	return result, nil
}

func (s *planTemplateService) GetPlan(ctx context.Context, id string) (*dto.PlanTemplateResponse, error) {
	plan, err := s.repo.Plan.GetTree(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		s.logger.Error("查询研修计划失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toPlanTree(plan), nil
}

func (s *planTemplateService) CreatePlan(ctx context.Context, req *dto.PlanRequest) (*dto.PlanSummaryResponse, error) {
	if strings.TrimSpace(req.PlanName) == "" {
		return nil, ErrNameRequired
	}

	plan := &model.Plan{
		PlanName:     req.PlanName,
		ExpectedDays: req.ExpectedDays,
		Description:  req.Description,
	}
	if err := s.repo.Plan.Create(ctx, plan); err != nil {
		s.logger.Error("创建研修计划失败", zap.Error(err))
		return nil, err
	}

	return toPlanSummary(plan), nil
}

func (s *planTemplateService) UpdatePlan(ctx context.Context, id string, req *dto.PlanRequest) (*dto.PlanSummaryResponse, error) {
	if strings.TrimSpace(req.PlanName) == "" {
		return nil, ErrNameRequired
	}

	plan, err := s.repo.Plan.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		s.logger.Error("查询研修计划失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	plan.PlanName = req.PlanName
	plan.ExpectedDays = req.ExpectedDays
	plan.Description = req.Description

	if err := s.repo.Plan.Update(ctx, plan); err != nil {
		s.logger.Error("更新研修计划失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toPlanSummary(plan), nil
}

func (s *planTemplateService) DeletePlan(ctx context.Context, id string) error {
	if _, err := s.repo.Plan.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		s.logger.Error("查询研修计划失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return s.runInTx(ctx, func(txRepo *repository.Repository) error {
		return txRepo.Plan.DeleteCascade(ctx, id)
	})
}

// ────────────────────── Section ──────────────────────

func (s *planTemplateService) CreateSection(ctx context.Context, req *dto.SectionRequest) (*dto.SectionResponse, error) {
	if strings.TrimSpace(req.SectionName) == "" {
		return nil, ErrNameRequired
	}

	// 父计划必须存在
	if _, err := s.repo.Plan.GetByID(ctx, req.PlanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		s.logger.Error("查询研修计划失败", zap.String("id", req.PlanID), zap.Error(err))
		return nil, err
	}

	section := &model.PlanSection{
		PlanID:       req.PlanID,
		SectionName:  req.SectionName,
		ExpectedDays: req.ExpectedDays,
		SortOrder:    req.SortOrder,
	}
	if err := s.repo.Section.Create(ctx, section); err != nil {
		s.logger.Error("创建大项目失败", zap.Error(err))
		return nil, err
	}

	return toSectionResponse(section, nil), nil
}

func (s *planTemplateService) UpdateSection(ctx context.Context, id string, req *dto.SectionRequest) (*dto.SectionResponse, error) {
	if strings.TrimSpace(req.SectionName) == "" {
		return nil, ErrNameRequired
	}

	section, err := s.repo.Section.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		s.logger.Error("查询大项目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 变更所属计划时校验新父节点
	if req.PlanID != "" && req.PlanID != section.PlanID {
		if _, err := s.repo.Plan.GetByID(ctx, req.PlanID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPlanNotFound
			}
			return nil, err
		}
		section.PlanID = req.PlanID
	}

	section.SectionName = req.SectionName
	section.ExpectedDays = req.ExpectedDays
	section.SortOrder = req.SortOrder

	if err := s.repo.Section.Update(ctx, section); err != nil {
		s.logger.Error("更新大项目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toSectionResponse(section, nil), nil
}

func (s *planTemplateService) DeleteSection(ctx context.Context, id string) error {
	if _, err := s.repo.Section.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSectionNotFound
		}
		s.logger.Error("查询大项目失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return s.runInTx(ctx, func(txRepo *repository.Repository) error {
		return txRepo.Section.DeleteCascade(ctx, id)
	})
}

// ────────────────────── Topic ──────────────────────

func (s *planTemplateService) CreateTopic(ctx context.Context, req *dto.TopicRequest) (*dto.TopicResponse, error) {
	if strings.TrimSpace(req.TopicName) == "" {
		return nil, ErrNameRequired
	}

	if _, err := s.repo.Section.GetByID(ctx, req.SectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		s.logger.Error("查询大项目失败", zap.String("id", req.SectionID), zap.Error(err))
		return nil, err
	}

	topic := &model.PlanTopic{
		SectionID: req.SectionID,
		TopicName: req.TopicName,
		SortOrder: req.SortOrder,
	}
	if err := s.repo.Topic.Create(ctx, topic); err != nil {
		s.logger.Error("创建小项目失败", zap.Error(err))
		return nil, err
	}

	return toTopicResponse(topic, nil), nil
}

func (s *planTemplateService) UpdateTopic(ctx context.Context, id string, req *dto.TopicRequest) (*dto.TopicResponse, error) {
	if strings.TrimSpace(req.TopicName) == "" {
		return nil, ErrNameRequired
	}

	topic, err := s.repo.Topic.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		s.logger.Error("查询小项目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.SectionID != "" && req.SectionID != topic.SectionID {
		if _, err := s.repo.Section.GetByID(ctx, req.SectionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSectionNotFound
			}
			return nil, err
		}
		topic.SectionID = req.SectionID
	}

	topic.TopicName = req.TopicName
	topic.SortOrder = req.SortOrder

	if err := s.repo.Topic.Update(ctx, topic); err != nil {
		s.logger.Error("更新小项目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toTopicResponse(topic, nil), nil
}

func (s *planTemplateService) DeleteTopic(ctx context.Context, id string) error {
	if _, err := s.repo.Topic.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		s.logger.Error("查询小项目失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return s.runInTx(ctx, func(txRepo *repository.Repository) error {
		return txRepo.Topic.DeleteCascade(ctx, id)
	})
}

// ────────────────────── Todo ──────────────────────

func (s *planTemplateService) CreateTodo(ctx context.Context, req *dto.TodoRequest) (*dto.TodoResponse, error) {
	if strings.TrimSpace(req.TodoName) == "" {
		return nil, ErrNameRequired
	}

	if _, err := s.repo.Topic.GetByID(ctx, req.TopicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		s.logger.Error("查询小项目失败", zap.String("id", req.TopicID), zap.Error(err))
		return nil, err
	}

	todo := &model.PlanTodo{
		TopicID:   req.TopicID,
		TodoName:  req.TodoName,
		DayIndex:  req.DayIndex,
		SortOrder: req.SortOrder,
	}
	if err := s.repo.Todo.Create(ctx, todo); err != nil {
		s.logger.Error("创建 TODO 失败", zap.Error(err))
		return nil, err
	}

	return toTodoResponse(todo), nil
}

func (s *planTemplateService) UpdateTodo(ctx context.Context, id string, req *dto.TodoRequest) (*dto.TodoResponse, error) {
	if strings.TrimSpace(req.TodoName) == "" {
		return nil, ErrNameRequired
	}

	todo, err := s.repo.Todo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		s.logger.Error("查询 TODO 失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.TopicID != "" && req.TopicID != todo.TopicID {
		if _, err := s.repo.Topic.GetByID(ctx, req.TopicID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTopicNotFound
			}
			return nil, err
		}
		todo.TopicID = req.TopicID
	}

	todo.TodoName = req.TodoName
	todo.DayIndex = req.DayIndex
	todo.SortOrder = req.SortOrder

	if err := s.repo.Todo.Update(ctx, todo); err != nil {
		s.logger.Error("更新 TODO 失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toTodoResponse(todo), nil
}

func (s *planTemplateService) DeleteTodo(ctx context.Context, id string) error {
	if _, err := s.repo.Todo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTodoNotFound
		}
		s.logger.Error("查询 TODO 失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Todo.Delete(ctx, id); err != nil {
		s.logger.Error("删除 TODO 失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

// runInTx 在单一事务内执行级联删除：部分成功即整体回滚
func (s *planTemplateService) runInTx(ctx context.Context, fn func(txRepo *repository.Repository) error) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	if err := fn(s.repo.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("级联删除失败", zap.Error(err))
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}
	return nil
}

func toPlanSummary(plan *model.Plan) *dto.PlanSummaryResponse {
	return &dto.PlanSummaryResponse{
		ID:           plan.PlanID,
		PlanName:     plan.PlanName,
		ExpectedDays: plan.ExpectedDays,
		Description:  plan.Description,
		CreatedAt:    plan.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    plan.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toPlanTree(plan *model.Plan) *dto.PlanTemplateResponse {
	sections := make([]dto.SectionResponse, 0, len(plan.Sections))
	for i := range plan.Sections {
		sections = append(sections, *toSectionResponse(&plan.Sections[i], plan.Sections[i].Topics))
	}
	return &dto.PlanTemplateResponse{
		ID:           plan.PlanID,
		PlanName:     plan.PlanName,
		ExpectedDays: plan.ExpectedDays,
		Description:  plan.Description,
		Sections:     sections,
	}
}

func toSectionResponse(section *model.PlanSection, topics []model.PlanTopic) *dto.SectionResponse {
	topicResponses := make([]dto.TopicResponse, 0, len(topics))
	for i := range topics {
		topicResponses = append(topicResponses, *toTopicResponse(&topics[i], topics[i].Todos))
	}
	return &dto.SectionResponse{
		ID:           section.SectionID,
		PlanID:       section.PlanID,
		SectionName:  section.SectionName,
		ExpectedDays: section.ExpectedDays,
		SortOrder:    section.SortOrder,
		Topics:       topicResponses,
	}
}

func toTopicResponse(topic *model.PlanTopic, todos []model.PlanTodo) *dto.TopicResponse {
	todoResponses := make([]dto.TodoResponse, 0, len(todos))
	for i := range todos {
		todoResponses = append(todoResponses, *toTodoResponse(&todos[i]))
	}
	return &dto.TopicResponse{
		ID:        topic.TopicID,
		SectionID: topic.SectionID,
		TopicName: topic.TopicName,
		SortOrder: topic.SortOrder,
		Todos:     todoResponses,
	}
}

func toTodoResponse(todo *model.PlanTodo) *dto.TodoResponse {
	return &dto.TodoResponse{
		ID:        todo.TodoID,
		TopicID:   todo.TopicID,
		TodoName:  todo.TodoName,
		DayIndex:  todo.DayIndex,
		SortOrder: todo.SortOrder,
	}
}
