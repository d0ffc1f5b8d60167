package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/s-ko0401/training-system/internal/dto"
	"github.com/s-ko0401/training-system/internal/model"
	"github.com/s-ko0401/training-system/internal/repository"
)

// ── 研修割当模块业务错误 ──

var (
	ErrTrainingPlanNotFound  = errors.New("研修割当不存在")
	ErrTrainingTaskNotFound  = errors.New("研修任务不存在")
	ErrNotStudent            = errors.New("割当对象必须是研修生")
	ErrInvalidTaskStatus     = errors.New("任务状态不合法")
	ErrInvalidTrainingStatus = errors.New("研修状态不合法")
)

// TrainingService 研修割当与进捗业务接口
//
// 割当为快照复制：模板树在割当时点展平为任务行，名称与排序
// 全部冻结到任务上，之后模板的任何修改都不会影响既有割当。
// 同一计划可对同一研修生重复割当，各副本完全独立。
type TrainingService interface {
	AssignPlan(ctx context.Context, req *dto.AssignPlanRequest, assignedBy string) (*dto.TrainingPlanResponse, error)
	ListForStudent(ctx context.Context, studentID string) ([]dto.TrainingPlanResponse, error)
	GetInstance(ctx context.Context, trainingPlanID string) (*dto.TrainingPlanResponse, error)
	DeleteInstance(ctx context.Context, trainingPlanID string) error
	UpdatePlanStatus(ctx context.Context, trainingPlanID string, req *dto.UpdateTrainingPlanStatusRequest) (*dto.TrainingPlanResponse, error)
	UpdateTask(ctx context.Context, taskID string, req *dto.UpdateTrainingTaskRequest) (*dto.TrainingTaskResponse, error)
	GetPlanDays(ctx context.Context, trainingPlanID string) ([]dto.DayGroupResponse, error)
	GetStudentProgress(ctx context.Context, studentID string) (*dto.StudentProgressResponse, error)
	GetStats(ctx context.Context) (*dto.TrainingStatsResponse, error)
}

type trainingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTrainingService 创建 TrainingService 实例
func NewTrainingService(repo *repository.Repository, logger *zap.Logger) TrainingService {
	return &trainingService{repo: repo, logger: logger}
}

// ────────────────────── 割当 ──────────────────────

func (s *trainingService) AssignPlan(ctx context.Context, req *dto.AssignPlanRequest, assignedBy string) (*dto.TrainingPlanResponse, error) {
	student, err := s.repo.User.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询研修生失败", zap.String("student_id", req.StudentID), zap.Error(err))
		return nil, err
	}
	if student.Role != model.RoleStudent {
		return nil, ErrNotStudent
	}

	tree, err := s.repo.Plan.GetTree(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		s.logger.Error("查询研修计划失败", zap.String("plan_id", req.PlanID), zap.Error(err))
		return nil, err
	}

	instance := &model.StudentTrainingPlan{
		StudentID:    student.UserID,
		SourcePlanID: tree.PlanID,
		PlanName:     tree.PlanName,
		ExpectedDays: copyFloat(tree.ExpectedDays),
		Description:  copyString(tree.Description),
		Status:       model.TrainingStatusNotStarted,
		AssignedAt:   time.Now(),
		AssignedBy:   assignedBy,
	}

	// 割当与任务复制在单一事务内完成：任一行失败则整体回滚
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)

	if err := txRepo.TrainingPlan.Create(ctx, instance); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("创建研修割当失败", zap.Error(err))
		return nil, err
	}

	tasks := snapshotTasks(instance.TrainingPlanID, tree)
	if err := txRepo.TrainingTask.CreateBatch(ctx, tasks); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("复制研修任务失败", zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("研修计划已割当",
		zap.String("training_plan_id", instance.TrainingPlanID),
		zap.String("student_id", student.UserID),
		zap.String("source_plan_id", tree.PlanID),
		zap.Int("task_count", len(tasks)))

	sortTasks(tasks)
	return toTrainingPlanResponse(instance, tasks), nil
}

// snapshotTasks 将模板树展平为冻结的任务行
// GetTree 已按兄弟排序返回，此处仅逐层拷贝名称与排序值
func snapshotTasks(trainingPlanID string, tree *model.Plan) []model.StudentTrainingTask {
	var tasks []model.StudentTrainingTask
	for si := range tree.Sections {
		section := &tree.Sections[si]
		for ti := range section.Topics {
			topic := &section.Topics[ti]
			for di := range topic.Todos {
				todo := &topic.Todos[di]
				tasks = append(tasks, model.StudentTrainingTask{
					TrainingPlanID:   trainingPlanID,
					TodoName:         todo.TodoName,
					TopicName:        copyString(&topic.TopicName),
					SectionName:      copyString(&section.SectionName),
					DayIndex:         copyInt(todo.DayIndex),
					SortOrder:        copyInt(todo.SortOrder),
					SectionSortOrder: copyInt(section.SortOrder),
					TopicSortOrder:   copyInt(topic.SortOrder),
					Status:           model.TaskStatusNotStarted,
				})
			}
		}
	}
	return tasks
}

func (s *trainingService) ListForStudent(ctx context.Context, studentID string) ([]dto.TrainingPlanResponse, error) {
	plans, err := s.repo.TrainingPlan.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("列出研修割当失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.TrainingPlanResponse, 0, len(plans))
	for i := range plans {
		tasks, err := s.repo.TrainingTask.ListByPlan(ctx, plans[i].TrainingPlanID)
		if err != nil {
			s.logger.Error("列出研修任务失败", zap.String("training_plan_id", plans[i].TrainingPlanID), zap.Error(err))
			return nil, err
		}
		sortTasks(tasks)
		result = append(result, *toTrainingPlanResponse(&plans[i], tasks))
	}
	return result, nil
}

func (s *trainingService) GetInstance(ctx context.Context, trainingPlanID string) (*dto.TrainingPlanResponse, error) {
	plan, tasks, err := s.loadInstance(ctx, trainingPlanID)
	if err != nil {
		return nil, err
	}
	return toTrainingPlanResponse(plan, tasks), nil
}

func (s *trainingService) DeleteInstance(ctx context.Context, trainingPlanID string) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	txRepo := s.repo.WithTx(tx)

	// 行级锁串行化同一割当上的并发删除
	if _, err := txRepo.TrainingPlan.GetByIDForUpdate(ctx, trainingPlanID); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrainingPlanNotFound
		}
		s.logger.Error("查询研修割当失败", zap.String("id", trainingPlanID), zap.Error(err))
		return err
	}

	if err := txRepo.TrainingPlan.DeleteCascade(ctx, trainingPlanID); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("删除研修割当失败", zap.String("id", trainingPlanID), zap.Error(err))
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

func (s *trainingService) UpdatePlanStatus(ctx context.Context, trainingPlanID string, req *dto.UpdateTrainingPlanStatusRequest) (*dto.TrainingPlanResponse, error) {
	status := model.TrainingStatus(req.Status)
	if !status.Valid() {
		return nil, ErrInvalidTrainingStatus
	}

	plan, err := s.repo.TrainingPlan.GetByID(ctx, trainingPlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainingPlanNotFound
		}
		s.logger.Error("查询研修割当失败", zap.String("id", trainingPlanID), zap.Error(err))
		return nil, err
	}

	// 计划状态由管理者显式设定，不随任务完了率联动
	plan.Status = status
	if err := s.repo.TrainingPlan.Update(ctx, plan); err != nil {
		s.logger.Error("更新研修割当状态失败", zap.String("id", trainingPlanID), zap.Error(err))
		return nil, err
	}

	tasks, err := s.repo.TrainingTask.ListByPlan(ctx, trainingPlanID)
	if err != nil {
		return nil, err
	}
	sortTasks(tasks)
	return toTrainingPlanResponse(plan, tasks), nil
}

// ────────────────────── 任务更新 ──────────────────────

func (s *trainingService) UpdateTask(ctx context.Context, taskID string, req *dto.UpdateTrainingTaskRequest) (*dto.TrainingTaskResponse, error) {
	newStatus := model.TaskStatus(req.Status)
	if !newStatus.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	task, err := s.repo.TrainingTask.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainingTaskNotFound
		}
		s.logger.Error("查询研修任务失败", zap.String("id", taskID), zap.Error(err))
		return nil, err
	}

	now := time.Now()

	// started_at 只在首次离开 未開始 时记录，之后不再改写
	if task.Status == model.TaskStatusNotStarted &&
		newStatus != model.TaskStatusNotStarted &&
		task.StartedAt == nil {
		task.StartedAt = &now
	}

	// completed_at 随 完了 进退：进入时记录，退出时清空，保持时不变
	switch {
	case newStatus == model.TaskStatusDone && task.Status != model.TaskStatusDone:
		task.CompletedAt = &now
	case newStatus != model.TaskStatusDone:
		task.CompletedAt = nil
	}

	task.Status = newStatus
	task.ProgressNote = req.ProgressNote // 整体替换

	if err := s.repo.TrainingTask.Update(ctx, task); err != nil {
		s.logger.Error("更新研修任务失败", zap.String("id", taskID), zap.Error(err))
		return nil, err
	}

	return toTrainingTaskResponse(task), nil
}

// ────────────────────── 进捗视图 ──────────────────────

// GetPlanDays 按研修日分组的进捗视图：day=0 为未排日程桶，
// 天内再按大项目分组，各层带完了率
func (s *trainingService) GetPlanDays(ctx context.Context, trainingPlanID string) ([]dto.DayGroupResponse, error) {
	_, tasks, err := s.loadInstance(ctx, trainingPlanID)
	if err != nil {
		return nil, err
	}

	days := GroupByDay(tasks)
	result := make([]dto.DayGroupResponse, 0, len(days))
	for _, day := range days {
		sections := GroupBySection(day.Tasks)
		sectionResponses := make([]dto.SectionGroupResponse, 0, len(sections))
		for _, g := range sections {
			sectionResponses = append(sectionResponses, *toSectionGroupResponse(&g, true))
		}
		result = append(result, dto.DayGroupResponse{
			Day:      day.Day,
			Progress: TaskCompletion(day.Tasks),
			Sections: sectionResponses,
		})
	}
	return result, nil
}

// GetStudentProgress 受講生横断仪表盘：跨全部割当展平任务，
// 按大项目汇总完了率
func (s *trainingService) GetStudentProgress(ctx context.Context, studentID string) (*dto.StudentProgressResponse, error) {
	if _, err := s.repo.User.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询研修生失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	plans, err := s.repo.TrainingPlan.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("列出研修割当失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	ids := make([]string, 0, len(plans))
	for i := range plans {
		ids = append(ids, plans[i].TrainingPlanID)
	}

	tasks, err := s.repo.TrainingTask.ListByPlans(ctx, ids)
	if err != nil {
		s.logger.Error("列出研修任务失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	sortTasks(tasks)

	completed := 0
	for _, t := range tasks {
		if t.Status == model.TaskStatusDone {
			completed++
		}
	}

	groups := CrossPlanSections(tasks)
	sections := make([]dto.SectionGroupResponse, 0, len(groups))
	for _, g := range groups {
		sections = append(sections, *toSectionGroupResponse(&g, false))
	}

	return &dto.StudentProgressResponse{
		StudentID:      studentID,
		TotalTasks:     len(tasks),
		CompletedTasks: completed,
		Progress:       TaskCompletion(tasks),
		Sections:       sections,
	}, nil
}

func (s *trainingService) GetStats(ctx context.Context) (*dto.TrainingStatsResponse, error) {
	inTraining, err := s.repo.User.CountStudentsByTrainingStatus(ctx, model.TrainingStatusInTraining)
	if err != nil {
		s.logger.Error("统计研修中人数失败", zap.Error(err))
		return nil, err
	}
	completed, err := s.repo.User.CountStudentsByTrainingStatus(ctx, model.TrainingStatusCompleted)
	if err != nil {
		s.logger.Error("统计研修終了人数失败", zap.Error(err))
		return nil, err
	}

	return &dto.TrainingStatsResponse{
		StudentsInTrainingCount: int(inTraining),
		StudentsCompletedCount:  int(completed),
	}, nil
}

// ── 内部辅助方法 ──

func (s *trainingService) loadInstance(ctx context.Context, trainingPlanID string) (*model.StudentTrainingPlan, []model.StudentTrainingTask, error) {
	plan, err := s.repo.TrainingPlan.GetByID(ctx, trainingPlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTrainingPlanNotFound
		}
		s.logger.Error("查询研修割当失败", zap.String("id", trainingPlanID), zap.Error(err))
		return nil, nil, err
	}

	tasks, err := s.repo.TrainingTask.ListByPlan(ctx, trainingPlanID)
	if err != nil {
		s.logger.Error("列出研修任务失败", zap.String("id", trainingPlanID), zap.Error(err))
		return nil, nil, err
	}
	sortTasks(tasks)
	return plan, tasks, nil
}

func toTrainingPlanResponse(plan *model.StudentTrainingPlan, tasks []model.StudentTrainingTask) *dto.TrainingPlanResponse {
	taskResponses := make([]dto.TrainingTaskResponse, 0, len(tasks))
	for i := range tasks {
		taskResponses = append(taskResponses, *toTrainingTaskResponse(&tasks[i]))
	}
	return &dto.TrainingPlanResponse{
		ID:           plan.TrainingPlanID,
		StudentID:    plan.StudentID,
		SourcePlanID: plan.SourcePlanID,
		PlanName:     plan.PlanName,
		ExpectedDays: plan.ExpectedDays,
		Description:  plan.Description,
		Status:       string(plan.Status),
		AssignedAt:   plan.AssignedAt.Format(time.RFC3339),
		AssignedBy:   plan.AssignedBy,
		Progress:     TaskCompletion(tasks),
		Tasks:        taskResponses,
	}
}

func toTrainingTaskResponse(task *model.StudentTrainingTask) *dto.TrainingTaskResponse {
	return &dto.TrainingTaskResponse{
		ID:               task.TaskID,
		TrainingPlanID:   task.TrainingPlanID,
		TodoName:         task.TodoName,
		TopicName:        task.TopicName,
		SectionName:      task.SectionName,
		DayIndex:         task.DayIndex,
		SortOrder:        task.SortOrder,
		SectionSortOrder: task.SectionSortOrder,
		TopicSortOrder:   task.TopicSortOrder,
		Status:           string(task.Status),
		ProgressNote:     task.ProgressNote,
		StartedAt:        formatTimePtr(task.StartedAt),
		CompletedAt:      formatTimePtr(task.CompletedAt),
	}
}

func toSectionGroupResponse(g *SectionGroup, withTasks bool) *dto.SectionGroupResponse {
	completed := 0
	for _, t := range g.Tasks {
		if t.Status == model.TaskStatusDone {
			completed++
		}
	}
	resp := &dto.SectionGroupResponse{
		SectionName:      g.Name,
		SectionSortOrder: g.SortOrder,
		Total:            len(g.Tasks),
		Completed:        completed,
		Progress:         TaskCompletion(g.Tasks),
	}
	if withTasks {
		resp.Tasks = make([]dto.TrainingTaskResponse, 0, len(g.Tasks))
		for i := range g.Tasks {
			resp.Tasks = append(resp.Tasks, *toTrainingTaskResponse(&g.Tasks[i]))
		}
	}
	return resp
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
