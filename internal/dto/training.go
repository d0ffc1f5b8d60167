package dto

// ── 研修割当/进捗模块 DTO ──

// AssignPlanRequest 割当请求
type AssignPlanRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	PlanID    string `json:"plan_id"    binding:"required"`
}

// UpdateTrainingTaskRequest 任务更新请求
// progress_note 为整体替换（非追加）；传 nil 清空备注
type UpdateTrainingTaskRequest struct {
	Status       string  `json:"status" binding:"required"`
	ProgressNote *string `json:"progress_note"`
}

// UpdateTrainingPlanStatusRequest 割当计划状态更新请求
// 计划状态由管理者/讲师显式设定，不随任务完成度联动
type UpdateTrainingPlanStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=未開始 研修中 研修終了"`
}

// TrainingPlanResponse 割当计划响应（任务已按 §排序规则预排序）
type TrainingPlanResponse struct {
	ID           string                 `json:"id"`
	StudentID    string                 `json:"student_id"`
	SourcePlanID string                 `json:"source_plan_id"`
	PlanName     string                 `json:"plan_name"`
	ExpectedDays *float64               `json:"expected_days"`
	Description  *string                `json:"description"`
	Status       string                 `json:"status"`
	AssignedAt   string                 `json:"assigned_at"`
	AssignedBy   string                 `json:"assigned_by"`
	Progress     int                    `json:"progress"` // 完了率（四捨五入百分比）
	Tasks        []TrainingTaskResponse `json:"tasks"`
}

// TrainingTaskResponse 研修任务响应
type TrainingTaskResponse struct {
	ID               string  `json:"id"`
	TrainingPlanID   string  `json:"training_plan_id"`
	TodoName         string  `json:"todo_name"`
	TopicName        *string `json:"topic_name"`
	SectionName      *string `json:"section_name"`
	DayIndex         *int    `json:"day_index"`
	SortOrder        *int    `json:"sort_order"`
	SectionSortOrder *int    `json:"section_sort_order"`
	TopicSortOrder   *int    `json:"topic_sort_order"`
	Status           string  `json:"status"`
	ProgressNote     *string `json:"progress_note"`
	StartedAt        *string `json:"started_at"`
	CompletedAt      *string `json:"completed_at"`
}

// DayGroupResponse 按研修日分组的任务视图
// day=0 为未排日程任务的桶
type DayGroupResponse struct {
	Day      int                    `json:"day"`
	Progress int                    `json:"progress"`
	Sections []SectionGroupResponse `json:"sections"`
}

// SectionGroupResponse 按大项目分组的任务视图（保持首次出现顺序）
type SectionGroupResponse struct {
	SectionName      string                 `json:"section_name"`
	SectionSortOrder *int                   `json:"section_sort_order"`
	Total            int                    `json:"total"`
	Completed        int                    `json:"completed"`
	Progress         int                    `json:"progress"`
	Tasks            []TrainingTaskResponse `json:"tasks,omitempty"`
}

// StudentProgressResponse 受講生横断仪表盘（跨割当计划汇总）
type StudentProgressResponse struct {
	StudentID      string                 `json:"student_id"`
	TotalTasks     int                    `json:"total_tasks"`
	CompletedTasks int                    `json:"completed_tasks"`
	Progress       int                    `json:"progress"`
	Sections       []SectionGroupResponse `json:"sections"`
}
