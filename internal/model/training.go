package model

import "time"

// StudentTrainingPlan 研修割当表 — 对应 student_training_plans
//
// SourcePlanID 仅记录出处，不作为活引用：plan_name/expected_days/description
// 为割当时点的冻结副本，模板之后的增删改不会回写到这里。
type StudentTrainingPlan struct {
	TrainingPlanID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"training_plan_id"`
	StudentID      string         `gorm:"type:uuid;not null"                             json:"student_id"`
	SourcePlanID   string         `gorm:"type:uuid;not null"                             json:"source_plan_id"`
	PlanName       string         `gorm:"type:varchar(200);not null"                     json:"plan_name"`
	ExpectedDays   *float64       `json:"expected_days,omitempty"`
	Description    *string        `gorm:"type:text"                                      json:"description,omitempty"`
	Status         TrainingStatus `gorm:"type:varchar(20);not null;default:'未開始'"      json:"status"`
	AssignedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"assigned_at"`
	AssignedBy     string         `gorm:"type:uuid;not null"                             json:"assigned_by"`
	BaseModel

	// 关联
	Tasks []StudentTrainingTask `gorm:"foreignKey:TrainingPlanID;references:TrainingPlanID" json:"tasks,omitempty"`
}

func (StudentTrainingPlan) TableName() string { return "student_training_plans" }

// StudentTrainingTask 研修任务表 — 对应 student_training_tasks
//
// todo/topic/section 的名称与排序全部为割当时点的非规范化副本，
// 展示与分组不需要再回连模板；day_index 在创建后不可变。
type StudentTrainingTask struct {
	TaskID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	TrainingPlanID   string     `gorm:"type:uuid;not null"                             json:"training_plan_id"`
	TodoName         string     `gorm:"type:varchar(300);not null"                     json:"todo_name"`
	TopicName        *string    `gorm:"type:varchar(200)"                              json:"topic_name,omitempty"`
	SectionName      *string    `gorm:"type:varchar(200)"                              json:"section_name,omitempty"`
	DayIndex         *int       `json:"day_index,omitempty"`
	SortOrder        *int       `json:"sort_order,omitempty"`
	SectionSortOrder *int       `json:"section_sort_order,omitempty"`
	TopicSortOrder   *int       `json:"topic_sort_order,omitempty"`
	Status           TaskStatus `gorm:"type:varchar(20);not null;default:'未開始'"      json:"status"`
	ProgressNote     *string    `gorm:"type:text"                                      json:"progress_note,omitempty"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	BaseModel
}

func (StudentTrainingTask) TableName() string { return "student_training_tasks" }
