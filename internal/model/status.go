package model

// TaskStatus 任务状态（研修任务单位）
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "未開始"
	TaskStatusInProgress TaskStatus = "進行中"
	TaskStatusDone       TaskStatus = "完了"
)

// Valid 判断是否为定义内的任务状态
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// TrainingStatus 研修状态（計画/受講生单位）
type TrainingStatus string

const (
	TrainingStatusNotStarted TrainingStatus = "未開始"
	TrainingStatusInTraining TrainingStatus = "研修中"
	TrainingStatusCompleted  TrainingStatus = "研修終了"
)

// Valid 判断是否为定义内的研修状态
func (s TrainingStatus) Valid() bool {
	switch s {
	case TrainingStatusNotStarted, TrainingStatusInTraining, TrainingStatusCompleted:
		return true
	}
	return false
}
