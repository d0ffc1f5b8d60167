package dto

// ── 账号模块 DTO ──

// CreateUserRequest 创建账号请求
type CreateUserRequest struct {
	Name     string `json:"name"     binding:"required,min=1,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"     binding:"required,oneof=admin teacher student"`
}

// UpdateUserRequest 更新账号请求
type UpdateUserRequest struct {
	Name           *string `json:"name"            binding:"omitempty,min=1,max=100"`
	Email          *string `json:"email"           binding:"omitempty,email"`
	Role           *string `json:"role"            binding:"omitempty,oneof=admin teacher student"`
	TrainingStatus *string `json:"training_status" binding:"omitempty,oneof=未開始 研修中 研修終了"`
}

// SetTrainingPeriodRequest 设定研修期间请求
// 结束日由开始日 + 配置的营业日数自动推算（跳过周六日与祝日）
type SetTrainingPeriodRequest struct {
	StartDate string `json:"start_date" binding:"required"` // "2025-01-20"
}

// UserResponse 账号信息响应
type UserResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Role              string  `json:"role"`
	TrainingStatus    string  `json:"training_status"`
	TrainingStartDate *string `json:"training_start_date"`
	TrainingEndDate   *string `json:"training_end_date"`
	CreatedAt         string  `json:"created_at"`
}

// TrainingStatsResponse 研修统计响应（管理画面仪表盘）
type TrainingStatsResponse struct {
	StudentsInTrainingCount int `json:"students_in_training_count"`
	StudentsCompletedCount  int `json:"students_completed_count"`
}
