package dto

// ── 研修计划模板模块 DTO ──
//
// expected_days / day_index / sort_order 统一用指针承载：
// 未设定序列化为 null，与显式的 0 区分。

// PlanRequest 创建/更新计划请求
type PlanRequest struct {
	PlanName     string   `json:"plan_name" binding:"required,max=200"`
	ExpectedDays *float64 `json:"expected_days" binding:"omitempty,gte=0"`
	Description  *string  `json:"description"`
}

// SectionRequest 创建/更新大项目请求
// PlanID 仅创建时必填；更新时可传入以变更所属计划
type SectionRequest struct {
	PlanID       string   `json:"plan_id"`
	SectionName  string   `json:"section_name" binding:"required,max=200"`
	ExpectedDays *float64 `json:"expected_days" binding:"omitempty,gte=0"`
	SortOrder    *int     `json:"sort_order"`
}

// TopicRequest 创建/更新小项目请求
type TopicRequest struct {
	SectionID string `json:"section_id"`
	TopicName string `json:"topic_name" binding:"required,max=200"`
	SortOrder *int   `json:"sort_order"`
}

// TodoRequest 创建/更新 TODO 请求
type TodoRequest struct {
	TopicID   string `json:"topic_id"`
	TodoName  string `json:"todo_name" binding:"required,max=300"`
	DayIndex  *int   `json:"day_index" binding:"omitempty,gte=1"`
	SortOrder *int   `json:"sort_order"`
}

// PlanSummaryResponse 计划一览响应（不含树）
type PlanSummaryResponse struct {
	ID           string   `json:"id"`
	PlanName     string   `json:"plan_name"`
	ExpectedDays *float64 `json:"expected_days"`
	Description  *string  `json:"description"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// PlanTemplateResponse 计划详情响应（完整树，已按 sort_order + 创建顺序排序）
type PlanTemplateResponse struct {
	ID           string            `json:"id"`
	PlanName     string            `json:"plan_name"`
	ExpectedDays *float64          `json:"expected_days"`
	Description  *string           `json:"description"`
	Sections     []SectionResponse `json:"sections"`
}

// SectionResponse 大项目响应
type SectionResponse struct {
	ID           string          `json:"id"`
	PlanID       string          `json:"plan_id"`
	SectionName  string          `json:"section_name"`
	ExpectedDays *float64        `json:"expected_days"`
	SortOrder    *int            `json:"sort_order"`
	Topics       []TopicResponse `json:"topics"`
}

// TopicResponse 小项目响应
type TopicResponse struct {
	ID        string         `json:"id"`
	SectionID string         `json:"section_id"`
	TopicName string         `json:"topic_name"`
	SortOrder *int           `json:"sort_order"`
	Todos     []TodoResponse `json:"todos"`
}

// TodoResponse TODO 响应
type TodoResponse struct {
	ID        string `json:"id"`
	TopicID   string `json:"topic_id"`
	TodoName  string `json:"todo_name"`
	DayIndex  *int   `json:"day_index"`
	SortOrder *int   `json:"sort_order"`
}
