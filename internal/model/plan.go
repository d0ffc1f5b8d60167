package model

// Plan 研修计划模板表 — 对应 plans
//
// 模板仅由管理者/讲师维护，受講生从不直接操作；
// 割当时整棵树会被快照复制（见 training.go），此后模板的修改不影响既有割当。
type Plan struct {
	PlanID       string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"plan_id"`
	PlanName     string   `gorm:"type:varchar(200);not null"                     json:"plan_name"`
	ExpectedDays *float64 `json:"expected_days,omitempty"` // 可为 0.5 天等小数
	Description  *string  `gorm:"type:text"                                      json:"description,omitempty"`
	BaseModel

	// 关联
	Sections []PlanSection `gorm:"foreignKey:PlanID;references:PlanID" json:"sections,omitempty"`
}

func (Plan) TableName() string { return "plans" }

// PlanSection 大项目表 — 对应 plan_sections
type PlanSection struct {
	SectionID    string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"section_id"`
	PlanID       string   `gorm:"type:uuid;not null"                             json:"plan_id"`
	SectionName  string   `gorm:"type:varchar(200);not null"                     json:"section_name"`
	ExpectedDays *float64 `json:"expected_days,omitempty"`
	SortOrder    *int     `json:"sort_order,omitempty"` // 缺省时按创建顺序排列
	BaseModel

	// 关联
	Topics []PlanTopic `gorm:"foreignKey:SectionID;references:SectionID" json:"topics,omitempty"`
}

func (PlanSection) TableName() string { return "plan_sections" }

// PlanTopic 小项目表 — 对应 plan_topics
type PlanTopic struct {
	TopicID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"topic_id"`
	SectionID string `gorm:"type:uuid;not null"                             json:"section_id"`
	TopicName string `gorm:"type:varchar(200);not null"                     json:"topic_name"`
	SortOrder *int   `json:"sort_order,omitempty"`
	BaseModel

	// 关联
	Todos []PlanTodo `gorm:"foreignKey:TopicID;references:TopicID" json:"todos,omitempty"`
}

func (PlanTopic) TableName() string { return "plan_topics" }

// PlanTodo TODO表 — 对应 plan_todos
type PlanTodo struct {
	TodoID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"todo_id"`
	TopicID   string `gorm:"type:uuid;not null"                             json:"topic_id"`
	TodoName  string `gorm:"type:varchar(300);not null"                     json:"todo_name"`
	DayIndex  *int   `json:"day_index,omitempty"`  // 研修第几天（1 起算），nil 表示未排日程
	SortOrder *int   `json:"sort_order,omitempty"` // 同日内的次序
	BaseModel
}

func (PlanTodo) TableName() string { return "plan_todos" }
