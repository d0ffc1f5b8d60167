package model

import "time"

// 账号角色
const (
	RoleAdmin   = "admin"   // 管理者
	RoleTeacher = "teacher" // メンター
	RoleStudent = "student" // 研修生
)

// User 用户表 — 对应 users
type User struct {
	UserID            string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name              string         `gorm:"type:varchar(100);not null"                     json:"name"`
	Email             string         `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash      string         `gorm:"type:varchar(255);not null"                     json:"-"`
	Role              string         `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	TrainingStatus    TrainingStatus `gorm:"type:varchar(20);not null;default:'未開始'"      json:"training_status"`
	TrainingStartDate *time.Time     `gorm:"type:date"                                      json:"training_start_date,omitempty"`
	TrainingEndDate   *time.Time     `gorm:"type:date"                                      json:"training_end_date,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
