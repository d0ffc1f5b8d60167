package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
//
// created_at 同时承担排序职责：sort_order 缺省的兄弟节点按创建顺序排列。
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
