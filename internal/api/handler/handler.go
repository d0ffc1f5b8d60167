package handler

import "github.com/s-ko0401/training-system/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Plan     *PlanHandler
	Training *TrainingHandler
	Export   *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		User:     NewUserHandler(svc.User),
		Plan:     NewPlanHandler(svc.PlanTemplate),
		Training: NewTrainingHandler(svc.Training),
		Export:   NewExportHandler(svc.Export),
	}
}
