package service

import (
	"go.uber.org/zap"

	"github.com/s-ko0401/training-system/config"
	"github.com/s-ko0401/training-system/internal/repository"
	"github.com/s-ko0401/training-system/pkg/jwt"
	"github.com/s-ko0401/training-system/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	PlanTemplate PlanTemplateService
	Training     TrainingService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(repo, jwtMgr, rdb, logger),
		User:         NewUserService(cfg, repo, logger),
		PlanTemplate: NewPlanTemplateService(repo, logger),
		Training:     NewTrainingService(repo, logger),
		Export:       NewExportService(cfg, repo, logger),
	}
}
