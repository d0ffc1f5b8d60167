package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/s-ko0401/training-system/config"
	"github.com/s-ko0401/training-system/internal/dto"
	"github.com/s-ko0401/training-system/internal/model"
	"github.com/s-ko0401/training-system/internal/repository"
	"github.com/s-ko0401/training-system/pkg/businessday"
)

// ── 账号模块业务错误 ──

var (
	ErrUserNotFound = errors.New("账号不存在")
	ErrEmailTaken   = errors.New("邮箱已被使用")
	ErrDateInvalid  = errors.New("日期格式不正确")
)

// UserService 账号管理业务接口
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id string) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, role string) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
	// SetTrainingPeriod 设定研修开始日并按营业日数推算结束日
	SetTrainingPeriod(ctx context.Context, id string, req *dto.SetTrainingPeriodRequest) (*dto.UserResponse, error)
}

type userService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{cfg: cfg, repo: repo, logger: logger}
}

func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询邮箱失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码加密失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   string(hash),
		Role:           req.Role,
		TrainingStatus: model.TrainingStatusNotStarted,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建账号失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("账号已创建", zap.String("user_id", user.UserID), zap.String("role", user.Role))
	return toUserResponse(user), nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询账号失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, role string) ([]dto.UserResponse, error) {
	users, err := s.repo.User.List(ctx, role)
	if err != nil {
		s.logger.Error("列出账号失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询账号失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.repo.User.GetByEmail(ctx, *req.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.TrainingStatus != nil {
		status := model.TrainingStatus(*req.TrainingStatus)
		if !status.Valid() {
			return nil, ErrInvalidTrainingStatus
		}
		user.TrainingStatus = status
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新账号失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询账号失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("删除账号失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *userService) SetTrainingPeriod(ctx context.Context, id string, req *dto.SetTrainingPeriodRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询账号失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if user.Role != model.RoleStudent {
		return nil, ErrNotStudent
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrDateInvalid
	}

	holidays := businessday.NewHolidaySet(s.cfg.Training.Holidays)
	end, err := businessday.AddBusinessDays(start, s.cfg.Training.DefaultBusinessDays, holidays)
	if err != nil {
		return nil, err
	}

	user.TrainingStartDate = &start
	user.TrainingEndDate = &end

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("设定研修期间失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("研修期间已设定",
		zap.String("user_id", id),
		zap.String("start", start.Format("2006-01-02")),
		zap.String("end", end.Format("2006-01-02")))
	return toUserResponse(user), nil
}

func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:                user.UserID,
		Name:              user.Name,
		Email:             user.Email,
		Role:              user.Role,
		TrainingStatus:    string(user.TrainingStatus),
		TrainingStartDate: formatDatePtr(user.TrainingStartDate),
		TrainingEndDate:   formatDatePtr(user.TrainingEndDate),
		CreatedAt:         user.CreatedAt.Format(time.RFC3339),
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
