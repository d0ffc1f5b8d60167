package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/s-ko0401/training-system/internal/dto"
	"github.com/s-ko0401/training-system/internal/service"
	"github.com/s-ko0401/training-system/pkg/response"
)

// UserHandler 账号模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// handleUserError 账号模块业务错误统一映射
func handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "账号不存在")
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 12002, "邮箱已被使用")
	case errors.Is(err, service.ErrDateInvalid):
		response.BadRequest(c, 12003, "日期格式不正确，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrNotStudent):
		response.BadRequest(c, 12004, "对象必须是研修生")
	case errors.Is(err, service.ErrInvalidTrainingStatus):
		response.BadRequest(c, 12005, "研修状态不合法")
	default:
		response.InternalError(c)
	}
}

// Create 创建账号
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.userSvc.CreateUser(c.Request.Context(), &req)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.Created(c, result)
}

// List 账号一览（?role= 过滤）
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	result, err := h.userSvc.ListUsers(c.Request.Context(), c.Query("role"))
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, result)
}

// Get 账号详情
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	result, err := h.userSvc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, result)
}

// Update 更新账号
// PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.userSvc.UpdateUser(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除账号
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userSvc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, nil)
}

// SetTrainingPeriod 设定研修期间（结束日按营业日数推算）
// PUT /api/v1/users/:id/training-period
func (h *UserHandler) SetTrainingPeriod(c *gin.Context) {
	var req dto.SetTrainingPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.userSvc.SetTrainingPeriod(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, result)
}
