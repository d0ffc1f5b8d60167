package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/s-ko0401/training-system/internal/dto"
	"github.com/s-ko0401/training-system/internal/service"
	"github.com/s-ko0401/training-system/pkg/response"
)

// TrainingHandler 研修割当/进捗模块 HTTP 处理器
type TrainingHandler struct {
	trainingSvc service.TrainingService
}

// NewTrainingHandler 创建 TrainingHandler
func NewTrainingHandler(trainingSvc service.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainingSvc: trainingSvc}
}

// handleTrainingError 割当模块业务错误统一映射
func handleTrainingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTrainingPlanNotFound):
		response.NotFound(c, 16001, "研修割当不存在")
	case errors.Is(err, service.ErrTrainingTaskNotFound):
		response.NotFound(c, 16002, "研修任务不存在")
	case errors.Is(err, service.ErrNotStudent):
		response.BadRequest(c, 16003, "割当对象必须是研修生")
	case errors.Is(err, service.ErrInvalidTaskStatus):
		response.BadRequest(c, 16004, "任务状态不合法")
	case errors.Is(err, service.ErrInvalidTrainingStatus):
		response.BadRequest(c, 16005, "研修状态不合法")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "账号不存在")
	case errors.Is(err, service.ErrPlanNotFound):
		response.NotFound(c, 15001, "研修计划不存在")
	default:
		response.InternalError(c)
	}
}

// Assign 割当计划（模板快照复制给研修生）
// POST /api/v1/training/assignments
func (h *TrainingHandler) Assign(c *gin.Context) {
	var req dto.AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	assignedBy, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.trainingSvc.AssignPlan(c.Request.Context(), &req, assignedBy)
	if err != nil {
		handleTrainingError(c, err)
		return
	}

	response.Created(c, result)
}

// ListForStudent 研修生的割当一览
// GET /api/v1/training/students/:id/plans
func (h *TrainingHandler) ListForStudent(c *gin.Context) {
	result, err := h.trainingSvc.ListForStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleTrainingError(c, err)
		return
	}

	response.OK(c, result)
}

// ListMine 当前登录研修生自己的割当一览
// GET /api/v1/training/my-plans
func (h *TrainingHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.trainingSvc.ListForStudent(c.Request.Context(), userID)
	if err != nil {
		handleTrainingError(c, err)
		return
	}

	response.OK(c, result)
}

// Get 割当详情（任务已预排序）
// GET /api/v1/training/plans/:id
func (h *TrainingHandler) Get(c *gin.Context) {
	result, err := h.trainingSvc.GetInstance(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleTrainingError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除割当（任务级联删除）
// DELETE /api/v1/training/plans/:id
func (h *TrainingHandler) Delete(c *gin.Context) {
	if err := h.trainingSvc.DeleteInstance(c.Request.Context(), c.Param("id")); err != nil {
		handleTrainingError(c, err)
		return
	}

	response.OK(c, nil)
}

// UpdateStatus 更新割当计划状态（管理者显式设定）
// PUT /api/v1/training/plans/:id/status
func (h *TrainingHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateTrainingPlanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.trainingSvc.UpdatePlanStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleTrainingError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateTask 更新任务状态/进捗备注
// PUT /api/v1/training/tasks/:id
func (h *TrainingHandler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTrainingTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.trainingSvc.UpdateTask(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleTrainingError(c, err)
		return
	}

	response.OK(c, result)
}

// Days 按研修日分组的任务视图
// GET /api/v1/training/plans/:id/days
func (h *TrainingHandler) Days(c *gin.Context) {
	result, err := h.trainingSvc.GetPlanDays(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleTrainingError(c, err)
		return
	}

	response.OK(c, result)
}

// StudentProgress 研修生横断进捗仪表盘
// GET /api/v1/training/students/:id/progress
func (h *TrainingHandler) StudentProgress(c *gin.Context) {
	result, err := h.trainingSvc.GetStudentProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleTrainingError(c, err)
		return
	}

	response.OK(c, result)
}

// Stats 研修统计（管理画面）
// GET /api/v1/training/stats
func (h *TrainingHandler) Stats(c *gin.Context) {
	result, err := h.trainingSvc.GetStats(c.Request.Context())
	if err != nil {
		handleTrainingError(c, err)
		return
	}

	response.OK(c, result)
}
