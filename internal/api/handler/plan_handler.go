package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/s-ko0401/training-system/internal/dto"
	"github.com/s-ko0401/training-system/internal/service"
	"github.com/s-ko0401/training-system/pkg/response"
)

// PlanHandler 研修计划模板模块 HTTP 处理器
// 计划树（计划→大项目→小项目→TODO）的维护入口，仅管理者/讲师可用
type PlanHandler struct {
	planSvc service.PlanTemplateService
}

// NewPlanHandler 创建 PlanHandler
func NewPlanHandler(planSvc service.PlanTemplateService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc}
}

// handlePlanError 模板模块业务错误统一映射
func handlePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		response.NotFound(c, 15001, "研修计划不存在")
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, 15002, "大项目不存在")
	case errors.Is(err, service.ErrTopicNotFound):
		response.NotFound(c, 15003, "小项目不存在")
	case errors.Is(err, service.ErrTodoNotFound):
		response.NotFound(c, 15004, "TODO 不存在")
	case errors.Is(err, service.ErrNameRequired):
		response.BadRequest(c, 15005, "名称不能为空")
	default:
		response.InternalError(c)
	}
}

// ── Plan ──

// List 计划一览
// GET /api/v1/plans
func (h *PlanHandler) List(c *gin.Context) {
	result, err := h.planSvc.ListPlans(c.Request.Context())
	if err != nil {
		handlePlanError(c, err)
		return
	}
	response.OK(c, result)
}

// Get 计划详情（完整树）
// GET /api/v1/plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	result, err := h.planSvc.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlePlanError(c, err)
		return
	}
	response.OK(c, result)
}

// Create 创建计划
// POST /api/v1/plans
func (h *PlanHandler) Create(c *gin.Context) {
	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.CreatePlan(c.Request.Context(), &req)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	response.Created(c, result)
}

// Update 更新计划
// PUT /api/v1/plans/:id
func (h *PlanHandler) Update(c *gin.Context) {
	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.UpdatePlan(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除计划（级联删除全部子孙）
// DELETE /api/v1/plans/:id
func (h *PlanHandler) Delete(c *gin.Context) {
	if err := h.planSvc.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		handlePlanError(c, err)
		return
	}
	response.OK(c, nil)
}

// ── Section ──

// CreateSection 创建大项目
// POST /api/v1/sections
func (h *PlanHandler) CreateSection(c *gin.Context) {
	var req dto.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.CreateSection(c.Request.Context(), &req)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateSection 更新大项目
// PUT /api/v1/sections/:id
func (h *PlanHandler) UpdateSection(c *gin.Context) {
	var req dto.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.UpdateSection(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteSection 删除大项目（级联删除其小项目与 TODO）
// DELETE /api/v1/sections/:id
func (h *PlanHandler) DeleteSection(c *gin.Context) {
	if err := h.planSvc.DeleteSection(c.Request.Context(), c.Param("id")); err != nil {
		handlePlanError(c, err)
		return
	}
	response.OK(c, nil)
}

// ── Topic ──

// CreateTopic 创建小项目
// POST /api/v1/topics
func (h *PlanHandler) CreateTopic(c *gin.Context) {
	var req dto.TopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.CreateTopic(c.Request.Context(), &req)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateTopic 更新小项目
// PUT /api/v1/topics/:id
func (h *PlanHandler) UpdateTopic(c *gin.Context) {
	var req dto.TopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.UpdateTopic(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteTopic 删除小项目（级联删除其 TODO）
// DELETE /api/v1/topics/:id
func (h *PlanHandler) DeleteTopic(c *gin.Context) {
	if err := h.planSvc.DeleteTopic(c.Request.Context(), c.Param("id")); err != nil {
		handlePlanError(c, err)
		return
	}
	response.OK(c, nil)
}

// ── Todo ──

// CreateTodo 创建 TODO
// POST /api/v1/todos
func (h *PlanHandler) CreateTodo(c *gin.Context) {
	var req dto.TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.CreateTodo(c.Request.Context(), &req)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateTodo 更新 TODO
// PUT /api/v1/todos/:id
func (h *PlanHandler) UpdateTodo(c *gin.Context) {
	var req dto.TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.UpdateTodo(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteTodo 删除 TODO
// DELETE /api/v1/todos/:id
func (h *PlanHandler) DeleteTodo(c *gin.Context) {
	if err := h.planSvc.DeleteTodo(c.Request.Context(), c.Param("id")); err != nil {
		handlePlanError(c, err)
		return
	}
	response.OK(c, nil)
}
