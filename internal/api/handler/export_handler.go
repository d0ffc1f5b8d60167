package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/s-ko0401/training-system/internal/service"
	"github.com/s-ko0401/training-system/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

const (
	contentTypeXlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeIcs  = "text/calendar; charset=utf-8"
)

// Progress 导出研修生进捗报告 (.xlsx)
// GET /api/v1/export/students/:id/progress
func (h *ExportHandler) Progress(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportStudentProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, filename, contentTypeXlsx, buf.Bytes())
}

// Calendar 导出研修生任务日程 (.ics)
// GET /api/v1/export/students/:id/calendar
func (h *ExportHandler) Calendar(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportStudentCalendar(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, filename, contentTypeIcs, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "账号不存在")
	case errors.Is(err, service.ErrExportNoPlans):
		response.NotFound(c, 17001, "该研修生暂无割当计划")
	default:
		response.InternalError(c)
	}
}

// writeDownload 设置下载响应头并写入文件内容
func writeDownload(c *gin.Context, filename, contentType string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}
