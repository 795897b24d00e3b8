package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"GISourceSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AllDays 对应“全部数据”
const AllDays = 36500

// ReportProvider 报表数据来源，由 service.ReportService 实现
type ReportProvider interface {
	Load(ctx context.Context, days int) (*service.Snapshot, error)
	BuildReport(ctx context.Context, days int) (*service.Report, error)
}

// ReportHandler 绩效报表接口
type ReportHandler struct {
	reports ReportProvider
	logger  *logrus.Logger
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reports ReportProvider, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// Register 注册路由
func (h *ReportHandler) Register(r gin.IRouter) {
	r.GET("/api/report", h.GetReport)
	r.GET("/api/entries", h.ListEntries)
	r.GET("/api/entries/export", h.ExportEntries)
}

// GetReport 绩效报表
// GET /api/report?days=30
func (h *ReportHandler) GetReport(c *gin.Context) {
	days, ok := h.days(c)
	if !ok {
		return
	}
	report, err := h.reports.BuildReport(c.Request.Context(), days)
	if err != nil {
		h.fail(c, "GetReport", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListEntries 窗口内的匹配记录，按入库日期倒序
// GET /api/entries?days=30
func (h *ReportHandler) ListEntries(c *gin.Context) {
	days, ok := h.days(c)
	if !ok {
		return
	}
	snap, err := h.reports.Load(c.Request.Context(), days)
	if err != nil {
		h.fail(c, "ListEntries", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ExportEntries 下载 CSV
// GET /api/entries/export?days=30
func (h *ReportHandler) ExportEntries(c *gin.Context) {
	days, ok := h.days(c)
	if !ok {
		return
	}
	snap, err := h.reports.Load(c.Request.Context(), days)
	if err != nil {
		h.fail(c, "ExportEntries", err)
		return
	}

	var buf bytes.Buffer
	if err := service.WriteCSV(&buf, snap.Entries); err != nil {
		h.fail(c, "ExportEntries", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.ExportFileName(snap.GeneratedAt)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// days 解析 days 参数：为空用默认窗口，all 表示全部数据
func (h *ReportHandler) days(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("days"))
	switch {
	case raw == "":
		return 0, true
	case strings.EqualFold(raw, "all"):
		return AllDays, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer or 'all'"})
		return 0, false
	}
	if days > AllDays {
		days = AllDays
	}
	return days, true
}

func (h *ReportHandler) fail(c *gin.Context, op string, err error) {
	h.logger.WithError(err).Error(op + " failed")
	status := http.StatusInternalServerError
	if errors.Is(err, service.ErrSourceUnavailable) {
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
