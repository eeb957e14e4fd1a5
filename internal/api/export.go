package api

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yasserrrr2025/rasd2/internal/model"
	"github.com/yasserrrr2025/rasd2/internal/service/excel"
	"github.com/yasserrrr2025/rasd2/internal/service/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportFilename rasd-summary-<date>[-<period>].xlsx
func exportFilename(now time.Time, f model.PeriodFilter) string {
	name := "rasd-summary-" + now.Format("20060102")
	if f != model.FilterBoth {
		name += "-" + string(f)
	}
	return name + ".xlsx"
}

func contentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", filename, url.PathEscape(filename))
}

// Export streams the summary workbook
// GET /api/export?period=
func (h *Handler) Export(c *gin.Context) {
	f := periodFilter(c)
	file, err := excel.ExportSummary(report.ExportRows(h.state.Summary(), h.state.Roster(), f))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed: " + err.Error()})
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", contentDisposition(exportFilename(time.Now(), f)))
	c.Header("Content-Type", xlsxContentType)
	if err := file.Write(c.Writer); err != nil {
		h.log.Error("write export failed", zap.Error(err))
	}
}

// SaveExport writes the summary workbook into the exports directory and
// returns a one-shot download URL
// POST /api/export?period=
func (h *Handler) SaveExport(c *gin.Context) {
	if h.exportDir == "" {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "export directory not configured"})
		return
	}
	f := periodFilter(c)
	file, err := excel.ExportSummary(report.ExportRows(h.state.Summary(), h.state.Roster(), f))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed: " + err.Error()})
		return
	}
	defer file.Close()

	now := time.Now()
	filename := exportFilename(now, f)
	path := filepath.Join(h.exportDir, fmt.Sprintf("%s_%d.xlsx", filename[:len(filename)-len(".xlsx")], now.UnixNano()))
	if err := os.MkdirAll(h.exportDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := file.SaveAs(path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "write export failed: " + err.Error()})
		return
	}

	token := h.downloads.put(path, filename, 10*time.Minute)
	h.log.Info("export saved", zap.String("path", path))
	c.JSON(http.StatusOK, gin.H{
		"file":        path,
		"downloadUrl": "/api/export/download/" + token,
	})
}

// DownloadExport serves a saved export once
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	item, ok := h.downloads.take(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download link expired"})
		return
	}
	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "export file not found"})
		return
	}
	c.Header("Content-Disposition", contentDisposition(item.filename))
	c.Header("Content-Type", xlsxContentType)
	c.File(item.filePath)
}
