package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yasserrrr2025/rasd2/internal/model"
	"github.com/yasserrrr2025/rasd2/internal/service/report"
)

func periodFilter(c *gin.Context) model.PeriodFilter {
	return model.ParsePeriodFilter(c.Query("period"))
}

// Overview GET /api/reports/overview?period=
func (h *Handler) Overview(c *gin.Context) {
	c.JSON(http.StatusOK, report.Overview(h.state.Summary(), h.state.Roster(), periodFilter(c)))
}

// Ranking GET /api/reports/ranking?period=
func (h *Handler) Ranking(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": report.ClassRanking(h.state.Summary(), periodFilter(c))})
}

// Teachers GET /api/reports/teachers?period=
func (h *Handler) Teachers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": report.TeacherStats(h.state.Summary(), h.state.Roster(), periodFilter(c))})
}

// Incomplete GET /api/reports/incomplete?period=
func (h *Handler) Incomplete(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": report.IncompleteStudents(h.state.Summary(), periodFilter(c))})
}

// Heatmap GET /api/reports/heatmap?period=
func (h *Handler) Heatmap(c *gin.Context) {
	c.JSON(http.StatusOK, report.Heatmap(h.state.Summary(), h.state.Snapshot(), periodFilter(c)))
}

// Tracking GET /api/reports/tracking?period=
func (h *Handler) Tracking(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": report.Tracking(h.state.Summary(), periodFilter(c))})
}
