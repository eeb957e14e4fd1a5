package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yasserrrr2025/rasd2/internal/service/state"
)

// GetSummary GET /api/summary
func (h *Handler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.Summary())
}

// GetRoster GET /api/roster
func (h *Handler) GetRoster(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.Roster())
}

// TakeSnapshot makes the current summary the heatmap baseline
// POST /api/snapshot
func (h *Handler) TakeSnapshot(c *gin.Context) {
	if err := h.state.TakeSnapshot(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ResetData clears summary, roster and baseline
// DELETE /api/data?confirm=true
func (h *Handler) ResetData(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reset requires confirm=true"})
		return
	}
	backup, err := h.state.Reset()
	if err != nil {
		if errors.Is(err, state.ErrBatchInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "backup": backup})
}
