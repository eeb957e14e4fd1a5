package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yasserrrr2025/rasd2/internal/service/state"
)

// StatusResponse system status
type StatusResponse struct {
	state.Stats
	LastImportTime string `json:"lastImportTime"`
}

// GetStatus GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{Stats: h.state.Stats()}
	if h.logs != nil {
		at, ok, err := h.logs.LastImportAt()
		if err != nil {
			h.log.Warn("last import lookup failed", zap.Error(err))
		} else if ok {
			resp.LastImportTime = at.Format("2006-01-02 15:04:05")
		}
	}
	c.JSON(http.StatusOK, resp)
}
