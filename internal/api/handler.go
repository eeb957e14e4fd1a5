package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yasserrrr2025/rasd2/internal/importer"
	"github.com/yasserrrr2025/rasd2/internal/service/state"
	"github.com/yasserrrr2025/rasd2/internal/store"
)

// ImportLogReader read side of the import log; nil when running without sqlite
type ImportLogReader interface {
	ListImportLogs(limit int) ([]store.ImportLog, error)
	LastImportAt() (time.Time, bool, error)
}

// Options handler dependencies
type Options struct {
	Logs      ImportLogReader
	ExportDir string
	Logger    *zap.Logger
}

// Handler REST handlers over the state manager and the import coordinator
type Handler struct {
	state     *state.Manager
	importer  *importer.Coordinator
	logs      ImportLogReader
	exportDir string
	downloads *exportDownloadStore
	log       *zap.Logger
}

// NewHandler creates the API handler
func NewHandler(st *state.Manager, coord *importer.Coordinator, opts Options) *Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		state:     st,
		importer:  coord,
		logs:      opts.Logs,
		exportDir: opts.ExportDir,
		downloads: newExportDownloadStore(),
		log:       log,
	}
}

// RegisterRoutes mounts the API under router
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	// ingestion
	router.POST("/import", h.Import)
	router.GET("/imports", h.ListImports)
	router.POST("/roster", h.UploadRoster)

	// state
	router.GET("/summary", h.GetSummary)
	router.GET("/roster", h.GetRoster)
	router.POST("/snapshot", h.TakeSnapshot)
	router.DELETE("/data", h.ResetData)

	// reports
	reports := router.Group("/reports")
	reports.GET("/overview", h.Overview)
	reports.GET("/ranking", h.Ranking)
	reports.GET("/teachers", h.Teachers)
	reports.GET("/incomplete", h.Incomplete)
	reports.GET("/heatmap", h.Heatmap)
	reports.GET("/tracking", h.Tracking)

	// export
	router.GET("/export", h.Export)
	router.POST("/export", h.SaveExport)
	router.GET("/export/download/:token", h.DownloadExport)
}
