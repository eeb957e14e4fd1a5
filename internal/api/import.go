package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yasserrrr2025/rasd2/internal/importer"
	"github.com/yasserrrr2025/rasd2/internal/parser"
	"github.com/yasserrrr2025/rasd2/internal/service/state"
)

// maxUploadBytes per uploaded workbook
const maxUploadBytes = 32 << 20

// Import ingests one or more status-report workbooks (multipart field "file").
// Progress is streamed as SSE; stream=false answers with the final report as JSON.
// POST /api/import
func (h *Handler) Import(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}
	headers := form.File["file"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	files := make([]importer.FileInput, 0, len(headers))
	for _, fh := range headers {
		in, err := readUpload(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		files = append(files, in)
	}

	progress, err := h.importer.Start(importer.ImportOptions{Files: files})
	if err != nil {
		if errors.Is(err, state.ErrBatchInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if stream, _ := strconv.ParseBool(c.DefaultQuery("stream", "true")); !stream {
		c.JSON(http.StatusOK, importer.Drain(progress))
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	flusher, _ := c.Writer.(http.Flusher)
	// the stream is drained even after the client goes away so the batch lock is released
	for event := range progress {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// UploadRoster replaces the teacher roster (multipart field "file")
// POST /api/roster
func (h *Handler) UploadRoster(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	in, err := readUpload(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.importer.ImportRoster(in)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, state.ErrBatchInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, parser.ErrRosterEmpty):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "report": result.Report})
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	}
}

// ListImports GET /api/imports?limit=
func (h *Handler) ListImports(c *gin.Context) {
	if h.logs == nil {
		c.JSON(http.StatusOK, gin.H{"items": []any{}})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	items, err := h.logs.ListImportLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func readUpload(fh *multipart.FileHeader) (importer.FileInput, error) {
	if fh.Size > maxUploadBytes {
		return importer.FileInput{}, fmt.Errorf("%s exceeds the %d MB upload limit", fh.Filename, maxUploadBytes>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return importer.FileInput{}, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return importer.FileInput{}, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}
	return importer.FileInput{Name: fh.Filename, Data: data}, nil
}
