package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ordersight/backend-go/internal/service"
)

type ImportHandler struct {
	importService *service.ImportService
}

func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// Upload ingests one spreadsheet. The response carries the full import result
// even when some batches failed; only an unreadable file is a client error.
func (h *ImportHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	opts := service.ImportOptions{
		ClearExisting: parseBool(c.PostForm("clear_existing")),
		BatchSize:     parseNonNegativeInt(c.PostForm("batch_size")),
	}
	if v := strings.TrimSpace(c.PostForm("skip_duplicates")); v != "" {
		skip := parseBool(v)
		opts.SkipDuplicates = &skip
	}

	result, err := h.importService.Import(c.Request.Context(), file, header.Filename, opts)
	if err != nil {
		if errors.Is(err, service.ErrUnreadableFile) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("filename", header.Filename).Msg("import failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ClearOrders removes every stored order.
func (h *ImportHandler) ClearOrders(c *gin.Context) {
	if err := h.importService.ClearOrders(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("failed to clear orders")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "orders cleared"})
}

// ListImports returns recent import jobs, newest first.
func (h *ImportHandler) ListImports(c *gin.Context) {
	limit := parsePositiveIntWithDefault(c.Query("limit"), 50)
	offset := parseNonNegativeInt(c.Query("offset"))

	jobs, err := h.importService.Jobs(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch import jobs"})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

func parseBool(value string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && v
}

func parsePositiveIntWithDefault(value string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func parseNonNegativeInt(value string) int {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && v >= 0 {
		return v
	}
	return 0
}
