package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ordersight/backend-go/internal/domain"
	"github.com/ordersight/backend-go/internal/repository"
	"github.com/ordersight/backend-go/internal/service"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetSummary returns the top-line KPIs for the filtered record set.
func (h *ReportHandler) GetSummary(c *gin.Context) {
	summary, err := h.reportService.Summary(c.Request.Context(), parseFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetPincodes returns per-pincode delivery metrics, busiest first.
func (h *ReportHandler) GetPincodes(c *gin.Context) {
	h.groupReport(c, repository.DimensionPincode)
}

// GetProducts returns per-product delivery metrics, busiest first.
func (h *ReportHandler) GetProducts(c *gin.Context) {
	h.groupReport(c, repository.DimensionProduct)
}

// GetPartners returns per-fulfillment-partner delivery metrics, busiest first.
func (h *ReportHandler) GetPartners(c *gin.Context) {
	h.groupReport(c, repository.DimensionPartner)
}

// GetTrend returns per-day delivery metrics in chronological order.
func (h *ReportHandler) GetTrend(c *gin.Context) {
	h.groupReport(c, repository.DimensionDate)
}

func (h *ReportHandler) groupReport(c *gin.Context, dimension string) {
	metrics, err := h.reportService.GroupReport(c.Request.Context(), dimension, parseFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch " + dimension + " report"})
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// GetClassifiedPincodes returns the systematically good and bad pincodes.
func (h *ReportHandler) GetClassifiedPincodes(c *gin.Context) {
	classification, err := h.reportService.ClassifiedPincodes(c.Request.Context(), parseFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to classify pincodes"})
		return
	}
	c.JSON(http.StatusOK, classification)
}

// GetNDROrders lists orders currently in the NDR family.
func (h *ReportHandler) GetNDROrders(c *gin.Context) {
	filter := parseFilter(c)
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	orders, err := h.reportService.NDROrders(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch ndr orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ListOrders returns the paginated raw listing.
func (h *ReportHandler) ListOrders(c *gin.Context) {
	limit := parsePositiveIntWithDefault(c.Query("limit"), 50)
	offset := parseNonNegativeInt(c.Query("offset"))

	orders, total, err := h.reportService.Orders(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// parseFilter reads the shared reporting query params. The `to` date is
// inclusive in the API and converted to an exclusive next-day bound here.
func parseFilter(c *gin.Context) domain.ReportFilter {
	filter := domain.ReportFilter{
		Pincode: strings.TrimSpace(c.Query("pincode")),
		Partner: strings.TrimSpace(c.Query("partner")),
		Limit:   parseNonNegativeInt(c.Query("limit")),
		Offset:  parseNonNegativeInt(c.Query("offset")),
	}

	if from := parseDate(c.Query("from")); from != nil {
		filter.From = from
	}
	if to := parseDate(c.Query("to")); to != nil {
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}

	if products := strings.TrimSpace(c.Query("products")); products != "" {
		for _, p := range strings.Split(products, ",") {
			if p = strings.TrimSpace(p); p != "" {
				filter.Products = append(filter.Products, p)
			}
		}
	}

	return filter
}

func parseDate(value string) *time.Time {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil
	}
	return &t
}
