package handlers

import (
	"errors"
	"net/http"

	"lokai/cron"
	"lokai/services/catalog"
	"lokai/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// VendorHandler exposes the approved catalog.
type VendorHandler struct {
	Catalog *catalog.Cache
	Queue   cron.TaskEnqueuer
}

func NewVendorHandler(cat *catalog.Cache, queue cron.TaskEnqueuer) *VendorHandler {
	return &VendorHandler{Catalog: cat, Queue: queue}
}

// ListVendorsHandler handles GET /api/vendors. When the store cannot be
// read the last good list is served and marked stale.
func (h *VendorHandler) ListVendorsHandler(c *gin.Context) {
	vendors, err := h.Catalog.FetchApproved(c.Request.Context())
	if err != nil && len(vendors) == 0 {
		utils.JSONError(c, http.StatusServiceUnavailable, "failed to fetch vendors", err.Error())
		return
	}
	resp := gin.H{
		"vendors": vendors,
		"count":   len(vendors),
	}
	if err != nil {
		getLogger(c).Warn("serving stale vendor list", zap.Error(err))
		resp["stale"] = true
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshVendorsHandler handles POST /api/vendors/refresh by queueing a
// catalog refresh.
func (h *VendorHandler) RefreshVendorsHandler(c *gin.Context) {
	id, err := cron.EnqueueCatalogRefresh(c.Request.Context(), h.Queue)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		c.JSON(http.StatusAccepted, gin.H{"status": "already queued"})
		return
	}
	if err != nil {
		getLogger(c).Error("failed to enqueue catalog refresh", zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "failed to enqueue catalog refresh", err.Error())
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"taskId": id, "status": "queued"})
}
