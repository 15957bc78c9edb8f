package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"booking-scheduler-backend/internal/scheduling"
	"booking-scheduler-backend/internal/validate"
)

type windowRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Active    *bool  `json:"active"`
}

func (r windowRequest) input() scheduling.WindowInput {
	return scheduling.WindowInput{Date: r.Date, StartTime: r.StartTime, EndTime: r.EndTime, Active: r.Active}
}

// ListWindows handles GET /api/availability.
func (h *Handler) ListWindows(c *gin.Context) {
	includePast := c.Query("include_past") == "true"
	windows, err := h.scheduling.ListWindows(c.Request.Context(), hostID(c), c.Query("date"), includePast)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, windows)
}

// CreateWindow handles POST /api/availability.
func (h *Handler) CreateWindow(c *gin.Context) {
	var req windowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	w, err := h.scheduling.CreateWindow(c.Request.Context(), hostID(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	h.cache.PurgePrefix(slotsCacheRoot)
	c.JSON(http.StatusCreated, w)
}

// UpdateWindow handles PUT /api/availability/:id.
func (h *Handler) UpdateWindow(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req windowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	w, err := h.scheduling.UpdateWindow(c.Request.Context(), hostID(c), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	h.cache.PurgePrefix(slotsCacheRoot)
	c.JSON(http.StatusOK, w)
}

// DeleteWindow handles DELETE /api/availability/:id.
func (h *Handler) DeleteWindow(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.scheduling.DeleteWindow(c.Request.Context(), hostID(c), id); err != nil {
		respondError(c, err)
		return
	}
	h.cache.PurgePrefix(slotsCacheRoot)
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, validate.Errorf("id", "invalid id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}
