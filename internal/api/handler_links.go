package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-scheduler-backend/internal/model"
)

type linkResponse struct {
	model.BookingLink
	FullURL string `json:"full_url"`
}

func (h *Handler) linkResponse(l model.BookingLink) linkResponse {
	return linkResponse{BookingLink: l, FullURL: h.baseURL + "/book/" + l.LinkID}
}

type createLinkRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreateLink handles POST /api/links.
func (h *Handler) CreateLink(c *gin.Context) {
	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	link, err := h.scheduling.CreateLink(c.Request.Context(), hostID(c), req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.linkResponse(*link))
}

// ListLinks handles GET /api/links.
func (h *Handler) ListLinks(c *gin.Context) {
	links, err := h.scheduling.ListLinks(c.Request.Context(), hostID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]linkResponse, 0, len(links))
	for _, l := range links {
		resp = append(resp, h.linkResponse(l))
	}
	c.JSON(http.StatusOK, resp)
}

type publicLinkResponse struct {
	LinkID      string `json:"link_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	HostName    string `json:"host_name"`
}

// GetPublicLink handles GET /api/links/:linkId for visitors.
func (h *Handler) GetPublicLink(c *gin.Context) {
	link, err := h.scheduling.ResolveLink(c.Request.Context(), c.Param("linkId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, publicLinkResponse{
		LinkID:      link.LinkID,
		Title:       link.Title,
		Description: link.Description,
		HostName:    link.Host.Name,
	})
}

// DeactivateLink handles DELETE /api/links/:linkId.
func (h *Handler) DeactivateLink(c *gin.Context) {
	linkID := c.Param("linkId")
	if err := h.scheduling.DeactivateLink(c.Request.Context(), hostID(c), linkID); err != nil {
		respondError(c, err)
		return
	}
	h.cache.Purge(linkCacheKey(linkID))
	h.cache.PurgePrefix(slotsCachePrefix(linkID))
	c.Status(http.StatusNoContent)
}
