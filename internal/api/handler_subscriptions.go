package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-scheduler-backend/internal/model"
)

type putSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

// PutSubscription creates or replaces one of the host's push subscriptions.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	subscription := model.PushSubscription{
		Endpoint: req.Endpoint,
		HostID:   hostID(c),
		P256DH:   req.P256DH,
		Auth:     req.Auth,
	}
	if err := h.store.SavePushSubscription(c.Request.Context(), &subscription); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription removes one of the host's push subscriptions.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	if err := h.store.DeletePushSubscription(c.Request.Context(), hostID(c), req.Endpoint); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
