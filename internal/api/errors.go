package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-scheduler-backend/internal/auth"
	"booking-scheduler-backend/internal/scheduling"
	"booking-scheduler-backend/internal/store"
	"booking-scheduler-backend/internal/validate"
)

type errorKind struct {
	target error
	status int
	code   string
}

var errorKinds = []errorKind{
	{store.ErrLinkNotFound, http.StatusNotFound, "link_not_found"},
	{store.ErrNotFound, http.StatusNotFound, "not_found"},
	{store.ErrWindowOverlap, http.StatusConflict, "window_overlap"},
	{scheduling.ErrSlotNotAvailable, http.StatusConflict, "slot_not_available"},
	{store.ErrSlotAlreadyBooked, http.StatusConflict, "slot_already_booked"},
	{store.ErrStatusChanged, http.StatusConflict, "status_changed"},
	{store.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{auth.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
}

// respondError writes the JSON error body for err and aborts the request.
func respondError(c *gin.Context, err error) {
	var verr *validate.Error
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   verr.Error(),
			"code":    "validation_error",
			"details": verr.Fields,
		})
		return
	}

	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			c.AbortWithStatusJSON(k.status, gin.H{"error": k.target.Error(), "code": k.code})
			return
		}
	}

	log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "internal"})
}

// badBody reports an undecodable request body as a validation failure.
func badBody(c *gin.Context, err error) {
	respondError(c, validate.Errorf("body", "invalid request body: %v", err))
}
