package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-scheduler-backend/internal/model"
	"booking-scheduler-backend/internal/parse"
	"booking-scheduler-backend/internal/slot"
	"booking-scheduler-backend/internal/validate"
)

const (
	linkCacheRoot  = "link:"
	slotsCacheRoot = "slots:"
)

func linkCacheKey(linkID string) string { return linkCacheRoot + linkID }

func slotsCachePrefix(linkID string) string { return slotsCacheRoot + linkID + ":" }

func slotsCacheKey(linkID, date string) string { return slotsCachePrefix(linkID) + date }

// slotsKey caches the slot list per link and normalized date. Malformed
// dates bypass the cache and get the handler's error.
func slotsKey(c *gin.Context) string {
	date, err := parse.Date(c.Query("date"))
	if err != nil {
		return ""
	}
	return slotsCacheKey(c.Param("linkId"), date)
}

func publicLinkKey(c *gin.Context) string {
	return linkCacheKey(c.Param("linkId"))
}

type slotsResponse struct {
	Date  string      `json:"date"`
	Slots []slot.Slot `json:"slots"`
}

// GetAvailableSlots handles GET /api/bookings/available/:linkId?date=.
func (h *Handler) GetAvailableSlots(c *gin.Context) {
	date, slots, err := h.scheduling.AvailableSlots(c.Request.Context(), c.Param("linkId"), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slotsResponse{Date: date, Slots: slots})
}

type createBookingRequest struct {
	LinkID       string `json:"link_id"`
	VisitorName  string `json:"visitor_name"`
	VisitorEmail string `json:"visitor_email"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Notes        string `json:"notes"`
}

type bookingResponse struct {
	model.Booking
	LinkID    string `json:"link_id"`
	LinkTitle string `json:"link_title"`
}

func newBookingResponse(b model.Booking) bookingResponse {
	return bookingResponse{Booking: b, LinkID: b.BookingLink.LinkID, LinkTitle: b.BookingLink.Title}
}

// CreateBooking handles POST /api/bookings.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	if req.LinkID == "" {
		respondError(c, validate.Errorf("link_id", "link id is required"))
		return
	}

	booking, err := h.scheduling.Admit(c.Request.Context(), req.LinkID, validate.BookingInput{
		VisitorName:  req.VisitorName,
		VisitorEmail: req.VisitorEmail,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Notes:        req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.cache.Purge(slotsCacheKey(booking.BookingLink.LinkID, booking.Date))
	c.JSON(http.StatusCreated, newBookingResponse(*booking))
}

// ListBookings handles GET /api/bookings.
func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.scheduling.ListBookings(c.Request.Context(), hostID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, newBookingResponse(b))
	}
	c.JSON(http.StatusOK, resp)
}

// CancelBooking handles POST /api/bookings/:id/cancel.
func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	booking, err := h.scheduling.Cancel(c.Request.Context(), hostID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.cache.Purge(slotsCacheKey(booking.BookingLink.LinkID, booking.Date))
	c.JSON(http.StatusOK, newBookingResponse(*booking))
}
