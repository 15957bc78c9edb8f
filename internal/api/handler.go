package api

import (
	"strings"

	"github.com/SherClockHolmes/webpush-go"

	"booking-scheduler-backend/internal/auth"
	"booking-scheduler-backend/internal/mw"
	"booking-scheduler-backend/internal/scheduling"
	"booking-scheduler-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      store.Store
	auth       *auth.Service
	scheduling *scheduling.Service
	cache      *mw.ResponseCache
	webpush    *webpush.Options
	baseURL    string
}

// Deps are the collaborators a Handler needs. Webpush may be nil when
// push notifications are disabled.
type Deps struct {
	Store         store.Store
	Auth          *auth.Service
	Scheduling    *scheduling.Service
	Cache         *mw.ResponseCache
	Webpush       *webpush.Options
	PublicBaseURL string
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		store:      d.Store,
		auth:       d.Auth,
		scheduling: d.Scheduling,
		cache:      d.Cache,
		webpush:    d.Webpush,
		baseURL:    strings.TrimRight(d.PublicBaseURL, "/"),
	}
}
