package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-scheduler-backend/internal/auth"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	session, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(c *gin.Context) {
	host, err := h.auth.Me(c.Request.Context(), hostID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, host)
}

// hostID returns the authenticated host. Routes using it sit behind
// auth.RequireHost.
func hostID(c *gin.Context) int64 {
	id, _ := auth.HostID(c)
	return id
}
