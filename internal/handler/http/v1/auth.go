package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Check login credentials
// @Description Compares submitted credentials with the configured pair. Does not issue tokens and does not gate other routes.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} LoginResponse "Missing credentials"
// @Failure 500 {object} LoginResponse "Credentials not configured"
// @Router /login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	log := h.logger.WithField("method", "login")

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, LoginResponse{Approved: false, Reason: "missing_credentials"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		c.JSON(http.StatusBadRequest, LoginResponse{Approved: false, Reason: "missing_credentials"})
		return
	}

	if !h.cfg.AuthEnabled {
		c.JSON(http.StatusOK, LoginResponse{Approved: true, Reason: "auth_disabled"})
		return
	}

	if h.cfg.AuthUsername == "" || h.cfg.AuthPassword == "" {
		log.Warn("Auth is enabled but credentials are not configured")
		c.JSON(http.StatusInternalServerError, LoginResponse{Approved: false, Reason: "credentials_not_configured"})
		return
	}

	approved := input.Username == h.cfg.AuthUsername && input.Password == h.cfg.AuthPassword
	c.JSON(http.StatusOK, LoginResponse{Approved: approved})
}
