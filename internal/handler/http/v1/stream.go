package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/incident_gateway/internal/stream"
)

// @Summary Stream newly inserted incidents
// @Description Long-lived text/event-stream push channel. Each insert is framed as "event: incident" with a JSON projection; comment lines are keep-alives.
// @Tags Incidents
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Failure 500 {object} map[string]string "Stream unavailable"
// @Router /incidents/stream [get]
func (h *Handler) streamIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "streamIncidents")

	client := stream.NewClient(h.cfg.StreamClientBuffer)
	if err := h.hub.Attach(client); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stream unavailable"})
		return
	}
	// Detach синхронно убирает клиента из рассылки, событий после него не будет
	defer h.hub.Detach(client)

	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache, no-transform")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")

	fmt.Fprint(c.Writer, ": stream opened\n\n")
	c.Writer.Flush()

	heartbeat := time.NewTicker(h.cfg.StreamHeartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug("Stream client disconnected")
			return
		case ev := <-client.Events():
			data, err := json.Marshal(ev)
			if err != nil {
				log.WithError(err).Error("Failed to marshal stream event")
				continue
			}
			fmt.Fprintf(c.Writer, "event: incident\ndata: %s\n\n", data)
			c.Writer.Flush()
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": heartbeat\n\n")
			c.Writer.Flush()
		}
	}
}
