// Alerting and dashboard HTTP handlers.
//
//   - GET  /alerts/vaccinations   (overdue + due within the window)
//   - GET  /alerts/aliments       (feed close to depletion)
//   - GET  /statistics
//   - GET  /daily-check
//   - POST /daily-check           (idempotent)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lapinos/go-rabbitry-backend/internal/utils"
)

// VaccinationAlerts handles GET /alerts/vaccinations. The optional "window"
// query parameter widens or narrows the due-soon horizon in days.
func (h *Handlers) VaccinationAlerts(c *gin.Context) {
	ctx := c.Request.Context()
	window := utils.AtoiDefault(c.Query("window"), 0)

	overdue, err := h.alerts.VaccinationsOverdue(ctx)
	if err != nil {
		svcFail(c, err)
		return
	}
	soon, err := h.alerts.VaccinationsDueSoon(ctx, window)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"overdue": overdue, "due_soon": soon})
}

// FeedAlerts handles GET /alerts/aliments. The optional "threshold" query
// parameter sets the depletion horizon in days.
func (h *Handlers) FeedAlerts(c *gin.Context) {
	threshold := utils.AtoiDefault(c.Query("threshold"), 0)
	rows, err := h.alerts.FeedLow(c.Request.Context(), threshold)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, rows)
}

// Statistics handles GET /statistics.
func (h *Handlers) Statistics(c *gin.Context) {
	stats, err := h.alerts.Statistics(c.Request.Context())
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, stats)
}

// DailyCheckStatus handles GET /daily-check.
func (h *Handlers) DailyCheckStatus(c *gin.Context) {
	date, done, err := h.alerts.DailyCheckStatus(c.Request.Context())
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"date": date, "done": done})
}

// PerformDailyCheck handles POST /daily-check.
func (h *Handlers) PerformDailyCheck(c *gin.Context) {
	date, created, err := h.alerts.PerformDailyCheck(c.Request.Context())
	if err != nil {
		svcFail(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ok(c, status, gin.H{"date": date, "done": true, "created": created})
}
