// Reproduction cycle HTTP handlers.
//
//   - POST /cycles                      (start: mating recorded)
//   - GET  /femelles/{id}/cycles        (history, most recent first)
//   - POST /cycles/{id}/verification    (palpation result)
//   - POST /cycles/{id}/mise-bas        (birth confirmed)
//   - POST /cycles/{id}/stop            (close the cycle)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lapinos/go-rabbitry-backend/internal/utils"
)

// StartCycleRequest is the JSON payload for starting a cycle.
type StartCycleRequest struct {
	FemelleID   uint   `json:"femelle_id" binding:"required"`
	DateSaillie string `json:"date_saillie" binding:"required"`
}

// VerificationRequest is the JSON payload for the palpation result.
type VerificationRequest struct {
	DateVerification string `json:"date_verification" binding:"required"`
	Enceinte         *bool  `json:"enceinte" binding:"required"`
}

// MiseBasRequest is the JSON payload for confirming a birth.
type MiseBasRequest struct {
	DateMiseBas   string `json:"date_mise_bas" binding:"required"`
	NombreVivants *int   `json:"nombre_vivants" binding:"required"`
	NombreMorts   int    `json:"nombre_morts"`
}

// StopCycleRequest is the JSON payload for closing a cycle.
type StopCycleRequest struct {
	Succes *bool `json:"succes" binding:"required"`
}

// StartCycle handles POST /cycles.
func (h *Handlers) StartCycle(c *gin.Context) {
	var req StartCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "femelle_id and date_saillie are required")
		return
	}
	cycle, err := h.cycles.Start(c.Request.Context(), req.FemelleID, req.DateSaillie)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusCreated, cycle)
}

// ListCycles handles GET /femelles/:id/cycles.
func (h *Handlers) ListCycles(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid femelle id")
		return
	}
	rows, err := h.cycles.History(c.Request.Context(), id)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, rows)
}

// VerifyGestation handles POST /cycles/:id/verification.
func (h *Handlers) VerifyGestation(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid cycle id")
		return
	}
	var req VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date_verification and enceinte are required")
		return
	}
	cycle, err := h.cycles.VerifyGestation(c.Request.Context(), id, req.DateVerification, *req.Enceinte)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, cycle)
}

// ConfirmBirth handles POST /cycles/:id/mise-bas.
func (h *Handlers) ConfirmBirth(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid cycle id")
		return
	}
	var req MiseBasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date_mise_bas and nombre_vivants are required")
		return
	}
	cycle, err := h.cycles.ConfirmBirth(c.Request.Context(), id, req.DateMiseBas, *req.NombreVivants, req.NombreMorts)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, cycle)
}

// StopCycle handles POST /cycles/:id/stop.
func (h *Handlers) StopCycle(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid cycle id")
		return
	}
	var req StopCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "succes is required")
		return
	}
	cycle, err := h.cycles.Stop(c.Request.Context(), id, *req.Succes)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, cycle)
}
