// Doe HTTP handlers.
//
//   - GET    /femelles          (list with joined infos)
//   - GET    /femelles/status   (dashboard summaries with cycle state)
//   - GET    /femelles/{id}
//   - POST   /femelles
//   - PUT    /femelles/{id}
//   - PATCH  /femelles/{id}/statut
//   - DELETE /femelles/{id}     (cascades history)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lapinos/go-rabbitry-backend/internal/services"
	"github.com/lapinos/go-rabbitry-backend/internal/utils"
)

// FemelleRequest is the JSON payload for creating or updating a doe.
type FemelleRequest struct {
	Numero        string  `json:"numero" binding:"required"`
	ClapetID      *uint   `json:"clapet_id"`
	DateNaissance *string `json:"date_naissance"`
	Statut        string  `json:"statut"`
}

// StatutRequest is the JSON payload for changing a doe's life status.
type StatutRequest struct {
	Statut string `json:"statut" binding:"required"`
}

// ListFemelles handles GET /femelles.
func (h *Handlers) ListFemelles(c *gin.Context) {
	rows, err := h.femelles.List(c.Request.Context())
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, rows)
}

// FemelleStatuses handles GET /femelles/status.
func (h *Handlers) FemelleStatuses(c *gin.Context) {
	rows, err := h.cycles.FemelleStatuses(c.Request.Context())
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, rows)
}

// GetFemelle handles GET /femelles/:id.
func (h *Handlers) GetFemelle(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid femelle id")
		return
	}
	f, err := h.femelles.Get(c.Request.Context(), id)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, f)
}

// CreateFemelle handles POST /femelles.
func (h *Handlers) CreateFemelle(c *gin.Context) {
	var req FemelleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "numero is required")
		return
	}
	id, err := h.femelles.Create(c.Request.Context(), services.FemelleInput{
		Numero:        req.Numero,
		ClapetID:      req.ClapetID,
		DateNaissance: req.DateNaissance,
		Statut:        req.Statut,
	})
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"id": id})
}

// UpdateFemelle handles PUT /femelles/:id.
func (h *Handlers) UpdateFemelle(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid femelle id")
		return
	}
	var req FemelleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "numero is required")
		return
	}
	err := h.femelles.Update(c.Request.Context(), id, services.FemelleInput{
		Numero:        req.Numero,
		ClapetID:      req.ClapetID,
		DateNaissance: req.DateNaissance,
		Statut:        req.Statut,
	})
	if err != nil {
		svcFail(c, err)
		return
	}
	noContent(c)
}

// UpdateFemelleStatut handles PATCH /femelles/:id/statut.
func (h *Handlers) UpdateFemelleStatut(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid femelle id")
		return
	}
	var req StatutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "statut is required")
		return
	}
	if err := h.femelles.SetStatut(c.Request.Context(), id, req.Statut); err != nil {
		svcFail(c, err)
		return
	}
	noContent(c)
}

// DeleteFemelle handles DELETE /femelles/:id.
func (h *Handlers) DeleteFemelle(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid femelle id")
		return
	}
	if err := h.femelles.Delete(c.Request.Context(), id); err != nil {
		svcFail(c, err)
		return
	}
	noContent(c)
}
