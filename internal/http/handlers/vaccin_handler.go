// Vaccine and vaccination HTTP handlers.
//
//   - GET    /vaccins
//   - POST   /vaccins
//   - PUT    /vaccins/{id}
//   - DELETE /vaccins/{id}                 (cascades records)
//   - GET    /femelles/{id}/vaccinations   (history, most recent first)
//   - POST   /femelles/{id}/vaccinations   (record shot, derives due date)
//   - DELETE /vaccinations/{id}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lapinos/go-rabbitry-backend/internal/utils"
)

// VaccinRequest is the JSON payload for creating or updating a vaccine.
type VaccinRequest struct {
	Nom        string `json:"nom" binding:"required"`
	DureeJours int    `json:"duree_jours" binding:"required"`
}

// VaccinationRequest is the JSON payload for recording a shot.
type VaccinationRequest struct {
	VaccinID        uint   `json:"vaccin_id" binding:"required"`
	DateVaccination string `json:"date_vaccination" binding:"required"`
}

// ListVaccins handles GET /vaccins.
func (h *Handlers) ListVaccins(c *gin.Context) {
	rows, err := h.vaccins.List(c.Request.Context())
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, rows)
}

// CreateVaccin handles POST /vaccins.
func (h *Handlers) CreateVaccin(c *gin.Context) {
	var req VaccinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "nom and duree_jours are required")
		return
	}
	id, err := h.vaccins.Create(c.Request.Context(), req.Nom, req.DureeJours)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"id": id})
}

// UpdateVaccin handles PUT /vaccins/:id.
func (h *Handlers) UpdateVaccin(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid vaccin id")
		return
	}
	var req VaccinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "nom and duree_jours are required")
		return
	}
	if err := h.vaccins.Update(c.Request.Context(), id, req.Nom, req.DureeJours); err != nil {
		svcFail(c, err)
		return
	}
	noContent(c)
}

// DeleteVaccin handles DELETE /vaccins/:id.
func (h *Handlers) DeleteVaccin(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid vaccin id")
		return
	}
	if err := h.vaccins.Delete(c.Request.Context(), id); err != nil {
		svcFail(c, err)
		return
	}
	noContent(c)
}

// ListVaccinations handles GET /femelles/:id/vaccinations.
func (h *Handlers) ListVaccinations(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid femelle id")
		return
	}
	rows, err := h.vaccins.History(c.Request.Context(), id)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, rows)
}

// CreateVaccination handles POST /femelles/:id/vaccinations.
func (h *Handlers) CreateVaccination(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid femelle id")
		return
	}
	var req VaccinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "vaccin_id and date_vaccination are required")
		return
	}
	rec, err := h.vaccins.Record(c.Request.Context(), id, req.VaccinID, req.DateVaccination)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusCreated, rec)
}

// DeleteVaccination handles DELETE /vaccinations/:id.
func (h *Handlers) DeleteVaccination(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid vaccination id")
		return
	}
	if err := h.vaccins.Unrecord(c.Request.Context(), id); err != nil {
		svcFail(c, err)
		return
	}
	noContent(c)
}
