// Feed stock HTTP handlers.
//
//   - GET    /aliments        (list with depletion projection)
//   - POST   /aliments
//   - PUT    /aliments/{id}
//   - DELETE /aliments/{id}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lapinos/go-rabbitry-backend/internal/utils"
)

// AlimentRequest is the JSON payload for creating or updating a feed item.
// Stock is in kilograms; the ration is grams per doe per day.
type AlimentRequest struct {
	Nom           string  `json:"nom" binding:"required"`
	StockKg       float64 `json:"stock_kg"`
	ConsommationG float64 `json:"consommation_g"`
}

// ListAliments handles GET /aliments.
func (h *Handlers) ListAliments(c *gin.Context) {
	rows, err := h.aliments.List(c.Request.Context())
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, rows)
}

// CreateAliment handles POST /aliments.
func (h *Handlers) CreateAliment(c *gin.Context) {
	var req AlimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "nom is required")
		return
	}
	id, err := h.aliments.Create(c.Request.Context(), req.Nom, req.StockKg, req.ConsommationG)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"id": id})
}

// UpdateAliment handles PUT /aliments/:id.
func (h *Handlers) UpdateAliment(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid aliment id")
		return
	}
	var req AlimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "nom is required")
		return
	}
	if err := h.aliments.Update(c.Request.Context(), id, req.Nom, req.StockKg, req.ConsommationG); err != nil {
		svcFail(c, err)
		return
	}
	noContent(c)
}

// DeleteAliment handles DELETE /aliments/:id.
func (h *Handlers) DeleteAliment(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid aliment id")
		return
	}
	if err := h.aliments.Delete(c.Request.Context(), id); err != nil {
		svcFail(c, err)
		return
	}
	noContent(c)
}
