// Cage HTTP handlers.
//
//   - GET    /clapets        (list with occupant)
//   - POST   /clapets        (create)
//   - DELETE /clapets/{id}   (delete, frees occupant)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lapinos/go-rabbitry-backend/internal/utils"
)

// CreateClapetRequest is the JSON payload for creating a cage.
type CreateClapetRequest struct {
	Numero string `json:"numero" binding:"required"`
}

// ListClapets handles GET /clapets.
func (h *Handlers) ListClapets(c *gin.Context) {
	rows, err := h.clapets.List(c.Request.Context())
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, rows)
}

// CreateClapet handles POST /clapets.
func (h *Handlers) CreateClapet(c *gin.Context) {
	var req CreateClapetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "numero is required")
		return
	}
	id, err := h.clapets.Create(c.Request.Context(), req.Numero)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"id": id, "numero": req.Numero})
}

// DeleteClapet handles DELETE /clapets/:id.
func (h *Handlers) DeleteClapet(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid clapet id")
		return
	}
	if err := h.clapets.Delete(c.Request.Context(), id); err != nil {
		svcFail(c, err)
		return
	}
	noContent(c)
}
