// Settings HTTP handlers.
//
//   - GET /settings/{key}
//   - PUT /settings/{key}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SettingRequest is the JSON payload for storing a preference value.
type SettingRequest struct {
	Value string `json:"value" binding:"required"`
}

// GetSetting handles GET /settings/:key.
func (h *Handlers) GetSetting(c *gin.Context) {
	key := c.Param("key")
	value, err := h.settings.Get(c.Request.Context(), key)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"key": key, "value": value})
}

// PutSetting handles PUT /settings/:key.
func (h *Handlers) PutSetting(c *gin.Context) {
	key := c.Param("key")
	var req SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "value is required")
		return
	}
	if err := h.settings.Set(c.Request.Context(), key, req.Value); err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"key": key, "value": req.Value})
}
