package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/inteduweb-admin/pkg/response"
)

type userDirectoryRefresher interface {
	RefreshUsers(ctx context.Context) error
}

// ReferenceHandler manages the cached relation picker lists.
type ReferenceHandler struct {
	refs userDirectoryRefresher
}

// NewReferenceHandler constructs a reference handler.
func NewReferenceHandler(refs userDirectoryRefresher) *ReferenceHandler {
	return &ReferenceHandler{refs: refs}
}

// RefreshUsers godoc
// @Summary Drop the cached user directory so the next form reloads it
// @Tags References
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /references/users/refresh [post]
func (h *ReferenceHandler) RefreshUsers(c *gin.Context) {
	if err := h.refs.RefreshUsers(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"refreshed": "users"})
}
