package http

import (
	"net/http"

	"ytcollector/domain/repository"

	"github.com/gin-gonic/gin"
)

type IHealthHandler interface {
	Healthz(c *gin.Context)
}

type HealthHandler struct {
	store repository.IRecordStore
}

func NewHealthHandler(store repository.IRecordStore) IHealthHandler {
	return &HealthHandler{store: store}
}

// Healthz reports OK when a store session can be opened.
func (h *HealthHandler) Healthz(ctx *gin.Context) {
	session, err := h.store.Open(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": err.Error()})
		return
	}
	_ = session.Close()
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
