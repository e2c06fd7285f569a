package v1

import (
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/usecase"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC usecase.HealthUsecase
}

func NewHealthHandler(api *gin.RouterGroup, healthUC usecase.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}
	api.GET("/health", handler.Health)
}

// Health godoc
// @Summary      Health Check
// @Description  Reports which delivery transports are configured and which rate limit store is in use.
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, "System operational", h.healthUC.Check(c.Request.Context()))
}
