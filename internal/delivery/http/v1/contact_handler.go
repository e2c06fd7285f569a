package v1

import (
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUC    domain.ContactUsecase
	maxBodyBytes int64
}

// NewContactHandler registers the contact route. Every method is routed to the
// handler so unsupported ones get a JSON 405 instead of a 404.
func NewContactHandler(api *gin.RouterGroup, contactUC domain.ContactUsecase, maxBodyBytes int64, mw ...gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC:    contactUC,
		maxBodyBytes: maxBodyBytes,
	}

	chain := make([]gin.HandlerFunc, 0, len(mw)+1)
	for _, m := range mw {
		chain = append(chain, postOnly(m))
	}
	api.Any("/send-email", append(chain, handler.SendEmail)...)
}

// postOnly skips m for anything but POST, so rejected methods and preflights
// do not use up the sender's quota.
func postOnly(m gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		m(c)
	}
}

// SendEmail godoc
// @Summary      Send Contact Message
// @Description  Relays a contact form message by SMTP, falling back to the Mailgun API.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactMessage  true  "Contact Form Data"
// @Success      200      {object}  domain.DeliveryResult
// @Failure      400      {object}  domain.DeliveryResult
// @Failure      405      {object}  domain.DeliveryResult
// @Failure      429      {object}  domain.DeliveryResult
// @Failure      500      {object}  domain.DeliveryResult
// @Router       /send-email [post]
func (h *ContactHandler) SendEmail(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodPost:
	case http.MethodOptions:
		c.Status(http.StatusOK)
		return
	default:
		_ = c.Error(apperror.MethodNotAllowed())
		return
	}

	if h.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}

	var req domain.ContactMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.BadRequest(domain.MsgMissingFields))
		return
	}

	result, err := h.contactUC.SendContactMessage(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, result.Message, nil)
}
