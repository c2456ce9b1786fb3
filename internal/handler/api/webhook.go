package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	reqdto "storebot/internal/handler/dto/request"
	"storebot/internal/usecase/commands"
)

// WebhookHandler receives payment provider callbacks. The provider
// retries aggressively on non-2xx responses, so this endpoint always
// answers 200 once the body parses; failures are logged and the next
// retry gets another chance.
type WebhookHandler struct {
	payments commands.PaymentCommands
}

func NewWebhookHandler(payments commands.PaymentCommands) *WebhookHandler {
	return &WebhookHandler{payments: payments}
}

// @Summary Payment webhook
// @Description Receive settlement notifications from the payment provider
// @Tags webhooks
// @Accept json
// @Produce json
// @Param request body reqdto.PaymentWebhookRequest true "Provider payload"
// @Success 200 {object} map[string]string
// @Router /webhooks/payment [post]
func (h *WebhookHandler) HandlePayment(c *gin.Context) {
	var req reqdto.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Malformed bodies include the provider's reachability probes.
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	for _, event := range req.Pix {
		if err := h.payments.HandlePaymentEvent(c.Request.Context(), event.TxID); err != nil {
			slog.Error("payment event failed",
				slog.String("txid", event.TxID),
				slog.String("error", err.Error()))
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
