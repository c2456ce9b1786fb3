package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	reqdto "storebot/internal/handler/dto/request"
	resdto "storebot/internal/handler/dto/response"
	"storebot/internal/handler/httperr"
	"storebot/internal/handler/interaction"
	"storebot/internal/usecase/commands"
	"storebot/internal/usecase/queries"
)

// InteractionHandler dispatches component activations relayed from the
// chat platform: buy buttons, quantity and coupon modals, delivery
// confirmation and gift redemption.
type InteractionHandler struct {
	orders  commands.OrderCommands
	gifts   commands.GiftCommands
	catalog queries.CatalogQueries
}

func NewInteractionHandler(
	orders commands.OrderCommands,
	gifts commands.GiftCommands,
	catalog queries.CatalogQueries,
) *InteractionHandler {
	return &InteractionHandler{orders: orders, gifts: gifts, catalog: catalog}
}

// @Summary Dispatch interaction
// @Description Handle a component activation relayed from the chat platform
// @Tags interactions
// @Accept json
// @Produce json
// @Param request body reqdto.InteractionRequest true "Interaction payload"
// @Success 200 {object} resdto.InteractionResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /interactions [post]
func (h *InteractionHandler) Dispatch(c *gin.Context) {
	var req reqdto.InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	action, err := interaction.ParseCustomID(req.CustomID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown interaction", nil)
		return
	}

	switch action.Kind {
	case interaction.KindBuyButton:
		h.listPurchasable(c)
	case interaction.KindSelectItem:
		h.promptQuantity(c, req)
	case interaction.KindQuantityModal:
		h.createOrder(c, req, action)
	case interaction.KindApplyCoupon:
		h.promptCoupon(c, action)
	case interaction.KindCouponModal:
		h.applyCoupon(c, req, action)
	case interaction.KindConfirmDelivery, interaction.KindAdminConfirm:
		h.confirmDelivery(c, req, action)
	case interaction.KindManualDelivery:
		h.manualDelivery(c, req, action)
	case interaction.KindRedeemGift:
		c.JSON(http.StatusOK, resdto.InteractionResponse{Message: "Enter your gift code."})
	case interaction.KindGiftModal, interaction.KindSelectGiftItem:
		h.redeemGift(c, req)
	case interaction.KindCloseTicket:
		h.closeTicket(c, req, action)
	default:
		httperr.AbortWithError(c, http.StatusBadRequest, interaction.ErrUnknownAction, "Unknown interaction", nil)
	}
}

func (h *InteractionHandler) listPurchasable(c *gin.Context) {
	items, err := h.catalog.ListInStock(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load catalog", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.InteractionResponse{
		Message: "Pick an item to buy.",
		Items:   resdto.FromItemList(items),
	})
}

func (h *InteractionHandler) promptQuantity(c *gin.Context, req reqdto.InteractionRequest) {
	itemID := req.Values[reqdto.ValueItemID]
	if itemID == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, nil, "No item selected", nil)
		return
	}

	view, err := h.catalog.GetItem(c.Request.Context(), itemID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusNotFound, err, "Item not found", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.InteractionResponse{
		Message: fmt.Sprintf("How many %s? %d in stock.", view.Name, view.Quantity),
		Items:   []*resdto.ItemResponse{resdto.FromItemView(view)},
	})
}

func (h *InteractionHandler) createOrder(c *gin.Context, req reqdto.InteractionRequest, action interaction.Action) {
	quantity, err := strconv.Atoi(req.Values[reqdto.ValueQuantity])
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid quantity", nil)
		return
	}

	result, err := h.orders.CreateOrder(c.Request.Context(), req.UserRef, action.ItemID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrItemNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Item not found", nil)
		case errors.Is(err, commands.ErrInsufficientStock), errors.Is(err, commands.ErrInvalidQuantity):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Order rejected", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to create order", nil)
		}
		return
	}

	resp := resdto.InteractionResponse{
		Message:    fmt.Sprintf("Order #%d opened. Pay to confirm.", result.OrderID),
		OrderID:    result.OrderID,
		TotalCents: result.TotalCents,
	}
	if result.Charge != nil {
		resp.QRCodeText = result.Charge.QRCodeText
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InteractionHandler) promptCoupon(c *gin.Context, action interaction.Action) {
	c.JSON(http.StatusOK, resdto.InteractionResponse{
		Message: "Enter your coupon code.",
		OrderID: action.OrderID,
	})
}

func (h *InteractionHandler) applyCoupon(c *gin.Context, req reqdto.InteractionRequest, action interaction.Action) {
	code := req.Values[reqdto.ValueCoupon]
	result, err := h.orders.ApplyCoupon(c.Request.Context(), action.OrderID, req.UserRef, code)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrNotOrderOwner):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Not your order", nil)
		case errors.Is(err, commands.ErrCouponNotRedeemable),
			errors.Is(err, commands.ErrCouponAlreadyApplied),
			errors.Is(err, commands.ErrOrderNotPayable):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Coupon rejected", nil)
		case errors.Is(err, commands.ErrOrderNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to apply coupon", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.InteractionResponse{
		Message:    fmt.Sprintf("Coupon %s applied: %d%% off.", result.CouponCode, result.DiscountPercent),
		OrderID:    action.OrderID,
		TotalCents: result.TotalCents,
	})
}

func (h *InteractionHandler) confirmDelivery(c *gin.Context, req reqdto.InteractionRequest, action interaction.Action) {
	result, err := h.orders.ConfirmDelivery(c.Request.Context(), action.OrderID, req.UserRef)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrNotAdmin):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Administrator only", nil)
		case errors.Is(err, commands.ErrOrderNotPaid), errors.Is(err, commands.ErrOrderNotFound):
			// The order record is gone or unusable: offer manual recovery.
			h.offerManualRecovery(c, req.UserRef)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to confirm delivery", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.InteractionResponse{
		Message:  fmt.Sprintf("Delivery confirmed for order #%d. Upload the proof photo.", result.OrderID),
		OrderID:  result.OrderID,
		ProofURL: result.ProofURL,
	})
}

func (h *InteractionHandler) offerManualRecovery(c *gin.Context, _ string) {
	items, err := h.catalog.ListItems(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load catalog", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.InteractionResponse{
		Message: "No usable order record found. Pick the delivered item to recover manually.",
		Items:   resdto.FromItemList(items),
	})
}

func (h *InteractionHandler) manualDelivery(c *gin.Context, req reqdto.InteractionRequest, action interaction.Action) {
	itemID := req.Values[reqdto.ValueItemID]
	result, err := h.orders.ManualDelivery(c.Request.Context(), action.TargetRef, itemID, req.UserRef)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrNotAdmin):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Administrator only", nil)
		case errors.Is(err, commands.ErrItemNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Item not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to recover delivery", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.InteractionResponse{
		Message:  fmt.Sprintf("Recovery order #%d created. Upload the proof photo.", result.OrderID),
		OrderID:  result.OrderID,
		ProofURL: result.ProofURL,
	})
}

func (h *InteractionHandler) redeemGift(c *gin.Context, req reqdto.InteractionRequest) {
	code := req.Values[reqdto.ValueGiftCode]
	result, err := h.gifts.RedeemGift(c.Request.Context(), req.UserRef, code)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrGiftNotRedeemable), errors.Is(err, commands.ErrGiftOutOfStock):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Gift rejected", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to redeem gift", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.InteractionResponse{
		Message: fmt.Sprintf("Gift redeemed: %s. Order #%d.", result.ItemName, result.OrderID),
		OrderID: result.OrderID,
	})
}

func (h *InteractionHandler) closeTicket(c *gin.Context, req reqdto.InteractionRequest, action interaction.Action) {
	err := h.orders.CloseTicket(c.Request.Context(), action.OrderID, req.UserRef)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrNotOrderOwner):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Not your order", nil)
		case errors.Is(err, commands.ErrOrderNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
		case errors.Is(err, commands.ErrOrderNotPayable):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Ticket can no longer be closed", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to close ticket", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.InteractionResponse{
		Message: fmt.Sprintf("Ticket for order #%d closed.", action.OrderID),
		OrderID: action.OrderID,
	})
}
