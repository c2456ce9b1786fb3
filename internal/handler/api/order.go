package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	reqdto "storebot/internal/handler/dto/request"
	resdto "storebot/internal/handler/dto/response"
	"storebot/internal/handler/httperr"
	"storebot/internal/usecase/commands"
	"storebot/internal/usecase/queries"
)

type OrderHandler struct {
	orders  commands.OrderCommands
	reviews commands.ReviewCommands
	queries queries.OrderQueries
}

func NewOrderHandler(
	orders commands.OrderCommands,
	reviews commands.ReviewCommands,
	orderQueries queries.OrderQueries,
) *OrderHandler {
	return &OrderHandler{orders: orders, reviews: reviews, queries: orderQueries}
}

func parseOrderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order ID", nil)
		return 0, false
	}
	return id, true
}

// @Summary Submit delivery proof
// @Description Attach the delivery proof photo to an order awaiting it
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body reqdto.SubmitProofRequest true "Proof photo"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/proof [post]
func (h *OrderHandler) SubmitProof(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req reqdto.SubmitProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	if err := h.orders.SubmitProof(c.Request.Context(), orderID, req.PhotoURL, req.Note); err != nil {
		switch {
		case errors.Is(err, commands.ErrOrderNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
		case errors.Is(err, commands.ErrOrderNotAwaitingProof):
			httperr.AbortWithError(c, http.StatusConflict, err, "Order is not awaiting proof", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to record proof", nil)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Submit review
// @Description Record the buyer's review and close the order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body reqdto.SubmitReviewRequest true "Review"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/review [post]
func (h *OrderHandler) SubmitReview(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req reqdto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.reviews.SubmitReview(c.Request.Context(), orderID, req.BuyerRef, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrOrderNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
		case errors.Is(err, commands.ErrOrderNotReviewable):
			httperr.AbortWithError(c, http.StatusConflict, err, "Order is not open for review", nil)
		case errors.Is(err, commands.ErrDuplicateReview):
			httperr.AbortWithError(c, http.StatusConflict, err, "Order already reviewed", nil)
		default:
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Review rejected", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"review_id": result.ReviewID.String(),
		"stars":     result.Stars,
	})
}

// @Summary Get order
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path int true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 404 {object} map[string]string
// @Router /admin/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), orderID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

// @Summary List orders
// @Tags admin
// @Produce json
// @Security Bearer
// @Param buyer query string false "Filter by buyer reference"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string][]resdto.OrderResponse
// @Router /admin/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if buyer := c.Query("buyer"); buyer != "" {
		views, err := h.queries.ListByBuyer(ctx, buyer)
		if err != nil {
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list orders", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": resdto.FromOrderList(views)})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	views, err := h.queries.List(ctx, limit, offset)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list orders", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": resdto.FromOrderList(views)})
}
