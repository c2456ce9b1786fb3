package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reqdto "storebot/internal/handler/dto/request"
	resdto "storebot/internal/handler/dto/response"
	"storebot/internal/handler/httperr"
	"storebot/internal/usecase/commands"
	"storebot/internal/usecase/queries"
)

// AdminHandler covers the authenticated store-management surface:
// catalog maintenance, coupon and gift issuance, reviews and sales stats.
type AdminHandler struct {
	items   commands.ItemCommands
	coupons commands.CouponCommands
	gifts   commands.GiftCommands

	couponQueries queries.CouponQueries
	giftQueries   queries.GiftQueries
	reviewQueries queries.ReviewQueries
	statsQueries  queries.StatsQueries
}

func NewAdminHandler(
	items commands.ItemCommands,
	coupons commands.CouponCommands,
	gifts commands.GiftCommands,
	couponQueries queries.CouponQueries,
	giftQueries queries.GiftQueries,
	reviewQueries queries.ReviewQueries,
	statsQueries queries.StatsQueries,
) *AdminHandler {
	return &AdminHandler{
		items:         items,
		coupons:       coupons,
		gifts:         gifts,
		couponQueries: couponQueries,
		giftQueries:   giftQueries,
		reviewQueries: reviewQueries,
		statsQueries:  statsQueries,
	}
}

// @Summary Upsert item
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body reqdto.UpsertItemRequest true "Item"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /admin/items [put]
func (h *AdminHandler) UpsertItem(c *gin.Context) {
	var req reqdto.UpsertItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	id, err := h.items.UpsertItem(c.Request.Context(), req.Name, req.Emoji, *req.PriceCents, req.Quantity, req.MaxCapacity)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Item rejected", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// @Summary Delete item
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path string true "Item ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/items/{id} [delete]
func (h *AdminHandler) DeleteItem(c *gin.Context) {
	if err := h.items.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, commands.ErrItemNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Item not found", nil)
		case errors.Is(err, commands.ErrItemInUse):
			httperr.AbortWithError(c, http.StatusConflict, err, "Item has orders or gift codes", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to delete item", nil)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Create coupon
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body reqdto.CreateCouponRequest true "Coupon"
// @Success 201 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/coupons [post]
func (h *AdminHandler) CreateCoupon(c *gin.Context) {
	var req reqdto.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	id, err := h.coupons.CreateCoupon(c.Request.Context(), req.Code, req.DiscountPercent, req.Uses)
	if err != nil {
		if errors.Is(err, commands.ErrDuplicateCoupon) {
			httperr.AbortWithError(c, http.StatusConflict, err, "Coupon code already exists", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Coupon rejected", nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// @Summary List coupons
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string][]resdto.CouponResponse
// @Router /admin/coupons [get]
func (h *AdminHandler) ListCoupons(c *gin.Context) {
	views, err := h.couponQueries.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list coupons", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupons": resdto.FromCouponList(views)})
}

// @Summary Activate or deactivate coupon
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Coupon ID"
// @Param request body reqdto.SetCouponActiveRequest true "Active flag"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/coupons/{id}/active [patch]
func (h *AdminHandler) SetCouponActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid coupon ID", nil)
		return
	}

	var req reqdto.SetCouponActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	if err := h.coupons.SetCouponActive(c.Request.Context(), id, *req.Active); err != nil {
		if errors.Is(err, commands.ErrCouponNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to update coupon", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Delete coupon
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path string true "Coupon ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /admin/coupons/{id} [delete]
func (h *AdminHandler) DeleteCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid coupon ID", nil)
		return
	}

	if err := h.coupons.DeleteCoupon(c.Request.Context(), id); err != nil {
		if errors.Is(err, commands.ErrCouponNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to delete coupon", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Create gift code
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body reqdto.CreateGiftRequest true "Gift"
// @Success 201 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/gifts [post]
func (h *AdminHandler) CreateGift(c *gin.Context) {
	var req reqdto.CreateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.gifts.CreateGift(c.Request.Context(), req.ItemID)
	if err != nil {
		if errors.Is(err, commands.ErrItemNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Item not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to create gift", nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":   result.GiftID.String(),
		"code": result.Code,
	})
}

// @Summary List gift codes
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string][]resdto.GiftResponse
// @Router /admin/gifts [get]
func (h *AdminHandler) ListGifts(c *gin.Context) {
	views, err := h.giftQueries.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list gifts", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gifts": resdto.FromGiftList(views)})
}

// @Summary List recent reviews
// @Tags admin
// @Produce json
// @Security Bearer
// @Param limit query int false "Page size"
// @Success 200 {object} map[string][]queries.ReviewView
// @Router /admin/reviews [get]
func (h *AdminHandler) ListReviews(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	views, err := h.reviewQueries.ListRecent(c.Request.Context(), limit)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list reviews", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": views})
}

// @Summary Sales statistics
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} queries.SalesStats
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.statsQueries.SalesStats(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to compute stats", nil)
		return
	}
	c.JSON(http.StatusOK, stats)
}
