package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resdto "storebot/internal/handler/dto/response"
	"storebot/internal/handler/httperr"
	"storebot/internal/usecase/queries"
)

type CatalogHandler struct {
	q queries.CatalogQueries
}

func NewCatalogHandler(q queries.CatalogQueries) *CatalogHandler {
	return &CatalogHandler{q: q}
}

// @Summary List catalog
// @Description List all items with prices and stock
// @Tags catalog
// @Produce json
// @Success 200 {array} resdto.ItemResponse
// @Failure 500 {object} map[string]string
// @Router /catalog [get]
func (h *CatalogHandler) List(c *gin.Context) {
	items, err := h.q.ListItems(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load catalog", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": resdto.FromItemList(items)})
}
