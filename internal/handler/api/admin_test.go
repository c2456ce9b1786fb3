//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"storebot/internal/handler/api"
	"storebot/internal/usecase/commands"
	"storebot/tests/common/httptest"
	commandsmock "storebot/tests/mock/commands"
	queriesmock "storebot/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AdminHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockItems   *commandsmock.MockItemCommands
	mockCoupons *commandsmock.MockCouponCommands
	mockGifts   *commandsmock.MockGiftCommands
	handler     *api.AdminHandler
}

func (s *AdminHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockItems = commandsmock.NewMockItemCommands(s.mockCtrl)
	s.mockCoupons = commandsmock.NewMockCouponCommands(s.mockCtrl)
	s.mockGifts = commandsmock.NewMockGiftCommands(s.mockCtrl)
	s.handler = api.NewAdminHandler(
		s.mockItems,
		s.mockCoupons,
		s.mockGifts,
		queriesmock.NewMockCouponQueries(s.mockCtrl),
		queriesmock.NewMockGiftQueries(s.mockCtrl),
		queriesmock.NewMockReviewQueries(s.mockCtrl),
		queriesmock.NewMockStatsQueries(s.mockCtrl),
	)

	s.router.PUT("/admin/items", s.handler.UpsertItem)
	s.router.DELETE("/admin/items/:id", s.handler.DeleteItem)
}

func (s *AdminHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerTestSuite))
}

func (s *AdminHandlerTestSuite) TestUpsertItem() {
	s.Run("success: creates an item", func() {
		s.mockItems.EXPECT().
			UpsertItem(gomock.Any(), "Mango Juice", "🥭", int64(70), 260, 500).
			Return("MANGO_JUICE", nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/admin/items", map[string]any{
			"name": "Mango Juice", "emoji": "🥭", "price_cents": 70, "quantity": 260, "max_capacity": 500,
		}, "")

		var response map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("MANGO_JUICE", response["id"])
	})

	s.Run("success: zero price is a valid item", func() {
		s.mockItems.EXPECT().
			UpsertItem(gomock.Any(), "Freebie", "", int64(0), 5, 10).
			Return("FREEBIE", nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/admin/items", map[string]any{
			"name": "Freebie", "price_cents": 0, "quantity": 5, "max_capacity": 10,
		}, "")

		var response map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("FREEBIE", response["id"])
	})

	s.Run("validation errors", func() {
		cases := []struct {
			name string
			body map[string]any
		}{
			{name: "missing name", body: map[string]any{"price_cents": 70, "max_capacity": 10}},
			{name: "missing price", body: map[string]any{"name": "Mango", "max_capacity": 10}},
			{name: "negative price", body: map[string]any{"name": "Mango", "price_cents": -1, "max_capacity": 10}},
			{name: "zero capacity", body: map[string]any{"name": "Mango", "price_cents": 70, "max_capacity": 0}},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/admin/items", tc.body, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})
}

func (s *AdminHandlerTestSuite) TestDeleteItem() {
	s.Run("success: deletes an unreferenced item", func() {
		s.mockItems.EXPECT().DeleteItem(gomock.Any(), "MANGO").Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/admin/items/MANGO", nil, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("unknown item", func() {
		s.mockItems.EXPECT().DeleteItem(gomock.Any(), "DURIAN").
			Return(commands.ErrItemNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/admin/items/DURIAN", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Item not found")
	})

	s.Run("item with orders or gifts conflicts", func() {
		s.mockItems.EXPECT().DeleteItem(gomock.Any(), "MANGO").
			Return(commands.ErrItemInUse).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/admin/items/MANGO", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Item has orders or gift codes")
	})
}
