//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"storebot/internal/handler/api"
	"storebot/tests/common/httptest"
	commandsmock "storebot/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type WebhookHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockPayments *commandsmock.MockPaymentCommands
	handler      *api.WebhookHandler
}

func (s *WebhookHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockPayments = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.handler = api.NewWebhookHandler(s.mockPayments)

	s.router.POST("/webhooks/payment", s.handler.HandlePayment)
}

func (s *WebhookHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWebhookHandlerSuite(t *testing.T) {
	suite.Run(t, new(WebhookHandlerTestSuite))
}

func (s *WebhookHandlerTestSuite) TestHandlePayment() {
	url := "/webhooks/payment"

	s.Run("success: processes every event and answers 200", func() {
		s.mockPayments.EXPECT().HandlePaymentEvent(gomock.Any(), "TICKET1").Return(nil).Times(1)
		s.mockPayments.EXPECT().HandlePaymentEvent(gomock.Any(), "TICKET2").Return(nil).Times(1)

		body := map[string]any{"pix": []map[string]string{{"txid": "TICKET1"}, {"txid": "TICKET2"}}}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		var response map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("ok", response["status"])
	})

	s.Run("still 200 when an event fails", func() {
		s.mockPayments.EXPECT().HandlePaymentEvent(gomock.Any(), "TICKET3").
			Return(errors.New("db unavailable")).Times(1)

		body := map[string]any{"pix": []map[string]string{{"txid": "TICKET3"}}}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		var response map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("ok", response["status"])
	})

	s.Run("malformed body is acknowledged, not retried", func() {
		rec := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, url, []byte("not-json"))

		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "ignored")
	})
}
