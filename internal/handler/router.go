package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"storebot/internal/handler/api"
	"storebot/internal/handler/middleware"
	"storebot/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	catalogHandler *api.CatalogHandler,
	interactionHandler *api.InteractionHandler,
	webhookHandler *api.WebhookHandler,
	orderHandler *api.OrderHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, cfg, authHandler, catalogHandler, interactionHandler, webhookHandler, orderHandler, adminHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	catalogHandler *api.CatalogHandler,
	interactionHandler *api.InteractionHandler,
	webhookHandler *api.WebhookHandler,
	orderHandler *api.OrderHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/auth/login", Handler: authHandler.Login},
			{Method: http.MethodGet, Path: "/catalog", Handler: catalogHandler.List},
			{Method: http.MethodPost, Path: "/webhooks/payment", Handler: webhookHandler.HandlePayment},
		})

		// Activations relayed by the chat bot. The shared secret keeps the
		// endpoint from being driven by anything but the relay.
		interactions := apiGroup.Group("/interactions")
		interactions.Use(middleware.RequireInteractionSecret(cfg.Chat.InteractionSecret))
		{
			addRoutes(interactions, []route{
				{Method: http.MethodPost, Path: "", Handler: interactionHandler.Dispatch},
			})
		}

		orders := apiGroup.Group("/orders")
		orders.Use(middleware.RequireInteractionSecret(cfg.Chat.InteractionSecret))
		{
			addRoutes(orders, []route{
				{Method: http.MethodPost, Path: "/:id/proof", Handler: orderHandler.SubmitProof},
				{Method: http.MethodPost, Path: "/:id/review", Handler: orderHandler.SubmitReview},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth())
		{
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/orders", Handler: orderHandler.List},
				{Method: http.MethodGet, Path: "/orders/:id", Handler: orderHandler.Get},
				{Method: http.MethodPut, Path: "/items", Handler: adminHandler.UpsertItem},
				{Method: http.MethodDelete, Path: "/items/:id", Handler: adminHandler.DeleteItem},
				{Method: http.MethodPost, Path: "/coupons", Handler: adminHandler.CreateCoupon},
				{Method: http.MethodGet, Path: "/coupons", Handler: adminHandler.ListCoupons},
				{Method: http.MethodPatch, Path: "/coupons/:id/active", Handler: adminHandler.SetCouponActive},
				{Method: http.MethodDelete, Path: "/coupons/:id", Handler: adminHandler.DeleteCoupon},
				{Method: http.MethodPost, Path: "/gifts", Handler: adminHandler.CreateGift},
				{Method: http.MethodGet, Path: "/gifts", Handler: adminHandler.ListGifts},
				{Method: http.MethodGet, Path: "/reviews", Handler: adminHandler.ListReviews},
				{Method: http.MethodGet, Path: "/stats", Handler: adminHandler.Stats},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
