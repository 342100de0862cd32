package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/MikeMC777/leathershop/internal/docs"
	"github.com/MikeMC777/leathershop/internal/httpx"
)

func newRouter(a *app, dev bool) *gin.Engine {
	if !dev {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/healthz", healthHandler(a))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limited := a.limiter.Middleware()
	api := r.Group("/api")
	{
		api.GET("/products", listProductsHandler(a))
		api.GET("/products/featured", featuredHandler(a))
		api.GET("/products/:id", getProductHandler(a))
		api.GET("/categories", listCategoriesHandler(a))
		api.GET("/settings", getSettingsHandler(a))
		api.GET("/coupons/:code", checkCouponHandler(a))

		api.GET("/cart", getCartHandler(a))
		api.POST("/cart", addToCartHandler(a))
		api.DELETE("/cart", clearCartHandler(a))
		api.PUT("/cart/:id", updateCartHandler(a))
		api.DELETE("/cart/:id", removeFromCartHandler(a))

		api.POST("/checkout", limited, checkoutHandler(a))
		api.POST("/orders/quick", limited, quickOrderHandler(a))
		api.GET("/orders/track", limited, trackHandler(a))
		api.POST("/admin/login", limited, loginHandler(a))
	}

	admin := api.Group("/admin", httpx.RequireAdmin(a.gate))
	{
		admin.POST("/logout", logoutHandler(a))
		admin.GET("/dashboard", dashboardHandler(a))

		admin.GET("/orders", listOrdersHandler(a))
		admin.GET("/orders/export", exportOrdersHandler(a))
		admin.PUT("/orders/:id/status", updateOrderStatusHandler(a))
		admin.DELETE("/orders/:id", deleteOrderHandler(a))

		admin.GET("/products", adminProductsHandler(a))
		admin.PUT("/products", replaceProductsHandler(a))
		admin.POST("/products", createProductHandler(a))
		admin.PUT("/products/:id", updateProductHandler(a))
		admin.DELETE("/products/:id", deleteProductHandler(a))
		admin.PATCH("/products/:id/toggle", toggleProductHandler(a))

		admin.GET("/categories", listCategoriesHandler(a))
		admin.PUT("/categories", replaceCategoriesHandler(a))
		admin.POST("/categories", createCategoryHandler(a))
		admin.PUT("/categories/:id", updateCategoryHandler(a))
		admin.DELETE("/categories/:id", deleteCategoryHandler(a))

		admin.GET("/coupons", listCouponsHandler(a))
		admin.PUT("/coupons", replaceCouponsHandler(a))
		admin.POST("/coupons", createCouponHandler(a))
		admin.PUT("/coupons/:id", updateCouponHandler(a))
		admin.DELETE("/coupons/:id", deleteCouponHandler(a))
		admin.PATCH("/coupons/:id/toggle", toggleCouponHandler(a))

		admin.GET("/settings", getSettingsHandler(a))
		admin.PUT("/settings", updateSettingsHandler(a))

		admin.GET("/notifications", notificationsHandler(a))
		admin.POST("/notifications/read", markReadHandler(a))
		admin.GET("/events", eventsHandler(a))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, httpx.HTTPError{Error: "not found"})
	})
	return r
}

// healthHandler godoc
// @Summary  Liveness and store reachability
// @Tags     health
// @Success  200 {string} string "ok"
// @Failure  503 {object} httpx.HTTPError
// @Router   /healthz [get]
func healthHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := pingStore(c.Request.Context(), a.store); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpx.HTTPError{Error: "store unavailable"})
			return
		}
		c.String(http.StatusOK, "ok")
	}
}
