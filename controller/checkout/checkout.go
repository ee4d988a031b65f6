package checkout

import (
	"github.com/gin-gonic/gin"

	"ecocart/controller/respond"
	"ecocart/middleware"
	"ecocart/services"
)

func CheckoutController(router *gin.Engine, checkout *services.CheckoutService, sessions middleware.Authenticator) {
	router.GET("/checkout", middleware.AccessTokenMiddleware(sessions), func(c *gin.Context) {
		view, err := checkout.Checkout(c.Request.Context(), middleware.UserID(c), c.Query("cartId"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		respond.OK(c, "", view)
	})
}
