package cart

import (
	"github.com/gin-gonic/gin"

	"ecocart/controller/respond"
	"ecocart/dto"
	"ecocart/middleware"
	"ecocart/services"
)

func CartController(router *gin.Engine, carts *services.CartService, sessions middleware.Authenticator) {
	routes := router.Group("/cart", middleware.AccessTokenMiddleware(sessions))
	{
		routes.GET("", func(c *gin.Context) {
			GetCart(c, carts)
		})
		routes.POST("/items", func(c *gin.Context) {
			AddItem(c, carts)
		})
		routes.PUT("/items/:itemId", func(c *gin.Context) {
			UpdateItem(c, carts)
		})
	}
}

func GetCart(c *gin.Context, carts *services.CartService) {
	cart, err := carts.GetCart(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "", cart)
}

func AddItem(c *gin.Context, carts *services.CartService) {
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "productId is required", "productId")
		return
	}

	cart, err := carts.AddItem(c.Request.Context(), middleware.UserID(c), req.ProductID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Item added to cart!", cart)
}

func UpdateItem(c *gin.Context, carts *services.CartService) {
	var req dto.QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "quantity is required", "quantity")
		return
	}
	change, err := req.Change()
	if err != nil {
		respond.BadRequest(c, "Quantity must be zero or more.", "quantity")
		return
	}

	cart, err := carts.SetItemQuantity(c.Request.Context(), middleware.UserID(c), c.Param("itemId"), change)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Cart updated.", cart)
}
