package groupcart

import (
	"github.com/gin-gonic/gin"

	"ecocart/controller/respond"
	"ecocart/dto"
	"ecocart/middleware"
	"ecocart/model"
	"ecocart/services"
)

func GroupCartController(router *gin.Engine, groups *services.GroupCartService, sessions middleware.Authenticator) {
	routes := router.Group("/carts", middleware.AccessTokenMiddleware(sessions))
	{
		routes.GET("", func(c *gin.Context) {
			ListCarts(c, groups)
		})
		routes.POST("", func(c *gin.Context) {
			CreateCart(c, groups)
		})
		routes.POST("/join", func(c *gin.Context) {
			JoinCart(c, groups)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetCart(c, groups)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateCart(c, groups)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteCart(c, groups)
		})
		routes.POST("/:id/leave", func(c *gin.Context) {
			LeaveCart(c, groups)
		})
		routes.POST("/:id/items", func(c *gin.Context) {
			AddItem(c, groups)
		})
		routes.PUT("/:id/items/:itemId", func(c *gin.Context) {
			UpdateItem(c, groups)
		})
	}
}

func ListCarts(c *gin.Context, groups *services.GroupCartService) {
	carts, err := groups.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "", carts)
}

func CreateCart(c *gin.Context, groups *services.GroupCartService) {
	var req dto.CreateGroupCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "Invalid request format", "")
		return
	}

	cart, err := groups.Create(c.Request.Context(), middleware.UserID(c), services.CreateGroupCartInput{
		Name:    req.Name,
		Address: req.Address,
		Type:    model.CartType(req.Type),
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Created(c, "Group cart created!", cart)
}

func JoinCart(c *gin.Context, groups *services.GroupCartService) {
	var req dto.JoinGroupCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "Invalid request format", "")
		return
	}

	cart, err := groups.Join(c.Request.Context(), middleware.UserID(c), req.InviteCode)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Joined "+cart.Name+"!", cart)
}

func GetCart(c *gin.Context, groups *services.GroupCartService) {
	cart, err := groups.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "", cart)
}

func UpdateCart(c *gin.Context, groups *services.GroupCartService) {
	var req dto.UpdateGroupCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "Invalid request format", "")
		return
	}

	cart, err := groups.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Name, req.Address)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Cart updated.", cart)
}

func DeleteCart(c *gin.Context, groups *services.GroupCartService) {
	if err := groups.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Cart deleted.", nil)
}

func LeaveCart(c *gin.Context, groups *services.GroupCartService) {
	if err := groups.Leave(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "You left the cart.", nil)
}

func AddItem(c *gin.Context, groups *services.GroupCartService) {
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "productId is required", "productId")
		return
	}

	cart, err := groups.AddItem(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.ProductID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Item added to "+cart.Name+"!", cart)
}

func UpdateItem(c *gin.Context, groups *services.GroupCartService) {
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

	cart, err := groups.UpdateItemQuantity(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("itemId"), change)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Cart updated.", cart)
}
