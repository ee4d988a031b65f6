package product

import (
	"github.com/gin-gonic/gin"

	"ecocart/controller/respond"
	"ecocart/services"
)

func ProductController(router *gin.Engine, catalog *services.CatalogService) {
	routes := router.Group("/products")
	{
		routes.GET("", func(c *gin.Context) {
			respond.OK(c, "", catalog.ListProducts(c.Request.Context()))
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetProduct(c, catalog)
		})
	}
}

func GetProduct(c *gin.Context, catalog *services.CatalogService) {
	p, ok := catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if !ok {
		respond.Error(c, services.ErrProductNotFound)
		return
	}
	respond.OK(c, "", p)
}
