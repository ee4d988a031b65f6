package advisor

import (
	"github.com/gin-gonic/gin"

	"ecocart/controller/respond"
	"ecocart/dto"
	"ecocart/services"
)

func AdvisorController(router *gin.Engine, advisor *services.AdvisorService) {
	routes := router.Group("/advisor")
	{
		routes.POST("/recommendations", func(c *gin.Context) {
			Recommendations(c, advisor)
		})
		routes.POST("/smart-packaging", func(c *gin.Context) {
			SmartPackaging(c, advisor)
		})
	}
}

func Recommendations(c *gin.Context, advisor *services.AdvisorService) {
	var req dto.RecommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "Invalid request format", "items")
		return
	}

	items := make([]services.CartItemName, len(req.Items))
	for i, it := range req.Items {
		items[i] = services.CartItemName{Name: it.Name}
	}
	out, err := advisor.Recommend(c.Request.Context(), items)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "", out)
}

func SmartPackaging(c *gin.Context, advisor *services.AdvisorService) {
	var req dto.SmartPackagingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "Image is required.", "locationImage")
		return
	}

	out, err := advisor.AnalyzeLocation(c.Request.Context(), req.LocationImage)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Success", out)
}
