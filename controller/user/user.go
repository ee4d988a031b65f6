package user

import (
	"github.com/gin-gonic/gin"

	"ecocart/controller/respond"
	"ecocart/middleware"
	"ecocart/services"
)

func UserController(router *gin.Engine, users *services.UserService, sessions middleware.Authenticator) {
	router.GET("/profile", middleware.AccessTokenMiddleware(sessions), func(c *gin.Context) {
		GetProfile(c, users)
	})
}

func GetProfile(c *gin.Context, users *services.UserService) {
	profile, err := users.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "", profile)
}
