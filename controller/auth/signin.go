package auth

import (
	"github.com/gin-gonic/gin"

	"ecocart/controller/respond"
	"ecocart/dto"
	"ecocart/middleware"
	"ecocart/services"
)

func SignInController(router *gin.Engine, authService *services.AuthService, sessions middleware.Authenticator) {
	routes := router.Group("/auth")
	{
		routes.POST("/signin", func(c *gin.Context) {
			Signin(c, authService)
		})
		routes.POST("/signout", middleware.AccessTokenMiddleware(sessions), func(c *gin.Context) {
			Signout(c, authService)
		})
		routes.POST("/refresh", middleware.RefreshTokenMiddleware(), func(c *gin.Context) {
			Refresh(c, authService)
		})
	}
}

func Signin(c *gin.Context, authService *services.AuthService) {
	var request dto.SigninRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respond.BadRequest(c, "Invalid request format", "")
		return
	}

	creds := services.Credentials{Email: request.Email, Password: request.Password}
	result, err := authService.SignIn(c.Request.Context(), creds, captchaEvent(c, request.CaptchaToken, "login"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Logged in successfully!", result)
}

// Signout always succeeds.
func Signout(c *gin.Context, authService *services.AuthService) {
	authService.SignOut(c.Request.Context(), middleware.UserID(c))
	respond.OK(c, "Logged out.", nil)
}

func Refresh(c *gin.Context, authService *services.AuthService) {
	tokens, err := authService.Refresh(c.Request.Context(), middleware.RefreshToken(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Token refreshed.", gin.H{"token": tokens})
}
