package auth

import (
	"github.com/gin-gonic/gin"

	"ecocart/controller/respond"
	"ecocart/dto"
	"ecocart/services"
)

func SignUpController(router *gin.Engine, authService *services.AuthService) {
	router.POST("/auth/signup", func(c *gin.Context) {
		Signup(c, authService)
	})
}

func Signup(c *gin.Context, authService *services.AuthService) {
	var request dto.SignupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respond.BadRequest(c, "Invalid request format", "")
		return
	}

	creds := services.Credentials{Email: request.Email, Password: request.Password}
	result, err := authService.SignUp(c.Request.Context(), creds, captchaEvent(c, request.CaptchaToken, "signup"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Created(c, "Account created successfully!", result)
}
