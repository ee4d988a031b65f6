package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"ecocart/services"
)

func captchaEvent(c *gin.Context, token, action string) services.CaptchaEvent {
	return services.CaptchaEvent{
		Token:     token,
		Action:    action,
		UserIP:    getClientIP(c),
		UserAgent: c.Request.UserAgent(),
	}
}

func getClientIP(c *gin.Context) string {
	userIPAddress := c.ClientIP()
	if userIPAddress == "" {
		userIPAddress = c.Request.RemoteAddr
	}
	// forwarded lists keep the client first
	if idx := strings.Index(userIPAddress, ","); idx != -1 {
		userIPAddress = strings.TrimSpace(userIPAddress[:idx])
	}
	return userIPAddress
}
