package handlers

import (
	"github.com/gin-gonic/gin"
)

// requestMeta собирает user agent и IP запроса для записи в сессию.
func requestMeta(c *gin.Context) map[string]string {
	return map[string]string{
		"user_agent": c.GetHeader("User-Agent"),
		"ip":         c.ClientIP(),
	}
}
