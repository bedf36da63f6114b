package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminSecretHeader 携带站点主人的共享密钥。
const AdminSecretHeader = "X-Admin-Secret"

// AdminSecretMiddleware 保护站点主人的收件箱接口。
func AdminSecretMiddleware(secret string) gin.HandlerFunc {
	secret = strings.TrimSpace(secret)
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "admin secret is not configured"})
			return
		}
		// 密钥只能通过 Header 传递，避免 query 泄露到浏览器/日志。
		token := strings.TrimSpace(c.GetHeader(AdminSecretHeader))
		if !SecretEqual(token, secret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// SecretEqual 以常量时间比较密钥，空值视为不匹配。
func SecretEqual(got, want string) bool {
	if got == "" || want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
