package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// UserEmailHeader carries the caller identity set by the upstream auth proxy
	UserEmailHeader = "X-User-Email"

	callerKey     = "caller_email"
	privilegedKey = "caller_privileged"
)

// Caller records who is calling and whether they may see restricted entities
func Caller(privilegedUsers []string) gin.HandlerFunc {
	privileged := make(map[string]struct{}, len(privilegedUsers))
	for _, u := range privilegedUsers {
		privileged[strings.ToLower(strings.TrimSpace(u))] = struct{}{}
	}

	return func(c *gin.Context) {
		email := strings.ToLower(strings.TrimSpace(c.GetHeader(UserEmailHeader)))
		if email != "" {
			c.Set(callerKey, email)
			_, ok := privileged[email]
			c.Set(privilegedKey, ok)
		}
		c.Next()
	}
}

// GetCaller returns the normalized caller email, or "" for anonymous calls
func GetCaller(c *gin.Context) string {
	return c.GetString(callerKey)
}

// IsPrivileged reports whether the caller is listed in REPORT_PRIVILEGED_USERS
func IsPrivileged(c *gin.Context) bool {
	return c.GetBool(privilegedKey)
}
