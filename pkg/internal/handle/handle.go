// Package handle 提供 HTTP 请求处理器的实现.
package handle

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/u2giants/popdam2/pkg/rule"
)

// checkUser 提取请求方邮箱：oauth2-proxy 注入头优先 -> X-User -> query 参数.
func checkUser(c *gin.Context) (string, error) {
	user := c.GetHeader("X-Auth-Request-Email")
	if user == "" {
		user = c.GetHeader("X-Forwarded-Email")
	}

	if user == "" {
		user = c.GetHeader("X-User")
	}

	if user == "" {
		user = c.Query("user")
	}
	// 测试默认值，不为 Release 模式时
	if user == "" && gin.Mode() != gin.ReleaseMode {
		user = "test-user@example.com"
	}

	user = strings.TrimSpace(user)

	// 使用 validator 验证用户名格式为 email
	if err := rule.ValidateVar(user, "required,email"); err != nil {
		return "", err
	}

	return user, nil
}
