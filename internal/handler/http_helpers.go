package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	flashMessageKey = "flash_message"
	flashKindKey    = "flash_kind"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// setFlash 在会话中暂存一条提示，表单 POST/重定向/GET 流程使用
func setFlash(c *gin.Context, kind, message string) {
	session := sessions.Default(c)
	session.Set(flashKindKey, kind)
	session.Set(flashMessageKey, message)
	_ = session.Save()
}

// popFlash 取出并清除会话中的提示
func popFlash(c *gin.Context) (kind, message string) {
	session := sessions.Default(c)

	if v, ok := session.Get(flashKindKey).(string); ok {
		kind = v
	}
	if v, ok := session.Get(flashMessageKey).(string); ok {
		message = v
	}

	if kind != "" || message != "" {
		session.Delete(flashKindKey)
		session.Delete(flashMessageKey)
		_ = session.Save()
	}
	return kind, message
}
