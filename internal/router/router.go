package router

import (
	"fmt"
	"html/template"

	"github.com/ShawrmaM8/BarakahBoost/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件，表单提交的提示消息依赖它
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("barakahboost_session", store))

	// 加载模板并添加自定义函数
	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		// 综合分仅在展示时保留一位小数
		"f1": func(v float64) string {
			return fmt.Sprintf("%.1f", v)
		},
	})
	r.LoadHTMLGlob("web/template/*.html")

	// 静态文件服务
	r.Static("/static", "./web/static")

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 页面路由
	r.GET("/", api.ShowLogForm)
	r.POST("/log", api.SubmitLogForm)
	r.GET("/dashboard", api.ShowDashboard)
	r.GET("/insights", api.ShowInsights)
	r.GET("/data", api.ShowData)

	// API 路由
	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/entries", api.UpsertEntry)
		apiGroup.GET("/entries", api.ListEntries)
		apiGroup.GET("/entries/:date", api.GetEntry)

		apiGroup.GET("/scores", api.GetScores)
		apiGroup.GET("/weights", api.GetWeights)
		apiGroup.GET("/correlations", api.GetCorrelations)
		apiGroup.GET("/insights", api.GetInsights)
		apiGroup.GET("/export/scores.csv", api.ExportScores)
	}

	return r
}
