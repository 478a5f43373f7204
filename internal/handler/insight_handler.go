package handler

import (
	"errors"
	"net/http"

	"github.com/ShawrmaM8/BarakahBoost/internal/service"
	"github.com/gin-gonic/gin"
)

// GetCorrelations 返回维度间的两两相关系数
// 历史不足两天时返回 insufficient_data 状态，供前端渲染提示
func (a *API) GetCorrelations(c *gin.Context) {
	correlations, err := a.insights.Correlations(a.store.All())
	if err != nil {
		if errors.Is(err, service.ErrInsufficientData) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "insufficient_data",
				"message": "数据还不够，再记录几天吧",
			})
			return
		}
		respondError(c, http.StatusInternalServerError, "计算相关性失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "correlations": correlations})
}

// GetInsights 返回趋势、相关性与建议
func (a *API) GetInsights(c *gin.Context) {
	insight, err := a.insights.Insights(a.store.All())
	if err != nil {
		if errors.Is(err, service.ErrInsufficientData) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "insufficient_data",
				"message": "需要更多记录天数才能得出稳健的洞察",
			})
			return
		}
		respondError(c, http.StatusInternalServerError, "计算洞察失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "insight": insight})
}
