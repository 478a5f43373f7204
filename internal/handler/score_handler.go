package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ShawrmaM8/BarakahBoost/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 面板趋势曲线使用的滑动窗口天数
const rollingWindowDays = 7

// GetScores 返回全量得分历史及 7 日滑动平均
func (a *API) GetScores(c *gin.Context) {
	records := a.engine.HistoryScores(a.store.All())
	rolling := a.engine.RollingAverage(records, rollingWindowDays)

	c.JSON(http.StatusOK, gin.H{
		"scores":          records,
		"rolling_average": rolling,
		"count":           len(records),
	})
}

// GetWeights 返回生效中的权重配置（只读）
func (a *API) GetWeights(c *gin.Context) {
	weights := a.engine.Weights()
	c.JSON(http.StatusOK, gin.H{
		"weights": weights.Weights,
		"targets": weights.Targets,
	})
}

// ExportScores 以 CSV 附件导出得分历史
func (a *API) ExportScores(c *gin.Context) {
	records := a.engine.HistoryScores(a.store.All())

	filename := fmt.Sprintf("baraka-scores-%s-%s.csv", time.Now().Format("20060102"), uuid.New().String())
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := service.ExportScoresCSV(c.Writer, records); err != nil {
		respondError(c, http.StatusInternalServerError, "导出失败")
	}
}
