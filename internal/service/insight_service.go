package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/ShawrmaM8/BarakahBoost/internal/store"
)

// ErrInsufficientData 在历史样本不足以计算统计量时返回
// 面板应渲染为「数据还不够」而非错误页
var ErrInsufficientData = errors.New("insufficient history for statistics")

// Trend 描述综合分随日期序号的最小二乘拟合直线
type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Insight 汇总面板「洞察」页需要的统计结果
type Insight struct {
	Samples      int                `json:"samples"`
	Trend        Trend              `json:"trend"`
	Correlations map[string]float64 `json:"correlations"`
	Suggestions  []string           `json:"suggestions"`
}

// InsightService 基于全量历史计算相关性与趋势
type InsightService struct {
	engine *ScoreEngine
}

// NewInsightService 构造 InsightService
func NewInsightService(engine *ScoreEngine) *InsightService {
	return &InsightService{engine: engine}
}

// Correlations 计算各归一化维度与综合分之间的两两皮尔逊相关系数
// 键形如 "prayer:score"，维度顺序固定；完整条目少于 2 条时
// 返回 ErrInsufficientData
func (s *InsightService) Correlations(entries []store.Entry) (map[string]float64, error) {
	series, samples := s.buildSeries(entries)
	if samples < 2 {
		return nil, fmt.Errorf("%w: have %d complete entries, need 2", ErrInsufficientData, samples)
	}

	names := append(append([]string{}, Dimensions...), DimScore)

	result := make(map[string]float64)
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			key := names[i] + ":" + names[j]
			result[key] = pearson(series[names[i]], series[names[j]])
		}
	}
	return result, nil
}

// Insights 汇总趋势、相关性与可执行建议
func (s *InsightService) Insights(entries []store.Entry) (*Insight, error) {
	records := s.engine.HistoryScores(entries)
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: have %d scored days, need 2", ErrInsufficientData, len(records))
	}

	correlations, err := s.Correlations(entries)
	if err != nil {
		return nil, err
	}

	return &Insight{
		Samples:      len(records),
		Trend:        linearTrend(records),
		Correlations: correlations,
		Suggestions:  s.suggestions(records[len(records)-1]),
	}, nil
}

// buildSeries 将完整条目展开为各维度的归一化序列及综合分序列
func (s *InsightService) buildSeries(entries []store.Entry) (map[string][]float64, int) {
	series := make(map[string][]float64, len(Dimensions)+1)
	samples := 0

	for _, entry := range entries {
		record, err := s.engine.Score(entry)
		if err != nil {
			continue
		}
		for _, name := range Dimensions {
			value, ok := s.engine.normalizedDimension(entry, name)
			if !ok {
				value = 0
			}
			series[name] = append(series[name], value)
		}
		series[DimScore] = append(series[DimScore], record.Score)
		samples++
	}
	return series, samples
}

// suggestions 根据最近一天的维度贡献给出改进建议
// 阈值沿用面板一直使用的经验值
func (s *InsightService) suggestions(latest ScoreRecord) []string {
	tips := make([]string, 0, 5)
	weights := s.engine.Weights().Weights

	ratio := func(name string) float64 {
		weight := weights[name]
		if weight <= 0 {
			return 1
		}
		return latest.Contributions[name] / weight
	}

	if ratio(DimPrayer) < 0.8 {
		tips = append(tips, "明天尽量五番礼拜都按时完成。")
	}
	if ratio(DimScreen) < 0.6 {
		tips = append(tips, "减少约 20 分钟的娱乐应用时间，换成诵读或阅读。")
	}
	if ratio(DimRecitation) < 0.4 {
		tips = append(tips, "晨礼后加读一章简短的苏拉。")
	}
	if ratio(DimSleep) < 0.7 {
		tips = append(tips, "目标 7–8.5 小时睡眠，23:00 前熄灯。")
	}
	if ratio(DimDhikr) < 0.3 {
		tips = append(tips, "把 100 次赞念分散到一天的空档里完成。")
	}

	if len(tips) == 0 {
		tips = append(tips, "状态很好，继续保持！")
	}
	return tips
}

// pearson 计算两个等长序列的皮尔逊相关系数
// 任一序列方差为零时按 0 处理
func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / (math.Sqrt(varX) * math.Sqrt(varY))
}

// linearTrend 对综合分按日期序号做最小二乘拟合
func linearTrend(records []ScoreRecord) Trend {
	n := float64(len(records))
	if n == 0 {
		return Trend{}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, record := range records {
		x := float64(i)
		sumX += x
		sumY += record.Score
		sumXY += x * record.Score
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return Trend{Intercept: sumY / n}
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	return Trend{Slope: slope, Intercept: intercept}
}
