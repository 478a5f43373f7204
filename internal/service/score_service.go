package service

import (
	"errors"
	"fmt"

	"github.com/ShawrmaM8/BarakahBoost/internal/store"
)

// ErrIncompleteEntry 在条目缺少打分维度时返回
// 调用方应将其视为「当日尚未记录」而非致命错误
var ErrIncompleteEntry = errors.New("entry is missing scoring dimensions")

// ScoreRecord 是由条目与权重推导出的单日得分
// 不独立持久化，每次读取时重新计算
type ScoreRecord struct {
	Date          string             `json:"date"`
	Score         float64            `json:"score"`
	Contributions map[string]float64 `json:"component_contributions"`
}

// TrendPoint 表示滚动平均曲线上的一个点
type TrendPoint struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
}

// ScoreEngine 将原始条目按固定权重映射为 0..100 的综合分
// 权重在构造时归一化，同一条目与配置必然得到相同结果
type ScoreEngine struct {
	weights WeightConfig
}

// NewScoreEngine 构造 ScoreEngine，传入的权重会被调整为合计 100
func NewScoreEngine(cfg WeightConfig) *ScoreEngine {
	return &ScoreEngine{weights: cfg.Normalized()}
}

// Weights 返回生效中的权重配置
func (e *ScoreEngine) Weights() WeightConfig {
	return e.weights
}

// Score 计算单日得分及各维度加权贡献
func (e *ScoreEngine) Score(entry store.Entry) (ScoreRecord, error) {
	if !entry.Complete() {
		return ScoreRecord{}, fmt.Errorf("%w: %s", ErrIncompleteEntry, entry.Date)
	}

	record := ScoreRecord{
		Date:          entry.Date,
		Contributions: make(map[string]float64, len(e.weights.Weights)),
	}

	for name, weight := range e.weights.Weights {
		value, ok := e.normalizedDimension(entry, name)
		if !ok {
			return ScoreRecord{}, fmt.Errorf("%w: %s missing %s", ErrIncompleteEntry, entry.Date, name)
		}
		contribution := weight * value
		record.Contributions[name] = contribution
		record.Score += contribution
	}

	return record, nil
}

// HistoryScores 按原有顺序映射 Score，缺维度的条目按「未记录」跳过
func (e *ScoreEngine) HistoryScores(entries []store.Entry) []ScoreRecord {
	records := make([]ScoreRecord, 0, len(entries))
	for _, entry := range entries {
		record, err := e.Score(entry)
		if err != nil {
			continue
		}
		records = append(records, record)
	}
	return records
}

// RollingAverage 计算综合分的尾部滑动平均，window 小于 1 时按 1 处理
func (e *ScoreEngine) RollingAverage(records []ScoreRecord, window int) []TrendPoint {
	if window < 1 {
		window = 1
	}

	points := make([]TrendPoint, 0, len(records))
	sum := 0.0
	for i, record := range records {
		sum += record.Score
		if i >= window {
			sum -= records[i-window].Score
		}
		count := window
		if i+1 < window {
			count = i + 1
		}
		points = append(points, TrendPoint{Date: record.Date, Average: sum / float64(count)})
	}
	return points
}

// normalizedDimension 将原始维度值归一化到 [0,1]
// 超过目标值不会产生额外得分（夹断），屏幕时间为反向维度
func (e *ScoreEngine) normalizedDimension(entry store.Entry, name string) (float64, bool) {
	t := e.weights.Targets

	switch name {
	case DimPrayer:
		if entry.PrayerCount == nil {
			return 0, false
		}
		return clamp01(float64(*entry.PrayerCount) / t.PrayerCount), true
	case DimRecitation:
		if entry.RecitationMinutes == nil {
			return 0, false
		}
		return clamp01(*entry.RecitationMinutes / t.RecitationMinutes), true
	case DimSleep:
		if entry.SleepHours == nil {
			return 0, false
		}
		return clamp01(*entry.SleepHours / t.SleepHours), true
	case DimScreen:
		if entry.ScreenTimeHours == nil {
			return 0, false
		}
		return invertedScreenTime(*entry.ScreenTimeHours, t.ScreenTimeHours, t.ScreenTimeLimit), true
	case DimDhikr:
		if entry.DhikrCount == nil {
			return 0, false
		}
		return clamp01(float64(*entry.DhikrCount) / t.DhikrCount), true
	case DimCharity:
		if entry.CharityGiven == nil {
			return 0, false
		}
		if *entry.CharityGiven {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func invertedScreenTime(value, target, limit float64) float64 {
	if value <= target {
		return 1
	}
	if value >= limit {
		return 0
	}
	return (limit - value) / (limit - target)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
