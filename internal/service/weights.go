package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// 打分维度名称，权重配置与相关性结果均以此为键
const (
	DimPrayer     = "prayer"
	DimRecitation = "recitation"
	DimSleep      = "sleep"
	DimScreen     = "screen"
	DimDhikr      = "dhikr"
	DimCharity    = "charity"
	// DimScore 不是输入维度，仅出现在相关性结果中
	DimScore = "score"
)

// Dimensions 按固定顺序列出全部打分维度
var Dimensions = []string{DimPrayer, DimRecitation, DimSleep, DimScreen, DimDhikr, DimCharity}

// Targets 定义各维度归一化到 1.0 的目标值
// ScreenTimeHours 为反向维度：不超过 Target 记满分，
// 达到 Limit 记零分，两者之间线性下降
type Targets struct {
	PrayerCount       float64 `json:"prayer_count"`
	RecitationMinutes float64 `json:"recitation_minutes"`
	SleepHours        float64 `json:"sleep_hours"`
	ScreenTimeHours   float64 `json:"screen_time_hours"`
	ScreenTimeLimit   float64 `json:"screen_time_limit"`
	DhikrCount        float64 `json:"dhikr_count"`
}

// WeightConfig 定义维度权重（百分比）与目标值
// 进程启动时加载一次，运行期间只读
type WeightConfig struct {
	Weights map[string]float64 `json:"weights"`
	Targets Targets            `json:"targets"`
}

// ErrWeightConfig 在权重配置无法使用时返回
var ErrWeightConfig = errors.New("invalid weight configuration")

// DefaultWeightConfig 返回内置默认配置，权重合计 100
func DefaultWeightConfig() WeightConfig {
	return WeightConfig{
		Weights: map[string]float64{
			DimPrayer:     25,
			DimRecitation: 15,
			DimSleep:      15,
			DimScreen:     15,
			DimDhikr:      15,
			DimCharity:    15,
		},
		Targets: Targets{
			PrayerCount:       5,
			RecitationMinutes: 30,
			SleepHours:        8,
			ScreenTimeHours:   2,
			ScreenTimeLimit:   8,
			DhikrCount:        100,
		},
	}
}

// LoadWeightConfig 从 JSON 文件加载权重配置
// path 为空或文件不存在时退回内置默认值
func LoadWeightConfig(path string) (WeightConfig, error) {
	if path == "" {
		return DefaultWeightConfig(), nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultWeightConfig(), nil
	}
	if err != nil {
		return WeightConfig{}, fmt.Errorf("read weight config: %w", err)
	}

	cfg := DefaultWeightConfig()
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return WeightConfig{}, fmt.Errorf("%w: %s: %v", ErrWeightConfig, path, err)
	}

	if err := validateWeightConfig(cfg); err != nil {
		return WeightConfig{}, err
	}
	return cfg, nil
}

// Normalized 返回权重合计调整为 100 的副本，保证综合分落在 [0,100]
func (c WeightConfig) Normalized() WeightConfig {
	total := 0.0
	for _, w := range c.Weights {
		total += w
	}

	out := WeightConfig{Weights: make(map[string]float64, len(c.Weights)), Targets: c.Targets}
	if total <= 0 {
		return out
	}
	for name, w := range c.Weights {
		out.Weights[name] = w / total * 100
	}
	return out
}

func validateWeightConfig(cfg WeightConfig) error {
	if len(cfg.Weights) == 0 {
		return fmt.Errorf("%w: no weights defined", ErrWeightConfig)
	}

	known := make(map[string]bool, len(Dimensions))
	for _, name := range Dimensions {
		known[name] = true
	}

	total := 0.0
	for name, w := range cfg.Weights {
		if !known[name] {
			return fmt.Errorf("%w: unknown dimension %q", ErrWeightConfig, name)
		}
		if w < 0 {
			return fmt.Errorf("%w: negative weight for %q", ErrWeightConfig, name)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("%w: weights sum to zero", ErrWeightConfig)
	}

	t := cfg.Targets
	if t.PrayerCount <= 0 || t.RecitationMinutes <= 0 || t.SleepHours <= 0 || t.DhikrCount <= 0 {
		return fmt.Errorf("%w: targets must be positive", ErrWeightConfig)
	}
	if t.ScreenTimeHours < 0 || t.ScreenTimeLimit <= t.ScreenTimeHours {
		return fmt.Errorf("%w: screen_time_limit must exceed screen_time_hours", ErrWeightConfig)
	}
	return nil
}
