package store

import (
	"errors"
	"fmt"
	"time"
)

// DateFormat 是条目日期的统一格式（ISO-8601 日期）
const DateFormat = "2006-01-02"

var (
	// ErrValidation 在输入值越界或格式非法时返回
	ErrValidation = errors.New("invalid entry value")
	// ErrNotFound 在指定日期没有记录时返回
	ErrNotFound = errors.New("entry not found")
	// ErrCorruptStore 在底层 JSON 文件无法解析时返回
	ErrCorruptStore = errors.New("corrupt habit store")
)

// Entry 定义单日习惯记录，date 在存储中唯一
// 数值字段使用指针以区分「未填写」与显式的 0，
// 旧文件缺失字段时在打分阶段按「当日未记录」处理
// Note 为可选的当日反思，后续以 Markdown 渲染到面板
type Entry struct {
	Date              string   `json:"date"`
	PrayerCount       *int     `json:"prayer_count"`
	RecitationMinutes *float64 `json:"recitation_minutes"`
	SleepHours        *float64 `json:"sleep_hours"`
	ScreenTimeHours   *float64 `json:"screen_time_hours"`
	DhikrCount        *int     `json:"dhikr_count"`
	CharityGiven      *bool    `json:"charity_given"`
	Note              string   `json:"note,omitempty"`
}

// EntryInput 定义创建/更新条目时的原始输入
type EntryInput struct {
	Date              string
	PrayerCount       *int
	RecitationMinutes *float64
	SleepHours        *float64
	ScreenTimeHours   *float64
	DhikrCount        *int
	CharityGiven      *bool
	Note              string
}

// NewEntry 校验输入并构造 Entry，越界值在持久化之前被拒绝
func NewEntry(input EntryInput) (Entry, error) {
	date, err := normalizeDate(input.Date)
	if err != nil {
		return Entry{}, err
	}

	if input.PrayerCount != nil {
		if *input.PrayerCount < 0 || *input.PrayerCount > 5 {
			return Entry{}, fmt.Errorf("%w: prayer_count must be within 0..5", ErrValidation)
		}
	}
	if input.RecitationMinutes != nil && *input.RecitationMinutes < 0 {
		return Entry{}, fmt.Errorf("%w: recitation_minutes must not be negative", ErrValidation)
	}
	if input.SleepHours != nil {
		if *input.SleepHours < 0 || *input.SleepHours > 24 {
			return Entry{}, fmt.Errorf("%w: sleep_hours must be within 0..24", ErrValidation)
		}
	}
	if input.ScreenTimeHours != nil {
		if *input.ScreenTimeHours < 0 || *input.ScreenTimeHours > 24 {
			return Entry{}, fmt.Errorf("%w: screen_time_hours must be within 0..24", ErrValidation)
		}
	}
	if input.DhikrCount != nil && *input.DhikrCount < 0 {
		return Entry{}, fmt.Errorf("%w: dhikr_count must not be negative", ErrValidation)
	}

	return Entry{
		Date:              date,
		PrayerCount:       input.PrayerCount,
		RecitationMinutes: input.RecitationMinutes,
		SleepHours:        input.SleepHours,
		ScreenTimeHours:   input.ScreenTimeHours,
		DhikrCount:        input.DhikrCount,
		CharityGiven:      input.CharityGiven,
		Note:              input.Note,
	}, nil
}

// Complete 判断条目是否包含全部打分维度
func (e Entry) Complete() bool {
	return e.PrayerCount != nil &&
		e.RecitationMinutes != nil &&
		e.SleepHours != nil &&
		e.ScreenTimeHours != nil &&
		e.DhikrCount != nil &&
		e.CharityGiven != nil
}

func normalizeDate(raw string) (string, error) {
	t, err := time.Parse(DateFormat, raw)
	if err != nil {
		return "", fmt.Errorf("%w: date must match %s", ErrValidation, DateFormat)
	}
	return t.Format(DateFormat), nil
}
