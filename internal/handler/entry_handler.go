package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ShawrmaM8/BarakahBoost/internal/store"
	"github.com/gin-gonic/gin"
)

type entryPayload struct {
	Date              string   `json:"date"`
	PrayerCount       *int     `json:"prayer_count"`
	RecitationMinutes *float64 `json:"recitation_minutes"`
	SleepHours        *float64 `json:"sleep_hours"`
	ScreenTimeHours   *float64 `json:"screen_time_hours"`
	DhikrCount        *int     `json:"dhikr_count"`
	CharityGiven      *bool    `json:"charity_given"`
	Note              string   `json:"note"`
}

// UpsertEntry 写入或替换某一天的条目（JSON API）
func (a *API) UpsertEntry(c *gin.Context) {
	var payload entryPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	entry, ok := a.entryFromPayload(c, payload)
	if !ok {
		return
	}

	if err := a.store.Upsert(entry); err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entryToPayload(entry)})
}

// SubmitLogForm 处理「记录今天」表单提交，成功后重定向回表单页
func (a *API) SubmitLogForm(c *gin.Context) {
	payload, err := parseEntryForm(c)
	if err != nil {
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusFound, "/")
		return
	}

	entry, buildErr := a.buildEntry(payload)
	if buildErr != nil {
		setFlash(c, "error", buildErr.Error())
		c.Redirect(http.StatusFound, "/")
		return
	}

	if err := a.store.Upsert(entry); err != nil {
		if errors.Is(err, store.ErrCorruptStore) {
			setFlash(c, "error", "数据文件已损坏，已停止写入，请先修复")
		} else {
			setFlash(c, "error", "保存失败，请稍后重试")
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	setFlash(c, "success", "已保存！切换到面板即可看到更新。")
	c.Redirect(http.StatusFound, "/?date="+entry.Date)
}

// ListEntries 返回按日期升序的全部条目
func (a *API) ListEntries(c *gin.Context) {
	entries := a.store.All()

	items := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entryToPayload(entry))
	}

	c.JSON(http.StatusOK, gin.H{"entries": items, "count": len(items)})
}

// GetEntry 返回指定日期的条目
func (a *API) GetEntry(c *gin.Context) {
	entry, err := a.store.Get(c.Param("date"))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entryToPayload(entry)})
}

// entryFromPayload 构造并校验条目，失败时直接写出错误响应
func (a *API) entryFromPayload(c *gin.Context, payload entryPayload) (store.Entry, bool) {
	entry, err := a.buildEntry(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return store.Entry{}, false
	}
	return entry, true
}

func (a *API) buildEntry(payload entryPayload) (store.Entry, error) {
	entry, err := store.NewEntry(store.EntryInput{
		Date:              strings.TrimSpace(payload.Date),
		PrayerCount:       payload.PrayerCount,
		RecitationMinutes: payload.RecitationMinutes,
		SleepHours:        payload.SleepHours,
		ScreenTimeHours:   payload.ScreenTimeHours,
		DhikrCount:        payload.DhikrCount,
		CharityGiven:      payload.CharityGiven,
		Note:              strings.TrimSpace(payload.Note),
	})
	if err != nil {
		return store.Entry{}, errors.New("输入值不合法：" + err.Error())
	}

	// 表单承诺提交完整的一天，缺维度在这里拒绝
	if !entry.Complete() {
		return store.Entry{}, errors.New("条目字段不完整，请填写所有习惯项")
	}
	return entry, nil
}

// parseEntryForm 将 HTML 表单字段解析为统一的 payload
func parseEntryForm(c *gin.Context) (entryPayload, error) {
	payload := entryPayload{
		Date: strings.TrimSpace(c.PostForm("date")),
		Note: c.PostForm("note"),
	}
	if payload.Date == "" {
		payload.Date = time.Now().Format(store.DateFormat)
	}

	intField := func(name string) (*int, error) {
		raw := strings.TrimSpace(c.PostForm(name))
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("字段 " + name + " 应为整数")
		}
		return &v, nil
	}

	floatField := func(name string) (*float64, error) {
		raw := strings.TrimSpace(c.PostForm(name))
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("字段 " + name + " 应为数字")
		}
		return &v, nil
	}

	var err error
	if payload.PrayerCount, err = intField("prayer_count"); err != nil {
		return payload, err
	}
	if payload.RecitationMinutes, err = floatField("recitation_minutes"); err != nil {
		return payload, err
	}
	if payload.SleepHours, err = floatField("sleep_hours"); err != nil {
		return payload, err
	}
	if payload.ScreenTimeHours, err = floatField("screen_time_hours"); err != nil {
		return payload, err
	}
	if payload.DhikrCount, err = intField("dhikr_count"); err != nil {
		return payload, err
	}

	charity := strings.EqualFold(c.PostForm("charity_given"), "on") ||
		c.PostForm("charity_given") == "true" ||
		c.PostForm("charity_given") == "1"
	payload.CharityGiven = &charity

	return payload, nil
}

func entryToPayload(entry store.Entry) gin.H {
	item := gin.H{"date": entry.Date}

	if entry.PrayerCount != nil {
		item["prayer_count"] = *entry.PrayerCount
	}
	if entry.RecitationMinutes != nil {
		item["recitation_minutes"] = *entry.RecitationMinutes
	}
	if entry.SleepHours != nil {
		item["sleep_hours"] = *entry.SleepHours
	}
	if entry.ScreenTimeHours != nil {
		item["screen_time_hours"] = *entry.ScreenTimeHours
	}
	if entry.DhikrCount != nil {
		item["dhikr_count"] = *entry.DhikrCount
	}
	if entry.CharityGiven != nil {
		item["charity_given"] = *entry.CharityGiven
	}
	if entry.Note != "" {
		item["note"] = entry.Note
	}

	return item
}

func handleStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, "当天没有记录")
	case errors.Is(err, store.ErrValidation):
		respondError(c, http.StatusBadRequest, "输入值不合法："+err.Error())
	case errors.Is(err, store.ErrCorruptStore):
		respondError(c, http.StatusInternalServerError, "数据文件已损坏，已停止写入，请先修复")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
