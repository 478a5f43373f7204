package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/ShawrmaM8/BarakahBoost/internal/service"
	"github.com/ShawrmaM8/BarakahBoost/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// ShowLogForm 渲染「记录今天」表单页
// date 查询参数存在且当天已有记录时用于回填表单
func (a *API) ShowLogForm(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		date = time.Now().Format(store.DateFormat)
	}

	data := gin.H{
		"title": "记录今天",
		"date":  date,
	}

	if entry, err := a.store.Get(date); err == nil {
		data["entry"] = entryToPayload(entry)
	} else if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, store.ErrValidation) {
		data["error"] = "加载当天记录失败"
	}

	if kind, message := popFlash(c); message != "" {
		data["flashKind"] = kind
		data["flashMessage"] = message
	}

	c.HTML(http.StatusOK, "log_form.html", data)
}

// ShowDashboard 渲染面板页：得分曲线、滑动平均与最近一天的明细
func (a *API) ShowDashboard(c *gin.Context) {
	entries := a.store.All()
	records := a.engine.HistoryScores(entries)
	rolling := a.engine.RollingAverage(records, rollingWindowDays)

	data := gin.H{
		"title":   "面板",
		"scores":  records,
		"rolling": rolling,
		"count":   len(records),
	}

	if len(records) > 0 {
		latest := records[len(records)-1]
		data["latest"] = latest

		if entry, err := a.store.Get(latest.Date); err == nil && entry.Note != "" {
			data["latestNote"] = renderNote(entry.Note)
		}
	} else {
		data["info"] = "还没有数据，先记录第一天吧。"
	}

	c.HTML(http.StatusOK, "dashboard.html", data)
}

// ShowInsights 渲染洞察页
func (a *API) ShowInsights(c *gin.Context) {
	data := gin.H{"title": "洞察"}

	insight, err := a.insights.Insights(a.store.All())
	switch {
	case errors.Is(err, service.ErrInsufficientData):
		data["info"] = "需要更多记录天数才能得出稳健的洞察。"
	case err != nil:
		data["error"] = "计算洞察失败"
	default:
		data["insight"] = insight
	}

	c.HTML(http.StatusOK, "insights.html", data)
}

// ShowData 渲染原始数据页
func (a *API) ShowData(c *gin.Context) {
	entries := a.store.All()
	records := a.engine.HistoryScores(entries)

	items := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entryToPayload(entry))
	}

	data := gin.H{
		"title":      "原始数据",
		"entries":    items,
		"scores":     records,
		"entryCount": len(items),
		"scoreCount": len(records),
	}
	if len(items) > 0 {
		data["firstDate"] = entries[0].Date
	}

	c.HTML(http.StatusOK, "data.html", data)
}

// renderNote 将当日反思从 Markdown 渲染为净化后的 HTML
func renderNote(note string) template.HTML {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(note), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(note))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}
