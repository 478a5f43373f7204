package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ShawrmaM8/BarakahBoost/internal/store"
	"github.com/gin-gonic/gin"
)

func seedEntry(t *testing.T, api *API, date string, prayer int, recitation, sleep, screen float64, dhikr int, charity bool) {
	t.Helper()
	entry, err := store.NewEntry(store.EntryInput{
		Date:              date,
		PrayerCount:       &prayer,
		RecitationMinutes: &recitation,
		SleepHours:        &sleep,
		ScreenTimeHours:   &screen,
		DhikrCount:        &dhikr,
		CharityGiven:      &charity,
	})
	if err != nil {
		t.Fatalf("failed to build entry: %v", err)
	}
	if err := api.store.Upsert(entry); err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}
}

func getJSON(t *testing.T, handle gin.HandlerFunc, target string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handle(c)

	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v (%s)", err, w.Body.String())
	}
	return w, body
}

func TestGetScoresPerfectDay(t *testing.T) {
	api := setupTestAPI(t)
	seedEntry(t, api, "2024-05-01", 5, 30, 8, 2, 100, true)

	w, body := getJSON(t, api.GetScores, "/api/scores")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var scores []struct {
		Date          string             `json:"date"`
		Score         float64            `json:"score"`
		Contributions map[string]float64 `json:"component_contributions"`
	}
	if err := json.Unmarshal(body["scores"], &scores); err != nil {
		t.Fatalf("failed to decode scores: %v", err)
	}

	if len(scores) != 1 {
		t.Fatalf("expected 1 score, got %d", len(scores))
	}
	if math.Abs(scores[0].Score-100) > 1e-9 {
		t.Fatalf("expected score 100, got %f", scores[0].Score)
	}
	if math.Abs(scores[0].Contributions["prayer"]-20) > 1e-9 {
		t.Fatalf("unexpected prayer contribution: %f", scores[0].Contributions["prayer"])
	}
}

func TestGetScoresSkipsIncompleteDays(t *testing.T) {
	api := setupTestAPI(t)
	seedEntry(t, api, "2024-05-01", 5, 30, 8, 2, 100, true)

	// 直接写入一个缺维度的历史条目，模拟旧文件
	partial := store.Entry{Date: "2024-05-02"}
	if err := api.store.Upsert(partial); err != nil {
		t.Fatalf("failed to seed partial entry: %v", err)
	}

	_, body := getJSON(t, api.GetScores, "/api/scores")

	var count int
	if err := json.Unmarshal(body["count"], &count); err != nil {
		t.Fatalf("failed to decode count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 scored day, got %d", count)
	}
}

func TestGetWeightsNormalized(t *testing.T) {
	api := setupTestAPI(t)

	w, body := getJSON(t, api.GetWeights, "/api/weights")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var weights map[string]float64
	if err := json.Unmarshal(body["weights"], &weights); err != nil {
		t.Fatalf("failed to decode weights: %v", err)
	}

	total := 0.0
	for _, v := range weights {
		total += v
	}
	if math.Abs(total-100) > 1e-9 {
		t.Fatalf("expected weights to sum to 100, got %f", total)
	}
}

func TestExportScores(t *testing.T) {
	api := setupTestAPI(t)
	seedEntry(t, api, "2024-05-01", 5, 30, 8, 2, 100, true)

	req := httptest.NewRequest(http.MethodGet, "/api/export/scores.csv", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.ExportScores(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, ".csv") {
		t.Fatalf("unexpected content disposition: %s", cd)
	}

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "date,score") {
		t.Fatalf("unexpected csv header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2024-05-01,100.00") {
		t.Fatalf("unexpected csv row: %s", lines[1])
	}
}
