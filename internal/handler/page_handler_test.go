package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func newPageEngine(api *API) *gin.Engine {
	engine := gin.New()
	engine.HTMLRender = &stubHTMLRender{}
	engine.Use(sessions.Sessions("barakahboost_session", cookie.NewStore([]byte("test-secret"))))
	engine.GET("/", api.ShowLogForm)
	engine.GET("/dashboard", api.ShowDashboard)
	engine.GET("/data", api.ShowData)
	return engine
}

func TestShowLogFormRendersForEmptyStore(t *testing.T) {
	api := setupTestAPI(t)
	engine := newPageEngine(api)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected log form to render, got %d", w.Code)
	}
}

func TestShowDashboardRendersWithHistory(t *testing.T) {
	api := setupTestAPI(t)
	seedEntry(t, api, "2024-05-01", 5, 30, 8, 2, 100, true)
	engine := newPageEngine(api)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected dashboard to render, got %d", w.Code)
	}
}

func TestShowDataRenders(t *testing.T) {
	api := setupTestAPI(t)
	seedEntry(t, api, "2024-05-01", 5, 30, 8, 2, 100, true)
	engine := newPageEngine(api)

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected data page to render, got %d", w.Code)
	}
}

func TestRenderNoteSanitizesMarkdown(t *testing.T) {
	rendered := string(renderNote("**读了半个朱兹**\n\n<script>alert(1)</script>"))

	if !strings.Contains(rendered, "<strong>") {
		t.Fatalf("expected markdown emphasis to render, got %s", rendered)
	}
	if strings.Contains(rendered, "<script>") {
		t.Fatalf("expected script tags to be stripped, got %s", rendered)
	}
}
