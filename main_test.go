package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/Arif-miad/education-economic-dashboard/internal/dataset"
	"github.com/Arif-miad/education-economic-dashboard/internal/gate"
	"github.com/Arif-miad/education-economic-dashboard/internal/pages"
	"github.com/Arif-miad/education-economic-dashboard/internal/schema"
	"github.com/Arif-miad/education-economic-dashboard/internal/session"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testSchema() schema.Descriptor {
	return schema.Descriptor{
		Target:          schema.DefaultTarget,
		ContinentColumn: schema.DefaultContinentColumn,
		CategoryColumn:  schema.DefaultCategoryColumn,
		Columns: []schema.Column{
			{Name: "Country", Kind: schema.Categorical},
			{Name: schema.DefaultContinentColumn, Kind: schema.Categorical},
			{Name: schema.DefaultCategoryColumn, Kind: schema.Categorical},
			{Name: "Literacy Rate", Kind: schema.Numeric},
			{Name: schema.DefaultTarget, Kind: schema.Numeric},
		},
	}
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	r, _ := testServer(t)
	return r
}

func testServer(t *testing.T) (*gin.Engine, *Server) {
	t.Helper()
	n := 6
	tbl, err := dataset.NewTable("test", []*dataset.Column{
		{Name: "Country", Kind: schema.Categorical, Strings: []string{"Kenya", "Japan", "France", "India", "Chile", "Spain"}, Null: make([]bool, n)},
		{Name: schema.DefaultContinentColumn, Kind: schema.Categorical, Strings: []string{"Africa", "Asia", "Europe", "Asia", "South America", "Europe"}, Null: make([]bool, n)},
		{Name: schema.DefaultCategoryColumn, Kind: schema.Categorical, Strings: []string{"Low", "High", "High", "Low", "Upper Middle", "High"}, Null: make([]bool, n)},
		{Name: "Literacy Rate", Kind: schema.Numeric, Numbers: []float64{64, 99, 99, 74, 96, 98}},
		{Name: schema.DefaultTarget, Kind: schema.Numeric, Numbers: []float64{2.1, 1.0, 1.2, 6.5, 2.4, 2.0}},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	cfg := &Config{CORSOrigins: []string{"*"}, Trees: 5, Seed: 42}
	srv := NewServer(cfg, testSchema(), tbl)
	r, err := srv.Router()
	if err != nil {
		t.Fatalf("Router: %v", err)
	}
	return r, srv
}

func do(r http.Handler, req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func postLogin(r http.Handler, user, pass string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	form := url.Values{"username": {user}, "password": {pass}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(r, req, cookies...)
}

func login(t *testing.T, r http.Handler) *http.Cookie {
	t.Helper()
	w := postLogin(r, "admin", "admin")
	if w.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	return sessionCookie(t, w)
}

type pageResponse struct {
	Success bool         `json:"success"`
	Data    pages.Result `json:"data"`
	Error   string       `json:"error"`
}

func getPage(t *testing.T, r http.Handler, path string, c *http.Cookie) pageResponse {
	t.Helper()
	w := do(r, httptest.NewRequest(http.MethodGet, path, nil), c)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s: status %d: %s", path, w.Code, w.Body.String())
	}
	var resp pageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	w := do(testRouter(t), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" || body["rows"] != float64(6) {
		t.Errorf("unexpected body %v", body)
	}
}

func TestCookielessRequestsStoreNoSessions(t *testing.T) {
	r, srv := testServer(t)
	for i := 0; i < 100; i++ {
		do(r, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		do(r, httptest.NewRequest(http.MethodGet, "/api/v1/pages/home", nil))
		do(r, httptest.NewRequest(http.MethodGet, "/login", nil))
	}
	if n := srv.sessions.Len(); n != 0 {
		t.Fatalf("sessions stored = %d, want 0", n)
	}

	postLogin(r, "admin", "wrong")
	if n := srv.sessions.Len(); n != 0 {
		t.Errorf("rejected login stored %d sessions, want 0", n)
	}
	cookie := login(t, r)
	if n := srv.sessions.Len(); n != 1 {
		t.Errorf("sessions after login = %d, want 1", n)
	}
	do(r, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil), cookie)
	if n := srv.sessions.Len(); n != 1 {
		t.Errorf("sessions after authenticated health check = %d, want 1", n)
	}
}

func TestUnauthenticatedAccess(t *testing.T) {
	r := testRouter(t)

	w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Errorf("GET / = %d %q, want redirect to /login", w.Code, w.Header().Get("Location"))
	}

	w = do(r, httptest.NewRequest(http.MethodGet, "/api/v1/pages/home", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("API status = %d, want 401", w.Code)
	}
	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Success {
		t.Errorf("unexpected API body %s", w.Body.String())
	}
}

func TestLoginFlow(t *testing.T) {
	r := testRouter(t)

	w := postLogin(r, "admin", "wrong")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), gate.FailureMessage) {
		t.Error("failure message not shown")
	}

	cookie := login(t, r)
	w = do(r, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"You are logged in!", "Dataset Overview", "Select Continent", "Select GDP Category"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}

	w = do(r, httptest.NewRequest(http.MethodGet, "/login", nil), cookie)
	if w.Code != http.StatusSeeOther {
		t.Errorf("login form for an authenticated session = %d, want redirect", w.Code)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	r := testRouter(t)
	login(t, r)

	w := do(r, httptest.NewRequest(http.MethodGet, "/login", nil))
	other := sessionCookie(t, w)
	w = do(r, httptest.NewRequest(http.MethodGet, "/", nil), other)
	if w.Code != http.StatusSeeOther {
		t.Errorf("second session status = %d, want redirect", w.Code)
	}
}

func TestEveryPageRenders(t *testing.T) {
	r := testRouter(t)
	cookie := login(t, r)
	for _, p := range pages.All {
		for _, query := range []string{"", "?filtered=1"} {
			path := "/page/" + p.Slug() + query
			w := do(r, httptest.NewRequest(http.MethodGet, path, nil), cookie)
			if w.Code != http.StatusOK {
				t.Errorf("GET %s = %d", path, w.Code)
			}
			if query != "" && p != pages.Home && p != pages.About &&
				!strings.Contains(w.Body.String(), pages.Placeholder) {
				t.Errorf("GET %s: placeholder missing", path)
			}
		}
	}
}

func TestPageAPIFilters(t *testing.T) {
	r := testRouter(t)
	cookie := login(t, r)

	resp := getPage(t, r, "/api/v1/pages/home?filtered=1&continent=Asia&continent=Europe&gdp=High", cookie)
	if !resp.Success || resp.Data.Rows != 3 {
		t.Errorf("rows = %d, want 3", resp.Data.Rows)
	}

	// The session keeps the last selection.
	resp = getPage(t, r, "/api/v1/pages/home", cookie)
	if resp.Data.Rows != 3 {
		t.Errorf("rows without query = %d, want 3", resp.Data.Rows)
	}

	resp = getPage(t, r, "/api/v1/pages/nowhere", cookie)
	if resp.Data.Slug != "home" {
		t.Errorf("unknown page slug = %q, want home", resp.Data.Slug)
	}
}

func TestFeaturesAPI(t *testing.T) {
	r := testRouter(t)
	cookie := login(t, r)

	resp := getPage(t, r, "/api/v1/pages/features", cookie)
	if resp.Data.Analysis == nil {
		t.Fatal("missing analysis")
	}
	if got := len(resp.Data.Analysis.Importances); got != 4 {
		t.Errorf("importances = %d, want 4", got)
	}
}

func TestChartPNG(t *testing.T) {
	r := testRouter(t)
	cookie := login(t, r)

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/v1/charts/basic/0.png", nil), cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/charts/basic/99.png", http.StatusNotFound},
		{"/api/v1/charts/basic/x.png", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if w := do(r, httptest.NewRequest(http.MethodGet, tt.path, nil), cookie); w.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, w.Code, tt.want)
		}
	}
}

func TestFiltersAPI(t *testing.T) {
	r := testRouter(t)
	cookie := login(t, r)

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/v1/filters", nil), cookie)
	var resp struct {
		Data struct {
			Options struct {
				Continents []string `json:"continents"`
			} `json:"options"`
			Selected struct {
				Continents []string `json:"continents"`
			} `json:"selected"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	want := []string{"Africa", "Asia", "Europe", "South America"}
	if strings.Join(resp.Data.Options.Continents, ",") != strings.Join(want, ",") {
		t.Errorf("options = %v, want %v", resp.Data.Options.Continents, want)
	}
	if len(resp.Data.Selected.Continents) != len(want) {
		t.Errorf("default selection = %v, want every option", resp.Data.Selected.Continents)
	}
}

func TestExport(t *testing.T) {
	r := testRouter(t)
	cookie := login(t, r)

	w := do(r, httptest.NewRequest(http.MethodGet, "/export.xlsx?filtered=1&continent=Asia&gdp=Low&gdp=High", nil), cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(exportSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "Country" || rows[1][0] != "Japan" || rows[2][0] != "India" {
		t.Errorf("unexpected rows %v", rows)
	}
}

func TestSetupLoggingReadsEnvFile(t *testing.T) {
	t.Setenv("ENV", "")
	os.Unsetenv("ENV")
	defer slog.SetDefault(slog.Default())

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ENV=production\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger, err := setupLogging(&buf, path)
	if err != nil {
		t.Fatalf("setupLogging: %v", err)
	}
	logger.Info("ready")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if _, ok := entry["source"]; ok {
		t.Errorf("production logger should not add source: %v", entry)
	}

	buf.Reset()
	if _, err := setupLogging(&buf, filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected an error for a missing env file")
	}
}

func TestCORSConfig(t *testing.T) {
	if cfg := corsConfig([]string{"*"}); !cfg.AllowAllOrigins || len(cfg.AllowOrigins) != 0 {
		t.Errorf("wildcard config = %+v", cfg)
	}
	cfg := corsConfig([]string{"http://localhost:3000"})
	if cfg.AllowAllOrigins || len(cfg.AllowOrigins) != 1 {
		t.Errorf("explicit config = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadConfigFlags(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("ANALYSIS_TREES", "50")

	cfg, cli, err := LoadConfig(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-data", "x.csv", "-analyze"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "7000" || cfg.Trees != 50 || cfg.DataPath != "x.csv" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if !cli.Analyze || cli.Discover {
		t.Errorf("unexpected modes %+v", cli)
	}
}

func TestRunDiscoverAndAnalyze(t *testing.T) {
	cfg := &Config{DataPath: "data/data.csv", Trees: 5, Seed: 42}

	var buf bytes.Buffer
	if err := runDiscover(cfg, &buf); err != nil {
		t.Fatalf("runDiscover: %v", err)
	}
	desc, err := schema.Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("discovered schema does not parse: %v", err)
	}
	if k, _ := desc.KindOf("Literacy Rate (%)"); k != schema.Numeric {
		t.Errorf("Literacy Rate kind = %q", k)
	}

	sch, err := schema.Load("data/schema.json")
	if err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := runAnalyze(cfg, *sch, &buf, true); err != nil {
		t.Fatalf("runAnalyze: %v", err)
	}
	if !strings.Contains(buf.String(), `"importances"`) {
		t.Errorf("unexpected output %s", buf.String())
	}

	buf.Reset()
	if err := runAnalyze(cfg, *sch, &buf, false); err != nil {
		t.Fatalf("runAnalyze: %v", err)
	}
	for _, want := range []string{"IMPORTANCE", "Literacy Rate (%)", "Target: GDP Growth (% Annual)"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("table output missing %q", want)
		}
	}
}
