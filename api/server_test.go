package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"space-missions/models"
	"space-missions/services"
	"space-missions/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func day(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func testTable() *models.MissionTable {
	price := 50.0
	return models.NewMissionTable(append([]string(nil), models.RequiredColumns...), []*models.Mission{
		{Company: "NASA", LaunchDate: day("1957-10-04"), Rocket: "Atlas", Mission: "A", MissionStatus: "Success"},
		{Company: "NASA", LaunchDate: day("1957-10-05"), Rocket: "Zeus", Mission: "B", MissionStatus: "Failure"},
		{Company: "SpaceX", LaunchDate: day("2020-01-01"), Rocket: "Falcon 9", Mission: "C", MissionStatus: "Success", Price: &price},
		{Company: "SpaceX", Rocket: "Falcon 9", Mission: "D", MissionStatus: "Success"},
	})
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := utils.NewDiscardLogger()
	cache := services.NewStaticCache(testTable(), logger)
	return NewServer(services.NewQueryService(cache, logger), logger)
}

type failingLoader struct{}

func (failingLoader) Load(context.Context) (*models.MissionTable, error) {
	return nil, &services.DataLoadError{Source: "csv:missing.csv", Err: services.ErrSourceNotFound}
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body
}

func TestQueryRoutes(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		target string
		key    string
		want   any
	}{
		{"/v1/companies/NASA/missions", "count", 2.0},
		{"/v1/companies/Nobody/missions", "count", 0.0},
		{"/v1/companies/NASA/success-rate", "success_rate", 50.0},
		{"/v1/years/1957/missions", "count", 2.0},
		{"/v1/years/abc/missions", "count", 0.0},
		{"/v1/rockets/most-used", "rocket", "Falcon 9"},
		{"/v1/years/average?start=1957&end=1957", "average", 2.0},
		{"/v1/years/average?start=x&end=1957", "average", 0.0},
	}
	for _, tt := range tests {
		w := do(t, s, http.MethodGet, tt.target)
		if w.Code != http.StatusOK {
			t.Errorf("%s: status %d, want 200", tt.target, w.Code)
			continue
		}
		if got := decode(t, w)[tt.key]; got != tt.want {
			t.Errorf("%s: %s = %v, want %v", tt.target, tt.key, got, tt.want)
		}
	}
}

func TestMissionsByDateRangeRoute(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/v1/missions?start=1957-01-01&end=1957-12-31")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var body struct {
		Missions []string `json:"missions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if strings.Join(body.Missions, ",") != "A,B" {
		t.Errorf("missions: got %v, want [A B]", body.Missions)
	}

	w = do(t, s, http.MethodGet, "/v1/missions?start=bad&end=1957-12-31")
	if !strings.Contains(w.Body.String(), `"missions":[]`) {
		t.Errorf("bad bound: want empty list, got %s", w.Body.String())
	}
}

func TestTopCompaniesRoute(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/v1/companies/top?n=1")
	var body struct {
		Companies []models.CompanyCount `json:"companies"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Companies) != 1 || body.Companies[0].Company != "NASA" || body.Companies[0].Count != 2 {
		t.Errorf("top 1: got %+v", body.Companies)
	}

	for _, target := range []string{"/v1/companies/top?n=abc", "/v1/companies/top"} {
		w = do(t, s, http.MethodGet, target)
		if !strings.Contains(w.Body.String(), `"companies":[]`) {
			t.Errorf("%s: want empty list, got %s", target, w.Body.String())
		}
	}
}

func TestStatusesRoute(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/v1/statuses")
	var body struct {
		Statuses map[string]int `json:"statuses"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Statuses["Success"] != 3 || body.Statuses["Failure"] != 1 || len(body.Statuses) != 4 {
		t.Errorf("got %v", body.Statuses)
	}
}

func TestSummaryRoute(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/v1/summary?company=SpaceX")
	var body struct {
		Summary models.Summary    `json:"summary"`
		Yearly  []models.YearStat `json:"yearly"`
		Undated int               `json:"undated"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Summary.TotalMissions != 2 || body.Summary.SuccessRate != 100 {
		t.Errorf("summary: got %+v", body.Summary)
	}
	if len(body.Yearly) != 1 || body.Yearly[0].Year != 2020 {
		t.Errorf("yearly: got %+v", body.Yearly)
	}
	if body.Undated != 1 {
		t.Errorf("undated: got %d, want 1", body.Undated)
	}
}

func TestExportCSVRoute(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/v1/export.csv?company=SpaceX&column=Mission,Date,Price")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type: got %q", ct)
	}
	want := "Mission,Date,Price\nC,2020-01-01,50\nD,,\n"
	if w.Body.String() != want {
		t.Errorf("body: got %q, want %q", w.Body.String(), want)
	}

	w = do(t, s, http.MethodGet, "/v1/export.csv?column=Payload")
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown column: status %d, want 400", w.Code)
	}
}

func TestLoadFailureReturns503(t *testing.T) {
	logger := utils.NewDiscardLogger()
	cache := services.NewMissionCache(failingLoader{}, logger)
	s := NewServer(services.NewQueryService(cache, logger), logger)

	for _, target := range []string{
		"/v1/companies/NASA/missions",
		"/v1/statuses",
		"/v1/years/abc/missions",
		"/v1/summary",
	} {
		w := do(t, s, http.MethodGet, target)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status %d, want 503", target, w.Code)
			continue
		}
		if msg, _ := decode(t, w)["error"].(string); !strings.Contains(msg, "not found") {
			t.Errorf("%s: error %q", target, msg)
		}
	}

	if w := do(t, s, http.MethodPost, "/v1/reload"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("reload: status %d, want 503", w.Code)
	}
}

func TestHealthAndReload(t *testing.T) {
	s := newTestServer(t)

	body := decode(t, do(t, s, http.MethodGet, "/health"))
	if body["status"] != "ok" || body["loaded"] != true {
		t.Errorf("health: got %v", body)
	}

	w := do(t, s, http.MethodPost, "/v1/reload")
	if w.Code != http.StatusOK || decode(t, w)["missions"] != 4.0 {
		t.Errorf("reload: %d %s", w.Code, w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodGet, "/v1/rockets/most-used")
	do(t, s, http.MethodGet, "/v1/rockets/most-used")

	w := do(t, s, http.MethodGet, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	out := w.Body.String()
	for _, want := range []string{
		`missions_http_requests_total{route="/v1/rockets/most-used",status="200"} 2`,
		`missions_queries_total{query="MostUsedRocket"} 2`,
		"missions_http_request_duration_seconds_bucket",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{"A, B", "", "C"})
	if strings.Join(got, "|") != "A|B|C" {
		t.Errorf("got %v", got)
	}
}
