package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	hconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"

	"MindBalance/config"
	"MindBalance/internal/middleware"
	"MindBalance/internal/model"
	"MindBalance/internal/model/dto"
	"MindBalance/internal/repository"
	"MindBalance/internal/service"
	"MindBalance/pkg/response"
	"MindBalance/pkg/token"
)

var engine *route.Engine

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "mindbalance-router")
	if err != nil {
		panic(err)
	}

	config.Cfg.JWTSecret = "router-test-secret"
	if err := token.Init(); err != nil {
		panic(err)
	}
	if err := middleware.Init(); err != nil {
		panic(err)
	}

	store, err := repository.NewJSONStore(dir)
	if err != nil {
		panic(err)
	}

	var seq int
	service.Setup(service.Dependencies{
		Store: store,
		NextID: func(prefix string) (string, error) {
			seq++
			return fmt.Sprintf("%s%06d", prefix, seq), nil
		},
	})

	engine = route.NewEngine(hconfig.NewOptions(nil))
	Register(engine)

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func jsonBody(t *testing.T, v interface{}) *ut.Body {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return &ut.Body{Body: bytes.NewReader(b), Len: len(b)}
}

func login(t *testing.T, email string) string {
	t.Helper()
	w := ut.PerformRequest(engine, http.MethodPost, "/api/auth/login",
		jsonBody(t, dto.LoginRequest{Email: email, Password: "password123"}),
		ut.Header{Key: "Content-Type", Value: "application/json"},
	)
	if w.Result().StatusCode() != http.StatusOK {
		t.Fatalf("login %s: status=%d body=%s", email, w.Result().StatusCode(), w.Result().Body())
	}
	var resp dto.LoginResponse
	if err := json.Unmarshal(w.Result().Body(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return resp.Token
}

func bearer(tok string) ut.Header {
	return ut.Header{Key: "Authorization", Value: "Bearer " + tok}
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp response.ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode error %s: %v", body, err)
	}
	return resp.Code
}

func TestHealth(t *testing.T) {
	w := ut.PerformRequest(engine, http.MethodGet, "/api/health", nil)
	var resp dto.HealthResponse
	if err := json.Unmarshal(w.Result().Body(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "healthy" || resp.Message != "MindBalance API is running!" {
		t.Fatalf("unexpected %+v", resp)
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Fatalf("timestamp %q: %v", resp.Timestamp, err)
	}
}

func TestLoginErrors(t *testing.T) {
	cases := []struct {
		name   string
		req    dto.LoginRequest
		status int
		code   string
	}{
		{"unknown user", dto.LoginRequest{Email: "ghost@company.com", Password: "x"}, http.StatusNotFound, "USER_NOT_FOUND"},
		{"wrong password", dto.LoginRequest{Email: "mariana.silva@company.com", Password: "x"}, http.StatusUnauthorized, "WRONG_PASSWORD"},
		{"missing fields", dto.LoginRequest{}, http.StatusBadRequest, "INVALID_REQUEST"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ut.PerformRequest(engine, http.MethodPost, "/api/auth/login", jsonBody(t, tc.req),
				ut.Header{Key: "Content-Type", Value: "application/json"})
			if w.Result().StatusCode() != tc.status {
				t.Fatalf("status=%d, want %d", w.Result().StatusCode(), tc.status)
			}
			if got := errorCode(t, w.Result().Body()); got != tc.code {
				t.Fatalf("code=%q, want %q", got, tc.code)
			}
		})
	}
}

func TestCheckInRequiresToken(t *testing.T) {
	w := ut.PerformRequest(engine, http.MethodPost, "/api/checkin", jsonBody(t, dto.CreateCheckInRequest{Mood: 3, Energy: 3, Workload: "light"}))
	if w.Result().StatusCode() != http.StatusUnauthorized {
		t.Fatalf("status=%d", w.Result().StatusCode())
	}
	if got := errorCode(t, w.Result().Body()); got != "UNAUTHORIZED" {
		t.Fatalf("code=%q", got)
	}
}

func TestCheckInFlow(t *testing.T) {
	tok := login(t, "julia.costa@company.com")

	w := ut.PerformRequest(engine, http.MethodPost, "/api/checkin",
		jsonBody(t, dto.CreateCheckInRequest{Mood: 5, Energy: 5, Workload: model.WorkloadLight, Comment: "great day"}),
		bearer(tok), ut.Header{Key: "Content-Type", Value: "application/json"},
	)
	if w.Result().StatusCode() != http.StatusOK {
		t.Fatalf("create status=%d body=%s", w.Result().StatusCode(), w.Result().Body())
	}
	var created dto.CreateCheckInResponse
	if err := json.Unmarshal(w.Result().Body(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.Success || created.CheckIn.UserID != "user003" || created.CheckIn.AISuggestion == "" {
		t.Fatalf("unexpected %+v", created)
	}

	w = ut.PerformRequest(engine, http.MethodPost, "/api/checkin",
		jsonBody(t, dto.CreateCheckInRequest{Mood: 7, Energy: 5, Workload: model.WorkloadLight}),
		bearer(tok), ut.Header{Key: "Content-Type", Value: "application/json"},
	)
	if w.Result().StatusCode() != http.StatusBadRequest || errorCode(t, w.Result().Body()) != "INVALID_CHECKIN" {
		t.Fatalf("invalid check-in status=%d body=%s", w.Result().StatusCode(), w.Result().Body())
	}

	w = ut.PerformRequest(engine, http.MethodGet, "/api/checkin/history/user003?period=week", nil, bearer(tok))
	var history dto.HistoryResponse
	if err := json.Unmarshal(w.Result().Body(), &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if history.Total != 1 || history.History[0].ID != created.CheckIn.ID {
		t.Fatalf("history=%+v", history)
	}

	w = ut.PerformRequest(engine, http.MethodGet, "/api/checkin/history/user001", nil, bearer(tok))
	if w.Result().StatusCode() != http.StatusForbidden {
		t.Fatalf("foreign history status=%d", w.Result().StatusCode())
	}

	w = ut.PerformRequest(engine, http.MethodGet, "/api/dashboard/personal/user003", nil, bearer(tok))
	var dash dto.PersonalDashboardResponse
	if err := json.Unmarshal(w.Result().Body(), &dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if !dash.Success || dash.WeekSummary.CheckinsCompleted != 1 || len(dash.ChartData) != 1 {
		t.Fatalf("dashboard=%+v", dash)
	}
}

func TestAdminDashboardRequiresAdmin(t *testing.T) {
	w := ut.PerformRequest(engine, http.MethodGet, "/api/dashboard/admin", nil, bearer(login(t, "pedro.oliveira@company.com")))
	if w.Result().StatusCode() != http.StatusForbidden {
		t.Fatalf("employee status=%d", w.Result().StatusCode())
	}

	w = ut.PerformRequest(engine, http.MethodGet, "/api/dashboard/admin?department=all&period=month", nil, bearer(login(t, "carlos.santos@company.com")))
	if w.Result().StatusCode() != http.StatusOK {
		t.Fatalf("admin status=%d body=%s", w.Result().StatusCode(), w.Result().Body())
	}
	var resp dto.AdminDashboardResponse
	if err := json.Unmarshal(w.Result().Body(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Alerts == nil {
		t.Fatalf("unexpected %+v", resp)
	}
}

func TestResources(t *testing.T) {
	w := ut.PerformRequest(engine, http.MethodGet, "/api/resources?category=Mindfulness&difficulty=Easy", nil)
	var list dto.ResourceListResponse
	if err := json.Unmarshal(w.Result().Body(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Resources) != 2 || len(list.Categories) != 5 {
		t.Fatalf("resources=%d categories=%v", len(list.Resources), list.Categories)
	}

	for _, path := range []string{"/api/resources/999", "/api/resources/abc"} {
		w = ut.PerformRequest(engine, http.MethodGet, path, nil)
		if w.Result().StatusCode() != http.StatusNotFound || errorCode(t, w.Result().Body()) != "RESOURCE_NOT_FOUND" {
			t.Fatalf("%s status=%d", path, w.Result().StatusCode())
		}
	}

	w = ut.PerformRequest(engine, http.MethodGet, "/api/resources/1", nil)
	var one dto.ResourceResponse
	if err := json.Unmarshal(w.Result().Body(), &one); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if one.Resource.ID != 1 || !one.Success {
		t.Fatalf("resource=%+v", one)
	}
}
