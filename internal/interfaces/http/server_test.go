package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/travel-expense/internal/application/dispatcher"
	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/application/service"
	"github.com/garyjia/travel-expense/internal/domain"
	"github.com/garyjia/travel-expense/internal/domain/allowance"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/rateconfig"
	"github.com/garyjia/travel-expense/internal/domain/regulation"
	"github.com/garyjia/travel-expense/internal/domain/workflow"
)

var errBoom = errors.New("boom")

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

type fakeHealth struct{ status *port.HealthStatus }

func (f fakeHealth) Health(ctx context.Context) *port.HealthStatus { return f.status }

// fakeAuth resolves tokens through a fixed map
type fakeAuth struct {
	tokens   map[string]*entity.User
	register func(in service.RegisterInput) (*entity.User, error)
	login    func(email, password string) (*service.LoginResult, error)
}

func (f *fakeAuth) Register(ctx context.Context, in service.RegisterInput) (*entity.User, error) {
	return f.register(in)
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	return f.login(email, password)
}

func (f *fakeAuth) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	if u, ok := f.tokens[token]; ok {
		return u, nil
	}
	return nil, domain.ErrUnauthorized
}

func (f *fakeAuth) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	for _, u := range f.tokens {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, domain.NotFoundError{Resource: "user", ID: userID}
}

func (f *fakeAuth) UpdateProfile(ctx context.Context, userID int64, in service.ProfileInput) (*entity.User, error) {
	return &entity.User{ID: userID, FullName: in.FullName}, nil
}

type fakeAllowance struct {
	lastPreview service.PreviewInput
	breakdown   *allowance.Breakdown
	saved       rateconfig.Partial
}

func (f *fakeAllowance) GetRates(ctx context.Context, userID int64) (rateconfig.Rates, error) {
	return rateconfig.WithDefaults(rateconfig.Partial{}), nil
}

func (f *fakeAllowance) SaveRates(ctx context.Context, userID int64, p rateconfig.Partial) (rateconfig.Rates, error) {
	f.saved = p
	return rateconfig.WithDefaults(p), nil
}

func (f *fakeAllowance) Preview(ctx context.Context, userID int64, in service.PreviewInput) (*allowance.Breakdown, error) {
	f.lastPreview = in
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, nil
	}
	return f.breakdown, nil
}

type fakeTrips struct {
	submitted service.SubmitTripInput
	submitErr error
	actions   []string
}

func (f *fakeTrips) Submit(ctx context.Context, userID int64, in service.SubmitTripInput) (*entity.TripApplication, error) {
	f.submitted = in
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &entity.TripApplication{ID: 7, UserID: userID, Title: entity.TripTitle(in.Destination), Status: "pending"}, nil
}

func (f *fakeTrips) Get(ctx context.Context, actor *entity.User, id int64) (*entity.TripApplication, error) {
	if id != 7 {
		return nil, domain.NotFoundError{Resource: "trip application", ID: id}
	}
	return &entity.TripApplication{ID: id, UserID: actor.ID}, nil
}

func (f *fakeTrips) List(ctx context.Context, actor *entity.User, filter entity.TripFilter) ([]*entity.TripApplication, error) {
	return nil, nil
}

func (f *fakeTrips) Approve(ctx context.Context, actor *entity.User, id int64) (*entity.TripApplication, error) {
	f.actions = append(f.actions, "approve")
	return &entity.TripApplication{ID: id, Status: "approved"}, nil
}

func (f *fakeTrips) Reject(ctx context.Context, actor *entity.User, id int64) (*entity.TripApplication, error) {
	f.actions = append(f.actions, "reject")
	return &entity.TripApplication{ID: id, Status: "rejected"}, nil
}

func (f *fakeTrips) Cancel(ctx context.Context, actor *entity.User, id int64) (*entity.TripApplication, error) {
	return nil, domain.ConflictError{Resource: "trip application", Msg: "invalid status transition"}
}

func (f *fakeTrips) Delete(ctx context.Context, actor *entity.User, id int64) error {
	return errBoom
}

func (f *fakeTrips) AllowedActions(ctx context.Context, actor *entity.User, trip *entity.TripApplication) []workflow.Trigger {
	if actor.CanApprove() {
		return []workflow.Trigger{workflow.TriggerApprove, workflow.TriggerReject}
	}
	return []workflow.Trigger{workflow.TriggerCancel}
}

type fakeExpenses struct {
	submitted service.SubmitExpenseInput
	actions   []string
}

func (f *fakeExpenses) Categories(ctx context.Context) ([]*entity.ExpenseCategory, error) {
	return []*entity.ExpenseCategory{{ID: 1, Code: "TRANSPORTATION", Name: "交通費"}}, nil
}

func (f *fakeExpenses) Submit(ctx context.Context, userID int64, in service.SubmitExpenseInput) (*entity.ExpenseApplication, error) {
	f.submitted = in
	if len(in.Items) == 0 {
		return nil, domain.ValidationError{Field: "items", Msg: service.MsgNoExpenseItems}
	}
	return &entity.ExpenseApplication{ID: 11, UserID: userID, Title: entity.DefaultExpenseTitle, Status: "pending"}, nil
}

func (f *fakeExpenses) Get(ctx context.Context, actor *entity.User, id int64) (*entity.ExpenseApplication, error) {
	if id != 11 {
		return nil, domain.NotFoundError{Resource: "expense application", ID: id}
	}
	return &entity.ExpenseApplication{ID: id, UserID: actor.ID, Status: "pending"}, nil
}

func (f *fakeExpenses) List(ctx context.Context, actor *entity.User, filter entity.ExpenseFilter) ([]*entity.ExpenseApplication, error) {
	return nil, nil
}

func (f *fakeExpenses) Approve(ctx context.Context, actor *entity.User, id int64) (*entity.ExpenseApplication, error) {
	f.actions = append(f.actions, "approve")
	return &entity.ExpenseApplication{ID: id, Status: "approved"}, nil
}

func (f *fakeExpenses) Reject(ctx context.Context, actor *entity.User, id int64) (*entity.ExpenseApplication, error) {
	f.actions = append(f.actions, "reject")
	return &entity.ExpenseApplication{ID: id, Status: "rejected"}, nil
}

func (f *fakeExpenses) Cancel(ctx context.Context, actor *entity.User, id int64) (*entity.ExpenseApplication, error) {
	f.actions = append(f.actions, "cancel")
	return &entity.ExpenseApplication{ID: id, Status: "cancelled"}, nil
}

func (f *fakeExpenses) Delete(ctx context.Context, actor *entity.User, id int64) error {
	f.actions = append(f.actions, "delete")
	return nil
}

func (f *fakeExpenses) AllowedActions(ctx context.Context, actor *entity.User, app *entity.ExpenseApplication) []workflow.Trigger {
	return []workflow.Trigger{workflow.TriggerCancel}
}

type fakeReports struct {
	updated service.UpdateTripReportInput
}

func (f *fakeReports) Create(ctx context.Context, actor *entity.User, tripID int64) (*entity.TripReport, error) {
	if tripID != 7 {
		return nil, domain.ConflictError{Resource: "trip report", Msg: "reports can only be written for approved trips"}
	}
	return &entity.TripReport{ID: 21, UserID: actor.ID, TripApplicationID: tripID, ReportTitle: entity.ReportTitle("大阪"), Status: entity.ReportStatusDraft}, nil
}

func (f *fakeReports) Candidates(ctx context.Context, actor *entity.User) ([]*entity.TripApplication, error) {
	return []*entity.TripApplication{{ID: 7, UserID: actor.ID, Status: "approved"}}, nil
}

func (f *fakeReports) List(ctx context.Context, actor *entity.User) ([]*entity.TripReport, error) {
	return nil, nil
}

func (f *fakeReports) Get(ctx context.Context, actor *entity.User, id int64) (*entity.TripReport, error) {
	if id != 21 {
		return nil, domain.NotFoundError{Resource: "trip report", ID: id}
	}
	return &entity.TripReport{ID: id, UserID: actor.ID}, nil
}

func (f *fakeReports) Update(ctx context.Context, actor *entity.User, id int64, in service.UpdateTripReportInput) (*entity.TripReport, error) {
	f.updated = in
	return &entity.TripReport{ID: id, ReportTitle: in.Title, Content: in.Content}, nil
}

func (f *fakeReports) Submit(ctx context.Context, actor *entity.User, id int64) (*entity.TripReport, error) {
	return &entity.TripReport{ID: id, Status: entity.ReportStatusSubmitted}, nil
}

func (f *fakeReports) Delete(ctx context.Context, actor *entity.User, id int64) error {
	return domain.ConflictError{Resource: "trip report", Msg: "submitted reports cannot be changed"}
}

type fakeDashboard struct {
	lastStatus string
}

func (f *fakeDashboard) Applications(ctx context.Context, userID int64, status string) ([]*entity.ApplicationSummary, error) {
	f.lastStatus = status
	return []*entity.ApplicationSummary{{Kind: entity.ApplicationKindExpense, ID: 11, Status: "pending"}}, nil
}

func (f *fakeDashboard) Stats(ctx context.Context, userID int64) (*entity.DashboardStats, error) {
	return &entity.DashboardStats{
		Month:          "2024-05",
		MonthlyTotal:   decimal.NewFromInt(81200),
		PendingCount:   2,
		ApprovedAmount: decimal.NewFromInt(120800),
	}, nil
}

type fakeRegulations struct {
	created regulation.Document
}

func (f *fakeRegulations) Template() regulation.Document {
	return regulation.DefaultDocument(time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local))
}

func (f *fakeRegulations) Preview(doc regulation.Document) string {
	return regulation.GenerateText(doc)
}

func (f *fakeRegulations) Create(ctx context.Context, userID int64, doc regulation.Document) (*entity.Regulation, error) {
	f.created = doc
	reg := entity.NewRegulation(userID, doc)
	reg.ID = 5
	return reg, nil
}

func (f *fakeRegulations) Update(ctx context.Context, userID, id int64, doc regulation.Document) (*entity.Regulation, error) {
	return entity.NewRegulation(userID, doc), nil
}

func (f *fakeRegulations) Get(ctx context.Context, userID, id int64) (*entity.Regulation, error) {
	return nil, domain.NotFoundError{Resource: "regulation", ID: id}
}

func (f *fakeRegulations) List(ctx context.Context, userID int64) ([]*entity.Regulation, error) {
	return nil, nil
}

func (f *fakeRegulations) Delete(ctx context.Context, userID, id int64) error { return nil }

type fakeExports struct {
	format string
}

func (f *fakeExports) Export(ctx context.Context, userID, regulationID int64, format string) (*entity.ExportRecord, error) {
	f.format = format
	if format == "doc" {
		return nil, domain.ValidationError{Field: "format", Msg: "unsupported export format"}
	}
	return &entity.ExportRecord{ID: "exp-1", RegulationID: regulationID, Format: format}, nil
}

func (f *fakeExports) Open(ctx context.Context, userID int64, exportID string) (*entity.ExportRecord, []byte, error) {
	if exportID != "exp-1" {
		return nil, nil, domain.NotFoundError{Resource: "export", ID: exportID}
	}
	return &entity.ExportRecord{
		ID:          exportID,
		FileName:    "出張旅費規程_株式会社サンプル_v1.txt",
		ContentType: "text/plain; charset=utf-8",
	}, []byte("第1条"), nil
}

func (f *fakeExports) List(ctx context.Context, userID, regulationID int64) ([]*entity.ExportRecord, error) {
	return nil, nil
}

type fakeNotifications struct {
	lastLimit  int
	lastUnread bool
}

func (f *fakeNotifications) Subscribe(d dispatcher.Dispatcher) {}

func (f *fakeNotifications) Unsubscribe(d dispatcher.Dispatcher) {}

func (f *fakeNotifications) List(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	f.lastLimit, f.lastUnread = limit, unreadOnly
	return []*entity.Notification{{ID: 1, UserID: userID, Title: "出張申請が作成されました"}}, nil
}

func (f *fakeNotifications) MarkRead(ctx context.Context, userID, id int64) error {
	if id != 1 {
		return domain.NotFoundError{Resource: "notification", ID: id}
	}
	return nil
}

func (f *fakeNotifications) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return 3, nil
}

type fixture struct {
	server        *Server
	auth          *fakeAuth
	allowance     *fakeAllowance
	trips         *fakeTrips
	regulations   *fakeRegulations
	exports       *fakeExports
	notifications *fakeNotifications
	expenses      *fakeExpenses
	reports       *fakeReports
	dashboard     *fakeDashboard
}

func newFixture(t *testing.T, health HealthChecker) *fixture {
	t.Helper()
	f := &fixture{
		auth: &fakeAuth{tokens: map[string]*entity.User{
			"user-token":    {ID: 1, Email: "taro@example.com", Role: entity.RoleUser},
			"manager-token": {ID: 3, Email: "boss@example.com", Role: entity.RoleManager},
		}},
		expenses:      &fakeExpenses{},
		reports:       &fakeReports{},
		dashboard:     &fakeDashboard{},
		allowance:     &fakeAllowance{},
		trips:         &fakeTrips{},
		regulations:   &fakeRegulations{},
		exports:       &fakeExports{},
		notifications: &fakeNotifications{},
	}
	cfg := DefaultServerConfig()
	cfg.Mode = gin.TestMode
	f.server = NewServer(cfg, Services{
		Auth:         f.auth,
		Allowance:    f.allowance,
		Trip:         f.trips,
		Regulation:   f.regulations,
		Export:       f.exports,
		Notification: f.notifications,
		Expense:      f.expenses,
		TripReport:   f.reports,
		Dashboard:    f.dashboard,
	}, health, nopLogger{})
	return f
}

func (f *fixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.server.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthCheck(t *testing.T) {
	w := newFixture(t, nil).do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	healthy := &port.HealthStatus{Overall: true, Components: map[string]port.ComponentHealth{
		"database":   {Healthy: true},
		"dispatcher": {Healthy: true, Message: "handlers: 7"},
	}}
	w = newFixture(t, fakeHealth{status: healthy}).do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"handlers: 7"`)

	unhealthy := &port.HealthStatus{Overall: false, Components: map[string]port.ComponentHealth{
		"database": {Healthy: false, Message: "ping failed: boom"},
		"workers":  {Healthy: true},
	}}
	w = newFixture(t, fakeHealth{status: unhealthy}).do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy: database", decode(t, w)["error"])
}

func TestAuthMiddleware(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic user-token", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer user-token", http.StatusOK},
		{"case-insensitive scheme", "bearer user-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			f.server.Router().ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/trips/7/approve", "user-token", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, f.trips.actions)

	w = f.do(t, http.MethodPost, "/api/v1/trips/7/approve", "manager-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodPost, "/api/v1/trips/7/reject", "manager-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"approve", "reject"}, f.trips.actions)
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t, nil)
	f.auth.register = func(in service.RegisterInput) (*entity.User, error) {
		if in.Email == "taken@example.com" {
			return nil, domain.ConflictError{Resource: "user", Msg: "email already registered"}
		}
		return &entity.User{ID: 9, Email: in.Email, FullName: in.FullName, PasswordHash: "secret"}, nil
	}
	f.auth.login = func(email, password string) (*service.LoginResult, error) {
		if password != "password123" {
			return nil, domain.ErrInvalidCredentials
		}
		return &service.LoginResult{Token: "tok", ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), User: &entity.User{ID: 9}}, nil
	}

	w := f.do(t, http.MethodPost, "/api/v1/auth/register", "", `{"email":"new@example.com","password":"password123","full_name":"山田 太郎"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")

	w = f.do(t, http.MethodPost, "/api/v1/auth/register", "", `{"email":"taken@example.com","password":"password123","full_name":"x"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/auth/register", "", `{"email":"x@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"email":"new@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "tok", data["token"])

	w = f.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"email":"new@example.com","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, domain.ErrInvalidCredentials.Error(), decode(t, w)["error"])
}

func TestSubmitTrip(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/trips", "user-token",
		`{"destination":"大阪","purpose":"商談","start_date":"2024-05-10","end_date":"2024-05-12"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.Local), f.trips.submitted.StartDate)
	assert.Equal(t, time.Date(2024, 5, 12, 0, 0, 0, 0, time.Local), f.trips.submitted.EndDate)
	assert.Contains(t, w.Body.String(), "出張申請 - 大阪")

	w = f.do(t, http.MethodPost, "/api/v1/trips", "user-token", `{"destination":"大阪","start_date":"10/05/2024"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "start_date")

	f.trips.submitErr = domain.ValidationError{Msg: service.MsgRequiredFields}
	w = f.do(t, http.MethodPost, "/api/v1/trips", "user-token", `{"destination":"大阪"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgRequiredFields, decode(t, w)["error"])
}

func TestTripErrors(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"bad id", http.MethodGet, "/api/v1/trips/abc", http.StatusBadRequest},
		{"not found", http.MethodGet, "/api/v1/trips/99", http.StatusNotFound},
		{"found", http.MethodGet, "/api/v1/trips/7", http.StatusOK},
		{"conflict", http.MethodPost, "/api/v1/trips/7/cancel", http.StatusConflict},
		{"internal", http.MethodDelete, "/api/v1/trips/7", http.StatusInternalServerError},
		{"list empty", http.MethodGet, "/api/v1/trips?status=pending", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, tt.method, tt.path, "user-token", "")
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := f.do(t, http.MethodDelete, "/api/v1/trips/7", "user-token", "")
	assert.Equal(t, "internal server error", decode(t, w)["error"])

	w = f.do(t, http.MethodGet, "/api/v1/trips", "user-token", "")
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}

func TestPreviewAllowance(t *testing.T) {
	f := newFixture(t, nil)
	f.allowance.breakdown = &allowance.Breakdown{
		Days:                3,
		DailyAllowanceTotal: decimal.NewFromInt(45000),
		TransportationTotal: decimal.NewFromInt(18000),
		AccommodationTotal:  decimal.NewFromInt(32000),
		PreparationTotal:    decimal.Zero,
		GrandTotal:          decimal.NewFromInt(95000),
	}

	w := f.do(t, http.MethodPost, "/api/v1/allowances/preview", "user-token", `{"start_date":"2024-05-10"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"ready":false}}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/v1/allowances/preview", "user-token",
		`{"start_date":"2024-05-10","end_date":"2024-05-12","rates":{"version":2,"domestic_daily_allowance":20000}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"grand_total":95000`)
	require.NotNil(t, f.allowance.lastPreview.Rates)
	assert.True(t, decimal.NewFromInt(20000).Equal(*f.allowance.lastPreview.Rates.DomesticDailyAllowance))
}

func TestSaveAllowanceSettings(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPut, "/api/v1/me/allowance-settings", "user-token",
		`{"version":2,"overseas_daily_allowance":"30000","overseas_use_preparation":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.allowance.saved.OverseasDailyAllowance)
	assert.Equal(t, "30000", f.allowance.saved.OverseasDailyAllowance.String())
	require.NotNil(t, f.allowance.saved.OverseasUsePreparation)
	assert.False(t, *f.allowance.saved.OverseasUsePreparation)
	assert.Nil(t, f.allowance.saved.DomesticDailyAllowance)
}

func TestRegulationRoutes(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/regulations/template", "user-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "出張旅費規程")

	body := `{
		"company": {"name": "株式会社テスト", "revision": 2, "implementation_date": "2024-04-01"},
		"distance_threshold": 100,
		"positions": [{"name": "社員", "domestic_daily_allowance": 3000}]
	}`
	w = f.do(t, http.MethodPost, "/api/v1/regulations", "user-token", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local), f.regulations.created.Company.ImplementationDate)
	require.Len(t, f.regulations.created.Positions, 1)
	assert.Equal(t, "3000", f.regulations.created.Positions[0].DomesticDailyAllowance.String())

	w = f.do(t, http.MethodGet, "/api/v1/regulations/5", "user-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/regulations/preview", "user-token", `{"company":{"implementation_date":"April"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportRoutes(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/regulations/5/exports", "user-token", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, entity.ExportFormatText, f.exports.format)

	w = f.do(t, http.MethodPost, "/api/v1/regulations/5/exports?format=doc", "user-token", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/exports/exp-1", "user-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "第1条", w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	disposition := w.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, `filename="export.txt"`)
	assert.Contains(t, disposition, "filename*=UTF-8''%E5%87%BA")

	w = f.do(t, http.MethodGet, "/api/v1/exports/missing", "user-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTrip_AllowedActions(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/trips/7", "user-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(7), data["id"])
	assert.Equal(t, []interface{}{"cancel"}, data["allowed_actions"])

	w = f.do(t, http.MethodGet, "/api/v1/trips/7", "manager-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	data = decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{"approve", "reject"}, data["allowed_actions"])
}

func TestExpenseRoutes(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/expense-categories", "user-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "交通費")

	w = f.do(t, http.MethodPost, "/api/v1/expenses", "user-token",
		`{"items":[{"category_code":"TRANSPORTATION","date":"2024-04-20","amount":880,"description":"電車"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, f.expenses.submitted.Items, 1)
	item := f.expenses.submitted.Items[0]
	assert.Equal(t, time.Date(2024, 4, 20, 0, 0, 0, 0, time.Local), item.Date)
	assert.True(t, decimal.NewFromInt(880).Equal(item.Amount))

	w = f.do(t, http.MethodPost, "/api/v1/expenses", "user-token", `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgNoExpenseItems, decode(t, w)["error"])

	w = f.do(t, http.MethodPost, "/api/v1/expenses", "user-token",
		`{"items":[{"category_code":"TRANSPORTATION","date":"20/04/2024","amount":880}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "items[0].date")

	w = f.do(t, http.MethodGet, "/api/v1/expenses/11", "user-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"cancel"}, decode(t, w)["data"].(map[string]interface{})["allowed_actions"])

	w = f.do(t, http.MethodGet, "/api/v1/expenses/12", "user-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/expenses", "user-token", "")
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/v1/expenses/11/approve", "user-token", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	for _, path := range []string{"/api/v1/expenses/11/approve", "/api/v1/expenses/11/reject", "/api/v1/expenses/11/cancel"} {
		w = f.do(t, http.MethodPost, path, "manager-token", "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	w = f.do(t, http.MethodDelete, "/api/v1/expenses/11", "user-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"approve", "reject", "cancel", "delete"}, f.expenses.actions)
}

func TestTripReportRoutes(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/trip-reports", "user-token", `{"business_trip_application_id":7}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "大阪出張報告書")

	w = f.do(t, http.MethodPost, "/api/v1/trip-reports", "user-token", `{"business_trip_application_id":8}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/trip-reports", "user-token", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/trip-reports/candidates", "user-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)

	w = f.do(t, http.MethodGet, "/api/v1/trip-reports", "user-token", "")
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/v1/trip-reports/22", "user-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPut, "/api/v1/trip-reports/21", "user-token", `{"report_title":"大阪出張","content":"商談は成立"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "大阪出張", f.reports.updated.Title)
	assert.Equal(t, "商談は成立", f.reports.updated.Content)

	w = f.do(t, http.MethodPost, "/api/v1/trip-reports/21/submit", "user-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"submitted"`)

	w = f.do(t, http.MethodDelete, "/api/v1/trip-reports/21", "user-token", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDashboardRoutes(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/dashboard/stats", "user-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "2024-05", data["month"])
	assert.Equal(t, float64(81200), data["monthly_total"])
	assert.Equal(t, float64(120800), data["approved_amount"])
	assert.Equal(t, float64(2), data["pending_count"])

	w = f.do(t, http.MethodGet, "/api/v1/applications?status=pending", "user-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending", f.dashboard.lastStatus)
	assert.Contains(t, w.Body.String(), `"kind":"expense"`)
}

func TestNotificationRoutes(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/notifications?unread=true&limit=20", "user-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, f.notifications.lastLimit)
	assert.True(t, f.notifications.lastUnread)

	w = f.do(t, http.MethodGet, "/api/v1/notifications/unread-count", "user-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"unread":3}}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/v1/notifications/1/read", "user-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodPost, "/api/v1/notifications/2/read", "user-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ValidationError{Field: "x"}, http.StatusBadRequest},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ForbiddenError{}, http.StatusForbidden},
		{domain.NotFoundError{Resource: "trip"}, http.StatusNotFound},
		{domain.ConflictError{}, http.StatusConflict},
		{errBoom, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
