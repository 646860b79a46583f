package service

import (
	"context"
	"errors"
	"time"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/regulation"
)

var errMock = errors.New("mock failure")

var (
	_ port.ExpenseRepository            = (*mockExpenseRepo)(nil)
	_ port.TripReportRepository         = (*mockReportRepo)(nil)
	_ port.ApplicationSummaryRepository = (*mockSummaryRepo)(nil)
)

type mockUserRepo struct {
	createFunc        func(ctx context.Context, user *entity.User) error
	getByIDFunc       func(ctx context.Context, id int64) (*entity.User, error)
	getByEmailFunc    func(ctx context.Context, email string) (*entity.User, error)
	updateProfileFunc func(ctx context.Context, user *entity.User) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *entity.User) error {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, user)
	}
	return nil
}

type mockSettingsRepo struct {
	row       *entity.AllowanceSettings
	getErr    error
	upsertErr error
	upserted  *entity.AllowanceSettings
}

func (m *mockSettingsRepo) GetByUserID(ctx context.Context, userID int64) (*entity.AllowanceSettings, error) {
	return m.row, m.getErr
}

func (m *mockSettingsRepo) Upsert(ctx context.Context, settings *entity.AllowanceSettings) error {
	m.upserted = settings
	return m.upsertErr
}

type mockTripRepo struct {
	trips        map[int64]*entity.TripApplication
	nextID       int64
	lastFilter   entity.TripFilter
	updateCalls  int
	deleteCalls  int
	createErr    error
	updateStatus func(ctx context.Context, trip *entity.TripApplication) error
}

func newMockTripRepo(trips ...*entity.TripApplication) *mockTripRepo {
	m := &mockTripRepo{trips: make(map[int64]*entity.TripApplication), nextID: 100}
	for _, t := range trips {
		m.trips[t.ID] = t
	}
	return m
}

func (m *mockTripRepo) Create(ctx context.Context, trip *entity.TripApplication) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	trip.ID = m.nextID
	m.trips[trip.ID] = trip
	return nil
}

func (m *mockTripRepo) GetByID(ctx context.Context, id int64) (*entity.TripApplication, error) {
	t, ok := m.trips[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *mockTripRepo) List(ctx context.Context, filter entity.TripFilter) ([]*entity.TripApplication, error) {
	m.lastFilter = filter
	var out []*entity.TripApplication
	for _, t := range m.trips {
		if filter.UserID != 0 && t.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTripRepo) UpdateStatus(ctx context.Context, trip *entity.TripApplication) error {
	m.updateCalls++
	if m.updateStatus != nil {
		return m.updateStatus(ctx, trip)
	}
	m.trips[trip.ID] = trip
	return nil
}

func (m *mockTripRepo) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	delete(m.trips, id)
	return nil
}

type mockExpenseRepo struct {
	apps        map[int64]*entity.ExpenseApplication
	categories  []*entity.ExpenseCategory
	nextID      int64
	lastFilter  entity.ExpenseFilter
	updateCalls int
	deleteCalls int
	createErr   error
}

func newMockExpenseRepo(apps ...*entity.ExpenseApplication) *mockExpenseRepo {
	m := &mockExpenseRepo{
		apps:   make(map[int64]*entity.ExpenseApplication),
		nextID: 200,
		categories: []*entity.ExpenseCategory{
			{ID: 1, Code: "TRANSPORTATION", Name: "交通費", IsActive: true},
			{ID: 7, Code: entity.DefaultExpenseCategory, Name: "雑費", IsActive: true},
		},
	}
	for _, a := range apps {
		m.apps[a.ID] = a
	}
	return m
}

func (m *mockExpenseRepo) Create(ctx context.Context, app *entity.ExpenseApplication) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	app.ID = m.nextID
	m.apps[app.ID] = app
	return nil
}

func (m *mockExpenseRepo) GetByID(ctx context.Context, id int64) (*entity.ExpenseApplication, error) {
	a, ok := m.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *mockExpenseRepo) List(ctx context.Context, filter entity.ExpenseFilter) ([]*entity.ExpenseApplication, error) {
	m.lastFilter = filter
	var out []*entity.ExpenseApplication
	for _, a := range m.apps {
		if filter.UserID != 0 && a.UserID != filter.UserID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *mockExpenseRepo) UpdateStatus(ctx context.Context, app *entity.ExpenseApplication) error {
	m.updateCalls++
	m.apps[app.ID] = app
	return nil
}

func (m *mockExpenseRepo) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	delete(m.apps, id)
	return nil
}

func (m *mockExpenseRepo) ListCategories(ctx context.Context) ([]*entity.ExpenseCategory, error) {
	return m.categories, nil
}

type mockReportRepo struct {
	reports map[int64]*entity.TripReport
	nextID  int64
	updated *entity.TripReport
	deleted []int64
}

func newMockReportRepo(reports ...*entity.TripReport) *mockReportRepo {
	m := &mockReportRepo{reports: make(map[int64]*entity.TripReport), nextID: 300}
	for _, r := range reports {
		m.reports[r.ID] = r
	}
	return m
}

func (m *mockReportRepo) Create(ctx context.Context, report *entity.TripReport) error {
	for _, r := range m.reports {
		if r.TripApplicationID == report.TripApplicationID {
			return domain.ConflictError{Resource: "trip report", Msg: "already exists"}
		}
	}
	m.nextID++
	report.ID = m.nextID
	m.reports[report.ID] = report
	return nil
}

func (m *mockReportRepo) GetByID(ctx context.Context, id int64) (*entity.TripReport, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *mockReportRepo) GetByTripID(ctx context.Context, tripID int64) (*entity.TripReport, error) {
	for _, r := range m.reports {
		if r.TripApplicationID == tripID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockReportRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.TripReport, error) {
	var out []*entity.TripReport
	for _, r := range m.reports {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReportRepo) Update(ctx context.Context, report *entity.TripReport) error {
	m.updated = report
	m.reports[report.ID] = report
	return nil
}

func (m *mockReportRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	delete(m.reports, id)
	return nil
}

func (m *mockReportRepo) ReportedTripIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	ids := make(map[int64]bool)
	for _, r := range m.reports {
		if r.UserID == userID {
			ids[r.TripApplicationID] = true
		}
	}
	return ids, nil
}

type mockSummaryRepo struct {
	apps []*entity.ApplicationSummary
	err  error
}

func (m *mockSummaryRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.ApplicationSummary, error) {
	return m.apps, m.err
}

type mockRegulationRepo struct {
	regs   map[int64]*entity.Regulation
	nextID int64
}

func newMockRegulationRepo(regs ...*entity.Regulation) *mockRegulationRepo {
	m := &mockRegulationRepo{regs: make(map[int64]*entity.Regulation), nextID: 10}
	for _, r := range regs {
		m.regs[r.ID] = r
	}
	return m
}

func (m *mockRegulationRepo) Create(ctx context.Context, reg *entity.Regulation) error {
	m.nextID++
	reg.ID = m.nextID
	m.regs[reg.ID] = reg
	return nil
}

func (m *mockRegulationRepo) Update(ctx context.Context, reg *entity.Regulation) error {
	m.regs[reg.ID] = reg
	return nil
}

func (m *mockRegulationRepo) GetByID(ctx context.Context, id int64) (*entity.Regulation, error) {
	return m.regs[id], nil
}

func (m *mockRegulationRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.Regulation, error) {
	var out []*entity.Regulation
	for _, r := range m.regs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRegulationRepo) Delete(ctx context.Context, id int64) error {
	delete(m.regs, id)
	return nil
}

type mockNotificationRepo struct {
	created   []*entity.Notification
	createErr error
	markRead  bool
	unread    int
	lastLimit int
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	n.ID = int64(len(m.created) + 1)
	m.created = append(m.created, n)
	return nil
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	m.lastLimit = limit
	return m.created, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, userID, id int64) (bool, error) {
	return m.markRead, nil
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID int64) (int, error) {
	return m.unread, nil
}

type mockFileStorage struct {
	files   map[string][]byte
	saveErr error
}

func newMockFileStorage() *mockFileStorage {
	return &mockFileStorage{files: make(map[string][]byte)}
}

func (m *mockFileStorage) Save(ctx context.Context, path string, content []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.files[path] = content
	return nil
}

func (m *mockFileStorage) Read(ctx context.Context, path string) ([]byte, error) {
	b, ok := m.files[path]
	if !ok {
		return nil, errMock
	}
	return b, nil
}

func (m *mockFileStorage) Exists(ctx context.Context, path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *mockFileStorage) Delete(ctx context.Context, path string) error {
	delete(m.files, path)
	return nil
}

func (m *mockFileStorage) GetFullPath(relativePath string) string {
	return "/data/" + relativePath
}

type mockArchive struct {
	records map[string]*entity.ExportRecord
	putErr  error
}

func newMockArchive() *mockArchive {
	return &mockArchive{records: make(map[string]*entity.ExportRecord)}
}

func (m *mockArchive) Put(ctx context.Context, rec *entity.ExportRecord) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *mockArchive) Get(ctx context.Context, id string) (*entity.ExportRecord, error) {
	return m.records[id], nil
}

func (m *mockArchive) ListByRegulation(ctx context.Context, regulationID int64) ([]*entity.ExportRecord, error) {
	var out []*entity.ExportRecord
	for _, r := range m.records {
		if r.RegulationID == regulationID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockArchive) ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]*entity.ExportRecord, error) {
	return nil, nil
}

func (m *mockArchive) Delete(ctx context.Context, id string) error {
	delete(m.records, id)
	return nil
}

type mockRenderer struct {
	format string
	err    error
}

func (m *mockRenderer) Format() string      { return m.format }
func (m *mockRenderer) Extension() string   { return m.format }
func (m *mockRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (m *mockRenderer) Render(doc regulation.Document, text string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []byte(text), nil
}

type mockHasher struct{}

func (mockHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (mockHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errMock
	}
	return nil
}

type mockTokens struct {
	claims   *port.TokenClaims
	parseErr error
}

func (m *mockTokens) Issue(user *entity.User) (string, time.Time, error) {
	return "token-for-" + user.Email, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

func (m *mockTokens) Parse(token string) (*port.TokenClaims, error) {
	return m.claims, m.parseErr
}

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}
