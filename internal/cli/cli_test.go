package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"library-management/backend/internal/dto"
	"library-management/backend/internal/model"
)

// ── fakes ──

type fakeUsers struct {
	byID map[string]*model.User
}

func (f *fakeUsers) Create(context.Context, *model.User) error { return nil }

func (f *fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) SaveFaceDescriptor(context.Context, string, []float64, time.Time) error {
	return nil
}

type fakeSalary struct {
	months []string
}

func (f *fakeSalary) Calculate(_ context.Context, month string) (*dto.SalaryCalculationResponse, error) {
	f.months = append(f.months, month)
	return &dto.SalaryCalculationResponse{
		Month: month,
		Records: []dto.SalaryResponse{
			{StaffID: "st-1", StaffName: "Asha", TotalPresentDays: 20, CalculatedAmount: 15000, Status: "Pending"},
		},
	}, nil
}

func (f *fakeSalary) ListMine(context.Context, string) ([]dto.SalaryResponse, error) {
	return nil, nil
}

func (f *fakeSalary) ListAll(context.Context, string) ([]dto.SalaryResponse, error) {
	return nil, nil
}

func (f *fakeSalary) UpdateStatus(context.Context, string, string) (*dto.SalaryResponse, error) {
	return nil, nil
}

type fakeQR struct {
	issuer string
	req    *dto.CreateQRSessionRequest
}

func (f *fakeQR) Create(_ context.Context, issuerID string, req *dto.CreateQRSessionRequest) (*dto.QRSessionResponse, error) {
	f.issuer, f.req = issuerID, req
	return &dto.QRSessionResponse{
		QRToken:          "tok-123",
		ExpiresAt:        "2026-03-10T18:30:00Z",
		LocationRequired: req.LocationRequired,
	}, nil
}

func (f *fakeQR) Validate(context.Context, string) (*dto.QRValidationResponse, error) {
	return nil, nil
}

func (f *fakeQR) GetActive(context.Context, string) (*dto.ActiveQRSessionResponse, error) {
	return nil, nil
}

type fakeProfile struct {
	calls int
}

func (f *fakeProfile) EnsureProfile(_ context.Context, user *model.User) (string, error) {
	f.calls++
	if user.Role == model.RoleAdmin {
		return "", nil
	}
	return "profile-" + user.UserID, nil
}

func (f *fakeProfile) Me(context.Context, string) (*dto.ProfileResponse, error) {
	return nil, nil
}

type fixture struct {
	salary  *fakeSalary
	qr      *fakeQR
	profile *fakeProfile
	closed  bool
	migrate func(context.Context) (uint, error)
}

func newFixture() *fixture {
	return &fixture{salary: &fakeSalary{}, qr: &fakeQR{}, profile: &fakeProfile{}}
}

func (f *fixture) boot(context.Context, string) (*App, error) {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	app := &App{
		Location: loc,
		// 2026-03-31 20:00 UTC is already April in Kolkata
		Now: func() time.Time { return time.Date(2026, 3, 31, 20, 0, 0, 0, time.UTC) },
		Users: &fakeUsers{byID: map[string]*model.User{
			"admin-1": {UserID: "admin-1", Email: "admin@lib.test", Role: model.RoleAdmin},
			"u-staff": {UserID: "u-staff", Email: "staff@lib.test", Role: model.RoleStaff},
		}},
		Salary:  f.salary,
		QR:      f.qr,
		Profile: f.profile,
		Migrate: f.migrate,
	}
	app.closers = append(app.closers, func() { f.closed = true })
	return app, nil
}

func run(t *testing.T, f *fixture, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(f.boot)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// ── tests ──

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(newFixture().boot)
	for _, path := range [][]string{{"migrate"}, {"salary", "calculate"}, {"qr", "issue"}, {"user", "provision"}} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, "command %v should exist", path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, newFixture(), "--format", "xml", "salary", "calculate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestMigrate(t *testing.T) {
	f := newFixture()
	f.migrate = func(context.Context) (uint, error) { return 1, nil }

	out, err := run(t, f, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "schema at version 1\n", out)
	assert.True(t, f.closed)
}

func TestMigrate_Error(t *testing.T) {
	f := newFixture()
	f.migrate = func(context.Context) (uint, error) { return 0, errors.New("dirty") }

	_, err := run(t, f, "migrate")
	require.EqualError(t, err, "dirty")
	assert.True(t, f.closed)
}

func TestSalaryCalculate_DefaultsToLocalMonth(t *testing.T) {
	f := newFixture()

	out, err := run(t, f, "salary", "calculate")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-04"}, f.salary.months)
	assert.Contains(t, out, "STAFF")
	assert.Contains(t, out, "Asha")
	assert.Contains(t, out, "15000")
}

func TestSalaryCalculate_JSON(t *testing.T) {
	f := newFixture()

	out, err := run(t, f, "--format", "json", "salary", "calculate", "--month", "2026-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-02"}, f.salary.months)

	var res dto.SalaryCalculationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "2026-02", res.Month)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 20, res.Records[0].TotalPresentDays)
}

func TestQRIssue(t *testing.T) {
	f := newFixture()

	out, err := run(t, f, "qr", "issue", "--issuer", "admin@lib.test", "--location-required", "--ttl", "2m")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", f.qr.issuer)
	require.NotNil(t, f.qr.req)
	assert.True(t, f.qr.req.LocationRequired)
	assert.Equal(t, 120, f.qr.req.ExpiresInSeconds)
	assert.Contains(t, out, "tok-123")
}

func TestQRIssue_PolicyWindowWithoutTTL(t *testing.T) {
	f := newFixture()

	_, err := run(t, f, "qr", "issue", "--issuer", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 0, f.qr.req.ExpiresInSeconds)
}

func TestQRIssue_Rejections(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"non admin", []string{"qr", "issue", "--issuer", "u-staff"}, "only admins"},
		{"unknown user", []string{"qr", "issue", "--issuer", "ghost"}, "not found"},
		{"missing issuer", []string{"qr", "issue"}, "issuer"},
		{"negative ttl", []string{"qr", "issue", "--issuer", "admin-1", "--ttl", "-1m"}, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := run(t, f, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Nil(t, f.qr.req)
		})
	}
}

func TestUserProvision(t *testing.T) {
	f := newFixture()

	out, err := run(t, f, "user", "provision", "--user", "u-staff")
	require.NoError(t, err)
	assert.Equal(t, 1, f.profile.calls)
	assert.Equal(t, "u-staff (Staff) profile profile-u-staff\n", out)

	out, err = run(t, f, "--format", "json", "user", "provision", "-u", "admin-1")
	require.NoError(t, err)
	var res provisionResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Admin", res.Role)
	assert.Empty(t, res.ProfileID)
}
