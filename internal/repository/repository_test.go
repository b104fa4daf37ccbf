package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"library-management/backend/internal/model"
	"library-management/backend/internal/repository"
	"library-management/backend/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

// newTestRepo opens a private in-memory SQLite database with the same
// unique indexes the migrations create.
func newTestRepo(t *testing.T) (*repository.Repository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig("error"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&model.User{},
		&model.Student{},
		&model.Staff{},
		&model.AttendanceRecord{},
		&model.QRSession{},
		&model.SalaryRecord{},
	); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	return repository.NewRepository(db), db
}

var day = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func newPresent(userID string) *model.AttendanceRecord {
	checkIn := day.Add(9 * time.Hour)
	return &model.AttendanceRecord{
		UserID:      userID,
		Role:        model.RoleStudent,
		Date:        day,
		CheckInTime: &checkIn,
		Method:      model.MethodQR,
		Status:      model.StatusPresent,
	}
}

// ═══════════════════════════════════════════════════════════
// Attendance
// ═══════════════════════════════════════════════════════════

func TestAttendance_CreateIfAbsent_SecondCallReturnsStoredRow(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.NewString()

	first, created, err := repo.Attendance.CreateIfAbsent(ctx, newPresent(userID))
	if err != nil || !created {
		t.Fatalf("first insert: created=%v err=%v", created, err)
	}

	second, created, err := repo.Attendance.CreateIfAbsent(ctx, newPresent(userID))
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if created {
		t.Fatal("second insert must not create a row")
	}
	if second.AttendanceID != first.AttendanceID {
		t.Errorf("expected stored row %s, got %s", first.AttendanceID, second.AttendanceID)
	}
}

func TestAttendance_CreateIfAbsent_RolesAreIndependent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.NewString()

	if _, created, _ := repo.Attendance.CreateIfAbsent(ctx, newPresent(userID)); !created {
		t.Fatal("student row should be created")
	}
	staffRec := newPresent(userID)
	staffRec.Role = model.RoleStaff
	if _, created, err := repo.Attendance.CreateIfAbsent(ctx, staffRec); err != nil || !created {
		t.Fatalf("staff row should be created: created=%v err=%v", created, err)
	}
}

func TestAttendance_CreateIfAbsent_ConcurrentSubmissions(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.NewString()

	const workers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		creates  int
		firstErr error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := repo.Attendance.CreateIfAbsent(ctx, newPresent(userID))
			mu.Lock()
			defer mu.Unlock()
			if err != nil && firstErr == nil {
				firstErr = err
			}
			if created {
				creates++
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		t.Fatalf("unexpected error: %v", firstErr)
	}
	if creates != 1 {
		t.Errorf("expected exactly one created row, got %d", creates)
	}

	var n int64
	db.Model(&model.AttendanceRecord{}).Where("user_id = ?", userID).Count(&n)
	if n != 1 {
		t.Errorf("expected 1 stored row, got %d", n)
	}
}

func TestAttendance_UpsertStatus_InsertsThenFlips(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.NewString()

	absent := &model.AttendanceRecord{
		UserID: userID,
		Role:   model.RoleStudent,
		Date:   day,
		Method: model.MethodManual,
		Status: model.StatusAbsent,
	}
	got, err := repo.Attendance.UpsertStatus(ctx, absent)
	if err != nil {
		t.Fatalf("UpsertStatus insert: %v", err)
	}
	if got.Status != model.StatusAbsent || got.Method != model.MethodManual {
		t.Fatalf("unexpected row: %+v", got)
	}

	present := *absent
	present.AttendanceID = ""
	present.Status = model.StatusPresent
	flipped, err := repo.Attendance.UpsertStatus(ctx, &present)
	if err != nil {
		t.Fatalf("UpsertStatus update: %v", err)
	}
	if flipped.AttendanceID != got.AttendanceID {
		t.Error("upsert must keep the existing row")
	}
	if flipped.Status != model.StatusPresent {
		t.Errorf("expected Present, got %s", flipped.Status)
	}
}

func TestAttendance_CountPresent_HalfOpenRange(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.NewString()

	days := []time.Time{
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range days {
		rec := newPresent(userID)
		rec.Role = model.RoleStaff
		rec.Date = d
		if _, _, err := repo.Attendance.CreateIfAbsent(ctx, rec); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	n, err := repo.Attendance.CountPresent(ctx, userID, model.RoleStaff,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("CountPresent: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 days in March, got %d", n)
	}
}

func TestAttendance_ListByUser_NewestFirst(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.NewString()

	for i := 0; i < 5; i++ {
		rec := newPresent(userID)
		rec.Date = day.AddDate(0, 0, i)
		if _, _, err := repo.Attendance.CreateIfAbsent(ctx, rec); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	// same user under another role on a later day
	other := newPresent(userID)
	other.Role = model.RoleStaff
	other.Date = day.AddDate(0, 0, 10)
	if _, _, err := repo.Attendance.CreateIfAbsent(ctx, other); err != nil {
		t.Fatalf("seed staff row: %v", err)
	}

	list, err := repo.Attendance.ListByUser(ctx, userID, model.RoleStudent, 3)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(list))
	}
	if !list[0].Date.Equal(day.AddDate(0, 0, 4)) {
		t.Errorf("expected newest student day first, got %v", list[0].Date)
	}
	for _, rec := range list {
		if rec.Role != model.RoleStudent {
			t.Errorf("row of role %s leaked into student history", rec.Role)
		}
	}
}

func TestAttendance_ListByUserSince_InclusiveLowerBound(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.NewString()

	for i := 0; i < 5; i++ {
		rec := newPresent(userID)
		rec.Role = model.RoleStaff
		rec.Date = day.AddDate(0, 0, i)
		if _, _, err := repo.Attendance.CreateIfAbsent(ctx, rec); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	list, err := repo.Attendance.ListByUserSince(ctx, userID, model.RoleStaff, day.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("ListByUserSince: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected days 2..4, got %d rows", len(list))
	}
	if !list[2].Date.Equal(day.AddDate(0, 0, 2)) {
		t.Errorf("expected the bound day last, got %v", list[2].Date)
	}

	none, err := repo.Attendance.ListByUserSince(ctx, userID, model.RoleStudent, day)
	if err != nil {
		t.Fatalf("ListByUserSince: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no student rows, got %d", len(none))
	}
}

// ═══════════════════════════════════════════════════════════
// QR sessions
// ═══════════════════════════════════════════════════════════

func TestQRSession_GetValidByToken_ExpiryBoundary(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	expiresAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	s := &model.QRSession{Token: "abc123", ExpiresAt: expiresAt, IssuedBy: uuid.NewString()}
	if err := repo.QRSession.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.QRSession.GetValidByToken(ctx, "abc123", expiresAt.Add(-time.Second)); err != nil {
		t.Errorf("token should be valid before expiry: %v", err)
	}
	if _, err := repo.QRSession.GetValidByToken(ctx, "abc123", expiresAt); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("token must be invalid at expiry, got %v", err)
	}
	if _, err := repo.QRSession.GetValidByToken(ctx, "missing", expiresAt.Add(-time.Hour)); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("unknown token must not be found, got %v", err)
	}
}

func TestQRSession_DuplicateTokenRejected(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	if err := repo.QRSession.Create(ctx, &model.QRSession{Token: "dup", ExpiresAt: exp, IssuedBy: uuid.NewString()}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.QRSession.Create(ctx, &model.QRSession{Token: "dup", ExpiresAt: exp, IssuedBy: uuid.NewString()})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}

func TestQRSession_GetActiveByIssuer_Newest(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	issuer := uuid.NewString()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	startOfDay := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	older := &model.QRSession{Token: "older", ExpiresAt: now.Add(time.Hour), IssuedBy: issuer, CreatedAt: now.Add(-2 * time.Hour)}
	newer := &model.QRSession{Token: "newer", ExpiresAt: now.Add(time.Hour), IssuedBy: issuer, CreatedAt: now.Add(-time.Hour)}
	expired := &model.QRSession{Token: "expired", ExpiresAt: now.Add(-time.Minute), IssuedBy: issuer, CreatedAt: now.Add(-30 * time.Minute)}
	for _, s := range []*model.QRSession{older, newer, expired} {
		if err := repo.QRSession.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.QRSession.GetActiveByIssuer(ctx, issuer, now, startOfDay)
	if err != nil {
		t.Fatalf("GetActiveByIssuer: %v", err)
	}
	if got.Token != "newer" {
		t.Errorf("expected newest active session, got %s", got.Token)
	}

	if _, err := repo.QRSession.GetActiveByIssuer(ctx, uuid.NewString(), now, startOfDay); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("other issuer must have no active session, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Salaries
// ═══════════════════════════════════════════════════════════

func TestSalary_UpsertComputed_PreservesPaid(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	staffID := uuid.NewString()

	first, err := repo.Salary.UpsertComputed(ctx, &model.SalaryRecord{
		StaffID: staffID, Month: "2026-03", TotalPresentDays: 10, CalculatedAmount: 5000, Status: model.SalaryPending,
	})
	if err != nil {
		t.Fatalf("UpsertComputed: %v", err)
	}
	if err := repo.Salary.UpdateStatus(ctx, first.SalaryID, model.SalaryPaid); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	second, err := repo.Salary.UpsertComputed(ctx, &model.SalaryRecord{
		StaffID: staffID, Month: "2026-03", TotalPresentDays: 12, CalculatedAmount: 6000, Status: model.SalaryPending,
	})
	if err != nil {
		t.Fatalf("UpsertComputed recompute: %v", err)
	}
	if second.SalaryID != first.SalaryID {
		t.Error("recompute must update the existing row")
	}
	if second.Status != model.SalaryPaid {
		t.Errorf("expected Paid to survive recompute, got %s", second.Status)
	}
	if second.TotalPresentDays != 12 || second.CalculatedAmount != 6000 {
		t.Errorf("expected refreshed figures, got %d/%d", second.TotalPresentDays, second.CalculatedAmount)
	}
}

func TestSalary_ListByStaff_Limit(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	staffID := uuid.NewString()

	for m := 1; m <= 4; m++ {
		if _, err := repo.Salary.UpsertComputed(ctx, &model.SalaryRecord{
			StaffID: staffID, Month: fmt.Sprintf("2026-%02d", m), Status: model.SalaryPending,
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	list, err := repo.Salary.ListByStaff(ctx, staffID, 2)
	if err != nil {
		t.Fatalf("ListByStaff: %v", err)
	}
	if len(list) != 2 || list[0].Month != "2026-04" || list[1].Month != "2026-03" {
		t.Errorf("expected the two newest months, got %+v", list)
	}

	all, err := repo.Salary.ListByStaff(ctx, staffID, 0)
	if err != nil {
		t.Fatalf("ListByStaff: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected every row without a limit, got %d", len(all))
	}
}

func TestSalary_UpdateStatus_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.Salary.UpdateStatus(context.Background(), uuid.NewString(), model.SalaryPaid)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected gorm.ErrRecordNotFound, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Users
// ═══════════════════════════════════════════════════════════

func TestUser_SaveFaceDescriptor_RoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	u := &model.User{Name: "Asha", Email: "asha@example.com", PasswordHash: "x", Role: model.RoleStaff}
	if err := repo.User.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	desc := make([]float64, 128)
	desc[0], desc[127] = 0.25, -0.5
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	if err := repo.User.SaveFaceDescriptor(ctx, u.UserID, desc, at); err != nil {
		t.Fatalf("SaveFaceDescriptor: %v", err)
	}

	got, err := repo.User.GetByID(ctx, u.UserID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.FaceRegistered {
		t.Error("expected FaceRegistered=true")
	}
	if len(got.FaceDescriptor) != 128 || got.FaceDescriptor[0] != 0.25 || got.FaceDescriptor[127] != -0.5 {
		t.Errorf("descriptor not preserved: len=%d", len(got.FaceDescriptor))
	}

	if err := repo.User.SaveFaceDescriptor(ctx, uuid.NewString(), desc, at); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("unknown user must return gorm.ErrRecordNotFound, got %v", err)
	}
}

func TestUser_DuplicateEmailRejected(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if err := repo.User.Create(ctx, &model.User{Name: "A", Email: "same@example.com", PasswordHash: "x", Role: model.RoleStudent}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.User.Create(ctx, &model.User{Name: "B", Email: "same@example.com", PasswordHash: "x", Role: model.RoleStudent})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Students
// ═══════════════════════════════════════════════════════════

func TestStudent_ListAll_OrderedByName(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i, name := range []string{"Zoya", "Arjun", "Meena"} {
		if err := repo.Student.Create(ctx, &model.Student{
			FullName:        name,
			StudentCode:     fmt.Sprintf("STU%d", i),
			MembershipStart: day,
			Status:          model.StudentActive,
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	list, err := repo.Student.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(list) != 3 || list[0].FullName != "Arjun" || list[2].FullName != "Zoya" {
		t.Errorf("unexpected order %+v", list)
	}
}
