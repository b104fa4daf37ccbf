package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"library-management/backend/internal/model"
	"library-management/backend/internal/repository"
	"library-management/backend/pkg/redis"
)

// mockDB backs every mock repository so preloads can follow references.
type mockDB struct {
	mu         sync.Mutex
	seq        int
	users      map[string]*model.User
	students   map[string]*model.Student
	staff      map[string]*model.Staff
	attendance map[string]*model.AttendanceRecord
	sessions   map[string]*model.QRSession
	salaries   map[string]*model.SalaryRecord
}

func newMockDB() *mockDB {
	return &mockDB{
		users:      make(map[string]*model.User),
		students:   make(map[string]*model.Student),
		staff:      make(map[string]*model.Staff),
		attendance: make(map[string]*model.AttendanceRecord),
		sessions:   make(map[string]*model.QRSession),
		salaries:   make(map[string]*model.SalaryRecord),
	}
}

func (m *mockDB) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

// newMockRepository returns the aggregate over db.
func newMockRepository(db *mockDB) *repository.Repository {
	return &repository.Repository{
		User:       &mockUserRepo{db},
		Student:    &mockStudentRepo{db},
		Staff:      &mockStaffRepo{db},
		Attendance: &mockAttendanceRepo{db},
		QRSession:  &mockQRSessionRepo{db},
		Salary:     &mockSalaryRepo{db},
	}
}

// ── Mock UserRepository ──

type mockUserRepo struct{ db *mockDB }

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, u := range m.db.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = m.db.nextID("user")
	}
	m.db.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if u, ok := m.db.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, u := range m.db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) SaveFaceDescriptor(_ context.Context, userID string, descriptor []float64, registeredAt time.Time) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u, ok := m.db.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.FaceDescriptor = append([]float64(nil), descriptor...)
	u.FaceRegistered = true
	u.FaceRegistrationDate = &registeredAt
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct{ db *mockDB }

func (m *mockStudentRepo) Create(_ context.Context, s *model.Student) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, existing := range m.db.students {
		if s.UserID != nil && existing.UserID != nil && *existing.UserID == *s.UserID {
			return gorm.ErrDuplicatedKey
		}
		if existing.StudentCode == s.StudentCode {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.StudentID == "" {
		s.StudentID = m.db.nextID("student")
	}
	m.db.students[s.StudentID] = s
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if s, ok := m.db.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByUserID(_ context.Context, userID string) (*model.Student, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, s := range m.db.students {
		if s.UserID != nil && *s.UserID == userID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) ListByIDs(_ context.Context, ids []string) ([]model.Student, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.Student
	for _, id := range ids {
		if s, ok := m.db.students[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockStudentRepo) ListAll(_ context.Context) ([]model.Student, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	result := make([]model.Student, 0, len(m.db.students))
	for _, s := range m.db.students {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StudentID < result[j].StudentID })
	return result, nil
}

// ── Mock StaffRepository ──

type mockStaffRepo struct{ db *mockDB }

func (m *mockStaffRepo) Create(_ context.Context, s *model.Staff) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, existing := range m.db.staff {
		if existing.UserID == s.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.StaffID == "" {
		s.StaffID = m.db.nextID("staff")
	}
	m.db.staff[s.StaffID] = s
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*model.Staff, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if s, ok := m.db.staff[id]; ok {
		cp := *s
		cp.User = m.db.users[s.UserID]
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) GetByUserID(_ context.Context, userID string) (*model.Staff, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, s := range m.db.staff {
		if s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) ListActive(_ context.Context) ([]model.Staff, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.Staff
	for _, s := range m.db.staff {
		if s.Active {
			cp := *s
			cp.User = m.db.users[s.UserID]
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StaffID < result[j].StaffID })
	return result, nil
}

func (m *mockStaffRepo) ListAll(_ context.Context) ([]model.Staff, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.Staff
	for _, s := range m.db.staff {
		cp := *s
		cp.User = m.db.users[s.UserID]
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StaffID < result[j].StaffID })
	return result, nil
}

func (m *mockStaffRepo) Update(_ context.Context, s *model.Staff) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.staff[s.StaffID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *s
	m.db.staff[s.StaffID] = &cp
	return nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct{ db *mockDB }

func attendanceKey(userID, role string, day time.Time) string {
	return userID + "|" + role + "|" + day.Format(time.DateOnly)
}

func (m *mockAttendanceRepo) CreateIfAbsent(_ context.Context, rec *model.AttendanceRecord) (*model.AttendanceRecord, bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	key := attendanceKey(rec.UserID, rec.Role, rec.Date)
	if existing, ok := m.db.attendance[key]; ok {
		cp := *existing
		return &cp, false, nil
	}
	if rec.AttendanceID == "" {
		rec.AttendanceID = m.db.nextID("att")
	}
	cp := *rec
	m.db.attendance[key] = &cp
	out := cp
	return &out, true, nil
}

func (m *mockAttendanceRepo) UpsertStatus(_ context.Context, rec *model.AttendanceRecord) (*model.AttendanceRecord, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	key := attendanceKey(rec.UserID, rec.Role, rec.Date)
	if existing, ok := m.db.attendance[key]; ok {
		existing.Status = rec.Status
		existing.StudentID = rec.StudentID
		cp := *existing
		return &cp, nil
	}
	if rec.AttendanceID == "" {
		rec.AttendanceID = m.db.nextID("att")
	}
	cp := *rec
	m.db.attendance[key] = &cp
	out := cp
	return &out, nil
}

func (m *mockAttendanceRepo) GetForDay(_ context.Context, userID, role string, day time.Time) (*model.AttendanceRecord, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if rec, ok := m.db.attendance[attendanceKey(userID, role, day)]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ListByUser(_ context.Context, userID, role string, limit int) ([]model.AttendanceRecord, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.AttendanceRecord
	for _, rec := range m.db.attendance {
		if rec.UserID == userID && rec.Role == role {
			result = append(result, *rec)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByUserSince(_ context.Context, userID, role string, since time.Time) ([]model.AttendanceRecord, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.AttendanceRecord
	for _, rec := range m.db.attendance {
		if rec.UserID == userID && rec.Role == role && !rec.Date.Before(since) {
			result = append(result, *rec)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	return result, nil
}

func (m *mockAttendanceRepo) ListByDate(_ context.Context, day time.Time) ([]model.AttendanceRecord, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.AttendanceRecord
	for _, rec := range m.db.attendance {
		if rec.Date.Equal(day) {
			cp := *rec
			cp.User = m.db.users[rec.UserID]
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AttendanceID < result[j].AttendanceID })
	return result, nil
}

func (m *mockAttendanceRepo) CountPresent(_ context.Context, userID, role string, from, to time.Time) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var n int64
	for _, rec := range m.db.attendance {
		if rec.UserID == userID && rec.Role == role && rec.Status == model.StatusPresent &&
			!rec.Date.Before(from) && rec.Date.Before(to) {
			n++
		}
	}
	return n, nil
}

// ── Mock QRSessionRepository ──

type mockQRSessionRepo struct{ db *mockDB }

func (m *mockQRSessionRepo) Create(_ context.Context, s *model.QRSession) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.sessions[s.Token]; ok {
		return gorm.ErrDuplicatedKey
	}
	if s.QRSessionID == "" {
		s.QRSessionID = m.db.nextID("qr")
	}
	cp := *s
	m.db.sessions[s.Token] = &cp
	return nil
}

func (m *mockQRSessionRepo) GetValidByToken(_ context.Context, token string, now time.Time) (*model.QRSession, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if s, ok := m.db.sessions[token]; ok && s.ValidAt(now) {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQRSessionRepo) GetActiveByIssuer(_ context.Context, issuerID string, now, since time.Time) (*model.QRSession, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var best *model.QRSession
	for _, s := range m.db.sessions {
		if s.IssuedBy != issuerID || !s.ValidAt(now) || s.CreatedAt.Before(since) {
			continue
		}
		if best == nil || s.CreatedAt.After(best.CreatedAt) {
			best = s
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *best
	return &cp, nil
}

// ── Mock SalaryRepository ──

type mockSalaryRepo struct{ db *mockDB }

func (m *mockSalaryRepo) UpsertComputed(_ context.Context, rec *model.SalaryRecord) (*model.SalaryRecord, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, existing := range m.db.salaries {
		if existing.StaffID == rec.StaffID && existing.Month == rec.Month {
			existing.TotalPresentDays = rec.TotalPresentDays
			existing.CalculatedAmount = rec.CalculatedAmount
			cp := *existing
			return &cp, nil
		}
	}
	if rec.SalaryID == "" {
		rec.SalaryID = m.db.nextID("salary")
	}
	cp := *rec
	m.db.salaries[rec.SalaryID] = &cp
	out := cp
	return &out, nil
}

func (m *mockSalaryRepo) withStaff(rec *model.SalaryRecord) model.SalaryRecord {
	cp := *rec
	if st, ok := m.db.staff[rec.StaffID]; ok {
		stCopy := *st
		stCopy.User = m.db.users[st.UserID]
		cp.Staff = &stCopy
	}
	return cp
}

func (m *mockSalaryRepo) GetByID(_ context.Context, id string) (*model.SalaryRecord, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if rec, ok := m.db.salaries[id]; ok {
		cp := m.withStaff(rec)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSalaryRepo) GetByStaffMonth(_ context.Context, staffID, month string) (*model.SalaryRecord, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, rec := range m.db.salaries {
		if rec.StaffID == staffID && rec.Month == month {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSalaryRepo) ListByStaff(_ context.Context, staffID string, limit int) ([]model.SalaryRecord, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.SalaryRecord
	for _, rec := range m.db.salaries {
		if rec.StaffID == staffID {
			result = append(result, *rec)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month > result[j].Month })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockSalaryRepo) ListAll(_ context.Context, month string) ([]model.SalaryRecord, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.SalaryRecord
	for _, rec := range m.db.salaries {
		if month == "" || rec.Month == month {
			result = append(result, m.withStaff(rec))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SalaryID < result[j].SalaryID })
	return result, nil
}

func (m *mockSalaryRepo) UpdateStatus(_ context.Context, id, status string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	rec, ok := m.db.salaries[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	rec.Status = status
	return nil
}

// ── Mock QRSessionCache ──

type mockQRCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
}

func newMockQRCache() *mockQRCache {
	return &mockQRCache{entries: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (c *mockQRCache) CacheQRSession(_ context.Context, token string, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = payload
	c.ttls[token] = ttl
	return nil
}

func (c *mockQRCache) GetQRSession(_ context.Context, token string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.entries[token]; ok {
		return b, nil
	}
	return nil, redis.ErrCacheMiss
}

// ── Mock TokenRevoker ──

type mockRevoker struct {
	revoked map[string]time.Duration
}

func (r *mockRevoker) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	r.revoked[jti] = ttl
	return nil
}

// ── fixtures ──

// fakeClock is a settable Clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

var testLoc = mustLoadLocation("Asia/Kolkata")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func seedUser(db *mockDB, id, name, role string) *model.User {
	u := &model.User{UserID: id, Name: name, Email: id + "@library.test", Role: role}
	db.users[id] = u
	return u
}

func seedStudent(db *mockDB, studentID, userID string) *model.Student {
	s := &model.Student{StudentID: studentID, FullName: "Student " + studentID, StudentCode: "STU-" + studentID, Status: model.StudentActive}
	if userID != "" {
		uid := userID
		s.UserID = &uid
	}
	db.students[studentID] = s
	return s
}

func seedStaff(db *mockDB, staffID, userID, salaryType string, base int64) *model.Staff {
	s := &model.Staff{StaffID: staffID, UserID: userID, Designation: "Assistant", SalaryType: salaryType, BaseSalary: base, Active: true}
	db.staff[staffID] = s
	return s
}

func seedAttendance(db *mockDB, userID, role, status string, day time.Time) {
	db.attendance[attendanceKey(userID, role, day)] = &model.AttendanceRecord{
		AttendanceID: db.nextID("att"),
		UserID:       userID,
		Role:         role,
		Date:         day,
		Method:       model.MethodManual,
		Status:       status,
	}
}
