package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"library-management/backend/internal/model"
)

// AttendanceRepository attendance data access.
//
// Writes rely on the unique index over (user_id, role, date) rather than a
// read-then-write check, so concurrent submissions converge to one row.
type AttendanceRepository interface {
	// CreateIfAbsent inserts rec unless its (user, role, date) row exists.
	// It returns the stored row and whether rec is the row that was inserted.
	CreateIfAbsent(ctx context.Context, rec *model.AttendanceRecord) (*model.AttendanceRecord, bool, error)
	// UpsertStatus inserts rec or overwrites status on the existing row.
	UpsertStatus(ctx context.Context, rec *model.AttendanceRecord) (*model.AttendanceRecord, error)
	GetForDay(ctx context.Context, userID, role string, day time.Time) (*model.AttendanceRecord, error)
	// ListByUser returns the newest limit rows the user recorded under role.
	ListByUser(ctx context.Context, userID, role string, limit int) ([]model.AttendanceRecord, error)
	// ListByUserSince returns rows with date >= since, newest first.
	ListByUserSince(ctx context.Context, userID, role string, since time.Time) ([]model.AttendanceRecord, error)
	ListByDate(ctx context.Context, day time.Time) ([]model.AttendanceRecord, error)
	// CountPresent counts Present rows with from <= date < to.
	CountPresent(ctx context.Context, userID, role string, from, to time.Time) (int64, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo returns the GORM AttendanceRepository.
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

var attendanceKey = []clause.Column{{Name: "user_id"}, {Name: "role"}, {Name: "date"}}

func (r *attendanceRepo) CreateIfAbsent(ctx context.Context, rec *model.AttendanceRecord) (*model.AttendanceRecord, bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: attendanceKey, DoNothing: true}).
		Create(rec)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return rec, true, nil
	}

	existing, err := r.GetForDay(ctx, rec.UserID, rec.Role, rec.Date)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *attendanceRepo) UpsertStatus(ctx context.Context, rec *model.AttendanceRecord) (*model.AttendanceRecord, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   attendanceKey,
			DoUpdates: clause.AssignmentColumns([]string{"status", "student_id", "updated_at"}),
		}).
		Create(rec).Error
	if err != nil {
		return nil, err
	}
	return r.GetForDay(ctx, rec.UserID, rec.Role, rec.Date)
}

func (r *attendanceRepo) GetForDay(ctx context.Context, userID, role string, day time.Time) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND role = ? AND date = ?", userID, role, day).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *attendanceRepo) ListByUser(ctx context.Context, userID, role string, limit int) ([]model.AttendanceRecord, error) {
	var list []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Order("date DESC, created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *attendanceRepo) ListByUserSince(ctx context.Context, userID, role string, since time.Time) ([]model.AttendanceRecord, error) {
	var list []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND role = ? AND date >= ?", userID, role, since).
		Order("date DESC").
		Find(&list).Error
	return list, err
}

func (r *attendanceRepo) ListByDate(ctx context.Context, day time.Time) ([]model.AttendanceRecord, error) {
	var list []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("date = ?", day).
		Order("check_in_time ASC, created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *attendanceRepo) CountPresent(ctx context.Context, userID, role string, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("user_id = ? AND role = ? AND status = ?", userID, role, model.StatusPresent).
		Where("date >= ? AND date < ?", from, to).
		Count(&n).Error
	return n, err
}
