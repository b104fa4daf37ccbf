package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"library-management/backend/internal/repository"
)

var ErrExportGenerateFail = errors.New("failed to generate Excel file")

// ExportService renders administrator reports as .xlsx workbooks.
// The handler sets the response headers and streams the buffer.
type ExportService interface {
	// ExportAttendance exports one day of attendance; empty date means today.
	ExportAttendance(ctx context.Context, date string) (*bytes.Buffer, string, error)
	// ExportSalaries exports the payroll rows of a YYYY-MM month.
	ExportSalaries(ctx context.Context, month string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo       *repository.Repository
	attendance AttendanceService
	salary     SalaryService
	logger     *zap.Logger
}

// NewExportService returns an ExportService reading through the attendance and salary services.
func NewExportService(repo *repository.Repository, attendance AttendanceService, salary SalaryService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, attendance: attendance, salary: salary, logger: logger}
}

// ────────────────────── attendance ──────────────────────

func (s *exportService) ExportAttendance(ctx context.Context, date string) (*bytes.Buffer, string, error) {
	records, err := s.attendance.ListByDate(ctx, date)
	if err != nil {
		return nil, "", err
	}

	// student codes for the student rows
	var ids []string
	for _, r := range records {
		if r.StudentID != "" {
			ids = append(ids, r.StudentID)
		}
	}
	codes := make(map[string]string, len(ids))
	if len(ids) > 0 {
		students, err := s.repo.Student.ListByIDs(ctx, ids)
		if err != nil {
			s.logger.Error("failed to load students for export", zap.Error(err))
			return nil, "", err
		}
		for _, st := range students {
			codes[st.StudentID] = st.StudentCode
		}
	}

	day := date
	if len(records) > 0 {
		day = records[0].Date
	}

	headers := []string{"Name", "Role", "Student Code", "Status", "Method", "Check-in (UTC)", "Address"}
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		address := ""
		if r.Location != nil {
			address = r.Location.Address
		}
		rows = append(rows, []any{r.UserName, r.Role, codes[r.StudentID], r.Status, r.Method, r.CheckInTime, address})
	}

	title := "Attendance"
	if day != "" {
		title = "Attendance " + day
	}
	buf, err := s.workbook("Attendance", title, headers, rows, []float64{24, 10, 16, 10, 10, 22, 32})
	if err != nil {
		return nil, "", err
	}
	if day == "" {
		day = "today"
	}
	return buf, fmt.Sprintf("attendance_%s.xlsx", day), nil
}

// ────────────────────── salaries ──────────────────────

func (s *exportService) ExportSalaries(ctx context.Context, month string) (*bytes.Buffer, string, error) {
	if _, _, err := MonthRange(month); err != nil {
		return nil, "", err
	}

	records, err := s.salary.ListAll(ctx, month)
	if err != nil {
		return nil, "", err
	}

	headers := []string{"Staff", "Month", "Present Days", "Amount", "Status"}
	rows := make([][]any, 0, len(records))
	var total int64
	for _, r := range records {
		rows = append(rows, []any{r.StaffName, r.Month, r.TotalPresentDays, r.CalculatedAmount, r.Status})
		total += r.CalculatedAmount
	}
	rows = append(rows, []any{"Total", "", "", total, ""})

	buf, err := s.workbook("Salaries", "Salaries "+month, headers, rows, []float64{24, 10, 14, 14, 10})
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("salaries_%s.xlsx", month), nil
}

// workbook lays out a title row, a header row and the data rows on a single sheet.
func (s *exportService) workbook(sheet, title string, headers []string, rows [][]any, widths []float64) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheet, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheet, "A1", title)
	f.MergeCell(sheet, "A1", cell(colName(len(headers)-1), 1))
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	for i, h := range headers {
		f.SetCellValue(sheet, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheet, "A2", cell(colName(len(headers)-1), 2), headerStyle)

	for r, values := range rows {
		for c, v := range values {
			f.SetCellValue(sheet, cell(colName(c), r+3), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("failed to write Excel", zap.String("sheet", sheet), zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	return buf, nil
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

